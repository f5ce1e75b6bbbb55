// File path: internal/cli/root.go
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ametcalf/busshift/internal/common"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "busshift",
	Short: "Kafka to Azure Service Bus migration analyzer",
	Long: "Busshift scans .NET repositories for Kafka usage, generates migration diffs " +
		"with an LLM, and renders structured migration reports.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := common.Logger()
		if err := godotenv.Load(); err != nil {
			logger.Debug("cli: .env file not loaded", "error", err)
		} else {
			logger.Info("cli: environment loaded from .env")
		}
	},
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print busshift version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("busshift version %s\n", version)
	},
}
