// File path: internal/cli/serve.go
package cli

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ametcalf/busshift/internal/api"
	"github.com/ametcalf/busshift/internal/catalog"
	"github.com/ametcalf/busshift/internal/common"
	"github.com/ametcalf/busshift/internal/llm"
)

var (
	serveAddr     string
	serveDBPath   string
	serveWorkRoot string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := common.Logger()

		store, err := catalog.Open(serveDBPath)
		if err != nil {
			return fmt.Errorf("open catalog: %w", err)
		}
		defer store.Close()

		provider := llm.NewProvider()
		logger.Info("cli: llm provider ready", "provider", provider.Name())

		cfg := api.DefaultConfig()
		if strings.TrimSpace(serveWorkRoot) != "" {
			cfg.WorkRoot = serveWorkRoot
		}
		server, err := api.NewServer(store, provider, &cfg)
		if err != nil {
			return fmt.Errorf("build server: %w", err)
		}

		logger.Info("cli: server listening", "addr", serveAddr, "health", "/healthz")
		fmt.Printf("Serving on %s\n", serveAddr)
		if err := http.ListenAndServe(serveAddr, server); err != nil {
			logger.Error("cli: server stopped", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8081", "listen address")
	serveCmd.Flags().StringVar(&serveDBPath, "db", defaultDBPath(), "path to the SQLite catalog database")
	serveCmd.Flags().StringVar(&serveWorkRoot, "work-root", "", "directory for cloned repositories")
}

func defaultDBPath() string {
	if env := strings.TrimSpace(os.Getenv("BUSSHIFT_DB_PATH")); env != "" {
		return env
	}
	return filepath.Join("data", "busshift.db")
}
