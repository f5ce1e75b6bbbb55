// File path: internal/cli/parse.go
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ametcalf/busshift/internal/report"
)

var (
	parseOutput  string
	parseRepoURL string
)

var parseCmd = &cobra.Command{
	Use:   "parse <report.md>",
	Short: "Parse an existing markdown report into structured JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read report: %w", err)
		}
		rep := report.Parse(string(data))
		doc := report.BuildDocument(rep, report.NewMeta(parseRepoURL, time.Now()))

		payload, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		if strings.TrimSpace(parseOutput) == "" {
			cmd.Println(string(payload))
			return nil
		}
		if err := os.WriteFile(parseOutput, payload, 0o644); err != nil {
			return fmt.Errorf("write document: %w", err)
		}
		cmd.Printf("Wrote %s\n", parseOutput)
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "write the JSON document to this file instead of stdout")
	parseCmd.Flags().StringVar(&parseRepoURL, "repo-url", "", "repository URL recorded in the document meta")
}
