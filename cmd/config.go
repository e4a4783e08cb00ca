package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tabhan/oro-product-manager/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long: `Display the resolved oroctl configuration. The client secret is masked.

Examples:
  oroctl config                # Show all config
  oroctl config --path         # Show config file path
  oroctl config --json         # Output as JSON`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().Bool("path", false, "show config file path")
	configCmd.Flags().Bool("json", false, "output as JSON")
}

func runConfig(cmd *cobra.Command, args []string) error {
	printer := newPrinter()

	showPath, _ := cmd.Flags().GetBool("path")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if showPath {
		if cfg.File == "" {
			printer.Info("No config file found (using environment and defaults)")
		} else {
			printer.Info("Config file: %s", cfg.File)
		}
		return nil
	}

	if jsonOutput {
		view := map[string]any{
			"base_url":      cfg.BaseURL,
			"client_id":     cfg.ClientID,
			"client_secret": maskSecret(cfg.ClientSecret),
			"admin_path":    cfg.AdminPath,
			"timeout":       cfg.Timeout.String(),
			"logging":       cfg.Logging,
			"output":        cfg.Output,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	printer.Header("Current Configuration")

	table := output.NewTable([]string{"KEY", "VALUE"})
	table.AddRow([]string{"base_url", cfg.BaseURL})
	table.AddRow([]string{"client_id", cfg.ClientID})
	table.AddRow([]string{"client_secret", maskSecret(cfg.ClientSecret)})
	table.AddRow([]string{"admin_path", cfg.AdminPath})
	table.AddRow([]string{"timeout", cfg.Timeout.String()})
	table.AddRow([]string{"logging.level", cfg.Logging.Level})
	table.AddRow([]string{"logging.format", cfg.Logging.Format})
	table.AddRow([]string{"output.colors", fmt.Sprintf("%v", cfg.Output.Colors)})
	table.Render()

	fmt.Println()
	printer.Info("Token endpoint: %s", cfg.TokenURL())
	printer.Info("Products endpoint: %s", cfg.APIURL("/products"))

	return nil
}

// maskSecret hides all but the last four characters of a credential.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
