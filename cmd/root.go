// Package cmd contains all CLI commands for oroctl
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tabhan/oro-product-manager/internal/config"
	"github.com/tabhan/oro-product-manager/internal/oro"
	"github.com/tabhan/oro-product-manager/internal/output"
)

var (
	cfgFile string
	verbose bool
	quiet   bool
	dryRun  bool
	cfg     *config.Config
	logger  *slog.Logger
	version = "dev"
)

// rootCmd represents the base command; invoking it performs the upsert
var rootCmd = &cobra.Command{
	Use:   "oroctl --sku SKU --name NAME",
	Short: "Create or update an OroCommerce product by SKU",
	Long: `oroctl creates or updates one product on an OroCommerce instance.

It authenticates via the OAuth2 client-credentials grant, looks the product
up by SKU, and issues exactly one create or update call. The SKU is the sole
identity key: a missing record is created, an existing one is patched with
only the fields you supplied.

Example usage:
  oroctl --sku PROD001 --name "Test Product"
  oroctl --sku PROD001 --name "Updated Name" --inventory-status out_of_stock
  oroctl --sku PROD001 --name "Test Product" --dry-run
  oroctl config                # Show resolved connection settings`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runUpsert,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	oro.SetUserAgent("oroctl/" + v)
}

func init() {
	// Assigned here rather than in the composite literal to avoid an
	// initialization cycle: the closure refers to rootCmd.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "version", "completion", "help":
			initLogger()
			return nil
		}
		// Usage errors surface before configuration is touched and long
		// before any network call.
		if cmd == rootCmd {
			if err := checkUpsertFlags(cmd); err != nil {
				return err
			}
		}
		return initConfig()
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yaml; .env files are accepted)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "print requests without sending them")

	// Flag parse failures are usage errors, not general failures
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &output.CLIError{
			Summary:    err.Error(),
			Suggestion: "run 'oroctl --help' for the full flag surface",
			ExitCode:   output.ExitUsageError,
		}
	})
}

// initLogger sets up the slog logger from the --verbose flag alone, for
// commands that run without configuration.
func initLogger() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	initLogger()

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Update logger based on config
	level := slog.LevelInfo
	if cfg.Logging.Level == "debug" || verbose {
		level = slog.LevelDebug
	}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	logger = slog.New(handler)

	logger.Debug("configuration loaded",
		"base_url", cfg.BaseURL,
		"admin_path", cfg.AdminPath,
		"timeout", cfg.Timeout,
		"config_file", cfg.File,
	)

	return nil
}

// newPrinter builds the printer shared by the commands from the resolved
// config and global flags.
func newPrinter() *output.Printer {
	colors := true
	if cfg != nil {
		colors = cfg.Output.Colors
	}
	return output.NewPrinterWithOptions(output.PrinterOptions{
		ColorMode:    output.ColorAuto,
		ConfigColors: colors,
		Quiet:        quiet,
	})
}
