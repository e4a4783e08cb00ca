package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/tabhan/oro-product-manager/internal/oro"
	"github.com/tabhan/oro-product-manager/internal/output"
)

func init() {
	rootCmd.Flags().String("sku", "", "product SKU, the identity key (required)")
	rootCmd.Flags().String("name", "", "product name (required)")
	rootCmd.Flags().String("unit", oro.DefaultUnit, "product unit code, applied on create only")
	rootCmd.Flags().String("inventory-status", oro.DefaultInventoryStatus, "inventory status")
	rootCmd.Flags().Bool("json", false, "output the result as JSON")
}

// checkUpsertFlags enforces the required flags; it runs before config
// loading so their absence is always a usage error.
func checkUpsertFlags(cmd *cobra.Command) error {
	sku, _ := cmd.Flags().GetString("sku")
	name, _ := cmd.Flags().GetString("name")
	if sku == "" || name == "" {
		return &output.CLIError{
			Summary:    "--sku and --name are required",
			Suggestion: "oroctl --sku SKU --name NAME [--unit UNIT] [--inventory-status STATUS]",
			ExitCode:   output.ExitUsageError,
		}
	}
	return nil
}

func runUpsert(cmd *cobra.Command, args []string) error {
	sku, _ := cmd.Flags().GetString("sku")
	name, _ := cmd.Flags().GetString("name")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	product := oro.Product{SKU: sku, Name: name}
	// Unit and inventory status only count as supplied when the flag was
	// given explicitly; an update must not overwrite remote values with
	// flag defaults.
	if cmd.Flags().Changed("unit") {
		product.Unit, _ = cmd.Flags().GetString("unit")
	}
	if cmd.Flags().Changed("inventory-status") {
		product.InventoryStatus, _ = cmd.Flags().GetString("inventory-status")
	}

	printer := newPrinter()
	client := oro.NewClient(cfg, logger, dryRun)
	ctx := cmd.Context()

	token, err := client.FetchToken(ctx)
	if err != nil {
		return err
	}

	result, err := client.Upsert(ctx, token, product)
	if err != nil {
		return err
	}

	if dryRun {
		printer.Info("dry run: no requests were sent")
		return nil
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printer.Success("product %s %s", printer.Bold(result.SKU), printer.ActionBadge(result.Action))

	table := output.NewQuietTable([]string{"FIELD", "VALUE"}, quiet)
	table.AddRow([]string{"id", result.ID})
	table.AddRow([]string{"sku", result.SKU})
	table.AddRow([]string{"action", string(result.Action)})
	table.Render()

	return nil
}
