package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamadismail/xpeed-cng/internal/domain/models"
	"github.com/hamadismail/xpeed-cng/internal/service/invoice"
)

var (
	deriveFile   string
	derivePrices string
	deriveOutput string
	deriveXLSX   string
)

// deriveCmd computes an invoice from a local entry file without touching the database.
var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive an invoice from a JSON entry file",
	Long: `Derive a daily invoice from a JSON file holding the raw shift readings. Prices are
read from --prices when given, otherwise the built-in default rates are used.`,
	Example: `  xpeed derive --file entry.json
  xpeed derive --file entry.json --prices prices.json --output json
  xpeed derive --file entry.json --xlsx invoice.xlsx`,
	Args: cobra.NoArgs,
	RunE: runDerive,
}

func init() {
	rootCmd.AddCommand(deriveCmd)

	deriveCmd.Flags().StringVar(&deriveFile, "file", "", "entry JSON file (required)")
	deriveCmd.Flags().StringVar(&derivePrices, "prices", "", "price table JSON file")
	deriveCmd.Flags().StringVar(&deriveOutput, "output", "text", "output format: text or json")
	deriveCmd.Flags().StringVar(&deriveXLSX, "xlsx", "", "also write the invoice to this .xlsx file")
	_ = deriveCmd.MarkFlagRequired("file")
}

func runDerive(cmd *cobra.Command, args []string) error {
	var input models.EntryInput
	if err := readJSONFile(deriveFile, &input); err != nil {
		return err
	}
	entry, err := input.Entry()
	if err != nil {
		return err
	}

	prices := models.DefaultPriceTable()
	if derivePrices != "" {
		if err := readJSONFile(derivePrices, &prices); err != nil {
			return err
		}
	}

	inv, err := invoice.Derive(entry, prices)
	if err != nil {
		return err
	}
	log.Debug("invoice derived", zap.String("file", deriveFile), zap.Float64("grand_total", inv.GrandTotal))

	if err := writeWorkbook(deriveXLSX, inv); err != nil {
		return err
	}
	return writeInvoice(cmd.OutOrStdout(), deriveOutput, inv, inv)
}
