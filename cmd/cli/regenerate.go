package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	regenerateOutput string
	regenerateXLSX   string
)

// regenerateCmd re-derives the invoice of a stored log.
var regenerateCmd = &cobra.Command{
	Use:   "regenerate <log-id>",
	Short: "Re-derive the invoice of a stored daily log",
	Long: `Load a daily log from MongoDB and derive its invoice again from the stored raw
readings and price snapshot. Logs saved without a snapshot use the current prices.`,
	Example: `  xpeed regenerate 662f9c1e8a4b2d0012345678
  xpeed regenerate 662f9c1e8a4b2d0012345678 --output json --xlsx invoice.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runRegenerate,
}

func init() {
	rootCmd.AddCommand(regenerateCmd)

	regenerateCmd.Flags().StringVar(&regenerateOutput, "output", "text", "output format: text or json")
	regenerateCmd.Flags().StringVar(&regenerateXLSX, "xlsx", "", "also write the invoice to this .xlsx file")
}

func runRegenerate(cmd *cobra.Command, args []string) error {
	svc, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.close()

	view, err := svc.logs.Invoice(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !view.PricesSnapshotted {
		log.Warn("log has no price snapshot, invoice uses current prices", zap.String("log_id", args[0]))
	}

	if err := writeWorkbook(regenerateXLSX, view.Invoice); err != nil {
		return err
	}
	return writeInvoice(cmd.OutOrStdout(), regenerateOutput, view, view.Invoice)
}
