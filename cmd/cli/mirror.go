package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamadismail/xpeed-cng/internal/repository/sheets"
	logssvc "github.com/hamadismail/xpeed-cng/internal/service/logs"
)

const mirrorPageSize = 100

var (
	mirrorDate   string
	mirrorDryRun bool
)

// mirrorCmd appends stored invoices that are missing from the spreadsheet.
var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Backfill the Google Sheets invoice mirror",
	Long: `Walk the stored daily logs and append every invoice whose log ID is not yet
present in the Invoices sheet. The tab and its header row are created when
missing. Requires the Google Sheets settings.`,
	Example: `  xpeed mirror
  xpeed mirror --date 2024-04-29 --dry-run`,
	Args: cobra.NoArgs,
	RunE: runMirror,
}

func init() {
	rootCmd.AddCommand(mirrorCmd)

	mirrorCmd.Flags().StringVar(&mirrorDate, "date", "", "only logs for this day (YYYY-MM-DD)")
	mirrorCmd.Flags().BoolVar(&mirrorDryRun, "dry-run", false, "report missing rows without writing")
}

func runMirror(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, err := connect(ctx)
	if err != nil {
		return err
	}
	defer svc.close()

	if !svc.cfg.Sheets.Enabled() {
		return fmt.Errorf("google sheets is not configured")
	}

	repo, err := sheets.NewGoogleSheetRepository(ctx, svc.cfg.Sheets, log.Named("repo.sheets"))
	if err != nil {
		return err
	}
	mirror := sheets.NewInvoiceMirror(repo, log.Named("repo.sheets.mirror"))

	if !mirrorDryRun {
		if err := mirror.Prepare(ctx); err != nil {
			return err
		}
	}

	appended, present, err := backfill(ctx, svc.logs, mirror, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	log.Info("mirror backfill finished",
		zap.Int("appended", appended),
		zap.Int("already_present", present),
		zap.Bool("dry_run", mirrorDryRun))
	return nil
}

type logPager interface {
	List(ctx context.Context, params logssvc.ListParams) (logssvc.ListResult, error)
}

type invoiceSink interface {
	IDs(ctx context.Context) (map[string]struct{}, error)
	AppendInvoices(ctx context.Context, invoices []sheets.LoggedInvoice) error
}

// backfill reads the mirrored IDs once, then appends the missing invoices one
// page at a time. In dry-run mode the missing logs are only printed.
func backfill(ctx context.Context, logs logPager, sink invoiceSink, out io.Writer) (appended, present int, err error) {
	mirrored, err := sink.IDs(ctx)
	if err != nil {
		return 0, 0, err
	}

	for page := 1; ; page++ {
		res, err := logs.List(ctx, logssvc.ListParams{Date: mirrorDate, Page: page, Limit: mirrorPageSize})
		if err != nil {
			return appended, present, err
		}

		var missing []sheets.LoggedInvoice
		for _, view := range res.Logs {
			id := view.Log.ID.Hex()
			if _, ok := mirrored[id]; ok {
				present++
				continue
			}
			mirrored[id] = struct{}{}

			if mirrorDryRun {
				fmt.Fprintf(out, "missing %s (%s)\n", id, view.Invoice.ReportDateDisplay)
			}
			missing = append(missing, sheets.LoggedInvoice{LogID: id, Invoice: view.Invoice})
		}

		if !mirrorDryRun {
			if err := sink.AppendInvoices(ctx, missing); err != nil {
				return appended, present, err
			}
		}
		appended += len(missing)

		if page >= res.Pagination.TotalPages {
			return appended, present, nil
		}
	}
}
