package render

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/hamadismail/xpeed-cng/internal/domain/models"
)

// Text renders a printable plain-text invoice.
func Text(inv models.DerivedInvoice) string {
	var b strings.Builder

	b.WriteString("XPEED CNG FILLING STATION\n")
	b.WriteString("Daily Sales Invoice\n")
	if inv.ReportDateDisplay != "" {
		fmt.Fprintf(&b, "Date: %s\n", inv.ReportDateDisplay)
	}
	b.WriteString("\n")

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Shift\tSale\tEVC\tAdd\tCNG Tk\tDiesel L\tDiesel Tk\tOctane L\tOctane Tk\t")
	for _, s := range inv.Shifts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			s.Shift,
			Amount(s.SaleVolume), Amount(s.EVCVolume), Amount(s.AddVolume), Amount(s.CNGAmount),
			Amount(s.DieselVolume), Amount(s.DieselAmount),
			Amount(s.OctaneVolume), Amount(s.OctaneAmount))
	}
	fmt.Fprintf(tw, "Total\t%s\t%s\t%s\t%s\t\t%s\t\t%s\t\n",
		Amount(inv.TotalCNGSaleVolume), Amount(inv.TotalCNGEVCVolume), Amount(inv.TotalCNGAddVolume),
		Amount(inv.TotalCNGAmount), Amount(inv.TotalDieselAmount), Amount(inv.TotalOctaneAmount))
	_ = tw.Flush()

	b.WriteString("\n")

	tw = tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "LPG sold\t%s L\t@ %s\t= Tk %s\n", Amount(inv.LPGVolume), Amount(inv.Prices.LPG), Amount(inv.LPGAmount))
	fmt.Fprintf(tw, "Diesel + Octane sale\t\t\tTk %s\n", Amount(inv.DieselOctaneAmount))
	fmt.Fprintf(tw, "Diesel + Octane due\t\t\tTk %s\n", Amount(inv.DieselOctaneDue))
	fmt.Fprintf(tw, "Diesel closing stock\t%s L\n", Amount(inv.DieselClosingStock))
	fmt.Fprintf(tw, "Octane closing stock\t%s L\n", Amount(inv.OctaneClosingStock))
	fmt.Fprintf(tw, "LPG closing stock\t%s L\n", Amount(inv.LPGClosingStock))
	_ = tw.Flush()

	b.WriteString("\n")
	fmt.Fprintf(&b, "GRAND TOTAL: Tk %s\n", Amount(inv.GrandTotal))
	fmt.Fprintf(&b, "Rates: CNG %s | Diesel %s | Octane %s | LPG %s\n",
		Amount(inv.Prices.CNG), Amount(inv.Prices.Diesel), Amount(inv.Prices.Octane), Amount(inv.Prices.LPG))

	return b.String()
}

// Summary renders a short message suitable for chat delivery.
func Summary(inv models.DerivedInvoice) string {
	lines := []string{
		strings.TrimSpace(fmt.Sprintf("Daily invoice %s", inv.ReportDateDisplay)),
		fmt.Sprintf("CNG: %s m3 sold (EVC %s, add %s), Tk %s",
			Amount(inv.TotalCNGSaleVolume), Amount(inv.TotalCNGEVCVolume), Amount(inv.TotalCNGAddVolume), Amount(inv.TotalCNGAmount)),
		fmt.Sprintf("Diesel: Tk %s", Amount(inv.TotalDieselAmount)),
		fmt.Sprintf("Octane: Tk %s", Amount(inv.TotalOctaneAmount)),
		fmt.Sprintf("LPG: %s L, Tk %s", Amount(inv.LPGVolume), Amount(inv.LPGAmount)),
		fmt.Sprintf("Diesel/Octane due: Tk %s", Amount(inv.DieselOctaneDue)),
		fmt.Sprintf("Grand total: Tk %s", Amount(inv.GrandTotal)),
	}
	return strings.Join(lines, "\n")
}

// SheetHeader names the columns of SheetRow.
func SheetHeader() []interface{} {
	return []interface{}{
		"Date",
		"CNG Sale",
		"CNG EVC",
		"CNG Add",
		"CNG Amount",
		"Diesel Amount",
		"Octane Amount",
		"LPG Volume",
		"LPG Amount",
		"Diesel+Octane",
		"Grand Total",
		"Diesel Closing",
		"Octane Closing",
		"LPG Closing",
		"Diesel/Octane Due",
		"CNG Price",
		"Diesel Price",
		"Octane Price",
		"LPG Price",
	}
}

// SheetRow is the row appended to the spreadsheet mirror for one invoice.
func SheetRow(inv models.DerivedInvoice) []interface{} {
	return []interface{}{
		inv.ReportDate.Format(dateLayout),
		inv.TotalCNGSaleVolume,
		inv.TotalCNGEVCVolume,
		inv.TotalCNGAddVolume,
		inv.TotalCNGAmount,
		inv.TotalDieselAmount,
		inv.TotalOctaneAmount,
		inv.LPGVolume,
		inv.LPGAmount,
		inv.DieselOctaneAmount,
		inv.GrandTotal,
		inv.DieselClosingStock,
		inv.OctaneClosingStock,
		inv.LPGClosingStock,
		inv.DieselOctaneDue,
		inv.Prices.CNG,
		inv.Prices.Diesel,
		inv.Prices.Octane,
		inv.Prices.LPG,
	}
}
