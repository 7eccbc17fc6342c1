package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hamadismail/xpeed-cng/internal/domain/models"
)

const (
	invoiceSheet = "Invoice"
	// Built-in number format "#,##0.00".
	numFmtAmount = 4
)

var shiftHeader = []interface{}{"Shift", "Sale", "EVC", "Add", "CNG Tk", "Diesel L", "Diesel Tk", "Octane L", "Octane Tk"}

// XLSX renders the invoice as a single-sheet workbook. Cells hold full
// precision values; only the display format rounds.
func XLSX(inv models.DerivedInvoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", invoiceSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]interface{}{
		{"XPEED CNG FILLING STATION"},
		{"Daily Sales Invoice", inv.ReportDateDisplay},
		{},
		shiftHeader,
	}
	for _, s := range inv.Shifts {
		rows = append(rows, []interface{}{
			string(s.Shift), s.SaleVolume, s.EVCVolume, s.AddVolume, s.CNGAmount,
			s.DieselVolume, s.DieselAmount, s.OctaneVolume, s.OctaneAmount,
		})
	}
	rows = append(rows,
		[]interface{}{"Total", inv.TotalCNGSaleVolume, inv.TotalCNGEVCVolume, inv.TotalCNGAddVolume, inv.TotalCNGAmount,
			nil, inv.TotalDieselAmount, nil, inv.TotalOctaneAmount},
		[]interface{}{},
		[]interface{}{"LPG volume", inv.LPGVolume},
		[]interface{}{"LPG amount", inv.LPGAmount},
		[]interface{}{"Diesel + Octane sale", inv.DieselOctaneAmount},
		[]interface{}{"Diesel + Octane due", inv.DieselOctaneDue},
		[]interface{}{"Diesel closing stock", inv.DieselClosingStock},
		[]interface{}{"Octane closing stock", inv.OctaneClosingStock},
		[]interface{}{"LPG closing stock", inv.LPGClosingStock},
		[]interface{}{"Grand total", inv.GrandTotal},
		[]interface{}{},
		[]interface{}{"CNG rate", inv.Prices.CNG},
		[]interface{}{"Diesel rate", inv.Prices.Diesel},
		[]interface{}{"Octane rate", inv.Prices.Octane},
		[]interface{}{"LPG rate", inv.Prices.LPG},
	)

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(invoiceSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: numFmtAmount})
	if err != nil {
		return nil, fmt.Errorf("create amount style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(shiftHeader), len(rows))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(invoiceSheet, "B5", last, style); err != nil {
		return nil, fmt.Errorf("apply amount style: %w", err)
	}
	if err := f.SetColWidth(invoiceSheet, "A", "A", 22); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSXFilename is the download name for an invoice workbook.
func XLSXFilename(inv models.DerivedInvoice) string {
	if inv.ReportDate.IsZero() {
		return "invoice.xlsx"
	}
	return fmt.Sprintf("invoice-%s.xlsx", inv.ReportDate.Format(dateLayout))
}
