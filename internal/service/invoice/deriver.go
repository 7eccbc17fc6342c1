// Package invoice derives daily invoices from raw operator input.
//
// Derive is a pure function: it reads no global state, performs no I/O and
// returns identical output for identical input, so an invoice re-derived from
// a stored entry and its stored price snapshot matches the original.
package invoice

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hamadismail/xpeed-cng/internal/domain/models"
)

// ErrInvalidPriceTable is returned when a rate is missing or not a positive finite number.
var ErrInvalidPriceTable = errors.New("invalid price table")

// ErrInvalidShiftSet is returned when the entry's shifts are not exactly A, B and C.
var ErrInvalidShiftSet = errors.New("invalid shift set")

// Derive computes the invoice for entry at the given prices.
func Derive(entry models.RawDailyEntry, prices models.PriceTable) (models.DerivedInvoice, error) {
	if err := ValidatePrices(prices); err != nil {
		return models.DerivedInvoice{}, err
	}
	if err := validateShifts(entry.Shifts); err != nil {
		return models.DerivedInvoice{}, err
	}

	var inv models.DerivedInvoice
	for i, id := range models.Shifts {
		shift := deriveShift(id, entry.Shifts[id], prices)
		inv.Shifts[i] = shift

		inv.TotalCNGAmount += shift.CNGAmount
		inv.TotalDieselAmount += shift.DieselAmount
		inv.TotalOctaneAmount += shift.OctaneAmount
		inv.TotalCNGSaleVolume += shift.SaleVolume
		inv.TotalCNGEVCVolume += shift.EVCVolume
		inv.TotalCNGAddVolume += shift.AddVolume
	}

	inv.DieselClosingStock = Coerce(string(entry.DieselClosingStock))
	inv.OctaneClosingStock = Coerce(string(entry.OctaneClosingStock))
	inv.LPGClosingStock = Coerce(string(entry.LPGClosingStock))
	inv.DieselOctaneDue = Coerce(string(entry.DieselOctaneDue))

	inv.LPGVolume = Coerce(string(entry.LPGVolume))
	inv.LPGAmount = inv.LPGVolume * prices.LPG

	inv.DieselOctaneAmount = inv.TotalDieselAmount + inv.TotalOctaneAmount
	inv.GrandTotal = inv.TotalCNGAmount + inv.TotalDieselAmount + inv.TotalOctaneAmount + inv.LPGAmount

	if !entry.ReportDate.IsZero() {
		inv.ReportDate = models.ReportDay(entry.ReportDate)
		inv.ReportDateDisplay = FormatReportDate(inv.ReportDate)
	}
	inv.Prices = prices

	return inv, nil
}

// ValidatePrices checks that all four rates are positive finite numbers.
func ValidatePrices(prices models.PriceTable) error {
	rates := []struct {
		name  string
		value float64
	}{
		{"CNG", prices.CNG},
		{"DIESEL", prices.Diesel},
		{"OCTANE", prices.Octane},
		{"LPG", prices.LPG},
	}

	for _, rate := range rates {
		if !(rate.value > 0) || math.IsInf(rate.value, 1) {
			return fmt.Errorf("%w: %s rate must be a positive number, got %v", ErrInvalidPriceTable, rate.name, rate.value)
		}
	}
	return nil
}

// FormatReportDate renders a day in long form, e.g. "April 29th, 2024".
func FormatReportDate(day time.Time) string {
	return fmt.Sprintf("%s %d%s, %d", day.Month(), day.Day(), ordinalSuffix(day.Day()), day.Year())
}

func deriveShift(id models.ShiftID, raw models.RawShiftEntry, prices models.PriceTable) models.DerivedShift {
	sale := Coerce(string(raw.Sale))
	evc := Coerce(string(raw.EVC))
	diesel := Coerce(string(raw.Diesel))
	octane := Coerce(string(raw.Octane))

	return models.DerivedShift{
		Shift:        id,
		SaleVolume:   sale,
		EVCVolume:    evc,
		AddVolume:    evc - sale,
		CNGAmount:    sale * prices.CNG,
		DieselVolume: diesel,
		OctaneVolume: octane,
		DieselAmount: diesel * prices.Diesel,
		OctaneAmount: octane * prices.Octane,
	}
}

func validateShifts(shifts map[models.ShiftID]models.RawShiftEntry) error {
	valid := len(shifts) == len(models.Shifts)
	for _, id := range models.Shifts {
		if _, ok := shifts[id]; !ok {
			valid = false
		}
	}
	if valid {
		return nil
	}

	keys := make([]string, 0, len(shifts))
	for id := range shifts {
		keys = append(keys, string(id))
	}
	sort.Strings(keys)
	return fmt.Errorf("%w: want [A B C], got [%s]", ErrInvalidShiftSet, strings.Join(keys, " "))
}

func ordinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
