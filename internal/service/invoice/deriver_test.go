package invoice

import (
	"encoding/json"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamadismail/xpeed-cng/internal/domain/models"
)

func zeroShift() models.RawShiftEntry {
	return models.RawShiftEntry{Sale: "0", EVC: "0", Diesel: "0", Octane: "0"}
}

func sampleEntry() models.RawDailyEntry {
	return models.RawDailyEntry{
		Shifts: map[models.ShiftID]models.RawShiftEntry{
			models.ShiftA: {Sale: "100", EVC: "110", Diesel: "50", Octane: "0"},
			models.ShiftB: zeroShift(),
			models.ShiftC: zeroShift(),
		},
		DieselClosingStock: "0",
		OctaneClosingStock: "0",
		LPGClosingStock:    "0",
		LPGVolume:          "10",
		DieselOctaneDue:    "0",
		ReportDate:         time.Date(2024, time.April, 29, 0, 0, 0, 0, time.UTC),
	}
}

func busyEntry() models.RawDailyEntry {
	return models.RawDailyEntry{
		Shifts: map[models.ShiftID]models.RawShiftEntry{
			models.ShiftA: {Sale: "812.4", EVC: "820.15", Diesel: "120.5", Octane: "33.2"},
			models.ShiftB: {Sale: "905.75", EVC: "899.1", Diesel: "98", Octane: "41.75"},
			models.ShiftC: {Sale: "433.3", EVC: "440", Diesel: "60.25", Octane: "12"},
		},
		DieselClosingStock: "4120.5",
		OctaneClosingStock: "2210",
		LPGClosingStock:    "380.4",
		LPGVolume:          "57.3",
		DieselOctaneDue:    "15400",
		ReportDate:         time.Date(2024, time.March, 3, 18, 30, 0, 0, time.UTC),
	}
}

func TestDeriveSingleShiftScenario(t *testing.T) {
	inv, err := Derive(sampleEntry(), models.DefaultPriceTable())
	require.NoError(t, err)

	a, ok := inv.Shift(models.ShiftA)
	require.True(t, ok)
	assert.Equal(t, 10.0, a.AddVolume)
	assert.Equal(t, 4300.0, a.CNGAmount)
	assert.Equal(t, 5100.0, a.DieselAmount)
	assert.Equal(t, 0.0, a.OctaneAmount)

	assert.Equal(t, 4300.0, inv.TotalCNGAmount)
	assert.Equal(t, 5100.0, inv.TotalDieselAmount)
	assert.Equal(t, 0.0, inv.TotalOctaneAmount)
	assert.InDelta(t, 624.59, inv.LPGAmount, 1e-9)
	assert.InDelta(t, 10024.59, inv.GrandTotal, 1e-9)
	assert.Equal(t, 5100.0, inv.DieselOctaneAmount)
	assert.Equal(t, models.DefaultPriceTable(), inv.Prices)
	assert.Equal(t, "April 29th, 2024", inv.ReportDateDisplay)
}

func TestDeriveAllEmptyFields(t *testing.T) {
	empty := models.RawShiftEntry{}
	entry := models.RawDailyEntry{
		Shifts: map[models.ShiftID]models.RawShiftEntry{
			models.ShiftA: empty,
			models.ShiftB: empty,
			models.ShiftC: empty,
		},
	}

	inv, err := Derive(entry, models.DefaultPriceTable())
	require.NoError(t, err)

	for _, s := range inv.Shifts {
		assert.Equal(t, models.DerivedShift{Shift: s.Shift}, s)
	}
	assert.Zero(t, inv.DieselClosingStock)
	assert.Zero(t, inv.OctaneClosingStock)
	assert.Zero(t, inv.LPGClosingStock)
	assert.Zero(t, inv.LPGAmount)
	assert.Zero(t, inv.DieselOctaneDue)
	assert.Zero(t, inv.DieselOctaneAmount)
	assert.Zero(t, inv.TotalCNGAmount)
	assert.Zero(t, inv.TotalCNGAddVolume)
	assert.Zero(t, inv.GrandTotal)
	assert.Empty(t, inv.ReportDateDisplay)
}

func TestDerivePreservesShiftOrder(t *testing.T) {
	inv, err := Derive(busyEntry(), models.DefaultPriceTable())
	require.NoError(t, err)

	for i, id := range models.Shifts {
		assert.Equal(t, id, inv.Shifts[i].Shift)
	}
}

func TestDeriveTotalsAreShiftSums(t *testing.T) {
	inv, err := Derive(busyEntry(), models.PriceTable{CNG: 43.5, Diesel: 104.25, Octane: 125.8, LPG: 63.1})
	require.NoError(t, err)

	var cng, diesel, octane, sale, evc, add float64
	for _, s := range inv.Shifts {
		cng += s.CNGAmount
		diesel += s.DieselAmount
		octane += s.OctaneAmount
		sale += s.SaleVolume
		evc += s.EVCVolume
		add += s.AddVolume
	}

	assert.Equal(t, cng, inv.TotalCNGAmount)
	assert.Equal(t, diesel, inv.TotalDieselAmount)
	assert.Equal(t, octane, inv.TotalOctaneAmount)
	assert.Equal(t, sale, inv.TotalCNGSaleVolume)
	assert.Equal(t, evc, inv.TotalCNGEVCVolume)
	assert.Equal(t, add, inv.TotalCNGAddVolume)
	assert.Equal(t, inv.TotalDieselAmount+inv.TotalOctaneAmount, inv.DieselOctaneAmount)
	assert.Equal(t, inv.TotalCNGAmount+inv.TotalDieselAmount+inv.TotalOctaneAmount+inv.LPGAmount, inv.GrandTotal)
}

func TestDeriveIsDeterministic(t *testing.T) {
	entry := busyEntry()
	prices := models.DefaultPriceTable()

	first, err := Derive(entry, prices)
	require.NoError(t, err)
	second, err := Derive(entry, prices)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDeriveFromStoredRecordIsStable(t *testing.T) {
	submittedAt := models.PriceTable{CNG: 40, Diesel: 100, Octane: 120, LPG: 60}
	original, err := Derive(busyEntry(), submittedAt)
	require.NoError(t, err)

	record := models.NewLogRecord(busyEntry(), submittedAt)

	// Prices change after submission; the stored snapshot must still win.
	current := models.DefaultPriceTable()
	require.NotEqual(t, current, *record.Prices)

	rederived, err := Derive(record.Entry(), *record.Prices)
	require.NoError(t, err)
	assert.Equal(t, original, rederived)
}

func TestDeriveNegativeReadingsFlowThrough(t *testing.T) {
	entry := sampleEntry()
	entry.Shifts[models.ShiftB] = models.RawShiftEntry{Sale: "50", EVC: "45", Diesel: "-2", Octane: "0"}

	inv, err := Derive(entry, models.DefaultPriceTable())
	require.NoError(t, err)

	b, _ := inv.Shift(models.ShiftB)
	assert.Equal(t, -5.0, b.AddVolume)
	assert.Equal(t, -204.0, b.DieselAmount)
	assert.Equal(t, 5.0, inv.TotalCNGAddVolume)
}

func TestDeriveGarbageInputNeverFails(t *testing.T) {
	garbage := []models.Reading{"", "abc", "12.5abc", "--", "NaN", "Infinity", "1e999", " ", "½", "-"}

	for _, g := range garbage {
		entry := models.RawDailyEntry{
			Shifts: map[models.ShiftID]models.RawShiftEntry{
				models.ShiftA: {Sale: g, EVC: g, Diesel: g, Octane: g},
				models.ShiftB: {Sale: g, EVC: g, Diesel: g, Octane: g},
				models.ShiftC: {Sale: g, EVC: g, Diesel: g, Octane: g},
			},
			DieselClosingStock: g,
			OctaneClosingStock: g,
			LPGClosingStock:    g,
			LPGVolume:          g,
			DieselOctaneDue:    g,
		}

		inv, err := Derive(entry, models.DefaultPriceTable())
		require.NoError(t, err, "reading %q", g)
		assert.False(t, math.IsNaN(inv.GrandTotal) || math.IsInf(inv.GrandTotal, 0), "reading %q", g)
	}
}

func TestDeriveRejectsInvalidPrices(t *testing.T) {
	valid := models.DefaultPriceTable()

	tests := []struct {
		name   string
		mutate func(p *models.PriceTable)
	}{
		{"Missing CNG", func(p *models.PriceTable) { p.CNG = 0 }},
		{"Negative diesel", func(p *models.PriceTable) { p.Diesel = -102 }},
		{"NaN octane", func(p *models.PriceTable) { p.Octane = math.NaN() }},
		{"Infinite LPG", func(p *models.PriceTable) { p.LPG = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := valid
			tt.mutate(&prices)

			_, err := Derive(sampleEntry(), prices)
			assert.ErrorIs(t, err, ErrInvalidPriceTable)
		})
	}

	_, err := Derive(sampleEntry(), models.PriceTable{})
	assert.ErrorIs(t, err, ErrInvalidPriceTable)
}

func TestDeriveRejectsInvalidShiftSet(t *testing.T) {
	tests := []struct {
		name   string
		shifts map[models.ShiftID]models.RawShiftEntry
	}{
		{"Nil map", nil},
		{"Missing C", map[models.ShiftID]models.RawShiftEntry{
			models.ShiftA: zeroShift(), models.ShiftB: zeroShift(),
		}},
		{"Unknown D", map[models.ShiftID]models.RawShiftEntry{
			models.ShiftA: zeroShift(), models.ShiftB: zeroShift(), models.ShiftC: zeroShift(), "D": zeroShift(),
		}},
		{"D instead of C", map[models.ShiftID]models.RawShiftEntry{
			models.ShiftA: zeroShift(), models.ShiftB: zeroShift(), "D": zeroShift(),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := sampleEntry()
			entry.Shifts = tt.shifts

			_, err := Derive(entry, models.DefaultPriceTable())
			assert.ErrorIs(t, err, ErrInvalidShiftSet)
		})
	}
}

func TestDeriveRejectsShiftKeysDifferingOnlyInCase(t *testing.T) {
	var in models.EntryInput
	body := `{"shifts": {"a": {"sale": "1"}, "A": {"sale": "2"}, "b": {}, "c": {}}, "lpg": "0"}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	_, err := Derive(in.RawDailyEntry, models.DefaultPriceTable())
	assert.ErrorIs(t, err, ErrInvalidShiftSet)
	assert.ErrorContains(t, err, "got [A B C a]")
}

func TestDerivePriceErrorTakesPrecedence(t *testing.T) {
	entry := sampleEntry()
	entry.Shifts = nil

	_, err := Derive(entry, models.PriceTable{})
	assert.ErrorIs(t, err, ErrInvalidPriceTable)
	assert.NotErrorIs(t, err, ErrInvalidShiftSet)
}

func TestDeriveConcurrentCallsAgree(t *testing.T) {
	want, err := Derive(busyEntry(), models.DefaultPriceTable())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]models.DerivedInvoice, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Derive(busyEntry(), models.DefaultPriceTable())
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestFormatReportDate(t *testing.T) {
	tests := []struct {
		day      int
		expected string
	}{
		{1, "January 1st, 2025"},
		{2, "January 2nd, 2025"},
		{3, "January 3rd, 2025"},
		{4, "January 4th, 2025"},
		{11, "January 11th, 2025"},
		{12, "January 12th, 2025"},
		{13, "January 13th, 2025"},
		{21, "January 21st, 2025"},
		{22, "January 22nd, 2025"},
		{23, "January 23rd, 2025"},
		{31, "January 31st, 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			day := time.Date(2025, time.January, tt.day, 0, 0, 0, 0, time.UTC)
			assert.Equal(t, tt.expected, FormatReportDate(day))
		})
	}
}

func TestDeriveReportDateKeepsDayOnly(t *testing.T) {
	inv, err := Derive(busyEntry(), models.DefaultPriceTable())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), inv.ReportDate)
	assert.Equal(t, "March 3rd, 2024", inv.ReportDateDisplay)
}
