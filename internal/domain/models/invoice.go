package models

import "time"

// DerivedShift is one shift of a derived invoice. All values are full precision.
type DerivedShift struct {
	Shift        ShiftID `json:"shift"`
	SaleVolume   float64 `json:"saleVolume"`
	EVCVolume    float64 `json:"evcVolume"`
	AddVolume    float64 `json:"addVolume"`
	CNGAmount    float64 `json:"cngAmount"`
	DieselVolume float64 `json:"dieselVolume"`
	OctaneVolume float64 `json:"octaneVolume"`
	DieselAmount float64 `json:"dieselAmount"`
	OctaneAmount float64 `json:"octaneAmount"`
}

// DerivedInvoice is the fully computed daily invoice.
type DerivedInvoice struct {
	// Shifts is always ordered A, B, C.
	Shifts [3]DerivedShift `json:"shifts"`

	DieselClosingStock float64 `json:"dieselClosingStock"`
	OctaneClosingStock float64 `json:"octaneClosingStock"`
	LPGClosingStock    float64 `json:"lpgClosingStock"`
	LPGVolume          float64 `json:"lpgVolume"`
	LPGAmount          float64 `json:"lpgAmount"`
	DieselOctaneDue    float64 `json:"dieselOctaneDue"`
	DieselOctaneAmount float64 `json:"dieselOctaneAmount"`

	TotalCNGAmount     float64 `json:"totalCngAmount"`
	TotalDieselAmount  float64 `json:"totalDieselAmount"`
	TotalOctaneAmount  float64 `json:"totalOctaneAmount"`
	TotalCNGSaleVolume float64 `json:"totalCngSaleVolume"`
	TotalCNGEVCVolume  float64 `json:"totalCngEvcVolume"`
	TotalCNGAddVolume  float64 `json:"totalCngAddVolume"`
	GrandTotal         float64 `json:"grandTotal"`

	ReportDate        time.Time  `json:"reportDate"`
	ReportDateDisplay string     `json:"date"`
	Prices            PriceTable `json:"prices"`
}

// Shift returns the derived values of the given shift.
func (d DerivedInvoice) Shift(id ShiftID) (DerivedShift, bool) {
	for _, s := range d.Shifts {
		if s.Shift == id {
			return s, true
		}
	}
	return DerivedShift{}, false
}
