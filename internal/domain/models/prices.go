package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Built-in rates used until the first price record is saved.
const (
	DefaultCNGPrice    = 43.0
	DefaultDieselPrice = 102.0
	DefaultOctanePrice = 122.0
	DefaultLPGPrice    = 62.459
)

// PriceTable is the per-unit rate snapshot applied to an invoice.
type PriceTable struct {
	CNG    float64 `json:"CNG" bson:"CNG" binding:"required"`
	Diesel float64 `json:"DIESEL" bson:"DIESEL" binding:"required"`
	Octane float64 `json:"OCTANE" bson:"OCTANE" binding:"required"`
	LPG    float64 `json:"LPG" bson:"LPG" binding:"required"`
}

// DefaultPriceTable returns the built-in rates.
func DefaultPriceTable() PriceTable {
	return PriceTable{
		CNG:    DefaultCNGPrice,
		Diesel: DefaultDieselPrice,
		Octane: DefaultOctanePrice,
		LPG:    DefaultLPGPrice,
	}
}

// PriceRecord is a persisted price update. The latest record by CreatedAt is current.
type PriceRecord struct {
	PriceTable `bson:",inline"`

	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}
