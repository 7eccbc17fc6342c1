package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoredShifts is the persisted shape of the three shifts.
type StoredShifts struct {
	A RawShiftEntry `json:"a" bson:"a"`
	B RawShiftEntry `json:"b" bson:"b"`
	C RawShiftEntry `json:"c" bson:"c"`
}

// LogRecord is a persisted daily entry together with the prices it was invoiced at.
type LogRecord struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Shifts          StoredShifts       `json:"shifts" bson:"shifts"`
	DieselClosing   Reading            `json:"dieselClosing" bson:"dieselClosing"`
	OctaneClosing   Reading            `json:"octaneClosing" bson:"octaneClosing"`
	LPG             Reading            `json:"lpg" bson:"lpg"`
	LPGClosing      Reading            `json:"lpgClosing" bson:"lpgClosing"`
	DieselOctaneDue Reading            `json:"dieselOctaneDue" bson:"dieselOctaneDue"`
	Date            time.Time          `json:"date" bson:"date"`
	// Prices is nil on records written before price snapshots were stored.
	Prices    *PriceTable `json:"prices,omitempty" bson:"prices,omitempty"`
	CreatedAt time.Time   `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
}

// NewLogRecord builds the persisted form of an entry. Shifts other than A, B
// and C are dropped, so the entry should be validated by the deriver first.
func NewLogRecord(entry RawDailyEntry, prices PriceTable) LogRecord {
	snapshot := prices
	return LogRecord{
		Shifts: StoredShifts{
			A: entry.Shifts[ShiftA],
			B: entry.Shifts[ShiftB],
			C: entry.Shifts[ShiftC],
		},
		DieselClosing:   entry.DieselClosingStock,
		OctaneClosing:   entry.OctaneClosingStock,
		LPG:             entry.LPGVolume,
		LPGClosing:      entry.LPGClosingStock,
		DieselOctaneDue: entry.DieselOctaneDue,
		Date:            ReportDay(entry.ReportDate),
		Prices:          &snapshot,
	}
}

// Entry converts the stored record back into a raw entry for re-derivation.
func (l LogRecord) Entry() RawDailyEntry {
	return RawDailyEntry{
		Shifts: ShiftSet{
			ShiftA: l.Shifts.A,
			ShiftB: l.Shifts.B,
			ShiftC: l.Shifts.C,
		},
		DieselClosingStock: l.DieselClosing,
		OctaneClosingStock: l.OctaneClosing,
		LPGClosingStock:    l.LPGClosing,
		LPGVolume:          l.LPG,
		DieselOctaneDue:    l.DieselOctaneDue,
		ReportDate:         l.Date,
	}
}

// LogQuery selects a page of log records, optionally restricted to one day.
type LogQuery struct {
	Day   *time.Time
	Page  int
	Limit int
}

// Pagination describes a page of results.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}
