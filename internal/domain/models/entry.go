package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate is returned for dates that are neither YYYY-MM-DD nor RFC 3339.
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// RawDailyEntry is what an operator submits for one reporting day.
type RawDailyEntry struct {
	Shifts             ShiftSet  `json:"shifts"`
	DieselClosingStock Reading   `json:"dieselClosing"`
	OctaneClosingStock Reading   `json:"octaneClosing"`
	LPGClosingStock    Reading   `json:"lpgClosing"`
	LPGVolume          Reading   `json:"lpg"`
	DieselOctaneDue    Reading   `json:"dieselOctaneDue"`
	ReportDate         time.Time `json:"date"`
}

// EntryInput is the wire form of a RawDailyEntry as sent by forms and files.
type EntryInput struct {
	RawDailyEntry
	Date string `json:"date"`
}

// Entry resolves the textual date. An empty date leaves ReportDate zero.
func (in EntryInput) Entry() (RawDailyEntry, error) {
	entry := in.RawDailyEntry
	if strings.TrimSpace(in.Date) == "" {
		return entry, nil
	}

	t, err := ParseReportDate(in.Date)
	if err != nil {
		return entry, err
	}
	entry.ReportDate = t
	return entry, nil
}

// ParseReportDate accepts a calendar date (YYYY-MM-DD) or an RFC 3339 timestamp.
func ParseReportDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"2006-01-02", time.RFC3339Nano} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

// ReportDay truncates t to midnight UTC of its calendar day. Report dates are
// compared by day identity only.
func ReportDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
