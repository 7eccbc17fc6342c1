package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ShiftID identifies one of the three fixed operating periods of a reporting day.
type ShiftID string

const (
	ShiftA ShiftID = "A"
	ShiftB ShiftID = "B"
	ShiftC ShiftID = "C"
)

// Shifts lists the shift identifiers in display order.
var Shifts = [...]ShiftID{ShiftA, ShiftB, ShiftC}

// Valid reports whether the identifier is one of A, B or C.
func (s ShiftID) Valid() bool {
	switch s {
	case ShiftA, ShiftB, ShiftC:
		return true
	}
	return false
}

// UnmarshalText accepts shift keys in either case ("a" and "A" are the same shift).
func (s *ShiftID) UnmarshalText(text []byte) error {
	// Unknown keys are kept so the deriver can report the malformed set.
	*s = ShiftID(strings.ToUpper(strings.TrimSpace(string(text))))
	return nil
}

// ShiftSet maps shift identifiers to their readings.
type ShiftSet map[ShiftID]RawShiftEntry

// UnmarshalJSON normalises keys like ShiftID.UnmarshalText. When two keys
// name the same shift ("a" and "A"), the later key in byte order is kept
// verbatim instead of overwriting the first, so the set stays malformed and
// derivation rejects it rather than dropping a reading.
func (s *ShiftSet) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var raw map[string]RawShiftEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	set := make(ShiftSet, len(raw))
	for _, k := range keys {
		var id ShiftID
		_ = id.UnmarshalText([]byte(k))
		if _, taken := set[id]; taken {
			id = ShiftID(k)
		}
		set[id] = raw[k]
	}
	*s = set
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s ShiftID) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// Label renders the shift for invoices, e.g. "Shift A".
func (s ShiftID) Label() string {
	return fmt.Sprintf("Shift %s", string(s))
}

// RawShiftEntry holds the operator-entered readings for one shift.
type RawShiftEntry struct {
	Sale   Reading `json:"sale" bson:"sale"`
	EVC    Reading `json:"evc" bson:"evc"`
	Diesel Reading `json:"diesel" bson:"diesel"`
	Octane Reading `json:"octane" bson:"octane"`
}
