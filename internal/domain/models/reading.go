package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Reading is a free-text numeric value as typed by an operator. It is kept
// verbatim so a stored record can be re-derived exactly; numeric meaning is
// only assigned by the invoice deriver.
//
// Older records stored some readings as numbers, so both JSON and BSON
// decoding accept numbers and normalise them to their shortest text form.
type Reading string

// String implements fmt.Stringer.
func (r Reading) String() string {
	return string(r)
}

// UnmarshalJSON accepts a JSON string, number or null.
func (r *Reading) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*r = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode reading: %w", err)
		}
		*r = Reading(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("decode reading: %w", err)
		}
		*r = Reading(n.String())
		return nil
	}
}

// MarshalBSONValue always stores readings as strings.
func (r Reading) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(string(r))
}

// UnmarshalBSONValue accepts string, double, int32, int64 and null values.
func (r *Reading) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bson.TypeString:
		*r = Reading(raw.StringValue())
	case bson.TypeDouble:
		*r = Reading(strconv.FormatFloat(raw.Double(), 'f', -1, 64))
	case bson.TypeInt32:
		*r = Reading(strconv.FormatInt(int64(raw.Int32()), 10))
	case bson.TypeInt64:
		*r = Reading(strconv.FormatInt(raw.Int64(), 10))
	case bson.TypeNull, bson.TypeUndefined:
		*r = ""
	default:
		return fmt.Errorf("decode reading: unsupported bson type %s", t)
	}
	return nil
}
