package invoice

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/hamadismail/xpeed-cng/internal/domain/models"
)

// Coerce turns operator text into a finite number. Leading whitespace is
// skipped and the longest decimal prefix is parsed, so "12.5abc" is 12.5.
// Text without a numeric prefix, and anything that would be NaN or infinite,
// yields 0. Negative values are returned unchanged.
func Coerce(value string) float64 {
	s := strings.TrimLeftFunc(value, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})

	n := numericPrefix(s)
	if n == 0 {
		return 0
	}

	f, err := strconv.ParseFloat(s[:n], 64)
	if err != nil {
		// Only range errors are possible here; overflow is not a finite number.
		return 0
	}
	return finite(f)
}

// CoerceValue applies Coerce to loosely typed input such as decoded JSON.
// Unsupported types and nil yield 0.
func CoerceValue(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		return Coerce(x)
	case models.Reading:
		return Coerce(string(x))
	case json.Number:
		return Coerce(x.String())
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	default:
		return 0
	}
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		// f == 0 also folds negative zero into zero.
		return 0
	}
	return f
}

// numericPrefix returns the length of the longest prefix of s that is a
// decimal literal: sign? digits? (. digits?)? (e sign? digits)?, with at
// least one mantissa digit.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}

	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}

	if digits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}

	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
