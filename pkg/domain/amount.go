package domain

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a user-entered money value. The browser build stored whatever
// the input field held, so a persisted amount is either a JSON number or a
// JSON string such as "150" or "12.5 eur". Amount keeps the original form
// and interprets it lazily.
type Amount struct {
	raw    string
	quoted bool
}

// AmountFromString wraps raw text exactly as typed.
func AmountFromString(s string) Amount { return Amount{raw: s, quoted: true} }

// AmountFromFloat wraps a numeric value.
func AmountFromFloat(f float64) Amount {
	return Amount{raw: strconv.FormatFloat(f, 'f', -1, 64)}
}

// String returns the amount as it was entered.
func (a Amount) String() string { return a.raw }

// IsZero reports whether the amount was never set.
func (a Amount) IsZero() bool { return a.raw == "" }

// leadingNumber matches the prefix a lenient float parser accepts.
var (
	leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	danglingPoint = strings.NewReplacer(".e", "e", ".E", "E")
)

// Decimal parses the longest numeric prefix of the amount. Text with no
// numeric prefix is worth zero.
func (a Amount) Decimal() decimal.Decimal {
	return ParseLeadingDecimal(a.raw)
}

// ParseLeadingDecimal parses the longest numeric prefix of s after leading
// whitespace, returning zero when there is none.
func ParseLeadingDecimal(s string) decimal.Decimal {
	m := leadingNumber.FindString(strings.TrimLeft(s, " \t\r\n"))
	if m == "" {
		return decimal.Zero
	}
	// "12." and "12.e3" are valid prefixes but not valid decimal literals.
	m = strings.TrimSuffix(danglingPoint.Replace(strings.TrimPrefix(m, "+")), ".")
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// MarshalJSON re-encodes the amount in the form it was received.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.quoted {
		return json.Marshal(a.raw)
	}
	if a.raw == "" {
		return []byte("0"), nil
	}
	return []byte(a.raw), nil
}

// UnmarshalJSON accepts a number or a string. Any other JSON value decodes
// to a zero amount instead of failing the whole record.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = AmountFromString(s)
	case len(b) > 0 && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9')):
		*a = Amount{raw: string(b)}
	default:
		*a = Amount{}
	}
	return nil
}

var (
	_ json.Marshaler   = Amount{}
	_ json.Unmarshaler = (*Amount)(nil)
)
