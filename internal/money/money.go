// Package money represents exact decimal amounts as integer cents.
//
// Amounts never pass through a binary float: parsing, storage and JSON
// serialization all work on base-10 digits, so "12.50" reads back as "12.50".
package money

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned when a string is not a valid decimal amount
// with at most two fractional digits.
var ErrInvalidAmount = errors.New("money: invalid amount")

// Cents is a monetary amount in base-10 cents. It stores as an integer
// column and serializes as a fixed two-decimal string.
type Cents int64

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Parse converts a decimal-literal string like "12.5", "-3", or "0.07" into
// cents. More than two fractional digits, or anything non-numeric, is
// rejected.
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, ErrInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, ErrInvalidAmount
	}
	// The sign was consumed above; only bare digits may remain. ParseInt
	// alone would still accept a sign here ("1.+5").
	if !digitsOnly(whole) || !digitsOnly(frac) {
		return 0, ErrInvalidAmount
	}
	// Right-pad the fraction so ".5" means 50 cents.
	frac += strings.Repeat("0", 2-len(frac))

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	c := w*100 + f
	if neg {
		c = -c
	}
	return Cents(c), nil
}

// String renders the amount with exactly two fractional digits.
func (c Cents) String() string {
	v := int64(c)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON serializes as a decimal string, e.g. "12.50".
func (c Cents) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts a decimal string ("12.50") or a JSON number used as
// its literal text (12.50); both are parsed digit-wise, never as a float.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return ErrInvalidAmount
		}
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value implements driver.Valuer; the column stores plain integer cents.
func (c Cents) Value() (driver.Value, error) {
	return int64(c), nil
}

// Scan implements sql.Scanner.
func (c *Cents) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*c = Cents(v)
		return nil
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("money: cannot scan %q: %w", v, err)
		}
		*c = Cents(n)
		return nil
	default:
		return fmt.Errorf("money: cannot scan %T", src)
	}
}
