// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var jsonNull = []byte("null")

// Money is an exact decimal amount. It encodes as a JSON string that keeps
// the scale ("12.50" stays "12.50") and decodes from a string or a bare
// number without passing through float64.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps d.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// String renders the amount with its original number of fractional digits.
func (m Money) String() string {
	if exp := m.Exponent(); exp < 0 {
		return m.StringFixed(-exp)
	}
	return m.Decimal.String()
}

// Same reports whether m and o have the same value and the same scale.
func (m Money) Same(o Money) bool {
	return m.Decimal.Equal(o.Decimal) && m.String() == o.String()
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON implements json.Unmarshaler. null decodes to zero.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		m.Decimal = decimal.Decimal{}
		return nil
	}

	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		s = unquoted
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("amount %q: %w", s, err)
	}
	m.Decimal = d
	return nil
}

// localDateTimeLayout is ISO-8601 without a zone offset; fractional seconds
// are written only when present.
const localDateTimeLayout = "2006-01-02T15:04:05.999999999"

// LocalDateTime is a wall-clock timestamp in the local zone.
// The zero value encodes as null.
type LocalDateTime struct {
	time.Time
}

// NewLocalDateTime converts t to the local zone and drops the monotonic reading.
func NewLocalDateTime(t time.Time) LocalDateTime {
	if t.IsZero() {
		return LocalDateTime{}
	}
	return LocalDateTime{Time: t.Round(0).In(time.Local)}
}

// String formats the timestamp in snapshot layout.
func (d LocalDateTime) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(localDateTimeLayout)
}

// Same reports whether both timestamps denote the same wall-clock instant.
func (d LocalDateTime) Same(o LocalDateTime) bool {
	return d.Time.Equal(o.Time)
}

// MarshalJSON implements json.Marshaler.
func (d LocalDateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return jsonNull, nil
	}
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON implements json.Unmarshaler. null decodes to the zero value.
func (d *LocalDateTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		d.Time = time.Time{}
		return nil
	}

	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("date-time must be a string: %w", err)
	}
	t, err := time.ParseInLocation(localDateTimeLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("date-time %q: %w", s, err)
	}
	d.Time = t
	return nil
}
