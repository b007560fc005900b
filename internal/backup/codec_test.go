// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/fintrack/internal/models"
)

func TestCodec_RoundTrip(t *testing.T) {
	precise := NewLocalDateTime(time.Date(2023, 12, 31, 23, 59, 58, 123456789, time.Local))

	tests := []struct {
		name     string
		snapshot func() *Snapshot
	}{
		{
			name:     "typical",
			snapshot: validSnapshot,
		},
		{
			name: "empty lists",
			snapshot: func() *Snapshot {
				s := validSnapshot()
				s.Transactions = []BackupTransaction{}
				s.Categories = []BackupCategory{}
				s.Metadata.TransactionCount = 0
				s.Metadata.CategoryCount = 0
				return s
			},
		},
		{
			name: "extreme amounts and nanosecond dates",
			snapshot: func() *Snapshot {
				s := validSnapshot()
				amounts := []string{"0.001", "-3", "0.10", "123456789012345678901234567890.123456789", "0"}
				s.Transactions = nil
				for _, a := range amounts {
					s.Transactions = append(s.Transactions, BackupTransaction{
						Amount: NewMoney(decimal.RequireFromString(a)),
						Date:   precise,
						Type:   models.TransactionExpense,
					})
				}
				return s
			},
		},
		{
			name: "null timestamps and ids",
			snapshot: func() *Snapshot {
				s := validSnapshot()
				s.Categories[0].ID = nil
				s.Categories[0].CreatedAt = LocalDateTime{}
				s.Categories[0].UpdatedAt = LocalDateTime{}
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.snapshot()
			data, err := Encode(original)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			decoded, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode() error = %v\n%s", err, data)
			}
			if err := snapshotsEqual(original, decoded); err != nil {
				t.Fatalf("round trip mismatch: %v\n%s", err, data)
			}

			again, err := Encode(decoded)
			if err != nil {
				t.Fatalf("second Encode() error = %v", err)
			}
			if string(again) != string(data) {
				t.Errorf("re-encoding differs:\n%s\n---\n%s", data, again)
			}
		})
	}
}

func TestEncode_WireFormat(t *testing.T) {
	data, err := Encode(validSnapshot())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out := string(data)

	for _, want := range []string{
		`"version": "1.0"`,
		`"amount": "12.50"`,
		`"amount": "2500"`,
		`"createdAt": "2024-05-01T10:30:00"`,
		`"paymentMethod": "card"`,
		`"incomeType": "monthly"`,
		`"id": null`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("encoded snapshot missing %s\n%s", want, out)
		}
	}
	if strings.Count(out, `"vendor"`) != 1 {
		t.Errorf("vendor should only appear on the expense:\n%s", out)
	}
}

func TestEncode_Nil(t *testing.T) {
	if _, err := Encode(nil); !errors.Is(err, ErrValidation) {
		t.Errorf("Encode(nil) error = %v, want validation error", err)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "  \n\t"},
		{"null", "null"},
		{"truncated", `{"version": "1.0", "transactions": [`},
		{"array", `[]`},
		{"bad amount", `{"version":"1.0","transactions":[{"amount":"12,50"}],"categories":[]}`},
		{"bad date", `{"version":"1.0","createdAt":"01/05/2024","transactions":[],"categories":[]}`},
		{"numeric version", `{"version":1.0,"transactions":[],"categories":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Decode([]byte(tt.input))
			if err == nil {
				t.Fatalf("Decode() = %+v, want error", s)
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("Decode() error = %v, want parse error", err)
			}
		})
	}
}

func TestDecode_Tolerant(t *testing.T) {
	input := `{
		"version": "1.0",
		"createdAt": null,
		"metadata": null,
		"futureField": {"nested": true},
		"transactions": [
			{"id": null, "amount": 12.345678901234567890, "type": "EXPENSE", "vendor": null, "date": "2024-01-02T03:04:05.5"},
			{"amount": null, "type": "INCOME"}
		],
		"categories": [
			{"name": "food", "type": "EXPENSE", "iconName": null}
		]
	}`

	s, err := Decode([]byte(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !s.CreatedAt.IsZero() {
		t.Errorf("CreatedAt = %v, want zero", s.CreatedAt)
	}
	if got := s.Transactions[0].Amount.String(); got != "12.345678901234567890" {
		t.Errorf("amount = %s, want full precision 12.345678901234567890", got)
	}
	if s.Transactions[0].Vendor != nil {
		t.Errorf("vendor = %v, want nil", *s.Transactions[0].Vendor)
	}
	wantDate := time.Date(2024, 1, 2, 3, 4, 5, 500000000, time.Local)
	if !s.Transactions[0].Date.Equal(wantDate) {
		t.Errorf("date = %v, want %v", s.Transactions[0].Date, wantDate)
	}
	if !s.Transactions[1].Amount.IsZero() {
		t.Errorf("null amount = %s, want 0", s.Transactions[1].Amount)
	}
	if s.Categories[0].IconName != "" {
		t.Errorf("iconName = %q, want empty", s.Categories[0].IconName)
	}
}

func TestMoney_String(t *testing.T) {
	tests := map[string]string{
		"12.50":  "12.50",
		"12.5":   "12.5",
		"100":    "100",
		"-0.010": "-0.010",
		"1e3":    "1000",
	}
	for in, want := range tests {
		if got := NewMoney(decimal.RequireFromString(in)).String(); got != want {
			t.Errorf("Money(%s).String() = %s, want %s", in, got, want)
		}
	}
}

func TestFileName(t *testing.T) {
	got := FileName(time.Date(2024, 5, 1, 10, 30, 5, 0, time.UTC))
	if got != "finance_backup_20240501_103005.json" {
		t.Errorf("FileName() = %s", got)
	}
}

func TestChecksum(t *testing.T) {
	at := time.UnixMilli(1714559400000)
	a := Checksum(10, 3, at)
	if len(a) != 64 {
		t.Fatalf("Checksum() length = %d, want 64 hex chars", len(a))
	}
	if a != Checksum(10, 3, at) {
		t.Error("Checksum() is not deterministic")
	}
	if a == Checksum(11, 3, at) || a == Checksum(10, 3, at.Add(time.Millisecond)) {
		t.Error("Checksum() should change with counts and time")
	}
}
