// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

// Package models defines the live domain entities persisted by the store.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes income from expenses.
type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is a single income or expense entry.
//
// PaymentMethod and Vendor are only meaningful for expenses; Source and
// IncomeType only for income.
type Transaction struct {
	ID          int64           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	Type        TransactionType `json:"type"`

	PaymentMethod string `json:"payment_method,omitempty"`
	Vendor        string `json:"vendor,omitempty"`

	Source     string `json:"source,omitempty"`
	IncomeType string `json:"income_type,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// IsExpense reports whether the transaction is an expense.
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionExpense
}

// IsIncome reports whether the transaction is income.
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionIncome
}
