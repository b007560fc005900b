// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"time"

	"github.com/tomtom215/fintrack/internal/models"
)

const (
	// SupportedVersion is the only snapshot format version accepted on import.
	SupportedVersion = "1.0"

	// FileExtension is the extension of snapshot files.
	FileExtension = ".json"

	// FilePrefix starts every generated snapshot file name.
	FilePrefix = "finance_backup_"

	fileTimestampLayout = "20060102_150405"
)

// FileName returns the snapshot file name for a backup taken at t,
// e.g. finance_backup_20240501_103000.json.
func FileName(t time.Time) string {
	return FilePrefix + t.Format(fileTimestampLayout) + FileExtension
}

// Snapshot is the self-contained serialized form of the finance data.
type Snapshot struct {
	Version      string              `json:"version"`
	CreatedAt    LocalDateTime       `json:"createdAt"`
	Metadata     Metadata            `json:"metadata"`
	Transactions []BackupTransaction `json:"transactions" validate:"dive"`
	Categories   []BackupCategory    `json:"categories" validate:"dive"`
}

// Metadata describes where and when a snapshot was produced.
type Metadata struct {
	AppVersion       string        `json:"appVersion"`
	DeviceModel      string        `json:"deviceModel"`
	DeviceID         string        `json:"deviceId"`
	ExportedAt       LocalDateTime `json:"exportedAt"`
	TransactionCount int           `json:"transactionCount"`
	CategoryCount    int           `json:"categoryCount"`
	Checksum         string        `json:"checksum"`
}

// BackupTransaction is the snapshot form of a transaction. The expense-only
// and income-only fields are omitted when they do not apply.
type BackupTransaction struct {
	ID          *int64                 `json:"id"`
	Amount      Money                  `json:"amount"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Date        LocalDateTime          `json:"date"`
	Type        models.TransactionType `json:"type" validate:"oneof=INCOME EXPENSE"`

	PaymentMethod *string `json:"paymentMethod,omitempty"`
	Vendor        *string `json:"vendor,omitempty"`
	Source        *string `json:"source,omitempty"`
	IncomeType    *string `json:"incomeType,omitempty"`
}

// BackupCategory is the snapshot form of a category.
type BackupCategory struct {
	ID          *int64              `json:"id"`
	Name        string              `json:"name" validate:"required"`
	DisplayName string              `json:"displayName"`
	Type        models.CategoryType `json:"type" validate:"oneof=INCOME EXPENSE BOTH"`
	IconName    string              `json:"iconName"`
	Color       string              `json:"color"`
	IsDefault   bool                `json:"isDefault"`
	CreatedAt   LocalDateTime       `json:"createdAt"`
	UpdatedAt   LocalDateTime       `json:"updatedAt"`
}

// ImportSummary counts what a restore wrote.
type ImportSummary struct {
	TransactionsImported int `json:"transactionsImported"`
	CategoriesImported   int `json:"categoriesImported"`
	CategoriesSkipped    int `json:"categoriesSkipped"`
}
