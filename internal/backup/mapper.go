// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package backup

import (
	"time"

	"github.com/tomtom215/fintrack/internal/models"
)

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func int64Ptr(v int64) *int64 {
	return &v
}

// transactionToDTO maps a live transaction. Fields that do not apply to the
// transaction type are left out.
func transactionToDTO(t *models.Transaction) BackupTransaction {
	dto := BackupTransaction{
		ID:          int64Ptr(t.ID),
		Amount:      NewMoney(t.Amount),
		Description: t.Description,
		Category:    t.Category,
		Date:        NewLocalDateTime(t.Date),
		Type:        t.Type,
	}
	switch {
	case t.IsExpense():
		dto.PaymentMethod = optionalString(t.PaymentMethod)
		dto.Vendor = optionalString(t.Vendor)
	case t.IsIncome():
		dto.Source = optionalString(t.Source)
		dto.IncomeType = optionalString(t.IncomeType)
	}
	return dto
}

// transactionFromDTO builds a new live transaction. The snapshot id is
// discarded; the store assigns a fresh one.
func transactionFromDTO(d *BackupTransaction, now time.Time) *models.Transaction {
	return &models.Transaction{
		Amount:        d.Amount.Decimal,
		Description:   d.Description,
		Category:      d.Category,
		Date:          d.Date.Time,
		Type:          d.Type,
		PaymentMethod: stringValue(d.PaymentMethod),
		Vendor:        stringValue(d.Vendor),
		Source:        stringValue(d.Source),
		IncomeType:    stringValue(d.IncomeType),
		CreatedAt:     now,
	}
}

func categoryToDTO(c *models.Category) BackupCategory {
	return BackupCategory{
		ID:          int64Ptr(c.ID),
		Name:        c.Name,
		DisplayName: c.DisplayName,
		Type:        c.Type,
		IconName:    c.IconName,
		Color:       c.Color,
		IsDefault:   c.IsDefault,
		CreatedAt:   NewLocalDateTime(c.CreatedAt),
		UpdatedAt:   NewLocalDateTime(c.UpdatedAt),
	}
}

// categoryFromDTO builds a new live category without an id.
func categoryFromDTO(d *BackupCategory) *models.Category {
	c := &models.Category{Name: d.Name}
	applyCategoryDTO(c, d)
	return c
}

// applyCategoryDTO overwrites everything except id and name. Timestamps
// missing from the snapshot keep their current value.
func applyCategoryDTO(c *models.Category, d *BackupCategory) {
	c.DisplayName = d.DisplayName
	c.Type = d.Type
	c.IconName = d.IconName
	c.Color = d.Color
	c.IsDefault = d.IsDefault
	if !d.CreatedAt.IsZero() {
		c.CreatedAt = d.CreatedAt.Time
	}
	if !d.UpdatedAt.IsZero() {
		c.UpdatedAt = d.UpdatedAt.Time
	}
}
