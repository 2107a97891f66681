package models

import (
	"time"

	"github.com/finnov/backend/internal/domain/review"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
// IDs are generated by the application, so there is no auto column.
type InvoiceModel struct {
	ID         string             `gorm:"type:varchar(40);primaryKey"`
	FileName   string             `gorm:"type:varchar(255);not null"`
	FileURL    string             `gorm:"type:text;not null"`
	StorageKey string             `gorm:"type:text;not null"`
	Vendor     string             `gorm:"type:varchar(100);not null"`
	Amount     int64              `gorm:"not null"`
	Date       string             `gorm:"type:varchar(10);not null"`
	Status     string             `gorm:"type:varchar(20);not null;default:'pending';index"`
	Anomalies  review.AnomalyList `gorm:"type:jsonb;default:'[]'"`
	UploadedAt time.Time          `gorm:"not null;index:idx_invoices_uploaded_at,sort:desc"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *review.Invoice {
	return &review.Invoice{
		ID:         m.ID,
		FileName:   m.FileName,
		FileURL:    m.FileURL,
		StorageKey: m.StorageKey,
		Vendor:     m.Vendor,
		Amount:     m.Amount,
		Date:       m.Date,
		Status:     review.InvoiceStatus(m.Status),
		Anomalies:  m.Anomalies,
		UploadedAt: m.UploadedAt,
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *review.Invoice) {
	m.ID = inv.ID
	m.FileName = inv.FileName
	m.FileURL = inv.FileURL
	m.StorageKey = inv.StorageKey
	m.Vendor = inv.Vendor
	m.Amount = inv.Amount
	m.Date = inv.Date
	m.Status = string(inv.Status)
	m.Anomalies = inv.Anomalies
	m.UploadedAt = inv.UploadedAt
}
