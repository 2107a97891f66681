package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/finnov/backend/internal/domain/review"
	"github.com/finnov/backend/internal/domain/shared"
	"github.com/finnov/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements review.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

var _ review.InvoiceRepository = (*GormInvoiceRepository)(nil)

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create inserts a new invoice record
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *review.Invoice) error {
	var model models.InvoiceModel
	model.FromDomain(invoice)

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isDuplicateKeyError(err) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

// CreateBatch inserts all invoices in one transaction
func (r *GormInvoiceRepository) CreateBatch(ctx context.Context, invoices []*review.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	invoiceModels := make([]models.InvoiceModel, len(invoices))
	for i, inv := range invoices {
		invoiceModels[i].FromDomain(inv)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&invoiceModels).Error
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create invoice batch: %w", err)
	}
	return nil
}

// List returns all invoices ordered by upload time, newest first
func (r *GormInvoiceRepository) List(ctx context.Context) ([]review.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Order("uploaded_at DESC").
		Find(&invoiceModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	invoices := make([]review.Invoice, 0, len(invoiceModels))
	for i := range invoiceModels {
		invoices = append(invoices, *invoiceModels[i].ToDomain())
	}
	return invoices, nil
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id string) (*review.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}
	return model.ToDomain(), nil
}

// UpdateAnomalyResolution flips one anomaly's resolved flag and recomputes
// the invoice status inside a single transaction. The row is locked for the
// duration so concurrent resolutions on the same invoice serialize.
func (r *GormInvoiceRepository) UpdateAnomalyResolution(ctx context.Context, invoiceID, anomalyID string, resolved bool) (*review.Invoice, error) {
	var updated *review.Invoice

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.InvoiceModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&model, "id = ?", invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		invoice := model.ToDomain()
		if err := invoice.ResolveAnomaly(anomalyID, resolved); err != nil {
			return err
		}

		if err := tx.Model(&models.InvoiceModel{}).
			Where("id = ?", invoiceID).
			Updates(map[string]interface{}{
				"anomalies": invoice.Anomalies,
				"status":    string(invoice.Status),
			}).Error; err != nil {
			return err
		}

		updated = invoice
		return nil
	})
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update anomaly resolution: %w", err)
	}
	return updated, nil
}

// isDuplicateKeyError reports whether err is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// lib/pq surfaces SQLSTATE 23505 in the message
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "23505")
}
