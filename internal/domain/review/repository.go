package review

import "context"

// InvoiceRepository is the authoritative store for invoice records.
//
// Implementations must make UpdateAnomalyResolution a single atomic
// read-modify-write keyed by invoice id: concurrent resolutions of
// different anomalies on the same invoice serialize, and a reader never
// observes a changed resolved flag without the matching status
// recomputation.
type InvoiceRepository interface {
	// Create inserts a new invoice. Returns shared.ErrAlreadyExists when
	// the id is taken.
	Create(ctx context.Context, invoice *Invoice) error

	// CreateBatch inserts all invoices in one transaction. Either every
	// row is persisted or none. Returns shared.ErrAlreadyExists when any
	// id is taken.
	CreateBatch(ctx context.Context, invoices []*Invoice) error

	// List returns all invoices ordered by upload time, newest first.
	List(ctx context.Context) ([]Invoice, error)

	// FindByID returns the invoice or shared.ErrNotFound.
	FindByID(ctx context.Context, id string) (*Invoice, error)

	// UpdateAnomalyResolution sets one anomaly's resolved flag, recomputes
	// the invoice status, persists both together, and returns the updated
	// invoice. Returns shared.ErrNotFound when the invoice or anomaly is
	// missing.
	UpdateAnomalyResolution(ctx context.Context, invoiceID, anomalyID string, resolved bool) (*Invoice, error)
}
