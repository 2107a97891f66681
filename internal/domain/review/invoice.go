package review

import (
	"time"

	"github.com/finnov/backend/internal/domain/shared"
)

// InvoiceStatus describes the review lifecycle of an invoice.
type InvoiceStatus string

const (
	StatusPending  InvoiceStatus = "pending"
	StatusVerified InvoiceStatus = "verified"
	// StatusFlagged is reserved. No component currently transitions an
	// invoice into it; the resolution protocol only moves between pending
	// and verified.
	StatusFlagged InvoiceStatus = "flagged"
)

// Invoice is the core record representing one ingested document and its
// review state. It is created exactly once by the ingestion pipeline with a
// fixed anomaly snapshot, mutated only through anomaly resolution, and never
// deleted.
type Invoice struct {
	ID         string        `json:"id"`
	FileName   string        `json:"fileName"`
	FileURL    string        `json:"fileUrl"`
	StorageKey string        `json:"-"`
	Vendor     string        `json:"vendor"`
	Amount     int64         `json:"amount"`
	Date       string        `json:"date"`
	Status     InvoiceStatus `json:"status"`
	Anomalies  AnomalyList   `json:"anomalies"`
	UploadedAt time.Time     `json:"uploadedAt"`
}

// NewInvoice assembles a pending invoice from an ingested document. The
// anomaly slice keeps its insertion order, which equals detection order.
func NewInvoice(id, fileName, fileURL, storageKey string, ext Extraction, uploadedAt time.Time) (*Invoice, error) {
	if id == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_ID", "Invoice ID cannot be empty")
	}
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if ext.Amount <= 0 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	// Invoices always start pending, even with an empty anomaly list; the
	// status only moves to verified through the resolution path.
	return &Invoice{
		ID:         id,
		FileName:   fileName,
		FileURL:    fileURL,
		StorageKey: storageKey,
		Vendor:     ext.Vendor,
		Amount:     ext.Amount,
		Date:       uploadedAt.UTC().Format("2006-01-02"),
		Status:     StatusPending,
		Anomalies:  append(AnomalyList(nil), ext.Anomalies...),
		UploadedAt: uploadedAt.UTC(),
	}, nil
}

// FindAnomaly returns a pointer to the anomaly with the given id, or nil.
func (i *Invoice) FindAnomaly(anomalyID string) *Anomaly {
	for idx := range i.Anomalies {
		if i.Anomalies[idx].ID == anomalyID {
			return &i.Anomalies[idx]
		}
	}
	return nil
}

// ResolveAnomaly sets the resolved flag on one anomaly and recomputes the
// invoice status. Returns ErrNotFound when the anomaly id is unknown.
// Re-applying the current flag value is a no-op on status.
func (i *Invoice) ResolveAnomaly(anomalyID string, resolved bool) error {
	a := i.FindAnomaly(anomalyID)
	if a == nil {
		return shared.ErrNotFound
	}
	a.Resolved = resolved
	i.RecomputeStatus()
	return nil
}

// RecomputeStatus derives the status from the anomaly list: verified if and
// only if every anomaly is resolved, pending otherwise. An invoice without
// anomalies is verified only once created that way; ingestion always starts
// invoices as pending and calls this afterwards.
func (i *Invoice) RecomputeStatus() {
	if i.AllResolved() {
		i.Status = StatusVerified
		return
	}
	i.Status = StatusPending
}

// AllResolved reports whether every anomaly on the invoice is resolved.
func (i *Invoice) AllResolved() bool {
	for idx := range i.Anomalies {
		if !i.Anomalies[idx].Resolved {
			return false
		}
	}
	return true
}
