package review

import (
	"context"
	"errors"
	"time"

	"github.com/finnov/backend/internal/domain/review"
	"github.com/finnov/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReviewService exposes the read and resolution operations of the invoice
// review workflow.
type ReviewService struct {
	repo    review.InvoiceRepository
	storage ObjectStorage
	logger  *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(repo review.InvoiceRepository, storage ObjectStorage, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		repo:    repo,
		storage: storage,
		logger:  logger,
	}
}

// ListInvoices returns every invoice, newest upload first.
func (s *ReviewService) ListInvoices(ctx context.Context) ([]review.Invoice, error) {
	return s.repo.List(ctx)
}

// GetInvoice returns one invoice by id.
func (s *ReviewService) GetInvoice(ctx context.Context, id string) (*review.Invoice, error) {
	if id == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_ID", "Invoice ID cannot be empty")
	}
	return s.repo.FindByID(ctx, id)
}

// ResolveAnomaly toggles one anomaly's resolved flag and returns the full
// updated invoice.
func (s *ReviewService) ResolveAnomaly(ctx context.Context, req ResolveAnomalyRequest) (*review.Invoice, error) {
	if req.InvoiceID == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_ID", "Invoice ID cannot be empty")
	}
	if req.AnomalyID == "" {
		return nil, shared.NewDomainError("INVALID_ANOMALY_ID", "Anomaly ID cannot be empty")
	}

	invoice, err := s.repo.UpdateAnomalyResolution(ctx, req.InvoiceID, req.AnomalyID, req.Resolved)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Anomaly resolution updated",
		zap.String("invoice_id", req.InvoiceID),
		zap.String("anomaly_id", req.AnomalyID),
		zap.Bool("resolved", req.Resolved),
		zap.String("status", string(invoice.Status)),
	)
	return invoice, nil
}

// DownloadInvoice streams the stored document for an invoice. The caller
// must close the returned content.
func (s *ReviewService) DownloadInvoice(ctx context.Context, id string) (*DownloadResult, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	content, size, err := s.storage.Download(ctx, invoice.StorageKey)
	if err != nil {
		// A missing object is a 404, not a storage fault: the record may
		// outlive its document if the bucket was cleaned out of band.
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Invoice document missing from storage",
				zap.String("invoice_id", id),
				zap.String("storage_key", invoice.StorageKey),
			)
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to download invoice document",
			zap.String("invoice_id", id),
			zap.String("storage_key", invoice.StorageKey),
			zap.Error(err),
		)
		return nil, shared.ErrPersistenceFailure
	}

	return &DownloadResult{
		FileName:    invoice.FileName,
		ContentType: defaultContentType,
		Size:        size,
		Content:     content,
	}, nil
}

// DownloadURL returns a short-lived presigned URL for the stored document,
// for clients that prefer fetching straight from object storage.
func (s *ReviewService) DownloadURL(ctx context.Context, id string, expiresIn time.Duration) (string, time.Time, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return "", time.Time{}, err
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, invoice.StorageKey, expiresIn)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", time.Time{}, shared.ErrNotFound
		}
		s.logger.Error("Failed to presign invoice download",
			zap.String("invoice_id", id),
			zap.Error(err),
		)
		return "", time.Time{}, shared.ErrPersistenceFailure
	}
	return url, expiresAt, nil
}
