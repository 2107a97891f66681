package review

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/finnov/backend/internal/domain/review"
	"github.com/finnov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxIDAttempts bounds retries when a generated invoice id collides with an
// existing row.
const maxIDAttempts = 3

// defaultContentType is used when the upload does not declare one.
const defaultContentType = "application/octet-stream"

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// IngestionService runs the analyze pipeline: extract metadata from each
// uploaded file, persist the document to object storage, and create the
// invoice records in one atomic batch.
type IngestionService struct {
	repo      review.InvoiceRepository
	storage   ObjectStorage
	extractor *review.Extractor
	ids       *review.IDGenerator
	logger    *zap.Logger
	now       func() time.Time
}

// NewIngestionService creates a new IngestionService
func NewIngestionService(
	repo review.InvoiceRepository,
	storage ObjectStorage,
	extractor *review.Extractor,
	ids *review.IDGenerator,
	logger *zap.Logger,
) *IngestionService {
	return &IngestionService{
		repo:      repo,
		storage:   storage,
		extractor: extractor,
		ids:       ids,
		logger:    logger,
		now:       time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (s *IngestionService) SetClock(now func() time.Time) {
	s.now = now
}

// AnalyzeBatch ingests a batch of uploaded files. The batch is atomic: if
// any file fails to store or persist, no invoice from the batch survives and
// already-uploaded objects are removed best-effort.
//
// Returned invoices preserve the order of the input files.
func (s *IngestionService) AnalyzeBatch(ctx context.Context, files []IngestedFile) ([]review.Invoice, error) {
	if len(files) == 0 {
		return nil, shared.NewDomainError("NO_FILES", "No files uploaded")
	}

	uploadedAt := s.now().UTC()

	// Phase one: extract and upload every document. Object keys are random
	// so an invoice id collision later never requires moving an object.
	type staged struct {
		file       IngestedFile
		extraction review.Extraction
		storageKey string
	}

	stagedFiles := make([]staged, 0, len(files))
	uploadedKeys := make([]string, 0, len(files))

	cleanup := func() {
		for _, key := range uploadedKeys {
			if err := s.storage.DeleteObject(context.WithoutCancel(ctx), key); err != nil {
				s.logger.Warn("Failed to clean up uploaded object",
					zap.String("storage_key", key),
					zap.Error(err),
				)
			}
		}
	}

	for _, f := range files {
		if f.Name == "" {
			cleanup()
			return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
		}

		contentType := f.ContentType
		if contentType == "" {
			contentType = defaultContentType
		}

		key := fmt.Sprintf("invoices/%s/%s", uuid.New().String(), sanitizeFileName(f.Name))
		if err := s.storage.Upload(ctx, key, f.Content, contentType); err != nil {
			s.logger.Error("Failed to upload invoice document",
				zap.String("file_name", f.Name),
				zap.Error(err),
			)
			cleanup()
			return nil, shared.ErrPersistenceFailure
		}
		uploadedKeys = append(uploadedKeys, key)

		stagedFiles = append(stagedFiles, staged{
			file:       f,
			extraction: s.extractor.Extract(f.Name),
			storageKey: key,
		})
	}

	// Phase two: assemble and persist all rows in one transaction. On an id
	// collision every invoice gets a fresh id and the batch is retried.
	var invoices []*review.Invoice
	for attempt := 1; ; attempt++ {
		invoices = make([]*review.Invoice, 0, len(stagedFiles))
		for _, sf := range stagedFiles {
			id := s.ids.NewInvoiceID()
			invoice, err := review.NewInvoice(
				id,
				sf.file.Name,
				fmt.Sprintf("/api/v1/invoices/%s/download", id),
				sf.storageKey,
				sf.extraction,
				uploadedAt,
			)
			if err != nil {
				cleanup()
				return nil, err
			}
			invoices = append(invoices, invoice)
		}

		err := s.repo.CreateBatch(ctx, invoices)
		if err == nil {
			break
		}
		if errors.Is(err, shared.ErrAlreadyExists) && attempt < maxIDAttempts {
			s.logger.Warn("Invoice id collision, regenerating batch ids",
				zap.Int("attempt", attempt),
			)
			continue
		}

		s.logger.Error("Failed to persist invoice batch",
			zap.Int("batch_size", len(invoices)),
			zap.Error(err),
		)
		cleanup()
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, err
		}
		return nil, shared.ErrPersistenceFailure
	}

	s.logger.Info("Invoice batch ingested",
		zap.Int("count", len(invoices)),
	)

	result := make([]review.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, *inv)
	}
	return result, nil
}

// sanitizeFileName strips path components and characters that are not safe
// inside an object key.
func sanitizeFileName(name string) string {
	base := filepath.Base(name)
	safe := unsafeKeyChars.ReplaceAllString(base, "_")
	if safe == "" || safe == "." || safe == ".." {
		return "document"
	}
	return safe
}
