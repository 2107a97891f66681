package review

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/finnov/backend/internal/domain/review"
	"github.com/finnov/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testInvoice(id string) *review.Invoice {
	return &review.Invoice{
		ID:         id,
		FileName:   "acme_mismatch_500.pdf",
		FileURL:    "/api/v1/invoices/" + id + "/download",
		StorageKey: "invoices/key/acme_mismatch_500.pdf",
		Vendor:     "acme_mismatch",
		Amount:     500,
		Date:       "2026-08-31",
		Status:     review.StatusPending,
		Anomalies: review.AnomalyList{
			{
				ID:          "anom-1-AAAAAA",
				Type:        review.AnomalyAmountMismatch,
				Priority:    review.PriorityHigh,
				Description: "Amount Mismatch",
				Details:     "Invoice total doesn't match purchase order amount",
			},
		},
		UploadedAt: time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
	}
}

func TestReviewService_ListInvoices(t *testing.T) {
	ctx := context.Background()

	repo := new(MockInvoiceRepository)
	storage := new(MockObjectStorage)
	svc := NewReviewService(repo, storage, zap.NewNop())

	expected := []review.Invoice{*testInvoice("INV-2026-AAAA1111")}
	repo.On("List", ctx).Return(expected, nil).Once()

	invoices, err := svc.ListInvoices(ctx)

	require.NoError(t, err)
	assert.Equal(t, expected, invoices)
	repo.AssertExpectations(t)
}

func TestReviewService_GetInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("returns invoice", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewReviewService(repo, new(MockObjectStorage), zap.NewNop())

		inv := testInvoice("INV-2026-AAAA1111")
		repo.On("FindByID", ctx, "INV-2026-AAAA1111").Return(inv, nil).Once()

		got, err := svc.GetInvoice(ctx, "INV-2026-AAAA1111")

		require.NoError(t, err)
		assert.Equal(t, inv, got)
	})

	t.Run("rejects empty id", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewReviewService(repo, new(MockObjectStorage), zap.NewNop())

		_, err := svc.GetInvoice(ctx, "")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INVOICE_ID", domainErr.Code)
		repo.AssertNotCalled(t, "FindByID")
	})

	t.Run("propagates not found", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewReviewService(repo, new(MockObjectStorage), zap.NewNop())

		repo.On("FindByID", ctx, "INV-2026-MISSING1").Return(nil, shared.ErrNotFound).Once()

		_, err := svc.GetInvoice(ctx, "INV-2026-MISSING1")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestReviewService_ResolveAnomaly(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates to repository and returns updated invoice", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewReviewService(repo, new(MockObjectStorage), zap.NewNop())

		updated := testInvoice("INV-2026-AAAA1111")
		updated.Anomalies[0].Resolved = true
		updated.Status = review.StatusVerified

		repo.On("UpdateAnomalyResolution", ctx, "INV-2026-AAAA1111", "anom-1-AAAAAA", true).
			Return(updated, nil).Once()

		got, err := svc.ResolveAnomaly(ctx, ResolveAnomalyRequest{
			InvoiceID: "INV-2026-AAAA1111",
			AnomalyID: "anom-1-AAAAAA",
			Resolved:  true,
		})

		require.NoError(t, err)
		assert.Equal(t, review.StatusVerified, got.Status)
		assert.True(t, got.Anomalies[0].Resolved)
		repo.AssertExpectations(t)
	})

	t.Run("rejects empty invoice id", func(t *testing.T) {
		svc := NewReviewService(new(MockInvoiceRepository), new(MockObjectStorage), zap.NewNop())

		_, err := svc.ResolveAnomaly(ctx, ResolveAnomalyRequest{AnomalyID: "anom-1-AAAAAA"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INVOICE_ID", domainErr.Code)
	})

	t.Run("rejects empty anomaly id", func(t *testing.T) {
		svc := NewReviewService(new(MockInvoiceRepository), new(MockObjectStorage), zap.NewNop())

		_, err := svc.ResolveAnomaly(ctx, ResolveAnomalyRequest{InvoiceID: "INV-2026-AAAA1111"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ANOMALY_ID", domainErr.Code)
	})

	t.Run("propagates not found from repository", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		svc := NewReviewService(repo, new(MockObjectStorage), zap.NewNop())

		repo.On("UpdateAnomalyResolution", ctx, "INV-2026-AAAA1111", "anom-missing", false).
			Return(nil, shared.ErrNotFound).Once()

		_, err := svc.ResolveAnomaly(ctx, ResolveAnomalyRequest{
			InvoiceID: "INV-2026-AAAA1111",
			AnomalyID: "anom-missing",
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestReviewService_DownloadInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("streams stored document", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		storage := new(MockObjectStorage)
		svc := NewReviewService(repo, storage, zap.NewNop())

		inv := testInvoice("INV-2026-AAAA1111")
		repo.On("FindByID", ctx, inv.ID).Return(inv, nil).Once()
		storage.On("Download", ctx, inv.StorageKey).
			Return(io.NopCloser(strings.NewReader("pdf-bytes")), int64(9), nil).Once()

		result, err := svc.DownloadInvoice(ctx, inv.ID)

		require.NoError(t, err)
		defer result.Content.Close()
		assert.Equal(t, inv.FileName, result.FileName)
		assert.Equal(t, int64(9), result.Size)

		data, err := io.ReadAll(result.Content)
		require.NoError(t, err)
		assert.Equal(t, "pdf-bytes", string(data))
	})

	t.Run("unknown invoice returns not found", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		storage := new(MockObjectStorage)
		svc := NewReviewService(repo, storage, zap.NewNop())

		repo.On("FindByID", ctx, "INV-2026-MISSING1").Return(nil, shared.ErrNotFound).Once()

		_, err := svc.DownloadInvoice(ctx, "INV-2026-MISSING1")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		storage.AssertNotCalled(t, "Download")
	})

	t.Run("storage failure surfaces as persistence error", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		storage := new(MockObjectStorage)
		svc := NewReviewService(repo, storage, zap.NewNop())

		inv := testInvoice("INV-2026-AAAA1111")
		repo.On("FindByID", ctx, inv.ID).Return(inv, nil).Once()
		storage.On("Download", ctx, inv.StorageKey).
			Return(nil, int64(0), assert.AnError).Once()

		_, err := svc.DownloadInvoice(ctx, inv.ID)
		assert.ErrorIs(t, err, shared.ErrPersistenceFailure)
	})

	t.Run("missing document surfaces as not found", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		storage := new(MockObjectStorage)
		svc := NewReviewService(repo, storage, zap.NewNop())

		inv := testInvoice("INV-2026-AAAA1111")
		repo.On("FindByID", ctx, inv.ID).Return(inv, nil).Once()
		storage.On("Download", ctx, inv.StorageKey).
			Return(nil, int64(0), fmt.Errorf("object %q: %w", inv.StorageKey, shared.ErrNotFound)).Once()

		_, err := svc.DownloadInvoice(ctx, inv.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestReviewService_DownloadURL(t *testing.T) {
	ctx := context.Background()

	repo := new(MockInvoiceRepository)
	storage := new(MockObjectStorage)
	svc := NewReviewService(repo, storage, zap.NewNop())

	inv := testInvoice("INV-2026-AAAA1111")
	expiresAt := time.Now().Add(15 * time.Minute)

	repo.On("FindByID", ctx, inv.ID).Return(inv, nil).Once()
	storage.On("GenerateDownloadURL", ctx, inv.StorageKey, 15*time.Minute).
		Return("https://storage.example/presigned", expiresAt, nil).Once()

	url, got, err := svc.DownloadURL(ctx, inv.ID, 15*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, "https://storage.example/presigned", url)
	assert.Equal(t, expiresAt, got)
	storage.AssertExpectations(t)
}
