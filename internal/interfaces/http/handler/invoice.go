package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	reviewapp "github.com/finnov/backend/internal/application/review"
	"github.com/finnov/backend/internal/domain/review"
	"github.com/finnov/backend/internal/interfaces/http/dto"
	"github.com/finnov/backend/internal/interfaces/http/middleware"
	"github.com/finnov/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InvoiceHandler handles the invoice review API endpoints
type InvoiceHandler struct {
	BaseHandler
	ingestion *reviewapp.IngestionService
	reviews   *reviewapp.ReviewService
	logger    *zap.Logger
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(
	ingestion *reviewapp.IngestionService,
	reviews *reviewapp.ReviewService,
	logger *zap.Logger,
) *InvoiceHandler {
	return &InvoiceHandler{
		ingestion: ingestion,
		reviews:   reviews,
		logger:    logger,
	}
}

// Routes creates the route group for the invoice review endpoints
func (h *InvoiceHandler) Routes() *router.DomainGroup {
	group := router.NewDomainGroup("invoices", "/invoices")

	// Ingestion
	group.POST("/analyze", h.Analyze)

	// Review queue
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PATCH("/:id/anomalies/:anomalyId", h.ResolveAnomaly)

	// Stored documents
	group.GET("/:id/download", h.Download)

	return group
}

// RegisterRoutes registers the invoice endpoints on the API group
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.Routes().RegisterRoutes(rg)
}

// Analyze ingests a multipart batch of invoice documents.
// POST /invoices/analyze, field name "files".
// Responds with {"invoices": [...]} containing the created records in
// upload order.
func (h *InvoiceHandler) Analyze(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Request must be multipart/form-data")
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "No files uploaded")
		return
	}

	files := make([]reviewapp.IngestedFile, 0, len(fileHeaders))
	opened := make([]io.Closer, 0, len(fileHeaders))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, fmt.Sprintf("Cannot read uploaded file %q", fh.Filename))
			return
		}
		opened = append(opened, f)
		files = append(files, reviewapp.IngestedFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     f,
		})
	}

	invoices, err := h.ingestion.AnalyzeBatch(c.Request.Context(), files)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.InvoiceListResponse{Invoices: invoices})
}

// List returns every stored invoice, newest upload first.
// GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.reviews.ListInvoices(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if invoices == nil {
		invoices = []review.Invoice{}
	}
	h.Success(c, dto.InvoiceListResponse{Invoices: invoices})
}

// Get returns one invoice by id.
// GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, err := h.reviews.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.InvoiceResponse{Invoice: invoice})
}

// ResolveAnomaly toggles one anomaly's resolved flag.
// PATCH /invoices/:id/anomalies/:anomalyId, body {"resolved": bool}.
// Responds with the full updated invoice.
func (h *InvoiceHandler) ResolveAnomaly(c *gin.Context) {
	var req dto.ResolveAnomalyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	invoice, err := h.reviews.ResolveAnomaly(c.Request.Context(), reviewapp.ResolveAnomalyRequest{
		InvoiceID: c.Param("id"),
		AnomalyID: c.Param("anomalyId"),
		Resolved:  *req.Resolved,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.InvoiceResponse{Invoice: invoice})
}

// Download streams the stored document. With presign=true the handler
// instead returns a short-lived URL pointing straight at object storage.
// GET /invoices/:id/download
func (h *InvoiceHandler) Download(c *gin.Context) {
	id := c.Param("id")

	if c.Query("presign") == "true" {
		url, expiresAt, err := h.reviews.DownloadURL(c.Request.Context(), id, 15*time.Minute)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, dto.DownloadURLResponse{
			URL:       url,
			ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		})
		return
	}

	result, err := h.reviews.DownloadInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer result.Content.Close()

	c.Header("Content-Type", result.ContentType)
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	if result.Size >= 0 {
		c.Header("Content-Length", strconv.FormatInt(result.Size, 10))
	}
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, result.Content); err != nil {
		// Headers are already written, all we can do is log
		h.logger.Error("Failed to stream invoice document",
			zap.String("invoice_id", id),
			zap.Error(err),
		)
	}
}
