package review

import "io"

// IngestedFile is one uploaded document handed to the ingestion pipeline.
type IngestedFile struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// ResolveAnomalyRequest carries one resolution toggle.
type ResolveAnomalyRequest struct {
	InvoiceID string
	AnomalyID string
	Resolved  bool
}

// DownloadResult is a streamable invoice document.
type DownloadResult struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.ReadCloser
}
