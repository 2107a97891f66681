package dto

// Response represents a standard API error envelope. Success payloads are
// written directly by the handlers; the envelope is only used for errors.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithRequestID creates an error response carrying the
// request id for correlation with logs
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// ValidationDetail describes a single failed field validation
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorInfo is ErrorInfo plus per-field details
type ValidationErrorInfo struct {
	ErrorInfo
	Details []ValidationDetail `json:"details,omitempty"`
}

// ValidationResponse wraps a validation error
type ValidationResponse struct {
	Success bool                 `json:"success"`
	Error   *ValidationErrorInfo `json:"error"`
}

// NewValidationErrorResponse creates a 400-style response with field details
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) ValidationResponse {
	return ValidationResponse{
		Success: false,
		Error: &ValidationErrorInfo{
			ErrorInfo: ErrorInfo{
				Code:      ErrCodeValidation,
				Message:   message,
				RequestID: requestID,
			},
			Details: details,
		},
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	OK bool `json:"ok"`
}

// InvoiceListResponse is the body of POST /invoices/analyze and GET /invoices
type InvoiceListResponse struct {
	Invoices interface{} `json:"invoices"`
}

// InvoiceResponse wraps a single invoice record
type InvoiceResponse struct {
	Invoice interface{} `json:"invoice"`
}

// ResolveAnomalyRequest is the body of PATCH /invoices/:id/anomalies/:anomalyId
type ResolveAnomalyRequest struct {
	Resolved *bool `json:"resolved" binding:"required"`
}

// DownloadURLResponse is the body of the presigned download variant
type DownloadURLResponse struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
}
