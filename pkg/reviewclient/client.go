package reviewclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// APIError is a structured error returned by the review API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Client is an HTTP client for the invoice review API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiVersion string
}

// ClientOption is a functional option for Client configuration
type ClientOption func(*Client)

// WithHTTPClient sets a custom http.Client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAPIVersion sets the API version path segment
func WithAPIVersion(version string) ClientOption {
	return func(c *Client) {
		c.apiVersion = version
	}
}

// NewClient creates a client for the review API at baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// UploadFile is one document to submit for analysis.
type UploadFile struct {
	Name    string
	Content io.Reader
}

func (c *Client) apiURL(path string) string {
	return c.baseURL + "/api/" + c.apiVersion + path
}

// Health checks the server liveness endpoint.
func (c *Client) Health(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var body struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decoding health response: %w", err)
	}
	return body.OK, nil
}

// Analyze uploads a batch of files and returns the created invoices.
func (c *Client) Analyze(ctx context.Context, files []UploadFile) ([]Invoice, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, fmt.Errorf("building multipart body: %w", err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("reading %q: %w", f.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL("/invoices/analyze"), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var result struct {
		Invoices []Invoice `json:"invoices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding analyze response: %w", err)
	}
	return result.Invoices, nil
}

// List fetches all invoices, newest upload first.
func (c *Client) List(ctx context.Context) ([]Invoice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL("/invoices"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var result struct {
		Invoices []Invoice `json:"invoices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding list response: %w", err)
	}
	return result.Invoices, nil
}

// Get fetches one invoice by id.
func (c *Client) Get(ctx context.Context, id string) (*Invoice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL("/invoices/"+url.PathEscape(id)), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var result struct {
		Invoice Invoice `json:"invoice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding invoice response: %w", err)
	}
	return &result.Invoice, nil
}

// ResolveAnomaly toggles one anomaly's resolved flag on the server and
// returns the authoritative updated invoice.
func (c *Client) ResolveAnomaly(ctx context.Context, invoiceID, anomalyID string, resolved bool) (*Invoice, error) {
	payload, err := json.Marshal(map[string]bool{"resolved": resolved})
	if err != nil {
		return nil, err
	}

	endpoint := c.apiURL("/invoices/" + url.PathEscape(invoiceID) + "/anomalies/" + url.PathEscape(anomalyID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var result struct {
		Invoice Invoice `json:"invoice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding resolve response: %w", err)
	}
	return &result.Invoice, nil
}

// Download fetches the stored document bytes for an invoice.
func (c *Client) Download(ctx context.Context, id string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL("/invoices/"+url.PathEscape(id)+"/download"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	return io.ReadAll(resp.Body)
}

// decodeAPIError parses the server's error envelope.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Code: "ERR_UNKNOWN"}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
