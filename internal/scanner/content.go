package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ContentClient talks to the email content-scanning collaborator. The
// collaborator accepts a raw message and returns its verdict synchronously;
// the verdict is passed through verbatim.
type ContentClient struct {
	// Endpoint is the full URL of the content-scan API.
	Endpoint string
	// HTTPClient is the underlying transport; it should carry a timeout.
	HTTPClient *http.Client
}

// NewContentClient constructs a content-scanner client with a timeout-bounded
// HTTP transport.
func NewContentClient(endpoint string, timeout time.Duration) *ContentClient {
	return &ContentClient{
		Endpoint: endpoint,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type contentScanRequest struct {
	Email string `json:"email"`
}

// ScanEmail submits a raw email message and returns the collaborator's
// verdict payload untouched.
func (c *ContentClient) ScanEmail(ctx context.Context, email string) (json.RawMessage, error) {
	payload, err := json.Marshal(contentScanRequest{Email: email})
	if err != nil {
		return nil, fmt.Errorf("marshal content-scan request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build content-scan request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content-scan request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read content-scan response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("content scanner returned status %d", resp.StatusCode)
	}
	return raw, nil
}
