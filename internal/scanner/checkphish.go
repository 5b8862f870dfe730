// Package scanner contains HTTP clients for the external scanning
// collaborators: the URL-reputation scanner (asynchronous submit/poll API)
// and the email content scanner. Clients are transport-thin: typed payloads
// in, verbatim verdicts out, no business rules.
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

// StatusDone is the only job status this system treats as terminal. The
// scanner may define more states; everything else means "keep polling".
const StatusDone = "DONE"

// JobStatus is one status snapshot of a reputation-scan job. Payload carries
// the scanner's full response verbatim so terminal verdicts can be returned
// to callers untouched.
type JobStatus struct {
	JobID   string
	Status  string
	Payload json.RawMessage
}

// Terminal reports whether the job has finished scanning.
func (j *JobStatus) Terminal() bool { return j.Status == StatusDone }

// Client talks to a CheckPhish-style URL reputation API: one endpoint to
// submit a URL for a full scan, one to poll the resulting job by ID. The API
// key travels in the request body, as the provider specifies.
type Client struct {
	// BaseURL is the API root, e.g. "https://developers.checkphish.ai".
	BaseURL string
	// APIKey authenticates every request.
	APIKey string
	// HTTPClient is the underlying transport; it should carry a timeout.
	HTTPClient *http.Client
}

// NewClient constructs a reputation-scanner client with a timeout-bounded
// HTTP transport.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type urlInfo struct {
	URL string `json:"url"`
}

type submitRequest struct {
	APIKey   string  `json:"apiKey"`
	URLInfo  urlInfo `json:"urlInfo"`
	ScanType string  `json:"scanType"`
}

type submitResponse struct {
	JobID string `json:"jobID"`
}

type statusRequest struct {
	APIKey   string `json:"apiKey"`
	JobID    string `json:"jobID"`
	Insights bool   `json:"insights"`
}

// Submit registers url for a full scan and returns the scanner-assigned job
// handle.
func (c *Client) Submit(ctx context.Context, url string) (string, error) {
	body := submitRequest{
		APIKey:   c.APIKey,
		URLInfo:  urlInfo{URL: url},
		ScanType: "full",
	}

	raw, err := c.post(ctx, c.BaseURL+"/api/neo/scan", body)
	if err != nil {
		return "", err
	}

	var resp submitResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode scan submission response: %w", err)
	}
	if resp.JobID == "" {
		return "", fmt.Errorf("scanner returned no job id")
	}
	return resp.JobID, nil
}

// Status polls the job identified by jobID and returns its current snapshot,
// including the scanner's raw response payload.
func (c *Client) Status(ctx context.Context, jobID string) (*JobStatus, error) {
	body := statusRequest{
		APIKey:   c.APIKey,
		JobID:    jobID,
		Insights: true,
	}

	raw, err := c.post(ctx, c.BaseURL+"/api/neo/scan/status", body)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode scan status response: %w", err)
	}

	return &JobStatus{
		JobID:   jobID,
		Status:  envelope.Status,
		Payload: raw,
	}, nil
}

// post sends a JSON body and returns the raw response bytes. Non-2xx
// responses are errors carrying the status code.
func (c *Client) post(ctx context.Context, url string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal scanner request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build scanner request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scanner request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read scanner response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("scanner returned status %d", resp.StatusCode)
	}
	return raw, nil
}
