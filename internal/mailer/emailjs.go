// Package mailer contains the HTTP client for the notification-email
// delivery collaborator (an EmailJS-style API: service id + template id +
// template params in, accepted/rejected out). The client is transport-thin;
// retry and replay semantics live in the service layer.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TemplateParams are the substitution values for a notification template.
// Field names mirror the delivery provider's expected keys.
type TemplateParams struct {
	Fullname    string `json:"fullname"`
	Email       string `json:"email"`
	URL         string `json:"url"`
	ToEmail     string `json:"to_email"`
	FromService string `json:"from_service"`
}

// Client sends templated notification emails through the delivery API.
type Client struct {
	// BaseURL is the API root, e.g. "https://api.emailjs.com".
	BaseURL string
	// ServiceID identifies the provider-side mail service.
	ServiceID string
	// PublicKey is the provider's user/public key.
	PublicKey string
	// PrivateKey is the provider's access token.
	PrivateKey string
	// HTTPClient is the underlying transport; it should carry a timeout.
	HTTPClient *http.Client
}

// NewClient constructs a delivery client with a timeout-bounded HTTP
// transport.
func NewClient(baseURL, serviceID, publicKey, privateKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    baseURL,
		ServiceID:  serviceID,
		PublicKey:  publicKey,
		PrivateKey: privateKey,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams TemplateParams `json:"template_params"`
	AccessToken    string         `json:"accessToken"`
}

// Send delivers one templated email. A non-2xx provider response is an error
// carrying the status code and a snippet of the provider's body.
func (c *Client) Send(ctx context.Context, templateID string, params TemplateParams) error {
	payload, err := json.Marshal(sendRequest{
		ServiceID:      c.ServiceID,
		TemplateID:     templateID,
		UserID:         c.PublicKey,
		TemplateParams: params,
		AccessToken:    c.PrivateKey,
	})
	if err != nil {
		return fmt.Errorf("marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/v1.0/email/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("delivery service returned status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	return nil
}
