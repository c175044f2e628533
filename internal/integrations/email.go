// Package integrations holds the thin outbound clients behind the
// serverless-style proxy endpoints. Each client performs a single request
// per call and propagates the upstream error to the caller; nothing here
// retries.
package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrMissingAPIKey = errors.New("provider API key is not configured")

type EmailClient struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	senderEmail string
	senderName  string
}

func NewEmailClient(apiKey, baseURL, senderEmail, senderName string) *EmailClient {
	return &EmailClient{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		apiKey:      apiKey,
		baseURL:     baseURL,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

type emailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendEmailRequest struct {
	Sender      emailAddress   `json:"sender"`
	To          []emailAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

// Send relays one transactional email through the provider.
func (c *EmailClient) Send(ctx context.Context, to, subject, htmlContent string) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	payload := sendEmailRequest{
		Sender:      emailAddress{Email: c.senderEmail, Name: c.senderName},
		To:          []emailAddress{{Email: to}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
