// Package webhook delivers notification events to an outbound HTTP endpoint
// (mail gateway, chat bridge, or similar). Only the dispatch worker uses it;
// the engine never performs delivery itself.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

// Client posts notification events as JSON to a configured endpoint.
type Client struct {
	URL        string
	AuthToken  string
	HTTPClient *http.Client
}

// NewClient returns a Client for the given endpoint. token is optional and
// sent as a Bearer header when set.
func NewClient(url, token string) *Client {
	return &Client{
		URL:        url,
		AuthToken:  token,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Deliver posts one event (the raw Kafka message value) to the endpoint.
// The body is validated as JSON before sending so a corrupt message fails
// fast instead of reaching the receiver.
func (c *Client) Deliver(ctx context.Context, rawEvent []byte) error {
	if c.URL == "" {
		return fmt.Errorf("webhook: endpoint URL is empty")
	}
	if !json.Valid(rawEvent) {
		return fmt.Errorf("webhook: event is not valid JSON")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(rawEvent))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("webhook: delivery failed status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}
