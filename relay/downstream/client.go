package downstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DeliveryTimeout bounds every outbound delivery attempt. There are
// no retries; a timed-out delivery is reported once and dropped.
const DeliveryTimeout = 10 * time.Second

/* Client is the HTTP implementation of relay.Sender. One client is
 * shared by all requests; the underlying http.Client is safe for
 * concurrent use.
 */
type Client struct {
	httpClient *http.Client
}

// NewClient creates a delivery client with the fixed timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: DeliveryTimeout,
		},
	}
}

// Post delivers a JSON body and returns the response status code.
// The response body is drained and discarded so the connection can
// be reused.
func (c *Client) Post(ctx context.Context, url string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("posting to %s: %w", url, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
