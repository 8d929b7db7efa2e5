package submit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/julianstephens/slotbook/internal/logger"
)

// Entry is one booking on the wire.
type Entry struct {
	Date     string `json:"date"`
	StartMin int    `json:"startMin"`
	EndMin   int    `json:"endMin"`
}

// Response is the save endpoint's answer.
type Response struct {
	Success *bool `json:"success"`
}

// Saver sends a batch of entries to a save endpoint.
type Saver interface {
	Save(ctx context.Context, entries []Entry) error
}

// Client posts bookings to a save endpoint.
type Client struct {
	endpoint   string
	discover   func() (string, error)
	httpClient *http.Client
}

// NewClient creates a client for the save endpoint at url.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		endpoint: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewDiscoveringClient creates a client that looks its endpoint up with
// discover on every save, so a server started later is still found.
func NewDiscoveringClient(discover func() (string, error), timeout time.Duration) *Client {
	c := NewClient("", timeout)
	c.discover = discover
	return c
}

// Endpoint returns the configured URL, empty for discovering clients.
func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) resolve() (string, error) {
	if c.endpoint != "" {
		return c.endpoint, nil
	}
	if c.discover == nil {
		return "", ErrNoEndpoint
	}
	url, err := c.discover()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoEndpoint, err)
	}
	return url, nil
}

// Save posts entries as a JSON array in a single request.
func (c *Client) Save(ctx context.Context, entries []Entry) error {
	endpoint, err := c.resolve()
	if err != nil {
		return err
	}

	body, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: failed to encode payload: %v", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug("Posting bookings", "endpoint", endpoint, "count", len(entries))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrTransport, err)
	}

	var result Response
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("%w: status %d: %v", ErrInvalidResponse, resp.StatusCode, err)
	}
	if result.Success == nil {
		return fmt.Errorf("%w: status %d: missing success flag", ErrInvalidResponse, resp.StatusCode)
	}
	if !*result.Success {
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	return nil
}
