package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jask/showcase/internal/content"
)

// ErrRejected is returned when the server refuses a document.
var ErrRejected = errors.New("api: content rejected")

// Client talks to a remote content API. It implements content.Source.
type Client struct {
	baseURL  string
	token    string
	fallback content.SiteContent
	http     *http.Client
}

// NewClient builds a client for baseURL. token may be empty when the server
// does not require one.
func NewClient(baseURL, token string, fallback content.SiteContent) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		fallback: fallback,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// Load fetches the document. An empty stored document resolves to the fallback.
func (c *Client) Load(ctx context.Context) (content.SiteContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ContentPath, nil)
	if err != nil {
		return content.SiteContent{}, fmt.Errorf("building request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return content.SiteContent{}, fmt.Errorf("GET %s: %w", ContentPath, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return content.SiteContent{}, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return content.SiteContent{}, fmt.Errorf("GET %s: %s", ContentPath, statusError(resp.StatusCode, body))
	}
	doc, err := content.Decode(body, content.FormatJSON)
	if err != nil {
		return content.SiteContent{}, err
	}
	return content.Resolve(&doc, c.fallback), nil
}

// Save posts the whole document.
func (c *Client) Save(ctx context.Context, doc content.SiteContent) error {
	_, err := c.Post(ctx, doc)
	return err
}

// Post sends doc and returns the revision the server assigned.
func (c *Client) Post(ctx context.Context, doc content.SiteContent) (string, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding content: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ContentPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("POST %s: %w", ContentPath, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		err := statusError(resp.StatusCode, body)
		if resp.StatusCode < http.StatusInternalServerError {
			return "", fmt.Errorf("%w: %v", ErrRejected, err)
		}
		return "", err
	}
	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if !r.Success {
		return "", fmt.Errorf("%w: %s", ErrRejected, r.Error)
	}
	return r.Revision, nil
}

func statusError(status int, body []byte) error {
	var r response
	if json.Unmarshal(body, &r) == nil && r.Error != "" {
		return fmt.Errorf("HTTP %d: %s", status, r.Error)
	}
	return fmt.Errorf("HTTP %d", status)
}
