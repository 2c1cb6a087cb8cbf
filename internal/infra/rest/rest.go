// Package rest implements the ledger backend against a hosted ledger
// service speaking JSON over HTTP. This is the remote-authoritative
// deployment mode; the store's cache and mirror keep the app usable
// when the service is unreachable.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yomanFX/vikula2/internal/domain"
	"github.com/yomanFX/vikula2/internal/ledger"
)

// Client talks to a remote ledger service. It implements ledger.Backend.
type Client struct {
	base   string
	client *http.Client
}

// NewClient creates a backend client for the service at base, e.g.
// "https://ledger.example.com/api".
func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// List fetches every activity from the service.
func (c *Client) List(ctx context.Context) ([]domain.Activity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/activities", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list activities: status %d", resp.StatusCode)
	}
	var body struct {
		Activities []domain.Activity `json:"activities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("list activities: decode: %w", err)
	}
	return body.Activities, nil
}

// Insert persists a new activity remotely.
func (c *Client) Insert(ctx context.Context, a domain.Activity) error {
	resp, err := c.post(ctx, http.MethodPost, c.base+"/activities", a)
	if err != nil {
		return fmt.Errorf("insert %s: %w", a.ID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("insert %s: status %d", a.ID, resp.StatusCode)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// patch mirrors ledger.Update on the wire; absent fields stay untouched.
type patch struct {
	Status *domain.Status `json:"status,omitempty"`
	Points *int           `json:"points,omitempty"`
	Appeal *domain.Appeal `json:"appeal,omitempty"`
}

// UpdateFields patches one activity's mutable fields remotely.
func (c *Client) UpdateFields(ctx context.Context, id string, u ledger.Update) error {
	body := patch{Status: u.Status, Points: u.Points, Appeal: u.Appeal}
	resp, err := c.post(ctx, http.MethodPatch, c.base+"/activities/"+id, body)
	if err != nil {
		return fmt.Errorf("update %s: %w", id, err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		io.Copy(io.Discard, resp.Body)
		return nil
	case http.StatusNotFound:
		return domain.ErrUnknownActivity
	default:
		return fmt.Errorf("update %s: status %d", id, resp.StatusCode)
	}
}

func (c *Client) post(ctx context.Context, method, url string, v interface{}) (*http.Response, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}
