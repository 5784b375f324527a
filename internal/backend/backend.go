// internal/backend/backend.go

// Package backend talks to the hosted table (a PostgREST endpoint) the
// project catalog lives in.
package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"folio/internal/catalog"
	"folio/internal/config"

	"github.com/tidwall/gjson"
)

// maxBody bounds how much of a response is read.
const maxBody = 8 << 20

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Code)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
}

// Client queries one table read-only.
type Client struct {
	baseURL string
	anonKey string
	table   string
	http    *http.Client
}

// New builds a client for cfg. httpClient may be nil.
func New(cfg config.CatalogConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		anonKey: cfg.AnonKey,
		table:   cfg.Table,
		http:    httpClient,
	}
}

// FetchProjects returns every row, newest first.
func (c *Client) FetchProjects(ctx context.Context) ([]catalog.RawRow, error) {
	q := url.Values{}
	q.Set("select", strings.Join(catalog.Columns, ","))
	q.Set("order", "created_at.desc")
	body, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	rows, err := catalog.ParseRows(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", c.table, err)
	}
	return rows, nil
}

// Ping issues the cheapest query the table allows, keeping the project
// awake between visits.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "1")
	_, err := c.get(ctx, q)
	return err
}

func (c *Client) get(ctx context.Context, q url.Values) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, url.PathEscape(c.table), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", c.table, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Message: gjson.GetBytes(body, "message").String()}
	}
	return body, nil
}
