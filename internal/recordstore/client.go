// Package recordstore talks to the PostgREST record store and turns its
// loosely shaped rows into validated models at the boundary.
package recordstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PDG1999/tool-dashboard-samebi/internal/logger"
	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
)

type Client struct {
	httpClient *http.Client
	session    *Session
	now        func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithClock replaces the clock used to turn a time range into a cutoff.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

func New(session *Session, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		session:    session,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) FetchAssessmentRecords(ctx context.Context, tr models.TimeRange) ([]models.AssessmentRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("recordstore").WithField("time_range", tr)

	query := url.Values{"order": {"created_at.desc"}}
	if cutoff, ok := tr.Since(c.now()); ok {
		query.Set("created_at", "gte."+cutoff.UTC().Format(time.RFC3339))
	}

	rows, err := c.getRows(ctx, "/test_results", query)
	if err != nil {
		log.Error("failed to fetch test results: %v", err)
		return nil, err
	}

	records := make([]models.AssessmentRecord, 0, len(rows))
	for i, raw := range rows {
		rec, err := parseAssessment(raw)
		if err != nil {
			log.Warn("skipping test result at index %d: %v", i, err)
			continue
		}
		records = append(records, rec)
	}

	log.Info("fetched %d test results (%d skipped)", len(records), len(rows)-len(records))
	return records, nil
}

func (c *Client) FetchClients(ctx context.Context) ([]models.ClientRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("recordstore")

	rows, err := c.getRows(ctx, "/clients", url.Values{"order": {"created_at.desc"}})
	if err != nil {
		log.Error("failed to fetch clients: %v", err)
		return nil, err
	}

	clients := make([]models.ClientRecord, 0, len(rows))
	for i, raw := range rows {
		cl, err := parseClient(raw)
		if err != nil {
			log.Warn("skipping client at index %d: %v", i, err)
			continue
		}
		clients = append(clients, cl)
	}

	log.Debug("fetched %d clients", len(clients))
	return clients, nil
}

func (c *Client) FetchCounselors(ctx context.Context) ([]models.CounselorRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("recordstore")

	rows, err := c.getRows(ctx, "/counselors", url.Values{"order": {"created_at.desc"}})
	if err != nil {
		log.Error("failed to fetch counselors: %v", err)
		return nil, err
	}

	counselors := make([]models.CounselorRecord, 0, len(rows))
	for i, raw := range rows {
		co, err := parseCounselor(raw)
		if err != nil {
			log.Warn("skipping counselor at index %d: %v", i, err)
			continue
		}
		counselors = append(counselors, co)
	}

	log.Debug("fetched %d counselors", len(counselors))
	return counselors, nil
}

// getRows performs a GET and splits the JSON array body into raw rows so each
// row can be validated on its own.
func (c *Client) getRows(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error) {
	log := logger.FromContext(ctx).WithPrefix("recordstore").WithField("path", path)
	endpoint := c.session.endpoint(path, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if auth := c.session.authorization(); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	log.Debug("requesting %s", endpoint)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: upstreamMessage(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return []json.RawMessage{}, nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	if rows == nil {
		rows = []json.RawMessage{}
	}
	return rows, nil
}

// StatusError is returned when the record store answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API Error: %d", e.StatusCode)
}

func upstreamMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}

// Ping checks that the record store answers at all.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.getRows(ctx, "/counselors", url.Values{"limit": {"1"}})
	return err
}
