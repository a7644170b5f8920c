package timesheet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"timesheet-report/internal/domain"
)

const previewLen = 100

// Client implements ports.TimeEntrySource against the timesheet HTTP endpoint.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	log      *slog.Logger
}

func NewClient(endpoint, apiKey string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// ListTimeEntries fetches every entry the endpoint returns.
// GET <endpoint>?code=<key>
func (c *Client) ListTimeEntries(ctx context.Context) ([]domain.TimeEntry, error) {
	if c.apiKey == "" {
		return nil, errors.New("timesheet: missing api key")
	}
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("timesheet: parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("code", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	c.log.Info("fetching time entries", slog.String("host", u.Host))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("timesheet: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("timesheet: read body: %w", err)
	}
	c.log.Info("raw payload preview", slog.String("json", preview(payload)))

	entries, err := Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	c.log.Info("fetched time entries", slog.Int("count", len(entries)))
	return entries, nil
}

// Decode parses a JSON array of timesheet records and maps it to the domain.
// A null array decodes to zero entries.
func Decode(r io.Reader) ([]domain.TimeEntry, error) {
	var raw []rawTimeEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("timesheet: decode: %w", err)
	}
	out := make([]domain.TimeEntry, 0, len(raw))
	for _, rec := range raw {
		out = append(out, domain.TimeEntry{
			Employee: rec.employee(),
			Start:    rec.Start.Time,
			End:      rec.End.Time,
		})
	}
	return out, nil
}

func preview(b []byte) string {
	s := string(b)
	if len(s) > previewLen {
		return s[:previewLen] + "..."
	}
	return s
}

// rawTimeEntry mirrors the JSON returned by the endpoint. The employee name
// arrives under EmployeeName or, in older records, under name.
type rawTimeEntry struct {
	EmployeeName *string `json:"EmployeeName"`
	Name         *string `json:"name"`
	Start        utcTime `json:"StarTimeUtc"`
	End          utcTime `json:"EndTimeUtc"`
}

// employee resolves the identifier: EmployeeName when non-empty, else name.
func (r rawTimeEntry) employee() string {
	if r.EmployeeName != nil && *r.EmployeeName != "" {
		return *r.EmployeeName
	}
	if r.Name != nil {
		return *r.Name
	}
	return ""
}

// utcTime accepts RFC 3339 as well as zone-less ISO-8601 timestamps, which
// are read as UTC.
type utcTime struct {
	time.Time
}

var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func (t *utcTime) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if v, err := time.Parse(time.RFC3339Nano, str); err == nil {
		t.Time = v.UTC()
		return nil
	}
	for _, layout := range zonelessLayouts {
		if v, err := time.ParseInLocation(layout, str, time.UTC); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("timestamp: unsupported format %q", str)
}
