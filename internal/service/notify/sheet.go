package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vivahdesk/leadbot/backend/internal/model/lead"
)

// SheetSink posts completed leads as JSON to a spreadsheet webhook (e.g. an
// Apps Script endpoint). One row per lead, never retried.
type SheetSink struct {
	url    string
	client *http.Client
}

// NewSheetSink targets the given webhook URL.
func NewSheetSink(url string) *SheetSink {
	return &SheetSink{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// Name identifies the sink in logs and metrics.
func (s *SheetSink) Name() string { return "sheet" }

// Send posts the lead row. Any non-2xx status is an error.
func (s *SheetSink) Send(ctx context.Context, rec lead.Record) error {
	payload := map[string]string{
		"name":      rec.Name,
		"eventType": rec.EventType,
		"location":  rec.Location,
		"date":      rec.Date,
		"timeSlot":  rec.TimeSlot,
		"timestamp": rec.Timestamp.Format(time.RFC3339),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal lead row: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sheet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sheet webhook unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sheet webhook returned status %d", resp.StatusCode)
	}
	return nil
}
