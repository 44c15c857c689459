package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vivahdesk/leadbot/backend/internal/model/lead"
)

// DefaultRelayURL is the CallMeBot WhatsApp gateway.
const DefaultRelayURL = "https://api.callmebot.com/whatsapp.php"

// Recipient is one chat-relay destination.
type Recipient struct {
	Phone  string
	APIKey string
}

// ParseRecipients parses the "phone:apikey[,phone:apikey...]" configuration
// form. Blank entries are skipped; a malformed entry is an error.
func ParseRecipients(raw string) ([]Recipient, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var out []Recipient
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		phone, key, ok := strings.Cut(entry, ":")
		phone = strings.TrimSpace(phone)
		key = strings.TrimSpace(key)
		if !ok || phone == "" || key == "" {
			return nil, fmt.Errorf("invalid recipient entry %q, want phone:apikey", entry)
		}
		out = append(out, Recipient{Phone: phone, APIKey: key})
	}
	return out, nil
}

// RelaySink sends one formatted summary message per recipient through a
// CallMeBot-style gateway. Recipients are independent; a failure for one
// never blocks delivery to the rest.
type RelaySink struct {
	baseURL    string
	recipients []Recipient
	client     *http.Client
}

// RelayOption configures a RelaySink.
type RelayOption func(*RelaySink)

// WithRelayURL overrides the gateway endpoint, used by tests.
func WithRelayURL(u string) RelayOption {
	return func(s *RelaySink) {
		s.baseURL = u
	}
}

// NewRelaySink builds a sink over the given recipients.
func NewRelaySink(recipients []Recipient, opts ...RelayOption) *RelaySink {
	s := &RelaySink{
		baseURL:    DefaultRelayURL,
		recipients: recipients,
		client:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name identifies the sink in logs and metrics.
func (s *RelaySink) Name() string { return "relay" }

// Send delivers the summary to every recipient and joins whatever errors
// occurred along the way.
func (s *RelaySink) Send(ctx context.Context, rec lead.Record) error {
	text := formatSummary(rec)

	var errs []error
	for _, r := range s.recipients {
		if err := s.sendOne(ctx, r, text); err != nil {
			errs = append(errs, fmt.Errorf("recipient %s: %w", r.Phone, err))
		}
	}
	return errors.Join(errs...)
}

func (s *RelaySink) sendOne(ctx context.Context, r Recipient, text string) error {
	q := url.Values{}
	q.Set("phone", r.Phone)
	q.Set("apikey", r.APIKey)
	q.Set("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build relay request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("relay gateway unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("relay gateway returned status %d", resp.StatusCode)
	}
	return nil
}

func formatSummary(rec lead.Record) string {
	return fmt.Sprintf(
		"🎉 New lead!\nName: %s\nEvent: %s\nLocation: %s\nDate: %s\nSlot: %s (IST)",
		rec.Name, rec.EventType, rec.Location, rec.Date, rec.TimeSlot,
	)
}
