package sms

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MaxMessageLength is the single-segment SMS limit. Longer messages are
// rejected rather than silently split.
const MaxMessageLength = 160

// MaxSenderNameLength is the provider hard limit for sender labels.
const MaxSenderNameLength = 11

// SendRequest represents the inbound send-sms body. The dashboard frontend
// has historically used several field names for the same thing, so all
// aliases are accepted.
type SendRequest struct {
	Number     RecipientList `json:"number"`
	Numbers    RecipientList `json:"numbers"`
	Recipients RecipientList `json:"recipients"`
	Message    string        `json:"message"`
	Sender     string        `json:"sender"`
	SenderName string        `json:"sendername"`
}

// RecipientString joins the first populated recipient alias into the
// comma-separated form the provider expects.
func (r *SendRequest) RecipientString() string {
	for _, list := range []RecipientList{r.Number, r.Numbers, r.Recipients} {
		if len(list) > 0 {
			return strings.Join(list, ",")
		}
	}
	return ""
}

// SenderLabel resolves the sender alias chain, falling back to the configured
// default, and truncates to the provider limit.
func (r *SendRequest) SenderLabel(defaultSender string) string {
	label := strings.TrimSpace(r.Sender)
	if label == "" {
		label = strings.TrimSpace(r.SenderName)
	}
	if label == "" {
		label = defaultSender
	}
	if len(label) > MaxSenderNameLength {
		label = label[:MaxSenderNameLength]
	}
	return label
}

// RecipientList accepts either a comma-delimited string or a JSON array of
// values and normalizes into trimmed, non-empty entries.
type RecipientList []string

func (l *RecipientList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = normalizeRecipients(raw)
	return nil
}

func normalizeRecipients(raw any) []string {
	var out []string
	appendEntry := func(v any) {
		s := strings.TrimSpace(stringify(v))
		if s != "" {
			out = append(out, s)
		}
	}
	switch v := raw.(type) {
	case nil:
	case string:
		for _, segment := range strings.Split(v, ",") {
			appendEntry(segment)
		}
	case []any:
		for _, item := range v {
			appendEntry(item)
		}
	default:
		appendEntry(v)
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; phone numbers must not be
		// rendered in scientific notation.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// AccountSummary is the canonical account record shown on the dashboard.
type AccountSummary struct {
	ID     any    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Email  string `json:"email"`
	Sender string `json:"sender"`
}

// BalancePayload is the canonical balance response. Balance is a pointer so
// a degraded non-JSON upstream response can report null rather than zero.
type BalancePayload struct {
	Success               bool           `json:"success"`
	Balance               *float64       `json:"balance"`
	Account               AccountSummary `json:"account"`
	Raw                   any            `json:"raw"`
	Stale                 bool           `json:"stale"`
	Note                  string         `json:"note,omitempty"`
	RetryAfter            int            `json:"retry_after,omitempty"`
	LastUpdatedSecondsAgo *int           `json:"last_updated_seconds_ago,omitempty"`
	RetrievedAt           string         `json:"retrieved_at"`
}

// Clone returns an independent copy. Raw is shared; it is never mutated
// after normalization.
func (p *BalancePayload) Clone() *BalancePayload {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Balance != nil {
		b := *p.Balance
		cp.Balance = &b
	}
	if p.LastUpdatedSecondsAgo != nil {
		v := *p.LastUpdatedSecondsAgo
		cp.LastUpdatedSecondsAgo = &v
	}
	return &cp
}

// ErrorPayload is the canonical failure body for gateway responses.
type ErrorPayload struct {
	Success    bool `json:"success"`
	Error      any  `json:"error"`
	RetryAfter int  `json:"retry_after,omitempty"`
	Details    any  `json:"details,omitempty"`
}

// Result pairs a response payload with the HTTP status it should be served
// with. Upstream statuses are data here, not Go errors.
type Result struct {
	Status  int
	Payload any
}
