package sms

import (
	"math"
	"strconv"
	"time"
)

// NormalizeAccount converts an upstream account representation into the
// canonical balance payload. The provider is inconsistent about shape: it may
// return a list whose first element is the account record, a bare object, or
// an object wrapping the record under an "account" key. Malformed input
// degrades to defaults; this never fails.
func NormalizeAccount(raw any, defaultSender string, now time.Time) *BalancePayload {
	account := extractAccount(raw)

	balance := toFloat(firstTruthy(account, "balance", "credit_balance", "credits"))
	if math.IsNaN(balance) || math.IsInf(balance, 0) {
		balance = 0
	}

	summary := AccountSummary{
		ID:     firstTruthy(account, "account_id", "id"),
		Name:   asString(firstTruthy(account, "account_name", "name")),
		Status: asString(firstTruthy(account, "status", "account_status")),
		Email:  asString(account["email"]),
		Sender: asString(firstTruthy(account, "sendername", "sender_name")),
	}
	if summary.Status == "" {
		summary.Status = "unknown"
	}
	if summary.Sender == "" {
		summary.Sender = defaultSender
	}

	return &BalancePayload{
		Success:     true,
		Balance:     &balance,
		Account:     summary,
		Raw:         raw,
		Stale:       false,
		RetrievedAt: now.UTC().Format(time.RFC3339),
	}
}

func extractAccount(raw any) map[string]any {
	switch v := raw.(type) {
	case []any:
		if len(v) > 0 {
			if m, ok := v[0].(map[string]any); ok {
				return m
			}
		}
	case map[string]any:
		if wrapped, ok := v["account"].(map[string]any); ok {
			return wrapped
		}
		return v
	}
	return map[string]any{}
}

// firstTruthy walks the fallback chain and returns the first value that is
// neither absent nor a zero-ish scalar, mirroring how the dashboard has
// always resolved these fields.
func firstTruthy(m map[string]any, keys ...string) any {
	for _, key := range keys {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t == "" {
				continue
			}
		case float64:
			if t == 0 {
				continue
			}
		case bool:
			if !t {
				continue
			}
		}
		return v
	}
	return nil
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
	}
	return 0
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return stringify(v)
}
