package sms_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/sms"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNormalizeAccount_ListAndWrappedShapesAgree(t *testing.T) {
	record := map[string]any{
		"account_name": "JeepNi",
		"status":       "active",
		"balance":      12.5,
	}

	fromList := sms.NormalizeAccount([]any{record}, "SEMAPHORE", testNow)
	fromWrap := sms.NormalizeAccount(map[string]any{"account": record}, "SEMAPHORE", testNow)
	fromBare := sms.NormalizeAccount(record, "SEMAPHORE", testNow)

	for _, p := range []*sms.BalancePayload{fromList, fromWrap, fromBare} {
		if p.Balance == nil || *p.Balance != 12.5 {
			t.Fatalf("expected balance 12.5, got %v", p.Balance)
		}
		if p.Account.Name != "JeepNi" {
			t.Fatalf("unexpected account name: %q", p.Account.Name)
		}
		if p.Account.Status != "active" {
			t.Fatalf("unexpected status: %q", p.Account.Status)
		}
	}
}

func TestNormalizeAccount_BalanceFallbackChain(t *testing.T) {
	p := sms.NormalizeAccount(map[string]any{
		"balance":        "",
		"credit_balance": "250.75",
	}, "SEMAPHORE", testNow)
	if p.Balance == nil || *p.Balance != 250.75 {
		t.Fatalf("expected credit_balance to win, got %v", p.Balance)
	}

	p = sms.NormalizeAccount(map[string]any{
		"balance": float64(0),
		"credits": float64(42),
	}, "SEMAPHORE", testNow)
	if p.Balance == nil || *p.Balance != 42 {
		t.Fatalf("expected credits fallback past zero balance, got %v", p.Balance)
	}
}

func TestNormalizeAccount_NonFiniteBalanceClampsToZero(t *testing.T) {
	for _, raw := range []string{"nan", "inf", "-inf"} {
		p := sms.NormalizeAccount(map[string]any{"balance": raw}, "SEMAPHORE", testNow)
		if p.Balance == nil || *p.Balance != 0 {
			t.Fatalf("expected %q to clamp to 0, got %v", raw, p.Balance)
		}
	}
}

func TestNormalizeAccount_Defaults(t *testing.T) {
	p := sms.NormalizeAccount(map[string]any{}, "JEEPNI", testNow)
	if p.Account.Status != "unknown" {
		t.Fatalf("expected status unknown, got %q", p.Account.Status)
	}
	if p.Account.Sender != "JEEPNI" {
		t.Fatalf("expected default sender, got %q", p.Account.Sender)
	}
	if !p.Success {
		t.Fatalf("normalization must always report success")
	}
	if p.RetrievedAt != testNow.Format(time.RFC3339) {
		t.Fatalf("unexpected retrieved_at: %q", p.RetrievedAt)
	}
}

func TestNormalizeAccount_GarbageInput(t *testing.T) {
	for _, raw := range []any{nil, "not an object", []any{}, []any{"still not"}, float64(9)} {
		p := sms.NormalizeAccount(raw, "SEMAPHORE", testNow)
		if p.Balance == nil || *p.Balance != 0 {
			t.Fatalf("garbage input %v should normalize to zero balance", raw)
		}
	}
}

func TestRecipientList_AcceptsStringAndArray(t *testing.T) {
	var req sms.SendRequest
	if err := json.Unmarshal([]byte(`{"number":"0917111, 0917222 ,"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := req.RecipientString(); got != "0917111,0917222" {
		t.Fatalf("unexpected recipients: %q", got)
	}

	req = sms.SendRequest{}
	if err := json.Unmarshal([]byte(`{"numbers":["0917111",9171234567," "]}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := req.RecipientString(); got != "0917111,9171234567" {
		t.Fatalf("numeric entries should render without scientific notation: %q", got)
	}
}

func TestRecipientString_AliasOrder(t *testing.T) {
	req := sms.SendRequest{
		Number:     sms.RecipientList{"111"},
		Recipients: sms.RecipientList{"333"},
	}
	if got := req.RecipientString(); got != "111" {
		t.Fatalf("number alias must win, got %q", got)
	}

	req = sms.SendRequest{Recipients: sms.RecipientList{"333"}}
	if got := req.RecipientString(); got != "333" {
		t.Fatalf("recipients alias should be used last, got %q", got)
	}
}

func TestSenderLabel_FallbackAndTruncation(t *testing.T) {
	req := sms.SendRequest{}
	if got := req.SenderLabel("SEMAPHORE"); got != "SEMAPHORE" {
		t.Fatalf("expected default sender, got %q", got)
	}

	req = sms.SendRequest{SenderName: "BACKUPNAME"}
	if got := req.SenderLabel("SEMAPHORE"); got != "BACKUPNAME" {
		t.Fatalf("sendername alias should apply, got %q", got)
	}

	req = sms.SendRequest{Sender: "WAYTOOLONGSENDER"}
	if got := req.SenderLabel("SEMAPHORE"); got != "WAYTOOLONGS" {
		t.Fatalf("expected 11-char truncation, got %q", got)
	}
}

func TestBalancePayloadClone_Independent(t *testing.T) {
	balance := 99.0
	age := 70
	p := &sms.BalancePayload{Balance: &balance, LastUpdatedSecondsAgo: &age}
	cp := p.Clone()

	*cp.Balance = 1
	*cp.LastUpdatedSecondsAgo = 5
	if *p.Balance != 99 || *p.LastUpdatedSecondsAgo != 70 {
		t.Fatalf("clone must not share pointer fields")
	}
}
