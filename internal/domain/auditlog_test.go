package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewRecordedEvent(t *testing.T) {
	v, err := NewViolation(validInput())
	if err != nil {
		t.Fatal(err)
	}

	e := NewRecordedEvent(v)

	if e.Action != ActionRecorded {
		t.Errorf("action expected %q, got %q", ActionRecorded, e.Action)
	}
	if e.ViolationID != v.ID {
		t.Errorf("violationId expected %q, got %q", v.ID, e.ViolationID)
	}
	if e.PerformedBy != SystemPerformer {
		t.Errorf("performedBy expected %q, got %q", SystemPerformer, e.PerformedBy)
	}
	if !strings.Contains(e.Detail, v.Plate) || !strings.Contains(e.Detail, "7,875") {
		t.Errorf("detail should mention plate and formatted total, got %q", e.Detail)
	}
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Error("event id and timestamp must be set")
	}
}

func TestNewPaymentReceivedEvent(t *testing.T) {
	v, _ := NewViolation(validInput())
	if err := v.Pay(PaymentInput{Method: "Cash", PaidBy: "J. Driver"}); err != nil {
		t.Fatal(err)
	}

	e := NewPaymentReceivedEvent(v)

	if e.Action != ActionPaymentReceived {
		t.Errorf("action expected %q, got %q", ActionPaymentReceived, e.Action)
	}
	if !strings.Contains(e.Detail, v.Payment.ReceiptNo) {
		t.Errorf("detail should mention the receipt, got %q", e.Detail)
	}
	if e.Metadata["receiptNo"] != v.Payment.ReceiptNo {
		t.Errorf("metadata receiptNo mismatch: %v", e.Metadata["receiptNo"])
	}
}

func TestNewDeletedEvent_WeakReference(t *testing.T) {
	e := NewDeletedEvent("TG-GONE", "ABC-123")

	if e.Action != ActionDeleted {
		t.Errorf("action expected %q, got %q", ActionDeleted, e.Action)
	}
	// The referenced violation no longer exists; the event still stands alone.
	if e.ViolationID != "TG-GONE" {
		t.Errorf("violationId expected TG-GONE, got %q", e.ViolationID)
	}
}

func TestAuditEvent_JSONRoundTrip(t *testing.T) {
	v, _ := NewViolation(validInput())
	e := NewRecordedEvent(v)

	raw, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got AuditEvent
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.ID != e.ID || got.Action != e.Action || got.Detail != e.Detail ||
		got.Color != e.Color || got.ViolationID != e.ViolationID ||
		got.PerformedBy != e.PerformedBy {
		t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", got, *e)
	}
	if !got.CreatedAt.Equal(e.CreatedAt) {
		t.Error("timestamp round-trip mismatch")
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{7875, "7,875"},
		{26250, "26,250"},
		{1234567, "1,234,567"},
	}

	for _, tc := range cases {
		if got := formatAmount(tc.in); got != tc.want {
			t.Errorf("formatAmount(%d): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
