package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func validInput() ViolationInput {
	return ViolationInput{
		Plate:       "abc-123",
		VehicleType: "Car",
		Type:        "red_light",
		Location:    "Main St & 5th Ave",
	}
}

func TestNewViolation_Defaults(t *testing.T) {
	v, err := NewViolation(validInput())
	if err != nil {
		t.Fatalf("NewViolation: %v", err)
	}

	if !strings.HasPrefix(v.ID, "TG-") {
		t.Errorf("id should carry the TG- prefix, got %q", v.ID)
	}
	if v.ID != strings.ToUpper(v.ID) {
		t.Errorf("id should be uppercased, got %q", v.ID)
	}
	if v.Plate != "ABC-123" {
		t.Errorf("plate should be normalized to uppercase, got %q", v.Plate)
	}
	if v.Owner != DefaultOwner {
		t.Errorf("owner should default to %q, got %q", DefaultOwner, v.Owner)
	}
	if v.Severity != SeverityMinor {
		t.Errorf("severity should default to minor, got %q", v.Severity)
	}
	if v.Status != StatusUnpaid {
		t.Errorf("new violation must start unpaid, got %q", v.Status)
	}
	if v.Payment != nil {
		t.Error("new violation must not carry a payment")
	}
	if v.BaseFine != 7500 || v.ProcessingFee != 375 || v.TotalFine != 7875 {
		t.Errorf("red_light fine expected 7500/375/7875, got %d/%d/%d",
			v.BaseFine, v.ProcessingFee, v.TotalFine)
	}
	if v.CreatedAt.IsZero() || v.UpdatedAt.IsZero() {
		t.Error("timestamps must be set at creation")
	}
}

func TestNewViolation_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ViolationInput)
	}{
		{"missing plate", func(in *ViolationInput) { in.Plate = "  " }},
		{"missing location", func(in *ViolationInput) { in.Location = "" }},
		{"bad vehicle type", func(in *ViolationInput) { in.VehicleType = "Tank" }},
		{"bad violation type", func(in *ViolationInput) { in.Type = "jaywalking" }},
		{"bad severity", func(in *ViolationInput) { in.Severity = "catastrophic" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			if _, err := NewViolation(in); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestViolation_Pay(t *testing.T) {
	v, err := NewViolation(validInput())
	if err != nil {
		t.Fatal(err)
	}

	if err := v.Pay(PaymentInput{Method: "Cash", PaidBy: "J. Driver"}); err != nil {
		t.Fatalf("Pay: %v", err)
	}

	if v.Status != StatusPaid {
		t.Errorf("status expected paid, got %q", v.Status)
	}
	if v.Payment == nil {
		t.Fatal("payment must be attached after Pay")
	}
	if !strings.HasPrefix(v.Payment.ReceiptNo, "RCT-") {
		t.Errorf("receipt should carry the RCT- prefix, got %q", v.Payment.ReceiptNo)
	}
	if v.Payment.PaidAt.IsZero() {
		t.Error("paidAt must be set")
	}

	// Paid is terminal.
	if err := v.Pay(PaymentInput{Method: "Cash", PaidBy: "J. Driver"}); !errors.Is(err, ErrAlreadyPaid) {
		t.Errorf("double payment: expected ErrAlreadyPaid, got %v", err)
	}
}

func TestViolation_Pay_Validation(t *testing.T) {
	v, _ := NewViolation(validInput())

	if err := v.Pay(PaymentInput{Method: "Barter", PaidBy: "X"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown method: expected ErrInvalidInput, got %v", err)
	}
	if err := v.Pay(PaymentInput{Method: "Cash", PaidBy: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing paidBy: expected ErrInvalidInput, got %v", err)
	}
	if v.Status != StatusUnpaid || v.Payment != nil {
		t.Error("failed payment must not mutate the record")
	}
}

func TestViolation_Dispute(t *testing.T) {
	v, _ := NewViolation(validInput())

	if err := v.Dispute(); err != nil {
		t.Fatalf("Dispute: %v", err)
	}
	if v.Status != StatusDisputed {
		t.Errorf("status expected disputed, got %q", v.Status)
	}

	// Not idempotent: disputing twice is rejected.
	if err := v.Dispute(); !errors.Is(err, ErrNotUnpaid) {
		t.Errorf("second dispute: expected ErrNotUnpaid, got %v", err)
	}

	// A disputed record is still payable.
	if err := v.Pay(PaymentInput{Method: "Bank Transfer", PaidBy: "J. Driver"}); err != nil {
		t.Fatalf("paying a disputed violation: %v", err)
	}
	if v.Status != StatusPaid {
		t.Errorf("status expected paid, got %q", v.Status)
	}

	// Disputing a paid record is rejected.
	paid, _ := NewViolation(validInput())
	_ = paid.Pay(PaymentInput{Method: "Cash", PaidBy: "X"})
	if err := paid.Dispute(); !errors.Is(err, ErrNotUnpaid) {
		t.Errorf("disputing paid: expected ErrNotUnpaid, got %v", err)
	}
}

func TestViolation_JSONRoundTrip(t *testing.T) {
	v, _ := NewViolation(ViolationInput{
		Plate:       "xyz 99",
		VehicleType: "Truck",
		Owner:       "A. Haulage",
		Contact:     "+92-300-0000000",
		Type:        "overloading",
		Severity:    "major",
		Location:    "Ring Road",
		OfficerID:   "OFF-42",
		Notes:       "axle overload",
	})
	if err := v.Pay(PaymentInput{Method: "Mobile Wallet", PaidBy: "A. Haulage", Reference: "TXN-1"}); err != nil {
		t.Fatal(err)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Violation
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.ID != v.ID || got.Plate != v.Plate || got.Owner != v.Owner ||
		got.Type != v.Type || got.Severity != v.Severity || got.Status != v.Status ||
		got.TotalFine != v.TotalFine || got.OfficerID != v.OfficerID || got.Notes != v.Notes {
		t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", got, *v)
	}
	if got.Payment == nil || got.Payment.ReceiptNo != v.Payment.ReceiptNo ||
		got.Payment.Method != v.Payment.Method {
		t.Errorf("payment round-trip mismatch: %+v", got.Payment)
	}
	if !got.CreatedAt.Equal(v.CreatedAt) || !got.UpdatedAt.Equal(v.UpdatedAt) {
		t.Error("timestamp round-trip mismatch")
	}
}

func TestNewViolationID_Format(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	id := NewViolationID(now)
	if !strings.HasPrefix(id, "TG-") || id != strings.ToUpper(id) {
		t.Errorf("unexpected id format %q", id)
	}

	rct := NewReceiptNo(now)
	if !strings.HasPrefix(rct, "RCT-") || rct != strings.ToUpper(rct) {
		t.Errorf("unexpected receipt format %q", rct)
	}
}

func TestNewViolationID_UniqueWithinMillisecond(t *testing.T) {
	now := time.Now()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewViolationID(now)
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}
