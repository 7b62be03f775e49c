package domain

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	ActionRecorded        AuditAction = "RECORDED"
	ActionPaymentReceived AuditAction = "PAYMENT RECEIVED"
	ActionDisputed        AuditAction = "DISPUTED"
	ActionDeleted         AuditAction = "DELETED"
	ActionExported        AuditAction = "EXPORT"
)

// Dashboard color tags per action.
const (
	colorRecorded = "#f5c518"
	colorPayment  = "#22c55e"
	colorDisputed = "#f97316"
	colorDeleted  = "#ef4444"
	ColorDefault  = "#6b7280"
)

// SystemPerformer is recorded when no operator identity accompanies an action.
const SystemPerformer = "System"

// AuditEvent is an immutable entry in the append-only trail. ViolationID is
// a weak reference: the violation may be deleted later without invalidating
// the event.
type AuditEvent struct {
	ID          string         `bson:"_id" json:"id"`
	Action      AuditAction    `bson:"action" json:"action"`
	Detail      string         `bson:"detail" json:"detail"`
	Color       string         `bson:"color" json:"color"`
	ViolationID string         `bson:"violation_id,omitempty" json:"violationId,omitempty"`
	PerformedBy string         `bson:"performed_by" json:"performedBy"`
	Metadata    map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt   time.Time      `bson:"created_at" json:"createdAt"`
}

// AuditRepository owns the trail. Events are never updated; Clear wipes the
// whole log and exists for administration, not for the record lifecycle.
type AuditRepository interface {
	Append(ctx context.Context, e *AuditEvent) error
	List(ctx context.Context, page, limit int) ([]AuditEvent, int, error)
	Clear(ctx context.Context) error
	EnsureIndexes(ctx context.Context) error
}

func newAuditEvent(action AuditAction, detail, color, violationID string, metadata map[string]any) *AuditEvent {
	return &AuditEvent{
		ID:          uuid.NewString(),
		Action:      action,
		Detail:      detail,
		Color:       color,
		ViolationID: violationID,
		PerformedBy: SystemPerformer,
		Metadata:    metadata,
		CreatedAt:   time.Now(),
	}
}

func NewRecordedEvent(v *Violation) *AuditEvent {
	detail := fmt.Sprintf("%s · %s · %s · ₨%s", v.ID, v.Plate, v.Type, formatAmount(v.TotalFine))
	return newAuditEvent(ActionRecorded, detail, colorRecorded, v.ID, map[string]any{
		"plate": v.Plate,
		"type":  string(v.Type),
		"fine":  v.TotalFine,
	})
}

func NewPaymentReceivedEvent(v *Violation) *AuditEvent {
	detail := fmt.Sprintf("%s · ₨%s via %s · Receipt: %s",
		v.ID, formatAmount(v.TotalFine), v.Payment.Method, v.Payment.ReceiptNo)
	return newAuditEvent(ActionPaymentReceived, detail, colorPayment, v.ID, map[string]any{
		"receiptNo": v.Payment.ReceiptNo,
		"method":    string(v.Payment.Method),
		"amount":    v.TotalFine,
	})
}

func NewDisputedEvent(v *Violation) *AuditEvent {
	detail := fmt.Sprintf("%s · %s marked as disputed", v.ID, v.Plate)
	return newAuditEvent(ActionDisputed, detail, colorDisputed, v.ID, nil)
}

// NewDeletedEvent references the already-removed id; the back-reference is
// lookup-only and survives the deletion.
func NewDeletedEvent(violationID, plate string) *AuditEvent {
	detail := fmt.Sprintf("%s · %s removed from system", violationID, plate)
	return newAuditEvent(ActionDeleted, detail, colorDeleted, violationID, nil)
}

// formatAmount renders a fine with thousands separators, e.g. 7875 -> "7,875".
func formatAmount(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	if len(s) <= 3 {
		return s
	}

	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
