package ws

import "github.com/hilthontt/trafficguard/internal/domain"

const (
	AuditAppended = "audit_appended"
	AuditCleared  = "audit_cleared"
)

type StreamMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func NewAuditAppended(e domain.AuditEvent) *StreamMessage {
	return &StreamMessage{
		Type: AuditAppended,
		Data: e,
	}
}

func NewAuditCleared() *StreamMessage {
	return &StreamMessage{
		Type: AuditCleared,
	}
}
