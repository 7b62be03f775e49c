package audit

import "github.com/hilthontt/trafficguard/internal/domain"

// listResponse is the paginated trail envelope
type listResponse struct {
	Success bool                `json:"success"`
	Total   int                 `json:"total"`
	Page    int                 `json:"page"`
	Data    []domain.AuditEvent `json:"data"`
}

// clearResponse confirms the trail was wiped
type clearResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
