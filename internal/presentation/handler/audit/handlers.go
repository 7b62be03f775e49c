package audit

import (
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hilthontt/trafficguard/internal/infrastructure/json"
	"github.com/hilthontt/trafficguard/internal/infrastructure/ws"
	"github.com/hilthontt/trafficguard/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	trail *service.AuditTrail
	core  *ws.Core
}

func NewHandler(trail *service.AuditTrail, core *ws.Core) *Handler {
	return &Handler{
		trail: trail,
		core:  core,
	}
}

// ListAuditHandler godoc
// @Summary      List audit events
// @Description  Returns one page of the append-only trail, newest first
// @Tags         audit
// @Produce      json
// @Param        page query int false "Page number, starting at 1"
// @Param        limit query int false "Page size"
// @Success      200 {object} listResponse "One page of events"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /audit [get]
func (h *Handler) ListAuditHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page < 1 {
		page = 1
	}

	events, total, err := h.trail.List(r.Context(), page, limit)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, listResponse{
		Success: true,
		Total:   total,
		Page:    page,
		Data:    events,
	})
}

// ClearAuditHandler godoc
// @Summary      Clear the audit log
// @Description  Deletes every event in the trail; administrative only
// @Tags         audit
// @Produce      json
// @Success      200 {object} clearResponse "Trail cleared"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /audit [delete]
func (h *Handler) ClearAuditHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.trail.Clear(r.Context()); err != nil {
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, clearResponse{Success: true, Message: "Audit log cleared"})
}

// StreamAuditHandler godoc
// @Summary      Live audit feed
// @Description  Upgrades to a websocket pushing each audit event as it is appended
// @Tags         audit
// @Success      101 {object} map[string]interface{} "Switching Protocols"
// @Router       /audit/stream [get]
func (h *Handler) StreamAuditHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed for audit stream: %v", err)
		return
	}

	client := ws.NewClient(conn, uuid.NewString())
	h.core.Register() <- client

	go client.WriteMessage()
	go client.ReadMessage(h.core)
}
