package health

import (
	"context"
	"net/http"
	"time"

	"github.com/hilthontt/trafficguard/internal/infrastructure/json"
)

var startTime = time.Now()

// Pinger reports storage connectivity. The in-memory backend passes nil.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	driver string
	pinger Pinger
}

func NewHandler(driver string, pinger Pinger) *Handler {
	return &Handler{
		driver: driver,
		pinger: pinger,
	}
}

// GetHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API, including uptime and storage connectivity
// @Tags         health
// @Produce      json
// @Success      200 {object} healthResponse "Service is healthy"
// @Failure      503 {object} healthResponse "Service is unhealthy"
// @Router       /health [get]
// @Router       /healthz [get]
// @Router       /ready [get]
// @Router       /live [get]
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(startTime).Round(time.Second).String(),
		Storage:   h.driver,
	}

	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.pinger.Ping(ctx); err != nil {
			resp.Status = "unhealthy"
			json.Write(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	json.Write(w, http.StatusOK, resp)
}
