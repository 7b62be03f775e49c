package violations

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hilthontt/trafficguard/internal/domain"
	"github.com/hilthontt/trafficguard/internal/infrastructure/json"
	"github.com/hilthontt/trafficguard/internal/service"
)

type Handler struct {
	ledger    *service.Ledger
	reporting *service.Reporting
}

func NewHandler(ledger *service.Ledger, reporting *service.Reporting) *Handler {
	return &Handler{
		ledger:    ledger,
		reporting: reporting,
	}
}

// ListViolationsHandler godoc
// @Summary      List violations
// @Description  Returns one page of violations, newest first, with optional search and filters
// @Tags         violations
// @Produce      json
// @Param        search query string false "Substring match on plate, id, owner or location"
// @Param        status query string false "Filter by status" Enums(unpaid, paid, disputed)
// @Param        type query string false "Filter by offense category"
// @Param        page query int false "Page number, starting at 1"
// @Param        limit query int false "Page size"
// @Success      200 {object} listResponse "One page of violations"
// @Failure      400 {object} map[string]interface{} "Bad request - unknown status or type"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /violations [get]
func (h *Handler) ListViolationsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ViolationFilter{
		Search: q.Get("search"),
	}

	if status := q.Get("status"); status != "" {
		filter.Status = domain.Status(status)
		if !filter.Status.Valid() {
			json.WriteBadRequestError(w, "Unknown status: "+status)
			return
		}
	}
	if typ := q.Get("type"); typ != "" {
		filter.Type = domain.ViolationType(typ)
		if !filter.Type.Valid() {
			json.WriteBadRequestError(w, "Unknown violation type: "+typ)
			return
		}
	}

	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	if filter.Page < 1 {
		filter.Page = 1
	}

	records, total, err := h.ledger.List(r.Context(), filter)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, listResponse{
		Success: true,
		Total:   total,
		Page:    filter.Page,
		Data:    records,
	})
}

// CreateViolationHandler godoc
// @Summary      Record a new violation
// @Description  Validates officer input, computes the frozen fine amounts and stores the record
// @Tags         violations
// @Accept       json
// @Produce      json
// @Param        request body createViolationRequest true "Violation details"
// @Success      201 {object} recordResponse "Violation recorded"
// @Failure      400 {object} map[string]interface{} "Bad request - validation error"
// @Failure      409 {object} map[string]interface{} "Conflict - duplicate violation id"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /violations [post]
func (h *Handler) CreateViolationHandler(w http.ResponseWriter, r *http.Request) {
	var req createViolationRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := req.validate(); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	v, err := h.ledger.Create(r.Context(), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			json.WriteValidationError(w, err)
		case errors.Is(err, domain.ErrDuplicateViolation):
			json.WriteError(w, http.StatusConflict, err, "Violation already exists")
		default:
			log.Printf("Failed to record violation for plate %s: %v", req.Plate, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	json.Write(w, http.StatusCreated, recordResponse{Success: true, Data: v})
}

// GetViolationHandler godoc
// @Summary      Get a violation
// @Description  Looks up a violation by id, falling back to the most recent record for a plate
// @Tags         violations
// @Produce      json
// @Param        id path string true "Violation id or plate number"
// @Success      200 {object} recordResponse "The violation"
// @Failure      404 {object} map[string]interface{} "Violation not found"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /violations/{id} [get]
func (h *Handler) GetViolationHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		json.WriteValidationError(w, errors.New("violation id is missing"))
		return
	}

	v, err := h.ledger.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrViolationNotFound):
			json.WriteError(w, http.StatusNotFound, err, "Violation not found")
		default:
			log.Printf("Failed to load violation %s: %v", id, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	json.Write(w, http.StatusOK, recordResponse{Success: true, Data: v})
}

// PayViolationHandler godoc
// @Summary      Pay a violation
// @Description  Settles the fine, attaches the payment sub-record and returns the receipt number
// @Tags         violations
// @Accept       json
// @Produce      json
// @Param        id path string true "Violation id"
// @Param        request body payRequest true "Payment details"
// @Success      200 {object} payResponse "Payment accepted"
// @Failure      400 {object} map[string]interface{} "Bad request - validation error"
// @Failure      404 {object} map[string]interface{} "Violation not found"
// @Failure      409 {object} map[string]interface{} "Conflict - already paid"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /violations/{id}/pay [put]
func (h *Handler) PayViolationHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		json.WriteValidationError(w, errors.New("violation id is missing"))
		return
	}

	var req payRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := req.validate(); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	v, err := h.ledger.Pay(r.Context(), id, domain.PaymentInput{
		Method:    req.Method,
		PaidBy:    req.PaidBy,
		Reference: req.Reference,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrViolationNotFound):
			json.WriteError(w, http.StatusNotFound, err, "Violation not found")
		case errors.Is(err, domain.ErrAlreadyPaid):
			json.WriteError(w, http.StatusConflict, err, "Already paid")
		case errors.Is(err, domain.ErrInvalidInput):
			json.WriteValidationError(w, err)
		default:
			log.Printf("Failed to process payment for %s: %v", id, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	json.Write(w, http.StatusOK, payResponse{
		Success:   true,
		ReceiptNo: v.Payment.ReceiptNo,
		Data:      v,
	})
}

// DisputeViolationHandler godoc
// @Summary      Dispute a violation
// @Description  Moves an unpaid violation into the disputed state
// @Tags         violations
// @Produce      json
// @Param        id path string true "Violation id"
// @Success      200 {object} recordResponse "Violation disputed"
// @Failure      404 {object} map[string]interface{} "Violation not found"
// @Failure      409 {object} map[string]interface{} "Conflict - not unpaid"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /violations/{id}/dispute [put]
func (h *Handler) DisputeViolationHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		json.WriteValidationError(w, errors.New("violation id is missing"))
		return
	}

	v, err := h.ledger.Dispute(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrViolationNotFound):
			json.WriteError(w, http.StatusNotFound, err, "Violation not found")
		case errors.Is(err, domain.ErrNotUnpaid):
			json.WriteError(w, http.StatusConflict, err, "Only unpaid violations can be disputed")
		default:
			log.Printf("Failed to dispute violation %s: %v", id, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	json.Write(w, http.StatusOK, recordResponse{Success: true, Data: v})
}

// DeleteViolationHandler godoc
// @Summary      Delete a violation
// @Description  Removes a record in any state; the audit trail keeps a reference to the removed id
// @Tags         violations
// @Produce      json
// @Param        id path string true "Violation id"
// @Success      200 {object} deleteResponse "Violation deleted"
// @Failure      404 {object} map[string]interface{} "Violation not found"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /violations/{id} [delete]
func (h *Handler) DeleteViolationHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		json.WriteValidationError(w, errors.New("violation id is missing"))
		return
	}

	if _, err := h.ledger.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrViolationNotFound):
			json.WriteError(w, http.StatusNotFound, err, "Violation not found")
		default:
			log.Printf("Failed to delete violation %s: %v", id, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	json.Write(w, http.StatusOK, deleteResponse{Success: true, Message: "Violation deleted"})
}

// GetStatsHandler godoc
// @Summary      Dashboard stats
// @Description  Returns record counts, collected revenue and outstanding dues
// @Tags         violations
// @Produce      json
// @Success      200 {object} statsResponse "Current stats"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /violations/stats [get]
func (h *Handler) GetStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reporting.Stats(r.Context())
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, statsResponse{Success: true, Data: stats})
}

// GetReportsHandler godoc
// @Summary      Analytics reports
// @Description  Returns per-type and per-status breakdowns, fine averages and top locations
// @Tags         violations
// @Produce      json
// @Success      200 {object} reportsResponse "Current reports"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /violations/reports [get]
func (h *Handler) GetReportsHandler(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reporting.Reports(r.Context())
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, reportsResponse{Success: true, Data: reports})
}
