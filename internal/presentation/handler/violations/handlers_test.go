package violations

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hilthontt/trafficguard/internal/domain"
	"github.com/hilthontt/trafficguard/internal/infrastructure/logging"
	"github.com/hilthontt/trafficguard/internal/persistence/repository"
	"github.com/hilthontt/trafficguard/internal/service"
)

type nopLogger struct{}

func (nopLogger) Init() {}
func (nopLogger) Debug(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Info(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Infof(string, ...any) {}
func (nopLogger) Warn(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Warnf(string, ...any) {}
func (nopLogger) Error(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Errorf(string, ...any) {}
func (nopLogger) Fatal(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Fatalf(string, ...any) {}

func newTestRouter() http.Handler {
	violations := repository.NewMemoryViolationRepository()
	audit := repository.NewMemoryAuditLogRepository()

	ledger := service.NewLedger(violations, audit, nil, nopLogger{})
	reporting := service.NewReporting(violations, nopLogger{})
	h := NewHandler(ledger, reporting)

	r := chi.NewRouter()
	r.Route("/api/violations", func(r chi.Router) {
		r.Get("/", h.ListViolationsHandler)
		r.Post("/", h.CreateViolationHandler)
		r.Get("/stats", h.GetStatsHandler)
		r.Get("/reports", h.GetReportsHandler)
		r.Get("/{id}", h.GetViolationHandler)
		r.Put("/{id}/pay", h.PayViolationHandler)
		r.Put("/{id}/dispute", h.DisputeViolationHandler)
		r.Delete("/{id}", h.DeleteViolationHandler)
	})

	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createOne(t *testing.T, router http.Handler, plate string) domain.Violation {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/violations", map[string]string{
		"plate":       plate,
		"vehicleType": "Car",
		"type":        "red_light",
		"location":    "Main St & 5th Ave",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp recordResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return *resp.Data
}

func TestCreateViolationHandler(t *testing.T) {
	router := newTestRouter()

	v := createOne(t, router, "abc-123")
	if v.Plate != "ABC-123" {
		t.Errorf("expected normalized plate ABC-123, got %q", v.Plate)
	}
	if !strings.HasPrefix(v.ID, "TG-") {
		t.Errorf("expected TG- id, got %q", v.ID)
	}
	if v.TotalFine != 7875 {
		t.Errorf("expected total 7875, got %d", v.TotalFine)
	}
	if v.Status != domain.StatusUnpaid {
		t.Errorf("expected unpaid, got %s", v.Status)
	}
}

func TestCreateViolationHandlerValidation(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		name string
		body map[string]string
	}{
		{"missing plate", map[string]string{"vehicleType": "Car", "type": "red_light", "location": "Main St"}},
		{"unknown type", map[string]string{"plate": "a", "vehicleType": "Car", "type": "jaywalking", "location": "Main St"}},
		{"unknown vehicle", map[string]string{"plate": "a", "vehicleType": "Scooter", "type": "red_light", "location": "Main St"}},
		{"unknown severity", map[string]string{"plate": "a", "vehicleType": "Car", "type": "red_light", "severity": "extreme", "location": "Main St"}},
		{"missing location", map[string]string{"plate": "a", "vehicleType": "Car", "type": "red_light"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/violations", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}

			var resp map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if success, _ := resp["success"].(bool); success {
				t.Error("error envelope reports success")
			}
		})
	}
}

func TestCreateViolationHandlerRejectsUnknownFields(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/violations", strings.NewReader(
		`{"plate":"abc-123","vehicleType":"Car","type":"red_light","location":"Main St","fine":1}`,
	))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestGetViolationHandler(t *testing.T) {
	router := newTestRouter()
	v := createOne(t, router, "abc-123")

	t.Run("by id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/violations/"+v.ID, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("by plate", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/violations/ABC-123", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp recordResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Data.ID != v.ID {
			t.Errorf("plate lookup returned %s, want %s", resp.Data.ID, v.ID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/violations/TG-MISSING", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestListViolationsHandler(t *testing.T) {
	router := newTestRouter()
	createOne(t, router, "abc-001")
	createOne(t, router, "abc-002")
	createOne(t, router, "xyz-003")

	rec := doJSON(t, router, http.MethodGet, "/api/violations?search=abc", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp listResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Total != 2 || resp.Page != 1 {
		t.Errorf("unexpected envelope: success=%v total=%d page=%d", resp.Success, resp.Total, resp.Page)
	}

	t.Run("unknown status rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/violations?status=overdue", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/violations?type=jaywalking", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestPayViolationHandler(t *testing.T) {
	router := newTestRouter()
	v := createOne(t, router, "abc-123")

	rec := doJSON(t, router, http.MethodPut, "/api/violations/"+v.ID+"/pay", map[string]string{
		"method": "Cash",
		"paidBy": "A. Driver",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp payResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(resp.ReceiptNo, "RCT-") {
		t.Errorf("expected top-level receiptNo, got %q", resp.ReceiptNo)
	}
	if resp.Data.Status != domain.StatusPaid {
		t.Errorf("expected paid, got %s", resp.Data.Status)
	}

	t.Run("second payment conflicts", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/violations/"+v.ID+"/pay", map[string]string{
			"method": "Cash",
			"paidBy": "A. Driver",
		})
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("unknown method rejected", func(t *testing.T) {
		other := createOne(t, router, "pay-001")
		rec := doJSON(t, router, http.MethodPut, "/api/violations/"+other.ID+"/pay", map[string]string{
			"method": "Barter",
			"paidBy": "A. Driver",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing record", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/violations/TG-MISSING/pay", map[string]string{
			"method": "Cash",
			"paidBy": "A. Driver",
		})
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestDisputeViolationHandler(t *testing.T) {
	router := newTestRouter()
	v := createOne(t, router, "abc-123")

	rec := doJSON(t, router, http.MethodPut, "/api/violations/"+v.ID+"/dispute", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp recordResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Status != domain.StatusDisputed {
		t.Errorf("expected disputed, got %s", resp.Data.Status)
	}

	t.Run("second dispute conflicts", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/violations/"+v.ID+"/dispute", nil)
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", rec.Code)
		}
	})
}

func TestDeleteViolationHandler(t *testing.T) {
	router := newTestRouter()
	v := createOne(t, router, "abc-123")

	rec := doJSON(t, router, http.MethodDelete, "/api/violations/"+v.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp deleteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Message != "Violation deleted" {
		t.Errorf("unexpected envelope: %+v", resp)
	}

	t.Run("gone afterwards", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/violations/"+v.ID, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestStatsAndReportsHandlers(t *testing.T) {
	router := newTestRouter()

	t.Run("zero-safe on empty ledger", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/violations/stats", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("stats: expected 200, got %d", rec.Code)
		}

		rec = doJSON(t, router, http.MethodGet, "/api/violations/reports", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("reports: expected 200, got %d", rec.Code)
		}
	})

	v := createOne(t, router, "abc-123")
	if rec := doJSON(t, router, http.MethodPut, "/api/violations/"+v.ID+"/pay", map[string]string{
		"method": "Cash", "paidBy": "A. Driver",
	}); rec.Code != http.StatusOK {
		t.Fatalf("pay: %d", rec.Code)
	}
	createOne(t, router, "xyz-999")

	rec := doJSON(t, router, http.MethodGet, "/api/violations/stats", nil)
	var resp statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if resp.Data.Total != 2 || resp.Data.Paid != 1 || resp.Data.Unpaid != 1 {
		t.Errorf("unexpected stats: %+v", resp.Data)
	}
	if resp.Data.Revenue != 7875 || resp.Data.Due != 7875 {
		t.Errorf("unexpected amounts: revenue=%d due=%d", resp.Data.Revenue, resp.Data.Due)
	}
}
