package service

import (
	"context"
	"testing"

	"github.com/hilthontt/trafficguard/internal/domain"
	"github.com/hilthontt/trafficguard/internal/persistence/repository"
)

func TestReportingStatsEmptyLedger(t *testing.T) {
	reporting := NewReporting(repository.NewMemoryViolationRepository(), nopLogger{})

	stats, err := reporting.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 0 || stats.Unpaid != 0 || stats.Paid != 0 || stats.Revenue != 0 || stats.Due != 0 {
		t.Errorf("expected all-zero stats, got %+v", stats)
	}
}

func TestReportingReportsEmptyLedger(t *testing.T) {
	reporting := NewReporting(repository.NewMemoryViolationRepository(), nopLogger{})

	reports, err := reporting.Reports(context.Background())
	if err != nil {
		t.Fatalf("reports: %v", err)
	}
	if len(reports.ByType) != 0 || len(reports.ByStatus) != 0 || len(reports.TopLocations) != 0 {
		t.Errorf("expected empty groupings, got %+v", reports)
	}
	if reports.AvgFine.Average != 0 || reports.AvgFine.Total != 0 {
		t.Errorf("expected zero fine report, got %+v", reports.AvgFine)
	}
}

func TestReportingStats(t *testing.T) {
	ctx := context.Background()
	violations := repository.NewMemoryViolationRepository()
	audit := repository.NewMemoryAuditLogRepository()
	ledger := NewLedger(violations, audit, nil, nopLogger{})
	reporting := NewReporting(violations, nopLogger{})

	seed := func(plate string, typ string) *domain.Violation {
		t.Helper()
		in := validInput()
		in.Plate = plate
		in.Type = typ
		v, err := ledger.Create(ctx, in)
		if err != nil {
			t.Fatalf("create %s: %v", plate, err)
		}
		return v
	}

	first := seed("aaa-001", "red_light")       // 7875, stays unpaid
	second := seed("bbb-002", "drunk_driving")  // 26250, paid below
	third := seed("ccc-003", "illegal_parking") // 1050, disputed below

	if _, err := ledger.Pay(ctx, second.ID, domain.PaymentInput{Method: "Cash", PaidBy: "A. Driver"}); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if _, err := ledger.Dispute(ctx, third.ID); err != nil {
		t.Fatalf("dispute: %v", err)
	}

	stats, err := reporting.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("total: got %d, want 3", stats.Total)
	}
	if stats.Unpaid != 1 {
		t.Errorf("unpaid: got %d, want 1", stats.Unpaid)
	}
	// Paid is total minus unpaid, so the disputed record counts here too.
	if stats.Paid != 2 {
		t.Errorf("paid: got %d, want 2", stats.Paid)
	}
	if stats.Revenue != second.TotalFine {
		t.Errorf("revenue: got %d, want %d", stats.Revenue, second.TotalFine)
	}
	if stats.Due != first.TotalFine {
		t.Errorf("due: got %d, want %d", stats.Due, first.TotalFine)
	}

	// Recomputing without mutations yields identical figures.
	again, err := reporting.Stats(ctx)
	if err != nil {
		t.Fatalf("stats again: %v", err)
	}
	if *again != *stats {
		t.Errorf("stats not stable: %+v vs %+v", again, stats)
	}
}

func TestReportingReports(t *testing.T) {
	ctx := context.Background()
	violations := repository.NewMemoryViolationRepository()
	audit := repository.NewMemoryAuditLogRepository()
	ledger := NewLedger(violations, audit, nil, nopLogger{})
	reporting := NewReporting(violations, nopLogger{})

	locations := []string{"North Gate", "North Gate", "North Gate", "Dock Rd", "Dock Rd", "Hill Ave", "Ring Rd", "Canal St", "Old Town"}
	for i, loc := range locations {
		in := validInput()
		in.Plate = string(rune('a'+i)) + "aa-00" + string(rune('0'+i))
		in.Location = loc
		if i < 3 {
			in.Type = "red_light"
		} else {
			in.Type = "no_helmet"
		}
		if _, err := ledger.Create(ctx, in); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	reports, err := reporting.Reports(ctx)
	if err != nil {
		t.Fatalf("reports: %v", err)
	}

	if len(reports.ByType) != 2 {
		t.Fatalf("expected 2 type groups, got %d", len(reports.ByType))
	}
	// no_helmet has 6 records, red_light 3; sorted by count descending.
	if reports.ByType[0].Type != domain.NoHelmet || reports.ByType[0].Count != 6 {
		t.Errorf("expected no_helmet x6 first, got %+v", reports.ByType[0])
	}
	if reports.ByType[1].Type != domain.RedLight || reports.ByType[1].Count != 3 {
		t.Errorf("expected red_light x3 second, got %+v", reports.ByType[1])
	}

	redLight := domain.CalculateFine(domain.RedLight).Total
	noHelmet := domain.CalculateFine(domain.NoHelmet).Total
	if reports.ByType[1].Revenue != 3*redLight {
		t.Errorf("red_light revenue: got %d, want %d", reports.ByType[1].Revenue, 3*redLight)
	}

	wantTotal := 3*redLight + 6*noHelmet
	if reports.AvgFine.Total != wantTotal {
		t.Errorf("fine total: got %d, want %d", reports.AvgFine.Total, wantTotal)
	}
	wantAvg := float64(wantTotal) / 9
	if reports.AvgFine.Average != wantAvg {
		t.Errorf("fine average: got %v, want %v", reports.AvgFine.Average, wantAvg)
	}

	if len(reports.ByStatus) != 1 || reports.ByStatus[0].Status != domain.StatusUnpaid || reports.ByStatus[0].Count != 9 {
		t.Errorf("expected 9 unpaid in status report, got %+v", reports.ByStatus)
	}

	if len(reports.TopLocations) != 5 {
		t.Fatalf("expected top-5 locations from 6 distinct, got %d", len(reports.TopLocations))
	}
	if reports.TopLocations[0].Location != "North Gate" || reports.TopLocations[0].Count != 3 {
		t.Errorf("expected North Gate x3 first, got %+v", reports.TopLocations[0])
	}
	if reports.TopLocations[1].Location != "Dock Rd" || reports.TopLocations[1].Count != 2 {
		t.Errorf("expected Dock Rd x2 second, got %+v", reports.TopLocations[1])
	}
}
