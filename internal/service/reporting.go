package service

import (
	"context"
	"sort"

	"github.com/hilthontt/trafficguard/internal/domain"
	"github.com/hilthontt/trafficguard/internal/infrastructure/logging"
)

const topLocationCount = 5

// Stats summarizes the ledger for the dashboard. Revenue counts only
// settled fines; due counts only outstanding ones.
type Stats struct {
	Total   int   `json:"total"`
	Unpaid  int   `json:"unpaid"`
	Paid    int   `json:"paid"`
	Revenue int64 `json:"revenue"`
	Due     int64 `json:"due"`
}

type TypeReport struct {
	Type    domain.ViolationType `json:"type"`
	Count   int                  `json:"count"`
	Revenue int64                `json:"revenue"`
}

type StatusReport struct {
	Status domain.Status `json:"status"`
	Count  int           `json:"count"`
}

type FineReport struct {
	Average float64 `json:"avg"`
	Total   int64   `json:"total"`
}

type LocationReport struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

type Reports struct {
	ByType       []TypeReport     `json:"byType"`
	ByStatus     []StatusReport   `json:"byStatus"`
	AvgFine      FineReport       `json:"avgFine"`
	TopLocations []LocationReport `json:"topLocations"`
}

// Reporting derives analytics from the current ledger contents. Every
// figure is recomputed from scratch on each call; an empty ledger yields
// zeroes, never an error.
type Reporting struct {
	violations domain.ViolationRepository
	logger     logging.Logger
}

func NewReporting(violations domain.ViolationRepository, logger logging.Logger) *Reporting {
	return &Reporting{
		violations: violations,
		logger:     logger,
	}
}

func (r *Reporting) Stats(ctx context.Context) (*Stats, error) {
	all, err := r.violations.All(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Total: len(all)}
	for _, v := range all {
		switch v.Status {
		case domain.StatusPaid:
			stats.Revenue += v.TotalFine
		case domain.StatusUnpaid:
			stats.Unpaid++
			stats.Due += v.TotalFine
		}
	}
	stats.Paid = stats.Total - stats.Unpaid

	return stats, nil
}

func (r *Reporting) Reports(ctx context.Context) (*Reports, error) {
	all, err := r.violations.All(ctx)
	if err != nil {
		return nil, err
	}

	byType := make(map[domain.ViolationType]*TypeReport)
	byStatus := make(map[domain.Status]int)
	byLocation := make(map[string]int)
	var sum int64

	for _, v := range all {
		entry, ok := byType[v.Type]
		if !ok {
			entry = &TypeReport{Type: v.Type}
			byType[v.Type] = entry
		}
		entry.Count++
		entry.Revenue += v.TotalFine

		byStatus[v.Status]++
		byLocation[v.Location]++
		sum += v.TotalFine
	}

	out := &Reports{
		ByType:       make([]TypeReport, 0, len(byType)),
		ByStatus:     make([]StatusReport, 0, len(byStatus)),
		TopLocations: make([]LocationReport, 0, len(byLocation)),
		AvgFine:      FineReport{Total: sum},
	}
	if len(all) > 0 {
		out.AvgFine.Average = float64(sum) / float64(len(all))
	}

	for _, entry := range byType {
		out.ByType = append(out.ByType, *entry)
	}
	sort.Slice(out.ByType, func(i, j int) bool {
		if out.ByType[i].Count != out.ByType[j].Count {
			return out.ByType[i].Count > out.ByType[j].Count
		}
		return out.ByType[i].Type < out.ByType[j].Type
	})

	for status, count := range byStatus {
		out.ByStatus = append(out.ByStatus, StatusReport{Status: status, Count: count})
	}
	sort.Slice(out.ByStatus, func(i, j int) bool {
		if out.ByStatus[i].Count != out.ByStatus[j].Count {
			return out.ByStatus[i].Count > out.ByStatus[j].Count
		}
		return out.ByStatus[i].Status < out.ByStatus[j].Status
	})

	for location, count := range byLocation {
		out.TopLocations = append(out.TopLocations, LocationReport{Location: location, Count: count})
	}
	sort.Slice(out.TopLocations, func(i, j int) bool {
		if out.TopLocations[i].Count != out.TopLocations[j].Count {
			return out.TopLocations[i].Count > out.TopLocations[j].Count
		}
		return out.TopLocations[i].Location < out.TopLocations[j].Location
	})
	if len(out.TopLocations) > topLocationCount {
		out.TopLocations = out.TopLocations[:topLocationCount]
	}

	return out, nil
}
