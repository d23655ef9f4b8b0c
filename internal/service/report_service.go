package service

import (
	"context"
	"time"

	"github.com/andy/focusflow/internal/domain"
	"github.com/andy/focusflow/internal/report"
)

// Report is the chart and list for one navigator state
type Report struct {
	Title  string
	Series report.Series
	Items  []domain.HistoryItem
	Total  time.Duration
}

// ReportService aggregates history for the analytics view
type ReportService interface {
	// Build aggregates history into the buckets of state and lists the
	// matching items
	Build(ctx context.Context, state report.State) Report
}

type reportService struct {
	store    *Store
	location *time.Location
}

// NewReportService creates a report service bucketing in loc
func NewReportService(store *Store, loc *time.Location) ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &reportService{store: store, location: loc}
}

func (s *reportService) Build(ctx context.Context, state report.State) Report {
	history := s.store.History()
	now := s.store.Now().In(s.location)

	r := Report{
		Title:  report.Title(state),
		Series: report.Aggregate(history, state, now),
		Items:  report.Items(history, state, now),
	}
	for _, item := range r.Items {
		r.Total += item.Duration
	}
	return r
}
