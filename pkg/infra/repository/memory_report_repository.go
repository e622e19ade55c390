package repository

import (
	"context"
	"sync"

	"github.com/SafeClick/ScamShield/pkg/domain/report"
)

type MemoryReportRepository struct {
	mu      sync.RWMutex
	reports []*report.Report
}

func NewMemoryReportRepository() report.Repository {
	return &MemoryReportRepository{}
}

func (r *MemoryReportRepository) Save(ctx context.Context, rep *report.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, rep)
	return nil
}

func (r *MemoryReportRepository) List(ctx context.Context) ([]*report.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*report.Report, len(r.reports))
	copy(out, r.reports)
	return out, nil
}
