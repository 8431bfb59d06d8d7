package storage

import (
	"context"
	"errors"
	"time"

	"knapsackga/internal/model"
)

var ErrRunNotFound = errors.New("run not found")

// CreatedAtLayout is fixed width so that string order matches time order,
// which both backends rely on for newest-first listing.
const CreatedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatCreatedAt renders t in UTC using CreatedAtLayout.
func FormatCreatedAt(t time.Time) string {
	return t.UTC().Format(CreatedAtLayout)
}

// Store persists completed run records. Records are reports only; nothing
// resumes evolution from them.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, record model.RunRecord) error
	GetRun(ctx context.Context, runID string) (model.RunRecord, bool, error)
	// ListRuns returns records newest first. limit <= 0 means all.
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)
	DeleteRun(ctx context.Context, runID string) error
}
