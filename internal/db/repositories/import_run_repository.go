package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"

	"infinite-experiment/contactimport/internal/models/gorm"
)

// ImportRunRepo handles import history
type ImportRunRepo struct {
	db *gormlib.DB
}

// NewImportRunRepo creates a new import history repository
func NewImportRunRepo(db *gormlib.DB) *ImportRunRepo {
	return &ImportRunRepo{db: db}
}

// RecordRun stores a finished run
func (r *ImportRunRepo) RecordRun(ctx context.Context, run *gorm.ImportRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record import run: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first. An empty table filter lists all tables.
func (r *ImportRunRepo) Recent(ctx context.Context, table string, limit int) ([]gorm.ImportRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	q := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit)
	if table != "" {
		q = q.Where("target_table = ?", table)
	}

	var runs []gorm.ImportRun
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}
	return runs, nil
}

// Prune deletes runs that started before the cutoff and reports how many went
func (r *ImportRunRepo) Prune(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("started_at < ?", before.UTC()).Delete(&gorm.ImportRun{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune import runs: %w", res.Error)
	}
	return res.RowsAffected, nil
}
