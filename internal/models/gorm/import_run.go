package gorm

import "time"

// Import run statuses
const (
	RunStatusCompleted = "completed"
	RunStatusPartial   = "partial"
	RunStatusFailed    = "failed"
)

// ImportRun tracks one non dry-run transfer
type ImportRun struct {
	ID             string     `gorm:"column:id;primaryKey;type:uuid"`
	TargetTable    string     `gorm:"column:target_table;type:varchar(100);not null;index"`
	Subject        string     `gorm:"column:subject;type:varchar(255)"`
	Status         string     `gorm:"column:status;type:varchar(20);not null"`
	TotalProcessed int        `gorm:"column:total_processed"`
	SuccessCount   int        `gorm:"column:success_count"`
	ErrorCount     int        `gorm:"column:error_count"`
	ChunkCount     int        `gorm:"column:chunk_count"`
	Errors         JSONB      `gorm:"column:errors;type:jsonb"`
	StartedAt      time.Time  `gorm:"column:started_at;not null"`
	FinishedAt     *time.Time `gorm:"column:finished_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (ImportRun) TableName() string {
	return "import_runs"
}

// RunStatus derives a status from the run counters
func RunStatus(success, failed int) string {
	switch {
	case failed == 0:
		return RunStatusCompleted
	case success > 0:
		return RunStatusPartial
	default:
		return RunStatusFailed
	}
}
