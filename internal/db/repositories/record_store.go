package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"infinite-experiment/contactimport/internal/catalog"
	"infinite-experiment/contactimport/internal/constants"
	"infinite-experiment/contactimport/internal/metrics"
	"infinite-experiment/contactimport/internal/models/dtos"
	gormModels "infinite-experiment/contactimport/internal/models/gorm"
)

// RecordStore writes and reads destination rows. Catalog tables with a typed
// model go through it; any other table is handled as plain column maps.
type RecordStore struct {
	db      *gorm.DB
	sqlx    *sqlx.DB
	metrics *metrics.MetricsRegistry
}

// NewRecordStore creates a new destination store. sx and m may be nil.
func NewRecordStore(db *gorm.DB, sx *sqlx.DB, m *metrics.MetricsRegistry) *RecordStore {
	return &RecordStore{db: db, sqlx: sx, metrics: m}
}

// Insert writes rows in a single statement and returns them as stored
func (s *RecordStore) Insert(ctx context.Context, table string, rows []dtos.Row) ([]dtos.Row, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	defer s.observe("insert", table, time.Now())

	q := s.db.WithContext(ctx)
	switch table {
	case catalog.TableContacts:
		recs := make([]*gormModels.Contact, len(rows))
		for i, row := range rows {
			recs[i] = gormModels.ContactFromRow(row)
		}
		if err := q.Create(&recs).Error; err != nil {
			return nil, fmt.Errorf("failed to insert into %s: %w", table, err)
		}
		out := make([]dtos.Row, len(recs))
		for i, rec := range recs {
			out[i] = rec.ToRow()
		}
		return out, nil

	case catalog.TableUsers:
		recs := make([]*gormModels.User, len(rows))
		for i, row := range rows {
			recs[i] = gormModels.UserFromRow(row)
		}
		if err := q.Create(&recs).Error; err != nil {
			return nil, fmt.Errorf("failed to insert into %s: %w", table, err)
		}
		out := make([]dtos.Row, len(recs))
		for i, rec := range recs {
			out[i] = rec.ToRow()
		}
		return out, nil
	}

	maps := make([]map[string]interface{}, len(rows))
	out := make([]dtos.Row, len(rows))
	for i, row := range rows {
		m := make(map[string]interface{}, len(row))
		for k, v := range row {
			m[k] = v
		}
		maps[i] = m
		out[i] = dtos.Row(m)
	}
	if err := q.Table(table).Create(&maps).Error; err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return out, nil
}

// Query returns the rows of table matching every key of filter
func (s *RecordStore) Query(ctx context.Context, table string, filter map[string]interface{}) ([]dtos.Row, error) {
	defer s.observe("query", table, time.Now())

	q := s.db.WithContext(ctx)
	if len(filter) > 0 {
		q = q.Where(filter)
	}

	switch table {
	case catalog.TableContacts:
		var recs []gormModels.Contact
		if err := q.Find(&recs).Error; err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", table, err)
		}
		out := make([]dtos.Row, len(recs))
		for i := range recs {
			out[i] = recs[i].ToRow()
		}
		return out, nil

	case catalog.TableUsers:
		var recs []gormModels.User
		if err := q.Find(&recs).Error; err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", table, err)
		}
		out := make([]dtos.Row, len(recs))
		for i := range recs {
			out[i] = recs[i].ToRow()
		}
		return out, nil
	}

	var maps []map[string]interface{}
	if err := q.Table(table).Find(&maps).Error; err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	out := make([]dtos.Row, len(maps))
	for i, m := range maps {
		out[i] = dtos.Row(m)
	}
	return out, nil
}

// DistinctValues lists the non-null values of one column
func (s *RecordStore) DistinctValues(ctx context.Context, table, column string) ([]string, error) {
	if s.sqlx == nil {
		return nil, fmt.Errorf("distinct lookup needs a sql connection")
	}
	defer s.observe("distinct", table, time.Now())

	query := fmt.Sprintf(constants.DistinctColumnValues, quoteIdent(column), quoteIdent(table))

	var vals []sql.NullString
	if err := s.sqlx.SelectContext(ctx, &vals, query); err != nil {
		return nil, fmt.Errorf("failed to read %s.%s: %w", table, column, err)
	}

	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v.Valid {
			out = append(out, v.String)
		}
	}
	return out, nil
}

// ExistingValues builds the accumulator rows a uniqueness check needs, one row
// per stored value of each field. It falls back to a full Query without sqlx.
func (s *RecordStore) ExistingValues(ctx context.Context, table string, fields []string) ([]dtos.Row, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	if s.sqlx == nil {
		return s.Query(ctx, table, nil)
	}

	var out []dtos.Row
	for _, field := range fields {
		vals, err := s.DistinctValues(ctx, table, field)
		if err != nil {
			return nil, err
		}
		for _, v := range vals {
			out = append(out, dtos.Row{field: v})
		}
	}
	return out, nil
}

func (s *RecordStore) observe(op, table string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.DBQueriesTotal.WithLabelValues(op, table).Inc()
	s.metrics.DBQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
