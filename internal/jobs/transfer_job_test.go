package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"infinite-experiment/contactimport/internal/catalog"
	"infinite-experiment/contactimport/internal/db"
	"infinite-experiment/contactimport/internal/db/repositories"
	"infinite-experiment/contactimport/internal/logging"
	"infinite-experiment/contactimport/internal/metrics"
	"infinite-experiment/contactimport/internal/models/dtos"
	gormModels "infinite-experiment/contactimport/internal/models/gorm"
	"infinite-experiment/contactimport/internal/validation"
)

func TestMain(m *testing.M) {
	logging.SetLogger(zap.NewNop().Sugar())
	m.Run()
}

type fakeSource struct {
	rows     []dtos.Row
	countErr error
	fetchErr func(offset int) error
}

func (s *fakeSource) Count(ctx context.Context) (int, error) {
	return len(s.rows), s.countErr
}

func (s *fakeSource) Fetch(ctx context.Context, offset, limit int) ([]dtos.Row, error) {
	if s.fetchErr != nil {
		if err := s.fetchErr(offset); err != nil {
			return nil, err
		}
	}
	end := offset + limit
	if end > len(s.rows) {
		end = len(s.rows)
	}
	return s.rows[offset:end], nil
}

type fakeStore struct {
	existing  []dtos.Row
	queryErr  error
	insertErr func(call int) error
	calls     int
	inserted  []dtos.Row
	fields    []string
}

func (s *fakeStore) Insert(ctx context.Context, table string, rows []dtos.Row) ([]dtos.Row, error) {
	s.calls++
	if s.insertErr != nil {
		if err := s.insertErr(s.calls); err != nil {
			return nil, err
		}
	}
	s.inserted = append(s.inserted, rows...)
	return rows, nil
}

func (s *fakeStore) ExistingValues(ctx context.Context, table string, fields []string) ([]dtos.Row, error) {
	s.fields = fields
	return s.existing, s.queryErr
}

type fakeRecorder struct {
	runs []*gormModels.ImportRun
	err  error
}

func (r *fakeRecorder) RecordRun(ctx context.Context, run *gormModels.ImportRun) error {
	r.runs = append(r.runs, run)
	return r.err
}

const table = "контакты"

var emailMapping = []dtos.FieldMapping{
	{SourceField: "Email", TargetField: "электронная_почта", Confidence: 1},
}

func emailRows(n int) []dtos.Row {
	rows := make([]dtos.Row, n)
	for i := range rows {
		rows[i] = dtos.Row{"Email": fmt.Sprintf("user%d@example.com", i)}
	}
	return rows
}

func uniqueEmailValidator() *validation.Validator {
	v := validation.NewValidator()
	v.AddTableRules(table, []dtos.ValidationRule{
		{Field: "электронная_почта", Type: "email", Unique: true},
	})
	return v
}

func TestTransferJob_Chunks(t *testing.T) {
	store := &fakeStore{}
	job := NewTransferJob(store, uniqueEmailValidator())

	res, err := job.Run(context.Background(), &fakeSource{rows: emailRows(250)}, dtos.TransferRequest{
		TargetTable: table,
		Mappings:    emailMapping,
	})
	require.NoError(t, err)

	require.Len(t, res.Chunks, 3)
	assert.Equal(t, []int{0, 100, 200}, []int{res.Chunks[0].BatchStart, res.Chunks[1].BatchStart, res.Chunks[2].BatchStart})
	assert.Equal(t, 50, res.Chunks[2].BatchSize)
	assert.Equal(t, 250, res.TotalProcessed)
	assert.Equal(t, 250, res.SuccessCount)
	assert.Equal(t, 0, res.ErrorCount)
	assert.Len(t, store.inserted, 250)
	assert.NotEmpty(t, res.RunID)
}

func TestTransferJob_StoreFailureContinues(t *testing.T) {
	store := &fakeStore{insertErr: func(call int) error {
		if call == 2 {
			return errors.New("connection reset")
		}
		return nil
	}}
	rec := &fakeRecorder{}
	job := NewTransferJob(store, uniqueEmailValidator(), WithRecorder(rec))

	res, err := job.Run(context.Background(), &fakeSource{rows: emailRows(250)}, dtos.TransferRequest{
		TargetTable: table,
		Mappings:    emailMapping,
		BatchSize:   100,
		Subject:     "ops",
	})
	require.NoError(t, err)

	assert.Equal(t, 250, res.TotalProcessed)
	assert.Equal(t, 150, res.SuccessCount)
	assert.Equal(t, 100, res.ErrorCount)
	assert.True(t, res.Chunks[0].Success)
	assert.False(t, res.Chunks[1].Success)
	assert.Equal(t, "connection reset", res.Chunks[1].Error)
	assert.True(t, res.Chunks[2].Success)

	require.Len(t, rec.runs, 1)
	run := rec.runs[0]
	assert.Equal(t, res.RunID, run.ID)
	assert.Equal(t, gormModels.RunStatusPartial, run.Status)
	assert.Equal(t, "ops", run.Subject)
	assert.Equal(t, 3, run.ChunkCount)
	assert.Equal(t, "connection reset", run.Errors["chunk_100"])
	assert.NotNil(t, run.FinishedAt)
}

func TestTransferJob_FetchFailureCountsChunk(t *testing.T) {
	store := &fakeStore{}
	src := &fakeSource{
		rows: emailRows(25),
		fetchErr: func(offset int) error {
			if offset == 10 {
				return errors.New("read error")
			}
			return nil
		},
	}
	job := NewTransferJob(store, uniqueEmailValidator())

	res, err := job.Run(context.Background(), src, dtos.TransferRequest{TargetTable: table, Mappings: emailMapping, BatchSize: 10})
	require.NoError(t, err)

	assert.Equal(t, 25, res.TotalProcessed)
	assert.Equal(t, 15, res.SuccessCount)
	assert.Equal(t, 10, res.ErrorCount)
	assert.False(t, res.Chunks[1].Success)
	assert.Equal(t, "read error", res.Chunks[1].Error)
	assert.Equal(t, 2, store.calls)
}

func TestTransferJob_DryRun(t *testing.T) {
	store := &fakeStore{}
	rec := &fakeRecorder{}
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	job := NewTransferJob(store, uniqueEmailValidator(), WithRecorder(rec), WithMetrics(reg))

	res, err := job.Run(context.Background(), &fakeSource{rows: emailRows(5)}, dtos.TransferRequest{
		TargetTable: table,
		Mappings:    emailMapping,
		BatchSize:   2,
		DryRun:      true,
	})
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.Equal(t, 5, res.SuccessCount)
	assert.Equal(t, []int{2, 2, 1}, []int{res.Chunks[0].WouldInsertCount, res.Chunks[1].WouldInsertCount, res.Chunks[2].WouldInsertCount})
	assert.Zero(t, store.calls)
	assert.Empty(t, rec.runs)

	assert.Equal(t, float64(3), testutil.ToFloat64(reg.TransferChunksTotal.WithLabelValues(table, "success")))
	assert.Equal(t, float64(5), testutil.ToFloat64(reg.TransferRowsTotal.WithLabelValues(table, "would_insert")))
}

func TestTransferJob_UniquenessAcrossChunks(t *testing.T) {
	store := &fakeStore{existing: []dtos.Row{{"электронная_почта": "taken@example.com"}}}
	src := &fakeSource{rows: []dtos.Row{
		{"Email": "a@example.com"},
		{"Email": "taken@example.com"},
		{"Email": "b@example.com"},
		{"Email": "a@example.com"},
	}}
	job := NewTransferJob(store, uniqueEmailValidator())

	res, err := job.Run(context.Background(), src, dtos.TransferRequest{TargetTable: table, Mappings: emailMapping, BatchSize: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, res.SuccessCount)
	require.Len(t, res.ValidationErrors, 2)
	assert.Equal(t, 1, *res.ValidationErrors[0].Row)
	assert.Equal(t, 3, *res.ValidationErrors[1].Row)
	assert.Contains(t, res.ValidationErrors[1].Message, "already exists")
	assert.Equal(t, []dtos.Row{
		{"электронная_почта": "a@example.com"},
		{"электронная_почта": "b@example.com"},
	}, store.inserted)
}

func TestTransferJob_DryRunAccumulates(t *testing.T) {
	src := &fakeSource{rows: []dtos.Row{{"Email": "a@example.com"}, {"Email": "a@example.com"}}}
	job := NewTransferJob(&fakeStore{}, uniqueEmailValidator())

	res, err := job.Run(context.Background(), src, dtos.TransferRequest{TargetTable: table, Mappings: emailMapping, BatchSize: 1, DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 1, res.SuccessCount)
	assert.Len(t, res.ValidationErrors, 1)
}

func TestTransferJob_EmptyRowsSkipped(t *testing.T) {
	store := &fakeStore{}
	src := &fakeSource{rows: []dtos.Row{{"Email": nil}, {"Other": "x"}}}
	job := NewTransferJob(store, validation.NewValidator())

	res, err := job.Run(context.Background(), src, dtos.TransferRequest{TargetTable: table, Mappings: emailMapping})
	require.NoError(t, err)

	assert.Equal(t, 2, res.TotalProcessed)
	assert.Zero(t, res.SuccessCount)
	assert.Zero(t, res.ErrorCount)
	assert.True(t, res.Chunks[0].Success)
	assert.Zero(t, store.calls)
}

func TestTransferJob_FatalErrors(t *testing.T) {
	job := NewTransferJob(&fakeStore{queryErr: errors.New("no table")}, uniqueEmailValidator())
	_, err := job.Run(context.Background(), &fakeSource{rows: emailRows(1)}, dtos.TransferRequest{TargetTable: table})
	assert.ErrorContains(t, err, "no table")

	job = NewTransferJob(&fakeStore{}, validation.NewValidator())
	_, err = job.Run(context.Background(), &fakeSource{countErr: errors.New("bad file")}, dtos.TransferRequest{TargetTable: table})
	assert.ErrorContains(t, err, "bad file")
}

func TestTransferJob_NoRows(t *testing.T) {
	rec := &fakeRecorder{}
	job := NewTransferJob(&fakeStore{}, validation.NewValidator(), WithRecorder(rec))

	res, err := job.Run(context.Background(), &fakeSource{}, dtos.TransferRequest{TargetTable: table})
	require.NoError(t, err)
	assert.Zero(t, res.TotalProcessed)
	assert.Empty(t, res.Chunks)
	assert.Empty(t, rec.runs)
}

func TestTransferJob_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewTransferJob(&fakeStore{}, validation.NewValidator()).
		Run(ctx, &fakeSource{rows: emailRows(3)}, dtos.TransferRequest{TargetTable: table, Mappings: emailMapping})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Zero(t, res.TotalProcessed)
}

func TestTransferJob_NoUniqueRulesSkipsLookup(t *testing.T) {
	store := &fakeStore{queryErr: errors.New("must not be called")}
	job := NewTransferJob(store, validation.NewValidator())

	res, err := job.Run(context.Background(), &fakeSource{rows: emailRows(2)}, dtos.TransferRequest{TargetTable: table, Mappings: emailMapping})
	require.NoError(t, err)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Nil(t, store.fields)
}

func requiredEmailValidator() *validation.Validator {
	v := validation.NewValidator()
	v.AddTableRules(table, []dtos.ValidationRule{
		{Field: "электронная_почта", Required: true, Type: "email", Unique: true},
	})
	return v
}

var emailAndNameMapping = []dtos.FieldMapping{
	{SourceField: "Email", TargetField: "электронная_почта", Confidence: 1},
	{SourceField: "Имя", TargetField: "имя", Confidence: 1},
}

func TestTransferJob_RowsMissingRequiredFieldAreSkipped(t *testing.T) {
	store := &fakeStore{existing: []dtos.Row{{"электронная_почта": "taken@example.com"}}}
	src := &fakeSource{rows: []dtos.Row{
		{"Email": "taken@example.com", "Имя": "Дубль"},
		{"Email": "b@example.com", "Имя": "Борис"},
		{"Email": "not an email", "Имя": "Кривой"},
		{"Email": nil, "Имя": "Пустой"},
	}}
	job := NewTransferJob(store, requiredEmailValidator())

	res, err := job.Run(context.Background(), src, dtos.TransferRequest{TargetTable: table, Mappings: emailAndNameMapping, BatchSize: 2})
	require.NoError(t, err)

	assert.Equal(t, 4, res.TotalProcessed)
	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 3, res.ErrorCount)
	assert.Equal(t, []string{"электронная_почта"}, store.fields)
	assert.Equal(t, []dtos.Row{{"электронная_почта": "b@example.com", "имя": "Борис"}}, store.inserted)

	require.Len(t, res.Chunks, 2)
	assert.True(t, res.Chunks[0].Success)
	assert.Equal(t, 1, res.Chunks[0].SkippedCount)
	assert.Equal(t, 1, res.Chunks[0].InsertedCount)
	assert.True(t, res.Chunks[1].Success)
	assert.Equal(t, 2, res.Chunks[1].SkippedCount)
	require.Len(t, res.Chunks[1].ValidationWarnings, 2)
	assert.Contains(t, res.Chunks[1].ValidationWarnings[0].Message, "row 2 skipped")
}

func TestTransferJob_DryRunDoesNotCountSkippedRows(t *testing.T) {
	src := &fakeSource{rows: []dtos.Row{{"Email": "a@example.com"}, {"Email": "nope", "Имя": "Нет"}}}
	job := NewTransferJob(&fakeStore{}, requiredEmailValidator())

	res, err := job.Run(context.Background(), src, dtos.TransferRequest{TargetTable: table, Mappings: emailAndNameMapping, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 1, res.ErrorCount)
	assert.Equal(t, 1, res.Chunks[0].WouldInsertCount)
}

func TestTransferJob_FiltersSelectSourceRows(t *testing.T) {
	store := &fakeStore{existing: []dtos.Row{{"электронная_почта": "taken@example.com"}}}
	src := &fakeSource{rows: []dtos.Row{
		{"Email": "taken@example.com", "Имя": "Зед"},
		{"Email": "q@example.com", "Имя": "Зед"},
		{"Email": "other@example.com", "Имя": "Кто-то"},
	}}
	job := NewTransferJob(store, requiredEmailValidator())

	res, err := job.Run(context.Background(), src, dtos.TransferRequest{
		TargetTable: table,
		Mappings:    emailAndNameMapping,
		Filters:     map[string]interface{}{"Имя": "Зед"},
	})
	require.NoError(t, err)

	// the duplicate is still caught although the filter matches no stored row
	assert.Equal(t, 2, res.TotalProcessed)
	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 1, res.ErrorCount)
	require.Len(t, res.ValidationErrors, 1)
	assert.Contains(t, res.ValidationErrors[0].Message, "already exists")
	assert.Equal(t, []dtos.Row{{"электронная_почта": "q@example.com", "имя": "Зед"}}, store.inserted)
}

func TestTransferJob_FiltersMatchNothing(t *testing.T) {
	store := &fakeStore{}
	job := NewTransferJob(store, uniqueEmailValidator())

	res, err := job.Run(context.Background(), &fakeSource{rows: emailRows(3)}, dtos.TransferRequest{
		TargetTable: table,
		Mappings:    emailMapping,
		Filters:     map[string]interface{}{"Email": "nobody@example.com"},
	})
	require.NoError(t, err)
	assert.Zero(t, res.TotalProcessed)
	assert.Empty(t, res.Chunks)
	assert.Zero(t, store.calls)
}

func TestMatchesFilters(t *testing.T) {
	row := dtos.Row{"Имя": "Иван", "Рейтинг": "5", "Город": nil}

	tests := []struct {
		name    string
		filters map[string]interface{}
		want    bool
	}{
		{"equal string", map[string]interface{}{"Имя": "Иван"}, true},
		{"json number against text", map[string]interface{}{"Рейтинг": float64(5)}, true},
		{"nil selects blank", map[string]interface{}{"Город": nil}, true},
		{"different value", map[string]interface{}{"Имя": "Анна"}, false},
		{"missing column", map[string]interface{}{"Страна": "RU"}, false},
		{"all must match", map[string]interface{}{"Имя": "Иван", "Рейтинг": "4"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesFilters(row, tt.filters))
		})
	}
}

func setupSQLiteStore(t *testing.T) *repositories.RecordStore {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(gdb))

	sx, err := db.WrapORM(gdb, db.DriverSQLite)
	require.NoError(t, err)
	return repositories.NewRecordStore(gdb, sx, nil)
}

func TestTransferJob_SQLiteUsersRejectedEmailsNotStored(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()
	_, err := store.Insert(ctx, catalog.TableUsers, []dtos.Row{{"электронная_почта": "a@example.com"}})
	require.NoError(t, err)

	v := validation.NewValidator()
	catalog.Default().RegisterRules(v)

	src := &fakeSource{rows: []dtos.Row{
		{"Email": "a@example.com", "Имя": "Дубль1"},
		{"Email": "b@example.com", "Имя": "Борис"},
		{"Email": "a@example.com", "Имя": "Дубль2"},
		{"Email": "c@example.com", "Имя": "Вера"},
	}}
	res, err := NewTransferJob(store, v).Run(ctx, src, dtos.TransferRequest{
		TargetTable: catalog.TableUsers,
		Mappings:    emailAndNameMapping,
		BatchSize:   2,
	})
	require.NoError(t, err)

	require.Len(t, res.Chunks, 2)
	for _, c := range res.Chunks {
		assert.True(t, c.Success, c.Error)
		assert.Equal(t, 1, c.InsertedCount)
		assert.Equal(t, 1, c.SkippedCount)
	}
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 2, res.ErrorCount)
	assert.Len(t, res.ValidationErrors, 2)

	users, err := store.Query(ctx, catalog.TableUsers, nil)
	require.NoError(t, err)
	emails := make([]interface{}, 0, len(users))
	for _, u := range users {
		emails = append(emails, u["электронная_почта"])
	}
	assert.ElementsMatch(t, []interface{}{"a@example.com", "b@example.com", "c@example.com"}, emails)
}
