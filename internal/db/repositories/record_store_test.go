package repositories

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"infinite-experiment/contactimport/internal/catalog"
	"infinite-experiment/contactimport/internal/db"
	"infinite-experiment/contactimport/internal/metrics"
	"infinite-experiment/contactimport/internal/models/dtos"
	gormModels "infinite-experiment/contactimport/internal/models/gorm"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open test database")

	// every pooled connection would get its own empty :memory: database
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb), "Failed to migrate")
	return gdb
}

func setupStore(t *testing.T) (*RecordStore, *metrics.MetricsRegistry) {
	gdb := setupTestDB(t)
	sx, err := db.WrapORM(gdb, db.DriverSQLite)
	require.NoError(t, err)

	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	return NewRecordStore(gdb, sx, m), m
}

func TestRecordStore_InsertAndQueryContacts(t *testing.T) {
	store, m := setupStore(t)
	ctx := context.Background()

	inserted, err := store.Insert(ctx, catalog.TableContacts, []dtos.Row{
		{"имя": "Иван", "электронная_почта": "ivan@example.com", "хобби": "шахматы"},
		{"имя": "Анна", "электронная_почта": "anna@example.com"},
	})
	require.NoError(t, err)
	require.Len(t, inserted, 2)
	assert.NotEmpty(t, inserted[0][gormModels.IDColumn])
	assert.Equal(t, gormModels.DefaultContactSource, inserted[0]["источник"])

	all, err := store.Query(ctx, catalog.TableContacts, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := store.Query(ctx, catalog.TableContacts, map[string]interface{}{"имя": "Иван"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "ivan@example.com", found[0]["электронная_почта"])
	assert.Equal(t, "шахматы", found[0]["хобби"])

	assert.Equal(t, float64(1), testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("insert", catalog.TableContacts)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("query", catalog.TableContacts)))
}

func TestRecordStore_InsertUsersUniqueEmail(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, catalog.TableUsers, []dtos.Row{{"электронная_почта": "a@example.com"}})
	require.NoError(t, err)

	// the whole chunk is one statement, so nothing from it lands
	_, err = store.Insert(ctx, catalog.TableUsers, []dtos.Row{
		{"электронная_почта": "b@example.com"},
		{"электронная_почта": "a@example.com"},
	})
	require.Error(t, err)

	users, err := store.Query(ctx, catalog.TableUsers, nil)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRecordStore_InsertUserWithoutEmailRejected(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, catalog.TableUsers, []dtos.Row{{"имя": "Без почты"}})
	require.Error(t, err)

	_, err = store.Insert(ctx, catalog.TableUsers, []dtos.Row{{"имя": "Пустая", "электронная_почта": ""}})
	require.Error(t, err)

	users, err := store.Query(ctx, catalog.TableUsers, nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestRecordStore_InsertEmpty(t *testing.T) {
	store, _ := setupStore(t)
	out, err := store.Insert(context.Background(), catalog.TableContacts, nil)
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestRecordStore_UntypedTable(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.db.Exec(`CREATE TABLE "партнёры" ("компания" TEXT)`).Error)

	_, err := store.Insert(ctx, "партнёры", []dtos.Row{{"компания": "ООО Ромашка"}})
	require.NoError(t, err)

	rows, err := store.Query(ctx, "партнёры", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ООО Ромашка", rows[0]["компания"])

	_, err = store.Query(ctx, "нет_такой", nil)
	assert.Error(t, err)
}

func TestRecordStore_DistinctAndExisting(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, catalog.TableContacts, []dtos.Row{
		{"электронная_почта": "x@example.com", "телефон": "+79991234567"},
		{"электронная_почта": "x@example.com"},
		{"имя": "Без почты"},
	})
	require.NoError(t, err)

	vals, err := store.DistinctValues(ctx, catalog.TableContacts, "электронная_почта")
	require.NoError(t, err)
	assert.Equal(t, []string{"x@example.com"}, vals)

	existing, err := store.ExistingValues(ctx, catalog.TableContacts, []string{"электронная_почта", "телефон"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []dtos.Row{
		{"электронная_почта": "x@example.com"},
		{"телефон": "+79991234567"},
	}, existing)

	none, err := store.ExistingValues(ctx, catalog.TableContacts, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecordStore_DistinctWithoutSQLX(t *testing.T) {
	store := NewRecordStore(setupTestDB(t), nil, nil)
	_, err := store.DistinctValues(context.Background(), catalog.TableContacts, "имя")
	assert.Error(t, err)

	rows, err := store.ExistingValues(context.Background(), catalog.TableContacts, []string{"имя"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
