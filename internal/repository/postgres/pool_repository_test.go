package postgres

import (
	"adPulse/domain"
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm over sqlmock: %v", err)
	}

	return gdb, mock, func() { db.Close() }
}

func TestPoolRepositoryFindActiveFiltersStatus(t *testing.T) {
	gdb, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "pools" WHERE status = \$1`).
		WithArgs("active").
		WillReturnRows(sqlmock.NewRows([]string{"id", "campaign_id", "pool_name", "total_budget", "status"}).
			AddRow(7, 1, "spring promo", 300.0, "active").
			AddRow(9, 1, "retargeting", 150.0, "active"))

	repo := NewPoolRepository(gdb)
	pools, err := repo.FindActive(context.Background())

	require.NoError(t, err)
	require.Len(t, pools, 2)
	assert.Equal(t, uint64(7), pools[0].ID)
	assert.Equal(t, "spring promo", pools[0].PoolName)
	assert.Equal(t, 300.0, pools[0].TotalBudget)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolRepositoryFindByIDNotFound(t *testing.T) {
	gdb, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "pools" WHERE "pools"\."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewPoolRepository(gdb)
	_, err := repo.FindByID(context.Background(), 42)

	require.Error(t, err)
	assert.Equal(t, "pool not found", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolRepositoryGetCurrentBudgets(t *testing.T) {
	gdb, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "ad_budgets" WHERE pool_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"pool_id", "ad_id", "budget"}).
			AddRow(7, "ad_a", 120.0).
			AddRow(7, "ad_b", 80.0))

	repo := NewPoolRepository(gdb)
	budgets, err := repo.GetCurrentBudgets(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"ad_a": 120.0, "ad_b": 80.0}, budgets)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolRepositoryGetCurrentBudgetsEmptyPool(t *testing.T) {
	gdb, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "ad_budgets" WHERE pool_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"pool_id", "ad_id", "budget"}))

	repo := NewPoolRepository(gdb)
	budgets, err := repo.GetCurrentBudgets(context.Background(), 99)

	require.NoError(t, err)
	assert.Empty(t, budgets)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolRepositoryRejectsCancelledContext(t *testing.T) {
	gdb, _, cleanup := setupTestDB(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewPoolRepository(gdb)
	_, err := repo.FindActive(ctx)
	require.Error(t, err)

	err = repo.ApplyBudgets(ctx, 7, []domain.AdBudget{{PoolID: 7, AdID: "ad_a", Budget: 10}})
	require.Error(t, err)
}
