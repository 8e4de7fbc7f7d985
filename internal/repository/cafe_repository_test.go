package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cafe-finder/internal/database"
	"github.com/iliyamo/cafe-finder/internal/model"
	"github.com/iliyamo/cafe-finder/internal/repository"
)

// setupTestDB opens an in-memory SQLite database with the cafes table.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.EnsureSchema(context.Background(), db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newCafe(name string) *model.Cafe {
	return &model.Cafe{
		Name:        name,
		MapURL:      "https://maps.example/" + name,
		ImgURL:      "https://img.example/" + name,
		Location:    "SoHo",
		Seats:       "20-30",
		CoffeePrice: "£3",
		HasWifi:     true,
	}
}

func TestCafeRepo_InsertAssignsID(t *testing.T) {
	repo := repository.NewCafeRepo(setupTestDB(t))
	ctx := context.Background()

	c := newCafe("Blue Bottle")
	require.NoError(t, repo.Insert(ctx, c))
	assert.NotZero(t, c.ID)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, c, items[0])
}

func TestCafeRepo_InsertDuplicateName(t *testing.T) {
	repo := repository.NewCafeRepo(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newCafe("Blue Bottle")))

	dup := newCafe("Blue Bottle")
	dup.Location = "Shoreditch"
	err := repo.Insert(ctx, dup)
	assert.True(t, errors.Is(err, repository.ErrConflict), "got %v", err)
	assert.Zero(t, dup.ID)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCafeRepo_ListOrderAndEmpty(t *testing.T) {
	repo := repository.NewCafeRepo(setupTestDB(t))
	ctx := context.Background()

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	for _, name := range []string{"Zebra", "Alpha", "Mango"} {
		require.NoError(t, repo.Insert(ctx, newCafe(name)))
	}
	items, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Zebra", items[0].Name)
	assert.Equal(t, "Alpha", items[1].Name)
	assert.Equal(t, "Mango", items[2].Name)
}

func TestCafeRepo_EmptyCoffeePriceRoundTrips(t *testing.T) {
	repo := repository.NewCafeRepo(setupTestDB(t))
	ctx := context.Background()

	c := newCafe("No Price")
	c.CoffeePrice = ""
	require.NoError(t, repo.Insert(ctx, c))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "", items[0].CoffeePrice)
}

func TestCafeRepo_Delete(t *testing.T) {
	repo := repository.NewCafeRepo(setupTestDB(t))
	ctx := context.Background()

	c := newCafe("Blue Bottle")
	require.NoError(t, repo.Insert(ctx, c))

	require.NoError(t, repo.Delete(ctx, c.ID))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	err = repo.Delete(ctx, c.ID)
	assert.True(t, errors.Is(err, repository.ErrCafeNotFound), "got %v", err)
}

func TestCafeRepo_IDsAreNotReused(t *testing.T) {
	repo := repository.NewCafeRepo(setupTestDB(t))
	ctx := context.Background()

	a, b := newCafe("A"), newCafe("B")
	require.NoError(t, repo.Insert(ctx, a))
	require.NoError(t, repo.Insert(ctx, b))
	require.NoError(t, repo.Delete(ctx, b.ID))

	c := newCafe("C")
	require.NoError(t, repo.Insert(ctx, c))
	assert.Greater(t, c.ID, b.ID)
}
