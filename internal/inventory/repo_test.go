package inventory

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellarhub/pkg/models"

	_ "github.com/mattn/go-sqlite3"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// one shared in-memory database for the whole pool
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE bottles (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  owner_id TEXT NOT NULL,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  producer TEXT,
  region TEXT,
  country TEXT,
  wine_type TEXT,
  sub_type TEXT,
  vintage_stocks TEXT NOT NULL DEFAULT '[]',
  stock_level INTEGER NOT NULL DEFAULT 0,
  notes TEXT,
  rating INTEGER,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`)
	require.NoError(t, err)

	return db
}

func TestCreate_TrackedStockDerivedFromVintages(t *testing.T) {
	r := NewRepo(setupDB(t))
	ctx := context.Background()

	b, err := r.Create(ctx, "owner-1", CreateInput{
		Name:     "Château Test",
		Category: models.CategoryRed,
		Producer: "Domaine X",
		VintageStocks: []models.VintageStock{
			{Vintage: 2020, Stock: 3},
			{Vintage: 2019, Stock: 2},
		},
		StockLevel: 99, // caller input must not be trusted here
	})
	require.NoError(t, err)
	require.NotNil(t, b)

	assert.Greater(t, b.ID, int64(0))
	assert.Equal(t, "owner-1", b.OwnerID)
	assert.False(t, b.CreatedAt.IsZero())
	assert.Equal(t, 5, b.StockLevel)
	assert.Equal(t, []models.VintageStock{
		{Vintage: 2019, Stock: 2},
		{Vintage: 2020, Stock: 3},
	}, b.VintageStocks)
}

func TestCreate_DuplicateYearsMergedOnCreate(t *testing.T) {
	r := NewRepo(setupDB(t))
	ctx := context.Background()

	b, err := r.Create(ctx, "owner-1", CreateInput{
		Name:     "Rioja",
		Category: models.CategoryRed,
		VintageStocks: []models.VintageStock{
			{Vintage: 2020, Stock: 3},
			{Vintage: 2020, Stock: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []models.VintageStock{{Vintage: 2020, Stock: 5}}, b.VintageStocks)
	assert.Equal(t, 5, b.StockLevel)
}

func TestUpdate_MergesVintageYearAcrossCalls(t *testing.T) {
	r := NewRepo(setupDB(t))
	ctx := context.Background()

	b, err := r.Create(ctx, "owner-1", CreateInput{
		Name:          "Rioja",
		Category:      models.CategoryRed,
		VintageStocks: []models.VintageStock{{Vintage: 2020, Stock: 3}},
	})
	require.NoError(t, err)

	more := []models.VintageStock{{Vintage: 2020, Stock: 2}}
	updated, err := r.Update(ctx, b.ID, Patch{VintageStocks: &more})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, []models.VintageStock{{Vintage: 2020, Stock: 5}}, updated.VintageStocks)
	assert.Equal(t, 5, updated.StockLevel)
}

func TestUpdate_EmptyPatchChangesNothing(t *testing.T) {
	r := NewRepo(setupDB(t))
	ctx := context.Background()

	rating := 4
	b, err := r.Create(ctx, "owner-1", CreateInput{
		Name:          "Sancerre",
		Category:      models.CategoryWhite,
		Region:        "Loire",
		Notes:         "crisp",
		Rating:        &rating,
		VintageStocks: []models.VintageStock{{Vintage: 2021, Stock: 6}},
	})
	require.NoError(t, err)

	updated, err := r.Update(ctx, b.ID, Patch{})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, b.Name, updated.Name)
	assert.Equal(t, b.Region, updated.Region)
	assert.Equal(t, b.Notes, updated.Notes)
	assert.Equal(t, b.Rating, updated.Rating)
	assert.Equal(t, b.VintageStocks, updated.VintageStocks)
	assert.Equal(t, b.StockLevel, updated.StockLevel)
}

func TestUntrackedCategory_StockLevelIsDirect(t *testing.T) {
	r := NewRepo(setupDB(t))
	ctx := context.Background()

	// stale breakdown must not feed the total for a Beer
	b, err := r.Create(ctx, "owner-1", CreateInput{
		Name:          "Stout",
		Category:      models.CategoryBeer,
		StockLevel:    10,
		VintageStocks: []models.VintageStock{{Vintage: 2018, Stock: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, b.StockLevel)

	level := 4
	updated, err := r.Update(ctx, b.ID, Patch{StockLevel: &level})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.StockLevel)
}

func TestUpdate_CategoryChangeSwitchesWritePath(t *testing.T) {
	r := NewRepo(setupDB(t))
	ctx := context.Background()

	b, err := r.Create(ctx, "owner-1", CreateInput{
		Name:       "Mystery bottle",
		Category:   models.CategoryBeer,
		StockLevel: 10,
		VintageStocks: []models.VintageStock{
			{Vintage: 2018, Stock: 2},
			{Vintage: 2019, Stock: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, b.StockLevel)

	red := models.CategoryRed
	updated, err := r.Update(ctx, b.ID, Patch{Category: &red})
	require.NoError(t, err)

	// now vintage-tracked, so the breakdown governs the total
	assert.Equal(t, 3, updated.StockLevel)
}

func TestUpdate_FutureVintageRejectedWithoutPartialWrite(t *testing.T) {
	r := NewRepo(setupDB(t))
	ctx := context.Background()

	b, err := r.Create(ctx, "owner-1", CreateInput{
		Name:          "Rioja",
		Category:      models.CategoryRed,
		VintageStocks: []models.VintageStock{{Vintage: 2020, Stock: 3}},
	})
	require.NoError(t, err)

	name := "Renamed"
	future := []models.VintageStock{{Vintage: time.Now().Year() + 1, Stock: 1}}
	_, err = r.Update(ctx, b.ID, Patch{Name: &name, VintageStocks: &future})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// nothing applied, not even the name
	after, err := r.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rioja", after.Name)
	assert.Equal(t, b.VintageStocks, after.VintageStocks)
}

func TestCreate_NegativeVintageEntryRejected(t *testing.T) {
	r := NewRepo(setupDB(t))
	ctx := context.Background()

	// a duplicate year must not absorb the negative entry before validation
	_, err := r.Create(ctx, "owner-1", CreateInput{
		Name:     "Rioja",
		Category: models.CategoryRed,
		VintageStocks: []models.VintageStock{
			{Vintage: 2020, Stock: 5},
			{Vintage: 2020, Stock: -2},
		},
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	bottles, err := r.List(ctx, "owner-1", "")
	require.NoError(t, err)
	assert.Len(t, bottles, 0)
}

func TestUpdate_NegativeVintageEntryRejectedWithoutPartialWrite(t *testing.T) {
	r := NewRepo(setupDB(t))
	ctx := context.Background()

	b, err := r.Create(ctx, "owner-1", CreateInput{
		Name:          "Rioja",
		Category:      models.CategoryRed,
		VintageStocks: []models.VintageStock{{Vintage: 2020, Stock: 5}},
	})
	require.NoError(t, err)

	// would merge to a non-negative total, still invalid input
	decrement := []models.VintageStock{{Vintage: 2020, Stock: -2}}
	_, err = r.Update(ctx, b.ID, Patch{VintageStocks: &decrement})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	after, err := r.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.VintageStock{{Vintage: 2020, Stock: 5}}, after.VintageStocks)
	assert.Equal(t, 5, after.StockLevel)
}

func TestUpdate_NotFound(t *testing.T) {
	r := NewRepo(setupDB(t))

	updated, err := r.Update(context.Background(), 12345, Patch{})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestGet_NotFoundIsNil(t *testing.T) {
	r := NewRepo(setupDB(t))

	b, err := r.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestDelete_ThenGetNotFound(t *testing.T) {
	r := NewRepo(setupDB(t))
	ctx := context.Background()

	b, err := r.Create(ctx, "owner-1", CreateInput{Name: "Cider", Category: models.CategoryCider})
	require.NoError(t, err)

	ok, err := r.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := r.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err = r.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete_AbsentIDIsFalseEveryTime(t *testing.T) {
	r := NewRepo(setupDB(t))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := r.Delete(ctx, 999)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestList_OwnerAndCategoryFilters(t *testing.T) {
	r := NewRepo(setupDB(t))
	ctx := context.Background()

	_, err := r.Create(ctx, "alice", CreateInput{Name: "Barolo", Category: models.CategoryRed})
	require.NoError(t, err)
	_, err = r.Create(ctx, "alice", CreateInput{Name: "Chablis", Category: models.CategoryWhite})
	require.NoError(t, err)
	_, err = r.Create(ctx, "bob", CreateInput{Name: "Porter", Category: models.CategoryBeer})
	require.NoError(t, err)

	all, err := r.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	alice, err := r.List(ctx, "alice", "")
	require.NoError(t, err)
	assert.Len(t, alice, 2)

	aliceReds, err := r.List(ctx, "alice", models.CategoryRed)
	require.NoError(t, err)
	require.Len(t, aliceReds, 1)
	assert.Equal(t, "Barolo", aliceReds[0].Name)

	bobWhites, err := r.List(ctx, "bob", models.CategoryWhite)
	require.NoError(t, err)
	assert.Len(t, bobWhites, 0)

	reds, err := r.ListByCategory(ctx, models.CategoryRed, "")
	require.NoError(t, err)
	require.Len(t, reds, 1)
	assert.Equal(t, "Barolo", reds[0].Name)
}

func TestCreate_RatingPersisted(t *testing.T) {
	r := NewRepo(setupDB(t))
	ctx := context.Background()

	rating := 3
	b, err := r.Create(ctx, "owner-1", CreateInput{
		Name:     "Islay",
		Category: models.CategoryWhiskies,
		Rating:   &rating,
	})
	require.NoError(t, err)
	require.NotNil(t, b.Rating)
	assert.Equal(t, 3, *b.Rating)

	got, err := r.Get(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 3, *got.Rating)
}
