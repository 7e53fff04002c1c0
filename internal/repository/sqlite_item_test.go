package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/alexanderramin/menuplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteItemRepo(db)
	ctx := context.Background()

	item := testutil.NewTestItem("Oats", testutil.WithPrice(4.5))
	require.NoError(t, repo.Create(ctx, item))

	fetched, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Oats", fetched.Title)
	assert.Equal(t, domain.ItemPublished, fetched.Status)
	assert.Equal(t, 4.5, fetched.Price)
	assert.Nil(t, fetched.WeeklyPrice)
	assert.Nil(t, fetched.MonthlyPrice)
}

func TestItemRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, err := NewSQLiteItemRepo(db).GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemRepo_List_PublishedOnly(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteItemRepo(db)
	ctx := context.Background()
	seed := testutil.NewSeed(t, db)

	seed.Item("Oats")
	seed.Item("Hidden", testutil.WithStatus(domain.ItemDraft))

	published, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "Oats", published[0].Title)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestItemRepo_UpdatePrices_NilKeepsValue(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteItemRepo(db)
	ctx := context.Background()
	item := testutil.NewSeed(t, db).Item("Soup", testutil.WithLayoutPrices(10, 35))

	weekly := 12.5
	require.NoError(t, repo.UpdatePrices(ctx, item.ID, &weekly, nil))

	fetched, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.WeeklyPrice)
	require.NotNil(t, fetched.MonthlyPrice)
	assert.Equal(t, 12.5, *fetched.WeeklyPrice)
	assert.Equal(t, 35.0, *fetched.MonthlyPrice)

	assert.ErrorIs(t, repo.UpdatePrices(ctx, 999, &weekly, nil), ErrNotFound)
}
