package main

import (
	"context"
	"testing"

	"github.com/alexanderramin/menuplan/internal/cache"
	"github.com/alexanderramin/menuplan/internal/config"
	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/alexanderramin/menuplan/internal/query"
	"github.com/alexanderramin/menuplan/internal/repository"
	"github.com/alexanderramin/menuplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGlobalFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want globalFlags
	}{
		{"none", []string{"import", "status"}, globalFlags{}},
		{"verbose anywhere", []string{"import", "run", "-v"}, globalFlags{verbose: true}},
		{"metrics file", []string{"--metrics-file", "/tmp/m.prom", "query", "items", "--menu", "3"}, globalFlags{metricsFile: "/tmp/m.prom"}},
		{"help is ignored", []string{"--help"}, globalFlags{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseGlobalFlags(tt.args))
		})
	}
}

func TestNewCache(t *testing.T) {
	database := testutil.NewTestDB(t)
	cfg := config.Default()

	cfg.CacheDriver = config.CacheSQLite
	assert.IsType(t, &cache.SQLite{}, newCache(cfg, database))
	cfg.CacheDriver = config.CacheMemory
	assert.IsType(t, &cache.Memory{}, newCache(cfg, database))
	cfg.CacheDriver = config.CacheNone
	assert.IsType(t, cache.Nop{}, newCache(cfg, database))
}

func TestNewResolver_IndexSettingPicksTier(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteAssignmentRepo(database)
	item := testutil.NewSeed(t, database).Item("Oats")
	require.NoError(t, repo.Set(ctx, item.ID, []domain.AssignmentRecord{
		{MenuType: domain.MenuWeekly, ProgramMenuID: 1, DayID: 2},
	}))
	scan := query.NewScanStrategy(repo)
	q := query.Query{ProgramMenuID: 1, DayID: 2}

	cfg := config.Default()
	res, err := newResolver(cfg, nil, database, repo, scan).FindItems(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, query.TierIndex, res.Tier)

	cfg.Index.Enabled = false
	res, err = newResolver(cfg, nil, database, repo, scan).FindItems(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, query.TierScan, res.Tier)
	assert.Equal(t, []int64{item.ID}, res.ItemIDs)
}
