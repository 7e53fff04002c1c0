package service

import (
	"context"
	"io"

	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/alexanderramin/menuplan/internal/importer"
	"github.com/alexanderramin/menuplan/internal/query"
)

type CatalogService interface {
	CreateTerm(ctx context.Context, t *domain.Term) error
	ListTerms(ctx context.Context, taxonomy domain.Taxonomy) ([]domain.Term, error)
	CreateItem(ctx context.Context, item *domain.Item) error
	Item(ctx context.Context, id int64) (*domain.Item, error)
	ListItems(ctx context.Context, publishedOnly bool) ([]domain.Item, error)
	// CreateMissingTerms creates every term a validation report could not
	// resolve and returns the new terms.
	CreateMissingTerms(ctx context.Context, report *importer.ValidationReport) ([]domain.Term, error)
	MenuType(ctx context.Context, menuID int64) (domain.MenuType, error)
}

type AssignmentService interface {
	Get(ctx context.Context, itemID int64) ([]domain.AssignmentRecord, error)
	Set(ctx context.Context, itemID int64, records []domain.AssignmentRecord) error
	// Append is a read-modify-write and assumes a single writer per item.
	Append(ctx context.Context, itemID int64, record domain.AssignmentRecord) error
	Resync(ctx context.Context, itemID int64) error
	RebuildIndex(ctx context.Context) (int, error)
	Dedupe(ctx context.Context) (*DedupeResult, error)
	RemoveAll(ctx context.Context) (int, error)
	MenuStats(ctx context.Context) ([]MenuStat, error)
	ClearCache(ctx context.Context) (int, error)
}

type QueryService interface {
	FindItems(ctx context.Context, q query.Query) (*query.Result, error)
	ItemHasMenu(ctx context.Context, itemID, menuID int64, menuType domain.MenuType) (bool, error)
	// Occurrences returns every matching record, duplicates included.
	// allWeeks drops the week condition.
	Occurrences(ctx context.Context, q query.Query, allWeeks bool) ([]domain.Occurrence, error)
	MenuTotal(ctx context.Context, menuID int64) (*MenuTotal, error)
}

type ImportService interface {
	Start(ctx context.Context, fileName string, r io.Reader, opts domain.ImportOptions) (*domain.ImportSession, error)
	Validate(ctx context.Context, sessionID string) (*importer.ValidationReport, error)
	ProcessBatch(ctx context.Context, sessionID string, batchIndex int) (*BatchResult, error)
	// Next processes the batch at the session cursor.
	Next(ctx context.Context, sessionID string) (*BatchResult, error)
	Current(ctx context.Context) (*domain.ImportSession, error)
	Get(ctx context.Context, sessionID string) (*domain.ImportSession, error)
	Log(ctx context.Context, sessionID string, category domain.LogCategory) ([]domain.LogEntry, error)
}

// BatchResult reports one processed batch. Processed is the session-wide
// cursor after the batch.
type BatchResult struct {
	Processed  int                `json:"processed"`
	Total      int                `json:"total"`
	HasMore    bool               `json:"has_more"`
	Stats      domain.ImportStats `json:"stats"`
	TotalStats domain.ImportStats `json:"total_stats"`
	Log        []domain.LogEntry  `json:"log"`
}

type DedupeResult struct {
	ItemsChanged   int `json:"items_changed"`
	RecordsRemoved int `json:"records_removed"`
}

// MenuStat summarises one program menu.
type MenuStat struct {
	Menu        domain.Term     `json:"menu"`
	MenuType    domain.MenuType `json:"menu_type"`
	Items       int             `json:"items"`
	Assignments int             `json:"assignments"`
}

type MenuTotal struct {
	Menu        domain.Term     `json:"menu"`
	MenuType    domain.MenuType `json:"menu_type"`
	Occurrences int             `json:"occurrences"`
	Items       int             `json:"items"`
	Total       float64         `json:"total"`
}
