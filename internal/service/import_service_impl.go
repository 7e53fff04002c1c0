package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/menuplan/internal/blob"
	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/alexanderramin/menuplan/internal/importer"
	"github.com/alexanderramin/menuplan/internal/metrics"
	"github.com/alexanderramin/menuplan/internal/repository"
	"github.com/alexanderramin/menuplan/internal/resolver"
	"github.com/alexanderramin/menuplan/internal/session"
	"github.com/google/uuid"
)

const (
	// batchLogTail caps the log entries returned with a batch.
	batchLogTail = 50
	// similarLogLimit is how many not-found items per session get
	// near-match candidates logged.
	similarLogLimit = 5
	// similarCount caps the candidates listed per not-found item.
	similarCount = 3
)

type importService struct {
	sessions    session.Store
	blobs       blob.Store
	terms       repository.TermRepo
	items       repository.ItemRepo
	assignments AssignmentService
	metrics     *metrics.Metrics
	observer    UseCaseObserver
	now         func() time.Time
}

func NewImportService(
	sessions session.Store,
	blobs blob.Store,
	terms repository.TermRepo,
	items repository.ItemRepo,
	assignments AssignmentService,
	m *metrics.Metrics,
	observers ...UseCaseObserver,
) ImportService {
	return &importService{
		sessions:    sessions,
		blobs:       blobs,
		terms:       terms,
		items:       items,
		assignments: assignments,
		metrics:     m,
		observer:    useCaseObserverOrNoop(observers),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *importService) Start(ctx context.Context, fileName string, r io.Reader, opts domain.ImportOptions) (sess *domain.ImportSession, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"file": fileName}
	defer func() { observe(ctx, s.observer, "import.start", startedAt, err, fields) }()

	if opts.BatchSize == 0 {
		opts.BatchSize = domain.DefaultBatchSize
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	id := uuid.NewString()
	info, err := s.blobs.Put(ctx, blob.UploadKey(id, fileName), r)
	if err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}

	sess = &domain.ImportSession{
		ID:        id,
		FileKey:   info.Key,
		FileName:  fileName,
		Options:   opts,
		Status:    domain.SessionPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if rows, perr := s.loadRows(ctx, sess); perr != nil {
		sess.Append(now, domain.LogError, 0, "%v", perr)
	} else {
		sess.TotalRows = len(rows)
		sess.Append(now, domain.LogInfo, 0, "Uploaded %s with %d rows", fileName, len(rows))
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.sessions.SetCurrent(ctx, sess.ID); err != nil {
		return nil, err
	}
	fields["session"] = sess.ID
	fields["rows"] = sess.TotalRows
	return sess, nil
}

// loadRows reads the stored upload back and decodes it.
func (s *importService) loadRows(ctx context.Context, sess *domain.ImportSession) ([]importer.Row, error) {
	rc, err := s.blobs.Get(ctx, sess.FileKey)
	if err != nil {
		return nil, fmt.Errorf("reading upload %s: %w", sess.FileKey, err)
	}
	defer rc.Close()

	sheet, err := importer.ParseWorkbook(rc)
	if err != nil {
		return nil, err
	}
	return importer.DecodeRows(sheet), nil
}

func (s *importService) Validate(ctx context.Context, sessionID string) (report *importer.ValidationReport, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"session": sessionID}
	defer func() { observe(ctx, s.observer, "import.validate", startedAt, err, fields) }()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	rows, err := s.loadRows(ctx, sess)
	if err != nil {
		return importer.NewFailedReport(fmt.Sprintf("Error parsing spreadsheet: %v", err)), nil
	}
	if len(rows) == 0 {
		return importer.NewFailedReport("No data found in spreadsheet"), nil
	}

	terms, items, err := s.resolvers(ctx)
	if err != nil {
		return nil, err
	}
	report = importer.Validate(rows, terms, items)
	fields["ready"] = report.ReadyToImport
	fields["missing_products"] = report.ProductsMissing
	fields["missing_terms"] = report.MissingTermCount()
	return report, nil
}

func (s *importService) resolvers(ctx context.Context) (*resolver.TermResolver, *resolver.ItemResolver, error) {
	terms, err := s.terms.List(ctx, "")
	if err != nil {
		return nil, nil, fmt.Errorf("loading terms: %w", err)
	}
	items, err := s.items.List(ctx, true)
	if err != nil {
		return nil, nil, fmt.Errorf("loading items: %w", err)
	}
	return resolver.NewTermResolver(terms), resolver.NewItemResolver(items), nil
}

func (s *importService) Next(ctx context.Context, sessionID string) (*BatchResult, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.ProcessBatch(ctx, sessionID, sess.Cursor/sess.Options.BatchSize)
}

// ProcessBatch runs one batch of rows. Only a file that cannot be read is
// fatal; every row-level failure lands in the stats and the session log.
// Replaying a batch counts its rows again. Cancellation is checked before
// the batch starts; a started batch runs to completion and is saved.
func (s *importService) ProcessBatch(ctx context.Context, sessionID string, batchIndex int) (res *BatchResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"session": sessionID, "batch": batchIndex}
	defer func() { observe(ctx, s.observer, "import.batch", startedAt, err, fields) }()

	if batchIndex < 0 {
		return nil, fmt.Errorf("batch index must not be negative, got %d", batchIndex)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	rows, err := s.loadRows(ctx, sess)
	if err != nil {
		sess.Append(s.now(), domain.LogError, 0, "Error parsing spreadsheet: %v", err)
		if serr := s.sessions.Save(ctx, sess); serr != nil {
			return nil, errors.Join(err, serr)
		}
		return nil, err
	}
	terms, items, err := s.resolvers(ctx)
	if err != nil {
		return nil, err
	}

	sess.TotalRows = len(rows)
	size := sess.Options.BatchSize
	start := min(batchIndex*size, len(rows))
	end := min(start+size, len(rows))

	b := &batch{
		svc:   s,
		sess:  sess,
		terms: terms,
		items: items,
	}
	for _, row := range rows[start:end] {
		b.processRow(ctx, row)
	}

	sess.Cursor = max(sess.Cursor, end)
	sess.Stats.Add(b.stats)
	sess.Status = domain.SessionRunning
	if sess.Cursor >= len(rows) {
		sess.Status = domain.SessionCompleted
		sess.Append(s.now(), domain.LogInfo, 0, "Import completed: %d rows", len(rows))
	}
	sess.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.metrics.Batch()

	fields["rows"] = end - start
	fields["created"] = b.stats.AssignmentsCreated
	fields["not_found"] = b.stats.ItemsNotFound
	fields["errors"] = b.stats.Errors
	return &BatchResult{
		Processed:  sess.Cursor,
		Total:      len(rows),
		HasMore:    sess.Cursor < len(rows),
		Stats:      b.stats,
		TotalStats: sess.Stats,
		Log:        sess.LogTail(batchLogTail),
	}, nil
}

// batch is the working state of one ProcessBatch call.
type batch struct {
	svc   *importService
	sess  *domain.ImportSession
	terms *resolver.TermResolver
	items *resolver.ItemResolver
	stats domain.ImportStats
}

func (b *batch) log(category domain.LogCategory, row int, format string, args ...any) {
	b.sess.Append(b.svc.now(), category, row, format, args...)
}

func (b *batch) outcome(o string) {
	b.svc.metrics.RowOutcome(o)
}

func (b *batch) processRow(ctx context.Context, row importer.Row) {
	if !row.Complete() {
		b.stats.RowsSkipped++
		b.outcome(metrics.OutcomeSkipped)
		return
	}
	b.log(domain.LogRow, row.Number, "Processing '%s' for menu '%s' (%s)", row.Item, row.MenuTitle, row.MenuType)

	item, match, ok := b.items.Resolve(row.Item)
	if !ok {
		b.stats.ItemsNotFound++
		b.outcome(metrics.OutcomeNotFound)
		b.log(domain.LogLookup, row.Number, "Product not found: '%s'", row.Item)
		if b.sess.Stats.ItemsNotFound+b.stats.ItemsNotFound <= similarLogLimit {
			if similar := b.items.Similar(row.Item, similarCount); len(similar) > 0 {
				b.log(domain.LogLookup, row.Number, "Similar products: %s", describeItems(similar))
			}
		}
		return
	}
	b.stats.ItemsFound++
	if match == resolver.MatchContains {
		b.log(domain.LogLookup, row.Number, "Matched '%s' to '%s' (#%d) by containment", row.Item, item.Title, item.ID)
	}

	rec, ok := b.buildRecord(row)
	if !ok {
		b.stats.Errors++
		b.outcome(metrics.OutcomeError)
		return
	}

	if b.write(ctx, row, item, rec) {
		b.updatePrices(ctx, row, item)
	}
}

// buildRecord resolves the row's terms. The menu is required, a day that
// was given must resolve, and an unresolved week or meal is dropped.
func (b *batch) buildRecord(row importer.Row) (domain.AssignmentRecord, bool) {
	rec := domain.AssignmentRecord{MenuType: row.MenuType}

	menu, ok := b.terms.Resolve(row.MenuTitle, domain.TaxonomyProgramMenu)
	if !ok {
		b.log(domain.LogError, row.Number, "Menu not found: '%s'", row.MenuTitle)
		return rec, false
	}
	rec.ProgramMenuID = menu.ID

	if row.MenuType == domain.MenuMonthly && row.Week != "" {
		if week, ok := b.terms.Resolve(row.Week, domain.TaxonomyWeek); ok {
			rec.WeekID = week.ID
		} else {
			b.log(domain.LogLookup, row.Number, "Week not found: '%s', assigned without week", row.Week)
		}
	}
	if row.Day != "" {
		day, ok := b.terms.Resolve(row.Day, domain.TaxonomyWeekday)
		if !ok {
			b.log(domain.LogError, row.Number, "Day not found: '%s'", row.Day)
			return rec, false
		}
		rec.DayID = day.ID
	}
	if row.Meal != "" {
		if meal, ok := b.terms.Resolve(row.Meal, domain.TaxonomyMealtime); ok {
			rec.MealID = meal.ID
		} else {
			b.log(domain.LogLookup, row.Number, "Meal not found: '%s', assigned to every meal", row.Meal)
		}
	}
	return rec, true
}

// write applies the session's write policy. It reports whether the record
// is now part of the item's sequence.
func (b *batch) write(ctx context.Context, row importer.Row, item domain.Item, rec domain.AssignmentRecord) bool {
	opts := b.sess.Options
	existing, err := b.svc.assignments.Get(ctx, item.ID)
	if err != nil {
		b.stats.Errors++
		b.outcome(metrics.OutcomeError)
		b.log(domain.LogError, row.Number, "Reading assignments of '%s' (#%d): %v", item.Title, item.ID, err)
		return false
	}

	clearing := opts.ClearExisting && !b.sess.WasCleared(item.ID)
	switch {
	case clearing:
		existing = nil
	case opts.SkipExisting && domain.ContainsAssignment(existing, rec):
		b.stats.AssignmentsExisting++
		b.outcome(metrics.OutcomeExisting)
		b.log(domain.LogRow, row.Number, "Assignment already exists for '%s'", item.Title)
		return true
	}

	records := append(existing, rec)
	if err := b.svc.assignments.Set(ctx, item.ID, records); err != nil {
		b.stats.Errors++
		b.outcome(metrics.OutcomeError)
		b.log(domain.LogError, row.Number, "Saving %d assignments for '%s' (#%d) failed: %v, record %+v",
			len(records), item.Title, item.ID, err, rec)
		return false
	}
	if clearing {
		b.sess.MarkCleared(item.ID)
	}
	b.stats.AssignmentsCreated++
	b.outcome(metrics.OutcomeCreated)
	b.log(domain.LogRow, row.Number, "Assigned '%s' (#%d), %d records", item.Title, item.ID, len(records))
	return true
}

func (b *batch) updatePrices(ctx context.Context, row importer.Row, item domain.Item) {
	if !b.sess.Options.UpdatePrices || !row.HasPrices {
		return
	}
	parse := func(label, raw string) *float64 {
		if raw == "" {
			return nil
		}
		v, ok := importer.ParsePrice(raw)
		if !ok {
			b.log(domain.LogError, row.Number, "Invalid %s price '%s'", label, raw)
			return nil
		}
		return &v
	}
	weekly := parse("weekly", row.WeeklyPrice)
	monthly := parse("monthly", row.MonthlyPrice)
	if weekly == nil && monthly == nil {
		return
	}
	if err := b.svc.items.UpdatePrices(ctx, item.ID, weekly, monthly); err != nil {
		b.stats.Errors++
		b.log(domain.LogError, row.Number, "Updating prices of '%s' (#%d): %v", item.Title, item.ID, err)
	}
}

func (s *importService) Current(ctx context.Context) (*domain.ImportSession, error) {
	return s.sessions.Current(ctx)
}

func (s *importService) Get(ctx context.Context, sessionID string) (*domain.ImportSession, error) {
	return s.sessions.Get(ctx, sessionID)
}

func (s *importService) Log(ctx context.Context, sessionID string, category domain.LogCategory) ([]domain.LogEntry, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.FilterLog(category), nil
}
