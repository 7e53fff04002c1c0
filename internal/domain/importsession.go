package domain

import (
	"errors"
	"fmt"
	"time"
)

const DefaultBatchSize = 25

var ErrConflictingOptions = errors.New("clear_existing and skip_existing cannot be combined")

type ImportOptions struct {
	SkipExisting  bool `json:"skip_existing"`
	ClearExisting bool `json:"clear_existing"`
	UpdatePrices  bool `json:"update_prices"`
	BatchSize     int  `json:"batch_size"`
}

// DefaultImportOptions skips rows whose assignment already exists.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{SkipExisting: true, BatchSize: DefaultBatchSize}
}

func (o ImportOptions) Validate() error {
	if o.SkipExisting && o.ClearExisting {
		return ErrConflictingOptions
	}
	if o.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", o.BatchSize)
	}
	return nil
}

type ImportStats struct {
	RowsSkipped         int `json:"rows_skipped"`
	ItemsFound          int `json:"products_found"`
	ItemsNotFound       int `json:"products_not_found"`
	AssignmentsCreated  int `json:"assignments_created"`
	AssignmentsExisting int `json:"assignments_existing"`
	Errors              int `json:"errors"`
}

func (s *ImportStats) Add(o ImportStats) {
	s.RowsSkipped += o.RowsSkipped
	s.ItemsFound += o.ItemsFound
	s.ItemsNotFound += o.ItemsNotFound
	s.AssignmentsCreated += o.AssignmentsCreated
	s.AssignmentsExisting += o.AssignmentsExisting
	s.Errors += o.Errors
}

type LogEntry struct {
	Time     time.Time   `json:"time"`
	Category LogCategory `json:"category"`
	Row      int         `json:"row,omitempty"`
	Message  string      `json:"message"`
}

// ImportSession is the resumable state of one uploaded import file.
type ImportSession struct {
	ID        string         `json:"id"`
	FileKey   string         `json:"file_key"`
	FileName  string         `json:"file_name"`
	Options   ImportOptions  `json:"options"`
	Cursor    int            `json:"cursor"`
	TotalRows int            `json:"total_rows"`
	Stats     ImportStats    `json:"stats"`
	Cleared   map[int64]bool `json:"cleared,omitempty"`
	Log       []LogEntry     `json:"log,omitempty"`
	Status    SessionStatus  `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// MarkCleared remembers that an item's sequence was reset in this session.
func (s *ImportSession) MarkCleared(itemID int64) {
	if s.Cleared == nil {
		s.Cleared = make(map[int64]bool)
	}
	s.Cleared[itemID] = true
}

func (s *ImportSession) WasCleared(itemID int64) bool {
	return s.Cleared[itemID]
}

// Append adds a log entry stamped with now.
func (s *ImportSession) Append(now time.Time, category LogCategory, row int, format string, args ...any) {
	s.Log = append(s.Log, LogEntry{
		Time:     now,
		Category: category,
		Row:      row,
		Message:  fmt.Sprintf(format, args...),
	})
}

// LogTail returns at most n of the newest log entries.
func (s *ImportSession) LogTail(n int) []LogEntry {
	if n <= 0 || len(s.Log) <= n {
		return append([]LogEntry(nil), s.Log...)
	}
	return append([]LogEntry(nil), s.Log[len(s.Log)-n:]...)
}

// FilterLog returns entries of the given category, or all entries if empty.
func (s *ImportSession) FilterLog(category LogCategory) []LogEntry {
	if category == "" {
		return append([]LogEntry(nil), s.Log...)
	}
	var out []LogEntry
	for _, e := range s.Log {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}
