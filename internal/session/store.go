// Package session persists import sessions between CLI invocations.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/natefinch/atomic"
)

var (
	ErrNotFound         = errors.New("import session not found")
	ErrNoCurrentSession = errors.New("no current import session")
)

type Store interface {
	Save(ctx context.Context, s *domain.ImportSession) error
	Get(ctx context.Context, id string) (*domain.ImportSession, error)
	// SetCurrent makes id the session later commands act on by default,
	// superseding any previous one.
	SetCurrent(ctx context.Context, id string) error
	Current(ctx context.Context) (*domain.ImportSession, error)
}

const currentFile = "current"

// FileStore keeps one JSON document per session plus a pointer file naming
// the current session. Every write replaces the file atomically.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("invalid session id %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func (s *FileStore) Save(_ context.Context, sess *domain.ImportSession) error {
	p, err := s.path(sess.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := atomic.WriteFile(p, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing session %s: %w", sess.ID, err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, id string) (*domain.ImportSession, error) {
	p, err := s.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading session %s: %w", id, err)
	}
	var sess domain.ImportSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *FileStore) SetCurrent(_ context.Context, id string) error {
	if _, err := s.path(id); err != nil {
		return err
	}
	if err := atomic.WriteFile(filepath.Join(s.dir, currentFile), strings.NewReader(id)); err != nil {
		return fmt.Errorf("writing current session pointer: %w", err)
	}
	return nil
}

func (s *FileStore) Current(ctx context.Context) (*domain.ImportSession, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, currentFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoCurrentSession
	}
	if err != nil {
		return nil, fmt.Errorf("reading current session pointer: %w", err)
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return nil, ErrNoCurrentSession
	}
	return s.Get(ctx, id)
}
