// Package records implements the keyword record lifecycle: save scans a
// project tree and persists its counts, get reads them back, update forces
// a fresh full rescan and delete removes the record.
//
// A record is keyed by the final segment of the project path, so
// /a/app and /b/app share one record. The store does not coordinate
// concurrent operations on the same record; callers serialize those.
package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/yoanbernabeu/keycount/history"
	"github.com/yoanbernabeu/keycount/keywords"
	"github.com/yoanbernabeu/keycount/scanner"
	"github.com/yoanbernabeu/keycount/store"
)

// RecordSuffix is appended to the final path segment to name a record.
const RecordSuffix = "_keywords.txt"

var (
	// ErrInvalidArgument is returned for an empty or blank project path.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned by Get and Update when no record exists.
	ErrNotFound = errors.New("record not found")

	// ErrIO wraps underlying read, write and delete failures.
	ErrIO = errors.New("i/o error")

	// ErrParse is returned by Get when the persisted record is malformed.
	ErrParse = errors.New("parse error")
)

// Sink receives one entry per completed operation.
type Sink interface {
	Record(ctx context.Context, e history.Entry) error
}

// Store ties a scanner to a record backend.
type Store struct {
	backend store.Backend
	scanner *scanner.Scanner
	sink    Sink
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithSink reports every operation to sink. Sink failures are logged and
// never fail the operation.
func WithSink(sink Sink) Option {
	return func(s *Store) { s.sink = sink }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a Store that scans with sc and persists to backend.
func New(backend store.Backend, sc *scanner.Scanner, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		scanner: sc,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordName derives the record name from the final segment of path.
func RecordName(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: path cannot be empty", ErrInvalidArgument)
	}
	base := filepath.Base(path)
	if base == string(filepath.Separator) {
		base = ""
	}
	return base + RecordSuffix, nil
}

// Location returns where the record for path is stored.
func (s *Store) Location(path string) (string, error) {
	name, err := RecordName(path)
	if err != nil {
		return "", err
	}
	return s.backend.Location(name), nil
}

// Save scans path and persists the non-zero counts. It returns false,
// leaving the record untouched, when a record already exists.
func (s *Store) Save(ctx context.Context, path string) (bool, error) {
	name, err := RecordName(path)
	if err != nil {
		return false, err
	}
	ok, st, total, err := s.save(ctx, path, name)
	entry := history.Entry{
		Operation:    history.Save,
		FilesScanned: st.FilesScanned,
		Occurrences:  total,
		Outcome:      history.Created,
	}
	if !ok {
		entry.Outcome = history.Exists
	}
	s.report(ctx, path, name, entry, err)
	return ok, err
}

func (s *Store) save(ctx context.Context, path, name string) (bool, scanner.Stats, int, error) {
	exists, err := s.backend.Exists(ctx, name)
	if err != nil {
		return false, scanner.Stats{}, 0, s.ioErr("check", name, err)
	}
	if exists {
		return false, scanner.Stats{}, 0, nil
	}

	counts, st := s.scanner.Scan(path)
	s.logger.Debug("scanned project",
		"path", path,
		"files", st.FilesScanned,
		"skipped", len(st.Skipped),
		"duration", st.Duration)

	err = s.backend.Create(ctx, name, s.scanner.Vocabulary(), counts)
	if errors.Is(err, store.ErrExists) {
		// Created by someone else between the check and the write.
		return false, st, 0, nil
	}
	if err != nil {
		return false, st, 0, s.ioErr("write", name, err)
	}
	return true, st, counts.Total(), nil
}

// Get returns the persisted counts for path. Only keywords with a non-zero
// count are present; an absent keyword means zero.
func (s *Store) Get(ctx context.Context, path string) (keywords.Counts, error) {
	name, err := RecordName(path)
	if err != nil {
		return nil, err
	}
	counts, err := s.backend.Read(ctx, name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		err = fmt.Errorf("%w: %s", ErrNotFound, s.backend.Location(name))
	case errors.Is(err, store.ErrParse):
		err = fmt.Errorf("%w: %w", ErrParse, err)
	case err != nil:
		err = s.ioErr("read", name, err)
	}
	s.report(ctx, path, name, history.Entry{
		Operation:   history.Get,
		Outcome:     history.Read,
		Occurrences: counts.Total(),
	}, err)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// Update removes the existing record and saves a fresh scan of path.
func (s *Store) Update(ctx context.Context, path string) (bool, error) {
	name, err := RecordName(path)
	if err != nil {
		return false, err
	}
	ok, st, total, err := s.update(ctx, path, name)
	entry := history.Entry{
		Operation:    history.Update,
		Outcome:      history.Updated,
		FilesScanned: st.FilesScanned,
		Occurrences:  total,
	}
	if !ok {
		entry.Outcome = history.Exists
	}
	s.report(ctx, path, name, entry, err)
	return ok, err
}

func (s *Store) update(ctx context.Context, path, name string) (bool, scanner.Stats, int, error) {
	exists, err := s.backend.Exists(ctx, name)
	if err != nil {
		return false, scanner.Stats{}, 0, s.ioErr("check", name, err)
	}
	if !exists {
		return false, scanner.Stats{}, 0, fmt.Errorf("%w: %s", ErrNotFound, s.backend.Location(name))
	}
	if _, err := s.backend.Remove(ctx, name); err != nil {
		return false, scanner.Stats{}, 0, s.ioErr("delete", name, err)
	}
	return s.save(ctx, path, name)
}

// Delete removes the record for path. A missing record is not an error:
// Delete reports false.
func (s *Store) Delete(ctx context.Context, path string) (bool, error) {
	name, err := RecordName(path)
	if err != nil {
		return false, err
	}
	removed, err := s.backend.Remove(ctx, name)
	if err != nil {
		err = s.ioErr("delete", name, err)
		removed = false
	}
	entry := history.Entry{Operation: history.Delete, Outcome: history.Deleted}
	if !removed {
		entry.Outcome = history.Missing
	}
	s.report(ctx, path, name, entry, err)
	return removed, err
}

func (s *Store) ioErr(op, name string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, s.backend.Location(name), err)
}

func (s *Store) report(ctx context.Context, path, name string, e history.Entry, err error) {
	e.Project = path
	e.Record = name
	switch {
	case errors.Is(err, ErrNotFound):
		e.Outcome = history.Missing
	case err != nil:
		e.Outcome = history.Failed
		e.Error = err.Error()
	}

	if err != nil {
		s.logger.Debug("operation failed", "op", e.Operation, "path", path, "error", err)
	} else {
		s.logger.Debug("operation done", "op", e.Operation, "path", path, "outcome", e.Outcome)
	}

	if s.sink == nil {
		return
	}
	if serr := s.sink.Record(ctx, e); serr != nil {
		s.logger.Warn("failed to record history", "error", serr)
	}
}
