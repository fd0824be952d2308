// Package scanner walks a source tree and accumulates keyword counts.
package scanner

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/yoanbernabeu/keycount/keywords"
)

// Stats describes one walk.
type Stats struct {
	FilesScanned int
	Ignored      int      // files and directories excluded by ignore rules
	Skipped      []string // entries that could not be read
	Duration     time.Duration
}

// Scanner counts keywords in the matching files of a directory tree.
type Scanner struct {
	counter   *keywords.Counter
	extension string
	ignore    *ignore.GitIgnore
	logger    *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithIgnore excludes root-relative paths matched by gitignore-style rules.
func WithIgnore(gi *ignore.GitIgnore) Option {
	return func(s *Scanner) { s.ignore = gi }
}

// WithLogger sets the logger used for skipped entries.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

// New creates a Scanner that counts files whose name ends with extension.
func New(counter *keywords.Counter, extension string, opts ...Option) *Scanner {
	s := &Scanner{
		counter:   counter,
		extension: extension,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadIgnoreFile compiles a gitignore-style file. An empty path yields nil.
func LoadIgnoreFile(path string) (*ignore.GitIgnore, error) {
	if path == "" {
		return nil, nil
	}
	return ignore.CompileIgnoreFile(path)
}

// Vocabulary returns the vocabulary scans are counted against.
func (s *Scanner) Vocabulary() keywords.Vocabulary {
	return s.counter.Vocabulary()
}

// Matches reports whether a file name is selected for counting.
func (s *Scanner) Matches(name string) bool {
	return strings.HasSuffix(name, s.extension)
}

// Scan walks root and returns counts seeded at zero for every keyword.
// A symlinked root is followed; symlinks below it are not. Unreadable
// entries are skipped. A missing root, an empty one or a root that is not
// a directory yields all zeros.
func (s *Scanner) Scan(root string) (keywords.Counts, Stats) {
	start := time.Now()
	counts := s.counter.Vocabulary().NewCounts()
	var st Stats

	resolved, err := filepath.EvalSymlinks(root)
	var info fs.FileInfo
	if err == nil {
		info, err = os.Stat(resolved)
	}
	if err != nil {
		s.logger.Debug("skipping unreadable root", "path", root, "error", err)
		st.Skipped = append(st.Skipped, root)
		st.Duration = time.Since(start)
		return counts, st
	}
	if !info.IsDir() {
		s.logger.Debug("root is not a directory", "path", root)
		st.Duration = time.Since(start)
		return counts, st
	}
	root = resolved

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Debug("skipping unreadable entry", "path", path, "error", err)
			st.Skipped = append(st.Skipped, path)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path != root && s.ignored(root, path) {
			st.Ignored++
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() || !s.Matches(d.Name()) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			s.logger.Debug("skipping unreadable file", "path", path, "error", err)
			st.Skipped = append(st.Skipped, path)
			return nil
		}
		s.counter.CountInto(keywords.Elide(string(content)), counts)
		st.FilesScanned++
		return nil
	})

	st.Duration = time.Since(start)
	return counts, st
}

func (s *Scanner) ignored(root, path string) bool {
	if s.ignore == nil {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return s.ignore.MatchesPath(filepath.ToSlash(rel))
}
