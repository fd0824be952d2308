package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yoanbernabeu/keycount/keywords"
	"github.com/yoanbernabeu/keycount/store"
)

// runBackendTests runs a common test suite against any Backend implementation.
func runBackendTests(t *testing.T, s store.Backend) {
	t.Helper()
	ctx := context.Background()
	vocab := keywords.Java()

	t.Run("Exists missing", func(t *testing.T) {
		ok, err := s.Exists(ctx, "nothing_keywords.txt")
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Fatal("expected missing record")
		}
	})

	t.Run("Read missing", func(t *testing.T) {
		_, err := s.Read(ctx, "nothing_keywords.txt")
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Create and Read", func(t *testing.T) {
		counts := vocab.NewCounts()
		counts["public"] = 2
		counts["int"] = 1
		if err := s.Create(ctx, "a_keywords.txt", vocab, counts); err != nil {
			t.Fatal(err)
		}
		got, err := s.Read(ctx, "a_keywords.txt")
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 || got["public"] != 2 || got["int"] != 1 {
			t.Fatalf("unexpected record: %v", got)
		}
		if _, ok := got["class"]; ok {
			t.Fatal("zero-valued keyword was persisted")
		}
	})

	t.Run("Create refuses existing", func(t *testing.T) {
		counts := vocab.NewCounts()
		counts["void"] = 9
		err := s.Create(ctx, "a_keywords.txt", vocab, counts)
		if !errors.Is(err, store.ErrExists) {
			t.Fatalf("expected ErrExists, got %v", err)
		}
		got, err := s.Read(ctx, "a_keywords.txt")
		if err != nil {
			t.Fatal(err)
		}
		if got["void"] != 0 || got["public"] != 2 {
			t.Fatalf("existing record was modified: %v", got)
		}
	})

	t.Run("Empty record exists", func(t *testing.T) {
		if err := s.Create(ctx, "empty_keywords.txt", vocab, vocab.NewCounts()); err != nil {
			t.Fatal(err)
		}
		ok, err := s.Exists(ctx, "empty_keywords.txt")
		if err != nil || !ok {
			t.Fatalf("Exists = %v, %v; want true, nil", ok, err)
		}
		got, err := s.Read(ctx, "empty_keywords.txt")
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Fatalf("expected empty record, got %v", got)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		ok, err := s.Remove(ctx, "a_keywords.txt")
		if err != nil || !ok {
			t.Fatalf("Remove = %v, %v; want true, nil", ok, err)
		}
		ok, err = s.Remove(ctx, "a_keywords.txt")
		if err != nil || ok {
			t.Fatalf("second Remove = %v, %v; want false, nil", ok, err)
		}
		if _, err := s.Read(ctx, "a_keywords.txt"); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after Remove, got %v", err)
		}
	})
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewFileStore(dir + string(filepath.Separator))
	if err != nil {
		t.Fatal(err)
	}
	runBackendTests(t, s)
}

func TestMemoryStore(t *testing.T) {
	runBackendTests(t, store.NewMemoryStore())
}

func TestSqliteStore(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewSqliteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	runBackendTests(t, s)
}

func TestFileStore_Format(t *testing.T) {
	dir := t.TempDir()
	prefix := dir + string(filepath.Separator)
	s, err := store.NewFileStore(prefix)
	if err != nil {
		t.Fatal(err)
	}
	vocab := keywords.Java()
	counts := vocab.NewCounts()
	counts["void"] = 1
	counts["class"] = 1
	counts["public"] = 2
	if err := s.Create(context.Background(), "foo_keywords.txt", vocab, counts); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(prefix + "foo_keywords.txt")
	if err != nil {
		t.Fatal(err)
	}
	want := "class=1\npublic=2\nvoid=1\n"
	if string(data) != want {
		t.Fatalf("record = %q, want %q", data, want)
	}
}

func TestFileStore_PrefixConcatenation(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "nested", "rec_")
	s, err := store.NewFileStore(prefix)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Location("p_keywords.txt"); got != prefix+"p_keywords.txt" {
		t.Fatalf("Location = %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "nested")); err != nil {
		t.Fatalf("data dir not created: %v", err)
	}
}

func TestParseRecord(t *testing.T) {
	got, err := store.ParseRecord(strings.NewReader("int = 3\r\n\nclass=1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got["int"] != 3 || got["class"] != 1 || len(got) != 2 {
		t.Fatalf("unexpected parse: %v", got)
	}
}

func TestParseRecord_Malformed(t *testing.T) {
	for _, in := range []string{"int\n", "int=x\n", "=3\n", "int=-1\n", "class=1\nint=1.5\n"} {
		if _, err := store.ParseRecord(strings.NewReader(in)); !errors.Is(err, store.ErrParse) {
			t.Errorf("ParseRecord(%q) error = %v, want ErrParse", in, err)
		}
	}
}

func TestParseRecord_SplitsOnFirstEquals(t *testing.T) {
	_, err := store.ParseRecord(strings.NewReader("int=1=2\n"))
	if !errors.Is(err, store.ErrParse) {
		t.Fatalf("expected ErrParse for trailing '=', got %v", err)
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir() + string(filepath.Separator)
	for _, backend := range []string{"", "file", "memory", "sqlite"} {
		s, err := store.New(backend, dir)
		if err != nil {
			t.Fatalf("New(%q): %v", backend, err)
		}
		s.Close()
	}
	if _, err := store.New("postgres", dir); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
