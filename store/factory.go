package store

import "fmt"

// SqliteFileName is the database file created under the data prefix by the
// sqlite backend.
const SqliteFileName = "keycount.db"

// New creates a Backend based on the backend name.
//
// Supported backends:
//
//	"file"   - one flat keyword=count file per record (default)
//	"sqlite" - SQLite database at <prefix>keycount.db
//	"memory" - In-memory (ephemeral, for testing)
func New(backend, prefix string) (Backend, error) {
	switch backend {
	case "file", "":
		return NewFileStore(prefix)
	case "sqlite":
		return NewSqliteStore(prefix + SqliteFileName)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: file, sqlite, memory)", backend)
	}
}
