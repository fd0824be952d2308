package history

import "path/filepath"

// Operation is the record-store operation that produced an entry.
type Operation = string

const (
	Save   Operation = "save"
	Get    Operation = "get"
	Update Operation = "update"
	Delete Operation = "delete"
)

// Outcome is what the operation did to the record.
type Outcome = string

const (
	Created Outcome = "created" // save wrote a new record
	Exists  Outcome = "exists"  // save refused, a record was already there
	Read    Outcome = "read"    // get returned the record
	Updated Outcome = "updated" // update rescanned and rewrote the record
	Deleted Outcome = "deleted" // delete removed the record
	Missing Outcome = "missing" // no record for the path
	Failed  Outcome = "failed"  // the operation returned an error
)

// FileName is the name of the NDJSON history file inside the data dir.
const FileName = "keycount_history.json"

// LockFileName is the name of the lock file used for safe concurrent writes.
const LockFileName = "keycount_history.json.lock"

// Entry represents a single recorded operation.
type Entry struct {
	ID           string `json:"id"`
	Timestamp    string `json:"timestamp"` // RFC3339 UTC
	Operation    string `json:"operation"`
	Project      string `json:"project"`
	Record       string `json:"record"`
	Outcome      string `json:"outcome"`
	FilesScanned int    `json:"files_scanned"`
	Occurrences  int    `json:"occurrences"` // sum of keyword counts involved
	Error        string `json:"error,omitempty"`
}

// Summary is the aggregated view of all recorded entries.
type Summary struct {
	TotalOperations int            `json:"total_operations"`
	Projects        int            `json:"projects"`
	FilesScanned    int            `json:"files_scanned"`
	Occurrences     int            `json:"occurrences"`
	ByOperation     map[string]int `json:"by_operation"`
	ByOutcome       map[string]int `json:"by_outcome"`
}

// DaySummary holds per-day aggregated stats for the --history view.
type DaySummary struct {
	Date         string `json:"date"`
	Operations   int    `json:"operations"`
	Scans        int    `json:"scans"`
	FilesScanned int    `json:"files_scanned"`
}

// Path returns the history file path inside dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// LockPath returns the lock file path inside dataDir.
func LockPath(dataDir string) string {
	return filepath.Join(dataDir, LockFileName)
}
