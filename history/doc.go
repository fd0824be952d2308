// Package history keeps an append-only log of record-store operations.
// Each save, get, update and delete is written as one NDJSON line next to
// the records, and the log can be summarized per operation or per day.
package history
