package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ReadAll reads all entries from the history file at path.
// Malformed lines are skipped with a warning to stderr.
// Returns an empty slice (not an error) when the file does not exist.
func ReadAll(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("history: open: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			fmt.Fprintf(os.Stderr, "history: skipping malformed line %d: %v\n", lineNum, err)
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return entries, fmt.Errorf("history: read: %w", err)
	}
	return entries, nil
}

// Summarize aggregates entries into a Summary.
func Summarize(entries []Entry) Summary {
	s := Summary{
		ByOperation: map[string]int{
			Save:   0,
			Get:    0,
			Update: 0,
			Delete: 0,
		},
		ByOutcome: map[string]int{},
	}

	projects := map[string]bool{}
	for _, e := range entries {
		s.TotalOperations++
		s.FilesScanned += e.FilesScanned
		s.Occurrences += e.Occurrences
		s.ByOperation[e.Operation]++
		s.ByOutcome[e.Outcome]++
		if e.Project != "" {
			projects[e.Project] = true
		}
	}
	s.Projects = len(projects)
	return s
}

// HistoryByDay groups entries by calendar day (UTC) and returns a slice
// sorted in descending order (most recent first). A scan is an operation
// that walked a tree: a created save or an update.
func HistoryByDay(entries []Entry) []DaySummary {
	byDate := map[string]*DaySummary{}

	for _, e := range entries {
		day := "unknown"
		if len(e.Timestamp) >= 10 {
			day = e.Timestamp[:10] // "YYYY-MM-DD"
		}
		d, ok := byDate[day]
		if !ok {
			d = &DaySummary{Date: day}
			byDate[day] = d
		}
		d.Operations++
		d.FilesScanned += e.FilesScanned
		if e.Outcome == Created || e.Outcome == Updated {
			d.Scans++
		}
	}

	days := make([]DaySummary, 0, len(byDate))
	for _, d := range byDate {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date > days[j].Date
	})
	return days
}
