package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yoanbernabeu/keycount/records"
)

// maxParallel bounds how many project paths are processed at once.
const maxParallel = 4

var (
	saveJSON   bool
	updateJSON bool
	deleteJSON bool
)

// OperationResultJSON is the JSON output of save, update and delete.
type OperationResultJSON struct {
	Path     string `json:"path"`
	Record   string `json:"record,omitempty"`
	Location string `json:"location,omitempty"`
	Changed  bool   `json:"changed"`
	Error    string `json:"error,omitempty"`
}

var saveCmd = &cobra.Command{
	Use:   "save <path>...",
	Short: "Scan projects and save their keyword counts",
	Long: `Scan each project directory and save its keyword counts.

Saving never overwrites: when a record already exists for a project the
command reports it and leaves the record untouched. Use update to force a
fresh scan.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, args, saveJSON, (*records.Store).Save, describeSave)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <path>...",
	Short: "Rescan projects and replace their saved counts",
	Long: `Delete the existing record of each project and save a fresh full scan.
Fails for projects that have no record yet.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, args, updateJSON, (*records.Store).Update, describeUpdate)
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <path>...",
	Aliases: []string{"rm"},
	Short:   "Delete the saved counts of projects",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, args, deleteJSON, (*records.Store).Delete, describeDelete)
	},
}

func init() {
	saveCmd.Flags().BoolVarP(&saveJSON, "json", "j", false, "Output results in JSON format")
	updateCmd.Flags().BoolVarP(&updateJSON, "json", "j", false, "Output results in JSON format")
	deleteCmd.Flags().BoolVarP(&deleteJSON, "json", "j", false, "Output results in JSON format")
	rootCmd.AddCommand(saveCmd, updateCmd, deleteCmd)
}

type operation func(s *records.Store, ctx context.Context, path string) (bool, error)

type describer func(path, location string, changed bool) string

// runOperation applies op to every path, at most maxParallel at a time.
// Paths that map to the same record are rejected before anything runs,
// since the store does not serialize operations on one record.
func runOperation(cmd *cobra.Command, paths []string, asJSON bool, op operation, describe describer) error {
	if err := checkDistinctRecords(paths); err != nil {
		return err
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx := cmd.Context()

	results := make([]OperationResultJSON, len(paths))
	g := new(errgroup.Group)
	g.SetLimit(maxParallel)
	for i, p := range paths {
		g.Go(func() error {
			changed, err := op(sess.records, ctx, p)
			results[i] = OperationResultJSON{Path: p, Changed: changed}
			if name, nerr := records.RecordName(p); nerr == nil {
				results[i].Record = name
			}
			results[i].Location, _ = sess.records.Location(p)
			if err != nil {
				results[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	out := cmd.OutOrStdout()
	if asJSON {
		if err := writeJSON(out, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Error != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", r.Path, r.Error)
				continue
			}
			fmt.Fprintln(out, describe(r.Path, r.Location, r.Changed))
		}
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d operations failed", failed, len(paths))
	}
	return nil
}

func checkDistinctRecords(paths []string) error {
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		name, err := records.RecordName(p)
		if err != nil {
			return fmt.Errorf("%q: %w", p, err)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%q and %q share the record %s; run them separately", prev, p, name)
		}
		seen[name] = p
	}
	return nil
}

func describeSave(path, location string, changed bool) string {
	if changed {
		return fmt.Sprintf("Saved keyword counts for %s to %s", path, location)
	}
	return fmt.Sprintf("Record already exists for %s at %s (use update to rescan)", path, location)
}

func describeUpdate(path, location string, changed bool) string {
	if changed {
		return fmt.Sprintf("Updated keyword counts for %s in %s", path, location)
	}
	return fmt.Sprintf("Record for %s was recreated concurrently, left as is", path)
}

func describeDelete(path, location string, changed bool) string {
	if changed {
		return fmt.Sprintf("Deleted %s", location)
	}
	return fmt.Sprintf("No record for %s", path)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// isNotFound reports whether err means the record is missing.
func isNotFound(err error) bool {
	return errors.Is(err, records.ErrNotFound)
}
