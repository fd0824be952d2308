package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yoanbernabeu/keycount/history"
)

// run executes the root command with args and returns stdout. Flag values
// live in package variables, so they are reset before every run.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// setup returns a project with one source file and the global flags that
// point the CLI at a private data directory.
func setup(t *testing.T) (project string, global []string) {
	t.Helper()
	root := t.TempDir()
	project = filepath.Join(root, "demo")
	if err := os.MkdirAll(project, 0o755); err != nil {
		t.Fatal(err)
	}
	src := "public class A { public void run() { int x; } }"
	if err := os.WriteFile(filepath.Join(project, "A.java"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	dataDir := filepath.Join(root, "data") + string(filepath.Separator)
	global = []string{
		"--config", filepath.Join(root, "missing.yaml"),
		"--data-dir", dataDir,
		"--log-level", "error",
	}
	return project, global
}

// ---- commands ----

func TestSaveGetDelete(t *testing.T) {
	project, global := setup(t)
	dataDir := global[3]

	out, err := run(t, append([]string{"save", project}, global...)...)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.Contains(out, "Saved keyword counts") {
		t.Errorf("save output = %q", out)
	}

	data, err := os.ReadFile(dataDir + "demo_keywords.txt")
	if err != nil {
		t.Fatal(err)
	}
	if want := "class=1\nint=1\npublic=2\nvoid=1\n"; string(data) != want {
		t.Errorf("record = %q, want %q", data, want)
	}

	out, err = run(t, append([]string{"save", project}, global...)...)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if !strings.Contains(out, "already exists") {
		t.Errorf("second save output = %q", out)
	}

	out, err = run(t, append([]string{"get", project, "--json"}, global...)...)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var got GetResultJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("get output is not JSON: %v\n%s", err, out)
	}
	if got.Total != 5 || len(got.Keywords) != 4 {
		t.Errorf("get = %+v", got)
	}
	if got.Keywords[0].Keyword != "public" || got.Keywords[0].Count != 2 {
		t.Errorf("first entry = %+v, want public=2", got.Keywords[0])
	}

	out, err = run(t, append([]string{"delete", project}, global...)...)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(out, "Deleted") {
		t.Errorf("delete output = %q", out)
	}
	if _, err := os.Stat(dataDir + "demo_keywords.txt"); !os.IsNotExist(err) {
		t.Errorf("record still present: %v", err)
	}

	if _, err := run(t, append([]string{"get", project}, global...)...); err == nil {
		t.Error("get after delete should fail")
	}
}

func TestUpdateWithoutRecord(t *testing.T) {
	project, global := setup(t)
	if _, err := run(t, append([]string{"update", project}, global...)...); err == nil {
		t.Fatal("expected update of a missing record to fail")
	}
}

func TestGet_InvalidSort(t *testing.T) {
	project, global := setup(t)
	if _, err := run(t, append([]string{"get", project, "--sort", "size"}, global...)...); err == nil {
		t.Fatal("expected an error for --sort size")
	}
}

func TestHistory_RecordsOperations(t *testing.T) {
	project, global := setup(t)
	for _, op := range []string{"save", "get", "delete"} {
		if _, err := run(t, append([]string{op, project}, global...)...); err != nil {
			t.Fatalf("%s: %v", op, err)
		}
	}

	out, err := run(t, append([]string{"history", "--json"}, global...)...)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var summary history.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("history output is not JSON: %v\n%s", err, out)
	}
	if summary.TotalOperations != 3 {
		t.Errorf("TotalOperations = %d, want 3", summary.TotalOperations)
	}
	if summary.ByOperation[history.Save] != 1 || summary.ByOutcome[history.Deleted] != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "keycount ") {
		t.Errorf("version output = %q", out)
	}
}

// ---- helpers ----

func TestCheckDistinctRecords(t *testing.T) {
	tests := []struct {
		name    string
		paths   []string
		wantErr bool
	}{
		{"distinct", []string{"/a/app", "/a/lib"}, false},
		{"same segment", []string{"/a/app", "/b/app"}, true},
		{"trailing separator", []string{"/a/app", "/a/app/"}, true},
		{"empty path", []string{""}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkDistinctRecords(tt.paths)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkDistinctRecords(%v) error = %v, wantErr %v", tt.paths, err, tt.wantErr)
			}
		})
	}
}

func TestFormatInt(t *testing.T) {
	tests := map[int]string{0: "0", 7: "7", 999: "999", 1000: "1,000", 1234567: "1,234,567"}
	for n, want := range tests {
		if got := formatInt(n); got != want {
			t.Errorf("formatInt(%d) = %q, want %q", n, got, want)
		}
	}
}
