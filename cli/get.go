package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alpkeskin/gotoon"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yoanbernabeu/keycount/keywords"
)

var (
	getJSON bool
	getTOON bool
	getSort string
)

// GetResultJSON is the JSON and TOON output of the get command.
type GetResultJSON struct {
	Path     string           `json:"path"`
	Location string           `json:"location"`
	Total    int              `json:"total"`
	Keywords []keywords.Entry `json:"keywords"`
}

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Show the saved keyword counts of a project",
	Long: `Show the keyword counts saved for a project.

Only keywords that occurred at least once are stored, so a keyword missing
from the output has a count of zero.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().BoolVarP(&getJSON, "json", "j", false, "Output results in JSON format")
	getCmd.Flags().BoolVarP(&getTOON, "toon", "t", false, "Output results in TOON format")
	getCmd.Flags().StringVarP(&getSort, "sort", "s", "count", "Sort order: count or name")
	getCmd.MarkFlagsMutuallyExclusive("json", "toon")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	path := args[0]
	if getSort != "count" && getSort != "name" {
		return fmt.Errorf("invalid --sort value %q (use count or name)", getSort)
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	counts, err := sess.records.Get(cmd.Context(), path)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w (run: keycount save %s)", err, path)
		}
		return err
	}

	location, _ := sess.records.Location(path)
	result := GetResultJSON{
		Path:     path,
		Location: location,
		Total:    counts.Total(),
		Keywords: sortEntries(counts, getSort),
	}

	out := cmd.OutOrStdout()
	switch {
	case getJSON:
		return writeJSON(out, result)
	case getTOON:
		return writeTOON(out, result)
	default:
		return outputGetHuman(out, result)
	}
}

func sortEntries(counts keywords.Counts, order string) []keywords.Entry {
	entries := counts.Sorted()
	if order == "name" {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Keyword < entries[j].Keyword
		})
	}
	return entries
}

func writeTOON(w io.Writer, v any) error {
	output, err := gotoon.Encode(v)
	if err != nil {
		return fmt.Errorf("failed to encode TOON: %w", err)
	}
	_, err = fmt.Fprintln(w, output)
	return err
}

// outputGetHuman renders the counts as a styled table with a bar per keyword.
func outputGetHuman(w io.Writer, r GetResultJSON) error {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(16)
	numStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true).Width(8).Align(lipgloss.Right)
	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("62"))

	fmt.Fprintln(w, headerStyle.Render("Keyword counts for "+r.Path))
	fmt.Fprintln(w, dimStyle.Render(r.Location))
	fmt.Fprintln(w)

	if len(r.Keywords) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No keywords found."))
		return nil
	}

	top := 0
	for _, e := range r.Keywords {
		if e.Count > top {
			top = e.Count
		}
	}
	const barWidth = 30
	for _, e := range r.Keywords {
		n := 0
		if top > 0 {
			n = max(e.Count*barWidth/top, 1)
		}
		bar := strings.Repeat("█", n)
		fmt.Fprintln(w, keyStyle.Render(e.Keyword)+numStyle.Render(formatInt(e.Count))+"  "+barStyle.Render(bar))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d keywords, %s occurrences", len(r.Keywords), formatInt(r.Total))))
	return nil
}

func formatInt(n int) string {
	if n == 0 {
		return "0"
	}
	s := fmt.Sprintf("%d", n)
	result := ""
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
