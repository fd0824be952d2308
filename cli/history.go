package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yoanbernabeu/keycount/history"
)

var (
	historyJSON  bool
	historyDaily bool
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the log of save, get, update and delete operations",
	Long: `Display a summary of the record operations run against the data
directory.

Every save, get, update and delete appends an entry to
keycount_history.json next to the records (disable with
history.enabled: false). This command aggregates those entries.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolVarP(&historyJSON, "json", "j", false, "Output results in JSON format")
	historyCmd.Flags().BoolVar(&historyDaily, "history", false, "Show per-day history breakdown")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 30, "Max days shown with --history")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	out := cmd.OutOrStdout()

	entries, err := history.ReadAll(history.Path(cfg.DataDir()))
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No operations recorded yet.")
		fmt.Fprintln(out, "Run keycount save <path> to start.")
		return nil
	}

	summary := history.Summarize(entries)

	if historyJSON {
		return outputHistoryJSON(out, summary, entries)
	}
	outputHistoryHuman(out, summary, entries)
	return nil
}

// outputHistoryJSON renders the summary (and optional per-day breakdown) as JSON.
func outputHistoryJSON(w io.Writer, summary history.Summary, entries []history.Entry) error {
	if !historyDaily {
		return writeJSON(w, summary)
	}

	out := struct {
		Summary history.Summary      `json:"summary"`
		History []history.DaySummary `json:"history"`
	}{
		Summary: summary,
		History: limitDays(history.HistoryByDay(entries)),
	}
	return writeJSON(w, out)
}

func limitDays(days []history.DaySummary) []history.DaySummary {
	if historyLimit > 0 && len(days) > historyLimit {
		return days[:historyLimit]
	}
	return days
}

// outputHistoryHuman renders the summary using lipgloss styles.
func outputHistoryHuman(w io.Writer, summary history.Summary, entries []history.Entry) {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(22)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2)

	content := headerStyle.Render("keycount history") + "\n\n"

	content += labelStyle.Render("Operations") + valueStyle.Render(formatInt(summary.TotalOperations)) + "\n"
	content += labelStyle.Render("Projects") + valueStyle.Render(formatInt(summary.Projects)) + "\n"
	content += labelStyle.Render("Files scanned") + valueStyle.Render(formatInt(summary.FilesScanned)) + "\n"
	content += labelStyle.Render("Keyword occurrences") + valueStyle.Render(formatInt(summary.Occurrences)) + "\n"

	content += "\n"
	opLine := "By operation:  "
	for _, k := range []string{history.Save, history.Get, history.Update, history.Delete} {
		if v := summary.ByOperation[k]; v > 0 {
			opLine += fmt.Sprintf("%s %d · ", k, v)
		}
	}
	content += dimStyle.Render(trimSuffix(opLine, " · ")) + "\n"

	outcomeLine := "By outcome:    "
	for _, k := range []string{history.Created, history.Exists, history.Read, history.Updated, history.Deleted, history.Missing, history.Failed} {
		if v := summary.ByOutcome[k]; v > 0 {
			outcomeLine += fmt.Sprintf("%s %d · ", k, v)
		}
	}
	content += dimStyle.Render(trimSuffix(outcomeLine, " · ")) + "\n"

	fmt.Fprintln(w, boxStyle.Render(content))

	if historyDaily {
		printHistoryTable(w, entries, dimStyle, valueStyle)
	}
}

func printHistoryTable(w io.Writer, entries []history.Entry, dimStyle, valueStyle lipgloss.Style) {
	days := limitDays(history.HistoryByDay(entries))

	colDate := lipgloss.NewStyle().Width(14)
	colNum := lipgloss.NewStyle().Width(12)

	header := dimStyle.Render(
		colDate.Render("Date") +
			colNum.Render("Operations") +
			colNum.Render("Scans") +
			colNum.Render("Files"),
	)
	sep := dimStyle.Render(fmt.Sprintf("%-14s%-12s%-12s%-12s", "─────────────", "───────────", "───────────", "───────────"))
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, sep)

	for _, d := range days {
		row := colDate.Render(d.Date) +
			colNum.Render(formatInt(d.Operations)) +
			colNum.Render(formatInt(d.Scans)) +
			colNum.Render(formatInt(d.FilesScanned))
		fmt.Fprintln(w, valueStyle.Render(row))
	}
}

func trimSuffix(s, suffix string) string {
	if len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix {
		return s[:len(s)-len(suffix)]
	}
	return s
}
