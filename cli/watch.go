package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yoanbernabeu/keycount/watcher"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <path>",
	Short: "Keep a project's record current while its sources change",
	Long: `Save the project once if it has no record, then watch its source files
and run update after every burst of changes. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "Quiet period before a rescan")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	saved, err := sess.records.Save(ctx, path)
	if err != nil {
		return err
	}
	location, _ := sess.records.Location(path)
	out := cmd.OutOrStdout()
	if saved {
		fmt.Fprintln(out, describeSave(path, location, true))
	}
	fmt.Fprintf(out, "Watching %s (record %s)\n", path, location)

	w := watcher.New(path, sess.cfg.Extension, watchDebounce, func(ctx context.Context) error {
		_, err := sess.records.Update(ctx, path)
		return err
	})
	return w.Run(ctx)
}
