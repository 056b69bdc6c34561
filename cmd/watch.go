package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/packscheduler/internal/log"
	"github.com/zjrosen/packscheduler/internal/presentation"
	"github.com/zjrosen/packscheduler/internal/watcher"
)

var (
	watchDebounce time.Duration
	watchLogs     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload records when they change and print seat counts",
	Long: `Watch the course, student and faculty record files. Whenever one of them
changes the whole term is reloaded and the catalog with seat counts is
printed. Stop with Ctrl+C.

Examples:
  packsched watch --format table

  # Also tail the log on stderr
  packsched watch --logs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if watchLogs {
			tailLogs(ctx, cmd.ErrOrStderr())
		}

		env, err := openTerm(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		records := env.records()
		w, err := watcher.New(watchDebounce, records.Courses, records.Students, records.Faculty)
		if err != nil {
			return err
		}
		changes, err := w.Run(ctx)
		if err != nil {
			return err
		}

		formatter := presentation.NewFormatter(cmd.OutOrStdout(), outFormat)
		show := func() error {
			return formatter.FormatCourses(presentation.FromDomainCourses(env.manager.Catalog().Courses()))
		}
		if err := show(); err != nil {
			return err
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case change, ok := <-changes:
				if !ok {
					return nil
				}
				log.Info(log.CatWatcher, "Records changed", "files", change.Files, "removed", change.Removed)
				if len(change.Removed) > 0 {
					cmd.PrintErrf("record files removed, keeping current term: %v\n", change.Removed)
					continue
				}
				if err := env.manager.LoadRecords(ctx, records); err != nil {
					// Keep watching; the next write usually fixes a half-saved file.
					log.ErrorErr(log.CatWatcher, "Reload failed", err)
					cmd.PrintErrf("reload failed: %v\n", err)
					continue
				}
				if err := show(); err != nil {
					return err
				}
			}
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "wait this long after the last write before reloading")
	watchCmd.Flags().BoolVar(&watchLogs, "logs", false, "print log lines to stderr")
	rootCmd.AddCommand(watchCmd)
}

// tailLogs copies log lines to w until ctx ends. Without --debug nothing is
// written to a file, so the lines only go to w.
func tailLogs(ctx context.Context, w io.Writer) {
	if !debugFlag && os.Getenv("PACKSCHED_DEBUG") == "" {
		log.InitWriter(io.Discard)
	}
	listener := log.NewListener(ctx)
	if listener == nil {
		return
	}
	go listener.Each(func(event log.LogEvent) bool {
		_, _ = fmt.Fprint(w, event.Payload)
		return true
	})
}
