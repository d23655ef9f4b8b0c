package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andy/focusflow/internal/clock"
	"github.com/andy/focusflow/internal/domain"
	"github.com/andy/focusflow/internal/report"
	"github.com/spf13/cobra"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Manage active timers",
	Long: `Add, start, stop, edit and complete timers. Only one timer runs at a time;
starting one pauses the others.

Timers are referenced by full id, unique id prefix or list position.`,
}

var timerAddCmd = &cobra.Command{
	Use:   "add <title...>",
	Short: "Add a timer and start it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		t, err := workspace().Timers.Add(ctx, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("failed to add timer: %w", err)
		}

		fmt.Printf("✓ Timer started: %s\n", t.Title)
		fmt.Printf("  ID: %s\n", t.ID)
		return nil
	},
}

var timerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List timers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		timers := workspace().Timers.List(ctx)

		if len(timers) == 0 {
			fmt.Println("No timers. Add one with 'focusflow timer add <title>'")
			return nil
		}

		now := workspace().Timers.Now()
		fmt.Printf("%-3s %-10s %-30s %-9s %-10s\n", "#", "ID", "Title", "State", "Elapsed")
		for i, t := range timers {
			state := string(t.State())
			if t.IsMinimized {
				state += "*"
			}
			fmt.Printf("%-3d %-10s %-30s %-9s %-10s\n",
				i+1,
				shortID(t.ID),
				truncate(t.Title, 30),
				state,
				report.FormatClock(t.Elapsed(now)),
			)
		}
		return nil
	},
}

// timerAction builds a command applying op to one referenced timer
func timerAction(use, short, done string, op func(ctx context.Context, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <timer>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			t, err := resolveTimer(ctx, args[0])
			if err != nil {
				return err
			}
			if err := op(ctx, t.ID); err != nil {
				return fmt.Errorf("failed to %s timer: %w", use, err)
			}

			fmt.Printf("✓ %s: %s\n", done, t.Title)
			return nil
		},
	}
}

var (
	timerStartCmd = timerAction("start", "Start a timer, pausing the running one", "Timer started",
		func(ctx context.Context, id string) error { return workspace().Timers.Start(ctx, id) })
	timerStopCmd = timerAction("stop", "Pause a timer", "Timer paused",
		func(ctx context.Context, id string) error { return workspace().Timers.Stop(ctx, id) })
	timerToggleCmd = timerAction("toggle", "Start a paused timer or pause a running one", "Timer toggled",
		func(ctx context.Context, id string) error { return workspace().Timers.Toggle(ctx, id) })
	timerMinimizeCmd = timerAction("minimize", "Move a timer to the minimized section", "Timer minimized",
		func(ctx context.Context, id string) error { return workspace().Timers.Minimize(ctx, id) })
	timerRestoreCmd = timerAction("restore", "Bring a minimized timer back", "Timer restored",
		func(ctx context.Context, id string) error { return workspace().Timers.Restore(ctx, id) })
)

func archiveCommand(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <timer>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			t, err := resolveTimer(ctx, args[0])
			if err != nil {
				return err
			}
			item, err := workspace().Timers.Delete(ctx, t.ID)
			if err != nil {
				return fmt.Errorf("failed to %s timer: %w", use, err)
			}

			fmt.Printf("✓ Timer removed: %s\n", t.Title)
			if item == nil {
				fmt.Printf("  Not archived (%s or less)\n", report.FormatClock(domain.MinArchiveDuration))
				return nil
			}
			fmt.Printf("  Archived: %s, completed %s\n", report.FormatClock(item.Duration), item.CompletedAt.In(appInstance.Location).Format("2006-01-02 15:04"))
			return nil
		},
	}
}

var (
	timerCompleteCmd = archiveCommand("complete", "Finish a timer and archive it to history")
	timerDeleteCmd   = archiveCommand("delete", "Remove a timer, archiving it when it ran long enough")
)

var timerEditCmd = &cobra.Command{
	Use:   "edit <timer>",
	Short: "Edit a timer's title, start time or elapsed time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		t, err := resolveTimer(ctx, args[0])
		if err != nil {
			return err
		}

		var edit domain.TimerEdit
		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			edit.Title = &title
		}
		if cmd.Flags().Changed("started") {
			s, _ := cmd.Flags().GetString("started")
			started, err := parseWhen(s, appInstance.Location)
			if err != nil {
				return err
			}
			edit.CreatedAt = &started
		}
		if cmd.Flags().Changed("elapsed") {
			elapsed, _ := cmd.Flags().GetDuration("elapsed")
			edit.Accumulated = &elapsed
		}
		if edit.IsEmpty() {
			return errors.New("nothing to edit: pass --title, --started or --elapsed")
		}

		if err := workspace().Timers.Edit(ctx, t.ID, edit); err != nil {
			return fmt.Errorf("failed to edit timer: %w", err)
		}

		updated, _ := workspace().Timers.Get(ctx, t.ID)
		fmt.Printf("✓ Timer updated: %s\n", updated.Title)
		fmt.Printf("  Started: %s\n", updated.CreatedAt.In(appInstance.Location).Format("2006-01-02 15:04"))
		fmt.Printf("  Elapsed: %s\n", report.FormatClock(updated.Elapsed(workspace().Timers.Now())))
		return nil
	},
}

var timerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		t := workspace().Timers.Running(ctx)
		if t == nil {
			fmt.Println("No running timer")
			return nil
		}

		fmt.Printf("Running: %s\n", t.Title)
		fmt.Printf("  ID: %s\n", t.ID)
		fmt.Printf("  Started: %s\n", t.CreatedAt.In(appInstance.Location).Format("2006-01-02 15:04:05"))
		fmt.Printf("  Elapsed: %s\n", report.FormatClock(t.Elapsed(workspace().Timers.Now())))
		return nil
	},
}

var timerWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the running timer's elapsed time live until it stops",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ws := workspace()

		t := ws.Timers.Running(ctx)
		if t == nil {
			fmt.Println("No running timer")
			return nil
		}
		id, title := t.ID, t.Title

		err := clock.Refresh(ctx, appInstance.Clock, appInstance.Config.Display.RefreshInterval, func(now time.Time) bool {
			// another process may have stopped it
			ws.Store.Reload(ctx)
			cur, err := ws.Timers.Get(ctx, id)
			if err != nil || !cur.IsRunning {
				return false
			}
			fmt.Printf("\r%s  %s ", report.FormatClock(cur.Elapsed(now)), title)
			return true
		})
		fmt.Println()
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	timerEditCmd.Flags().String("title", "", "new title")
	timerEditCmd.Flags().String("started", "", "new start time (RFC3339 or \"2006-01-02 15:04\")")
	timerEditCmd.Flags().Duration("elapsed", 0, "new elapsed time, e.g. 1h30m")

	timerCmd.AddCommand(timerAddCmd)
	timerCmd.AddCommand(timerListCmd)
	timerCmd.AddCommand(timerStartCmd)
	timerCmd.AddCommand(timerStopCmd)
	timerCmd.AddCommand(timerToggleCmd)
	timerCmd.AddCommand(timerMinimizeCmd)
	timerCmd.AddCommand(timerRestoreCmd)
	timerCmd.AddCommand(timerCompleteCmd)
	timerCmd.AddCommand(timerDeleteCmd)
	timerCmd.AddCommand(timerEditCmd)
	timerCmd.AddCommand(timerStatusCmd)
	timerCmd.AddCommand(timerWatchCmd)
}

// resolveTimer finds a timer of the active dataset by reference
func resolveTimer(ctx context.Context, ref string) (domain.Timer, error) {
	return matchTimer(workspace().Timers.List(ctx), ref)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
