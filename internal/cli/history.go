package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andy/focusflow/internal/domain"
	"github.com/andy/focusflow/internal/report"
	"github.com/andy/focusflow/internal/service"
	"github.com/spf13/cobra"
)

const barWidth = 40

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and edit completed sessions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List completed sessions in a view",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := buildReport(cmd)
		if err != nil {
			return err
		}

		fmt.Println(r.Title)
		if len(r.Items) == 0 {
			fmt.Println("No sessions in this period")
			return nil
		}

		fmt.Printf("%-10s %-17s %-30s %-8s\n", "ID", "Completed", "Title", "Duration")
		for _, h := range r.Items {
			fmt.Printf("%-10s %-17s %-30s %-8s\n",
				shortID(h.ID),
				h.CompletedAt.In(appInstance.Location).Format("2006-01-02 15:04"),
				truncate(h.Title, 30),
				report.FormatShort(h.Duration),
			)
		}
		fmt.Printf("\nTotal: %s across %d sessions\n", report.FormatShort(r.Total), len(r.Items))
		return nil
	},
}

var historyReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Chart focus time per day, week or month",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, state, err := buildReport(cmd)
		if err != nil {
			return err
		}

		fmt.Println(r.Title)
		fmt.Println()
		selected := report.SelectedBucket(state)
		for _, p := range r.Series.Points {
			marker := " "
			if selected != nil && selected.Equal(p.BucketStart) {
				marker = ">"
			}
			fmt.Printf("%s %-7s %-*s %s\n", marker, p.Label, barWidth, bar(p.Total, r.Series.Max, barWidth), report.FormatShort(p.Total))
		}
		fmt.Printf("\nTotal: %s\n", report.FormatShort(r.Total))
		return nil
	},
}

var historyEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit the title, completion time or duration of a session",
	Long: `Edit a completed session. Every session sharing the id is updated, since
ids are copied from timers and may repeat after imports.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ws := workspace()

		id, err := matchHistoryID(ws.History.List(ctx), args[0])
		if err != nil {
			return err
		}

		var edit domain.HistoryEdit
		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			edit.Title = &title
		}
		if cmd.Flags().Changed("completed") {
			s, _ := cmd.Flags().GetString("completed")
			completed, err := parseWhen(s, appInstance.Location)
			if err != nil {
				return err
			}
			edit.CompletedAt = &completed
		}
		if cmd.Flags().Changed("duration") {
			d, _ := cmd.Flags().GetDuration("duration")
			edit.Duration = &d
		}
		if edit.Title == nil && edit.CompletedAt == nil && edit.Duration == nil {
			return errors.New("nothing to edit: pass --title, --completed or --duration")
		}

		if err := ws.History.Update(ctx, id, edit); err != nil {
			return fmt.Errorf("failed to edit session: %w", err)
		}

		items := ws.History.Find(ctx, id)
		fmt.Printf("✓ Updated %d session(s)\n", len(items))
		for _, h := range items {
			fmt.Printf("  %s  %s  %s\n", h.CompletedAt.In(appInstance.Location).Format("2006-01-02 15:04"), report.FormatShort(h.Duration), h.Title)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historyReportCmd} {
		c.Flags().String("view", "", "7, 14, 30, year, month:YYYY-MM or week:YYYY-MM-DD (default from config)")
		c.Flags().String("day", "", "narrow a daily view to one day (YYYY-MM-DD)")
	}
	historyEditCmd.Flags().String("title", "", "new title")
	historyEditCmd.Flags().String("completed", "", "new completion time (RFC3339 or \"2006-01-02 15:04\")")
	historyEditCmd.Flags().Duration("duration", 0, "new duration, e.g. 1h30m")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyReportCmd)
	historyCmd.AddCommand(historyEditCmd)
}

func buildReport(cmd *cobra.Command) (service.Report, report.State, error) {
	view, _ := cmd.Flags().GetString("view")
	if view == "" {
		view = fmt.Sprint(appInstance.Config.Display.DefaultPreset)
	}

	state, err := parseView(view, appInstance.Location)
	if err != nil {
		return service.Report{}, nil, err
	}
	if day, _ := cmd.Flags().GetString("day"); day != "" {
		if state, err = selectDay(state, day, appInstance.Location); err != nil {
			return service.Report{}, nil, err
		}
	}

	return workspace().Reports.Build(cmd.Context(), state), state, nil
}

// bar renders total scaled against peak into at most width cells
func bar(total, peak time.Duration, width int) string {
	if peak <= 0 {
		return ""
	}
	n := int(int64(width) * int64(total) / int64(peak))
	return strings.Repeat("█", n)
}
