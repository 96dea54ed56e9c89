package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mcqquiz/internal/store"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show saved progress and recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		rt, err := open(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		progress, err := rt.store.AllProgress(ctx)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		if len(progress) == 0 {
			fmt.Fprintln(out, "No progress saved yet.")
		} else {
			fmt.Fprintf(out, "%-32s  %-9s  %-6s  %-9s  %s\n", "Module", "Score", "Pages", "Completed", "Updated")
			fmt.Fprintln(out, strings.Repeat("─", 80))
			for _, p := range progress {
				done := "no"
				if p.Completed {
					done = "yes"
				}
				fmt.Fprintf(out, "%-32s  %-9s  %-6d  %-9s  %s\n",
					truncate(p.ModuleID, 32),
					fmt.Sprintf("%d/%d", p.Correct, p.Total),
					p.PagesVisited,
					done,
					p.UpdatedAt.Local().Format("2006-01-02 15:04"),
				)
			}
		}

		sessions, err := rt.store.EventRepo().QuerySessions(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(sessions) == 0 {
			return nil
		}

		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-16s  %-32s  %-9s  %-7s  %s\n", "Finished", "Module", "Score", "Skipped", "Streak")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, s := range sessions {
			title := s.ModuleTitle
			if title == "" {
				title = s.ModuleID
			}
			fmt.Fprintf(out, "%-16s  %-32s  %-9s  %-7d  %d\n",
				s.FinishedAt.Local().Format("2006-01-02 15:04"),
				truncate(title, 32),
				fmt.Sprintf("%d/%d", s.Correct, s.Total),
				s.Skipped,
				s.LongestStreak,
			)
		}
		return nil
	},
}

func init() {
	progressCmd.Flags().Int("limit", 10, "Number of recent sessions to show")
}
