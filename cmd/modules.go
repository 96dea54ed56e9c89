package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mcqquiz/internal/quiz"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List available modules with saved progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := open(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		mods, err := questionSource(rt).FetchModules(ctx)
		if err != nil {
			return fmt.Errorf("fetch modules: %w", err)
		}
		progress, err := rt.store.AllProgress(ctx)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		mods = quiz.AnnotateProgress(mods, progress)

		if len(mods) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No modules found.")
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-24s  %-32s  %-8s  %s\n", "ID", "Title", "Version", "Progress")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, m := range mods {
			status := "-"
			if p := m.Progress; p != nil {
				status = fmt.Sprintf("%d/%d", p.Correct, p.Total)
				if p.Completed {
					status += " ✓"
				}
			}
			fmt.Fprintf(out, "%-24s  %-32s  %-8s  %s\n", truncate(m.Key(), 24), truncate(m.Title, 32), m.Version, status)
		}
		return nil
	},
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
