package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklines/internal/output"
	"github.com/twiced-technology-gmbh/tasklines/internal/task"
	"github.com/twiced-technology-gmbh/tasklines/internal/vault"
)

var toggleCmd = &cobra.Command{
	Use:     "toggle FILE:LINE...",
	Aliases: []string{"done"},
	Short:   "Advance a task to its next status",
	Long: `Moves the task on each given line to its next status: todo becomes done,
in-progress becomes done, done becomes todo, cancelled becomes todo.

A plain list item becomes an open task. Done and cancelled dates are stamped
or retracted according to the settings, and completing a recurring task
inserts its next occurrence.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runToggle,
}

func init() {
	toggleCmd.Flags().String("expect", "", "fail unless the line currently reads exactly this text")
	rootCmd.AddCommand(toggleCmd)
}

func runToggle(cmd *cobra.Command, args []string) error {
	locs, err := parseLocations(args)
	if err != nil {
		return err
	}

	p, err := loadPipeline()
	if err != nil {
		return err
	}
	expect, _ := cmd.Flags().GetString("expect")

	return runLines(locs, expect, func(loc vault.Location, guard lineGuard) (output.LineResult, error) {
		return rewriteLine(p, loc, "toggle", guard, func(t task.Task) ([]task.Task, error) {
			if !t.HasCheckbox && t.ListMarker == "" {
				return nil, clierr.Newf(clierr.NotATask, "line %d of %s is not a list item", loc.Line+1, loc.Path).
					WithDetails(map[string]any{"path": loc.Path, "line": loc.Line + 1, "text": t.OriginalMarkdown})
			}
			return p.editor.Toggle(t), nil
		})
	})
}
