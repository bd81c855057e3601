package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklines/internal/output"
	"github.com/twiced-technology-gmbh/tasklines/internal/task"
	"github.com/twiced-technology-gmbh/tasklines/internal/vault"
)

var editCmd = &cobra.Command{
	Use:   "edit FILE:LINE...",
	Short: "Edit a task line",
	Long: `Modifies fields of the task on each given line and writes it back in
canonical form. Only specified fields are changed. Dates accept YYYY-MM-DD,
or "none" to clear them.

Metadata typed into --description (such as "📅 2024-06-01") is extracted
into the matching fields. Completing a recurring task inserts its next
occurrence next to it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("description", "", "new description (without the global filter)")
	editCmd.Flags().String("status", "", "new status ("+strings.Join(task.StatusNames(), ", ")+")")
	editCmd.Flags().String("priority", "", "new priority")
	for _, f := range task.DateFields {
		editCmd.Flags().String(f.String(), "", "set "+f.String()+" date (YYYY-MM-DD or none)")
	}
	editCmd.Flags().String("recurrence", "", `set recurrence rule (e.g. "every week", or none)`)
	editCmd.Flags().String("expect", "", "fail unless the line currently reads exactly this text")
	editCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "desc":
			name = "description"
		case "starts":
			name = "start"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	locs, err := parseLocations(args)
	if err != nil {
		return err
	}
	if !anyEditFlag(cmd) {
		return clierr.New(clierr.NoChanges, "no fields to change (see 'tasklines edit --help')")
	}

	p, err := loadPipeline()
	if err != nil {
		return err
	}
	expect, _ := cmd.Flags().GetString("expect")

	return runLines(locs, expect, func(loc vault.Location, guard lineGuard) (output.LineResult, error) {
		return rewriteLine(p, loc, "edit", guard, func(t task.Task) ([]task.Task, error) {
			edited, req, err := applyEditFlags(cmd, p, t)
			if err != nil {
				return nil, err
			}
			return p.editor.Apply(edited, req)
		})
	})
}

func anyEditFlag(cmd *cobra.Command) bool {
	names := []string{"description", "status", "priority", "recurrence"}
	for _, f := range task.DateFields {
		names = append(names, f.String())
	}
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}

// applyEditFlags sets the field flags on t and builds the edit request.
// Fields are applied before the request so a completed recurring task
// computes its next occurrence from the new dates.
func applyEditFlags(cmd *cobra.Command, p *pipeline, t task.Task) (task.Task, task.EditRequest, error) {
	req := task.EditRequest{Description: p.editor.EditableDescription(t)}
	if cmd.Flags().Changed("description") {
		req.Description, _ = cmd.Flags().GetString("description")
	}

	if cmd.Flags().Changed("status") {
		v, _ := cmd.Flags().GetString("status")
		s, err := task.ParseStatus(v)
		if err != nil {
			return t, req, err
		}
		req.Status = &s
	}

	if cmd.Flags().Changed("priority") {
		v, _ := cmd.Flags().GetString("priority")
		pr, err := task.ParsePriority(v)
		if err != nil {
			return t, req, err
		}
		t = t.WithPriority(pr)
	}

	for _, f := range task.DateFields {
		if !cmd.Flags().Changed(f.String()) {
			continue
		}
		v, _ := cmd.Flags().GetString(f.String())
		d, err := task.ParseDateInput(f.String(), v)
		if err != nil {
			return t, req, err
		}
		t = t.WithDate(f, d)
	}

	if cmd.Flags().Changed("recurrence") {
		v, _ := cmd.Flags().GetString("recurrence")
		if strings.EqualFold(strings.TrimSpace(v), "none") {
			t = t.WithRecurrence(nil)
		} else {
			r, err := task.ParseRecurrence(v)
			if err != nil {
				return t, req, err
			}
			t = t.WithRecurrence(r)
		}
	}

	return t, req, nil
}
