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

var addCmd = &cobra.Command{
	Use:     "add FILE DESCRIPTION...",
	Aliases: []string{"create"},
	Short:   "Append a new task to a file",
	Long: `Appends a new open task to the end of FILE, creating the file if needed.
The global filter is added automatically, and metadata typed into the
description (such as "⏫ 📅 2024-06-01") is extracted into fields.`,
	Args: cobra.MinimumNArgs(2), //nolint:mnd // file plus at least one description word
	RunE: runAdd,
}

func init() {
	addCmd.Flags().String("status", "", "initial status (default todo)")
	addCmd.Flags().String("priority", "", "task priority")
	for _, f := range task.DateFields {
		addCmd.Flags().String(f.String(), "", f.String()+" date (YYYY-MM-DD)")
	}
	addCmd.Flags().String("recurrence", "", `recurrence rule (e.g. "every week")`)
	addCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "starts" {
			name = "start"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	path := args[0]
	text := strings.TrimSpace(strings.Join(args[1:], " "))
	if text == "" {
		return clierr.New(clierr.EmptyDescription, "task description must not be empty")
	}

	p, err := loadPipeline()
	if err != nil {
		return err
	}

	// Start from a plain list item so the editor treats it as a new task.
	draft := p.parser.Parse("- "+text, path)
	draft, req, err := applyEditFlags(cmd, p, draft)
	if err != nil {
		return err
	}
	tasks, err := p.editor.Apply(draft, req)
	if err != nil {
		return err
	}

	var lines []string
	var first int
	for i, t := range tasks {
		line := p.serializer.ToFileLineString(t)
		n, err := vault.Append(path, line)
		if err != nil {
			return err
		}
		if i == 0 {
			first = n
		}
		lines = append(lines, line)
	}

	loc := vault.Location{Path: path, Line: first}
	logActivity(p, "add", loc, strings.Join(lines, "\n"))

	return printLineResults([]output.LineResult{{
		Location: loc.String(),
		OK:       true,
		Changed:  true,
		Lines:    lines,
	}})
}
