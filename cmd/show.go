package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklines/internal/output"
	"github.com/twiced-technology-gmbh/tasklines/internal/vault"
)

var showCmd = &cobra.Command{
	Use:   "show FILE:LINE",
	Short: "Show task details",
	Long: `Parses a single line and displays every field extracted from it. The
description is rendered as markdown. LINE is one-based.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	loc, err := vault.ParseLocation(args[0])
	if err != nil {
		return err
	}

	p, err := loadPipeline()
	if err != nil {
		return err
	}

	f, err := vault.Read(loc.Path)
	if err != nil {
		return err
	}
	t, err := f.Task(p.parser, loc.Line)
	if err != nil {
		return err
	}

	canonical := p.serializer.ToFileLineString(t)

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, struct {
			Location  string `json:"location"`
			Canonical string `json:"canonical"`
			Task      any    `json:"task"`
		}{loc.String(), canonical, t})
	}
	if format == output.FormatCompact {
		output.TaskDetailCompact(os.Stdout, t, canonical)
		return nil
	}

	output.TaskDetail(os.Stdout, t, canonical)
	return nil
}
