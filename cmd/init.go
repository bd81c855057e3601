package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklines/internal/config"
	"github.com/twiced-technology-gmbh/tasklines/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a settings file",
	Long: `Creates ` + config.ConfigFileName + ` in the current directory (or --dir) with
default settings. Commands run anywhere below that directory pick it up.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("set-created-date", config.DefaultSetCreatedDate, "stamp a created date on new tasks")
	initCmd.Flags().String("recurrence-position", config.DefaultRecurrencePosition,
		"where the next occurrence of a recurring task goes (above, below)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}

	s, err := config.Init(dir)
	if err != nil {
		return err
	}

	changed := false
	if flagGlobalFilter != "" {
		s.GlobalFilter = flagGlobalFilter
		changed = true
	}
	if cmd.Flags().Changed("set-created-date") {
		s.SetCreatedDate, _ = cmd.Flags().GetBool("set-created-date")
		changed = true
	}
	if cmd.Flags().Changed("recurrence-position") {
		s.RecurrencePosition, _ = cmd.Flags().GetString("recurrence-position")
		changed = true
	}
	if changed {
		if err := s.Validate(); err != nil {
			_ = os.Remove(s.Path())
			return err
		}
		if err := s.Save(); err != nil {
			return fmt.Errorf("writing settings: %w", err)
		}
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status":        "initialized",
			"dir":           s.Dir(),
			"config":        s.Path(),
			"global_filter": s.GlobalFilter,
		})
	}

	output.Messagef(os.Stdout, "Initialized settings in %s", s.Dir())
	output.Messagef(os.Stdout, "  Config:        %s", s.Path())
	if s.GlobalFilter != "" {
		output.Messagef(os.Stdout, "  Global filter: %s", s.GlobalFilter)
	} else {
		output.Messagef(os.Stdout, "  Global filter: (none, every checklist line is a task)")
	}
	return nil
}
