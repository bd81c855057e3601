package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklines/internal/board"
	"github.com/twiced-technology-gmbh/tasklines/internal/output"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent task edits",
	Long: `Prints the activity log kept next to the settings file, newest last.
Every add, edit, toggle, delete and normalize is recorded.`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func init() {
	logCmd.Flags().IntP("limit", "n", 20, "number of entries to show (0 for all)") //nolint:mnd // default page size
	logCmd.Flags().String("action", "", "only entries of this action")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	action, _ := cmd.Flags().GetString("action")
	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := board.ReadLog(s.ActivityLogPath(), board.LogQuery{Action: action, Limit: limit})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		if entries == nil {
			entries = []board.LogEntry{}
		}
		return output.JSON(os.Stdout, entries)
	}
	output.LogTable(os.Stdout, entries)
	return nil
}
