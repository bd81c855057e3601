package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklines/internal/output"
	"github.com/twiced-technology-gmbh/tasklines/internal/vault"
)

var deleteCmd = &cobra.Command{
	Use:     "delete FILE:LINE...",
	Aliases: []string{"rm"},
	Short:   "Delete a task line",
	Long: `Removes the task on each given line from its file. Prompts for
confirmation in interactive mode. Multiple locations require --yes.

Locations in the same file are removed bottom-up so earlier line numbers
stay valid.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	deleteCmd.Flags().String("expect", "", "fail unless the line currently reads exactly this text")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	locs, err := parseLocations(args)
	if err != nil {
		return err
	}

	p, err := loadPipeline()
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")
	expect, _ := cmd.Flags().GetString("expect")

	// Batch mode requires --yes.
	if len(locs) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq, "batch delete requires --yes")
	}

	if len(locs) == 1 && !yes {
		ok, err := confirmDelete(p, locs[0])
		if err != nil || !ok {
			return err
		}
	}

	return runLines(locs, expect, func(loc vault.Location, guard lineGuard) (output.LineResult, error) {
		return executeDelete(p, loc, guard)
	})
}

// confirmDelete shows the line and asks before removing it.
func confirmDelete(p *pipeline, loc vault.Location) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, clierr.New(clierr.ConfirmationReq,
			"cannot prompt for confirmation (not a terminal); use --yes")
	}
	f, err := vault.Read(loc.Path)
	if err != nil {
		return false, err
	}
	t, err := f.Task(p.parser, loc.Line)
	if err != nil {
		return false, err
	}

	fmt.Fprintf(os.Stderr, "Delete %s %q? [y/N] ", loc, t.OriginalMarkdown)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(os.Stderr, "Canceled.")
		return false, nil
	}
	return true, nil
}

// executeDelete removes one task line and logs it.
func executeDelete(p *pipeline, loc vault.Location, guard lineGuard) (output.LineResult, error) {
	f, err := vault.Read(loc.Path)
	if err != nil {
		return output.LineResult{}, err
	}
	t, err := f.Task(p.parser, loc.Line)
	if err != nil {
		return output.LineResult{}, err
	}
	if !t.HasCheckbox {
		return output.LineResult{}, clierr.Newf(clierr.NotATask, "line %d of %s is not a task", loc.Line+1, loc.Path).
			WithDetails(map[string]any{"path": loc.Path, "line": loc.Line + 1, "text": t.OriginalMarkdown})
	}

	seen := t.OriginalMarkdown
	if guard.set {
		seen = guard.text
	}
	if err := vault.Remove(loc.Path, loc.Line, seen); err != nil {
		return output.LineResult{}, err
	}

	logActivity(p, "delete", loc, t.OriginalMarkdown)
	return output.LineResult{
		Location: loc.String(),
		OK:       true,
		Changed:  true,
		Before:   t.OriginalMarkdown,
	}, nil
}
