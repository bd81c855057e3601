package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklines/internal/output"
	"github.com/twiced-technology-gmbh/tasklines/internal/vault"
)

var normalizeCmd = &cobra.Command{
	Use:     "normalize [PATH...]",
	Aliases: []string{"fmt"},
	Short:   "Rewrite task lines in canonical form",
	Long: `Parses every checklist line under PATH (default: current directory) and
writes it back in canonical field order. Lines that are already canonical are
left untouched, as are all non-task lines.

With --check nothing is written; the command exits 1 if any line would
change.`,
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().Bool("check", false, "report files that would change without writing")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	check, _ := cmd.Flags().GetBool("check")

	p, err := loadPipeline()
	if err != nil {
		return err
	}
	files, err := vault.FindMarkdown(defaultPaths(args))
	if err != nil {
		return err
	}

	results := []output.NormalizeResult{}
	total := 0
	for _, path := range files {
		n, err := vault.Normalize(path, p.parser, p.serializer, !check)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", path, err)
			continue
		}
		if n == 0 {
			continue
		}
		total += n
		results = append(results, output.NormalizeResult{Path: path, Changed: n})
		if !check {
			logActivity(p, "normalize", vault.Location{Path: path, Line: -1}, fmt.Sprintf("%d lines", n))
		}
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		verb := "Normalized"
		if check {
			verb = "Would normalize"
		}
		for _, r := range results {
			output.Messagef(os.Stdout, "%s %d lines in %s", verb, r.Changed, r.Path)
		}
		if total == 0 {
			output.Messagef(os.Stdout, "All task lines are canonical")
		}
	}

	if check && total > 0 {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
