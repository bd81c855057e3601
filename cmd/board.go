package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklines/internal/board"
	"github.com/twiced-technology-gmbh/tasklines/internal/date"
	"github.com/twiced-technology-gmbh/tasklines/internal/output"
	"github.com/twiced-technology-gmbh/tasklines/internal/vault"
	"github.com/twiced-technology-gmbh/tasklines/internal/watcher"
)

var flagWatch bool

var boardCmd = &cobra.Command{
	Use:     "summary [PATH...]",
	Aliases: []string{"board"},
	Short:   "Show task counts",
	Long: `Displays task counts per status and priority, with overdue and recurring
counts, over the markdown files under PATH (default: current directory).

Use --watch to keep the display live-updating whenever the files change on
disk. Press Ctrl+C to stop.`,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "live-update the summary on file changes")
	boardCmd.Flags().Bool("all", false, "include lines without the global filter")
	boardCmd.Flags().String("group-by", "", "group by field ("+strings.Join(board.ValidGroupByFields(), ", ")+")")
}

func runBoard(cmd *cobra.Command, args []string) error {
	p, err := loadPipeline()
	if err != nil {
		return err
	}

	groupBy, _ := cmd.Flags().GetString("group-by")
	if groupBy != "" {
		if err := board.ValidateGroupBy(groupBy); err != nil {
			return err
		}
	}
	all, _ := cmd.Flags().GetBool("all")
	paths := defaultPaths(args)

	if err := renderBoard(p, paths, all, groupBy); err != nil {
		return err
	}
	if !flagWatch {
		return nil
	}
	return watchBoard(p, paths, all, groupBy)
}

func renderBoard(p *pipeline, paths []string, all bool, groupBy string) error {
	tasks, warnings, err := vault.ReadAllLenient(paths, p.parser, p.requireFilter(all))
	if err != nil {
		return err
	}
	printWarnings(warnings)

	if groupBy != "" {
		return outputGroupedList(tasks, groupBy)
	}

	summary := board.Summary(tasks, date.Today())

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, summary)
	}
	if format == output.FormatCompact {
		output.OverviewCompact(os.Stdout, summary)
		return nil
	}

	output.OverviewTable(os.Stdout, summary)
	return nil
}

func watchBoard(p *pipeline, paths []string, all bool, groupBy string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(paths, func() {
		clearScreen()
		if renderErr := renderBoard(p, paths, all, groupBy); renderErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering summary: %v\n", renderErr)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
	})

	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
