package cmd

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklines/internal/tui"
	"github.com/twiced-technology-gmbh/tasklines/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [PATH...]",
	Short: "Open the interactive board",
	Long: `Shows the tasks under PATH (default: current directory) in one column per
status. Toggle or edit the selected task; edits are written back to the file
immediately and the board reloads when files change on disk.`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().Bool("all", false, "include lines without the global filter")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return clierr.New(clierr.InvalidInput, "the interactive board needs a terminal; use 'tasklines list'")
	}

	p, err := loadPipeline()
	if err != nil {
		return err
	}
	all, _ := cmd.Flags().GetBool("all")

	model := tui.NewBoard(tui.Options{
		Paths:         defaultPaths(args),
		Parser:        p.parser,
		Serializer:    p.serializer,
		Editor:        p.editor,
		LogPath:       p.settings.ActivityLogPath(),
		RequireFilter: p.requireFilter(all),
	})
	prog := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, model, prog)

	_, err = prog.Run()
	return err
}

func startTUIWatcher(ctx context.Context, model *tui.Board, prog *tea.Program) {
	w, err := watcher.New(model.WatchPaths(), func() {
		prog.Send(tui.ReloadMsg{})
	})
	if err != nil {
		return // non-fatal: the board works without live refresh
	}
	defer w.Close()
	w.Run(ctx, func(watchErr error) {
		prog.Send(tui.WatchErr(watchErr))
	})
}
