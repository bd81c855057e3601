// Package cmd implements the tasklines CLI commands.
package cmd

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklines/internal/board"
	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklines/internal/config"
	"github.com/twiced-technology-gmbh/tasklines/internal/globalfilter"
	"github.com/twiced-technology-gmbh/tasklines/internal/output"
	"github.com/twiced-technology-gmbh/tasklines/internal/task"
	"github.com/twiced-technology-gmbh/tasklines/internal/vault"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON         bool
	flagTable        bool
	flagCompact      bool
	flagDir          string
	flagNoColor      bool
	flagGlobalFilter string
)

var rootCmd = &cobra.Command{
	Use:   "tasklines",
	Short: "Read and edit markdown checklist tasks",
	Long: `tasklines parses markdown checklist lines such as

  - [ ] #task water the plants ⏫ 📅 2024-06-01 🔁 every week

into tasks, and writes edited tasks back in canonical form. Run it without
a command to open the interactive board over the current directory.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if _, err := output.Resolve(flagJSON, flagTable, flagCompact); err != nil {
			return err
		}
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "directory to look up "+config.ConfigFileName+" from")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&flagGlobalFilter, "global-filter", "", "override the configured global filter")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}
	os.Exit(reportError(os.Stdout, os.Stderr, err))
}

// reportError writes err in the active output mode and returns the exit
// code. JSON mode puts the error object on stdout.
func reportError(stdout, stderr io.Writer, err error) int {
	// Handle SilentError: exit with code, no output.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		return silent.Code
	}

	jsonMode := flagJSON
	if !jsonMode {
		jsonMode = os.Getenv(output.EnvOutput) == "json"
	}

	cliErr, coded := clierr.As(err)
	if jsonMode {
		if !coded {
			cliErr = clierr.New(clierr.InternalError, err.Error())
		}
		output.JSONError(stdout, cliErr)
		return cliErr.ExitCode()
	}

	fmt.Fprintln(stderr, err)
	if coded {
		return cliErr.ExitCode()
	}
	return 1
}

// resolveDir returns the directory the settings lookup starts from.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return cwd, nil
}

// loadSettings finds the settings file from the working directory upward
// and falls back to defaults. --global-filter overrides the file.
func loadSettings() (*config.Settings, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}
	s, err := config.LoadOrDefault(dir)
	if err != nil {
		return nil, err
	}
	if flagGlobalFilter != "" {
		s.GlobalFilter = flagGlobalFilter
	}
	return s, nil
}

// pipeline bundles the settings-bound parser, serializer and editor every
// command works through.
type pipeline struct {
	settings   *config.Settings
	filter     *globalfilter.Filter
	parser     *task.Parser
	serializer *task.Serializer
	editor     *task.Editor
}

func loadPipeline() (*pipeline, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}
	filter, err := s.Filter()
	if err != nil {
		return nil, err
	}
	return &pipeline{
		settings:   s,
		filter:     filter,
		parser:     task.NewParser(filter),
		serializer: task.NewSerializer(filter),
		editor:     task.NewEditor(filter, *s, time.Now),
	}, nil
}

// requireFilter reports whether lines lacking the Global Filter are
// excluded from listings.
func (p *pipeline) requireFilter(all bool) bool {
	return !all && !p.filter.IsEmpty()
}

// outputFormat returns the output format from flags/env. Conflicts were
// rejected before the command ran.
func outputFormat() output.Format {
	f, _ := output.Resolve(flagJSON, flagTable, flagCompact)
	return f
}

// printWarnings writes file read warnings to stderr.
func printWarnings(warnings []vault.ReadWarning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: skipping unreadable file %s: %v\n", w.File, w.Err)
	}
}

// logActivity appends an entry to the activity log. Errors are silently
// discarded because logging should never fail a command.
func logActivity(p *pipeline, action string, loc vault.Location, detail string) {
	board.LogMutation(p.settings.ActivityLogPath(), action, loc.Path, loc.Line+1, detail)
}

// defaultPaths returns args, or the current directory when none are given.
func defaultPaths(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return []string{"."}
}

// parseLocations parses every FILE:LINE argument.
func parseLocations(args []string) ([]vault.Location, error) {
	locs := make([]vault.Location, 0, len(args))
	for _, a := range args {
		loc, err := vault.ParseLocation(a)
		if err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

// lineGuard is the text a location must still hold when it is rewritten.
type lineGuard struct {
	text string
	set  bool
}

// expectGuard turns an --expect value into a guard. An empty value guards
// nothing.
func expectGuard(expect string) lineGuard {
	return lineGuard{text: expect, set: expect != ""}
}

func (g lineGuard) check(cur task.Task) error {
	if !g.set {
		return nil
	}
	return vault.CheckUnchanged(cur, g.text)
}

// lineOp rewrites the task at loc and reports what changed. The guard holds
// the line text seen before any location was touched.
type lineOp func(loc vault.Location, guard lineGuard) (output.LineResult, error)

// runLines executes op for each location and prints the results. Returns a
// SilentError with exit code 1 if any operation failed (after outputting
// results). A single location fails with its own error instead.
//
// Locations are visited bottom-up within each file, and each one must still
// read as it did when the command started. A line that moved anyway fails
// with LINE_CHANGED rather than rewriting its neighbour.
func runLines(locs []vault.Location, expect string, op lineOp) error {
	if len(locs) == 1 {
		r, err := op(locs[0], expectGuard(expect))
		if err != nil {
			return err
		}
		return printLineResults([]output.LineResult{r})
	}

	guards := snapshotLines(locs)
	if expect != "" {
		for i := range guards {
			guards[i] = expectGuard(expect)
		}
	}

	results := make([]output.LineResult, len(locs))
	anyFailed := false
	for _, i := range bottomUp(locs) {
		loc := locs[i]
		r, err := op(loc, guards[i])
		if err != nil {
			anyFailed = true
			r = output.LineResult{Location: loc.String(), Error: err.Error()}
			if cliErr, ok := clierr.As(err); ok {
				r.Error, r.Code = cliErr.Message, cliErr.Code
			}
		}
		results[i] = r
	}

	if err := printLineResults(results); err != nil {
		return err
	}
	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}

// snapshotLines captures the text of every location before any of them is
// rewritten. Unreadable locations get no guard and fail on their own.
func snapshotLines(locs []vault.Location) []lineGuard {
	files := make(map[string]*vault.File)
	guards := make([]lineGuard, len(locs))
	for i, loc := range locs {
		key := filepath.Clean(loc.Path)
		f, ok := files[key]
		if !ok {
			f, _ = vault.Read(loc.Path)
			files[key] = f
		}
		if f != nil && loc.Line >= 0 && loc.Line < len(f.Lines) {
			guards[i] = lineGuard{text: strings.TrimRight(f.Lines[loc.Line], "\r\n"), set: true}
		}
	}
	return guards
}

// bottomUp returns the indexes of locs grouped by file with later lines
// first, so inserting or removing lines never shifts a location still to
// be visited.
func bottomUp(locs []vault.Location) []int {
	order := make([]int, len(locs))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		la, lb := locs[a], locs[b]
		if c := strings.Compare(filepath.Clean(la.Path), filepath.Clean(lb.Path)); c != 0 {
			return c
		}
		return cmp.Compare(lb.Line, la.Line)
	})
	return order
}

func printLineResults(results []output.LineResult) error {
	if outputFormat() == output.FormatJSON {
		if len(results) == 1 {
			return output.JSON(os.Stdout, results[0])
		}
		return output.JSON(os.Stdout, results)
	}
	output.LineResultsTable(os.Stdout, results)
	return nil
}

// rewriteLine runs fn on the task at loc under the file lock and builds the
// result. The current line text must pass guard.
func rewriteLine(p *pipeline, loc vault.Location, action string, guard lineGuard,
	fn func(task.Task) ([]task.Task, error),
) (output.LineResult, error) {
	var before string
	_, lines, err := vault.Update(loc.Path, loc.Line, p.parser, p.serializer,
		func(cur task.Task) ([]task.Task, error) {
			if err := guard.check(cur); err != nil {
				return nil, err
			}
			before = cur.OriginalMarkdown
			return fn(cur)
		})
	if err != nil {
		return output.LineResult{}, err
	}

	changed := len(lines) != 1 || lines[0] != before
	if changed {
		logActivity(p, action, loc, strings.Join(lines, "\n"))
	}
	return output.LineResult{
		Location: loc.String(),
		OK:       true,
		Changed:  changed,
		Before:   before,
		Lines:    lines,
	}, nil
}
