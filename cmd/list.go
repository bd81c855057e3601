package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklines/internal/board"
	"github.com/twiced-technology-gmbh/tasklines/internal/date"
	"github.com/twiced-technology-gmbh/tasklines/internal/output"
	"github.com/twiced-technology-gmbh/tasklines/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list [PATH...]",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists the checklist tasks of markdown files with optional filtering, sorting,
and output format control. Directories are searched recursively for *.md files.

When a global filter is configured, lines without it are skipped unless --all
is given.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringSlice("status", nil, "filter by status (comma-separated)")
	listCmd.Flags().StringSlice("priority", nil, "filter by priority (comma-separated)")
	listCmd.Flags().String("tag", "", "filter by tag")
	listCmd.Flags().StringP("search", "s", "", "search description and tags (case-insensitive)")
	listCmd.Flags().String("due-before", "", "only tasks due on or before this date (YYYY-MM-DD)")
	listCmd.Flags().Bool("overdue", false, "only open tasks past their due date")
	listCmd.Flags().Bool("recurring", false, "only recurring tasks")
	listCmd.Flags().Bool("one-off", false, "only non-recurring tasks")
	listCmd.Flags().Bool("open", false, "hide done and cancelled tasks")
	listCmd.Flags().Bool("all", false, "include lines without the global filter")
	listCmd.Flags().String("sort", "location", "sort field ("+strings.Join(board.ValidSortFields(), ", ")+")")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	listCmd.Flags().String("group-by", "", "group results by field ("+strings.Join(board.ValidGroupByFields(), ", ")+")")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	p, err := loadPipeline()
	if err != nil {
		return err
	}

	filter, err := listFilterFromFlags(cmd)
	if err != nil {
		return err
	}

	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")
	limit, _ := cmd.Flags().GetInt("limit")
	all, _ := cmd.Flags().GetBool("all")
	groupBy, _ := cmd.Flags().GetString("group-by")

	if groupBy != "" {
		if err := board.ValidateGroupBy(groupBy); err != nil {
			return err
		}
	}

	opts := board.ListOptions{
		Filter:        filter,
		SortBy:        sortBy,
		Reverse:       reverse,
		Limit:         limit,
		RequireFilter: p.requireFilter(all),
	}

	tasks, warnings, err := board.List(defaultPaths(args), p.parser, opts)
	if err != nil {
		return err
	}
	printWarnings(warnings)

	if groupBy != "" {
		return outputGroupedList(tasks, groupBy)
	}
	return outputTaskList(tasks)
}

func listFilterFromFlags(cmd *cobra.Command) (board.FilterOptions, error) {
	statuses, _ := cmd.Flags().GetStringSlice("status")
	priorities, _ := cmd.Flags().GetStringSlice("priority")
	tag, _ := cmd.Flags().GetString("tag")
	search, _ := cmd.Flags().GetString("search")
	dueBefore, _ := cmd.Flags().GetString("due-before")
	overdue, _ := cmd.Flags().GetBool("overdue")
	recurring, _ := cmd.Flags().GetBool("recurring")
	oneOff, _ := cmd.Flags().GetBool("one-off")
	open, _ := cmd.Flags().GetBool("open")

	filter := board.FilterOptions{
		Tag:     tag,
		Search:  search,
		Overdue: overdue,
		Today:   date.Today(),
	}

	for _, name := range statuses {
		s, err := task.ParseStatus(name)
		if err != nil {
			return filter, err
		}
		filter.Statuses = append(filter.Statuses, s)
	}
	if open {
		filter.ExcludeStatuses = []task.Status{task.Done, task.Cancelled}
	}
	for _, name := range priorities {
		pr, err := task.ParsePriority(name)
		if err != nil {
			return filter, err
		}
		filter.Priorities = append(filter.Priorities, pr)
	}
	if dueBefore != "" {
		d, err := date.Parse(dueBefore)
		if err != nil {
			return filter, task.ValidateDate("due-before", dueBefore, err)
		}
		filter.DueBefore = &d
	}
	if recurring {
		v := true
		filter.Recurring = &v
	} else if oneOff {
		v := false
		filter.Recurring = &v
	}
	return filter, nil
}

func outputGroupedList(tasks []task.Task, groupBy string) error {
	grouped := board.GroupBy(tasks, groupBy)
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, grouped)
	}
	output.GroupedTable(os.Stdout, grouped)
	return nil
}

func outputTaskList(tasks []task.Task) error {
	format := outputFormat()
	if format == output.FormatJSON {
		if tasks == nil {
			tasks = []task.Task{}
		}
		return output.JSON(os.Stdout, tasks)
	}
	if format == output.FormatCompact {
		output.TaskCompact(os.Stdout, tasks)
		return nil
	}

	output.TaskTable(os.Stdout, tasks, date.Today())
	return nil
}
