package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskpad/internal/order"
	"taskpad/internal/task"
)

func (a *app) listCmd() *cobra.Command {
	var done bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active tasks in chronological order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openCLI(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if done {
				printTasks(cmd.OutOrStdout(), s.mgr.Done(), "No completed tasks.")
				return nil
			}
			printTasks(cmd.OutOrStdout(), order.SortChronological(s.mgr.Active()), "No tasks.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&done, "done", false, "List completed tasks instead")
	return cmd
}

func (a *app) importantCmd() *cobra.Command {
	var horizon, limit int
	cmd := &cobra.Command{
		Use:   "important",
		Short: "List High priority tasks and tasks due soon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openCLI(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if !cmd.Flags().Changed("horizon") {
				horizon = s.cfg.Importance.HorizonDays
			}
			if !cmd.Flags().Changed("limit") {
				limit = s.cfg.Importance.Limit
			}
			tasks := order.SelectImportant(s.mgr.Active(), a.now(), horizon, limit)
			printTasks(cmd.OutOrStdout(), tasks, "Nothing important right now.")
			return nil
		},
	}
	cmd.Flags().IntVar(&horizon, "horizon", order.DefaultHorizonDays, "Days ahead that count as due soon")
	cmd.Flags().IntVar(&limit, "limit", order.DefaultImportantLimit, "Maximum number of tasks")
	return cmd
}

func (a *app) urgentCmd() *cobra.Command {
	var window time.Duration
	cmd := &cobra.Command{
		Use:   "urgent",
		Short: "List High priority tasks due within the window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openCLI(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if !cmd.Flags().Changed("window") {
				window = s.cfg.UrgentWindow()
			}
			tasks := order.ClassifyUrgent(s.mgr.Active(), a.now(), window)
			printTasks(cmd.OutOrStdout(), tasks, "Nothing urgent.")
			return nil
		},
	}
	cmd.Flags().DurationVar(&window, "window", order.DefaultUrgentWindow, "How far ahead counts as urgent")
	return cmd
}

func (a *app) calendarCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print a month grid of active tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			year, mon := now.Year(), now.Month()
			if month != "" {
				t, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("--month: expected YYYY-MM, got %q", month)
				}
				year, mon = t.Year(), t.Month()
			}

			s, err := a.openCLI(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			printCalendar(cmd.OutOrStdout(), order.BucketByDate(s.mgr.Active(), year, mon), year, mon)
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month to show (YYYY-MM, default current)")
	return cmd
}

func printTasks(w io.Writer, tasks []task.Task, empty string) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for _, t := range tasks {
		check := " "
		if t.Completed {
			check = "x"
		}
		due := t.DueDate.String()
		if due == "" {
			due = "-"
		} else if t.TimeOfDay != "" {
			due += " " + t.TimeOfDay
		}
		fmt.Fprintf(w, "%-14d [%s] %-16s %-6s %-8s %s\n", t.ID, check, due, t.Priority, t.Category, t.Title)
	}
}

func printDetail(w io.Writer, t task.Task) {
	fmt.Fprintf(w, "ID:          %d\n", t.ID)
	fmt.Fprintf(w, "Title:       %s\n", t.Title)
	status := "active"
	if t.Completed {
		status = "done"
	}
	fmt.Fprintf(w, "Status:      %s\n", status)
	if t.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", t.Description)
	}
	if t.HasDueDate() {
		fmt.Fprintf(w, "Due:         %s\n", t.DueDate)
	}
	if t.TimeOfDay != "" {
		fmt.Fprintf(w, "Time:        %s\n", t.TimeOfDay)
	}
	if t.Location != "" {
		fmt.Fprintf(w, "Location:    %s\n", t.Location)
	}
	fmt.Fprintf(w, "Priority:    %s\n", t.Priority)
	fmt.Fprintf(w, "Category:    %s\n", t.Category)
	if t.Recurrence != task.RecurrenceNone {
		fmt.Fprintf(w, "Recurrence:  %s\n", t.Recurrence)
	}
}

// printCalendar writes a Sunday-first grid. Days with tasks are marked with
// '*' and listed below the grid.
func printCalendar(w io.Writer, buckets []order.DayBucket, year int, month time.Month) {
	fmt.Fprintf(w, "%s %d\n", month, year)
	fmt.Fprintln(w, "Su  Mo  Tu  We  Th  Fr  Sa")

	col := order.LeadingBlanks(year, month)
	var line strings.Builder
	line.WriteString(strings.Repeat("    ", col))
	for _, b := range buckets {
		mark := " "
		if len(b.Tasks) > 0 {
			mark = "*"
		}
		fmt.Fprintf(&line, "%2d%s ", b.Day, mark)
		col++
		if col == 7 {
			fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
			line.Reset()
			col = 0
		}
	}
	if line.Len() > 0 {
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}

	for _, b := range buckets {
		if len(b.Tasks) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", task.NewDate(year, month, b.Day))
		for _, t := range b.Tasks {
			fmt.Fprintf(w, "  %d %s (%s)\n", t.ID, t.Title, t.Priority)
		}
	}
}
