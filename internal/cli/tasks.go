package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskpad/internal/storage"
	"taskpad/internal/task"
)

// draftFlags are the task attributes shared by add and edit.
type draftFlags struct {
	title       string
	description string
	due         string
	timeOfDay   string
	location    string
	priority    string
	category    string
	recurrence  string
}

func (f *draftFlags) register(cmd *cobra.Command, withTitle bool) {
	fl := cmd.Flags()
	if withTitle {
		fl.StringVarP(&f.title, "title", "t", "", "New title")
	}
	fl.StringVarP(&f.description, "description", "d", "", "Description")
	fl.StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD, empty to clear)")
	fl.StringVar(&f.timeOfDay, "time", "", "Time of day (HH:MM)")
	fl.StringVarP(&f.location, "location", "l", "", "Location")
	fl.StringVarP(&f.priority, "priority", "p", string(task.PriorityMedium), "Low, Medium or High")
	fl.StringVarP(&f.category, "category", "c", string(task.CategoryWork), "Work, Personal or Errands")
	fl.StringVarP(&f.recurrence, "recurrence", "r", "", "Daily, Weekly, Monthly or none")
}

// apply overwrites the fields of d whose flags were set on cmd.
func (f *draftFlags) apply(cmd *cobra.Command, d *task.Draft) error {
	changed := cmd.Flags().Changed
	if changed("title") {
		d.Title = f.title
	}
	if changed("description") {
		d.Description = strings.TrimSpace(f.description)
	}
	if changed("due") {
		d.DueDate = task.Date{}
		if v := strings.TrimSpace(f.due); v != "" {
			due, err := task.ParseDate(v)
			if err != nil {
				return fmt.Errorf("--due: %w", err)
			}
			d.DueDate = due
		}
	}
	if changed("time") {
		d.TimeOfDay = strings.TrimSpace(f.timeOfDay)
	}
	if changed("location") {
		d.Location = strings.TrimSpace(f.location)
	}
	if changed("priority") {
		p, err := task.ParsePriority(f.priority)
		if err != nil {
			return fmt.Errorf("--priority: %w", err)
		}
		d.Priority = p
	}
	if changed("category") {
		c, err := task.ParseCategory(f.category)
		if err != nil {
			return fmt.Errorf("--category: %w", err)
		}
		d.Category = c
	}
	if changed("recurrence") {
		r, err := task.ParseRecurrence(f.recurrence)
		if err != nil {
			return fmt.Errorf("--recurrence: %w", err)
		}
		d.Recurrence = r
	}
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func (a *app) addCmd() *cobra.Command {
	var f draftFlags
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := task.NewDraft(strings.Join(args, " "))
			if err := f.apply(cmd, &d); err != nil {
				return err
			}
			if err := d.Validate(task.DateOf(a.now())); err != nil {
				return err
			}

			s, err := a.openCLI(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			t, err := s.mgr.Add(d)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.ID)
			return nil
		},
	}
	f.register(cmd, false)
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	var f draftFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.openCLI(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			orig, ok := s.mgr.Find(id)
			if !ok {
				return fmt.Errorf("task %d not found", id)
			}
			d := orig.Draft()
			if err := f.apply(cmd, &d); err != nil {
				return err
			}
			if err := d.Validate(s.mgr.Today()); err != nil {
				return err
			}
			if _, err := s.mgr.Edit(orig.WithDraft(d)); err != nil {
				return err
			}
			return nil
		},
	}
	f.register(cmd, true)
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.openCLI(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			t, ok := s.mgr.Find(id)
			if !ok {
				return fmt.Errorf("task %d not found", id)
			}
			printDetail(cmd.OutOrStdout(), t)
			if saved, ok := s.savedAt(t); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved:       %s\n", saved.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

// savedAt reports when the sequence holding t was last written to disk.
func (s *session) savedAt(t task.Task) (time.Time, bool) {
	if s.store == nil {
		return time.Time{}, false
	}
	key := storage.KeyActive
	if t.Completed {
		key = storage.KeyDone
	}
	at, ok, err := s.store.UpdatedAt(key)
	if err != nil {
		s.log.Warn("read save time", "key", key, "error", err)
		return time.Time{}, false
	}
	return at, ok
}

// idCommand builds a subcommand that applies op to a single task id.
// op reports whether anything changed.
func (a *app) idCommand(use, short string, op func(s *session, id int64) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.openCLI(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			changed, err := op(s, id)
			if err != nil {
				return err
			}
			if !changed {
				s.log.Debug("no change", "command", use, "id", id)
			}
			return nil
		},
	}
}

func (a *app) doneCmd() *cobra.Command {
	return a.idCommand("done", "Mark a task as done", func(s *session, id int64) (bool, error) {
		return s.mgr.Complete(id), nil
	})
}

func (a *app) recoverCmd() *cobra.Command {
	return a.idCommand("recover", "Move a done task back to active", func(s *session, id int64) (bool, error) {
		ok, err := s.mgr.Recover(id)
		if err != nil {
			return false, fmt.Errorf("task %d: %w", id, err)
		}
		return ok, nil
	})
}

func (a *app) deleteCmd() *cobra.Command {
	return a.idCommand("delete", "Delete a task", func(s *session, id int64) (bool, error) {
		return s.mgr.Delete(id), nil
	})
}
