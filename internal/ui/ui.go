package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskpad/internal/config"
	"taskpad/internal/manager"
	"taskpad/internal/order"
	"taskpad/internal/schedule"
	"taskpad/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeForm
)

type view int

const (
	viewActive view = iota
	viewDone
	viewImportant
	viewUrgent
	viewCalendar
	numViews
)

func (v view) String() string {
	return [...]string{"Active", "Done", "Important", "Urgent", "Calendar"}[v]
}

func parseView(s string) view {
	for v := view(0); v < numViews; v++ {
		if strings.EqualFold(s, v.String()) {
			return v
		}
	}
	return viewActive
}

// dayChangedMsg is posted by the scheduler at midnight.
type dayChangedMsg struct {
	now time.Time
}

type Model struct {
	mgr        *manager.Manager
	cfg        config.Config
	sink       *StatusSink
	clock      func() time.Time
	now        time.Time
	view       view
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	seenSeq    int
	confirmDel bool
	pendingDel *task.Task
	form       *formState

	calYear  int
	calMonth time.Month
	calDay   int
}

func New(mgr *manager.Manager, cfg config.Config, sink *StatusSink, clock func() time.Time) Model {
	if clock == nil {
		clock = time.Now
	}
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	now := clock()
	m := Model{
		mgr:      mgr,
		cfg:      cfg,
		sink:     sink,
		clock:    clock,
		now:      now,
		view:     parseView(cfg.DefaultView),
		input:    ti,
		mode:     modeList,
		status:   fmt.Sprintf("Press '%s' to add, '%s' to switch view, '%s' to quit.", cfg.Keys.Add, cfg.Keys.NextView, cfg.Keys.Quit),
		calYear:  now.Year(),
		calMonth: now.Month(),
		calDay:   now.Day(),
	}
	// Surface anything reported while the manager was loading.
	m.syncStatus()
	return m
}

// Run starts the TUI and a midnight tick that refreshes date-dependent
// views.
func Run(mgr *manager.Manager, cfg config.Config, sink *StatusSink) error {
	program := tea.NewProgram(New(mgr, cfg, sink, time.Now))

	sched := schedule.New(time.Local)
	id, err := sched.AtMidnight(func() {
		program.Send(dayChangedMsg{now: time.Now()})
	})
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()
	slog.Debug("day rollover scheduled", "next", sched.Next(id))

	_, err = program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.form != nil {
			return m.updateFormMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	case dayChangedMsg:
		m.now = msg.now
		m.cursor = clampCursor(m.cursor, len(m.rows()))
		m.status = "New day: " + task.DateOf(m.now).String()
	}
	return m, nil
}

// rows is the task list the cursor moves over in the current view.
func (m Model) rows() []task.Task {
	switch m.view {
	case viewDone:
		return m.mgr.Done()
	case viewImportant:
		return order.SelectImportant(m.mgr.Active(), m.now, m.cfg.Importance.HorizonDays, m.cfg.Importance.Limit)
	case viewUrgent:
		return order.ClassifyUrgent(m.mgr.Active(), m.now, m.cfg.UrgentWindow())
	case viewCalendar:
		buckets := order.BucketByDate(m.mgr.Active(), m.calYear, m.calMonth)
		return buckets[m.calDay-1].Tasks
	default:
		return order.SortChronological(m.mgr.Active())
	}
}

func (m Model) selected() (task.Task, bool) {
	rows := m.rows()
	if len(rows) == 0 {
		return task.Task{}, false
	}
	return rows[clampCursor(m.cursor, len(rows))], true
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.NextView:
		m.view = (m.view + 1) % numViews
		m.cursor = 0
		m.status = m.view.String()
	case "shift+tab":
		m.view = (m.view + numViews - 1) % numViews
		m.cursor = 0
		m.status = m.view.String()
	case k.Down, "down":
		if m.view == viewCalendar && key == k.Down {
			m.moveDay(7)
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.rows()))
	case k.Up, "up":
		if m.view == viewCalendar && key == k.Up {
			m.moveDay(-7)
			return m, nil
		}
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.rows()))
		}
	case k.Left, "left":
		if m.view == viewCalendar {
			m.moveDay(-1)
		}
	case k.Right, "right":
		if m.view == viewCalendar {
			m.moveDay(1)
		}
	case k.PrevMonth:
		if m.view == viewCalendar {
			m.moveMonth(-1)
		}
	case k.NextMonth:
		if m.view == viewCalendar {
			m.moveMonth(1)
		}
	case k.Add:
		return m.startForm(newAddForm())
	case k.Edit:
		t, ok := m.selected()
		if !ok {
			m.status = "No task to edit"
			return m, nil
		}
		return m.startForm(newEditForm(t))
	case k.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.toggle(t)
	case k.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	case k.Detail:
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks"
			return m, nil
		}
		m.status = describe(t)
	}
	return m, nil
}

// toggle completes an active task or recovers a done one.
func (m *Model) toggle(t task.Task) {
	if t.Completed {
		if _, err := m.mgr.Recover(t.ID); err != nil && !errors.Is(err, manager.ErrStaleDueDate) {
			m.status = fmt.Sprintf("recover failed: %v", err)
			return
		}
	} else {
		m.mgr.Complete(t.ID)
	}
	m.syncStatus()
	m.cursor = clampCursor(m.cursor, len(m.rows()))
}

func (m *Model) moveDay(delta int) {
	d := time.Date(m.calYear, m.calMonth, m.calDay+delta, 0, 0, 0, 0, time.UTC)
	m.calYear, m.calMonth, m.calDay = d.Year(), d.Month(), d.Day()
	m.cursor = 0
}

func (m *Model) moveMonth(delta int) {
	first := time.Date(m.calYear, m.calMonth+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	m.calYear, m.calMonth = first.Year(), first.Month()
	if n := order.DaysInMonth(m.calYear, m.calMonth); m.calDay > n {
		m.calDay = n
	}
	m.cursor = 0
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		m.mgr.Delete(m.pendingDel.ID)
		m.syncStatus()
		m.cursor = clampCursor(m.cursor, len(m.rows()))
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) startForm(f *formState) (tea.Model, tea.Cmd) {
	m.form = f
	m.mode = modeForm
	m.input.SetValue(f.currentValue())
	m.input.Placeholder = f.currentLabel()
	m.input.CursorEnd()
	m.status = m.formPrompt()
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.form = nil
		m.mode = modeList
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		m.moveField(1)
		return m, nil
	case "shift+tab", "up":
		m.moveField(-1)
		return m, nil
	case "ctrl+s":
		m.form.setCurrentValue(m.input.Value())
		return m.saveForm()
	case m.cfg.Keys.Confirm, "enter":
		m.form.setCurrentValue(m.input.Value())
		if m.form.last() {
			return m.saveForm()
		}
		m.moveField(1)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) moveField(delta int) {
	m.form.setCurrentValue(m.input.Value())
	m.form.index = wrapIndex(m.form.index+delta, numFields)
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	m.input.CursorEnd()
	m.status = m.formPrompt()
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	d, err := m.form.draft()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	if err := d.Validate(task.DateOf(m.clock())); err != nil {
		m.status = formError(err)
		return m, nil
	}

	if m.form.editing() {
		orig, ok := m.mgr.Find(m.form.taskID)
		if !ok {
			m.status = "Task no longer exists"
			m.closeForm()
			return m, nil
		}
		if _, err := m.mgr.Edit(orig.WithDraft(d)); err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
	} else if _, err := m.mgr.Add(d); err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		return m, nil
	}
	m.closeForm()
	m.syncStatus()
	m.cursor = clampCursor(m.cursor, len(m.rows()))
	return m, nil
}

func (m *Model) closeForm() {
	m.form = nil
	m.mode = modeList
	m.input.Blur()
	m.input.SetValue("")
}

func formError(err error) string {
	switch {
	case errors.Is(err, task.ErrEmptyTitle):
		return "Title cannot be empty"
	case errors.Is(err, task.ErrPastDueDate):
		return "The selected date is in the past. Please choose a future date."
	default:
		return err.Error()
	}
}

func (m Model) formPrompt() string {
	if m.form == nil {
		return ""
	}
	verb := "Adding"
	if m.form.editing() {
		verb = "Editing"
	}
	return fmt.Sprintf("%s task: %s (field %d of %d). Enter to advance, ctrl+s to save, Esc to cancel.",
		verb, m.form.currentLabel(), m.form.index+1, numFields)
}

// syncStatus copies a new notification, if any, onto the status line.
func (m *Model) syncStatus() {
	if m.sink == nil || m.sink.Seq() == m.seenSeq {
		return
	}
	m.seenSeq = m.sink.Seq()
	m.status = m.sink.Line()
}

func describe(t task.Task) string {
	info := fmt.Sprintf("Task #%d • %s • %s • %s priority • %s", t.ID, t.Title, humanDone(t.Completed), t.Priority, t.Category)
	if t.Description != "" {
		info += " • " + t.Description
	}
	if t.HasDueDate() {
		info += " • due:" + t.DueDate.String()
		if t.TimeOfDay != "" {
			info += " at " + t.TimeOfDay
		}
	}
	if t.Location != "" {
		info += " • at:" + t.Location
	}
	if t.Recurrence != task.RecurrenceNone {
		info += " • recurs " + strings.ToLower(string(t.Recurrence))
	}
	return info
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
