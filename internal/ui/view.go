package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskpad/internal/config"
	"taskpad/internal/manager"
	"taskpad/internal/order"
	"taskpad/internal/task"
)

const calendarCellWidth = 12

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1)
	activeTabStyle = tabStyle.Bold(true).Reverse(true)
	dimStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	cellStyle      = lipgloss.NewStyle().Width(calendarCellWidth).MaxWidth(calendarCellWidth)
	todayStyle     = cellStyle.Bold(true)
	selectedStyle  = cellStyle.Reverse(true)

	priorityColors = map[task.Priority]lipgloss.Color{
		task.PriorityLow:    lipgloss.Color("10"),
		task.PriorityMedium: lipgloss.Color("11"),
		task.PriorityHigh:   lipgloss.Color("9"),
	}
)

func priorityStyle(p task.Priority) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(priorityColors[p])
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("taskpad"))
	b.WriteString("  ")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.view == viewCalendar {
		b.WriteString(m.renderCalendar())
		b.WriteString("\n")
	}

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(m.emptyMessage())
	} else {
		b.WriteString(m.renderTaskList(rows))
	}

	b.WriteString("\n---\n")

	if m.form != nil {
		b.WriteString("Task form (tab/shift+tab to move, enter for next, ctrl+s to save, esc to cancel)")
		b.WriteString("\n\n")
		b.WriteString(m.renderFormBox())
		b.WriteString("\n")
		b.WriteString("Field: " + m.form.currentLabel())
		b.WriteString("\n")
		b.WriteString(m.input.View())
	} else {
		b.WriteString(m.renderDetailPanel())
	}

	b.WriteString("\n\n")
	if m.sink != nil && m.sink.Seq() == m.seenSeq && m.status == m.sink.Line() && m.sink.Severity() == manager.SeverityError {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	b.WriteString(renderHelp(m.cfg.Keys))

	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, numViews)
	for v := view(0); v < numViews; v++ {
		name := v.String()
		switch v {
		case viewActive:
			name = fmt.Sprintf("%s (%d)", name, len(m.mgr.Active()))
		case viewDone:
			name = fmt.Sprintf("%s (%d)", name, len(m.mgr.Done()))
		}
		if v == m.view {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, tabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) emptyMessage() string {
	switch m.view {
	case viewDone:
		return "No completed tasks."
	case viewImportant:
		return "Nothing important right now."
	case viewUrgent:
		return "Nothing urgent."
	case viewCalendar:
		return "No tasks due on this day."
	default:
		return fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add)
	}
}

func (m Model) renderTaskList(rows []task.Task) string {
	today := task.DateOf(m.now)
	var b strings.Builder
	for i, t := range rows {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}

		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}

		extras := make([]string, 0, 5)
		if t.HasDueDate() {
			due := "D:" + t.DueDate.String()
			if t.TimeOfDay != "" {
				due += " " + t.TimeOfDay
			}
			if !t.Completed && t.DueDate.Before(today) {
				due += " overdue"
			}
			extras = append(extras, due)
		}
		extras = append(extras, priorityStyle(t.Priority).Render(string(t.Priority)))
		extras = append(extras, string(t.Category))
		if t.Recurrence != task.RecurrenceNone {
			extras = append(extras, "R:"+string(t.Recurrence))
		}
		if t.Location != "" {
			extras = append(extras, "@"+t.Location)
		}

		body := fmt.Sprintf("%s %s %s [%s]", cursor, checkbox, t.Title, strings.Join(extras, " | "))
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderCalendar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %d", m.calMonth, m.calYear)))
	b.WriteString("\n")

	header := make([]string, 0, 7)
	for _, d := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		header = append(header, cellStyle.Render(d))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	b.WriteString("\n")

	today := task.DateOf(m.now)
	buckets := order.BucketByDate(m.mgr.Active(), m.calYear, m.calMonth)
	cells := make([]string, 0, 42)
	for i := 0; i < order.LeadingBlanks(m.calYear, m.calMonth); i++ {
		cells = append(cells, cellStyle.Render(""))
	}
	for _, bucket := range buckets {
		label := fmt.Sprintf("%2d", bucket.Day)
		if n := len(bucket.Tasks); n > 0 {
			label += " " + priorityStyle(topPriority(bucket.Tasks)).Render(fmt.Sprintf("•%d", n))
		}
		style := cellStyle
		switch {
		case bucket.Day == m.calDay:
			style = selectedStyle
		case task.NewDate(m.calYear, m.calMonth, bucket.Day) == today:
			style = todayStyle
		}
		cells = append(cells, style.Render(label))
	}

	for start := 0; start < len(cells); start += 7 {
		end := min(start+7, len(cells))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells[start:end]...))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("Selected " + task.NewDate(m.calYear, m.calMonth, m.calDay).String()))
	b.WriteString("\n")
	return b.String()
}

func topPriority(tasks []task.Task) task.Priority {
	best := task.PriorityLow
	for _, t := range tasks {
		switch t.Priority {
		case task.PriorityHigh:
			return task.PriorityHigh
		case task.PriorityMedium:
			best = task.PriorityMedium
		}
	}
	return best
}

func (m Model) renderFormBox() string {
	if m.form == nil {
		return ""
	}
	var b strings.Builder
	for i, name := range formFields() {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		val := m.form.values[i]
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-38s : %s\n", prefix, name, val))
	}
	return b.String()
}

func (m Model) renderDetailPanel() string {
	t, ok := m.selected()
	if !ok {
		return "No task selected"
	}
	var b strings.Builder
	b.WriteString("Details\n")
	b.WriteString(fmt.Sprintf("Title       : %s\n", t.Title))
	b.WriteString(fmt.Sprintf("Status      : %s\n", humanDone(t.Completed)))
	b.WriteString(fmt.Sprintf("Description : %s\n", emptyPlaceholder(t.Description)))
	b.WriteString(fmt.Sprintf("Due         : %s\n", emptyPlaceholder(t.DueDate.String())))
	b.WriteString(fmt.Sprintf("Time        : %s\n", emptyPlaceholder(t.TimeOfDay)))
	b.WriteString(fmt.Sprintf("Location    : %s\n", emptyPlaceholder(t.Location)))
	b.WriteString(fmt.Sprintf("Priority    : %s\n", t.Priority))
	b.WriteString(fmt.Sprintf("Category    : %s\n", t.Category))
	b.WriteString(fmt.Sprintf("Recurrence  : %s\n", emptyPlaceholder(string(t.Recurrence))))
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s view • %s add • %s edit • %s detail • space done/recover • %s delete • %s/%s month • %s quit",
		k.Up, k.Down, k.NextView, k.Add, k.Edit, k.Detail, k.Delete, k.PrevMonth, k.NextMonth, k.Quit)
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}
