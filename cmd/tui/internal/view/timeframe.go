package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fieldservice/internal/report"
)

// Timeframe is a predefined or custom reporting period.
type Timeframe int

const (
	TimeframeThisWeek Timeframe = iota
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeThisQuarter
	TimeframeThisYear
	TimeframeAll
	TimeframeCustom
)

// allTimeStart bounds the "All Time" period; no orders predate it.
var allTimeStart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func (t Timeframe) String() string {
	switch t {
	case TimeframeThisWeek:
		return "This Week"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeThisQuarter:
		return "This Quarter"
	case TimeframeThisYear:
		return "This Year"
	case TimeframeAll:
		return "All Time"
	case TimeframeCustom:
		return "Custom Range"
	}

	return "Unknown"
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Range returns the half-open period [From, To) for t as seen at now.
func (t Timeframe) Range(now time.Time) report.Range {
	today := day(now)
	tomorrow := today.AddDate(0, 0, 1)

	switch t {
	case TimeframeThisWeek:
		offset := (int(today.Weekday()) + 6) % 7 // weeks start on Monday
		return report.Range{From: today.AddDate(0, 0, -offset), To: tomorrow}
	case TimeframeThisMonth:
		return report.Range{From: today.AddDate(0, 0, 1-today.Day()), To: tomorrow}
	case TimeframeLastMonth:
		first := today.AddDate(0, 0, 1-today.Day())
		return report.Range{From: first.AddDate(0, -1, 0), To: first}
	case TimeframeThisQuarter:
		month := time.Month((int(today.Month())-1)/3*3 + 1)
		return report.Range{From: time.Date(today.Year(), month, 1, 0, 0, 0, 0, time.UTC), To: tomorrow}
	case TimeframeThisYear:
		return report.Range{From: time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC), To: tomorrow}
	}

	return report.Range{From: allTimeStart, To: tomorrow}
}

// TimeframeSelectedMsg is emitted when the user has settled on a period.
type TimeframeSelectedMsg struct {
	Range report.Range
}

type timeframeState int

const (
	timeframeStateSelect timeframeState = iota
	timeframeStateCustom
)

// TimeframePicker is a reusable component for selecting a reporting period.
type TimeframePicker struct {
	state    timeframeState
	selected Timeframe
	now      func() time.Time

	startInput textinput.Model
	endInput   textinput.Model
	focusIndex int

	err error
}

func dateInput(prompt string) textinput.Model {
	in := textinput.New()
	in.Placeholder = "YYYY-MM-DD"
	in.CharLimit = 10
	in.Width = 12
	in.Prompt = prompt

	return in
}

// NewTimeframePicker creates a picker with initial pre-selected.
func NewTimeframePicker(initial Timeframe) TimeframePicker {
	return TimeframePicker{
		state:      timeframeStateSelect,
		selected:   initial,
		now:        time.Now,
		startInput: dateInput("From: "),
		endInput:   dateInput("To:   "),
	}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case timeframeStateSelect:
			return m.updateSelect(keyMsg)
		case timeframeStateCustom:
			if next, cmd, handled := m.updateCustom(keyMsg); handled {
				return next, cmd
			}
		}
	}

	if m.state == timeframeStateCustom {
		return m.updateInputs(msg)
	}

	return m, nil
}

func selectRange(r report.Range) tea.Cmd {
	return func() tea.Msg {
		return TimeframeSelectedMsg{Range: r}
	}
}

func (m TimeframePicker) updateSelect(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > TimeframeThisWeek {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < TimeframeCustom {
			m.selected++
		}
	case tea.KeyEnter:
		if m.selected != TimeframeCustom {
			return m, selectRange(m.selected.Range(m.now()))
		}

		m.state = timeframeStateCustom
		m.startInput.Focus()
		m.focusIndex = 0
		return m, textinput.Blink
	}

	return m, nil
}

// parseCustom reads the inclusive day range typed by the user.
func parseCustom(from, to string) (report.Range, error) {
	start, err := time.Parse(time.DateOnly, strings.TrimSpace(from))
	if err != nil {
		return report.Range{}, errors.New("invalid start date (YYYY-MM-DD)")
	}

	end, err := time.Parse(time.DateOnly, strings.TrimSpace(to))
	if err != nil {
		return report.Range{}, errors.New("invalid end date (YYYY-MM-DD)")
	}

	if end.Before(start) {
		return report.Range{}, errors.New("end date is before start date")
	}

	return report.Range{From: start, To: end.AddDate(0, 0, 1)}, nil
}

func (m TimeframePicker) updateCustom(msg tea.KeyMsg) (TimeframePicker, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.startInput.Blur()
		m.endInput.Blur()
		if m.focusIndex == 0 {
			m.startInput.Focus()
		} else {
			m.endInput.Focus()
		}
		return m, textinput.Blink, true

	case "enter":
		r, err := parseCustom(m.startInput.Value(), m.endInput.Value())
		if err != nil {
			m.err = err
			return m, nil, true
		}

		m.err = nil
		return m, selectRange(r), true

	case "esc":
		m.state = timeframeStateSelect
		m.err = nil
		return m, nil, true
	}

	return m, nil, false
}

func (m TimeframePicker) updateInputs(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	var cmds []tea.Cmd
	var c tea.Cmd

	m.startInput, c = m.startInput.Update(msg)
	cmds = append(cmds, c)
	m.endInput, c = m.endInput.Update(msg)
	cmds = append(cmds, c)

	return m, tea.Batch(cmds...)
}

func (m TimeframePicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == timeframeStateCustom {
		return fmt.Sprintf(
			"Requested between (inclusive):\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)%s",
			m.startInput.View(),
			m.endInput.View(),
			errStr,
		)
	}

	s := "Select Period:\n\n"
	for i := TimeframeThisWeek; i <= TimeframeCustom; i++ {
		cursor := " "
		if m.selected == i {
			cursor = ">"
		}
		s += fmt.Sprintf("%s %s\n", cursor, i.String())
	}
	s += "\n(Enter to select, Esc to back)"

	return s + errStr
}

// IsSelecting reports whether the picker shows the period list rather than custom inputs.
func (m TimeframePicker) IsSelecting() bool {
	return m.state == timeframeStateSelect
}

// Reset returns the picker to its initial selection state.
func (m *TimeframePicker) Reset() {
	m.state = timeframeStateSelect
	m.err = nil
	m.startInput.SetValue("")
	m.endInput.SetValue("")
}
