package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fieldservice/internal/report"
)

const reportTimeout = 30 * time.Second

type reportState int

const (
	reportStateTimeframe reportState = iota
	reportStateLoading
	reportStateResult
	reportStatePath
)

type ReportModel struct {
	CommonModel
	reportService *report.Service

	state           reportState
	err             error
	timeframePicker TimeframePicker

	summary *report.Summary
	form    *huh.Form
	path    string
	spinner spinner.Model
	status  string
}

func NewReportModel(svc *report.Service) ReportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ReportModel{
		reportService:   svc,
		state:           reportStateTimeframe,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
		path:            "./reports",
		spinner:         s,
	}
}

func (m ReportModel) Title() string { return "Service Report" }

func (m ReportModel) ShortHelp() string {
	switch m.state {
	case reportStateResult:
		return "Esc: back | w: save workbook"
	case reportStateLoading:
		return "Loading..."
	}
	return "Esc: back | Enter: confirm"
}

func (m ReportModel) Init() tea.Cmd {
	return nil
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tfMsg, ok := msg.(TimeframeSelectedMsg); ok {
		m.state = reportStateLoading
		m.err = nil
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, m.summaryCmd(tfMsg.Range))
	}

	switch m.state {
	case reportStateTimeframe:
		return m.updateTimeframe(msg)
	case reportStateLoading:
		return m.updateLoading(msg)
	case reportStateResult:
		return m.updateResult(msg)
	case reportStatePath:
		return m.updatePath(msg)
	}

	return m, nil
}

func (m ReportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)
	return m, cmd
}

func (m ReportModel) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(summaryMsg); ok {
		m.state = reportStateResult
		m.err = result.err
		m.summary = result.summary
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m ReportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case saveWorkbookMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Saved %s", msg.path)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.state = reportStateTimeframe
			m.timeframePicker.Reset()
			return m, nil
		case "w":
			if m.summary == nil {
				return m, nil
			}
			m.form = m.buildPathForm()
			m.state = reportStatePath
			return m, m.form.Init()
		}
	}

	return m, nil
}

func (m ReportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = reportStateResult
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = reportStateResult
	if path := m.form.GetString("path"); path != "" {
		m.path = path
	}
	return m, m.saveCmd(m.summary, m.path)
}

func (m ReportModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./reports").
				Value(&m.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ReportModel) View() string {
	switch m.state {
	case reportStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case reportStateLoading:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Aggregating service orders...", m.spinner.View()),
		)

	case reportStatePath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case reportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ReportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render(fmt.Sprintf("Service Orders %s to %s",
			FormatDate(m.summary.Range.From), FormatDate(m.summary.Range.To.AddDate(0, 0, -1))))

	parts := []string{header, "", m.summary.Text()}
	if m.status != "" {
		parts = append(parts, "", lipgloss.NewStyle().Faint(true).Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

type summaryMsg struct {
	summary *report.Summary
	err     error
}

func (m ReportModel) summaryCmd(r report.Range) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()

		summary, err := m.reportService.Summary(ctx, r)
		return summaryMsg{summary: summary, err: err}
	}
}

type saveWorkbookMsg struct {
	path string
	err  error
}

func (m ReportModel) saveCmd(summary *report.Summary, dir string) tea.Cmd {
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return saveWorkbookMsg{err: fmt.Errorf("creating output dir: %w", err)}
		}

		path := filepath.Join(dir, summary.Filename())

		f, err := os.Create(path)
		if err != nil {
			return saveWorkbookMsg{err: fmt.Errorf("creating workbook: %w", err)}
		}
		defer f.Close()

		if err := summary.WriteXLSX(f); err != nil {
			return saveWorkbookMsg{err: err}
		}

		return saveWorkbookMsg{path: path}
	}
}
