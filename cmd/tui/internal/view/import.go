package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fieldservice/internal/customer"
	"github.com/MrJamesThe3rd/fieldservice/internal/equipment"
	"github.com/MrJamesThe3rd/fieldservice/internal/importer"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateCustomerSelect importState = iota
	importStateFilePick
	importStatePreview
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	customerService *customer.Service
	importService   *importer.Service

	state          importState
	filePicker     filepicker.Model
	customers      []*customer.Customer
	customerCursor int
	selected       *customer.Customer

	path        string
	preview     []equipment.CreateParams
	previewList list.Model

	status string
	err    error
}

func NewImportModel(customerSvc *customer.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		customerService: customerSvc,
		importService:   impSvc,
		filePicker:      fp,
	}
}

func (m ImportModel) Title() string { return "Import Equipment" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "Enter: create all | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.loadCustomersCmd()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStateCustomerSelect:
			return m.updateCustomerSelect(msg)
		case importStatePreview:
			return m.updatePreview(msg)
		}

	case customersMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.customers = msg.customers
		m.customerCursor = 0

		return m, nil

	case previewMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.params) == 0 {
			m.state = importStateResult
			m.status = "The file has no equipment rows."

			return m, nil
		}

		m.preview = msg.params
		m.state = importStatePreview

		items := make([]list.Item, len(m.preview))
		for i, p := range m.preview {
			items[i] = previewItem{params: p}
		}

		m.previewList = list.New(items, previewDelegate{}, 80, 20)
		m.previewList.Title = fmt.Sprintf("%d units for %s", len(m.preview), m.selected.Name)
		m.previewList.SetShowStatusBar(false)
		m.previewList.SetFilteringEnabled(false)
		m.previewList.SetShowHelp(false)

		return m, nil

	case importResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d units.", msg.count)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		m.state = importStateImporting
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.previewCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateCustomerSelect
		return m, nil
	case importStateResult, importStatePreview:
		m.state = importStateCustomerSelect
		m.err = nil
		m.status = ""
		m.preview = nil

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateCustomerSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.customerCursor > 0 {
			m.customerCursor--
		}
	case tea.KeyDown:
		if m.customerCursor < len(m.customers)-1 {
			m.customerCursor++
		}
	case tea.KeyEnter:
		if len(m.customers) == 0 {
			return m, nil
		}

		m.selected = m.customers[m.customerCursor]
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Creating %d units...", len(m.preview))

		return m, m.importCmd(m.path)
	}

	var cmd tea.Cmd
	m.previewList, cmd = m.previewList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateCustomerSelect:
		return m.viewCustomerSelect()
	case importStateFilePick:
		return m.viewFilePick()
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStatePreview:
		return lipgloss.NewStyle().Padding(1).Render(m.previewList.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewCustomerSelect() string {
	if len(m.customers) == 0 {
		return lipgloss.NewStyle().Padding(2).Render("No service customers yet.\n\n(Esc to go back)")
	}

	s := "Select Customer:\n\n"

	for i, c := range m.customers {
		cursor := " "
		if i == m.customerCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, c.Name)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewFilePick() string {
	return lipgloss.NewStyle().Padding(1).Render(
		fmt.Sprintf("Select equipment file for %s:\n\n%s", m.selected.Name, m.filePicker.View()),
	)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status) +
				"\n\n(Esc to go back)",
		)
	}

	return style.Render(
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status) +
			"\n\n(Esc to go back)",
	)
}

// Messages

type customersMsg struct {
	customers []*customer.Customer
	err       error
}

type previewMsg struct {
	params []equipment.CreateParams
	err    error
}

type importResultMsg struct {
	count int
	err   error
}

func (m ImportModel) loadCustomersCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		customers, err := m.customerService.List(ctx, customer.ListFilter{ServiceOnly: true})
		return customersMsg{customers: customers, err: err}
	}
}

func (m ImportModel) previewCmd(path string) tea.Cmd {
	customerID := m.selected.ID

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return previewMsg{err: err}
		}
		defer f.Close()

		params, err := m.importService.Parse(importer.FormatCSV, f, customerID)
		return previewMsg{params: params, err: err}
	}
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	customerID := m.selected.ID

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		created, err := m.importService.Import(ctx, importer.FormatCSV, f, customerID)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{count: len(created)}
	}
}

// Preview list item

type previewItem struct {
	params equipment.CreateParams
}

func (i previewItem) Title() string       { return i.params.Name }
func (i previewItem) Description() string { return i.params.SerialNumber }
func (i previewItem) FilterValue() string { return i.params.Name }

type previewDelegate struct{}

func (d previewDelegate) Height() int                             { return 2 }
func (d previewDelegate) Spacing() int                            { return 0 }
func (d previewDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d previewDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(previewItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	p := item.params

	warranty := "no warranty"
	if p.WarrantyEnd != nil {
		warranty = "warranty until " + FormatDate(*p.WarrantyEnd)
	}

	line1 := fmt.Sprintf("%s%s  %s %s  SN %s", cursor, p.Name, p.Manufacturer, p.Model, p.SerialNumber)
	line2 := fmt.Sprintf("    %s  %s", p.Location, warranty)

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
