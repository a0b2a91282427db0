package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fieldservice/internal/order"
)

const slotLayout = "2006-01-02 15:04"

type ordersState int

const (
	ordersStateBrowse ordersState = iota
	ordersStateComplete
	ordersStateReprogram
)

var stateFilters = []*order.State{
	nil,
	new(order.StateDraft),
	new(order.StateScheduled),
	new(order.StateInProgress),
	new(order.StateCompleted),
	new(order.StateCancelled),
}

type OrdersModel struct {
	CommonModel
	orderService *order.Service

	state  ordersState
	table  table.Model
	orders []*order.Order
	form   *huh.Form

	stateFilterIdx int
	dateFilterIdx  int

	filter  order.ListFilter
	loading bool
	err     error
	status  string

	// Form bindings
	formNotes   string
	formInvoice bool
	formDate    string
	formReason  string
}

func NewOrdersModel(orderSvc *order.Service) OrdersModel {
	columns := []table.Column{
		{Title: "Reference", Width: 10},
		{Title: "Requested", Width: 12},
		{Title: "State", Width: 12},
		{Title: "Customer", Width: 24},
		{Title: "Technician", Width: 18},
		{Title: "Scheduled", Width: 17},
		{Title: "Total", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return OrdersModel{
		orderService: orderSvc,
		table:        t,
		filter:       order.ListFilter{Sort: order.SortDate},
	}
}

func (m OrdersModel) Title() string { return "Service Orders" }

func (m OrdersModel) ShortHelp() string {
	if m.state != ordersStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | p: schedule | t: start | c: complete | g: reprogram | x: cancel | s/d: filters | r: refresh"
}

func (m OrdersModel) Init() tea.Cmd {
	return m.loadOrdersCmd()
}

func (m OrdersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadOrdersMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.orders = msg.orders
		m.refreshTable()
		return m, nil

	case orderActionMsg:
		m.status = msg.describe()
		m.state = ordersStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadOrdersCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case ordersStateBrowse:
		return m.updateBrowse(msg)
	case ordersStateComplete, ordersStateReprogram:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m OrdersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadOrdersCmd()
		case "s":
			m.stateFilterIdx = (m.stateFilterIdx + 1) % len(stateFilters)
			m.applyFilter()
			return m, m.loadOrdersCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % 3
			m.applyFilter()
			return m, m.loadOrdersCmd()
		case "p":
			return m, m.actionCmd("Scheduled", func(o *order.Order) (*order.Result, error) {
				ctx, cancel := DbCtx()
				defer cancel()
				return m.orderService.Schedule(ctx, o.ID, nil)
			})
		case "t":
			return m, m.actionCmd("Started", func(o *order.Order) (*order.Result, error) {
				ctx, cancel := DbCtx()
				defer cancel()
				return m.orderService.Start(ctx, o.ID)
			})
		case "x":
			return m, m.actionCmd("Cancelled", func(o *order.Order) (*order.Result, error) {
				ctx, cancel := DbCtx()
				defer cancel()
				return m.orderService.Cancel(ctx, o.ID)
			})
		case "c":
			return m.enterComplete()
		case "g":
			return m.enterReprogram()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m OrdersModel) selected() *order.Order {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.orders) {
		return nil
	}

	return m.orders[idx]
}

func (m OrdersModel) enterComplete() (tea.Model, tea.Cmd) {
	if m.selected() == nil {
		return m, nil
	}

	m.formNotes = ""
	m.formInvoice = true

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Key("notes").
				Title("Work notes").
				Value(&m.formNotes),

			huh.NewConfirm().
				Key("invoice").
				Title("Generate invoice now?").
				Value(&m.formInvoice),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ordersStateComplete
	m.table.Blur()
	return m, m.form.Init()
}

func (m OrdersModel) enterReprogram() (tea.Model, tea.Cmd) {
	o := m.selected()
	if o == nil {
		return m, nil
	}

	m.formDate = FormatSlot(o.DateScheduled)
	if o.DateScheduled == nil {
		m.formDate = ""
	}
	m.formReason = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("date").
				Title("New appointment").
				Placeholder(slotLayout).
				Value(&m.formDate).
				Validate(func(s string) error {
					if _, err := time.ParseInLocation(slotLayout, strings.TrimSpace(s), time.Local); err != nil {
						return errors.New("use YYYY-MM-DD HH:MM")
					}
					return nil
				}),

			huh.NewInput().
				Key("reason").
				Title("Reason").
				Value(&m.formReason).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("a reason is required")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ordersStateReprogram
	m.table.Blur()
	return m, m.form.Init()
}

func (m OrdersModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = ordersStateBrowse
			m.form = nil
			m.table.Focus()
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

	if m.state == ordersStateComplete {
		params := order.CompleteParams{
			Notes:   m.form.GetString("notes"),
			Invoice: m.form.GetBool("invoice"),
		}

		return m, m.actionCmd("Completed", func(o *order.Order) (*order.Result, error) {
			ctx, cancel := DbCtx()
			defer cancel()
			return m.orderService.Complete(ctx, o.ID, params)
		})
	}

	date, _ := time.ParseInLocation(slotLayout, strings.TrimSpace(m.form.GetString("date")), time.Local)
	reason := m.form.GetString("reason")

	return m, m.actionCmd("Reprogrammed", func(o *order.Order) (*order.Result, error) {
		ctx, cancel := DbCtx()
		defer cancel()
		return m.orderService.Reprogram(ctx, o.ID, date, reason)
	})
}

func (m OrdersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading orders...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	stateLabel := "All"
	if f := stateFilters[m.stateFilterIdx]; f != nil {
		stateLabel = string(*f)
	}
	dateLabels := []string{"All Time", "This Month", "Last Month"}

	header := fmt.Sprintf(
		"Filter: [s] State: %s | [d] Requested: %s",
		activeStyle(stateLabel),
		activeStyle(dateLabels[m.dateFilterIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != ordersStateBrowse && m.form != nil {
		title := "Complete Order"
		if m.state == ordersStateReprogram {
			title = "Reprogram Order"
		}

		desc := ""
		if o := m.selected(); o != nil {
			desc = fmt.Sprintf("%s  %s", o.Reference, o.Description)
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s\n\n%s", title, desc, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *OrdersModel) applyFilter() {
	m.filter.State = stateFilters[m.stateFilterIdx]

	now := time.Now()
	switch m.dateFilterIdx {
	case 1:
		s := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		e := s.AddDate(0, 1, 0)
		m.filter.From = &s
		m.filter.To = &e
	case 2:
		s := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		e := s.AddDate(0, 1, 0)
		m.filter.From = &s
		m.filter.To = &e
	default:
		m.filter.From = nil
		m.filter.To = nil
	}
}

func (m *OrdersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.orders))
	for _, o := range m.orders {
		technician := o.TechnicianName
		if technician == "" {
			technician = "-"
		}
		rows = append(rows, table.Row{
			o.Reference,
			FormatDate(o.DateRequested),
			string(o.State),
			o.CustomerName,
			technician,
			FormatSlot(o.DateScheduled),
			FormatMoney(o.Total()),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadOrdersMsg struct {
	orders []*order.Order
	err    error
}

func (m OrdersModel) loadOrdersCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		orders, err := m.orderService.List(ctx, m.filter)
		return loadOrdersMsg{orders: orders, err: err}
	}
}

type orderActionMsg struct {
	verb   string
	result *order.Result
	err    error
}

func (msg orderActionMsg) describe() string {
	if msg.err != nil {
		return fmt.Sprintf("Error: %v", msg.err)
	}

	s := fmt.Sprintf("%s %s", msg.verb, msg.result.Order.Reference)
	if o := msg.result.Order; o.DateScheduled != nil && o.TechnicianName != "" {
		s += fmt.Sprintf(" (%s, %s)", o.TechnicianName, FormatSlot(o.DateScheduled))
	}
	for _, w := range msg.result.Warnings {
		s += fmt.Sprintf(" | warning: %v", w)
	}

	return s
}

func (m OrdersModel) actionCmd(verb string, fn func(o *order.Order) (*order.Result, error)) tea.Cmd {
	o := m.selected()
	if o == nil {
		return nil
	}

	return func() tea.Msg {
		res, err := fn(o)
		return orderActionMsg{verb: verb, result: res, err: err}
	}
}
