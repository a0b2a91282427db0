package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/fieldservice/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/fieldservice/internal/config"
	"github.com/MrJamesThe3rd/fieldservice/internal/customer"
	customerStore "github.com/MrJamesThe3rd/fieldservice/internal/customer/store"
	"github.com/MrJamesThe3rd/fieldservice/internal/database"
	"github.com/MrJamesThe3rd/fieldservice/internal/equipment"
	equipmentStore "github.com/MrJamesThe3rd/fieldservice/internal/equipment/store"
	"github.com/MrJamesThe3rd/fieldservice/internal/importer"
	"github.com/MrJamesThe3rd/fieldservice/internal/notify"
	"github.com/MrJamesThe3rd/fieldservice/internal/order"
	orderStore "github.com/MrJamesThe3rd/fieldservice/internal/order/store"
	"github.com/MrJamesThe3rd/fieldservice/internal/report"
	"github.com/MrJamesThe3rd/fieldservice/internal/sequence"
)

type model struct {
	orderService    *order.Service
	reportService   *report.Service
	customerService *customer.Service
	importService   *importer.Service

	currentView View

	ordersView view.OrdersModel
	reportView view.ReportModel
	importView view.ImportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewOrders View = 1
	ViewReport View = 2
	ViewImport View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	issuer, err := newIssuer(cfg, db)
	if err != nil {
		slog.Error("failed to set up reference sequence", "error", err)
		os.Exit(1)
	}

	// The TUI never talks to the broker; notifications go to the log.
	orderSvc := order.NewService(orderStore.New(db), issuer, notify.Log{},
		order.WithWorkHours(order.WorkHours{
			Start:       cfg.Scheduling.WorkdayStart,
			End:         cfg.Scheduling.WorkdayEnd,
			HorizonDays: cfg.Scheduling.HorizonDays,
		}))
	reportSvc := report.NewService(orderSvc)
	customerSvc := customer.NewService(customerStore.New(db))
	impSvc := importer.NewService(equipment.NewService(equipmentStore.New(db)))

	return model{
		orderService:    orderSvc,
		reportService:   reportSvc,
		customerService: customerSvc,
		importService:   impSvc,
		currentView:     ViewMenu,
		ordersView:      view.NewOrdersModel(orderSvc),
		reportView:      view.NewReportModel(reportSvc),
		importView:      view.NewImportModel(customerSvc, impSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewOrders
				m.ordersView = view.NewOrdersModel(m.orderService)

				return m, m.ordersView.Init()
			case "2":
				m.currentView = ViewReport
				m.reportView = view.NewReportModel(m.reportService)

				return m, m.reportView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.customerService, m.importService)

				return m, m.importView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewOrders:
		var newModel tea.Model
		newModel, cmd = m.ordersView.Update(msg)
		m.ordersView = newModel.(view.OrdersModel)
	case ViewReport:
		var newModel tea.Model
		newModel, cmd = m.reportView.Update(msg)
		m.reportView = newModel.(view.ReportModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Field Service TUI\n\n" +
				"1. Service Orders\n" +
				"2. Report\n" +
				"3. Import Equipment\n\n" +
				"q. Quit",
		)
	case ViewOrders:
		current = m.ordersView
	case ViewReport:
		current = m.reportView
	case ViewImport:
		current = m.importView
	default:
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Padding(1, 1, 0).Render(current.Title()),
		current.View(),
		help,
	)
}

// newIssuer must match cmd/api so both binaries draw from the same counter.
func newIssuer(cfg *config.Config, db *sql.DB) (order.Issuer, error) {
	switch cfg.Sequence.Backend {
	case "postgres", "":
		return sequence.NewPostgres(db, "service_order_seq", cfg.Sequence.Prefix, cfg.Sequence.Padding), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		return sequence.NewRedis(client, "fieldservice:service_order_seq", cfg.Sequence.Prefix, cfg.Sequence.Padding), nil
	}

	return nil, fmt.Errorf("unknown sequence backend %q", cfg.Sequence.Backend)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
