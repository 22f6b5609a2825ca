package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/pettracker/pet/internal/amqp"
	"github.com/pettracker/pet/internal/config"
	"github.com/pettracker/pet/internal/database"
	"github.com/pettracker/pet/internal/event_bus"
	"github.com/pettracker/pet/internal/utils"
	"github.com/pettracker/pet/pkg/budget"
	"github.com/pettracker/pet/pkg/category"
	"github.com/pettracker/pet/pkg/dashboard"
	"github.com/pettracker/pet/pkg/expense"
	"github.com/pettracker/pet/pkg/report"
	"github.com/pettracker/pet/pkg/store"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Store    store.Store
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	ExpenseService *expense.ServiceImpl
	ExpenseHandler *expense.Handler

	CategoryService *category.ServiceImpl
	CategoryHandler *category.Handler

	BudgetService *budget.BudgetServiceImpl
	BudgetHandler *budget.BudgetHandler

	DashboardService *dashboard.ServiceImpl
	DashboardHandler *dashboard.Handler

	ReportService     *report.ReportServiceImpl
	CsvReportRenderer *report.CsvReportRendererImpl
	PdfReportRenderer *report.PdfReportRendererImpl
	ReportExporter    report.ReportExporter
	ReportHandler     *report.ReportHandler

	AmqpClient *amqp.Client
	Forwarder  *amqp.Forwarder

	closers []func() error
}

// BuildDependencies opens the configured store and the optional integrations, then wires
// all services and handlers.
func BuildDependencies(ctx context.Context, cfg config.Application) (*Dependencies, error) {
	s, closeStore, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	var exporter report.ReportExporter
	if cfg.Sheets.SpreadsheetId != "" {
		sheetsExporter, err := report.NewSheetsExporter(ctx, cfg.Sheets)
		if err != nil {
			closeStore()
			return nil, err
		}
		exporter = sheetsExporter
		log.Infof("Report export to spreadsheet %s enabled", cfg.Sheets.SpreadsheetId)
	}

	deps := NewDependencies(s, &utils.SystemClock{}, exporter)
	deps.closers = append(deps.closers, closeStore)

	if cfg.Amqp.Url != "" {
		client, err := amqp.NewClient(cfg.Amqp.Url, cfg.Amqp.Exchange)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.AmqpClient = client
		deps.Forwarder = amqp.NewForwarder(client)
		deps.Forwarder.Start(deps.EventBus)
		deps.closers = append(deps.closers, func() error {
			deps.Forwarder.Stop()
			return client.Close()
		})
	}

	return deps, nil
}

// NewDependencies wires services and handlers on top of an already opened store.
func NewDependencies(s store.Store, clock utils.Clock, exporter report.ReportExporter) *Dependencies {
	deps := &Dependencies{Store: s, Clock: clock}
	deps.EventBus = event_bus.NewEventBus()

	deps.ExpenseService = expense.NewService(expense.NewRepository(s), deps.EventBus)
	deps.ExpenseHandler = expense.NewHandler(deps.ExpenseService)

	deps.CategoryService = category.NewService(category.NewRepository(s), deps.EventBus)
	deps.CategoryHandler = category.NewHandler(deps.CategoryService)

	deps.BudgetService = budget.NewBudgetServiceImpl(budget.NewBudgetRepo(s), deps.EventBus, clock)
	deps.BudgetHandler = budget.NewBudgetHandler(deps.BudgetService)

	deps.DashboardService = dashboard.NewService(deps.ExpenseService, deps.BudgetService, deps.CategoryService, clock)
	deps.DashboardHandler = dashboard.NewHandler(deps.DashboardService)

	deps.ReportService = report.NewReportServiceImpl(deps.ExpenseService, clock)
	deps.CsvReportRenderer = report.NewCsvReportRenderer()
	deps.PdfReportRenderer = report.NewPdfReportRenderer()
	deps.ReportExporter = exporter
	deps.ReportHandler = report.NewReportHandler(deps.ReportService, exporter, deps.CsvReportRenderer, deps.PdfReportRenderer)

	return deps
}

// Close releases the store and broker connections in reverse order of opening.
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}

// OpenStore opens and migrates the configured blob store. The returned function closes it.
func OpenStore(cfg config.Application) (store.Store, func() error, error) {
	switch cfg.Store.Type {
	case config.StoreMemory:
		log.Warn("Using in-memory store, data is lost on shutdown")
		return store.NewMemoryStore(), func() error { return nil }, nil
	case config.StoreSQLite:
		db, err := database.OpenSQLite(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigrateSQLite(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Infof("Using SQLite store at %s", cfg.Store.Path)
		return store.NewSQLiteStore(db), db.Close, nil
	case config.StorePostgres:
		if err := database.Migrate(cfg.Database); err != nil {
			return nil, nil, err
		}
		pool, err := database.Open(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("Using Postgres store at %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
		return store.NewPostgresStore(pool), func() error { pool.Close(); return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}
}
