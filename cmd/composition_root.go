package cmd

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"orderportal/internal/adapters/in/http"
	"orderportal/internal/adapters/out/eventlog"
	"orderportal/internal/adapters/out/postgres"
	"orderportal/internal/adapters/out/profileapi"
	"orderportal/internal/core/application/usecases/commands"
	"orderportal/internal/core/application/usecases/queries"
	"orderportal/internal/core/domain/services/workflow"
	"orderportal/internal/core/ports"
	"orderportal/internal/jobs"

	"gorm.io/gorm"
)

const defaultStaleOrderAge = 72 * time.Hour

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	engine     workflow.Engine
	publisher  ports.EventPublisher
	profiles   ports.ProfileProvider
	logger     *slog.Logger
}

// NewCompositionRoot wires the application graph. The workflow engine is
// built once from the loaded configuration; a configuration error has
// already aborted startup by the time this runs.
func NewCompositionRoot(configs Config, gormDB *gorm.DB,
	workflowConfig *workflow.Config, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		engine:     workflow.NewEngine(workflowConfig),
		publisher:  eventlog.NewSlogEventPublisher(logger),
		profiles:   profileapi.NewClient(configs.AccountsAPIURL),
		logger:     logger,
	}
}

func (c *CompositionRoot) Engine() workflow.Engine {
	return c.engine
}

func (c *CompositionRoot) UnitOfWorkFactory() ports.UnitOfWorkFactory {
	factory := c.uowFactory
	return &factory
}

// autopopulateSources parses the AUTOPOPULATE_SOURCES setting, a
// comma-separated list of field=profileKey pairs.
func (c *CompositionRoot) autopopulateSources() map[string]string {
	sources := make(map[string]string)
	for _, pair := range strings.Split(c.configs.AutopopulateSources, ",") {
		field, key, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || field == "" || key == "" {
			continue
		}
		sources[field] = key
	}
	return sources
}

func (c *CompositionRoot) staleOrderAge() time.Duration {
	hours, err := strconv.Atoi(c.configs.StaleOrderAgeHours)
	if err != nil || hours <= 0 {
		return defaultStaleOrderAge
	}
	return time.Duration(hours) * time.Hour
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.engine, c.profiles,
		c.autopopulateSources(), c.configs.OrderNumberPattern)
}

func (c *CompositionRoot) CreateUpdateOrderFieldsCommandHandler() commands.UpdateOrderFieldsCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateOrderFieldsCommandHandler(f, c.engine, c.publisher)
}

func (c *CompositionRoot) CreateApplyTransitionCommandHandler() commands.ApplyTransitionCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewApplyTransitionCommandHandler(f, c.engine, c.publisher)
}

func (c *CompositionRoot) CreateCloneOrderCommandHandler() commands.CloneOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCloneOrderCommandHandler(f, c.engine, c.configs.OrderNumberPattern)
}

func (c *CompositionRoot) CreateSetOrderTagsCommandHandler() commands.SetOrderTagsCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetOrderTagsCommandHandler(f)
}

func (c *CompositionRoot) CreateSetExternalLinksCommandHandler() commands.SetExternalLinksCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetExternalLinksCommandHandler(f)
}

func (c *CompositionRoot) CreateGetOrdersInStatusQueryHandler() queries.GetOrdersInStatusQueryHandler {
	return queries.NewGetOrdersInStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStaleOrdersQueryHandler() queries.GetStaleOrdersQueryHandler {
	return queries.NewGetStaleOrdersQueryHandler(c.gormDB)
}

// CreateServer builds the HTTP server with all handlers wired.
func (c *CompositionRoot) CreateServer() *http.Server {
	return http.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateUpdateOrderFieldsCommandHandler(),
		c.CreateApplyTransitionCommandHandler(),
		c.CreateCloneOrderCommandHandler(),
		c.CreateSetOrderTagsCommandHandler(),
		c.CreateSetExternalLinksCommandHandler(),
		c.CreateGetOrdersInStatusQueryHandler(),
		c.UnitOfWorkFactory(),
		c.engine,
	)
}

// CreateJobManager builds the background job manager.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateGetStaleOrdersQueryHandler(),
		c.publisher,
		c.engine,
		c.staleOrderAge(),
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
