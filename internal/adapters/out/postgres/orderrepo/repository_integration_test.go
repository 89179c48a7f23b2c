package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"orderportal/internal/adapters/out/postgres/orderrepo"
	"orderportal/internal/core/domain/model/form"
	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/core/domain/model/order"
	"orderportal/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite verifies order persistence against a
// real PostgreSQL instance, including the optimistic-concurrency guard.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
	testForm   *form.Form
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderNumberDTO{}))

	suite.testForm, err = form.NewForm(kernel.NewUUID(), "Analysis request", []form.FieldDefinition{
		{ID: "sample_name", Label: "Sample name", Type: form.TypeString, Required: true},
		{ID: "contact_email", Label: "Contact email", Type: form.TypeEmail},
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.testForm.SetStatus(form.FormEnabled))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-000001", suite.testForm,
		"HPLC run", "r.daneel", "preparation")
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(int64(1), count)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_RoundTripPreservesState() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.Require().NoError(testOrder.PopulateField("sample_name", "caffeine"))
	suite.Require().NoError(testOrder.SetTags([]string{"alpha", "lims:123"}, kernel.RoleStaff))
	suite.Require().NoError(testOrder.SetExternalLinks([]order.ExternalLink{
		{Href: "https://lims.example.org/runs/7", Title: "LIMS run"},
	}))
	testOrder.AddAttachment("spec.pdf")
	suite.Require().NoError(testOrder.SetStatus("submitted", "2026-03-01"))

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	loaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Equal(testOrder.ID(), loaded.ID())
	suite.Equal("ORD-000001", loaded.Number())
	suite.Equal(suite.testForm.ID(), loaded.FormID())
	suite.Equal("HPLC run", loaded.Title())
	suite.Equal("r.daneel", loaded.Owner())
	suite.Equal("submitted", loaded.Status())
	suite.Equal(1, loaded.Version())

	v, ok := loaded.FieldValue("sample_name")
	suite.True(ok)
	suite.Equal("caffeine", v)

	suite.Equal([]string{"alpha", "lims:123"}, loaded.Tags())
	suite.Equal("2026-03-01", loaded.History()["submitted"])
	suite.Require().Len(loaded.ExternalLinks(), 1)
	suite.Equal("https://lims.example.org/runs/7", loaded.ExternalLinks()[0].Href)
	suite.Equal([]string{"spec.pdf"}, loaded.Attachments())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetByNumber() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	loaded, err := suite.repository.GetByNumber(ctx, "ORD-000001")
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), loaded.ID())

	_, err = suite.repository.GetByNumber(ctx, "ORD-999999")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_BumpsVersion() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.Require().NoError(testOrder.SetTags([]string{"alpha"}, kernel.RoleUser))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	loaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(2, loaded.Version())
	suite.Equal([]string{"alpha"}, loaded.Tags())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleAggregate_VersionConflict() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	// Two loads of the same order simulate two concurrent editors.
	first, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.SetTags([]string{"alpha"}, kernel.RoleUser))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.SetTags([]string{"beta"}, kernel.RoleUser))
	err = suite.repository.Update(ctx, second)
	suite.Require().ErrorIs(err, errs.ErrVersionConflict)

	// The first writer's change is the one that stuck.
	loaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal([]string{"alpha"}, loaded.Tags())
	suite.Equal(2, loaded.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestNextNumber_Monotonic() {
	ctx := context.Background()

	first, err := suite.repository.NextNumber(ctx)
	suite.Require().NoError(err)

	second, err := suite.repository.NextNumber(ctx)
	suite.Require().NoError(err)

	suite.Greater(second, first)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
