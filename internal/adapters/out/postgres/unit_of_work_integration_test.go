package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	postgresadapter "orderportal/internal/adapters/out/postgres"
	"orderportal/internal/adapters/out/postgres/formrepo"
	"orderportal/internal/adapters/out/postgres/orderrepo"
	"orderportal/internal/core/domain/model/form"
	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/core/domain/model/order"
	"orderportal/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies transaction coordination across the
// order and form repositories against a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
	testForm  *form.Form
	nextSeq   int
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.OrderNumberDTO{}, &formrepo.FormDTO{}))

	suite.factory = postgresadapter.NewGormUnitOfWorkFactory(db)

	suite.testForm, err = form.NewForm(kernel.NewUUID(), "Analysis request", []form.FieldDefinition{
		{ID: "sample_name", Label: "Sample name", Type: form.TypeString, Required: true},
		{ID: "contact_email", Label: "Contact email", Type: form.TypeEmail},
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.testForm.SetStatus(form.FormEnabled))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, forms").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

// createTestOrder creates a valid order with a unique number per call.
func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder() *order.Order {
	suite.nextSeq++
	o, err := order.NewOrder(kernel.NewUUID(), fmt.Sprintf("ORD-%06d", suite.nextSeq),
		suite.testForm, "HPLC run", "r.daneel", "preparation")
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestForm() *form.Form {
	f, err := form.NewForm(kernel.NewUUID(), "Sequencing request", []form.FieldDefinition{
		{ID: "organism", Label: "Organism", Type: form.TypeString, Required: true},
	})
	suite.Require().NoError(err)
	return f
}

func (suite *UnitOfWorkIntegrationTestSuite) TestFactory_CreatesIsolatedInstances() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2)
	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.FormRepository())
	suite.NotNil(uow2.OrderRepository())
	suite.NotNil(uow2.FormRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	// Repeated Begin on the same instance must not open a nested transaction.
	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitWithoutBegin_Fails() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsChanges() {
	ctx := context.Background()
	uow := suite.factory.Create()
	testOrder := suite.createTestOrder()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	// Visible inside the transaction before commit.
	inTx, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), inTx.ID())

	suite.Require().NoError(uow.Commit(ctx))

	loaded, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), loaded.ID())
	suite.Equal(testOrder.Number(), loaded.Number())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_SpansBothRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()
	testForm := suite.createTestForm()
	testOrder := suite.createTestOrder()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.FormRepository().Add(ctx, testForm))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.Commit(ctx))

	newUow := suite.factory.Create()

	loadedForm, err := newUow.FormRepository().Get(ctx, testForm.ID())
	suite.Require().NoError(err)
	suite.Equal("Sequencing request", loadedForm.Title())

	loadedOrder, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), loadedOrder.ID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsChanges() {
	ctx := context.Background()
	uow := suite.factory.Create()
	testForm := suite.createTestForm()
	testOrder := suite.createTestOrder()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.FormRepository().Add(ctx, testForm))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	_, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(uow.Rollback(ctx))

	newUow := suite.factory.Create()

	_, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err, "order should not exist after rollback")

	_, err = newUow.FormRepository().Get(ctx, testForm.ID())
	suite.Require().Error(err, "form should not exist after rollback")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_AfterFailedOperation() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Persisted before the transaction, must survive the rollback.
	existing := suite.createTestOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, existing))

	suite.Require().NoError(uow.Begin(ctx))

	fresh := suite.createTestOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, fresh))

	duplicate, err := order.RestoreOrder(
		existing.ID(),
		existing.Number(),
		existing.FormID(),
		existing.FormVersion(),
		existing.Title(),
		existing.Owner(),
		existing.Status(),
		existing.Version(),
		existing.Values(),
		existing.Invalid(),
		existing.History(),
		existing.Tags(),
		existing.ExternalLinks(),
		existing.Attachments(),
		existing.CreatedAt(),
		existing.UpdatedAt(),
	)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, duplicate)
	suite.Require().Error(err, "adding a duplicate order should fail")

	suite.Require().NoError(uow.Rollback(ctx))

	newUow := suite.factory.Create()

	_, err = newUow.OrderRepository().Get(ctx, existing.ID())
	suite.Require().NoError(err, "pre-existing order should survive the rollback")

	_, err = newUow.OrderRepository().Get(ctx, fresh.ID())
	suite.Require().Error(err, "order added inside the rolled-back transaction should be gone")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentTransactions_AreIsolated() {
	ctx := context.Background()

	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	order1 := suite.createTestOrder()
	order2 := suite.createTestOrder()

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))

	suite.Require().NoError(uow1.OrderRepository().Add(ctx, order1))
	suite.Require().NoError(uow2.OrderRepository().Add(ctx, order2))

	_, err := uow1.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err)
	_, err = uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "uncommitted changes of another transaction must be invisible")

	_, err = uow2.OrderRepository().Get(ctx, order2.ID())
	suite.Require().NoError(err)
	_, err = uow2.OrderRepository().Get(ctx, order1.ID())
	suite.Require().Error(err)

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	newUow := suite.factory.Create()
	_, err = newUow.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err)
	_, err = newUow.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestWithoutTransaction_AutoCommits() {
	ctx := context.Background()
	uow := suite.factory.Create()
	testOrder := suite.createTestOrder()

	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	loaded, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), loaded.ID())
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
