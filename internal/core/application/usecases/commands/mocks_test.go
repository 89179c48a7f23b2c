package commands_test

import (
	"context"
	"errors"
	"testing"

	"orderportal/internal/core/application/usecases/commands"
	"orderportal/internal/core/domain/model/form"
	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/core/domain/model/order"
	"orderportal/internal/core/domain/services/autopopulate"
	"orderportal/internal/core/domain/services/workflow"
	"orderportal/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *MockOrderRepository) GetByNumber(_ context.Context, _ string) (*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockOrderRepository) GetAllInStatus(_ context.Context, _ string) ([]*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockOrderRepository) NextNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockFormRepository struct{ mock.Mock }

func (m *MockFormRepository) Add(_ context.Context, _ *form.Form) error {
	return errors.New("not implemented in mock")
}
func (m *MockFormRepository) Update(_ context.Context, _ *form.Form) error {
	return errors.New("not implemented in mock")
}
func (m *MockFormRepository) Get(ctx context.Context, id kernel.UUID) (*form.Form, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*form.Form), args.Error(1)
}

// MockUoW satisfies both commands.UoW and commands.OrderUoW, so one mock
// serves every handler.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}
func (m *MockUoW) FormRepository() ports.FormRepository {
	args := m.Called()
	return args.Get(0).(ports.FormRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, event ports.Event) {
	m.Called(ctx, event)
}

type MockProfileProvider struct{ mock.Mock }

func (m *MockProfileProvider) AccountProfile(ctx context.Context, owner string) (autopopulate.AccountProfile, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(autopopulate.AccountProfile), args.Error(1)
}
func (m *MockProfileProvider) UniversityProfile(ctx context.Context, owner string) (autopopulate.UniversityProfile, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(autopopulate.UniversityProfile), args.Error(1)
}

// Shared fixtures backing the handler tests.

func testForm(t *testing.T) *form.Form {
	t.Helper()
	f, err := form.NewForm(kernel.NewUUID(), "Analysis request", []form.FieldDefinition{
		{ID: "sample_name", Label: "Sample name", Type: form.TypeString, Required: true},
		{ID: "contact_email", Label: "Contact email", Type: form.TypeEmail},
	})
	require.NoError(t, err)
	require.NoError(t, f.SetStatus(form.FormEnabled))
	return f
}

func testEngine(t *testing.T) workflow.Engine {
	t.Helper()
	config, err := workflow.NewConfig(
		[]workflow.StatusDefinition{
			{ID: "preparation", Enabled: true,
				EditRoles: []kernel.Role{kernel.RoleUser, kernel.RoleStaff}},
			{ID: "submitted", Enabled: true, Action: "Submit",
				EditRoles: []kernel.Role{kernel.RoleStaff}},
			{ID: "finished", Enabled: true, Action: "Finish"},
		},
		[]workflow.TransitionDefinition{
			{Source: "preparation", Targets: []string{"submitted"},
				Roles: []kernel.Role{kernel.RoleUser, kernel.RoleStaff}, RequireValid: true},
			{Source: "submitted", Targets: []string{"preparation", "finished"},
				Roles: []kernel.Role{kernel.RoleStaff}},
		},
	)
	require.NoError(t, err)
	return workflow.NewEngine(config)
}

func testOrder(t *testing.T, f *form.Form) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-000001", f, "HPLC run", "r.daneel", "preparation")
	require.NoError(t, err)
	require.NoError(t, o.PopulateField("sample_name", "caffeine"))
	return o
}
