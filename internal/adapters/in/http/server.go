// Package http exposes the portal's order operations over a JSON API.
// It coordinates between HTTP handlers and application use cases; session
// authentication sits in front of this service, which trusts the acting
// role delivered in the X-Portal-Role header.
package http

import (
	"errors"
	"net/http"

	"orderportal/internal/core/application/usecases/commands"
	"orderportal/internal/core/application/usecases/queries"
	"orderportal/internal/core/domain/model/form"
	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/core/domain/model/order"
	"orderportal/internal/core/domain/services/validation"
	"orderportal/internal/core/domain/services/workflow"
	"orderportal/internal/core/ports"
	"orderportal/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// RoleHeader carries the acting role of the authenticated caller.
const RoleHeader = "X-Portal-Role"

// Server handles the order API endpoints.
type Server struct {
	// Command handlers
	createOrderHandler     commands.CreateOrderCommandHandler
	updateFieldsHandler    commands.UpdateOrderFieldsCommandHandler
	applyTransitionHandler commands.ApplyTransitionCommandHandler
	cloneOrderHandler      commands.CloneOrderCommandHandler
	setTagsHandler         commands.SetOrderTagsCommandHandler
	setLinksHandler        commands.SetExternalLinksCommandHandler

	// Query handlers
	ordersInStatusHandler queries.GetOrdersInStatusQueryHandler

	// Read path for single aggregates
	uowFactory ports.UnitOfWorkFactory
	engine     workflow.Engine
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	updateFieldsHandler commands.UpdateOrderFieldsCommandHandler,
	applyTransitionHandler commands.ApplyTransitionCommandHandler,
	cloneOrderHandler commands.CloneOrderCommandHandler,
	setTagsHandler commands.SetOrderTagsCommandHandler,
	setLinksHandler commands.SetExternalLinksCommandHandler,
	ordersInStatusHandler queries.GetOrdersInStatusQueryHandler,
	uowFactory ports.UnitOfWorkFactory,
	engine workflow.Engine,
) *Server {
	return &Server{
		createOrderHandler:     createOrderHandler,
		updateFieldsHandler:    updateFieldsHandler,
		applyTransitionHandler: applyTransitionHandler,
		cloneOrderHandler:      cloneOrderHandler,
		setTagsHandler:         setTagsHandler,
		setLinksHandler:        setLinksHandler,
		ordersInStatusHandler:  ordersInStatusHandler,
		uowFactory:             uowFactory,
		engine:                 engine,
	}
}

// RegisterRoutes mounts the API on the given echo instance.
func RegisterRoutes(e *echo.Echo, s *Server) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id/fields", s.UpdateOrderFields)
	api.GET("/orders/:id/transitions", s.GetTransitions)
	api.POST("/orders/:id/transitions", s.ApplyTransition)
	api.POST("/orders/:id/clone", s.CloneOrder)
	api.PUT("/orders/:id/tags", s.SetTags)
	api.PUT("/orders/:id/links", s.SetLinks)
	e.GET("/health", s.Health)
}

// role reads the acting role from the request header. An absent header
// means an ordinary authenticated user.
func role(ctx echo.Context) (kernel.Role, error) {
	header := ctx.Request().Header.Get(RoleHeader)
	if header == "" {
		return kernel.RoleUser, nil
	}
	return kernel.ParseRole(header)
}

// orderID parses the :id path parameter.
func orderID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}

// writeError maps domain errors onto HTTP status codes.
func writeError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrVersionConflict),
		errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrDuplicateIdentifier):
		code = http.StatusConflict
	case errors.Is(err, commands.ErrOrderNotEditable),
		errors.Is(err, order.ErrHistoryEditForbidden):
		code = http.StatusForbidden
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, Error{Code: code, Message: err.Error()})
}

// orderToResponse builds the API representation of an order. Fields
// marked read-restricted in the schema are removed for non-staff callers.
func orderToResponse(o *order.Order, schema *form.FlatSchema, r kernel.Role) Order {
	values := make(map[string]any, len(o.Values()))
	for id, v := range o.Values() {
		values[id] = v
	}
	if !r.IsStaff() {
		for _, f := range schema.Fields() {
			if f.RestrictRead {
				delete(values, f.ID)
			}
		}
	}

	links := make([]Link, 0, len(o.ExternalLinks()))
	for _, l := range o.ExternalLinks() {
		links = append(links, Link{Href: l.Href, Title: l.Title})
	}

	return Order{
		ID:          o.ID().String(),
		Number:      o.Number(),
		FormID:      o.FormID().String(),
		FormVersion: o.FormVersion(),
		Title:       o.Title(),
		Owner:       o.Owner(),
		Status:      o.Status(),
		Values:      values,
		Invalid:     o.Invalid(),
		History:     o.History(),
		Tags:        o.Tags(),
		Links:       links,
		Attachments: o.Attachments(),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	formID, err := kernel.UUIDFromString(req.FormID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid form id: " + err.Error(),
		})
	}

	id := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(id, formID, req.Title, req.Owner)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order data: " + err.Error(),
		})
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: id.String()})
}

// ListOrders handles GET /api/v1/orders?status=... - lists orders in one status.
func (s *Server) ListOrders(ctx echo.Context) error {
	query, err := queries.NewGetOrdersInStatusQuery(ctx.QueryParam("status"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid status: " + err.Error(),
		})
	}

	orders, err := s.ordersInStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]OrderListItem, len(orders))
	for i, o := range orders {
		response[i] = OrderListItem{
			ID:        o.ID.String(),
			Number:    o.Number,
			Title:     o.Title,
			Owner:     o.Owner,
			Status:    o.Status,
			UpdatedAt: o.UpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	id, err := orderID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	r, err := role(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid role",
		})
	}

	uow := s.uowFactory.Create()
	o, err := uow.OrderRepository().Get(ctx.Request().Context(), id)
	if err != nil {
		return writeError(ctx, err)
	}

	f, err := uow.FormRepository().Get(ctx.Request().Context(), o.FormID())
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderToResponse(o, f.Schema(), r))
}

// UpdateOrderFields handles PATCH /api/v1/orders/:id/fields.
// The body is a partial map of field identifiers to submitted values;
// identifiers not in the body keep their stored values.
func (s *Server) UpdateOrderFields(ctx echo.Context) error {
	id, err := orderID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	r, err := role(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid role",
		})
	}

	var updates map[string]any
	if err = ctx.Bind(&updates); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewUpdateOrderFieldsCommand(id, updates, r, false)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid update: " + err.Error(),
		})
	}

	if err = s.updateFieldsHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetTransitions handles GET /api/v1/orders/:id/transitions - lists the
// statuses the order can move to for the acting role.
func (s *Server) GetTransitions(ctx echo.Context) error {
	id, err := orderID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	r, err := role(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid role",
		})
	}

	uow := s.uowFactory.Create()
	o, err := uow.OrderRepository().Get(ctx.Request().Context(), id)
	if err != nil {
		return writeError(ctx, err)
	}

	f, err := uow.FormRepository().Get(ctx.Request().Context(), o.FormID())
	if err != nil {
		return writeError(ctx, err)
	}

	// The persisted invalid map can be stale when the form's schema
	// changed since the order's last edit; the validity gate must judge
	// the current schema. Re-validation here stays in memory, nothing is
	// saved.
	res := validation.Validate(f.Schema(), o.Values(), nil, validation.Options{Role: r})
	if err = o.ApplyFieldChanges(res.Values, res.Invalid, res.Changed); err != nil {
		return writeError(ctx, err)
	}

	targets := s.engine.AllowedTargets(o, r)
	response := make([]TransitionTarget, len(targets))
	for i, t := range targets {
		response[i] = TransitionTarget{
			ID:          t.ID,
			Description: t.Description,
			Action:      t.Action,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// ApplyTransition handles POST /api/v1/orders/:id/transitions.
func (s *Server) ApplyTransition(ctx echo.Context) error {
	id, err := orderID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	r, err := role(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid role",
		})
	}

	var req ApplyTransitionRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewApplyTransitionCommand(id, req.Target, r)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid transition: " + err.Error(),
		})
	}

	if err = s.applyTransitionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CloneOrder handles POST /api/v1/orders/:id/clone.
func (s *Server) CloneOrder(ctx echo.Context) error {
	id, err := orderID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	newID := kernel.NewUUID()
	cmd, err := commands.NewCloneOrderCommand(id, newID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid clone request: " + err.Error(),
		})
	}

	if err = s.cloneOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: newID.String()})
}

// SetTags handles PUT /api/v1/orders/:id/tags.
func (s *Server) SetTags(ctx echo.Context) error {
	id, err := orderID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	r, err := role(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid role",
		})
	}

	var req SetTagsRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewSetOrderTagsCommand(id, req.Tags, r)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid tags: " + err.Error(),
		})
	}

	if err = s.setTagsHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SetLinks handles PUT /api/v1/orders/:id/links.
func (s *Server) SetLinks(ctx echo.Context) error {
	id, err := orderID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	var req SetLinksRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	links := make([]order.ExternalLink, 0, len(req.Links))
	for _, l := range req.Links {
		links = append(links, order.ExternalLink{Href: l.Href, Title: l.Title})
	}

	cmd, err := commands.NewSetExternalLinksCommand(id, links)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid links: " + err.Error(),
		})
	}

	if err = s.setLinksHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
