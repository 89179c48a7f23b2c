package workflow

import (
	"time"

	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/core/domain/model/order"
	"orderportal/internal/pkg/errs"
)

// Engine evaluates and applies status transitions against a frozen Config.
// It is a pure, synchronous computation over in-memory data: safe for
// concurrent use and free of side effects beyond the order it is handed.
type Engine struct {
	config *Config
}

// NewEngine creates an engine over a validated configuration.
func NewEngine(config *Config) Engine {
	return Engine{config: config}
}

// Config returns the engine's configuration.
func (e Engine) Config() *Config {
	return e.config
}

// Initial returns the status new orders start in.
func (e Engine) Initial() StatusDefinition {
	return e.config.Initial()
}

// AllowedTargets computes the statuses the acting role may move the order
// to from its current status.
//
// Selection rules:
//  1. the single transition whose source is the current status; none
//     configured means the status is terminal and nothing is offered
//  2. a require-valid transition offers nothing while the order has
//     invalid fields
//  3. the role must appear in the transition's permission list; admin
//     gets no implicit pass on transitions
//  4. the current status itself is never offered
func (e Engine) AllowedTargets(o *order.Order, role kernel.Role) []StatusDefinition {
	transition, ok := e.config.Transition(o.Status())
	if !ok {
		return nil
	}
	if transition.RequireValid && o.HasInvalidFields() {
		return nil
	}
	if !containsRole(transition.Roles, role) {
		return nil
	}

	targets := make([]StatusDefinition, 0, len(transition.Targets))
	for _, target := range transition.Targets {
		if target == o.Status() {
			continue
		}
		if status, known := e.config.Status(target); known {
			targets = append(targets, status)
		}
	}
	return targets
}

// Apply moves the order to the target status on behalf of the acting role.
//
// The move must be in the currently allowed target set; otherwise an
// InvalidTransitionError describes why it was rejected. On success the
// order's status is updated and history[target] is stamped with now's date
// unless the order visited the target before; first write wins.
//
// Apply only records the transition. Emitting the status_changed event is
// the caller's job, after persistence succeeds, so a failed save never
// produces a phantom notification.
func (e Engine) Apply(o *order.Order, target string, role kernel.Role, now time.Time) error {
	status, known := e.config.Status(target)
	if !known {
		return errs.NewInvalidTransitionError(o.Status(), target, "target is not a configured status")
	}
	if !status.Enabled {
		return errs.NewInvalidTransitionError(o.Status(), target, "target status is disabled")
	}
	if target == o.Status() {
		return errs.NewInvalidTransitionError(o.Status(), target, "order is already in this status")
	}

	transition, ok := e.config.Transition(o.Status())
	if !ok {
		return errs.NewInvalidTransitionError(o.Status(), target, "current status is terminal")
	}
	if transition.RequireValid && o.HasInvalidFields() {
		return errs.NewInvalidTransitionError(o.Status(), target, "order has invalid fields")
	}
	if !containsRole(transition.Roles, role) {
		return errs.NewInvalidTransitionError(o.Status(), target, "role "+role.String()+" is not permitted")
	}
	if !containsTarget(transition.Targets, target) {
		return errs.NewInvalidTransitionError(o.Status(), target, "target is not reachable from current status")
	}

	return o.SetStatus(target, now.UTC().Format(kernel.DateLayout))
}

// CanEdit reports whether the role may edit order fields in the order's
// current status. Admin passes implicitly; an unknown status denies all.
func (e Engine) CanEdit(o *order.Order, role kernel.Role) bool {
	if role.IsAdmin() {
		return true
	}
	status, ok := e.config.Status(o.Status())
	if !ok {
		return false
	}
	return containsRole(status.EditRoles, role)
}

// CanAttach reports whether the role may attach files in the order's
// current status. Admin passes implicitly.
func (e Engine) CanAttach(o *order.Order, role kernel.Role) bool {
	if role.IsAdmin() {
		return true
	}
	status, ok := e.config.Status(o.Status())
	if !ok {
		return false
	}
	return containsRole(status.AttachRoles, role)
}

func containsRole(roles []kernel.Role, role kernel.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func containsTarget(targets []string, target string) bool {
	for _, t := range targets {
		if t == target {
			return true
		}
	}
	return false
}
