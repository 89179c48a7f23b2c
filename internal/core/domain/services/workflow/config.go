// Package workflow implements the order status state machine.
//
// The machine is configuration-driven: the set of statuses and the
// transitions between them are records loaded once at process start and
// frozen into an immutable Config. The Engine answers which transitions an
// acting role may execute on a given order, honoring per-transition role
// lists and the "order must be valid" precondition, and applies approved
// transitions, stamping first-visit dates into the order's history.
package workflow

import (
	"errors"
	"fmt"

	"orderportal/internal/core/domain/model/kernel"
)

// ErrConfiguration marks a malformed status/transition configuration.
// Configuration errors are fatal at startup: the process must not serve
// requests against a workflow it cannot interpret.
var ErrConfiguration = errors.New("workflow configuration is invalid")

// FallbackInitialStatus is promoted to initial when no status carries the
// initial flag. This normalization happens once at configuration load.
const FallbackInitialStatus = "preparation"

// StatusDefinition describes one order status.
type StatusDefinition struct {
	// ID is the status identifier orders carry in their status field.
	ID string

	// Description is the human-readable explanation shown to users.
	Description string

	// Enabled marks the status as a valid order status. Disabled
	// statuses stay configured for history display but cannot be
	// entered.
	Enabled bool

	// Initial marks the status new orders start in. Exactly one status
	// is initial after normalization.
	Initial bool

	// Action is the display label of the action that leads here.
	Action string

	// EditRoles lists the roles that may edit order fields in this
	// status. Admin passes implicitly.
	EditRoles []kernel.Role

	// AttachRoles lists the roles that may attach files in this status.
	// Admin passes implicitly.
	AttachRoles []kernel.Role
}

// TransitionDefinition describes the moves available out of one status.
type TransitionDefinition struct {
	// Source is the status the transition leaves from. At most one
	// transition exists per source.
	Source string

	// Targets lists the statuses reachable from Source.
	Targets []string

	// Roles lists the roles permitted to execute the transition.
	// Unlike edit/attach gates, admin gets no implicit pass here.
	Roles []kernel.Role

	// RequireValid demands an empty invalid map on the order before any
	// target is offered.
	RequireValid bool
}

// Config is the validated, immutable workflow configuration. Construct it
// once at startup with NewConfig or LoadConfig and inject it by reference;
// it is never ambient global state.
type Config struct {
	statuses    []StatusDefinition
	byID        map[string]StatusDefinition
	transitions map[string]TransitionDefinition
	initial     StatusDefinition
}

// NewConfig validates and freezes a workflow configuration.
//
// Normalization and validation rules:
//   - at least one status; identifiers match the identifier pattern and
//     are unique
//   - if no status is flagged initial, the "preparation" status is
//     promoted; zero candidates or more than one initial flag is an error
//   - the initial status must be enabled
//   - at most one transition per source; sources must be configured
//     statuses; targets must be configured, enabled statuses
func NewConfig(statuses []StatusDefinition, transitions []TransitionDefinition) (*Config, error) {
	if len(statuses) == 0 {
		return nil, fmt.Errorf("%w: no statuses configured", ErrConfiguration)
	}

	byID := make(map[string]StatusDefinition, len(statuses))
	for _, status := range statuses {
		if !kernel.IsIdentifier(status.ID) {
			return nil, fmt.Errorf("%w: status identifier %q does not match the identifier pattern",
				ErrConfiguration, status.ID)
		}
		if _, dup := byID[status.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate status %q", ErrConfiguration, status.ID)
		}
		for _, role := range append(append([]kernel.Role(nil), status.EditRoles...), status.AttachRoles...) {
			if err := role.Validate(); err != nil {
				return nil, fmt.Errorf("%w: status %q: %v", ErrConfiguration, status.ID, err)
			}
		}
		byID[status.ID] = status
	}

	normalized, initial, err := normalizeInitial(statuses, byID)
	if err != nil {
		return nil, err
	}

	transitionsBySource := make(map[string]TransitionDefinition, len(transitions))
	for _, transition := range transitions {
		source, ok := byID[transition.Source]
		if !ok {
			return nil, fmt.Errorf("%w: transition source %q is not a configured status",
				ErrConfiguration, transition.Source)
		}
		if _, dup := transitionsBySource[source.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate transition source %q", ErrConfiguration, source.ID)
		}
		if len(transition.Targets) == 0 {
			return nil, fmt.Errorf("%w: transition from %q has no targets", ErrConfiguration, source.ID)
		}
		for _, target := range transition.Targets {
			targetStatus, known := byID[target]
			if !known {
				return nil, fmt.Errorf("%w: transition %q -> %q targets an unconfigured status",
					ErrConfiguration, source.ID, target)
			}
			if !targetStatus.Enabled {
				return nil, fmt.Errorf("%w: transition %q -> %q targets a disabled status",
					ErrConfiguration, source.ID, target)
			}
		}
		for _, role := range transition.Roles {
			if err := role.Validate(); err != nil {
				return nil, fmt.Errorf("%w: transition from %q: %v", ErrConfiguration, source.ID, err)
			}
		}
		transitionsBySource[source.ID] = transition
	}

	byIDNormalized := make(map[string]StatusDefinition, len(normalized))
	for _, status := range normalized {
		byIDNormalized[status.ID] = status
	}

	return &Config{
		statuses:    normalized,
		byID:        byIDNormalized,
		transitions: transitionsBySource,
		initial:     initial,
	}, nil
}

// normalizeInitial resolves the single initial status, promoting the
// fallback when no status carries the flag.
func normalizeInitial(statuses []StatusDefinition, byID map[string]StatusDefinition) ([]StatusDefinition, StatusDefinition, error) {
	var initialIDs []string
	for _, status := range statuses {
		if status.Initial {
			initialIDs = append(initialIDs, status.ID)
		}
	}

	normalized := append([]StatusDefinition(nil), statuses...)

	switch len(initialIDs) {
	case 1:
		// Nothing to normalize.
	case 0:
		if _, ok := byID[FallbackInitialStatus]; !ok {
			return nil, StatusDefinition{}, fmt.Errorf(
				"%w: no initial status and no %q status to promote", ErrConfiguration, FallbackInitialStatus)
		}
		for i := range normalized {
			if normalized[i].ID == FallbackInitialStatus {
				normalized[i].Initial = true
			}
		}
		initialIDs = []string{FallbackInitialStatus}
	default:
		return nil, StatusDefinition{}, fmt.Errorf(
			"%w: multiple initial statuses: %v", ErrConfiguration, initialIDs)
	}

	var initial StatusDefinition
	for _, status := range normalized {
		if status.ID == initialIDs[0] {
			initial = status
		}
	}
	if !initial.Enabled {
		return nil, StatusDefinition{}, fmt.Errorf(
			"%w: initial status %q is disabled", ErrConfiguration, initial.ID)
	}

	return normalized, initial, nil
}

// Statuses returns all configured statuses in configuration order.
func (c *Config) Statuses() []StatusDefinition {
	return c.statuses
}

// Status returns the definition of one status and whether it is configured.
func (c *Config) Status(id string) (StatusDefinition, bool) {
	status, ok := c.byID[id]
	return status, ok
}

// Initial returns the unique initial status.
func (c *Config) Initial() StatusDefinition {
	return c.initial
}

// Transition returns the transition out of the given source status and
// whether one is configured. A missing transition marks a terminal status.
func (c *Config) Transition(source string) (TransitionDefinition, bool) {
	transition, ok := c.transitions[source]
	return transition, ok
}
