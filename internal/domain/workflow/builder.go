package workflow

import (
	"context"
	"fmt"

	"github.com/rohitpai/travel-desk/internal/domain/status"
)

// GuardFunc evaluates whether a transition should be allowed
type GuardFunc func(ctx context.Context) bool

// Builder assembles a configured state machine
type Builder interface {
	// Configure returns a configuration handle for the given status
	Configure(s status.Status) StatusConfiguration

	// Build creates a new state machine instance with the given initial status
	Build(initial status.Status) StateMachine
}

// StatusConfiguration configures outgoing transitions for one status
type StatusConfiguration interface {
	// Permit allows a trigger to transition to the target status
	Permit(trigger Trigger, to status.Status) StatusConfiguration

	// PermitIf allows a trigger to transition to the target status if the
	// guard passes
	PermitIf(trigger Trigger, to status.Status, guard GuardFunc) StatusConfiguration
}

type transition struct {
	to    status.Status
	guard GuardFunc
}

type statusConfig struct {
	from        status.Status
	transitions map[Trigger][]transition
}

type builder struct {
	configurations map[status.Status]*statusConfig
}

type stateMachine struct {
	current        status.Status
	configurations map[status.Status]*statusConfig
}

// NewBuilder creates a new state machine builder
func NewBuilder() Builder {
	return &builder{
		configurations: make(map[status.Status]*statusConfig),
	}
}

func (b *builder) Configure(s status.Status) StatusConfiguration {
	if !s.IsValid() {
		panic(fmt.Sprintf("unknown status: %s", s))
	}

	config, exists := b.configurations[s]
	if !exists {
		config = &statusConfig{
			from:        s,
			transitions: make(map[Trigger][]transition),
		}
		b.configurations[s] = config
	}

	return config
}

func (b *builder) Build(initial status.Status) StateMachine {
	if !initial.IsValid() {
		panic(fmt.Sprintf("unknown initial status: %s", initial))
	}

	// Copy configurations so later builder mutations cannot leak into a
	// machine already handed out.
	configsCopy := make(map[status.Status]*statusConfig, len(b.configurations))
	for s, config := range b.configurations {
		transitionsCopy := make(map[Trigger][]transition, len(config.transitions))
		for trigger, ts := range config.transitions {
			transitionsCopy[trigger] = append([]transition{}, ts...)
		}
		configsCopy[s] = &statusConfig{
			from:        s,
			transitions: transitionsCopy,
		}
	}

	return &stateMachine{
		current:        initial,
		configurations: configsCopy,
	}
}

func (c *statusConfig) Permit(trigger Trigger, to status.Status) StatusConfiguration {
	return c.PermitIf(trigger, to, nil)
}

func (c *statusConfig) PermitIf(trigger Trigger, to status.Status, guard GuardFunc) StatusConfiguration {
	if !to.IsValid() {
		panic(fmt.Sprintf("unknown target status: %s", to))
	}

	c.transitions[trigger] = append(c.transitions[trigger], transition{
		to:    to,
		guard: guard,
	})

	return c
}

func (m *stateMachine) Status() status.Status {
	return m.current
}

func (m *stateMachine) CanFire(trigger Trigger) bool {
	config, exists := m.configurations[m.current]
	if !exists {
		return false
	}

	ts, exists := config.transitions[trigger]
	return exists && len(ts) > 0
}

func (m *stateMachine) Fire(ctx context.Context, trigger Trigger) error {
	config, exists := m.configurations[m.current]
	if !exists {
		return fmt.Errorf("%w: cannot fire %s from %s (no configuration)", ErrInvalidTransition, trigger, m.current)
	}

	ts, exists := config.transitions[trigger]
	if !exists || len(ts) == 0 {
		return fmt.Errorf("%w: cannot fire %s from %s", ErrInvalidTransition, trigger, m.current)
	}

	// First transition whose guard passes wins.
	for _, t := range ts {
		if t.guard == nil || t.guard(ctx) {
			m.current = t.to
			return nil
		}
	}

	return fmt.Errorf("%w: trigger %s from %s", ErrGuardFailed, trigger, m.current)
}

func (m *stateMachine) PermittedTriggers() []Trigger {
	config, exists := m.configurations[m.current]
	if !exists {
		return []Trigger{}
	}

	triggers := make([]Trigger, 0, len(config.transitions))
	for trigger := range config.transitions {
		triggers = append(triggers, trigger)
	}

	return triggers
}
