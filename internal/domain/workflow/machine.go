package workflow

import (
	"context"

	"github.com/rohitpai/travel-desk/internal/domain/status"
)

// StateMachine tracks the current status of one travel indent and validates
// which triggers may fire from it
type StateMachine interface {
	// Status returns the current status
	Status() status.Status

	// CanFire returns true if the trigger is permitted in the current status
	CanFire(trigger Trigger) bool

	// Fire attempts to execute the trigger, transitioning to the new status
	// if allowed
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers returns all triggers that can be fired in the
	// current status
	PermittedTriggers() []Trigger
}
