package service

import (
	"github.com/rohitpai/travel-desk/internal/domain/entity"
	"github.com/rohitpai/travel-desk/internal/domain/status"
)

// AssertHREligible is the single source of truth for the manager-before-HR
// invariant. It must be re-checked at every HR-side mutation point, not only
// at the start of a request, so two racing HR operators cannot both slip
// through on a stale read.
func AssertHREligible(current status.Status) error {
	if current.IsHREligible() {
		return nil
	}
	return &entity.PolicyViolationError{}
}
