package service

import (
	"context"
	"strings"
	"time"

	"github.com/rohitpai/travel-desk/internal/application/port"
	"github.com/rohitpai/travel-desk/internal/domain/entity"
)

// DuplicateGuard blocks a new submission when an active indent already
// exists for the same employee, route and dates.
type DuplicateGuard struct {
	indents port.IndentRepository
	logger  Logger
}

// NewDuplicateGuard creates a new DuplicateGuard
func NewDuplicateGuard(indents port.IndentRepository, logger Logger) *DuplicateGuard {
	return &DuplicateGuard{
		indents: indents,
		logger:  logger,
	}
}

// NormalizePlace normalizes a city name for route comparison
func NormalizePlace(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// EnsureNoDuplicateActive fails with DuplicateTripError when the most recent
// indent for the same employee, normalized route and exact dates is not in a
// duplicate-safe status. Only the single most recent match counts; older
// rows are ignored. excludeIndentID skips the indent currently being edited.
func (g *DuplicateGuard) EnsureNoDuplicateActive(ctx context.Context, employeeID, fromCity, toCity string, start, end time.Time, excludeIndentID string) error {
	match, err := g.indents.FindLatestMatch(ctx, employeeID, NormalizePlace(fromCity), NormalizePlace(toCity), start, end, excludeIndentID)
	if err != nil {
		return err
	}
	if match == nil {
		return nil
	}

	if match.Status.IsDuplicateSafe() {
		return nil
	}

	g.logger.Info("Duplicate submission blocked",
		"employee_id", employeeID,
		"existing_indent_id", match.IndentID,
		"existing_status", match.Status.String())

	return &entity.DuplicateTripError{ExistingIndentID: match.IndentID}
}
