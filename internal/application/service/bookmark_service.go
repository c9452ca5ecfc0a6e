package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/rohitpai/travel-desk/internal/application/port"
	"github.com/rohitpai/travel-desk/internal/domain/entity"
)

// CreateBookmarkInput carries a saved-route request
type CreateBookmarkInput struct {
	EmployeeID  string
	FromCity    string
	FromCountry string
	ToCity      string
	ToCountry   string
	Label       string
}

// BookmarkService manages employee route bookmarks
type BookmarkService interface {
	Create(ctx context.Context, input CreateBookmarkInput) (string, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*entity.RouteBookmark, error)
	Delete(ctx context.Context, employeeID, bookmarkID string) error

	// Touch records one use of the bookmark
	Touch(ctx context.Context, employeeID, bookmarkID string) error
}

type bookmarkServiceImpl struct {
	bookmarks port.BookmarkRepository
	logger    Logger
}

// NewBookmarkService creates a new BookmarkService
func NewBookmarkService(bookmarks port.BookmarkRepository, logger Logger) BookmarkService {
	return &bookmarkServiceImpl{
		bookmarks: bookmarks,
		logger:    logger,
	}
}

// Create saves a route bookmark. One bookmark per normalized route per
// employee.
func (s *bookmarkServiceImpl) Create(ctx context.Context, input CreateBookmarkInput) (string, error) {
	fromKey := NormalizePlace(input.FromCity)
	toKey := NormalizePlace(input.ToCity)
	if fromKey == "" || toKey == "" {
		return "", entity.NewValidationError("", "Both origin and destination cities are required to bookmark a route.")
	}

	existing, err := s.bookmarks.FindByRoute(ctx, input.EmployeeID, fromKey, toKey)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", entity.NewValidationError("", "This route is already bookmarked.")
	}

	bookmark := &entity.RouteBookmark{
		BookmarkID:  newBookmarkID(),
		EmployeeID:  input.EmployeeID,
		FromCity:    strings.TrimSpace(input.FromCity),
		FromCountry: defaultCountry(input.FromCountry),
		ToCity:      strings.TrimSpace(input.ToCity),
		ToCountry:   defaultCountry(input.ToCountry),
		Label:       input.Label,
		CreatedAt:   time.Now(),
	}

	if err := s.bookmarks.Insert(ctx, bookmark); err != nil {
		s.logger.Error("Failed to insert bookmark", "error", err, "employee_id", input.EmployeeID)
		return "", err
	}

	s.logger.Info("Route bookmarked",
		"bookmark_id", bookmark.BookmarkID,
		"employee_id", input.EmployeeID)
	return bookmark.BookmarkID, nil
}

// ListByEmployee returns the employee's bookmarks, most recently used first
func (s *bookmarkServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]*entity.RouteBookmark, error) {
	return s.bookmarks.ListByEmployee(ctx, employeeID)
}

// Delete removes the bookmark or fails with ErrNotFound
func (s *bookmarkServiceImpl) Delete(ctx context.Context, employeeID, bookmarkID string) error {
	deleted, err := s.bookmarks.Delete(ctx, employeeID, bookmarkID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: bookmark %s", entity.ErrNotFound, bookmarkID)
	}
	return nil
}

// Touch bumps the usage counter and last-used timestamp
func (s *bookmarkServiceImpl) Touch(ctx context.Context, employeeID, bookmarkID string) error {
	touched, err := s.bookmarks.Touch(ctx, employeeID, bookmarkID)
	if err != nil {
		return err
	}
	if !touched {
		return fmt.Errorf("%w: bookmark %s", entity.ErrNotFound, bookmarkID)
	}
	return nil
}

func defaultCountry(country string) string {
	trimmed := strings.TrimSpace(country)
	if trimmed == "" {
		return "India"
	}
	return trimmed
}

func newBookmarkID() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return "RT-" + strings.ToUpper(hex.EncodeToString(buf))
}
