package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohitpai/travel-desk/internal/domain/entity"
	"github.com/rohitpai/travel-desk/internal/domain/status"
)

func TestNormalizePlace(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Pune", "pune"},
		{"  BENGALURU  ", "bengaluru"},
		{"new delhi", "new delhi"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizePlace(tt.in); got != tt.want {
			t.Errorf("NormalizePlace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnsureNoDuplicateActive(t *testing.T) {
	start := date("2024-05-01")
	end := date("2024-05-03")

	t.Run("no match", func(t *testing.T) {
		guard := NewDuplicateGuard(&mockIndentRepo{}, nopLogger{})
		err := guard.EnsureNoDuplicateActive(context.Background(), "EMP100", "Pune", "Bengaluru", start, end, "")
		assert.NoError(t, err)
	})

	t.Run("active match blocks", func(t *testing.T) {
		indents := &mockIndentRepo{
			findLatestMatchFunc: func(ctx context.Context, employeeID, fromCity, toCity string, s, e time.Time, excludeID string) (*entity.TravelIndent, error) {
				return &entity.TravelIndent{IndentID: "IND-OLD", Status: status.StatusAcceptedManager}, nil
			},
		}
		guard := NewDuplicateGuard(indents, nopLogger{})
		err := guard.EnsureNoDuplicateActive(context.Background(), "EMP100", "Pune", "Bengaluru", start, end, "")
		require.Error(t, err)
		require.True(t, entity.IsDuplicateTrip(err))
		var dup *entity.DuplicateTripError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "IND-OLD", dup.ExistingIndentID)
	})

	t.Run("safe statuses allow resubmission", func(t *testing.T) {
		safe := []status.Status{
			status.StatusDraft,
			status.StatusRejectedManager,
			status.StatusRejectedHR,
			status.StatusRejected,
			status.StatusDeclined,
			status.StatusCancelled,
		}
		for _, s := range safe {
			indents := &mockIndentRepo{
				findLatestMatchFunc: func(ctx context.Context, employeeID, fromCity, toCity string, st, e time.Time, excludeID string) (*entity.TravelIndent, error) {
					return &entity.TravelIndent{IndentID: "IND-OLD", Status: s}, nil
				},
			}
			guard := NewDuplicateGuard(indents, nopLogger{})
			err := guard.EnsureNoDuplicateActive(context.Background(), "EMP100", "Pune", "Bengaluru", start, end, "")
			assert.NoError(t, err, "status %q should be duplicate-safe", s)
		}
	})

	t.Run("cities normalized before lookup", func(t *testing.T) {
		indents := &mockIndentRepo{
			findLatestMatchFunc: func(ctx context.Context, employeeID, fromCity, toCity string, s, e time.Time, excludeID string) (*entity.TravelIndent, error) {
				assert.Equal(t, "pune", fromCity)
				assert.Equal(t, "bengaluru", toCity)
				assert.Equal(t, "IND-EDIT", excludeID)
				return nil, nil
			},
		}
		guard := NewDuplicateGuard(indents, nopLogger{})
		err := guard.EnsureNoDuplicateActive(context.Background(), "EMP100", " PUNE ", "Bengaluru", start, end, "IND-EDIT")
		assert.NoError(t, err)
	})
}
