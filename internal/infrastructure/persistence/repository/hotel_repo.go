package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rohitpai/travel-desk/internal/application/port"
	"github.com/rohitpai/travel-desk/internal/domain/entity"
	"github.com/rohitpai/travel-desk/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// HotelRepository implements port.HotelRepository on sqlite
type HotelRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHotelRepository creates a new hotel repository
func NewHotelRepository(db *sql.DB, logger *zap.Logger) port.HotelRepository {
	return &HotelRepository{
		db:     db,
		logger: logger,
	}
}

// FindByCity returns active tied-up hotels in the city, cheapest first
func (r *HotelRepository) FindByCity(ctx context.Context, city string, limit int) ([]*entity.Hotel, error) {
	query := `
		SELECT id, name, city, rate, grade_eligibility, is_active
		FROM tied_up_hotels
		WHERE LOWER(TRIM(city)) = ? AND is_active = 1
		ORDER BY rate ASC
		LIMIT ?
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, city, limit)
	if err != nil {
		r.logger.Error("Failed to find hotels", zap.String("city", city), zap.Error(err))
		return nil, fmt.Errorf("failed to find hotels: %w", err)
	}
	defer rows.Close()

	var hotels []*entity.Hotel
	for rows.Next() {
		var hotel entity.Hotel
		var gradeEligibility sql.NullString

		err := rows.Scan(
			&hotel.ID,
			&hotel.Name,
			&hotel.City,
			&hotel.Rate,
			&gradeEligibility,
			&hotel.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hotel: %w", err)
		}

		if gradeEligibility.Valid {
			hotel.GradeEligibility = gradeEligibility.String
		}
		hotels = append(hotels, &hotel)
	}
	return hotels, rows.Err()
}

func (r *HotelRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.HotelRepository = (*HotelRepository)(nil)
