package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rohitpai/travel-desk/internal/application/port"
	"github.com/rohitpai/travel-desk/internal/application/service"
	"github.com/rohitpai/travel-desk/internal/domain/entity"
	"github.com/rohitpai/travel-desk/internal/domain/status"
	"go.uber.org/zap"
)

const hotelSearchLimit = 10

// SearchHotelsTool lists tied-up hotels in a city, filtered by the
// employee's grade eligibility
type SearchHotelsTool struct {
	hotels  port.HotelRepository
	indents service.IndentService
	logger  *zap.Logger
}

// NewSearchHotelsTool creates the hotel search tool
func NewSearchHotelsTool(hotels port.HotelRepository, indents service.IndentService, logger *zap.Logger) *SearchHotelsTool {
	return &SearchHotelsTool{
		hotels:  hotels,
		indents: indents,
		logger:  logger,
	}
}

func (t *SearchHotelsTool) Definition() port.ToolDefinition {
	return port.ToolDefinition{
		Name:        "search_hotels",
		Description: "Search company tied-up hotels in a city, cheapest first. Pass the indent id so results honor the employee's grade eligibility.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"city": {"type": "string", "description": "City to search in"},
				"indent_id": {"type": "string", "description": "Travel indent id, used for grade eligibility"}
			},
			"required": ["city"]
		}`),
	}
}

func (t *SearchHotelsTool) Invoke(ctx context.Context, args port.ToolArgs) (interface{}, error) {
	city := args.String("city")
	if city == "" {
		return nil, fmt.Errorf("city is required")
	}

	grade := ""
	if indentID := args.String("indent_id"); indentID != "" {
		indent, err := t.indents.GetByID(ctx, indentID)
		if err == nil && indent != nil {
			grade = indent.Grade
		}
	}

	hotels, err := t.hotels.FindByCity(ctx, service.NormalizePlace(city), hotelSearchLimit)
	if err != nil {
		return nil, err
	}

	eligible := make([]*entity.Hotel, 0, len(hotels))
	for _, hotel := range hotels {
		if grade == "" || hotel.EligibleFor(grade) {
			eligible = append(eligible, hotel)
		}
	}

	t.logger.Info("Hotel search",
		zap.String("city", city),
		zap.String("grade", grade),
		zap.Int("results", len(eligible)))

	return map[string]interface{}{
		"city":   city,
		"hotels": eligible,
	}, nil
}

// BookHotelTool books a tied-up hotel against a travel indent. The approval
// gate applies, same as flight booking.
type BookHotelTool struct {
	hotels  port.HotelRepository
	indents service.IndentService
	logger  *zap.Logger
}

// NewBookHotelTool creates the hotel booking tool
func NewBookHotelTool(hotels port.HotelRepository, indents service.IndentService, logger *zap.Logger) *BookHotelTool {
	return &BookHotelTool{
		hotels:  hotels,
		indents: indents,
		logger:  logger,
	}
}

func (t *BookHotelTool) Definition() port.ToolDefinition {
	return port.ToolDefinition{
		Name:        "book_hotel",
		Description: "Book a tied-up hotel for an approved travel indent. Requires the indent id, city and hotel name.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"indent_id": {"type": "string", "description": "Travel indent id the booking belongs to"},
				"city": {"type": "string", "description": "City of the hotel"},
				"hotel_name": {"type": "string", "description": "Hotel name from search results"},
				"flight_fare": {"type": "number", "description": "Fare of the flight already booked for this indent, if any"}
			},
			"required": ["indent_id", "city", "hotel_name"]
		}`),
	}
}

func (t *BookHotelTool) Invoke(ctx context.Context, args port.ToolArgs) (interface{}, error) {
	indentID := args.String("indent_id")
	city := args.String("city")
	hotelName := args.String("hotel_name")
	if indentID == "" {
		return nil, fmt.Errorf("indent_id is required")
	}
	if city == "" || hotelName == "" {
		return nil, fmt.Errorf("city and hotel_name are required")
	}

	hotel, err := t.findHotel(ctx, city, hotelName)
	if err != nil {
		return nil, err
	}

	indent, err := t.indents.GetByID(ctx, indentID)
	if err != nil {
		return nil, err
	}
	if indent == nil {
		return nil, fmt.Errorf("%w: travel indent %s", entity.ErrNotFound, indentID)
	}

	affected, err := t.indents.UpdateStatus(ctx, indentID, status.StatusBooked.String())
	if err != nil {
		return nil, err
	}
	if !affected {
		return nil, fmt.Errorf("%w: travel indent %s", entity.ErrNotFound, indentID)
	}

	ref := bookingRef("HT")
	t.logger.Info("Hotel booked",
		zap.String("indent_id", indentID),
		zap.String("hotel", hotel.Name),
		zap.String("booking_ref", ref))

	return map[string]interface{}{
		"booking_ref":          ref,
		"indent_id":            indentID,
		"hotel_name":           hotel.Name,
		"city":                 hotel.City,
		"rate":                 hotel.Rate,
		"currency":             "INR",
		"status":               "confirmed",
		"estimated_total_cost": indent.EstimatedCost(args.Float("flight_fare"), hotel.Rate),
	}, nil
}

func (t *BookHotelTool) findHotel(ctx context.Context, city, hotelName string) (*entity.Hotel, error) {
	hotels, err := t.hotels.FindByCity(ctx, service.NormalizePlace(city), hotelSearchLimit)
	if err != nil {
		return nil, err
	}
	needle := service.NormalizePlace(hotelName)
	for _, hotel := range hotels {
		if service.NormalizePlace(hotel.Name) == needle {
			return hotel, nil
		}
	}
	return nil, fmt.Errorf("hotel %q not found in %s", hotelName, city)
}

// Verify interface compliance
var (
	_ port.Tool = (*SearchHotelsTool)(nil)
	_ port.Tool = (*BookHotelTool)(nil)
)
