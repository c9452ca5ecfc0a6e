package tools

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rohitpai/travel-desk/internal/application/port"
	"github.com/rohitpai/travel-desk/internal/application/service"
	"github.com/rohitpai/travel-desk/internal/domain/entity"
	"github.com/rohitpai/travel-desk/internal/domain/status"
	"go.uber.org/zap"
)

// FlightOption is one fare returned by the flight search tool
type FlightOption struct {
	Airline      string  `json:"airline"`
	FlightNumber string  `json:"flight_number"`
	Departure    string  `json:"departure"`
	Arrival      string  `json:"arrival"`
	Fare         float64 `json:"fare"`
	Currency     string  `json:"currency"`
}

// demoFlights is the static fare inventory. There is no GDS integration;
// the assistant works against this fixed list.
var demoFlights = []FlightOption{
	{Airline: "IndiGo", FlightNumber: "6E-502", Departure: "07:15", Arrival: "08:50", Fare: 8200, Currency: "INR"},
	{Airline: "Vistara", FlightNumber: "UK-864", Departure: "10:40", Arrival: "12:20", Fare: 9100, Currency: "INR"},
	{Airline: "Air India", FlightNumber: "AI-613", Departure: "17:05", Arrival: "18:45", Fare: 9800, Currency: "INR"},
}

// SearchFlightsTool lists available flights for a route and date
type SearchFlightsTool struct {
	logger *zap.Logger
}

// NewSearchFlightsTool creates the flight search tool
func NewSearchFlightsTool(logger *zap.Logger) *SearchFlightsTool {
	return &SearchFlightsTool{logger: logger}
}

func (t *SearchFlightsTool) Definition() port.ToolDefinition {
	return port.ToolDefinition{
		Name:        "search_flights",
		Description: "Search available flights between two cities on a given date. Returns airline, flight number, timings and fare.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"from_city": {"type": "string", "description": "Origin city"},
				"to_city": {"type": "string", "description": "Destination city"},
				"travel_date": {"type": "string", "description": "Travel date, YYYY-MM-DD"}
			},
			"required": ["from_city", "to_city", "travel_date"]
		}`),
	}
}

func (t *SearchFlightsTool) Invoke(ctx context.Context, args port.ToolArgs) (interface{}, error) {
	fromCity := args.String("from_city")
	toCity := args.String("to_city")
	if fromCity == "" || toCity == "" {
		return nil, fmt.Errorf("from_city and to_city are required")
	}

	t.logger.Info("Flight search",
		zap.String("from", fromCity),
		zap.String("to", toCity),
		zap.String("date", args.String("travel_date")))

	return map[string]interface{}{
		"from_city":   fromCity,
		"to_city":     toCity,
		"travel_date": args.String("travel_date"),
		"flights":     demoFlights,
	}, nil
}

// BookFlightTool books a flight against a travel indent. The approval gate
// applies: booking is refused until the indent is manager-approved.
type BookFlightTool struct {
	indents service.IndentService
	logger  *zap.Logger
}

// NewBookFlightTool creates the flight booking tool
func NewBookFlightTool(indents service.IndentService, logger *zap.Logger) *BookFlightTool {
	return &BookFlightTool{
		indents: indents,
		logger:  logger,
	}
}

func (t *BookFlightTool) Definition() port.ToolDefinition {
	return port.ToolDefinition{
		Name:        "book_flight",
		Description: "Book a flight for an approved travel indent. Requires the indent id and the chosen flight number.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"indent_id": {"type": "string", "description": "Travel indent id the booking belongs to"},
				"flight_number": {"type": "string", "description": "Flight number from search results"}
			},
			"required": ["indent_id", "flight_number"]
		}`),
	}
}

func (t *BookFlightTool) Invoke(ctx context.Context, args port.ToolArgs) (interface{}, error) {
	indentID := args.String("indent_id")
	flightNumber := args.String("flight_number")
	if indentID == "" {
		return nil, fmt.Errorf("indent_id is required")
	}
	if flightNumber == "" {
		return nil, fmt.Errorf("flight_number is required")
	}

	flight, ok := findFlight(flightNumber)
	if !ok {
		return nil, fmt.Errorf("flight %s not found in search results", flightNumber)
	}

	// The status write re-checks manager approval; a policy violation
	// surfaces here before anything is booked.
	affected, err := t.indents.UpdateStatus(ctx, indentID, status.StatusBooked.String())
	if err != nil {
		return nil, err
	}
	if !affected {
		return nil, fmt.Errorf("%w: travel indent %s", entity.ErrNotFound, indentID)
	}

	ref := bookingRef("FL")
	t.logger.Info("Flight booked",
		zap.String("indent_id", indentID),
		zap.String("flight_number", flightNumber),
		zap.String("booking_ref", ref))

	return map[string]interface{}{
		"booking_ref":   ref,
		"indent_id":     indentID,
		"flight_number": flight.FlightNumber,
		"airline":       flight.Airline,
		"fare":          flight.Fare,
		"currency":      flight.Currency,
		"status":        "confirmed",
	}, nil
}

func findFlight(flightNumber string) (FlightOption, bool) {
	needle := strings.ToUpper(strings.TrimSpace(flightNumber))
	for _, flight := range demoFlights {
		if flight.FlightNumber == needle {
			return flight, true
		}
	}
	return FlightOption{}, false
}

func bookingRef(prefix string) string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return prefix + strings.ToUpper(hex.EncodeToString(buf))
}

// Verify interface compliance
var (
	_ port.Tool = (*SearchFlightsTool)(nil)
	_ port.Tool = (*BookFlightTool)(nil)
)
