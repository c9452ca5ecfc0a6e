package repository

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rohitpai/travel-desk/internal/application/port"
	"github.com/rohitpai/travel-desk/internal/application/service"
	"github.com/rohitpai/travel-desk/internal/domain/entity"
	"github.com/rohitpai/travel-desk/internal/domain/status"
	"github.com/rohitpai/travel-desk/internal/infrastructure/persistence/sqlite"
	"github.com/rohitpai/travel-desk/internal/infrastructure/tools"
)

type testLogger struct{}

func (testLogger) Info(msg string, keysAndValues ...interface{})  {}
func (testLogger) Error(msg string, keysAndValues ...interface{}) {}

// scriptedModel replays a fixed sequence of completions.
type scriptedModel struct {
	completions []*port.ChatCompletion
	calls       int
}

func (m *scriptedModel) Complete(ctx context.Context, history []port.ChatMessage, defs []port.ToolDefinition) (*port.ChatCompletion, error) {
	if m.calls >= len(m.completions) {
		return &port.ChatCompletion{Content: "Anything else?"}, nil
	}
	c := m.completions[m.calls]
	m.calls++
	return c, nil
}

type travelDesk struct {
	indents  service.IndentService
	chat     service.ChatService
	sessions *service.SessionStore
	db       *sql.DB
}

func newTravelDesk(t *testing.T, model port.ChatModel) *travelDesk {
	t.Helper()

	db := setupTestDB(t)
	logger := zap.NewNop()

	_, err := db.Exec(`
		INSERT INTO tied_up_hotels (name, city, rate, grade_eligibility, is_active) VALUES
			('Taj Residency', 'Bengaluru', 6500, 'E5,M1,M2', 1),
			('Ginger Inn', 'Bengaluru', 2800, NULL, 1)
	`)
	require.NoError(t, err)

	indentRepo := NewIndentRepository(db, logger)
	userRepo := NewUserRepository(db, logger)
	approvalRepo := NewApprovalRepository(db, logger)
	hotelRepo := NewHotelRepository(db, logger)
	txm := sqlite.NewDB(db, logger)

	guard := service.NewDuplicateGuard(indentRepo, testLogger{})
	indents := service.NewIndentService(indentRepo, userRepo, approvalRepo, guard, txm, testLogger{})

	registry := tools.NewRegistry(
		tools.NewSearchFlightsTool(logger),
		tools.NewBookFlightTool(indents, logger),
		tools.NewSearchHotelsTool(hotelRepo, indents, logger),
		tools.NewBookHotelTool(hotelRepo, indents, logger),
	)

	sessions := service.NewSessionStore(time.Hour, "You are a travel desk assistant.")
	chat := service.NewChatService(sessions, indents, model, registry, 10*time.Second, 10*time.Second, testLogger{})

	return &travelDesk{indents: indents, chat: chat, sessions: sessions, db: db}
}

// Walks a travel request through its whole lifecycle against a real
// database: submission, manager approval, then an HR chat turn whose tool
// calls book the flight and hotel.
func TestTravelRequestLifecycle(t *testing.T) {
	model := &scriptedModel{completions: []*port.ChatCompletion{
		{ToolCalls: []port.ToolCall{
			{ID: "c1", Name: "book_flight", Arguments: `{"indent_id":"INDENT","flight_number":"6E-502"}`},
			{ID: "c2", Name: "book_hotel", Arguments: `{"indent_id":"INDENT","city":"Bengaluru","hotel_name":"Ginger Inn"}`},
		}},
		{Content: "Flight 6E-502 and Ginger Inn are booked for Asha."},
	}}
	desk := newTravelDesk(t, model)
	ctx := context.Background()

	indentID, err := desk.indents.CreateOrUpdate(ctx, service.CreateIndentInput{
		EmployeeID:       "EMP100",
		PurposeOfBooking: "client visit",
		TravelType:       "domestic",
		TravelStartDate:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		TravelEndDate:    time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		FromCity:         "Pune",
		FromCountry:      "India",
		ToCity:           "Bengaluru",
		ToCountry:        "India",
		InitialStatus:    status.StatusPending,
	})
	require.NoError(t, err)

	// HR cannot act before the manager has approved.
	err = desk.indents.ApproveByHR(ctx, indentID, "HR001", "")
	require.Error(t, err)
	assert.True(t, entity.IsPolicyViolation(err))

	require.NoError(t, desk.indents.ApproveByManager(ctx, indentID, "MGR001"))

	got, err := desk.indents.GetByID(ctx, indentID)
	require.NoError(t, err)
	assert.Equal(t, status.StatusAcceptedManager, got.Status)

	// Patch the scripted arguments with the generated indent id.
	for i := range model.completions[0].ToolCalls {
		call := &model.completions[0].ToolCalls[i]
		call.Arguments = strings.ReplaceAll(call.Arguments, "INDENT", indentID)
	}

	result, err := desk.chat.Chat(ctx, service.ChatRequest{
		Message:  "Book travel for this indent.",
		IndentID: indentID,
	})
	require.NoError(t, err)

	assert.True(t, result.BookingComplete)
	assert.ElementsMatch(t, []string{"book_flight", "book_hotel"}, result.ToolsUsed)
	assert.Contains(t, result.Response, "booked")

	got, err = desk.indents.GetByID(ctx, indentID)
	require.NoError(t, err)
	assert.Equal(t, status.StatusCompletedHR, got.Status)
}

func TestDuplicateSubmissionAcrossRequests(t *testing.T) {
	desk := newTravelDesk(t, &scriptedModel{})
	ctx := context.Background()

	input := service.CreateIndentInput{
		EmployeeID:      "EMP100",
		TravelType:      "domestic",
		TravelStartDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		TravelEndDate:   time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		FromCity:        "Pune",
		ToCity:          "Bengaluru",
		InitialStatus:   status.StatusPending,
	}

	first, err := desk.indents.CreateOrUpdate(ctx, input)
	require.NoError(t, err)

	// Same route and dates, different spelling.
	input.FromCity = " PUNE "
	_, err = desk.indents.CreateOrUpdate(ctx, input)
	require.Error(t, err)
	var dup *entity.DuplicateTripError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first, dup.ExistingIndentID)

	// A colleague on the same route is unaffected.
	input.EmployeeID = "EMP101"
	_, err = desk.indents.CreateOrUpdate(ctx, input)
	require.NoError(t, err)
}

func TestManagerDecisionWritesAuditEntry(t *testing.T) {
	desk := newTravelDesk(t, &scriptedModel{})
	ctx := context.Background()

	indentID, err := desk.indents.CreateOrUpdate(ctx, service.CreateIndentInput{
		EmployeeID:      "EMP100",
		TravelType:      "domestic",
		TravelStartDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		TravelEndDate:   time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC),
		FromCity:        "Mumbai",
		ToCity:          "Delhi",
		InitialStatus:   status.StatusPending,
	})
	require.NoError(t, err)
	require.NoError(t, desk.indents.RejectByManager(ctx, indentID, "MGR001"))

	var count int
	require.NoError(t, desk.db.QueryRow(
		"SELECT COUNT(*) FROM approval_entries WHERE indent_id = ? AND approval_type = ? AND status = ?",
		indentID, entity.ApprovalTypeManager, entity.ApprovalEntryRejected).Scan(&count))
	assert.Equal(t, 1, count)

	got, err := desk.indents.GetByID(ctx, indentID)
	require.NoError(t, err)
	assert.Equal(t, status.StatusRejectedManager, got.Status)
}
