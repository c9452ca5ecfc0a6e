package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rohitpai/travel-desk/internal/application/service"
	"github.com/rohitpai/travel-desk/internal/domain/entity"
	"github.com/rohitpai/travel-desk/internal/report"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

type mockIndentService struct {
	createOrUpdateFunc        func(ctx context.Context, input service.CreateIndentInput) (string, error)
	getByIDFunc               func(ctx context.Context, indentID string) (*entity.TravelIndent, error)
	updateStatusFunc          func(ctx context.Context, indentID, rawStatus string) (bool, error)
	approveByManagerFunc      func(ctx context.Context, indentID, managerID string) error
	rejectByManagerFunc       func(ctx context.Context, indentID, managerID string) error
	approveByHRFunc           func(ctx context.Context, indentID, hrID, comments string) error
	listForEmployeeFunc       func(ctx context.Context, employeeID string) ([]*service.IndentView, error)
	listForHRFunc             func(ctx context.Context) ([]*service.IndentView, error)
	listPendingForManagerFunc func(ctx context.Context, managerID string) ([]*service.IndentView, error)
}

func (m *mockIndentService) CreateOrUpdate(ctx context.Context, input service.CreateIndentInput) (string, error) {
	return m.createOrUpdateFunc(ctx, input)
}

func (m *mockIndentService) GetByID(ctx context.Context, indentID string) (*entity.TravelIndent, error) {
	if m.getByIDFunc == nil {
		return nil, entity.ErrNotFound
	}
	return m.getByIDFunc(ctx, indentID)
}

func (m *mockIndentService) UpdateStatus(ctx context.Context, indentID, rawStatus string) (bool, error) {
	return m.updateStatusFunc(ctx, indentID, rawStatus)
}

func (m *mockIndentService) ApproveByManager(ctx context.Context, indentID, managerID string) error {
	return m.approveByManagerFunc(ctx, indentID, managerID)
}

func (m *mockIndentService) RejectByManager(ctx context.Context, indentID, managerID string) error {
	return m.rejectByManagerFunc(ctx, indentID, managerID)
}

func (m *mockIndentService) ApproveByHR(ctx context.Context, indentID, hrID, comments string) error {
	return m.approveByHRFunc(ctx, indentID, hrID, comments)
}

func (m *mockIndentService) ListForEmployee(ctx context.Context, employeeID string) ([]*service.IndentView, error) {
	return m.listForEmployeeFunc(ctx, employeeID)
}

func (m *mockIndentService) ListForHR(ctx context.Context) ([]*service.IndentView, error) {
	return m.listForHRFunc(ctx)
}

func (m *mockIndentService) ListPendingForManager(ctx context.Context, managerID string) ([]*service.IndentView, error) {
	return m.listPendingForManagerFunc(ctx, managerID)
}

type mockBookmarkService struct {
	createFunc         func(ctx context.Context, input service.CreateBookmarkInput) (string, error)
	listByEmployeeFunc func(ctx context.Context, employeeID string) ([]*entity.RouteBookmark, error)
	deleteFunc         func(ctx context.Context, employeeID, bookmarkID string) error
	touchFunc          func(ctx context.Context, employeeID, bookmarkID string) error
}

func (m *mockBookmarkService) Create(ctx context.Context, input service.CreateBookmarkInput) (string, error) {
	return m.createFunc(ctx, input)
}

func (m *mockBookmarkService) ListByEmployee(ctx context.Context, employeeID string) ([]*entity.RouteBookmark, error) {
	return m.listByEmployeeFunc(ctx, employeeID)
}

func (m *mockBookmarkService) Delete(ctx context.Context, employeeID, bookmarkID string) error {
	return m.deleteFunc(ctx, employeeID, bookmarkID)
}

func (m *mockBookmarkService) Touch(ctx context.Context, employeeID, bookmarkID string) error {
	return m.touchFunc(ctx, employeeID, bookmarkID)
}

type mockChatService struct {
	chatFunc func(ctx context.Context, req service.ChatRequest) (*service.ChatResult, error)
	sessions *service.SessionStore
}

func (m *mockChatService) Chat(ctx context.Context, req service.ChatRequest) (*service.ChatResult, error) {
	return m.chatFunc(ctx, req)
}

func (m *mockChatService) Sessions() *service.SessionStore {
	return m.sessions
}

type serverMocks struct {
	indents   *mockIndentService
	bookmarks *mockBookmarkService
	chat      *mockChatService
}

func newTestServer(t *testing.T) (*Server, *serverMocks) {
	t.Helper()

	mocks := &serverMocks{
		indents:   &mockIndentService{},
		bookmarks: &mockBookmarkService{},
		chat: &mockChatService{
			sessions: service.NewSessionStore(time.Hour, "You are a travel desk assistant."),
		},
	}

	srv := NewServer(
		DefaultServerConfig(),
		mocks.indents,
		mocks.bookmarks,
		mocks.chat,
		report.NewIndentExporter(zap.NewNop()),
		nopLogger{},
	)
	return srv, mocks
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

type jsonMap = map[string]interface{}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
}

func TestCreateIndent(t *testing.T) {
	srv, mocks := newTestServer(t)

	var got service.CreateIndentInput
	mocks.indents.createOrUpdateFunc = func(ctx context.Context, input service.CreateIndentInput) (string, error) {
		got = input
		return "IND-1", nil
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/employee/indents", jsonMap{
		"employee_id":       "EMP100",
		"travel_type":       "domestic",
		"travel_start_date": "2024-05-01",
		"travel_end_date":   "2024-05-03",
		"from_city":         "Pune",
		"to_city":           "Bengaluru",
		"initial_status":    "pending",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "IND-1", resp.Data.(map[string]interface{})["indent_id"])

	assert.Equal(t, "EMP100", got.EmployeeID)
	assert.Equal(t, "Pune", got.FromCity)
	assert.Equal(t, "pending", got.InitialStatus.String())
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), got.TravelStartDate)
}

func TestCreateIndentBadDate(t *testing.T) {
	srv, mocks := newTestServer(t)
	mocks.indents.createOrUpdateFunc = func(ctx context.Context, input service.CreateIndentInput) (string, error) {
		t.Fatal("service should not be called for malformed dates")
		return "", nil
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/employee/indents", jsonMap{
		"employee_id":       "EMP100",
		"travel_type":       "domestic",
		"travel_start_date": "01/05/2024",
		"travel_end_date":   "2024-05-03",
		"from_city":         "Pune",
		"to_city":           "Bengaluru",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "travel_start_date")
}

func TestCreateIndentMissingFields(t *testing.T) {
	srv, mocks := newTestServer(t)
	mocks.indents.createOrUpdateFunc = func(ctx context.Context, input service.CreateIndentInput) (string, error) {
		t.Fatal("service should not be called when binding fails")
		return "", nil
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/employee/indents", jsonMap{
		"employee_id": "EMP100",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateIndentDuplicateConflict(t *testing.T) {
	srv, mocks := newTestServer(t)
	mocks.indents.createOrUpdateFunc = func(ctx context.Context, input service.CreateIndentInput) (string, error) {
		return "", &entity.DuplicateTripError{ExistingIndentID: "IND-OLD"}
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/employee/indents", jsonMap{
		"employee_id":       "EMP100",
		"travel_type":       "domestic",
		"travel_start_date": "2024-05-01",
		"travel_end_date":   "2024-05-03",
		"from_city":         "Pune",
		"to_city":           "Bengaluru",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, entity.DuplicateTripMessage, resp.Error)
}

func TestListEmployeeIndents(t *testing.T) {
	srv, mocks := newTestServer(t)
	mocks.indents.listForEmployeeFunc = func(ctx context.Context, employeeID string) ([]*service.IndentView, error) {
		assert.Equal(t, "EMP100", employeeID)
		return []*service.IndentView{
			{IndentID: "IND-1", StatusCode: "pending", Status: "Pending Manager Approval"},
		}, nil
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/employee/EMP100/indents", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pending Manager Approval")
}

func TestManagerApprove(t *testing.T) {
	srv, mocks := newTestServer(t)

	var gotIndent, gotManager string
	mocks.indents.approveByManagerFunc = func(ctx context.Context, indentID, managerID string) error {
		gotIndent, gotManager = indentID, managerID
		return nil
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/manager/indents/IND-1/approve", jsonMap{
		"manager_id": "MGR001",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "IND-1", gotIndent)
	assert.Equal(t, "MGR001", gotManager)
}

func TestManagerApproveMissingManagerID(t *testing.T) {
	srv, mocks := newTestServer(t)
	mocks.indents.approveByManagerFunc = func(ctx context.Context, indentID, managerID string) error {
		t.Fatal("service should not be called without manager_id")
		return nil
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/manager/indents/IND-1/approve", jsonMap{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestManagerApproveWrongManager(t *testing.T) {
	srv, mocks := newTestServer(t)
	mocks.indents.approveByManagerFunc = func(ctx context.Context, indentID, managerID string) error {
		return entity.ErrPermissionDenied
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/manager/indents/IND-1/approve", jsonMap{
		"manager_id": "MGR999",
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestManagerReject(t *testing.T) {
	srv, mocks := newTestServer(t)

	called := false
	mocks.indents.rejectByManagerFunc = func(ctx context.Context, indentID, managerID string) error {
		called = true
		return nil
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/manager/indents/IND-1/reject", jsonMap{
		"manager_id": "MGR001",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestHRApproveBeforeManagerApproval(t *testing.T) {
	srv, mocks := newTestServer(t)
	mocks.indents.approveByHRFunc = func(ctx context.Context, indentID, hrID, comments string) error {
		return &entity.PolicyViolationError{}
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/hr/indents/IND-1/approve", jsonMap{
		"hr_id": "HR001",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, entity.PolicyViolationMessage, resp.Error)
}

func TestHRApprovePassesComments(t *testing.T) {
	srv, mocks := newTestServer(t)

	var gotComments string
	mocks.indents.approveByHRFunc = func(ctx context.Context, indentID, hrID, comments string) error {
		gotComments = comments
		return nil
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/hr/indents/IND-1/approve", jsonMap{
		"hr_id":    "HR001",
		"comments": "verified budget",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "verified budget", gotComments)
}

func TestUpdateTicketStatus(t *testing.T) {
	srv, mocks := newTestServer(t)

	mocks.indents.updateStatusFunc = func(ctx context.Context, indentID, rawStatus string) (bool, error) {
		assert.Equal(t, "IND-1", indentID)
		assert.Equal(t, "hr_approved", rawStatus)
		return true, nil
	}

	rec := doJSON(t, srv, http.MethodPatch, "/api/hr/tickets/IND-1/status", jsonMap{
		"status": "hr_approved",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateTicketStatusNotFound(t *testing.T) {
	srv, mocks := newTestServer(t)
	mocks.indents.updateStatusFunc = func(ctx context.Context, indentID, rawStatus string) (bool, error) {
		return false, nil
	}

	rec := doJSON(t, srv, http.MethodPatch, "/api/hr/tickets/IND-404/status", jsonMap{
		"status": "hr_approved",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChat(t *testing.T) {
	srv, mocks := newTestServer(t)

	mocks.chat.chatFunc = func(ctx context.Context, req service.ChatRequest) (*service.ChatResult, error) {
		assert.Equal(t, "book travel for IND-1", req.Message)
		assert.Equal(t, "IND-1", req.IndentID)
		return &service.ChatResult{
			Response:        "Booked flight and hotel.",
			SessionID:       "sess-1",
			ToolsUsed:       []string{"book_flight", "book_hotel"},
			BookingComplete: true,
		}, nil
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/hr/chat", jsonMap{
		"message":   "book travel for IND-1",
		"indent_id": "IND-1",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"booking_complete":true`)
}

func TestChatEmptyMessage(t *testing.T) {
	srv, mocks := newTestServer(t)
	mocks.chat.chatFunc = func(ctx context.Context, req service.ChatRequest) (*service.ChatResult, error) {
		t.Fatal("chat service should not be called with an empty message")
		return nil, nil
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/hr/chat", jsonMap{
		"session_id": "sess-1",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatBusySession(t *testing.T) {
	srv, mocks := newTestServer(t)
	mocks.chat.chatFunc = func(ctx context.Context, req service.ChatRequest) (*service.ChatResult, error) {
		return nil, service.ErrSessionBusy
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/hr/chat", jsonMap{
		"message": "hello",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestExportIndents(t *testing.T) {
	srv, mocks := newTestServer(t)
	mocks.indents.listForHRFunc = func(ctx context.Context) ([]*service.IndentView, error) {
		return []*service.IndentView{
			{IndentID: "IND-1", EmployeeName: "Asha Rao", Status: "Approved by Manager"},
		}, nil
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/hr/indents/export", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())
}

func TestSessionHistory(t *testing.T) {
	srv, mocks := newTestServer(t)

	session := mocks.chat.sessions.GetOrCreate("")
	rec := doJSON(t, srv, http.MethodGet, "/api/hr/sessions/"+session.ID+"/history", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), session.ID)
}

func TestSessionHistoryNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/hr/sessions/nope/history", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSession(t *testing.T) {
	srv, mocks := newTestServer(t)

	session := mocks.chat.sessions.GetOrCreate("")
	rec := doJSON(t, srv, http.MethodDelete, "/api/hr/sessions/"+session.ID, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, mocks.chat.sessions.Get(session.ID))

	rec = doJSON(t, srv, http.MethodDelete, "/api/hr/sessions/"+session.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookmarkLifecycleRoutes(t *testing.T) {
	srv, mocks := newTestServer(t)

	mocks.bookmarks.createFunc = func(ctx context.Context, input service.CreateBookmarkInput) (string, error) {
		assert.Equal(t, "EMP100", input.EmployeeID)
		assert.Equal(t, "Pune", input.FromCity)
		return "BMK-1", nil
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/employee/EMP100/bookmarks", jsonMap{
		"from_city": "Pune",
		"to_city":   "Bengaluru",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	mocks.bookmarks.listByEmployeeFunc = func(ctx context.Context, employeeID string) ([]*entity.RouteBookmark, error) {
		return []*entity.RouteBookmark{{BookmarkID: "BMK-1", FromCity: "pune", ToCity: "bengaluru"}}, nil
	}
	rec = doJSON(t, srv, http.MethodGet, "/api/employee/EMP100/bookmarks", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "BMK-1")

	touched := false
	mocks.bookmarks.touchFunc = func(ctx context.Context, employeeID, bookmarkID string) error {
		touched = true
		assert.Equal(t, "BMK-1", bookmarkID)
		return nil
	}
	rec = doJSON(t, srv, http.MethodPost, "/api/employee/EMP100/bookmarks/BMK-1/use", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, touched)

	mocks.bookmarks.deleteFunc = func(ctx context.Context, employeeID, bookmarkID string) error {
		return entity.ErrNotFound
	}
	rec = doJSON(t, srv, http.MethodDelete, "/api/employee/EMP100/bookmarks/BMK-2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

