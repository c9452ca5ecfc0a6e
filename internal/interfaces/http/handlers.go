package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rohitpai/travel-desk/internal/application/service"
	"github.com/rohitpai/travel-desk/internal/domain/entity"
	"github.com/rohitpai/travel-desk/internal/domain/status"
	"github.com/rohitpai/travel-desk/internal/report"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	indentService   service.IndentService
	bookmarkService service.BookmarkService
	chatService     service.ChatService
	exporter        *report.IndentExporter
	logger          Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	indentService service.IndentService,
	bookmarkService service.BookmarkService,
	chatService service.ChatService,
	exporter *report.IndentExporter,
	logger Logger,
) *Handlers {
	return &Handlers{
		indentService:   indentService,
		bookmarkService: bookmarkService,
		chatService:     chatService,
		exporter:        exporter,
		logger:          logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateIndentRequest is the request body for POST /api/employee/indents
type CreateIndentRequest struct {
	IndentID         string `json:"indent_id"`
	EmployeeID       string `json:"employee_id" binding:"required"`
	PurposeOfBooking string `json:"purpose_of_booking"`
	TravelType       string `json:"travel_type" binding:"required"`
	TravelStartDate  string `json:"travel_start_date" binding:"required"`
	TravelEndDate    string `json:"travel_end_date" binding:"required"`
	FromCity         string `json:"from_city" binding:"required"`
	FromCountry      string `json:"from_country"`
	ToCity           string `json:"to_city" binding:"required"`
	ToCountry        string `json:"to_country"`
	InitialStatus    string `json:"initial_status"`
}

// CreateBookmarkRequest is the request body for bookmark creation
type CreateBookmarkRequest struct {
	FromCity    string `json:"from_city" binding:"required"`
	FromCountry string `json:"from_country"`
	ToCity      string `json:"to_city" binding:"required"`
	ToCountry   string `json:"to_country"`
	Label       string `json:"label"`
}

// DecisionRequest carries the acting approver on manager/HR decisions
type DecisionRequest struct {
	ManagerID string `json:"manager_id"`
	HRID      string `json:"hr_id"`
	Comments  string `json:"comments"`
}

// UpdateStatusRequest is the request body for ticket status updates
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"service":   "travel-desk",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// CreateIndent handles POST /api/employee/indents
func (h *Handlers) CreateIndent(c *gin.Context) {
	var req CreateIndentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	start, err := time.Parse("2006-01-02", req.TravelStartDate)
	if err != nil {
		h.badRequest(c, fmt.Errorf("travel_start_date must be YYYY-MM-DD"))
		return
	}
	end, err := time.Parse("2006-01-02", req.TravelEndDate)
	if err != nil {
		h.badRequest(c, fmt.Errorf("travel_end_date must be YYYY-MM-DD"))
		return
	}

	indentID, err := h.indentService.CreateOrUpdate(c.Request.Context(), service.CreateIndentInput{
		IndentID:         req.IndentID,
		EmployeeID:       req.EmployeeID,
		PurposeOfBooking: req.PurposeOfBooking,
		TravelType:       req.TravelType,
		TravelStartDate:  start,
		TravelEndDate:    end,
		FromCity:         req.FromCity,
		FromCountry:      req.FromCountry,
		ToCity:           req.ToCity,
		ToCountry:        req.ToCountry,
		InitialStatus:    status.Parse(req.InitialStatus),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    gin.H{"indent_id": indentID},
	})
}

// ListEmployeeIndents handles GET /api/employee/:employeeID/indents
func (h *Handlers) ListEmployeeIndents(c *gin.Context) {
	views, err := h.indentService.ListForEmployee(c.Request.Context(), c.Param("employeeID"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: views})
}

// CreateBookmark handles POST /api/employee/:employeeID/bookmarks
func (h *Handlers) CreateBookmark(c *gin.Context) {
	var req CreateBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	bookmarkID, err := h.bookmarkService.Create(c.Request.Context(), service.CreateBookmarkInput{
		EmployeeID:  c.Param("employeeID"),
		FromCity:    req.FromCity,
		FromCountry: req.FromCountry,
		ToCity:      req.ToCity,
		ToCountry:   req.ToCountry,
		Label:       req.Label,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    gin.H{"bookmark_id": bookmarkID},
	})
}

// ListBookmarks handles GET /api/employee/:employeeID/bookmarks
func (h *Handlers) ListBookmarks(c *gin.Context) {
	bookmarks, err := h.bookmarkService.ListByEmployee(c.Request.Context(), c.Param("employeeID"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: bookmarks})
}

// DeleteBookmark handles DELETE /api/employee/:employeeID/bookmarks/:bookmarkID
func (h *Handlers) DeleteBookmark(c *gin.Context) {
	err := h.bookmarkService.Delete(c.Request.Context(), c.Param("employeeID"), c.Param("bookmarkID"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// UseBookmark handles POST /api/employee/:employeeID/bookmarks/:bookmarkID/use
func (h *Handlers) UseBookmark(c *gin.Context) {
	err := h.bookmarkService.Touch(c.Request.Context(), c.Param("employeeID"), c.Param("bookmarkID"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// ListPendingIndents handles GET /api/manager/:managerID/pending
func (h *Handlers) ListPendingIndents(c *gin.Context) {
	views, err := h.indentService.ListPendingForManager(c.Request.Context(), c.Param("managerID"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: views})
}

// ApproveIndent handles POST /api/manager/indents/:indentID/approve
func (h *Handlers) ApproveIndent(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ManagerID == "" {
		h.badRequest(c, fmt.Errorf("manager_id is required"))
		return
	}

	if err := h.indentService.ApproveByManager(c.Request.Context(), c.Param("indentID"), req.ManagerID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// RejectIndent handles POST /api/manager/indents/:indentID/reject
func (h *Handlers) RejectIndent(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ManagerID == "" {
		h.badRequest(c, fmt.Errorf("manager_id is required"))
		return
	}

	if err := h.indentService.RejectByManager(c.Request.Context(), c.Param("indentID"), req.ManagerID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// Chat handles POST /api/hr/chat
func (h *Handlers) Chat(c *gin.Context) {
	var req service.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if req.Message == "" {
		h.badRequest(c, fmt.Errorf("message is required"))
		return
	}

	result, err := h.chatService.Chat(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// ListHRIndents handles GET /api/hr/indents
func (h *Handlers) ListHRIndents(c *gin.Context) {
	views, err := h.indentService.ListForHR(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: views})
}

// ExportIndents handles GET /api/hr/indents/export
func (h *Handlers) ExportIndents(c *gin.Context) {
	views, err := h.indentService.ListForHR(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	buf, err := h.exporter.Export(views)
	if err != nil {
		h.writeError(c, err)
		return
	}

	filename := fmt.Sprintf("travel_indents_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// HRApproveIndent handles POST /api/hr/indents/:indentID/approve
func (h *Handlers) HRApproveIndent(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.HRID == "" {
		h.badRequest(c, fmt.Errorf("hr_id is required"))
		return
	}

	if err := h.indentService.ApproveByHR(c.Request.Context(), c.Param("indentID"), req.HRID, req.Comments); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// UpdateTicketStatus handles PATCH /api/hr/tickets/:indentID/status
func (h *Handlers) UpdateTicketStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	affected, err := h.indentService.UpdateStatus(c.Request.Context(), c.Param("indentID"), req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !affected {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "travel indent not found"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// SessionHistory handles GET /api/hr/sessions/:sessionID/history
func (h *Handlers) SessionHistory(c *gin.Context) {
	session := h.chatService.Sessions().Get(c.Param("sessionID"))
	if session == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "session not found"})
		return
	}
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"session_id": session.ID,
			"history":    session.HistorySnapshot(),
		},
	})
}

// DeleteSession handles DELETE /api/hr/sessions/:sessionID
func (h *Handlers) DeleteSession(c *gin.Context) {
	if !h.chatService.Sessions().Delete(c.Param("sessionID")) {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "session not found"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

func (h *Handlers) badRequest(c *gin.Context, err error) {
	h.logger.Error("Invalid request", "error", err)
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
}

// writeError maps domain errors onto HTTP statuses. Internal details never
// leak; unknown errors collapse to a generic 500.
func (h *Handlers) writeError(c *gin.Context, err error) {
	switch {
	case entity.IsValidation(err):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case errors.Is(err, entity.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, Response{Success: false, Error: "permission denied"})
	case errors.Is(err, entity.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case entity.IsDuplicateTrip(err):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrSessionBusy):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	case entity.IsInvalidState(err), entity.IsPolicyViolation(err):
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: err.Error()})
	case errors.Is(err, entity.ErrUpstreamTimeout):
		c.JSON(http.StatusGatewayTimeout, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error("Request failed", "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal error"})
	}
}
