package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ListPendingRequests(w http.ResponseWriter, r *http.Request)
	UpdateRequestStatus(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
	WithdrawRequest(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
	}
}

// CreateRequest implements LeaveHandler. The owner is always the caller.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req leave.CreateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}
	req.EmployeeID = viewer.EmployeeID

	created, err := l.leaveService.CreateLeaveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request created successfully", created)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	requestID, ok := requestIDParam(w, r)
	if !ok {
		return
	}

	request, err := l.leaveService.GetLeaveRequest(r.Context(), requestID, viewer)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, request)
}

// ListPendingRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	list, err := l.leaveService.ListPendingRequests(r.Context(), viewer)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list.LeaveRequests, &response.Meta{TotalItems: list.TotalCount})
}

// UpdateRequestStatus implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	requestID, ok := requestIDParam(w, r)
	if !ok {
		return
	}

	var req leave.ResolveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateRequestStatus decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}
	req.ID = requestID
	req.Reviewer = viewer

	updated, err := l.leaveService.ResolveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request updated successfully", updated)
}

// CancelRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := l.ownerAction(w, r)
	if !ok {
		return
	}

	updated, err := l.leaveService.CancelLeaveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled successfully", updated)
}

// WithdrawRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) WithdrawRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := l.ownerAction(w, r)
	if !ok {
		return
	}

	updated, err := l.leaveService.WithdrawLeaveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave withdrawal requested successfully", updated)
}

// ownerAction decodes an optional note body for cancel and withdraw.
func (l *LeaveHandlerImpl) ownerAction(w http.ResponseWriter, r *http.Request) (leave.OwnerActionRequest, bool) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return leave.OwnerActionRequest{}, false
	}

	requestID, ok := requestIDParam(w, r)
	if !ok {
		return leave.OwnerActionRequest{}, false
	}

	var req leave.OwnerActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Owner action decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return leave.OwnerActionRequest{}, false
	}
	req.ID = requestID
	req.EmployeeID = viewer.EmployeeID

	return req, true
}

// requestIDParam reads {id}. Malformed ids cannot exist, so they are
// reported as not found.
func requestIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	requestID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(requestID) {
		response.HandleError(w, leave.ErrLeaveRequestNotFound)
		return "", false
	}
	return requestID, true
}
