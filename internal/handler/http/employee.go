package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	GetMyBalance(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
}

type EmployeeHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewEmployeeHandler(leaveService leave.LeaveService) EmployeeHandler {
	return &EmployeeHandlerImpl{
		leaveService: leaveService,
	}
}

// GetMyBalance implements EmployeeHandler.
func (e *EmployeeHandlerImpl) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	balance, err := e.leaveService.GetBalance(r.Context(), viewer.EmployeeID, viewer)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}

// GetBalance implements EmployeeHandler.
func (e *EmployeeHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	employeeID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(employeeID) {
		response.HandleError(w, employee.ErrEmployeeNotFound)
		return
	}

	balance, err := e.leaveService.GetBalance(r.Context(), employeeID, viewer)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}
