package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/response"
)

// JobHandler triggers the leave batch jobs on demand.
type JobHandler interface {
	RunAutoApproval(w http.ResponseWriter, r *http.Request)
	RunCarryForward(w http.ResponseWriter, r *http.Request)
}

type JobHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewJobHandler(leaveService leave.LeaveService) JobHandler {
	return &JobHandlerImpl{
		leaveService: leaveService,
	}
}

// RunAutoApproval implements JobHandler.
func (j *JobHandlerImpl) RunAutoApproval(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())
	slog.Info("Manual auto-approval run", "triggered_by", viewer.EmployeeID)

	summary, err := j.leaveService.RunAutoApproval(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Auto-approval completed", summary)
}

// RunCarryForward implements JobHandler. Unlike the scheduled job it runs on
// any date; employees already carried into the current year are skipped.
func (j *JobHandlerImpl) RunCarryForward(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())
	slog.Info("Manual carry forward run", "triggered_by", viewer.EmployeeID)

	summary, err := j.leaveService.RunCarryForward(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Carry forward completed", summary)
}
