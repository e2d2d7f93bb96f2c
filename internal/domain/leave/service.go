package leave

import (
	"context"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
)

type LeaveService interface {
	// Request
	CreateLeaveRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	GetLeaveRequest(ctx context.Context, requestID string, viewer Viewer) (LeaveRequestResponse, error)
	ListPendingRequests(ctx context.Context, viewer Viewer) (ListLeaveRequestResponse, error)
	ResolveRequest(ctx context.Context, req ResolveRequestRequest) (LeaveRequestResponse, error)
	CancelLeaveRequest(ctx context.Context, req OwnerActionRequest) (LeaveRequestResponse, error)
	WithdrawLeaveRequest(ctx context.Context, req OwnerActionRequest) (LeaveRequestResponse, error)
	// Transition moves a request along the lifecycle and applies the matching
	// ledger mutation in the same transaction.
	Transition(ctx context.Context, requestID string, to LeaveRequestStatus, reviewerID, adminNote *string) (LeaveRequest, error)
	// Balance
	GetBalance(ctx context.Context, employeeID string, viewer Viewer) (employee.BalanceResponse, error)
	// Jobs
	RunAutoApproval(ctx context.Context) (AutoApprovalSummary, error)
	RunCarryForward(ctx context.Context) (CarryForwardSummary, error)
}
