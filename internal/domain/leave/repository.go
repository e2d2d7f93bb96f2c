package leave

import (
	"context"
	"time"
)

// LeaveRequestFilter narrows request listings. A nil EmployeeIDs means any
// employee; an empty non-nil slice matches nothing.
type LeaveRequestFilter struct {
	Status      LeaveRequestStatus
	EmployeeIDs []string
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)
	// ListPendingCreatedBefore returns pending requests created at or before cutoff.
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]LeaveRequest, error)
	// UpdateStatus persists the review fields of request only while the stored
	// status still equals from. A lost race yields ErrLeaveRequestAlreadyProcessed.
	UpdateStatus(ctx context.Context, request LeaveRequest, from LeaveRequestStatus) error
}
