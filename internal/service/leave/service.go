package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
)

const DefaultAutoApprovalAfter = 72 * time.Hour

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	requestService *RequestService

	now               func() time.Time
	autoApprovalAfter time.Duration
}

type Option func(*LeaveServiceImpl)

// WithClock replaces time.Now as the source of "now".
func WithClock(now func() time.Time) Option {
	return func(l *LeaveServiceImpl) { l.now = now }
}

// WithAutoApprovalAfter sets the age after which privileged requests are
// auto-approved.
func WithAutoApprovalAfter(d time.Duration) Option {
	return func(l *LeaveServiceImpl) {
		if d > 0 {
			l.autoApprovalAfter = d
		}
	}
}

func NewLeaveService(
	tx database.Transactor,
	leaveRequestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	requestService *RequestService,
	opts ...Option,
) *LeaveServiceImpl {
	l := &LeaveServiceImpl{
		tx:                     tx,
		LeaveRequestRepository: leaveRequestRepo,
		EmployeeRepository:     employeeRepo,
		requestService:         requestService,
		now:                    time.Now,
		autoApprovalAfter:      DefaultAutoApprovalAfter,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ leave.LeaveService = (*LeaveServiceImpl)(nil)

// CreateLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	emp, err := l.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	now := l.now()
	request := leave.LeaveRequest{
		EmployeeID: emp.ID,
		LeaveType:  leave.LeaveType(req.LeaveType),
		StartDate:  startDate,
		EndDate:    endDate,
		Duration:   leave.Duration(req.Duration),
		Reason:     req.Reason,
		Status:     leave.LeaveRequestStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.HalfDayType != nil {
		halfDayType := leave.HalfDayType(*req.HalfDayType)
		request.HalfDayType = &halfDayType
	}
	// Provisional, for display only
	request.NumberOfDays = l.requestService.NumberOfDays(request)

	created, err := l.LeaveRequestRepository.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return leave.NewLeaveRequestResponse(created), nil
}

// GetLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, requestID string, viewer leave.Viewer) (leave.LeaveRequestResponse, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	if err := l.authorizeView(ctx, viewer, request.EmployeeID); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return leave.NewLeaveRequestResponse(request), nil
}

// ListPendingRequests implements leave.LeaveService. Employees see their
// own requests, managers their department, hr and admin everything.
func (l *LeaveServiceImpl) ListPendingRequests(ctx context.Context, viewer leave.Viewer) (leave.ListLeaveRequestResponse, error) {
	filter := leave.LeaveRequestFilter{Status: leave.LeaveRequestStatusPending}

	switch viewer.Role {
	case employee.RoleHR, employee.RoleAdmin:
	case employee.RoleManager:
		ids, err := l.departmentMemberIDs(ctx, viewer.EmployeeID)
		if err != nil {
			return leave.ListLeaveRequestResponse{}, err
		}
		filter.EmployeeIDs = ids
	default:
		filter.EmployeeIDs = []string{viewer.EmployeeID}
	}

	requests, err := l.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list pending leave requests: %w", err)
	}

	response := leave.ListLeaveRequestResponse{
		TotalCount:    int64(len(requests)),
		LeaveRequests: make([]leave.LeaveRequestResponse, 0, len(requests)),
	}
	for _, request := range requests {
		response.LeaveRequests = append(response.LeaveRequests, leave.NewLeaveRequestResponse(request))
	}
	return response, nil
}

// ResolveRequest implements leave.LeaveService. Reviewers cannot resolve
// their own requests, and managers are limited to their department.
func (l *LeaveServiceImpl) ResolveRequest(ctx context.Context, req leave.ResolveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	target := leave.LeaveRequestStatus(req.Status)
	if !target.IsTransitionTarget() {
		return leave.LeaveRequestResponse{}, fmt.Errorf("%w: %q", leave.ErrInvalidStatus, req.Status)
	}
	if req.Reviewer.Role == employee.RoleEmployee || !req.Reviewer.Role.IsValid() {
		return leave.LeaveRequestResponse{}, leave.ErrUnauthorizedAccess
	}

	request, err := l.LeaveRequestRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if request.EmployeeID == req.Reviewer.EmployeeID {
		return leave.LeaveRequestResponse{}, leave.ErrUnauthorizedAccess
	}
	if err := l.authorizeView(ctx, req.Reviewer, request.EmployeeID); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	reviewerID := req.Reviewer.EmployeeID
	updated, err := l.Transition(ctx, req.ID, target, &reviewerID, req.AdminNote)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(updated), nil
}

// CancelLeaveRequest implements leave.LeaveService. Owners may only cancel
// requests that are still pending; approved leave goes through withdrawal.
func (l *LeaveServiceImpl) CancelLeaveRequest(ctx context.Context, req leave.OwnerActionRequest) (leave.LeaveRequestResponse, error) {
	return l.ownerTransition(ctx, req, leave.LeaveRequestStatusCancelled, leave.LeaveRequestStatusPending)
}

// WithdrawLeaveRequest implements leave.LeaveService. Only approved requests
// can be withdrawn; a reviewer then cancels or re-approves them.
func (l *LeaveServiceImpl) WithdrawLeaveRequest(ctx context.Context, req leave.OwnerActionRequest) (leave.LeaveRequestResponse, error) {
	return l.ownerTransition(ctx, req, leave.LeaveRequestStatusWithdrawalRequested, leave.LeaveRequestStatusApproved)
}

func (l *LeaveServiceImpl) ownerTransition(ctx context.Context, req leave.OwnerActionRequest, to, from leave.LeaveRequestStatus) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	ownerID := req.EmployeeID
	updated, err := l.transition(ctx, req.ID, StatusChange{
		To:         to,
		ReviewerID: &ownerID,
		AdminNote:  req.Note,
	}, func(request leave.LeaveRequest) error {
		if request.EmployeeID != req.EmployeeID {
			return leave.ErrUnauthorizedAccess
		}
		if request.Status != from {
			return fmt.Errorf("%w: owner cannot move from %s to %s",
				leave.ErrLeaveRequestAlreadyProcessed, request.Status, to)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(updated), nil
}

// Transition implements leave.LeaveService.
func (l *LeaveServiceImpl) Transition(ctx context.Context, requestID string, to leave.LeaveRequestStatus, reviewerID, adminNote *string) (leave.LeaveRequest, error) {
	return l.transition(ctx, requestID, StatusChange{
		To:         to,
		ReviewerID: reviewerID,
		AdminNote:  adminNote,
	}, nil)
}

// transition loads the request inside the transaction, runs check against
// that snapshot when set, then applies change.
func (l *LeaveServiceImpl) transition(ctx context.Context, requestID string, change StatusChange, check func(leave.LeaveRequest) error) (leave.LeaveRequest, error) {
	if !change.To.IsTransitionTarget() {
		return leave.LeaveRequest{}, fmt.Errorf("%w: %q", leave.ErrInvalidStatus, change.To)
	}

	var updated leave.LeaveRequest
	err := l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		request, err := l.LeaveRequestRepository.GetByID(txCtx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get leave request: %w", err)
		}
		if check != nil {
			if err := check(request); err != nil {
				return err
			}
		}

		change.Now = l.now()
		updated, err = l.requestService.Apply(txCtx, request, change)
		return err
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return updated, nil
}

// GetBalance implements leave.LeaveService.
func (l *LeaveServiceImpl) GetBalance(ctx context.Context, employeeID string, viewer leave.Viewer) (employee.BalanceResponse, error) {
	emp, err := l.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return employee.BalanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if err := l.authorizeEmployeeView(ctx, viewer, emp); err != nil {
		return employee.BalanceResponse{}, err
	}
	return employee.NewBalanceResponse(emp), nil
}

// authorizeView checks that viewer may see data owned by ownerID.
func (l *LeaveServiceImpl) authorizeView(ctx context.Context, viewer leave.Viewer, ownerID string) error {
	if viewer.EmployeeID == ownerID {
		return nil
	}
	switch viewer.Role {
	case employee.RoleHR, employee.RoleAdmin:
		return nil
	case employee.RoleManager:
		owner, err := l.EmployeeRepository.GetByID(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("failed to get request owner: %w", err)
		}
		return l.authorizeEmployeeView(ctx, viewer, owner)
	}
	return leave.ErrUnauthorizedAccess
}

func (l *LeaveServiceImpl) authorizeEmployeeView(ctx context.Context, viewer leave.Viewer, emp employee.Employee) error {
	if viewer.EmployeeID == emp.ID {
		return nil
	}
	switch viewer.Role {
	case employee.RoleHR, employee.RoleAdmin:
		return nil
	case employee.RoleManager:
		manager, err := l.EmployeeRepository.GetByID(ctx, viewer.EmployeeID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return leave.ErrUnauthorizedAccess
			}
			return fmt.Errorf("failed to get manager: %w", err)
		}
		if manager.Department != "" && manager.Department == emp.Department {
			return nil
		}
	}
	return leave.ErrUnauthorizedAccess
}

func (l *LeaveServiceImpl) departmentMemberIDs(ctx context.Context, managerID string) ([]string, error) {
	manager, err := l.EmployeeRepository.GetByID(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get manager: %w", err)
	}
	if manager.Department == "" {
		return []string{manager.ID}, nil
	}

	members, err := l.EmployeeRepository.GetByDepartment(ctx, manager.Department)
	if err != nil {
		return nil, fmt.Errorf("failed to get department members: %w", err)
	}
	ids := make([]string, 0, len(members))
	for _, member := range members {
		ids = append(ids, member.ID)
	}
	return ids, nil
}
