package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

var halfDay = decimal.NewFromFloat(0.5)

// StatusChange describes one lifecycle transition.
type StatusChange struct {
	To         leave.LeaveRequestStatus
	ReviewerID *string
	AdminNote  *string
	Now        time.Time
	// BySystem marks an approval made by the auto-approval job.
	BySystem bool
}

// RequestService owns the lifecycle of a single leave request.
type RequestService struct {
	leave.LeaveRequestRepository
	ledger   *Ledger
	holidays *calendar.HolidayCalendar
}

func NewRequestService(leaveRequestRepository leave.LeaveRequestRepository, ledger *Ledger, holidays *calendar.HolidayCalendar) *RequestService {
	return &RequestService{
		LeaveRequestRepository: leaveRequestRepository,
		ledger:                 ledger,
		holidays:               holidays,
	}
}

// NumberOfDays is 0.5 for half-day requests and the business-day count of
// the inclusive date range otherwise.
func (r *RequestService) NumberOfDays(request leave.LeaveRequest) decimal.Decimal {
	if request.IsHalfDay() {
		return halfDay
	}
	return decimal.NewFromInt(int64(calendar.CountWorkingDays(request.StartDate, request.EndDate, r.holidays)))
}

// Apply moves request from its loaded status to change.To and performs the
// matching ledger mutation. It must run inside a transaction so that a lost
// status race also discards the ledger write.
func (r *RequestService) Apply(ctx context.Context, request leave.LeaveRequest, change StatusChange) (leave.LeaveRequest, error) {
	if !change.To.IsTransitionTarget() {
		return leave.LeaveRequest{}, fmt.Errorf("%w: %q", leave.ErrInvalidStatus, change.To)
	}
	from := request.Status
	if !leave.CanTransition(from, change.To) {
		return leave.LeaveRequest{}, fmt.Errorf("%w: cannot move from %s to %s",
			leave.ErrLeaveRequestAlreadyProcessed, from, change.To)
	}

	updated := request
	updated.Status = change.To
	updated.UpdatedAt = change.Now

	var debit, credit decimal.Decimal

	switch change.To {
	case leave.LeaveRequestStatusApproved:
		// A request coming back from withdrawal_requested keeps its debit.
		// System approvals of attendance-only types record days without a debit.
		if !request.BalanceDeducted {
			updated.NumberOfDays = r.NumberOfDays(request)
			exempt := change.BySystem && request.LeaveType.IsAttendanceOnly()
			if !exempt && updated.NumberOfDays.IsPositive() {
				debit = updated.NumberOfDays
				updated.BalanceDeducted = true
			}
		}
		r.stampReview(&updated, change)
		if change.BySystem {
			updated.ReviewedBy = nil
			updated.AutoApproved = true
			updated.AutoApprovedBySystem = true
		}

	case leave.LeaveRequestStatusCancelled:
		if request.BalanceDeducted {
			credit = request.NumberOfDays
			updated.BalanceDeducted = false
		}
		updated.NumberOfDays = decimal.Zero
		r.stampReview(&updated, change)

	case leave.LeaveRequestStatusRejected:
		r.stampReview(&updated, change)

	case leave.LeaveRequestStatusWithdrawalRequested:
		if change.AdminNote != nil {
			updated.AdminNote = change.AdminNote
		}
	}

	if err := r.LeaveRequestRepository.UpdateStatus(ctx, updated, from); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request status: %w", err)
	}
	if err := r.ledger.Debit(ctx, request.EmployeeID, debit); err != nil {
		return leave.LeaveRequest{}, err
	}
	if err := r.ledger.Credit(ctx, request.EmployeeID, credit); err != nil {
		return leave.LeaveRequest{}, err
	}

	return updated, nil
}

func (r *RequestService) stampReview(request *leave.LeaveRequest, change StatusChange) {
	now := change.Now
	request.ReviewedBy = change.ReviewerID
	request.ReviewedOn = &now
	if change.AdminNote != nil {
		request.AdminNote = change.AdminNote
	}
}
