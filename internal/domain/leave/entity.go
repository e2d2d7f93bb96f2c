package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type LeaveType string

const (
	LeaveTypeCasual LeaveType = "casual"
	LeaveTypeSick   LeaveType = "sick"
	LeaveTypeWFH    LeaveType = "wfh"
	LeaveTypeOnDuty LeaveType = "on_duty"
	LeaveTypePL     LeaveType = "pl"
	LeaveTypeLOP    LeaveType = "lop"
)

func (t LeaveType) IsValid() bool {
	switch t {
	case LeaveTypeCasual, LeaveTypeSick, LeaveTypeWFH, LeaveTypeOnDuty, LeaveTypePL, LeaveTypeLOP:
		return true
	}
	return false
}

// IsAttendanceOnly reports whether the type is tracked for attendance.
// Automatic approvals of these types do not debit the leave balance.
func (t LeaveType) IsAttendanceOnly() bool {
	return t == LeaveTypeWFH || t == LeaveTypeOnDuty
}

type Duration string

const (
	DurationFullDay Duration = "full_day"
	DurationHalfDay Duration = "half_day"
)

type HalfDayType string

const (
	HalfDayMorning   HalfDayType = "morning"
	HalfDayAfternoon HalfDayType = "afternoon"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending             LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved            LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected            LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled           LeaveRequestStatus = "cancelled"
	LeaveRequestStatusWithdrawalRequested LeaveRequestStatus = "withdrawal_requested"
)

// transitions lists the allowed edges of the request lifecycle.
var transitions = map[LeaveRequestStatus][]LeaveRequestStatus{
	LeaveRequestStatusPending: {
		LeaveRequestStatusApproved,
		LeaveRequestStatusRejected,
		LeaveRequestStatusCancelled,
		LeaveRequestStatusWithdrawalRequested,
	},
	LeaveRequestStatusApproved: {
		LeaveRequestStatusCancelled,
		LeaveRequestStatusWithdrawalRequested,
	},
	LeaveRequestStatusWithdrawalRequested: {
		LeaveRequestStatusCancelled,
		LeaveRequestStatusApproved,
	},
}

// IsTransitionTarget reports whether s may be requested as a new status.
// Pending is only ever an initial state.
func (s LeaveRequestStatus) IsTransitionTarget() bool {
	switch s {
	case LeaveRequestStatusApproved, LeaveRequestStatusRejected,
		LeaveRequestStatusCancelled, LeaveRequestStatusWithdrawalRequested:
		return true
	}
	return false
}

func (s LeaveRequestStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition reports whether the lifecycle allows from -> to.
func CanTransition(from, to LeaveRequestStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AutoApprovalNote is the admin note stamped on machine-approved requests.
const AutoApprovalNote = "Auto-approved by system after 3 days"

// LeaveRequest entity
type LeaveRequest struct {
	ID         string
	EmployeeID string
	LeaveType  LeaveType

	// Inclusive calendar dates
	StartDate time.Time
	EndDate   time.Time

	Duration    Duration
	HalfDayType *HalfDayType
	Reason      string

	Status LeaveRequestStatus
	// Provisional while pending, authoritative afterwards
	NumberOfDays decimal.Decimal
	// Whether the ledger currently holds a debit for this request
	BalanceDeducted bool

	ReviewedBy *string // nil when approved by the system
	ReviewedOn *time.Time
	AdminNote  *string

	AutoApproved         bool
	AutoApprovedBySystem bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r LeaveRequest) IsHalfDay() bool {
	return r.Duration == DurationHalfDay
}
