package leave

import (
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/validator"
)

// Viewer identifies the caller, taken from the access token.
type Viewer struct {
	EmployeeID string
	Role       employee.Role
}

type CreateLeaveRequestRequest struct {
	EmployeeID  string  `json:"-"`
	LeaveType   string  `json:"leave_type"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Duration    string  `json:"duration"`
	HalfDayType *string `json:"half_day_type,omitempty"`
	Reason      string  `json:"reason"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	// Employee ID
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	// Leave type
	if !LeaveType(r.LeaveType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of casual, sick, wfh, on_duty, pl, lop",
		})
	}

	// Dates
	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	// Duration
	switch Duration(r.Duration) {
	case DurationFullDay:
		if r.HalfDayType != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "half_day_type",
				Message: "half_day_type is only allowed for half_day requests",
			})
		}
	case DurationHalfDay:
		if r.HalfDayType == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "half_day_type",
				Message: "half_day_type is required for half_day requests",
			})
		} else if !validator.IsInSlice(*r.HalfDayType, []string{string(HalfDayMorning), string(HalfDayAfternoon)}) {
			errs = append(errs, validator.ValidationError{
				Field:   "half_day_type",
				Message: "half_day_type must be morning or afternoon",
			})
		}
		if startOK && endOK && !end.Equal(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "half_day requests must start and end on the same date",
			})
		}
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "duration",
			Message: "duration must be full_day or half_day",
		})
	}

	// Reason
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}
	if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ResolveRequestRequest struct {
	ID        string  `json:"-"`
	Status    string  `json:"status"`
	AdminNote *string `json:"admin_note,omitempty"`
	Reviewer  Viewer  `json:"-"`
}

func (r *ResolveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.AdminNote != nil && len(*r.AdminNote) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "admin_note",
			Message: "admin_note must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// OwnerActionRequest is a cancel or withdraw issued by the request owner.
type OwnerActionRequest struct {
	ID         string  `json:"-"`
	EmployeeID string  `json:"-"`
	Note       *string `json:"note,omitempty"`
}

func (r *OwnerActionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveRequestResponse struct {
	ID                   string     `json:"id"`
	EmployeeID           string     `json:"employee_id"`
	LeaveType            string     `json:"leave_type"`
	StartDate            string     `json:"start_date"`
	EndDate              string     `json:"end_date"`
	Duration             string     `json:"duration"`
	HalfDayType          *string    `json:"half_day_type,omitempty"`
	Reason               string     `json:"reason"`
	Status               string     `json:"status"`
	NumberOfDays         float64    `json:"number_of_days"`
	BalanceDeducted      bool       `json:"balance_deducted"`
	ReviewedBy           *string    `json:"reviewed_by,omitempty"`
	ReviewedOn           *time.Time `json:"reviewed_on,omitempty"`
	AdminNote            *string    `json:"admin_note,omitempty"`
	AutoApproved         bool       `json:"auto_approved"`
	AutoApprovedBySystem bool       `json:"auto_approved_by_system"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:                   r.ID,
		EmployeeID:           r.EmployeeID,
		LeaveType:            string(r.LeaveType),
		StartDate:            r.StartDate.Format("2006-01-02"),
		EndDate:              r.EndDate.Format("2006-01-02"),
		Duration:             string(r.Duration),
		Reason:               r.Reason,
		Status:               string(r.Status),
		NumberOfDays:         r.NumberOfDays.InexactFloat64(),
		BalanceDeducted:      r.BalanceDeducted,
		ReviewedBy:           r.ReviewedBy,
		ReviewedOn:           r.ReviewedOn,
		AdminNote:            r.AdminNote,
		AutoApproved:         r.AutoApproved,
		AutoApprovedBySystem: r.AutoApprovedBySystem,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
	if r.HalfDayType != nil {
		h := string(*r.HalfDayType)
		resp.HalfDayType = &h
	}
	return resp
}

type ListLeaveRequestResponse struct {
	TotalCount    int64                  `json:"total_count"`
	LeaveRequests []LeaveRequestResponse `json:"leave_requests"`
}

// AutoApprovalSummary reports one auto-approval run.
type AutoApprovalSummary struct {
	Scanned  int `json:"scanned"`
	Eligible int `json:"eligible"`
	Approved int `json:"approved"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// CarryForwardSummary reports one carry-forward run.
type CarryForwardSummary struct {
	Year      int `json:"year"`
	Scanned   int `json:"scanned"`
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}
