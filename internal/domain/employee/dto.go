package employee

import "time"

type BalanceResponse struct {
	EmployeeID           string    `json:"employee_id"`
	FullName             string    `json:"full_name"`
	Department           string    `json:"department"`
	TotalLeaveQuota      float64   `json:"total_leave_quota"`
	LeaveBalance         float64   `json:"leave_balance"`
	LeaveTaken           float64   `json:"leave_taken"`
	CarryOverLeaves      float64   `json:"carry_over_leaves"`
	CurrentYearLeaves    float64   `json:"current_year_leaves"`
	LastCarryForwardYear *int      `json:"last_carry_forward_year,omitempty"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func NewBalanceResponse(e Employee) BalanceResponse {
	return BalanceResponse{
		EmployeeID:           e.ID,
		FullName:             e.FullName,
		Department:           e.Department,
		TotalLeaveQuota:      e.TotalLeaveQuota.InexactFloat64(),
		LeaveBalance:         e.LeaveBalance.InexactFloat64(),
		LeaveTaken:           e.LeaveTaken.InexactFloat64(),
		CarryOverLeaves:      e.CarryOverLeaves.InexactFloat64(),
		CurrentYearLeaves:    e.CurrentYearLeaves.InexactFloat64(),
		LastCarryForwardYear: e.LastCarryForwardYear,
		UpdatedAt:            e.UpdatedAt,
	}
}
