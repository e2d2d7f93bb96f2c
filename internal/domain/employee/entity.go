package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID         string
	FullName   string
	Email      string
	Department string
	Role       Role

	// Balance fields, half-day precision
	TotalLeaveQuota   decimal.Decimal
	LeaveBalance      decimal.Decimal
	LeaveTaken        decimal.Decimal
	CarryOverLeaves   decimal.Decimal
	CurrentYearLeaves decimal.Decimal

	// Year of the last applied carry-forward; nil means never applied
	LastCarryForwardYear *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// IsPrivileged reports whether requests owned by this role may be
// auto-approved.
func (r Role) IsPrivileged() bool {
	return r.IsValid() && r != RoleEmployee
}

// NewEmployee builds an onboarded employee whose whole quota sits in the
// current-year bucket. The onboarding year counts as already carried forward.
func NewEmployee(fullName, email, department string, role Role, quota decimal.Decimal, now time.Time) Employee {
	year := now.Year()
	return Employee{
		FullName:             fullName,
		Email:                email,
		Department:           department,
		Role:                 role,
		TotalLeaveQuota:      quota,
		LeaveBalance:         quota,
		LeaveTaken:           decimal.Zero,
		CarryOverLeaves:      decimal.Zero,
		CurrentYearLeaves:    quota,
		LastCarryForwardYear: &year,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// NeedsCarryForward reports whether the carry-forward for year is still due.
func (e Employee) NeedsCarryForward(year int) bool {
	return e.LastCarryForwardYear == nil || *e.LastCarryForwardYear != year
}

// CarryForwardUpdate is the new bucket state written by the yearly reset.
type CarryForwardUpdate struct {
	Year              int
	TotalLeaveQuota   decimal.Decimal
	LeaveBalance      decimal.Decimal
	CarryOverLeaves   decimal.Decimal
	CurrentYearLeaves decimal.Decimal
}
