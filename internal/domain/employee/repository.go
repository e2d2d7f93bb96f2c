package employee

import (
	"context"

	"github.com/shopspring/decimal"
)

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends
	// where the store supports row locks.
	GetByIDForUpdate(ctx context.Context, id string) (Employee, error)
	GetByDepartment(ctx context.Context, department string) ([]Employee, error)
	// ListIDsForCarryForward returns employees whose carry-forward for year
	// has not been applied yet.
	ListIDsForCarryForward(ctx context.Context, year int) ([]string, error)

	// DebitBalance clamps the balance at zero and adds days to leave taken.
	DebitBalance(ctx context.Context, id string, days decimal.Decimal) error
	// CreditBalance adds days back to the balance and clamps leave taken at zero.
	CreditBalance(ctx context.Context, id string, days decimal.Decimal) error
	// ApplyCarryForward writes the new buckets only when update.Year has not
	// been applied, returning ErrCarryForwardAlreadyApplied otherwise.
	ApplyCarryForward(ctx context.Context, id string, update CarryForwardUpdate) error
}
