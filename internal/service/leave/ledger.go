package leave

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// Ledger applies balance mutations for resolved leave requests. Each call is
// a single atomic increment in the store; non-positive amounts are ignored.
type Ledger struct {
	employee.EmployeeRepository
}

func NewLedger(employeeRepository employee.EmployeeRepository) *Ledger {
	return &Ledger{EmployeeRepository: employeeRepository}
}

// Debit lowers the balance by days, clamped at zero, and raises leave taken.
func (l *Ledger) Debit(ctx context.Context, employeeID string, days decimal.Decimal) error {
	if !days.IsPositive() {
		return nil
	}
	if err := l.EmployeeRepository.DebitBalance(ctx, employeeID, days); err != nil {
		return fmt.Errorf("failed to debit leave balance: %w", err)
	}
	return nil
}

// Credit returns days to the balance and lowers leave taken, clamped at zero.
func (l *Ledger) Credit(ctx context.Context, employeeID string, days decimal.Decimal) error {
	if !days.IsPositive() {
		return nil
	}
	if err := l.EmployeeRepository.CreditBalance(ctx, employeeID, days); err != nil {
		return fmt.Errorf("failed to credit leave balance: %w", err)
	}
	return nil
}
