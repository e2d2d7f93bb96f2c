package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// Carry-forward policy
const (
	NewYearQuota = 30
	MaxPerBucket = 15
)

var (
	newYearQuota = decimal.NewFromInt(NewYearQuota)
	maxPerBucket = decimal.NewFromInt(MaxPerBucket)
)

// CalculateCarryForward computes the buckets for year from the balance left
// over at the end of the previous year. Leave used during the year is charged
// to the current-year bucket first, then to the carried-over bucket. Each
// bucket carries at most MaxPerBucket days.
func CalculateCarryForward(emp employee.Employee, year int) employee.CarryForwardUpdate {
	totalStartOfYear := emp.CarryOverLeaves.Add(emp.CurrentYearLeaves)
	used := decimal.Max(totalStartOfYear.Sub(emp.LeaveBalance), decimal.Zero)

	remainingCurrent := decimal.Max(emp.CurrentYearLeaves.Sub(used), decimal.Zero)
	consumedCurrent := decimal.Min(used, emp.CurrentYearLeaves)
	remainingPrev := decimal.Max(emp.CarryOverLeaves.Sub(used.Sub(consumedCurrent)), decimal.Zero)

	carryPrev := decimal.Min(remainingPrev, maxPerBucket)
	carryCurrent := decimal.Min(remainingCurrent, maxPerBucket)
	totalCarry := carryPrev.Add(carryCurrent)
	newBalance := totalCarry.Add(newYearQuota)

	return employee.CarryForwardUpdate{
		Year:              year,
		TotalLeaveQuota:   newBalance,
		LeaveBalance:      newBalance,
		CarryOverLeaves:   totalCarry,
		CurrentYearLeaves: newYearQuota,
	}
}

// RunCarryForward implements leave.LeaveService. Every employee not yet
// carried forward into the current UTC year is processed in its own
// transaction; running it twice in a year changes nothing.
func (l *LeaveServiceImpl) RunCarryForward(ctx context.Context) (leave.CarryForwardSummary, error) {
	year := l.now().UTC().Year()
	summary := leave.CarryForwardSummary{Year: year}

	ids, err := l.EmployeeRepository.ListIDsForCarryForward(ctx, year)
	if err != nil {
		return summary, fmt.Errorf("failed to list employees for carry forward: %w", err)
	}
	summary.Scanned = len(ids)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		err := l.carryForwardEmployee(ctx, id, year)
		switch {
		case err == nil:
			summary.Processed++
		case errors.Is(err, employee.ErrCarryForwardAlreadyApplied):
			summary.Skipped++
		default:
			slog.Error("Cron: Failed to carry forward leave balance",
				"employee_id", id, "year", year, "error", err)
			summary.Failed++
		}
	}

	slog.Info("Cron: Carry forward completed",
		"year", summary.Year,
		"scanned", summary.Scanned,
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (l *LeaveServiceImpl) carryForwardEmployee(ctx context.Context, employeeID string, year int) error {
	return l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		emp, err := l.EmployeeRepository.GetByIDForUpdate(txCtx, employeeID)
		if err != nil {
			return fmt.Errorf("failed to lock employee: %w", err)
		}
		if !emp.NeedsCarryForward(year) {
			return employee.ErrCarryForwardAlreadyApplied
		}

		update := CalculateCarryForward(emp, year)
		if err := l.EmployeeRepository.ApplyCarryForward(txCtx, emp.ID, update); err != nil {
			return fmt.Errorf("failed to apply carry forward: %w", err)
		}

		slog.Debug("Cron: Carried forward leave balance",
			"employee_id", emp.ID,
			"year", year,
			"carry_over", update.CarryOverLeaves.String(),
			"balance", update.LeaveBalance.String(),
		)
		return nil
	})
}
