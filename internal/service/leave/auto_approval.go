package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
)

// RunAutoApproval implements leave.LeaveService. Pending requests older than
// the auto-approval age whose owner is not a plain employee are approved by
// the system, each in its own transaction. Item failures are logged and
// counted; the run continues.
func (l *LeaveServiceImpl) RunAutoApproval(ctx context.Context) (leave.AutoApprovalSummary, error) {
	var summary leave.AutoApprovalSummary

	now := l.now()
	cutoff := now.Add(-l.autoApprovalAfter)

	requests, err := l.LeaveRequestRepository.ListPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		return summary, fmt.Errorf("failed to list stale pending requests: %w", err)
	}
	summary.Scanned = len(requests)

	owners := make(map[string]employee.Role)
	for _, request := range requests {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		role, ok := owners[request.EmployeeID]
		if !ok {
			owner, err := l.EmployeeRepository.GetByID(ctx, request.EmployeeID)
			if err != nil {
				slog.Error("Cron: Failed to load leave request owner",
					"request_id", request.ID, "employee_id", request.EmployeeID, "error", err)
				summary.Failed++
				continue
			}
			role = owner.Role
			owners[request.EmployeeID] = role
		}

		if !role.IsPrivileged() {
			summary.Skipped++
			continue
		}
		summary.Eligible++

		if err := l.autoApprove(ctx, request.ID); err != nil {
			if errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed) {
				// resolved by a reviewer since the scan
				summary.Skipped++
				continue
			}
			slog.Error("Cron: Failed to auto-approve leave request",
				"request_id", request.ID, "employee_id", request.EmployeeID, "error", err)
			summary.Failed++
			continue
		}
		summary.Approved++
	}

	slog.Info("Cron: Auto-approval completed",
		"scanned", summary.Scanned,
		"eligible", summary.Eligible,
		"approved", summary.Approved,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (l *LeaveServiceImpl) autoApprove(ctx context.Context, requestID string) error {
	note := leave.AutoApprovalNote
	return l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		request, err := l.LeaveRequestRepository.GetByID(txCtx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get leave request: %w", err)
		}
		_, err = l.requestService.Apply(txCtx, request, StatusChange{
			To:        leave.LeaveRequestStatusApproved,
			AdminNote: &note,
			Now:       l.now(),
			BySystem:  true,
		})
		return err
	})
}
