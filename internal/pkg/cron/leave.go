package cron

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
)

const (
	AutoApprovalJobName = "auto_approve_stale_leave_requests"
	CarryForwardJobName = "carry_forward_leave_balances"
)

// LeaveJobs wires the leave service's batch operations into a Scheduler.
type LeaveJobs struct {
	leaveService leave.LeaveService
}

func NewLeaveJobs(leaveService leave.LeaveService) *LeaveJobs {
	return &LeaveJobs{leaveService: leaveService}
}

// RegisterJobs adds auto-approval on every autoApprovalInterval and a
// carry-forward pass every carryForwardCheck. The carry-forward pass runs
// on every tick so a missed or failed 1 January run catches up later.
func (j *LeaveJobs) RegisterJobs(scheduler *Scheduler, autoApprovalInterval, carryForwardCheck time.Duration) {
	scheduler.AddJob(AutoApprovalJobName, autoApprovalInterval, j.AutoApprove)
	scheduler.AddJob(CarryForwardJobName, carryForwardCheck, j.CarryForward)
}

func (j *LeaveJobs) AutoApprove(ctx context.Context) error {
	_, err := j.leaveService.RunAutoApproval(ctx)
	return err
}

// CarryForward is safe to run on every tick; employees already carried into
// the year are not listed.
func (j *LeaveJobs) CarryForward(ctx context.Context) error {
	_, err := j.leaveService.RunCarryForward(ctx)
	return err
}
