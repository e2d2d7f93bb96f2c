package leave

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateCarryForward(t *testing.T) {
	cases := []struct {
		name                       string
		carryOver, current, bal    float64
		wantCarryOver, wantBalance float64
	}{
		// used=15 drains the current bucket to 15, previous bucket untouched
		{"partially used", 10, 30, 25, 25, 55},
		{"nothing used caps both buckets", 20, 30, 50, 30, 60},
		{"everything used", 10, 30, 0, 0, 30},
		{"usage spills into carried bucket", 10, 30, 5, 5, 35},
		{"half days survive", 0, 30, 29.5, 15, 45},
		{"balance above start clamps usage", 0, 30, 40, 15, 45},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			emp := employee.Employee{
				CarryOverLeaves:   decimal.NewFromFloat(c.carryOver),
				CurrentYearLeaves: decimal.NewFromFloat(c.current),
				LeaveBalance:      decimal.NewFromFloat(c.bal),
			}
			update := CalculateCarryForward(emp, 2027)

			assert.Equal(t, 2027, update.Year)
			assertDays(t, c.wantCarryOver, update.CarryOverLeaves)
			assertDays(t, c.wantBalance, update.LeaveBalance)
			assertDays(t, c.wantBalance, update.TotalLeaveQuota)
			assertDays(t, 30, update.CurrentYearLeaves)
		})
	}
}

func TestLeaveService_RunCarryForward_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	lastYear := 2025
	seed := employee.NewEmployee("ana", "ana@example.com", "Engineering", employee.RoleEmployee, decimal.NewFromInt(40), env.now)
	seed.CarryOverLeaves = decimal.NewFromInt(10)
	seed.CurrentYearLeaves = decimal.NewFromInt(30)
	seed.LeaveBalance = decimal.NewFromInt(25)
	seed.LeaveTaken = decimal.NewFromInt(15)
	seed.LastCarryForwardYear = &lastYear
	emp, err := env.employees.Create(ctx, seed)
	require.NoError(t, err)

	// onboarded this year, nothing to carry
	fresh := env.hire(t, "bo", "Engineering", employee.RoleEmployee, 30)

	env.now = time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC)
	summary, err := env.svc.RunCarryForward(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2026, summary.Year)
	assert.Equal(t, 1, summary.Scanned)
	assert.Equal(t, 1, summary.Processed)

	after := env.balance(t, emp.ID)
	assertDays(t, 55, after.LeaveBalance)
	assertDays(t, 55, after.TotalLeaveQuota)
	assertDays(t, 25, after.CarryOverLeaves)
	assertDays(t, 30, after.CurrentYearLeaves)
	assertDays(t, 0, after.LeaveTaken)
	require.NotNil(t, after.LastCarryForwardYear)
	assert.Equal(t, 2026, *after.LastCarryForwardYear)

	assertDays(t, 30, env.balance(t, fresh.ID).LeaveBalance)

	summary, err = env.svc.RunCarryForward(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Processed)
	assertDays(t, 55, env.balance(t, emp.ID).LeaveBalance)

	// guard holds even when called for a single employee directly
	err = env.svc.carryForwardEmployee(ctx, emp.ID, 2026)
	assert.ErrorIs(t, err, employee.ErrCarryForwardAlreadyApplied)
	assertDays(t, 55, env.balance(t, emp.ID).LeaveBalance)
}

func (e *testEnv) seedLastYear(t *testing.T, name string, balance float64, lastYear int) employee.Employee {
	t.Helper()
	seed := employee.NewEmployee(name, name+"@example.com", "Engineering", employee.RoleEmployee, decimal.NewFromInt(30), e.now)
	seed.CurrentYearLeaves = decimal.NewFromInt(30)
	seed.LeaveBalance = decimal.NewFromFloat(balance)
	seed.LastCarryForwardYear = &lastYear
	emp, err := e.employees.Create(context.Background(), seed)
	require.NoError(t, err)
	return emp
}

func TestLeaveService_RunCarryForward_ContinuesAfterFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.seedLastYear(t, "ana", 20, 2025)
	broken := env.seedLastYear(t, "bo", 20, 2025)
	last := env.seedLastYear(t, "cy", 20, 2025)

	env.now = time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC)
	svc := env.build(flakyEmployees{EmployeeRepository: env.employees, failID: broken.ID})
	summary, err := svc.RunCarryForward(ctx)
	require.NoError(t, err)
	assert.Equal(t, leave.CarryForwardSummary{Year: 2026, Scanned: 3, Processed: 2, Failed: 1}, summary)

	for _, id := range []string{first.ID, last.ID} {
		after := env.balance(t, id)
		require.NotNil(t, after.LastCarryForwardYear)
		assert.Equal(t, 2026, *after.LastCarryForwardYear)
		assertDays(t, 45, after.LeaveBalance)
	}

	untouched := env.balance(t, broken.ID)
	require.NotNil(t, untouched.LastCarryForwardYear)
	assert.Equal(t, 2025, *untouched.LastCarryForwardYear)
	assertDays(t, 20, untouched.LeaveBalance)

	// the failed employee is picked up by the next run
	summary, err = env.svc.RunCarryForward(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assertDays(t, 45, env.balance(t, broken.ID).LeaveBalance)
}

func TestLeaveService_RunCarryForward_UsesUTCYear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	emp := env.seedLastYear(t, "ana", 20, 2024)

	// already 2026 in Jakarta, still 2025 in UTC
	env.now = time.Date(2026, 1, 1, 1, 0, 0, 0, time.FixedZone("WIB", 7*60*60))
	summary, err := env.svc.RunCarryForward(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2025, summary.Year)
	assert.Equal(t, 1, summary.Processed)

	after := env.balance(t, emp.ID)
	require.NotNil(t, after.LastCarryForwardYear)
	assert.Equal(t, 2025, *after.LastCarryForwardYear)
}
