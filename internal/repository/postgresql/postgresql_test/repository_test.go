package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	ctx := context.Background()

	setup, err := NewTestDatabase(ctx)
	if errors.Is(err, ErrNoTestDatabase) {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, err)
	t.Cleanup(setup.Close)

	require.NoError(t, setup.TruncateAllTables(ctx))
	return setup
}

func seedEmployee(t *testing.T, repo employee.EmployeeRepository, email string, quota int64) employee.Employee {
	t.Helper()
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	created, err := repo.Create(context.Background(),
		employee.NewEmployee("Test "+email, email, "Engineering", employee.RoleEmployee, decimal.NewFromInt(quota), now))
	require.NoError(t, err)
	return created
}

// ===== EMPLOYEE =====

func TestEmployeeRepository_CreateAndDuplicateEmail(t *testing.T) {
	setup := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)

	created := seedEmployee(t, repo, "ana@example.com", 20)
	assert.True(t, created.LeaveBalance.Equal(decimal.NewFromInt(20)))

	byEmail, err := repo.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.Create(ctx, employee.NewEmployee("Dup", "ana@example.com", "", employee.RoleEmployee, decimal.Zero, time.Now()))
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	_, err = repo.GetByID(ctx, "0192a8e4-4c1a-7b8e-9f3a-1b2c3d4e5f60")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeRepository_LedgerClampsAtZero(t *testing.T) {
	setup := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)
	emp := seedEmployee(t, repo, "ben@example.com", 2)

	require.NoError(t, repo.DebitBalance(ctx, emp.ID, decimal.NewFromFloat(3.5)))
	got, err := repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, got.LeaveBalance.IsZero())
	assert.True(t, got.LeaveTaken.Equal(decimal.NewFromFloat(3.5)))

	require.NoError(t, repo.CreditBalance(ctx, emp.ID, decimal.NewFromFloat(0.5)))
	got, err = repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, got.LeaveBalance.Equal(decimal.NewFromFloat(0.5)))
	assert.True(t, got.LeaveTaken.Equal(decimal.NewFromInt(3)))
}

func TestEmployeeRepository_CarryForwardGuard(t *testing.T) {
	setup := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)
	emp := seedEmployee(t, repo, "cy@example.com", 10)

	update := employee.CarryForwardUpdate{
		Year:              2027,
		TotalLeaveQuota:   decimal.NewFromInt(40),
		LeaveBalance:      decimal.NewFromInt(40),
		CarryOverLeaves:   decimal.NewFromInt(10),
		CurrentYearLeaves: decimal.NewFromInt(30),
	}
	require.NoError(t, repo.ApplyCarryForward(ctx, emp.ID, update))
	assert.ErrorIs(t, repo.ApplyCarryForward(ctx, emp.ID, update), employee.ErrCarryForwardAlreadyApplied)

	ids, err := repo.ListIDsForCarryForward(ctx, 2027)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

// ===== LEAVE REQUEST =====

func TestLeaveRequestRepository_GuardedUpdateInTransaction(t *testing.T) {
	setup := setupTestDB(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(setup.DB)
	repo := postgresql.NewLeaveRequestRepository(setup.DB)
	emp := seedEmployee(t, employees, "dee@example.com", 10)

	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, leave.LeaveRequest{
		EmployeeID:   emp.ID,
		LeaveType:    leave.LeaveTypeCasual,
		StartDate:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		Duration:     leave.DurationFullDay,
		Reason:       "trip",
		Status:       leave.LeaveRequestStatusPending,
		NumberOfDays: decimal.NewFromInt(2),
		CreatedAt:    now.Add(-96 * time.Hour),
		UpdatedAt:    now.Add(-96 * time.Hour),
	})
	require.NoError(t, err)

	stale, err := repo.ListPendingCreatedBefore(ctx, now.Add(-72*time.Hour))
	require.NoError(t, err)
	require.Len(t, stale, 1)

	approved := created
	approved.Status = leave.LeaveRequestStatusApproved
	approved.BalanceDeducted = true
	approved.UpdatedAt = now

	// ledger write is discarded with the failed transaction
	boom := errors.New("boom")
	err = postgresql.NewTransactor(setup.DB).WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := repo.UpdateStatus(txCtx, approved, leave.LeaveRequestStatusPending); err != nil {
			return err
		}
		if err := employees.DebitBalance(txCtx, emp.ID, approved.NumberOfDays); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusPending, got.Status)
	bal, err := employees.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, bal.LeaveBalance.Equal(decimal.NewFromInt(10)))

	require.NoError(t, repo.UpdateStatus(ctx, approved, leave.LeaveRequestStatusPending))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, approved, leave.LeaveRequestStatusPending), leave.ErrLeaveRequestAlreadyProcessed)

	pending, err := repo.List(ctx, leave.LeaveRequestFilter{Status: leave.LeaveRequestStatusPending, EmployeeIDs: []string{emp.ID}})
	require.NoError(t, err)
	assert.Empty(t, pending)
}
