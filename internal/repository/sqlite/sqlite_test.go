package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createEmployee(t *testing.T, repo employee.EmployeeRepository, email string, quota int64) employee.Employee {
	t.Helper()
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	created, err := repo.Create(context.Background(),
		employee.NewEmployee("Test "+email, email, "Engineering", employee.RoleEmployee, decimal.NewFromInt(quota), now))
	require.NoError(t, err)
	return created
}

func TestEmployeeRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository(openTestDB(t))

	created := createEmployee(t, repo, "ana@example.com", 20)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.LeaveBalance.Equal(decimal.NewFromInt(20)))
	require.NotNil(t, created.LastCarryForwardYear)
	assert.Equal(t, 2026, *created.LastCarryForwardYear)

	byEmail, err := repo.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = repo.Create(ctx, employee.NewEmployee("Dup", "ana@example.com", "", employee.RoleEmployee, decimal.Zero, time.Now()))
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	dept, err := repo.GetByDepartment(ctx, "Engineering")
	require.NoError(t, err)
	assert.Len(t, dept, 1)
}

func TestEmployeeRepository_DebitClampsAndCreditRestores(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository(openTestDB(t))
	emp := createEmployee(t, repo, "ben@example.com", 2)

	require.NoError(t, repo.DebitBalance(ctx, emp.ID, decimal.NewFromFloat(3.5)))
	got, err := repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, got.LeaveBalance.IsZero(), "balance %s", got.LeaveBalance)
	assert.True(t, got.LeaveTaken.Equal(decimal.NewFromFloat(3.5)))

	require.NoError(t, repo.CreditBalance(ctx, emp.ID, decimal.NewFromInt(5)))
	got, err = repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, got.LeaveBalance.Equal(decimal.NewFromInt(5)))
	assert.True(t, got.LeaveTaken.IsZero())

	assert.ErrorIs(t, repo.DebitBalance(ctx, "missing", decimal.NewFromInt(1)), employee.ErrEmployeeNotFound)
}

func TestEmployeeRepository_ApplyCarryForwardIsGuardedByYear(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository(openTestDB(t))
	emp := createEmployee(t, repo, "cy@example.com", 10)

	update := employee.CarryForwardUpdate{
		Year:              2027,
		TotalLeaveQuota:   decimal.NewFromInt(40),
		LeaveBalance:      decimal.NewFromInt(40),
		CarryOverLeaves:   decimal.NewFromInt(10),
		CurrentYearLeaves: decimal.NewFromInt(30),
	}

	ids, err := repo.ListIDsForCarryForward(ctx, 2027)
	require.NoError(t, err)
	assert.Equal(t, []string{emp.ID}, ids)

	require.NoError(t, repo.ApplyCarryForward(ctx, emp.ID, update))
	assert.ErrorIs(t, repo.ApplyCarryForward(ctx, emp.ID, update), employee.ErrCarryForwardAlreadyApplied)

	ids, err = repo.ListIDsForCarryForward(ctx, 2027)
	require.NoError(t, err)
	assert.Empty(t, ids)

	got, err := repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, got.LeaveBalance.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 2027, *got.LastCarryForwardYear)
}

func newRequest(employeeID string, createdAt time.Time) leave.LeaveRequest {
	return leave.LeaveRequest{
		EmployeeID:   employeeID,
		LeaveType:    leave.LeaveTypeCasual,
		StartDate:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		Duration:     leave.DurationFullDay,
		Reason:       "trip",
		Status:       leave.LeaveRequestStatusPending,
		NumberOfDays: decimal.NewFromInt(2),
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func TestLeaveRequestRepository_GuardedStatusUpdate(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	emp := createEmployee(t, NewEmployeeRepository(db), "dee@example.com", 10)
	repo := NewLeaveRequestRepository(db)

	created, err := repo.Create(ctx, newRequest(emp.ID, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", created.StartDate.Format("2006-01-02"))
	assert.Nil(t, created.HalfDayType)

	reviewer := emp.ID
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	approved := created
	approved.Status = leave.LeaveRequestStatusApproved
	approved.BalanceDeducted = true
	approved.ReviewedBy = &reviewer
	approved.ReviewedOn = &now
	approved.UpdatedAt = now

	require.NoError(t, repo.UpdateStatus(ctx, approved, leave.LeaveRequestStatusPending))
	// second writer observed the stale status
	assert.ErrorIs(t, repo.UpdateStatus(ctx, approved, leave.LeaveRequestStatusPending), leave.ErrLeaveRequestAlreadyProcessed)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusApproved, got.Status)
	assert.True(t, got.BalanceDeducted)
	require.NotNil(t, got.ReviewedOn)
	assert.True(t, got.ReviewedOn.Equal(now))

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestLeaveRequestRepository_Listing(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	employees := NewEmployeeRepository(db)
	a := createEmployee(t, employees, "a@example.com", 10)
	b := createEmployee(t, employees, "b@example.com", 10)
	repo := NewLeaveRequestRepository(db)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	old, err := repo.Create(ctx, newRequest(a.ID, now.Add(-96*time.Hour)))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newRequest(b.ID, now.Add(-time.Hour)))
	require.NoError(t, err)

	stale, err := repo.ListPendingCreatedBefore(ctx, now.Add(-72*time.Hour))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, old.ID, stale[0].ID)

	all, err := repo.List(ctx, leave.LeaveRequestFilter{Status: leave.LeaveRequestStatusPending})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyB, err := repo.List(ctx, leave.LeaveRequestFilter{EmployeeIDs: []string{b.ID}})
	require.NoError(t, err)
	require.Len(t, onlyB, 1)
	assert.Equal(t, b.ID, onlyB[0].EmployeeID)

	none, err := repo.List(ctx, leave.LeaveRequestFilter{EmployeeIDs: []string{}})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewEmployeeRepository(db)
	emp := createEmployee(t, repo, "eve@example.com", 10)

	boom := errors.New("boom")
	err := NewTransactor(db).WithinTransaction(ctx, func(ctx context.Context) error {
		if err := repo.DebitBalance(ctx, emp.ID, decimal.NewFromInt(4)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, got.LeaveBalance.Equal(decimal.NewFromInt(10)))
}
