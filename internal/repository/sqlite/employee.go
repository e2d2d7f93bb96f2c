package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

const employeeColumns = `
	id, full_name, email, department, role,
	total_leave_quota, leave_balance, leave_taken, carry_over_leaves, current_year_leaves,
	last_carry_forward_year, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type employeeRepositoryImpl struct {
	db *sql.DB
}

func NewEmployeeRepository(db *sql.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var found employee.Employee
	var createdAt, updatedAt string
	err := row.Scan(
		&found.ID, &found.FullName, &found.Email, &found.Department, &found.Role,
		&found.TotalLeaveQuota, &found.LeaveBalance, &found.LeaveTaken,
		&found.CarryOverLeaves, &found.CurrentYearLeaves,
		&found.LastCarryForwardYear, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	if found.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return employee.Employee{}, fmt.Errorf("parse created_at: %w", err)
	}
	if found.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return employee.Employee{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return found, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	if newEmployee.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return employee.Employee{}, fmt.Errorf("generate employee id: %w", err)
		}
		newEmployee.ID = id.String()
	}

	query := `
		INSERT INTO employees (
			id, full_name, email, department, role,
			total_leave_quota, leave_balance, leave_taken, carry_over_leaves, current_year_leaves,
			last_carry_forward_year, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, query,
		newEmployee.ID, newEmployee.FullName, newEmployee.Email, newEmployee.Department, string(newEmployee.Role),
		newEmployee.TotalLeaveQuota.InexactFloat64(), newEmployee.LeaveBalance.InexactFloat64(),
		newEmployee.LeaveTaken.InexactFloat64(), newEmployee.CarryOverLeaves.InexactFloat64(),
		newEmployee.CurrentYearLeaves.InexactFloat64(),
		newEmployee.LastCarryForwardYear, formatTimestamp(newEmployee.CreatedAt), formatTimestamp(newEmployee.UpdatedAt),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, err
	}

	return e.GetByID(ctx, newEmployee.ID)
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ?`
	return scanEmployee(q.QueryRowContext(ctx, query, id))
}

// GetByEmail implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email = ?`
	return scanEmployee(q.QueryRowContext(ctx, query, email))
}

// GetByIDForUpdate implements employee.EmployeeRepository. Transactions
// already hold the database write lock, so this is a plain read.
func (e *employeeRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (employee.Employee, error) {
	return e.GetByID(ctx, id)
}

// GetByDepartment implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByDepartment(ctx context.Context, department string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE department = ? ORDER BY full_name`
	rows, err := q.QueryContext(ctx, query, department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		found, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, found)
	}
	return employees, rows.Err()
}

// ListIDsForCarryForward implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListIDsForCarryForward(ctx context.Context, year int) ([]string, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id FROM employees
		WHERE last_carry_forward_year IS NULL OR last_carry_forward_year <> ?
		ORDER BY created_at, id
	`
	rows, err := q.QueryContext(ctx, query, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DebitBalance implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) DebitBalance(ctx context.Context, id string, days decimal.Decimal) error {
	q := GetQuerier(ctx, e.db)
	query := `
		UPDATE employees
		SET leave_balance = MAX(leave_balance - ?1, 0),
			leave_taken = leave_taken + ?1,
			updated_at = ?2
		WHERE id = ?3
	`
	return e.execBalance(ctx, q.ExecContext, query, days, id)
}

// CreditBalance implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) CreditBalance(ctx context.Context, id string, days decimal.Decimal) error {
	q := GetQuerier(ctx, e.db)
	query := `
		UPDATE employees
		SET leave_balance = leave_balance + ?1,
			leave_taken = MAX(leave_taken - ?1, 0),
			updated_at = ?2
		WHERE id = ?3
	`
	return e.execBalance(ctx, q.ExecContext, query, days, id)
}

type execFunc func(ctx context.Context, query string, args ...any) (sql.Result, error)

func (e *employeeRepositoryImpl) execBalance(ctx context.Context, exec execFunc, query string, days decimal.Decimal, id string) error {
	result, err := exec(ctx, query, days.InexactFloat64(), formatTimestamp(timeNow()), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// ApplyCarryForward implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ApplyCarryForward(ctx context.Context, id string, update employee.CarryForwardUpdate) error {
	q := GetQuerier(ctx, e.db)
	query := `
		UPDATE employees
		SET total_leave_quota = ?,
			leave_balance = ?,
			leave_taken = 0,
			carry_over_leaves = ?,
			current_year_leaves = ?,
			last_carry_forward_year = ?,
			updated_at = ?
		WHERE id = ?
			AND (last_carry_forward_year IS NULL OR last_carry_forward_year <> ?)
	`
	result, err := q.ExecContext(ctx, query,
		update.TotalLeaveQuota.InexactFloat64(), update.LeaveBalance.InexactFloat64(),
		update.CarryOverLeaves.InexactFloat64(), update.CurrentYearLeaves.InexactFloat64(),
		update.Year, formatTimestamp(timeNow()), id, update.Year,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return employee.ErrCarryForwardAlreadyApplied
	}
	return nil
}
