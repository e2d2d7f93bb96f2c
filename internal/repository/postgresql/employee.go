package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const employeeColumns = `
	id, full_name, email, department, role,
	total_leave_quota, leave_balance, leave_taken, carry_over_leaves, current_year_leaves,
	last_carry_forward_year, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var found employee.Employee
	err := row.Scan(
		&found.ID, &found.FullName, &found.Email, &found.Department, &found.Role,
		&found.TotalLeaveQuota, &found.LeaveBalance, &found.LeaveTaken,
		&found.CarryOverLeaves, &found.CurrentYearLeaves,
		&found.LastCarryForwardYear, &found.CreatedAt, &found.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
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
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13
		)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.FullName, newEmployee.Email, newEmployee.Department, newEmployee.Role,
		newEmployee.TotalLeaveQuota, newEmployee.LeaveBalance, newEmployee.LeaveTaken,
		newEmployee.CarryOverLeaves, newEmployee.CurrentYearLeaves,
		newEmployee.LastCarryForwardYear, newEmployee.CreatedAt, newEmployee.UpdatedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, err
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	return scanEmployee(q.QueryRow(ctx, query, id))
}

// GetByEmail implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email = $1`
	return scanEmployee(q.QueryRow(ctx, query, email))
}

// GetByIDForUpdate implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 FOR UPDATE`
	return scanEmployee(q.QueryRow(ctx, query, id))
}

// GetByDepartment implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByDepartment(ctx context.Context, department string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE department = $1 ORDER BY full_name`
	rows, err := q.Query(ctx, query, department)
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
		WHERE last_carry_forward_year IS NULL OR last_carry_forward_year <> $1
		ORDER BY created_at, id
	`
	rows, err := q.Query(ctx, query, year)
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
		SET leave_balance = GREATEST(leave_balance - $2::numeric, 0),
			leave_taken = leave_taken + $2::numeric,
			updated_at = NOW()
		WHERE id = $1
	`
	commandTag, err := q.Exec(ctx, query, id, days)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// CreditBalance implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) CreditBalance(ctx context.Context, id string, days decimal.Decimal) error {
	q := GetQuerier(ctx, e.db)
	query := `
		UPDATE employees
		SET leave_balance = leave_balance + $2::numeric,
			leave_taken = GREATEST(leave_taken - $2::numeric, 0),
			updated_at = NOW()
		WHERE id = $1
	`
	commandTag, err := q.Exec(ctx, query, id, days)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// ApplyCarryForward implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ApplyCarryForward(ctx context.Context, id string, update employee.CarryForwardUpdate) error {
	q := GetQuerier(ctx, e.db)
	query := `
		UPDATE employees
		SET total_leave_quota = $2,
			leave_balance = $3,
			leave_taken = 0,
			carry_over_leaves = $4,
			current_year_leaves = $5,
			last_carry_forward_year = $6,
			updated_at = NOW()
		WHERE id = $1
			AND (last_carry_forward_year IS NULL OR last_carry_forward_year <> $6)
	`
	commandTag, err := q.Exec(ctx, query, id,
		update.TotalLeaveQuota, update.LeaveBalance, update.CarryOverLeaves, update.CurrentYearLeaves, update.Year,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return employee.ErrCarryForwardAlreadyApplied
	}
	return nil
}
