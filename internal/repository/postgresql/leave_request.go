package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `
	id, employee_id, leave_type, start_date, end_date, duration, half_day_type, reason,
	status, number_of_days, balance_deducted, reviewed_by, reviewed_on, admin_note,
	auto_approved, auto_approved_by_system, created_at, updated_at`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID,
		&lr.EmployeeID,
		&lr.LeaveType,
		&lr.StartDate,
		&lr.EndDate,
		&lr.Duration,
		&lr.HalfDayType,
		&lr.Reason,
		&lr.Status,
		&lr.NumberOfDays,
		&lr.BalanceDeducted,
		&lr.ReviewedBy,
		&lr.ReviewedOn,
		&lr.AdminNote,
		&lr.AutoApproved,
		&lr.AutoApprovedBySystem,
		&lr.CreatedAt,
		&lr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return lr, nil
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	if request.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return leave.LeaveRequest{}, fmt.Errorf("generate leave request id: %w", err)
		}
		request.ID = id.String()
	}

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type,
			start_date, end_date, duration, half_day_type, reason,
			status, number_of_days, balance_deducted,
			created_at, updated_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7, $8,
			$9, $10, $11,
			$12, $13
		)
		RETURNING ` + leaveRequestColumns

	return scanLeaveRequest(q.QueryRow(ctx, query,
		request.ID, request.EmployeeID, request.LeaveType,
		request.StartDate, request.EndDate, request.Duration, request.HalfDayType, request.Reason,
		request.Status, request.NumberOfDays, request.BalanceDeducted,
		request.CreatedAt, request.UpdatedAt,
	))
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`
	return scanLeaveRequest(q.QueryRow(ctx, query, id))
}

func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	if filter.EmployeeIDs != nil && len(filter.EmployeeIDs) == 0 {
		return []leave.LeaveRequest{}, nil
	}

	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.EmployeeIDs != nil {
		conditions = append(conditions, fmt.Sprintf("employee_id = ANY($%d::uuid[])", argIdx))
		args = append(args, filter.EmployeeIDs)
		argIdx++
	}

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at, id"

	return r.queryList(ctx, q, query, args...)
}

func (r *leaveRequestRepositoryImpl) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE status = $1 AND created_at <= $2
		ORDER BY created_at, id`
	return r.queryList(ctx, q, query, leave.LeaveRequestStatusPending, cutoff)
}

func (r *leaveRequestRepositoryImpl) queryList(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]leave.LeaveRequest, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, request leave.LeaveRequest, from leave.LeaveRequestStatus) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_requests
		SET status = $2,
			number_of_days = $3,
			balance_deducted = $4,
			reviewed_by = $5,
			reviewed_on = $6,
			admin_note = $7,
			auto_approved = $8,
			auto_approved_by_system = $9,
			updated_at = $10
		WHERE id = $1 AND status = $11
	`
	commandTag, err := q.Exec(ctx, query,
		request.ID, request.Status, request.NumberOfDays, request.BalanceDeducted,
		request.ReviewedBy, request.ReviewedOn, request.AdminNote,
		request.AutoApproved, request.AutoApprovedBySystem, request.UpdatedAt,
		from,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestAlreadyProcessed
	}
	return nil
}
