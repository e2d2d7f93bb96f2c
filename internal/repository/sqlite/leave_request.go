package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

const leaveRequestColumns = `
	id, employee_id, leave_type, start_date, end_date, duration, half_day_type, reason,
	status, number_of_days, balance_deducted, reviewed_by, reviewed_on, admin_note,
	auto_approved, auto_approved_by_system, created_at, updated_at`

type leaveRequestRepositoryImpl struct {
	db *sql.DB
}

func NewLeaveRequestRepository(db *sql.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row rowScanner) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	var startDate, endDate, createdAt, updatedAt string
	var reviewedOn sql.NullString
	err := row.Scan(
		&lr.ID,
		&lr.EmployeeID,
		&lr.LeaveType,
		&startDate,
		&endDate,
		&lr.Duration,
		&lr.HalfDayType,
		&lr.Reason,
		&lr.Status,
		&lr.NumberOfDays,
		&lr.BalanceDeducted,
		&lr.ReviewedBy,
		&reviewedOn,
		&lr.AdminNote,
		&lr.AutoApproved,
		&lr.AutoApprovedBySystem,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}

	if lr.StartDate, err = time.Parse(dateLayout, startDate); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("parse start_date: %w", err)
	}
	if lr.EndDate, err = time.Parse(dateLayout, endDate); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("parse end_date: %w", err)
	}
	if lr.ReviewedOn, err = parseNullTimestamp(reviewedOn); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("parse reviewed_on: %w", err)
	}
	if lr.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("parse created_at: %w", err)
	}
	if lr.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("parse updated_at: %w", err)
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
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, query,
		request.ID, request.EmployeeID, string(request.LeaveType),
		request.StartDate.Format(dateLayout), request.EndDate.Format(dateLayout),
		string(request.Duration), request.HalfDayType, request.Reason,
		string(request.Status), request.NumberOfDays.InexactFloat64(), request.BalanceDeducted,
		formatTimestamp(request.CreatedAt), formatTimestamp(request.UpdatedAt),
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return r.GetByID(ctx, request.ID)
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = ?`
	return scanLeaveRequest(q.QueryRowContext(ctx, query, id))
}

func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	if filter.EmployeeIDs != nil && len(filter.EmployeeIDs) == 0 {
		return []leave.LeaveRequest{}, nil
	}

	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.EmployeeIDs != nil {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.EmployeeIDs)), ", ")
		conditions = append(conditions, "employee_id IN ("+placeholders+")")
		for _, id := range filter.EmployeeIDs {
			args = append(args, id)
		}
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
		WHERE status = ? AND created_at <= ?
		ORDER BY created_at, id`
	return r.queryList(ctx, q, query, string(leave.LeaveRequestStatusPending), formatTimestamp(cutoff))
}

func (r *leaveRequestRepositoryImpl) queryList(ctx context.Context, q database.SQLQuerier, query string, args ...interface{}) ([]leave.LeaveRequest, error) {
	rows, err := q.QueryContext(ctx, query, args...)
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
		SET status = ?,
			number_of_days = ?,
			balance_deducted = ?,
			reviewed_by = ?,
			reviewed_on = ?,
			admin_note = ?,
			auto_approved = ?,
			auto_approved_by_system = ?,
			updated_at = ?
		WHERE id = ? AND status = ?
	`
	result, err := q.ExecContext(ctx, query,
		string(request.Status), request.NumberOfDays.InexactFloat64(), request.BalanceDeducted,
		request.ReviewedBy, formatNullTimestamp(request.ReviewedOn), request.AdminNote,
		request.AutoApproved, request.AutoApprovedBySystem, formatTimestamp(request.UpdatedAt),
		request.ID, string(from),
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return leave.ErrLeaveRequestAlreadyProcessed
	}
	return nil
}
