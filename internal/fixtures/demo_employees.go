package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// ==========================================
// DEMO EMPLOYEES
// ==========================================

// EmployeeFixture describes one seeded employee.
type EmployeeFixture struct {
	FullName   string
	Email      string
	Department string
	Role       employee.Role
	Quota      int64
}

// DefaultEmployees covers every role and two departments, enough to walk
// through approval and scoping by hand.
func DefaultEmployees() []EmployeeFixture {
	return []EmployeeFixture{
		{FullName: "Ada Admin", Email: "admin@hrops.local", Department: "", Role: employee.RoleAdmin, Quota: 30},
		{FullName: "Hana HR", Email: "hr@hrops.local", Department: "People", Role: employee.RoleHR, Quota: 30},
		{FullName: "Max Manager", Email: "manager@hrops.local", Department: "Engineering", Role: employee.RoleManager, Quota: 30},
		{FullName: "Eli Engineer", Email: "eli@hrops.local", Department: "Engineering", Role: employee.RoleEmployee, Quota: 30},
		{FullName: "Fay Finance", Email: "fay@hrops.local", Department: "Finance", Role: employee.RoleEmployee, Quota: 30},
	}
}

// ==========================================
// SEEDING
// ==========================================

// SeedEmployees creates the fixtures that do not exist yet, matched by
// email, and returns every fixture's ID keyed by email.
func SeedEmployees(ctx context.Context, repo employee.EmployeeRepository, fixtures []EmployeeFixture, now time.Time) (map[string]string, error) {
	ids := make(map[string]string, len(fixtures))
	created := 0

	for _, f := range fixtures {
		existing, err := repo.GetByEmail(ctx, f.Email)
		if err == nil {
			ids[f.Email] = existing.ID
			continue
		}
		if !errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, fmt.Errorf("failed to look up %s: %w", f.Email, err)
		}

		emp, err := repo.Create(ctx, employee.NewEmployee(f.FullName, f.Email, f.Department, f.Role, decimal.NewFromInt(f.Quota), now))
		if err != nil {
			return nil, fmt.Errorf("failed to seed %s: %w", f.Email, err)
		}
		ids[f.Email] = emp.ID
		created++
	}

	slog.Info("Demo employees seeded", "created", created, "total", len(fixtures))
	return ids, nil
}
