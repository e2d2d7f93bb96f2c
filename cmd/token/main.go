// Command token issues an access token for an existing employee, looked up
// by email. Identity is owned elsewhere; this is for local use and scripts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cmlabs-hris/hrops-backend-go/internal/config"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrops-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/hrops-backend-go/internal/repository/sqlite"
)

func main() {
	email := flag.String("email", "", "employee email")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: token -email <employee email>")
		os.Exit(2)
	}

	if err := run(context.Background(), *email); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, email string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var repo employee.EmployeeRepository
	switch cfg.Database.Driver {
	case "postgres":
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return err
		}
		defer db.Close()
		repo = postgresql.NewEmployeeRepository(db)
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		repo = sqlite.NewEmployeeRepository(db)
	default:
		return fmt.Errorf("unsupported driver %q", cfg.Database.Driver)
	}

	emp, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
		GenerateAccessToken(emp.ID, emp.Email, emp.Role)
	if err != nil {
		return err
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "%s (%s) expires at %d\n", emp.FullName, emp.Role, expiresAt)
	return nil
}
