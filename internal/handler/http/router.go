package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Env         string
	FrontendURL string
	LogLevel    slog.Level
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, leaveHandler LeaveHandler, employeeHandler EmployeeHandler, jobHandler JobHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
		Level:       cfg.LogLevel,
	})).With(
		slog.String("app", "hrops-leave"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/leave/requests", func(r chi.Router) {
				r.Post("/", leaveHandler.CreateRequest)
				r.Get("/pending", leaveHandler.ListPendingRequests)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", leaveHandler.GetRequest)
					r.Post("/cancel", leaveHandler.CancelRequest)
					r.Post("/withdraw", leaveHandler.WithdrawRequest)

					// Reviewers only
					r.With(middleware.RequireReviewer).Patch("/status", leaveHandler.UpdateRequestStatus)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/me/balance", employeeHandler.GetMyBalance)
				r.Get("/{id}/balance", employeeHandler.GetBalance)
			})

			// HR and admin only
			r.Route("/jobs", func(r chi.Router) {
				r.Use(middleware.RequireHR)
				r.Post("/auto-approval", jobHandler.RunAutoApproval)
				r.Post("/carry-forward", jobHandler.RunCarryForward)
			})
		})
	})
	return r
}
