package http

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mind-engage/mindengage-grades/internal/auth"
	"github.com/mind-engage/mindengage-grades/internal/course"
	"github.com/mind-engage/mindengage-grades/internal/rbac"
	"github.com/mind-engage/mindengage-grades/internal/storage"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Store  course.Store
	Blobs  storage.BlobStore
	Auth   *auth.AuthService
	Login  auth.LoginOptions
	DB     Pinger // nil when running without a database
	Logger *slog.Logger

	AllowedOrigins []string
	LoginLimiter   *auth.LoginLimiter // defaults to 1/s with a burst of 10
}

func NewRouter(d Deps) nethttp.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(auth.CapturePeer, middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	limiter := d.LoginLimiter
	if limiter == nil {
		limiter = auth.NewLoginLimiter(1, 10)
	}
	r.With(limiter.Middleware).Post("/auth/login", auth.LoginHandler(d.Auth, d.Login))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))

		pr.With(rbac.Require(rbac.PermGradesCompute)).
			Post("/grades", ComputeGradesHandler(logger))

		pr.With(rbac.Require(rbac.PermCourseWrite)).
			Post("/courses", PutCourseHandler(d.Store, logger))
		pr.With(rbac.RequireAny(rbac.PermCourseView, rbac.PermCourseWrite)).
			Get("/courses", ListCoursesHandler(d.Store))
		pr.With(rbac.Require(rbac.PermCourseWrite)).
			Put("/courses/{courseID}/groups/{groupID}", PutGroupHandler(d.Store, logger))
		pr.With(rbac.Require(rbac.PermCourseWrite)).
			Post("/courses/{courseID}/submissions", AddSubmissionsHandler(d.Store, logger))
		pr.With(rbac.Require(rbac.PermGradesView)).
			Get("/courses/{courseID}/grades", CourseGradesHandler(d.Store, logger))

		if d.Blobs != nil {
			pr.With(rbac.Require(rbac.PermCourseWrite)).
				Post("/courses/{courseID}/import", ImportDatasetHandler(d.Store, d.Blobs, logger))
			pr.Route("/datasets", func(dr chi.Router) {
				dr.Use(rbac.Require(rbac.PermCourseWrite))
				MountDatasets(dr, d.Blobs)
			})
		}
	})

	r.Get("/healthz", func(w nethttp.ResponseWriter, r *nethttp.Request) { w.WriteHeader(nethttp.StatusOK) })
	r.Get("/readyz", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if d.DB != nil {
			if err := d.DB.PingContext(r.Context()); err != nil {
				logger.Warn("readiness check failed", "error", err)
				nethttp.Error(w, "db unavailable", nethttp.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(nethttp.StatusOK)
	})
	return r
}
