package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/gorilla/mux"
)

// Services bundles the collaborators the router dispatches to.
type Services struct {
	Identity     IdentityResolver
	Accounts     AccountRegistry
	Jobs         JobCatalog
	Applications ApplicationWorkflow
}

type Options struct {
	Logger         logging.Logger
	RequestTimeout time.Duration
	MaxResumeBytes int64
	// Health is pinged by GET /health when set.
	Health Pinger
}

func SetupRoutes(svc Services, opts Options) *mux.Router {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop{}
	}

	r := mux.NewRouter()

	// Middleware chain
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware(logger))
	r.Use(TimeoutMiddleware(opts.RequestTimeout))

	systemHandler := &SystemHandler{db: opts.Health}
	authHandler := NewAuthHandler(svc.Accounts, logger)
	jobsHandler := NewJobsHandler(svc.Jobs, logger)
	appsHandler := NewApplicationsHandler(svc.Applications, logger, opts.MaxResumeBytes)

	// Preflight requests must match a route for the CORS middleware to run.
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Open endpoints
	r.HandleFunc("/health", systemHandler.Health).Methods(http.MethodGet)
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	authMW := AuthMiddleware(svc.Identity, logger)
	company := func(h http.HandlerFunc) http.Handler { return RequireRole(models.RoleCompany, logger, h) }
	applicant := func(h http.HandlerFunc) http.Handler { return RequireRole(models.RoleApplicant, logger, h) }

	jobs := r.PathPrefix("/jobs").Subrouter()
	jobs.Use(authMW)
	jobs.Handle("", company(jobsHandler.Create)).Methods(http.MethodPost)
	jobs.Handle("", applicant(jobsHandler.Browse)).Methods(http.MethodGet)
	jobs.Handle("/{id}", company(jobsHandler.Update)).Methods(http.MethodPut)
	jobs.Handle("/{id}", company(jobsHandler.Delete)).Methods(http.MethodDelete)

	apps := r.PathPrefix("/applications").Subrouter()
	apps.Use(authMW)
	apps.Handle("/me", applicant(appsHandler.ListMine)).Methods(http.MethodGet)
	apps.Handle("/jobs/{job_id}", applicant(appsHandler.Apply)).Methods(http.MethodPost)
	apps.Handle("/{id}", company(appsHandler.UpdateStatus)).Methods(http.MethodPatch)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, Response{Message: "Not found", Errors: []string{"Not found"}})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, Response{Message: "Method not allowed", Errors: []string{"Method not allowed"}})
	})

	return r
}
