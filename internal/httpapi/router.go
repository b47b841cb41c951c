package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"InfiniteDbAccounts/internal/service"

	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	DBPing func(context.Context) error

	Accounts *service.AccountService

	// CORS is only enabled when origins are configured.
	CORSOrigins []string
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := &api{
		logger:   logger,
		dbPing:   opts.DBPing,
		accounts: opts.Accounts,
		validate: newValidator(),
		names:    bluemonday.StrictPolicy(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", api.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	if api.accounts == nil {
		mux.HandleFunc("/api/", handleNotImplemented)
	} else {
		mux.HandleFunc("POST /api/accounts", api.handleStartRegistration)
		mux.HandleFunc("POST /api/accounts/confirm-email", api.handleConfirmEmail)
		mux.HandleFunc("POST /api/accounts/complete-registration", api.handleCompleteRegistration)
		mux.HandleFunc("POST /api/accounts/validate", api.handleValidateCredentials)
		mux.HandleFunc("GET /api/accounts/{id}", api.handleGetAccount)
		mux.HandleFunc("GET /api/accounts/by-email/{email}", api.handleGetAccountByEmail)
		mux.HandleFunc("POST /api/accounts/{id}/email-confirmation-code", api.handleNewConfirmationCode)
		mux.HandleFunc("PUT /api/accounts/{id}", api.handleUpdateAccount)
		mux.HandleFunc("PATCH /api/accounts/{id}", api.handleUpdateAccount)
		mux.HandleFunc("POST /api/accounts/forgot-password", api.handleForgotPassword)
		mux.HandleFunc("POST /api/accounts/reset-password", api.handleResetPassword)
		mux.HandleFunc("DELETE /api/accounts/{id}", api.handleDeleteAccount)
	}

	// Only ServeHTTP fills in r.Pattern and the path values, so the lookup
	// here is used for the 404 envelope and nothing else.
	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := mux.Handler(r); pattern == "" {
			handleNotFound(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})

	var h http.Handler = root
	if len(opts.CORSOrigins) > 0 {
		h = cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		})(h)
	}
	h = Metrics(mux)(h)
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, opts.IsProd)(h)
	return h
}

func handleNotImplemented(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotImplemented, "not_implemented", "Not implemented.")
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotFound, "not_found", "Not found.")
}

type api struct {
	logger *slog.Logger

	dbPing func(context.Context) error

	accounts *service.AccountService
	validate *validator.Validate
	names    *bluemonday.Policy
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.dbPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.dbPing(ctx); err != nil {
			a.logger.WarnContext(r.Context(), "health check failed", "err", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db down"))
			return
		}
	}

	_, _ = w.Write([]byte("ok"))
}
