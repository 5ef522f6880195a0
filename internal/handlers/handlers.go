package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"expense-journal/internal/auth"
	"expense-journal/internal/logger"
	"expense-journal/internal/models"
	"expense-journal/internal/storage"

	"github.com/rs/zerolog"
)

// Context key type to avoid collisions.
type contextKey string

// UserContextKey is the context key for the authenticated user.
const UserContextKey contextKey = "user"

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Store is the persistence the handlers need. Every method is scoped to the
// given user ID.
type Store interface {
	CreateTransaction(ctx context.Context, userID int64, nt models.NewTransaction) (*models.Transaction, error)
	GetTransaction(ctx context.Context, id, userID int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, page, pageSize int) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, id, userID int64, p models.TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id, userID int64) (*models.Transaction, error)

	CategoryStats(ctx context.Context, userID int64) ([]models.CategoryStat, error)
	TagStats(ctx context.Context, userID int64) ([]models.TagStat, error)
	DashboardStats(ctx context.Context, userID int64) (*models.DashboardStats, error)

	ListCategories(ctx context.Context, userID int64) ([]models.Category, error)
	CreateCategory(ctx context.Context, userID int64, name string) (*models.Category, error)
	ListTags(ctx context.Context, userID int64) ([]models.Tag, error)
	CreateTag(ctx context.Context, userID int64, name string) (*models.Tag, error)
}

// Authenticator registers users, checks credentials and resolves bearer tokens.
type Authenticator interface {
	Register(ctx context.Context, email, password, name string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Authenticate(ctx context.Context, header string) (*models.User, error)
	Profile(ctx context.Context, userID int64) (*models.User, error)
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	store Store
	auth  Authenticator
	log   zerolog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store Store, auth Authenticator, log zerolog.Logger) *Handlers {
	return &Handlers{store: store, auth: auth, log: log}
}

// GetUserFromContext retrieves the authenticated user from request context.
func GetUserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// Routes registers every API route on a new ServeMux.
func (h *Handlers) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	protected := func(f http.HandlerFunc) http.Handler {
		return h.RequireAuth(f)
	}

	mux.HandleFunc("GET /api/health", h.Health)

	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.Handle("GET /api/auth/profile", protected(h.Profile))

	mux.Handle("GET /api/transactions", protected(h.ListTransactions))
	mux.Handle("POST /api/transactions", protected(h.CreateTransaction))
	mux.Handle("GET /api/transactions/stats", protected(h.Statistics))
	mux.Handle("GET /api/transactions/stats/chart.png", protected(h.StatisticsChart))
	mux.Handle("GET /api/transactions/{id}", protected(h.GetTransaction))
	mux.Handle("PUT /api/transactions/{id}", protected(h.UpdateTransaction))
	mux.Handle("PATCH /api/transactions/{id}", protected(h.UpdateTransaction))
	mux.Handle("DELETE /api/transactions/{id}", protected(h.DeleteTransaction))

	mux.Handle("GET /api/dashboard/stats", protected(h.Dashboard))

	mux.Handle("GET /api/categories", protected(h.ListCategories))
	mux.Handle("POST /api/categories", protected(h.CreateCategory))
	mux.Handle("GET /api/tags", protected(h.ListTags))
	mux.Handle("POST /api/tags", protected(h.CreateTag))

	mux.HandleFunc("/", h.NotFound)
	return mux
}

// Health reports that the server is up.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Server is running",
	})
}

// NotFound answers requests that match no route.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, "Route not found")
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes an error in the {status:"error", message} shape.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{
		"status":  "error",
		"message": message,
	})
}

func writeData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, map[string]any{
		"status": "success",
		"data":   data,
	})
}

func (h *Handlers) logFor(r *http.Request) zerolog.Logger {
	if log, ok := logger.Lookup(r.Context()); ok {
		return log
	}
	return h.log
}

// decodeJSON reads a JSON body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// pathID parses the {id} path value. Malformed IDs are reported as not found,
// like IDs that belong to someone else.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// writeServiceError maps domain errors onto HTTP statuses. Unknown errors are
// logged and reported as a generic 500 with fallback as the message.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound, fallback string) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, storage.ErrEmailTaken):
		WriteError(w, http.StatusBadRequest, "User with this email already exists")
	case errors.Is(err, storage.ErrDuplicate):
		WriteError(w, http.StatusBadRequest, "Name already exists")
	case errors.Is(err, storage.ErrEmptyName):
		WriteError(w, http.StatusBadRequest, "Name is required")
	case errors.Is(err, auth.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, auth.ErrNoToken):
		WriteError(w, http.StatusUnauthorized, "No token provided")
	case errors.Is(err, auth.ErrTokenExpired):
		WriteError(w, http.StatusUnauthorized, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		WriteError(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, auth.ErrUserGone):
		WriteError(w, http.StatusUnauthorized, "User no longer exists")
	case errors.Is(err, storage.ErrNotFound):
		WriteError(w, http.StatusNotFound, notFound)
	default:
		log := h.logFor(r)
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg(fallback)
		WriteError(w, http.StatusInternalServerError, fallback)
	}
}
