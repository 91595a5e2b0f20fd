package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/user-roster/internal/domain/user"
)

// Handler serves the user roster over HTTP, delegating reads to the injected
// repository.
type Handler struct {
	users user.Repository
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(users user.Repository) *Handler {
	return &Handler{users: users}
}

// Routes mounts the API routes on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/api/users/all", h.ListUsers)
}

// Router returns a standalone router serving only the API routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	h.Routes(r)
	return r
}

// ListUsers writes every stored user as a JSON array.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.users.FindAll(ctx)
	if err != nil {
		zctx.From(ctx).Error("List users", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	encodeUsers(e, users)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := e.WriteTo(w); err != nil {
		zctx.From(ctx).Debug("Write response", zap.Error(err))
	}
}

func encodeUsers(e *jx.Encoder, users []user.User) {
	e.ArrStart()
	for _, u := range users {
		encodeUser(e, u)
	}
	e.ArrEnd()
}

// encodeUser writes u as {"id":..,"name":..,"salary":..}.
func encodeUser(e *jx.Encoder, u user.User) {
	e.ObjStart()
	e.Field("id", func(e *jx.Encoder) { e.Int64(u.ID) })
	e.Field("name", func(e *jx.Encoder) { e.Str(u.Name) })
	e.Field("salary", func(e *jx.Encoder) { e.Int(u.Salary) })
	e.ObjEnd()
}
