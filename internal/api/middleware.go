package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"selectshop/internal/models"

	"github.com/go-chi/chi/middleware"
)

// Cabeçalhos preenchidos pelo gateway que autentica o usuário
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
)

type userKey struct{}

// UserFromContext devolve o usuário identificado pelo middleware de identidade
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey{}).(models.User)
	return user, ok
}

func withUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// identity confia nos cabeçalhos do gateway; sem eles a requisição é recusada
func identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
		if err != nil || id <= 0 {
			respondError(w, http.StatusUnauthorized, "usuário não identificado")
			return
		}

		role, err := models.ParseRole(r.Header.Get(HeaderUserRole))
		if err != nil {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), models.User{ID: id, Role: role})))
	})
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || !user.IsAdmin() {
			respondError(w, http.StatusForbidden, "acesso restrito a administradores")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// trackUsage soma ao usuário o tempo gasto atendendo cada chamada
func (h *Handler) trackUsage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		user, ok := UserFromContext(r.Context())
		if !ok || h.usage == nil {
			return
		}

		elapsed := time.Since(start)
		if err := h.usage.AddUseTime(context.WithoutCancel(r.Context()), user.ID, elapsed); err != nil {
			h.logger.Warn("erro ao registrar tempo de uso", "user_id", user.ID, "error", err)
		}
	})
}

// requestLogger registra cada requisição com slog
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			logger.Debug("requisição atendida",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
