package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/abgdnv/giftshop/internal/session"
	"github.com/abgdnv/giftshop/pkg/logger"
	"github.com/abgdnv/giftshop/pkg/web"
	"github.com/google/uuid"
)

type sessionKey struct{}

// sessionMiddleware resolves the X-Session-Id header. Requests without a live session get 401.
func (h *Handler) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(SessionHeader)
		if raw == "" {
			web.RespondCodedError(w, h.logger, http.StatusUnauthorized, "session_required", "Missing "+SessionHeader+" header")
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			web.RespondCodedError(w, h.logger, http.StatusUnauthorized, "session_required", "Invalid session id: "+raw)
			return
		}
		s, err := h.sessions.Get(id)
		if err != nil {
			h.logger.DebugContext(r.Context(), "Unknown session", "session_id", id)
			web.RespondCodedError(w, h.logger, http.StatusUnauthorized, "session_required", "Session not found")
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, s)
		ctx = logger.WithAttrs(ctx, slog.String("session_id", id.String()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the session attached by sessionMiddleware.
func sessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey{}).(*session.Session)
	return s
}

// optionalSession resolves X-Session-Id for routes that also work without a session.
func (h *Handler) optionalSession(r *http.Request) *session.Session {
	id, err := uuid.Parse(r.Header.Get(SessionHeader))
	if err != nil {
		return nil
	}
	s, err := h.sessions.Get(id)
	if err != nil {
		return nil
	}
	return s
}
