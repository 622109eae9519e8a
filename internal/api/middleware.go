package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"zackiepharma/m/internal/audit"
	"zackiepharma/m/internal/auth"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
)

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote_ip", r.RemoteAddr),
		}
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}
		switch {
		case ww.Status() >= 500:
			zap.L().Error("request completed", fields...)
		case ww.Status() >= 400:
			zap.L().Warn("request completed", fields...)
		default:
			zap.L().Info("request completed", fields...)
		}
	})
}

// principalFrom resolves the caller from the bearer header, falling back to
// the session cookie.
func (h *Handler) principalFrom(r *http.Request) (auth.Principal, bool) {
	token := ""
	if header := r.Header.Get("Authorization"); len(header) > len("bearer ") && strings.EqualFold(header[:len("bearer ")], "bearer ") {
		token = strings.TrimSpace(header[len("bearer "):])
	}
	if token == "" {
		token = h.sessions.Token(r)
	}
	if token == "" {
		return auth.Principal{}, false
	}
	p, err := h.tokens.Parse(token)
	if err != nil {
		return auth.Principal{}, false
	}
	return p, true
}

func withPrincipal(r *http.Request, p auth.Principal) *http.Request {
	ctx := auth.WithPrincipal(r.Context(), p)
	ctx = audit.WithActor(ctx, p.UserID)
	return r.WithContext(ctx)
}

// authenticate rejects requests without a valid session.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := h.principalFrom(r)
		if !ok {
			respondNotice(w, http.StatusUnauthorized, "please log in to continue", loginPath)
			return
		}
		next.ServeHTTP(w, withPrincipal(r, p))
	})
}

// identify attaches the principal when one is present without requiring it.
func (h *Handler) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := h.principalFrom(r); ok {
			r = withPrincipal(r, p)
		}
		next.ServeHTTP(w, r)
	})
}

// authorize admits the request only when the principal holds c.
func (h *Handler) authorize(c auth.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.FromContext(r.Context())
			if !ok {
				respondNotice(w, http.StatusUnauthorized, "please log in to continue", loginPath)
				return
			}
			if !p.Can(c) {
				zap.L().Warn("authorization denied",
					zap.Int64("user_id", p.UserID),
					zap.String("role", p.Role),
					zap.String("capability", string(c)))
				respondNotice(w, http.StatusForbidden, "you are not authorized to access that page", dashboardPath)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
