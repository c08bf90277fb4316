package web

import (
	"context"
	"net/http"
	"time"

	"promohub/internal/domain"
	"promohub/internal/infra/logging"
	"promohub/internal/infra/metrics"
	redisinfra "promohub/internal/infra/redis"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type ctxKey string

const claimsKey ctxKey = "auth_claims"

func claimsFrom(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey).(*Claims)
	return c
}

// traceMiddleware tags every request with a trace id shared by logs and the
// X-Request-Id response header.
func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Request-Id")
		if traceID == "" {
			traceID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", traceID)
		next.ServeHTTP(w, r.WithContext(logging.WithTraceID(r.Context(), traceID)))
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.With(r.Context(), s.log).Error().Interface("panic", rec).Msg("handler panicked")
				writeJSON(w, http.StatusInternalServerError, errorResponse{Status: "error", Message: "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// observeMiddleware records the request log line and the Prometheus counters,
// labeled by the chi route pattern so cardinality stays bounded.
func (s *Server) observeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		metrics.ObserveHTTPRequest(route, r.Method, ww.Status(), elapsed.Milliseconds())
		logging.With(r.Context(), s.log).Debug().
			Str("route", route).
			Str("method", r.Method).
			Int("status", ww.Status()).
			Dur("duration", elapsed).
			Msg("request")
	})
}

// businessAuth and userAuth admit only tokens of the matching audience and
// stash the verified claims in the request context.
func (s *Server) businessAuth(next http.Handler) http.Handler {
	return s.requireAudience(AudienceBusiness, next)
}

func (s *Server) userAuth(next http.Handler) http.Handler {
	return s.requireAudience(AudienceUser, next)
}

func (s *Server) requireAudience(audience string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r, audience)
		if err != nil {
			writeError(w, domain.ErrUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		if audience == AudienceUser {
			ctx = logging.WithUserEmail(ctx, claims.Email)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// activationLimit throttles activation attempts per user with the Redis
// fixed-window counter. A limiter failure fails open; throttling is a shield,
// not a correctness gate.
func (s *Server) activationLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r.Context())
		if claims != nil && s.limiter != nil {
			ok, err := s.limiter.Allow(r.Context(), redisinfra.ActivationKey(claims.Email), s.rateLimit.Activations, s.rateLimit.Window)
			if err != nil {
				logging.With(r.Context(), s.log).Warn().Err(err).Msg("rate limiter unavailable")
			} else if !ok {
				writeJSON(w, http.StatusTooManyRequests, errorResponse{Status: "error", Message: "too many activation attempts"})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
