package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	identityDomain "github.com/felixgeelhaar/tracker/internal/identity/domain"
	"github.com/felixgeelhaar/tracker/pkg/observability"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type principalKey struct{}

// PrincipalFromContext returns the principal authorised for the request.
func PrincipalFromContext(ctx context.Context) (identityDomain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(identityDomain.Principal)
	return p, ok
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	err    error
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.WithRequestID(r.Context(), r.Header.Get(RequestIDHeader))
		if cid := r.Header.Get("X-Correlation-ID"); cid != "" {
			ctx = observability.WithCorrelationID(ctx, cid)
		}
		w.Header().Set(RequestIDHeader, observability.RequestIDFromContext(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withAccessLog logs every request: info on success, warn on handled client
// errors and error on server failures.
func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			observability.StatusKey, status,
			observability.DurationKey, time.Since(start).Milliseconds(),
		}
		if rec.err != nil {
			attrs = append(attrs, observability.ErrorKey, rec.err)
		}
		s.logger.Log(r.Context(), level, fmt.Sprintf("API %s %s -> %d", r.Method, r.URL.Path, status), attrs...)

		s.metrics.Counter(observability.MetricHTTPRequests, 1,
			observability.T("route", route),
			observability.T("status", strconv.Itoa(status)),
		)
	})
}

func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				err := fmt.Errorf("panic: %v", v)
				s.logger.ErrorContext(r.Context(), "handler panic",
					"panic", v,
					"stack", string(debug.Stack()),
				)
				// A partial response cannot be replaced by the error envelope.
				if rec, ok := w.(*statusRecorder); ok && rec.status != 0 {
					rec.err = err
					return
				}
				writeError(w, s.logger, err)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requirePolicy(policy identityDomain.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.deps.Auth == nil {
				writeError(w, s.logger, identityDomain.ErrUnauthenticated)
				return
			}
			principal, err := s.deps.Auth.Authorize(r.Context(), r.Header.Get("Authorization"), policy)
			if err != nil {
				writeError(w, s.logger, err)
				return
			}
			ctx := context.WithValue(r.Context(), principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
