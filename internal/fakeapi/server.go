// Package fakeapi is an in-process stand-in for the stroke prediction service.
// It speaks the same routes and error shapes so the client can be exercised
// end to end without the real backend.
package fakeapi

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/neuroguard/token"
	"github.com/rs/zerolog/log"
)

// DefaultTokenExpiry is the lifetime of issued access tokens.
const DefaultTokenExpiry = 30 * time.Minute

// ServedRecorder counts served requests by route pattern and status code.
type ServedRecorder interface {
	RecordServed(route string, statusCode int)
}

type Server struct {
	router   chi.Router
	signer   *token.HMACSigner
	accounts *accounts
	recorder ServedRecorder
	now      func() time.Time

	revoked     map[string]struct{}
	revokedLock sync.RWMutex
}

// New creates the fake service. recorder may be nil.
func New(signer *token.HMACSigner, recorder ServedRecorder) *Server {
	s := &Server{
		signer:   signer,
		accounts: newAccounts(),
		recorder: recorder,
		now:      time.Now,
		revoked:  make(map[string]struct{}),
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Mount adds an extra handler, e.g. /metrics, outside the API routes.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Handle(pattern, h)
}

// Revoke makes the service reject raw from now on, as if it had expired.
func (s *Server) Revoke(raw string) {
	s.revokedLock.Lock()
	defer s.revokedLock.Unlock()
	s.revoked[raw] = struct{}{}
}

func (s *Server) isRevoked(raw string) bool {
	s.revokedLock.RLock()
	defer s.revokedLock.RUnlock()
	_, ok := s.revoked[raw]
	return ok
}

func (s *Server) initRoutes() {
	r := chi.NewRouter()
	r.Use(s.recoverMiddleware, s.servedMiddleware)

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/token", s.handleToken)

	r.Group(func(r chi.Router) {
		r.Use(s.bearerMiddleware)
		r.Get("/users/me", s.handleMe)
		r.Put("/users/me/defaults", s.handleDefaults)
		r.Get("/predict/history", s.handleHistory)
		r.Get("/predict/history/{id}", s.handleHistoryDetail)
		r.Post("/predict/{model}", s.handlePredict)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	s.router = r
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

func (s *Server) servedMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		log.Debug().
			Str("method", r.Method).
			Str("route", route).
			Int("status", rec.statusCode).
			Str("request_id", r.Header.Get("X-Request-ID")).
			Dur("duration", time.Since(start)).
			Msg("Served")
		if s.recorder != nil {
			s.recorder.RecordServed(route, rec.statusCode)
		}
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("Handler panicked")
				writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type subjectKey struct{}

func (s *Server) bearerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeUnauthorized(w, "Not authenticated")
			return
		}
		if s.isRevoked(raw) {
			writeUnauthorized(w, "Could not validate credentials")
			return
		}
		email, err := s.signer.Verify(raw)
		if err != nil {
			writeUnauthorized(w, "Could not validate credentials")
			return
		}
		if _, err := s.accounts.user(email); err != nil {
			writeUnauthorized(w, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey{}, email)))
	})
}

func subject(r *http.Request) string {
	email, _ := r.Context().Value(subjectKey{}).(string)
	return email
}
