// Package httpapi exposes the engine's primary ports as a JSON API.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/example/agenda/internal/ctxutil"
	"github.com/example/agenda/internal/ports/primary"
)

// Headers read by the middleware.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderRequestID = "X-Request-ID"
)

// Services are the primary ports served over HTTP.
type Services struct {
	Proposals  primary.ProposalService
	Escalation primary.EscalationService
	Review     primary.ReviewService
	Expired    primary.ExpiredEscalationService
	Users      primary.UserService
}

// Server routes requests to the primary ports.
type Server struct {
	services Services
	logger   *zap.Logger
}

// NewServer creates a new Server.
func NewServer(services Services, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{services: services, logger: logger}
}

// Router returns the route table wrapped in the middleware chain.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	r.HandleFunc("/users", s.createUser).Methods(http.MethodPost)
	r.HandleFunc("/users/{id}", s.getUser).Methods(http.MethodGet)

	r.HandleFunc("/proposals", s.createProposal).Methods(http.MethodPost)
	r.HandleFunc("/proposals", s.listProposals).Methods(http.MethodGet)
	r.HandleFunc("/proposals/{id}", s.getProposal).Methods(http.MethodGet)
	r.HandleFunc("/proposals/{id}/votes", s.recordVote).Methods(http.MethodPost)
	r.HandleFunc("/proposals/{id}/escalate", s.escalate).Methods(http.MethodPost)
	r.HandleFunc("/board-agendas/{id}/review", s.escalate).Methods(http.MethodPost)

	r.HandleFunc("/proposal-review/pending", s.listPendingReviews).Methods(http.MethodGet)
	r.HandleFunc("/proposal-review/{postId}", s.review).Methods(http.MethodPost)
	r.HandleFunc("/proposal-review/{postId}", s.listReviews).Methods(http.MethodGet)

	r.HandleFunc("/expired-escalations", s.listOverdue).Methods(http.MethodGet)
	r.HandleFunc("/expired-escalations/{postId}/decision", s.decideExpired).Methods(http.MethodPost)
	r.HandleFunc("/expired-escalations/{postId}/decisions", s.listExpiredDecisions).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{Error: "NOT_FOUND", Message: "no route for " + r.URL.Path})
	})

	r.Use(s.requestContext, s.recovery, s.logging)
	return r
}

// requestContext attaches the request ID and acting user to the context.
func (s *Server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxutil.WithRequestID(r.Context(), r.Header.Get(HeaderRequestID))
		if actor := r.Header.Get(HeaderActorID); actor != "" {
			ctx = ctxutil.WithActorID(ctx, actor)
		}
		w.Header().Set(HeaderRequestID, ctxutil.RequestIDFromContext(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				s.logger.Error("panic recovered",
					zap.Any("panic", p),
					zap.String("request_id", ctxutil.RequestIDFromContext(r.Context())))
				writeJSON(w, http.StatusInternalServerError, envelope{Error: "INTERNAL_ERROR", Message: "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", ctxutil.RequestIDFromContext(r.Context())))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}
