package server

import (
	"net/http"
	"time"

	"codeclash/internal/judge"
	"codeclash/internal/leaderboard"
	"codeclash/internal/match"
	"codeclash/internal/matchmaking"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires every HTTP surface of the service onto one chi router.
func NewRouter(
	queueManager *matchmaking.QueueManager,
	matchService *match.Service,
	gateway *judge.Gateway,
	board *leaderboard.Board,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		queueHandler := NewQueueHandler(queueManager)
		v1.Route("/queue", queueHandler.RegisterRoutes)

		matchHandler := NewMatchHandler(matchService)
		submissionHandler := NewSubmissionHandler(gateway, matchService)
		v1.Route("/matches", func(m chi.Router) {
			matchHandler.RegisterRoutes(m)
			submissionHandler.RegisterRoutes(m)
		})

		leaderboardHandler := NewLeaderboardHandler(board)
		v1.Route("/problems", leaderboardHandler.RegisterRoutes)
	})

	return r
}
