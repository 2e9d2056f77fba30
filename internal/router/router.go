package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iskra-app/backend/internal/handlers"
	"github.com/iskra-app/backend/internal/middleware"
	"github.com/iskra-app/backend/internal/observability"
	"github.com/iskra-app/backend/internal/realtime"
)

func New(
	msgH *handlers.MessagingHandler,
	likeH *handlers.LikeHandler,
	wsH *realtime.Handler,
	db *sql.DB,
	secret string,
	serviceName string,
) http.Handler {

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(observability.MetricsMiddleware(serviceName))
	r.Use(middleware.Recovery())
	r.Use(middleware.RateLimit(300, time.Minute))

	r.Get("/health/live", observability.HealthLiveHandler)
	r.Get("/health/ready", observability.HealthReadyHandler(db))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(p chi.Router) {
		p.Use(middleware.JWT(secret))

		convPath := "/api/conversations"
		p.Post(convPath, msgH.StartConversation)
		p.Get(convPath, msgH.ListConversations)

		mesPath := "/api/messages"
		p.Post(mesPath, msgH.PostMessage)
		p.Get(mesPath, msgH.ListMessages)

		likePath := "/api/likes"
		p.Post(likePath, likeH.SendLike)
		p.Get(likePath, likeH.ListLikes)

		p.Get("/ws", wsH.ServeHTTP)
	})

	return r
}
