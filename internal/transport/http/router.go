package http

import (
	"net/http"
	"time"

	httpmw "github.com/linkin-purry/chat-service/internal/transport/http/middleware"
	"github.com/linkin-purry/chat-service/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *Handler, verifier httpmw.TokenVerifier, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc:  func(r *http.Request, origin string) bool { return true },
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	// WS endpoint authenticates its own handshake.
	r.Get("/ws", wsServer.HandleWS)

	// Public
	r.Get("/vapid-key", h.VapidKey)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Session-cookie protected
	r.Group(func(pr chi.Router) {
		pr.Use(httpmw.AuthMiddleware(verifier))
		pr.Use(middlewareChi.Timeout(30 * time.Second))

		pr.Get("/chat/{userId}/{oppositeUserId}", h.GetChatHistory)
		pr.Post("/save-push-subscription", h.SavePushSubscription)
		pr.Post("/send-push-notification", h.SendPushNotification)
		pr.Post("/notify-chat", h.NotifyChat)
		pr.Post("/logout", h.Logout)
	})

	return r
}
