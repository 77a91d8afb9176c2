package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Blank import so swaggo registers the generated API definitions.
	_ "pocketchat/docs"
)

// NewRouter creates the chi router with all application routes.
// allowedOrigins lists the browser origins permitted by CORS.
func NewRouter(chatHandler *ChatHandler, modelHandler *ModelHandler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	// Applied to every request, in this order.
	r.Use(middleware.RequestID) // Tags the request context with a unique ID.
	r.Use(middleware.RealIP)    // Takes the client address from X-Forwarded-For / X-Real-IP.
	r.Use(middleware.Logger)    // One log line per request with status and latency.
	r.Use(middleware.Recoverer) // Turns a handler panic into a 500.
	r.Use(metricsMiddleware)    // Request counters and latency histograms for /metrics.

	// The browser front end runs on its own origin during development.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// --- Public Routes ---
	// Unversioned endpoints for documentation and operations.

	// Swagger UI generated from the handler annotations.
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// Prometheus scrape endpoint.
	r.Handle("/metrics", promhttp.Handler())

	// Liveness check. Only the 200 status matters to the caller.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// --- API Version 1 Routes ---
	r.Route("/api/v1", func(r chi.Router) {

		// Short JSON calls. A request that runs past the timeout gets a 504
		// instead of holding the connection open.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			// --- Session ---
			r.Get("/session", chatHandler.GetSession)
			r.Put("/session/model", chatHandler.SetModel)

			// --- Settings ---
			r.Get("/settings", chatHandler.GetSettings)
			r.Post("/settings", chatHandler.UpdateSettings)

			// --- Chats ---
			r.Get("/chats", chatHandler.GetChats)
			r.Post("/chats", chatHandler.CreateChat)
			r.Delete("/chats", chatHandler.ClearChats)
			r.Get("/chats/{chatID}", chatHandler.GetChat)
			r.Post("/chats/{chatID}/open", chatHandler.OpenChat)
			r.Put("/chats/{chatID}/title", chatHandler.UpdateChatTitle)
			r.Delete("/chats/{chatID}", chatHandler.DeleteChat)

			// --- Models ---
			r.Get("/models", modelHandler.HandleListModels)
		})

		// Sending a message blocks until the completion endpoint answers,
		// which can exceed any fixed timeout, so this route sits outside the group.
		r.Post("/session/messages", chatHandler.SendMessage)
	})

	return r
}
