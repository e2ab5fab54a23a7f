// Package rest
package rest

import (
	"net/http"
	"time"

	"knightd/internal/config"
	"knightd/internal/transport/rest/middleware"
	"knightd/internal/transport/websocket"
)

type RouterDeps struct {
	WS     *websocket.Handler
	Status *StatusHandler
	Auth   *AuthHandler
}

func NewRouter(cfg *config.Config, deps *RouterDeps) http.Handler {
	mux := http.NewServeMux()

	globalMw := middleware.New()
	globalMw.Use(middleware.CORS(cfg))

	userStack := middleware.New()
	userStack.Use(middleware.JWT(cfg))

	// HEALTH
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// WEBSOCKET
	mux.HandleFunc("GET /ws", deps.WS.Serve)

	// AUTH
	mux.HandleFunc("POST /auth/register", deps.Auth.Register)
	mux.HandleFunc("POST /auth/login", deps.Auth.Login)
	mux.Handle("POST /auth/logout", userStack.ThenFunc(deps.Auth.Logout))

	// STATUS
	mux.Handle("GET /status", userStack.ThenFunc(deps.Status.Show))
	mux.Handle("POST /status/deliver", userStack.ThenFunc(deps.Status.Deliver))

	return globalMw.Apply(mux)
}

// NewServer builds the http.Server. The write timeout leaves room for the
// ~1.8s CPU sampling window behind GET /status.
func NewServer(handler http.Handler, address string) *http.Server {
	return &http.Server{
		Addr:         address,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
