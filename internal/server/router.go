// Package server assembles the stub implementation of the Onimo chat
// service contract.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	serverauth "github.com/alamin17ui/onimo-chat-auth-core/internal/server/auth"
	serverchat "github.com/alamin17ui/onimo-chat-auth-core/internal/server/chat"
	"github.com/alamin17ui/onimo-chat-auth-core/internal/server/middleware"
)

// NewRouter wires the auth and chat endpoints under /api.
func NewRouter(accounts *serverauth.Store, exchanges *serverchat.Store, responder serverchat.Responder) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)

	authHandler := serverauth.NewHandler(accounts)
	chatHandler := serverchat.NewHandler(exchanges, accounts, responder)

	r.Route("/api", func(api chi.Router) {
		authHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
	})

	return r
}
