// Package service exposes a built Network over HTTP, the way the
// example corpus's transit backends put a routing engine behind a
// go-chi router (KhalidEchchahid-transit-app's backend/main.go): a
// thin handler layer, request IDs, and CORS, with all the actual
// pathfinding delegated to the network package.
package service

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/jwhandley/railisochrone/network"
)

// NewRouter builds the HTTP router for a single, already-built Network.
func NewRouter(n *network.Network) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(requestIDMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	h := &isochroneHandler{network: n}

	r.Get("/health", h.health)
	r.Get("/isochrone", h.isochrone)

	return r
}
