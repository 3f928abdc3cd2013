package handlers

import (
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {

		// public routes here
		r.Get("/health", h.HealthHandler)

		// Secure routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))
			r.Use(jwtauth.Authenticator)
			r.Use(h.RequireUser)

			r.Post("/games", h.CreateGameHandler)
			r.Get("/games", h.ListGamesHandler)
			r.Get("/games/user", h.ListUserGamesHandler)
			r.Delete("/games/{id}", h.DeleteGameHandler)
		})
	})
}

func (h *Handler) InitAuth() {
	var jwtKey = os.Getenv("JWT_SECRET_KEY")
	h.tokenAuth = jwtauth.New("HS256", []byte(jwtKey), nil)

	expirationTime := time.Now().Add(7 * 24 * time.Hour).Unix()

	_, tokenString, _ := h.tokenAuth.Encode(map[string]interface{}{
		"user_id": "000000000000000000000000",
		"exp":     expirationTime,
	})

	// For debugging only, comment it out in production
	log.Infof("DEBUG: JWT for testing expires soon : %s", tokenString)
}

// SetTokenAuth lets tests inject a token authority directly.
func (h *Handler) SetTokenAuth(ta *jwtauth.JWTAuth) {
	h.tokenAuth = ta
}
