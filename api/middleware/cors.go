package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Review links are pasted into chats and opened from anywhere, so the read
// surface stays open; credentials are never cookie-borne (the token rides in
// the query string), which keeps the wildcard safe.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
}
