package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS opens the API to any origin. It is only mounted for local
// development, when the frontend runs on its own dev server.
func CORS(next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowCredentials:   true,
		OptionsPassthrough: false,
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:     []string{"Accept", "Content-Type"},
		MaxAge:             300,
	}).Handler(next)
}
