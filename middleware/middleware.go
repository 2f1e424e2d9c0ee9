package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"plateful/auth"
	"plateful/globals"

	"github.com/julienschmidt/httprouter"
)

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// Authenticate rejects requests without a valid token and puts the user
// id into the request context.
func Authenticate(h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token := bearerToken(r)
		if token == "" {
			http.Error(w, "Missing token", http.StatusUnauthorized)
			return
		}
		claims, err := auth.ParseToken(token)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.Subject)
		h(w, r.WithContext(ctx), ps)
	}
}

// OptionalAuth decodes a token when present but lets anonymous requests
// through.
func OptionalAuth(h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if token := bearerToken(r); token != "" {
			if claims, err := auth.ParseToken(token); err == nil {
				ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.Subject)
				r = r.WithContext(ctx)
			}
		}
		h(w, r, ps)
	}
}

func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic recovered: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
