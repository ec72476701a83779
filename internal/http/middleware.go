package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"docuvault/internal/contextutil"
	"docuvault/internal/storage"
)

// LoggerMiddleware adds a structured logger to the request context.
func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.Default().With(
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		ctx := contextutil.WithLogger(r.Context(), logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CORS adds CORS headers to allow cross-origin requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID")
		w.Header().Set("Access-Control-Max-Age", "3600")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Identity resolves the caller from the X-User-ID header against the user
// store and puts the id on the context. Token issuance and verification
// live outside this service; this middleware only resolves an already
// authenticated identity.
func Identity(users storage.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := contextutil.LoggerFromContext(ctx)

			raw := r.Header.Get("X-User-ID")
			userID, err := strconv.ParseInt(raw, 10, 64)
			if raw == "" || err != nil || userID <= 0 {
				unauthorized(w, "Authentication required")
				return
			}

			user, err := users.GetByID(ctx, userID)
			if errors.Is(err, storage.ErrNotFound) {
				unauthorized(w, "Unknown user")
				return
			}
			if err != nil {
				logger.ErrorContext(ctx, "identity lookup failed", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			if !user.IsActive {
				unauthorized(w, "User is inactive")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextutil.WithUserID(ctx, user.ID)))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
