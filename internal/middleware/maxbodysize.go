package middleware

import (
	"encoding/json"
	"net/http"
)

// NewMaxBodySizeHandler caps request bodies at limit bytes. A request that
// declares a larger Content-Length is answered with 413 straight away; any
// other body is wrapped in http.MaxBytesReader, so a handler reading past the
// limit gets an *http.MaxBytesError. A limit <= 0 disables the cap.
func NewMaxBodySizeHandler(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeTooLarge(w)
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeTooLarge writes the API's standard error body for a 413.
func writeTooLarge(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusRequestEntityTooLarge)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"statusCode": http.StatusRequestEntityTooLarge,
		"message":    "request body too large",
		"error":      http.StatusText(http.StatusRequestEntityTooLarge),
	})
}
