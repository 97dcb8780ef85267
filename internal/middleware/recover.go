package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"pet-household/internal/platform/httpx"
	"pet-household/internal/platform/logger"
)

// Recover turns a handler panic into a 500 with a JSON body and logs the
// stack with the request logger.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.FromContext(r.Context()).Error("panic recovered", map[string]any{
				"panic":  fmt.Sprint(rec),
				"stack":  string(debug.Stack()),
				"method": r.Method,
				"path":   r.URL.Path,
			})
			httpx.WriteMessage(w, http.StatusInternalServerError, "Internal server error")
		}()

		next.ServeHTTP(w, r)
	})
}
