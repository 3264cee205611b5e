package middleware

import (
	"io"
	"net/http"
)

// DefaultMaxBodyBytes is far above any login form, and small enough that junk is cut early.
const DefaultMaxBodyBytes = 64 << 10

// LimitAndDrainBody caps the request body and, once the handler is done, drains
// whatever is left so the connection can be reused.
func LimitAndDrainBody(maxBytes int64) func(next http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			body := r.Body
			r.Body = http.MaxBytesReader(w, body, maxBytes)
			next.ServeHTTP(w, r)

			// draining past the limit would read an unbounded stream
			_, _ = io.Copy(io.Discard, io.LimitReader(body, maxBytes))
			_ = body.Close()
		})
	}
}
