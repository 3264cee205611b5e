package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/2beens/academy/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PanicRecovery turns a handler panic into a 500, so one bad request cannot take
// the login service down. The panic is counted and attached to the request span.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					// deliberate abort, let net/http handle it
					panic(recovered)
				}

				panicErr := fmt.Errorf("panic: %v", recovered)
				span := trace.SpanFromContext(r.Context())
				span.RecordError(panicErr)
				span.SetStatus(codes.Error, "panic")

				log.WithFields(log.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				}).Errorf("%s\n%s", panicErr, debug.Stack())

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				http.Error(w, "internal error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
