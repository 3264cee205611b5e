package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/academy/internal/account"
	"github.com/2beens/academy/internal/session"
	"github.com/2beens/academy/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type sessionGetter interface {
	Get(ctx context.Context, clientID string, role account.Role) (*session.Entry, error)
}

// SessionFromContext returns the entry loaded by RequireRole.
func SessionFromContext(ctx context.Context) (*session.Entry, bool) {
	entry, ok := ctx.Value(sessionEntryCtxKey).(*session.Entry)
	return entry, ok
}

type RoleGuard struct {
	sessions sessionGetter
}

func NewRoleGuard(sessions sessionGetter) *RoleGuard {
	return &RoleGuard{
		sessions: sessions,
	}
}

// RequireRole lets the request through only if the browser holds a session of the role.
// Browsers are sent to the role's login page; API clients get a 401.
func (g *RoleGuard) RequireRole(role account.Role) func(next http.Handler) http.Handler {
	descriptor, err := account.DescriptorFor(role)
	if err != nil {
		panic(err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.require_role")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			clientID, ok := ClientIDFromContext(ctx)
			if !ok {
				log.Errorf("[require role] no client id => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-client-id")
				return
			}

			entry, err := g.sessions.Get(ctx, clientID, role)
			if err != nil {
				if !errors.Is(err, session.ErrNoSession) {
					log.Errorf("[require role] get %s session => %s: %s", role, r.URL.Path, err)
					span.RecordError(err)
				}
				log.Tracef("[require role] no %s session => %s", role, r.URL.Path)
				span.SetStatus(codes.Error, "not-logged")
				if wantsHTML(r) {
					http.Redirect(w, r, descriptor.LoginPath, http.StatusSeeOther)
					return
				}
				http.Error(w, "no can do", http.StatusUnauthorized)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, sessionEntryCtxKey, entry)))
		})
	}
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
