package middleware

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	log "github.com/sirupsen/logrus"
)

const (
	ClientCookieName = "academy-client"
	clientIDKey      = "client_id"
)

type ctxKey int

const (
	clientIDCtxKey ctxKey = iota
	sessionEntryCtxKey
)

// ClientIDFromContext returns the browser id set by ClientIdentity.
func ClientIDFromContext(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(clientIDCtxKey).(string)
	return clientID, ok && clientID != ""
}

func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDCtxKey, clientID)
}

// ClientIdentity gives every browser a stable id kept in a signed cookie.
// The id scopes the browser's session slots, the way local storage is scoped to a browser.
func ClientIdentity(cookieStore sessions.Store) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// a tampered or undecodable cookie yields a fresh session, and thus a fresh id
			clientSession, err := cookieStore.Get(r, ClientCookieName)
			if err != nil {
				log.Debugf("client identity: cookie decode: %s", err)
			}

			clientID, _ := clientSession.Values[clientIDKey].(string)
			if _, parseErr := uuid.Parse(clientID); parseErr != nil {
				clientID = uuid.NewString()
				clientSession.Values[clientIDKey] = clientID
				if err := clientSession.Save(r, w); err != nil {
					log.Errorf("client identity: save cookie: %s", err)
					http.Error(w, "internal error", http.StatusInternalServerError)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), clientID)))
		})
	}
}

type NewClientCookieStoreParams struct {
	HashKey  []byte
	BlockKey []byte
	MaxAge   int
	Secure   bool
}

func NewClientCookieStore(params NewClientCookieStoreParams) *sessions.CookieStore {
	var keyPairs [][]byte
	if len(params.BlockKey) > 0 {
		keyPairs = append(keyPairs, params.HashKey, params.BlockKey)
	} else {
		keyPairs = append(keyPairs, params.HashKey)
	}

	store := sessions.NewCookieStore(keyPairs...)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   params.MaxAge,
		HttpOnly: true,
		Secure:   params.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(params.MaxAge)

	return store
}

// CookieKey decodes a base64 key taken from the environment. With no value it generates
// a random key; such keys do not survive restarts, so browsers get new ids afterwards.
func CookieKey(name, encoded string, length int) ([]byte, error) {
	if encoded == "" {
		log.Warnf("%s not set, generating a random cookie key", name)
		key := securecookie.GenerateRandomKey(length)
		if key == nil {
			return nil, fmt.Errorf("generate random %s", name)
		}
		return key, nil
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if len(key) != length {
		return nil, fmt.Errorf("%s must be %d bytes, got %d", name, length, len(key))
	}
	return key, nil
}
