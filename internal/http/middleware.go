package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Saeid202/buyers/internal/auth"
	"github.com/google/uuid"
)

const sessionCookieName = "bzr_session"

// Session cookies outlive the cart snapshot TTL so a returning browser
// finds its cart again.
const sessionCookieMaxAge = int(90 * 24 * time.Hour / time.Second)

type ctxKey int

const (
	ctxKeySessionID ctxKey = iota
	ctxKeyIdentity
)

// SessionMiddleware assigns every browser a stable session id via the
// bzr_session cookie, minting one on first touch. The session id keys the
// cart; it is independent of sign-in state, so the cart survives both
// sign-in and sign-out.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := ""
		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			sessionID = cookie.Value
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   sessionCookieMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), ctxKeySessionID, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthMiddleware resolves a bearer token to an identity when one is
// presented. Requests without a valid token proceed anonymously; handlers
// that require sign-in check the context themselves.
func AuthMiddleware(sessions auth.SessionProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := sessions.GetCurrentUser(r.Context(), token)
			if err != nil {
				if !errors.Is(err, auth.ErrNoSession) {
					log.Printf("auth: token lookup failed: %v", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyIdentity, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return ""
}

func sessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKeySessionID).(string); ok {
		return id
	}
	return ""
}

func identityFromContext(ctx context.Context) *auth.Identity {
	if identity, ok := ctx.Value(ctxKeyIdentity).(*auth.Identity); ok {
		return identity
	}
	return nil
}
