package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/designstudio-backend/api/responses"
	pkgerrors "github.com/angelmondragon/designstudio-backend/pkg/errors"
	"github.com/angelmondragon/designstudio-backend/pkg/logger"
)

// SessionAuthenticator resolves a bearer token to its design session.
type SessionAuthenticator interface {
	Authenticate(token string) (uuid.UUID, error)
}

// SessionAuth requires a valid design session token and seeds the request
// context with its session id.
func SessionAuth(auth SessionAuthenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			id, err := auth.Authenticate(token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), logg, id)))
		})
	}
}

// OptionalSessionAuth attaches the session when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalSessionAuth(auth SessionAuthenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" || auth == nil {
				next.ServeHTTP(w, r)
				return
			}
			id, err := auth.Authenticate(token)
			if err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "ignoring invalid session token")
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), logg, id)))
		})
	}
}

func withSession(ctx context.Context, logg *logger.Logger, id uuid.UUID) context.Context {
	ctx = WithSessionID(ctx, id)
	if logg != nil {
		ctx = logg.WithSessionID(ctx, id.String())
	}
	return ctx
}

func bearerToken(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}
