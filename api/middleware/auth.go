package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/giftconnect/giftconnect-backend/api/responses"
	"github.com/giftconnect/giftconnect-backend/internal/storage"
	pkgAuth "github.com/giftconnect/giftconnect-backend/pkg/auth"
	"github.com/giftconnect/giftconnect-backend/pkg/auth/session"
	"github.com/giftconnect/giftconnect-backend/pkg/config"
	"github.com/giftconnect/giftconnect-backend/pkg/db/models"
	pkgerrors "github.com/giftconnect/giftconnect-backend/pkg/errors"
	"github.com/giftconnect/giftconnect-backend/pkg/logger"
	"github.com/giftconnect/giftconnect-backend/pkg/types"
)

const msgUnauthorized = "Unauthorized"

// UserLoader resolves the account behind a token on every request.
type UserLoader interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, msgUnauthorized)
	}
	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, msgUnauthorized)
	}
	return token, nil
}

// Auth validates a bearer token, checks the session is live, and reloads the
// user so role changes apply to tokens already issued.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, users UserLoader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, msgUnauthorized))
				return
			}
			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, msgUnauthorized))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, msgUnauthorized))
					return
				}
			}

			actor := types.Actor{UserID: claims.UserID, Role: claims.Role}
			if users != nil {
				user, err := users.GetUser(r.Context(), claims.UserID)
				if err != nil {
					if errors.Is(err, storage.ErrNotFound) {
						responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, msgUnauthorized))
						return
					}
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user"))
					return
				}
				actor.Role = user.Role
			}

			ctx := WithActor(r.Context(), actor)
			if logg != nil {
				ctx = logg.WithUserID(ctx, actor.UserID)
				ctx = logg.WithActorRole(ctx, string(actor.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
