package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"lapor/internal/domain"
	"lapor/pkg/e"
)

//go:generate mockgen -source=auth.go -destination=mocks/mock.go

// IdentityResolver maps a token subject to the actor with its current role.
// The role is read from storage on every request, never from the token, so a
// role change applies immediately.
type IdentityResolver interface {
	Resolve(ctx context.Context, id uuid.UUID) (domain.Actor, error)
	Register(ctx context.Context, id uuid.UUID, email string) (domain.Actor, error)
}

// tokenClaims are the registered claims plus the email the identity provider
// signs in, used to provision a profile on first sight.
type tokenClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type actorKey struct{}

func WithActor(ctx context.Context, a domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFrom(ctx context.Context) (domain.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(domain.Actor)
	return a, ok
}

// Authenticate validates an HS256 bearer token and stores the resolved actor
// in the request context. A subject without a profile gets a citizen profile
// when the token carries an email.
func Authenticate(secret []byte, issuer string, resolver IdentityResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)

	keyFunc := func(*jwt.Token) (interface{}, error) { return secret, nil }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.With(slog.String("request_id", middleware.GetReqID(r.Context())))

			raw, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				respondError(w, http.StatusUnauthorized, "unauthenticated", "missing bearer token", nil)
				return
			}

			var claims tokenClaims
			if _, err := parser.ParseWithClaims(raw, &claims, keyFunc); err != nil {
				log.Info("token rejected", slog.String("reason", err.Error()))
				respondError(w, http.StatusUnauthorized, "unauthenticated", "invalid or expired token", nil)
				return
			}

			id, err := uuid.Parse(claims.Subject)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "unauthenticated", "invalid token subject", nil)
				return
			}

			actor, err := resolver.Resolve(r.Context(), id)
			if errors.Is(err, e.ErrNotFound) {
				if claims.Email == "" {
					respondError(w, http.StatusUnauthorized, "unauthenticated", "unknown profile", nil)
					return
				}
				actor, err = resolver.Register(r.Context(), id, claims.Email)
				if errors.Is(err, e.ErrConflict) {
					respondError(w, http.StatusConflict, "conflict", "email already registered", nil)
					return
				}
				if errors.Is(err, e.ErrInvalidInput) {
					respondError(w, http.StatusUnauthorized, "unauthenticated", "invalid token email", nil)
					return
				}
				if err == nil {
					log.Info("profile provisioned", slog.String("sub", id.String()))
				}
			}
			if err != nil {
				log.Error("identity resolve failed", slog.String("sub", id.String()), slog.Any("error", err))
				respondError(w, http.StatusInternalServerError, "internal", "internal server error", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func bearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
