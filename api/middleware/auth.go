package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cartlyhq/cartly-backend/api/responses"
	internalauth "github.com/cartlyhq/cartly-backend/internal/auth"
	pkgauth "github.com/cartlyhq/cartly-backend/pkg/auth"
	"github.com/cartlyhq/cartly-backend/pkg/config"
	pkgerrors "github.com/cartlyhq/cartly-backend/pkg/errors"
	"github.com/cartlyhq/cartly-backend/pkg/logger"
)

// Auth validates a bearer access token against both its signature and the
// session store, then seeds the request context with the customer identity.
func Auth(cfg config.JWTConfig, authSvc internalauth.Service, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.Kind != pkgauth.TokenKindAccess {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token"))
				return
			}

			entry, err := authSvc.ValidateToken(r.Context(), token, claims.CustomerID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
				return
			}
			if entry == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
				return
			}

			ctx := WithCustomerID(r.Context(), entry.CustomerID)
			ctx = context.WithValue(ctx, ctxCustomerEmail, entry.Email)
			ctx = WithAccessToken(ctx, token)

			if logg != nil {
				ctx = logg.WithCustomerID(ctx, entry.CustomerID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
