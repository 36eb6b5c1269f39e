package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/theglobal/uren-backend-go/internal/domain/auth"
	"github.com/theglobal/uren-backend-go/internal/handler/http/response"
	"github.com/theglobal/uren-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests without a verified access token and puts the
// caller's auth.Identity on the request context.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())

		if err != nil || token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		identity, err := jwt.IdentityFromClaims(claims)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	}
	return http.HandlerFunc(hfn)
}
