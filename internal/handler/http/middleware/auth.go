package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/attendly-hq/attendance-backend-go/internal/handler/http/response"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/jwt"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/session"
)

func AuthRequired(jwtService jwt.Service, tracker *session.Tracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}
			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "access" {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}

			if jwtService.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.Unauthorized(w, "Token has been revoked")
				return
			}

			// Each authenticated request counts as activity for the
			// idle-session timer.
			if tracker != nil {
				if userID, ok := claims["user_id"].(string); ok && userID != "" {
					tracker.Touch(userID)
				}
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
