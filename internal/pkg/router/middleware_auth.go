package router

import (
	"errors"
	"net/http"

	"github.com/moolaigym/gymcore/internal/pkg/goerror"
	"github.com/moolaigym/gymcore/internal/pkg/jwt"
)

func middlewareAuthentication(
	verifier jwt.JWT,
	sessions SessionChecker,
	publicEndpoints map[string]map[string]struct{},
) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := matchedRoutePath(r)

			if s, ok := publicEndpoints[r.Method]; ok {
				if _, skip := s[path]; skip {
					next.ServeHTTP(w, r)
					return
				}
			}

			token := (&Request{Request: r}).BearerToken()
			if token == "" {
				writeJSON(w, errorResponse{Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(token, jwt.KindAccess)
			if err != nil {
				writeJSON(w, errorResponse{Message: "Invalid or expired token"}, http.StatusUnauthorized)
				return
			}

			ctx := jwt.SetAuth(r.Context(), claims)

			// The signature only proves the token was once valid. The account
			// may have been deactivated or the token version bumped since.
			if sessions != nil {
				ctx, err = sessions.CheckSession(ctx, claims)
				if err != nil {
					var gerr *goerror.Error
					if errors.As(err, &gerr) {
						writeJSON(w, errorResponse{Message: gerr.Msg(), Reason: gerr.Reason()}, gerr.StatusCode())
						return
					}
					writeJSON(w, errorResponse{Message: "Invalid or expired token"}, http.StatusUnauthorized)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePinSession is an endpoint middleware for screens that need a recent
// PIN check on top of a valid access token.
//
// checker re-validates the PIN version carried by the token against storage.
func RequirePinSession(verifier jwt.JWT, checker SessionChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := normalizeCID(r.Header.Get("X-Pin-Token"))
			if token == "" {
				writeJSON(w, errorResponse{Message: "PIN verification required"}, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(token, jwt.KindPinSession)
			if err != nil {
				writeJSON(w, errorResponse{Message: "Invalid or expired PIN token"}, http.StatusUnauthorized)
				return
			}

			if auth := jwt.GetAuth(r.Context()); auth == nil || auth.UserID != claims.UserID {
				writeJSON(w, errorResponse{Message: "Invalid or expired PIN token"}, http.StatusUnauthorized)
				return
			}

			ctx := jwt.SetPinSession(r.Context(), claims)

			if checker != nil {
				ctx, err = checker.CheckSession(ctx, claims)
				if err != nil {
					var gerr *goerror.Error
					if errors.As(err, &gerr) {
						writeJSON(w, errorResponse{Message: gerr.Msg(), Reason: gerr.Reason()}, gerr.StatusCode())
						return
					}
					writeJSON(w, errorResponse{Message: "Invalid or expired PIN token"}, http.StatusUnauthorized)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
