package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey int

const ctxKeyClientID ctxKey = iota

// requireBearerJWT is middleware validating a static-secret HS512 bearer
// token on every request, grounded on dekarrin/tunaq's server/token.go
// AuthHandler: extract "Authorization: Bearer ...", jwt.Parse with an
// explicit signing-method allowlist and issuer check, reject with 401
// otherwise.
func requireBearerJWT(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, err := bearerToken(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			claims := jwt.MapClaims{}
			_, err = jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer("scanforestd"), jwt.WithLeeway(time.Minute))
			if err != nil {
				http.Error(w, fmt.Sprintf("invalid token: %v", err), http.StatusUnauthorized)
				return
			}

			sub, _ := claims.GetSubject()
			ctx := context.WithValue(r.Context(), ctxKeyClientID, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", fmt.Errorf("no authorization header present")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(strings.TrimSpace(parts[0])) != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}

// issueToken mints a bearer token for clientID, used by the /v1/token
// bootstrap endpoint (there is no user store in scanforestd — any caller
// holding the shared secret can mint its own token).
func issueToken(secret []byte, clientID string) (string, error) {
	claims := jwt.MapClaims{
		"iss": "scanforestd",
		"sub": clientID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(secret)
}
