package server

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// DefaultUserID is the placeholder identity used until a real auth service is
// wired in front of the API.
const DefaultUserID = "temp-user-id"

// userFromRequest resolves the caller. A bearer token with a valid signature
// contributes its sub claim as the user id; anything else falls back to the
// placeholder user.
func userFromRequest(r *http.Request, secret string) string {
	header := r.Header.Get("Authorization")
	if header == "" || secret == "" {
		return DefaultUserID
	}

	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == header {
		return DefaultUserID
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		logrus.Warnf("invalid bearer token, using placeholder user: %v", err)
		return DefaultUserID
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return DefaultUserID
	}

	return sub
}
