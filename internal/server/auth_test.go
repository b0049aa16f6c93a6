package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func signToken(t *testing.T, secret, sub string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func TestUserFromRequest(t *testing.T) {
	const secret = "test-secret"

	tests := []struct {
		name   string
		header string
		secret string
		want   string
	}{
		{
			name: "no header falls back to placeholder",
			want: DefaultUserID,
		},
		{
			name:   "valid token uses sub claim",
			header: "Bearer " + signToken(t, secret, "user-42"),
			secret: secret,
			want:   "user-42",
		},
		{
			name:   "wrong signature falls back",
			header: "Bearer " + signToken(t, "other-secret", "user-42"),
			secret: secret,
			want:   DefaultUserID,
		},
		{
			name:   "no configured secret falls back",
			header: "Bearer " + signToken(t, secret, "user-42"),
			want:   DefaultUserID,
		},
		{
			name:   "malformed header falls back",
			header: "Basic dXNlcjpwYXNz",
			secret: secret,
			want:   DefaultUserID,
		},
		{
			name:   "garbage token falls back",
			header: "Bearer not.a.jwt",
			secret: secret,
			want:   DefaultUserID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, userFromRequest(req, tt.secret))
		})
	}
}
