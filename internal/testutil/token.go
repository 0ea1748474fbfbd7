package testutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenKey signs fixture tokens; nothing verifies the signature
var tokenKey = []byte("elevate-test-signing-key")

// IssueToken returns a signed JWT whose subject is email, shaped like the
// tokens the backend issues
func IssueToken(email string) string {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	signed, err := token.SignedString(tokenKey)
	if err != nil {
		panic(err)
	}
	return signed
}
