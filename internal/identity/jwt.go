package identity

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// SubjectClaims embeds jwt.RegisteredClaims so standard claims such as
// 'ExpiresAt' and 'Subject' are validated by the parser.
type SubjectClaims struct {
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256-signed bearer tokens issued by the identity
// provider and extracts the subject claim.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token string. It checks the signature and
// standard claims, and requires a non-empty subject.
func (v *JWTVerifier) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SubjectClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*SubjectClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
