package tenant

import (
	"github.com/golang-jwt/jwt/v5"
)

var hmacAlgorithms = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// Parse decodes the claims of token without checking its signature.
// Use it to inspect a token; the server decides whether it is valid.
func Parse(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Verify checks the signature of token against apiKey and, when the token
// carries an expiration, that it has not passed.
func Verify(token, apiKey string) (*Claims, error) {
	if apiKey == "" {
		return nil, &InvalidArgumentError{Argument: "apiKey", Err: ErrNoAPIKey}
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(apiKey), nil
	}, jwt.WithValidMethods(hmacAlgorithms))
	if err != nil {
		return nil, err
	}
	return claims, nil
}
