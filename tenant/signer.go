package tenant

import (
	"encoding/base64"

	"github.com/golang-jwt/jwt/v5"
)

// Signer computes tenant token signatures with HMAC.
// The zero value signs with HS256.
type Signer struct {
	Method *jwt.SigningMethodHMAC
}

// NewSigner returns a Signer using method (HS256, HS384 or HS512).
func NewSigner(method *jwt.SigningMethodHMAC) Signer {
	return Signer{Method: method}
}

func (s Signer) method() *jwt.SigningMethodHMAC {
	if s.Method == nil {
		return jwt.SigningMethodHS256
	}
	return s.Method
}

// Algorithm returns the JOSE algorithm name, e.g. "HS256".
func (s Signer) Algorithm() string {
	return s.method().Alg()
}

// Sign returns the HMAC of base64url(header) + "." + base64url(payload)
// keyed with secret. Identical inputs always produce identical output.
func (s Signer) Sign(secret, header, payload []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return s.method().Sign(SigningInput(header, payload), secret)
}

// SigningInput returns the string covered by the signature.
func SigningInput(header, payload []byte) string {
	return encodeSegment(header) + "." + encodeSegment(payload)
}

func encodeSegment(seg []byte) string {
	return base64.RawURLEncoding.EncodeToString(seg)
}
