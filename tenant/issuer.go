package tenant

import (
	"reflect"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/petal-labs/meili/core"
)

// Wildcard grants search access to every index the key can reach.
const Wildcard = "*"

// prefixLength is how many leading characters of the signing key are
// embedded in the token so the server can find the parent key.
const prefixLength = 8

// SearchRules maps an index uid (or "*") to nil, or to an object of
// search parameters forced on every query, such as {"filter": "user_id = 1"}.
type SearchRules map[string]any

// Header is the fixed JOSE header of a tenant token.
type Header struct {
	Algorithm string `json:"alg"`
	Type      string `json:"typ"`
}

// Claims is the tenant token payload.
type Claims struct {
	APIKeyPrefix string           `json:"apiKeyPrefix"`
	SearchRules  any              `json:"searchRules"`
	ExpiresAt    *jwt.NumericDate `json:"expiresAt,omitempty"`
	APIKeyUID    string           `json:"apiKeyUid,omitempty"`
}

// GetExpirationTime implements jwt.Claims.
func (c *Claims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }

// GetIssuedAt implements jwt.Claims.
func (c *Claims) GetIssuedAt() (*jwt.NumericDate, error) { return nil, nil }

// GetNotBefore implements jwt.Claims.
func (c *Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }

// GetIssuer implements jwt.Claims.
func (c *Claims) GetIssuer() (string, error) { return "", nil }

// GetSubject implements jwt.Claims.
func (c *Claims) GetSubject() (string, error) { return "", nil }

// GetAudience implements jwt.Claims.
func (c *Claims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }

var _ jwt.Claims = (*Claims)(nil)

// Options are per-token parameters for Generate.
type Options struct {
	// APIKey overrides the issuer's key. The token is signed with it and
	// its first 8 characters become apiKeyPrefix.
	APIKey string

	// ExpiresAt, when set, must be strictly in the future.
	ExpiresAt *time.Time

	// APIKeyUID, when not uuid.Nil, is embedded as apiKeyUid.
	APIKeyUID uuid.UUID
}

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer)

// WithSigner replaces the default HS256 signer.
func WithSigner(s Signer) IssuerOption {
	return func(i *Issuer) {
		i.signer = s
	}
}

// WithClock sets the time source used for the expiration check.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

// WithSerializer sets the serializer used for the header and payload.
func WithSerializer(s core.Serializer) IssuerOption {
	return func(i *Issuer) {
		if s != nil {
			i.serializer = s
		}
	}
}

// Issuer creates tenant tokens: signed, self-contained credentials that
// restrict search to given indexes and filters without a server round trip.
// An Issuer is immutable and safe for concurrent use.
type Issuer struct {
	apiKey     core.Secret
	signer     Signer
	serializer core.Serializer
	now        func() time.Time
}

// NewIssuer returns an Issuer that signs with apiKey unless a call
// supplies its own key. apiKey may be empty.
func NewIssuer(apiKey string, opts ...IssuerOption) *Issuer {
	i := &Issuer{
		apiKey:     core.NewSecret(apiKey),
		serializer: core.JSON{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Generate returns a compact token granting rules.
//
// rules is Wildcard, a list of index uids, or a SearchRules map (any map
// or slice type is accepted). Arguments are checked in order: key, rules,
// expiration; nothing is signed if any check fails.
//
//	token, err := issuer.Generate(tenant.SearchRules{
//	    "books": map[string]any{"filter": "tenant_id = 42"},
//	}, tenant.Options{ExpiresAt: &exp})
func (i *Issuer) Generate(rules any, opts Options) (string, error) {
	key := i.apiKey
	if opts.APIKey != "" {
		key = core.NewSecret(opts.APIKey)
	}
	if key.IsEmpty() {
		return "", &InvalidArgumentError{Argument: "apiKey", Err: ErrNoAPIKey}
	}
	if err := checkRules(rules); err != nil {
		return "", &InvalidArgumentError{Argument: "searchRules", Err: err}
	}

	claims := Claims{
		APIKeyPrefix: key.Prefix(prefixLength),
		SearchRules:  rules,
	}
	if opts.ExpiresAt != nil {
		// NumericDate truncates to whole seconds; check the encoded value.
		exp := jwt.NewNumericDate(*opts.ExpiresAt)
		now := i.now()
		if !exp.After(now) {
			return "", &ExpirationError{ExpiresAt: *opts.ExpiresAt, Now: now}
		}
		claims.ExpiresAt = exp
	}
	if opts.APIKeyUID != uuid.Nil {
		claims.APIKeyUID = opts.APIKeyUID.String()
	}

	header, err := i.serializer.Encode(Header{Algorithm: i.signer.Algorithm(), Type: "JWT"})
	if err != nil {
		return "", err
	}
	payload, err := i.serializer.Encode(claims)
	if err != nil {
		return "", err
	}
	sig, err := i.signer.Sign([]byte(key.Expose()), header, payload)
	if err != nil {
		return "", err
	}
	return SigningInput(header, payload) + "." + encodeSegment(sig), nil
}

func checkRules(rules any) error {
	switch r := rules.(type) {
	case nil:
		return ErrEmptySearchRules
	case string:
		switch r {
		case "":
			return ErrEmptySearchRules
		case Wildcard:
			return nil
		}
		return ErrInvalidSearchRules
	}

	v := reflect.ValueOf(rules)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ErrEmptySearchRules
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return ErrEmptySearchRules
		}
		return nil
	case reflect.String:
		if v.Len() == 0 {
			return ErrEmptySearchRules
		}
		if v.String() == Wildcard {
			return nil
		}
	}
	return ErrInvalidSearchRules
}
