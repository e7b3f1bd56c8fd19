package tenant

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "abcdefghijklmnopqrstuvwxyz012345"

var fixedNow = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func decodeSegment(t *testing.T, seg string) string {
	t.Helper()
	data, err := base64.RawURLEncoding.DecodeString(seg)
	require.NoError(t, err)
	return string(data)
}

func TestGenerateStructure(t *testing.T) {
	issuer := NewIssuer(testKey, WithClock(fixedClock))
	exp := fixedNow.Add(time.Hour)

	token, err := issuer.Generate(Wildcard, Options{ExpiresAt: &exp})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.NotContains(t, p, "=")
	}
	assert.JSONEq(t, `{"alg":"HS256","typ":"JWT"}`, decodeSegment(t, parts[0]))
	assert.JSONEq(t,
		`{"apiKeyPrefix":"abcdefgh","searchRules":"*","expiresAt":1893502800}`,
		decodeSegment(t, parts[1]))
}

func TestGeneratePayload(t *testing.T) {
	issuer := NewIssuer(testKey, WithClock(fixedClock))
	uid := uuid.MustParse("6062abda-a5aa-4414-ac91-ecd7944c0f8d")

	tests := []struct {
		name  string
		rules any
		opts  Options
		want  string
	}{
		{
			name:  "wildcard without expiration",
			rules: Wildcard,
			want:  `{"apiKeyPrefix":"abcdefgh","searchRules":"*"}`,
		},
		{
			name:  "rules map",
			rules: SearchRules{"books": map[string]any{"filter": "tenant_id = 42"}},
			want:  `{"apiKeyPrefix":"abcdefgh","searchRules":{"books":{"filter":"tenant_id = 42"}}}`,
		},
		{
			name:  "index list",
			rules: []string{"books", "movies"},
			want:  `{"apiKeyPrefix":"abcdefgh","searchRules":["books","movies"]}`,
		},
		{
			name:  "key override and uid",
			rules: map[string]any{"*": nil},
			opts:  Options{APIKey: "zyxwvutsrq", APIKeyUID: uid},
			want:  `{"apiKeyPrefix":"zyxwvuts","searchRules":{"*":null},"apiKeyUid":"6062abda-a5aa-4414-ac91-ecd7944c0f8d"}`,
		},
		{
			name:  "short key",
			rules: Wildcard,
			opts:  Options{APIKey: "abc"},
			want:  `{"apiKeyPrefix":"abc","searchRules":"*"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := issuer.Generate(tt.rules, tt.opts)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, decodeSegment(t, strings.Split(token, ".")[1]))
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	exp := fixedNow.Add(24 * time.Hour)
	rules := SearchRules{"books": map[string]any{"filter": "genre = fantasy"}}

	a, err := NewIssuer(testKey, WithClock(fixedClock)).Generate(rules, Options{ExpiresAt: &exp})
	require.NoError(t, err)
	b, err := NewIssuer(testKey, WithClock(fixedClock)).Generate(rules, Options{ExpiresAt: &exp})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateSignsWithResolvedKey(t *testing.T) {
	issuer := NewIssuer(testKey)

	token, err := issuer.Generate(Wildcard, Options{})
	require.NoError(t, err)
	_, err = Verify(token, testKey)
	require.NoError(t, err)

	override, err := issuer.Generate(Wildcard, Options{APIKey: "another-key-value"})
	require.NoError(t, err)
	_, err = Verify(override, "another-key-value")
	require.NoError(t, err)
	_, err = Verify(override, testKey)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestGenerateDifferentKeysDifferentSignatures(t *testing.T) {
	a, err := NewIssuer("key-one-0123456").Generate(Wildcard, Options{})
	require.NoError(t, err)
	b, err := NewIssuer("key-one-0123457").Generate(Wildcard, Options{})
	require.NoError(t, err)

	pa, pb := strings.Split(a, "."), strings.Split(b, ".")
	assert.Equal(t, pa[:2], pb[:2])
	assert.NotEqual(t, pa[2], pb[2])
}

func TestGenerateArgumentErrors(t *testing.T) {
	past := fixedNow.Add(-time.Second)
	now := fixedNow
	subSecond := fixedNow.Add(500 * time.Millisecond)

	tests := []struct {
		name     string
		key      string
		rules    any
		opts     Options
		sentinel error
		argument string
	}{
		{"no key", "", Wildcard, Options{}, ErrNoAPIKey, "apiKey"},
		{"no key wins over empty rules", "", nil, Options{ExpiresAt: &past}, ErrNoAPIKey, "apiKey"},
		{"nil rules", testKey, nil, Options{}, ErrEmptySearchRules, "searchRules"},
		{"empty string", testKey, "", Options{}, ErrEmptySearchRules, "searchRules"},
		{"empty map", testKey, SearchRules{}, Options{}, ErrEmptySearchRules, "searchRules"},
		{"empty slice", testKey, []string{}, Options{}, ErrEmptySearchRules, "searchRules"},
		{"nil map pointer", testKey, (*SearchRules)(nil), Options{}, ErrEmptySearchRules, "searchRules"},
		{"empty rules win over expiration", testKey, map[string]any{}, Options{ExpiresAt: &past}, ErrEmptySearchRules, "searchRules"},
		{"index name string", testKey, "books", Options{}, ErrInvalidSearchRules, "searchRules"},
		{"number", testKey, 42, Options{}, ErrInvalidSearchRules, "searchRules"},
		{"expiration now", testKey, Wildcard, Options{ExpiresAt: &now}, ErrExpired, ""},
		{"expiration past", testKey, Wildcard, Options{ExpiresAt: &past}, ErrExpired, ""},
		{"expiration within the current second", testKey, Wildcard, Options{ExpiresAt: &subSecond}, ErrExpired, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := NewIssuer(tt.key, WithClock(fixedClock)).Generate(tt.rules, tt.opts)
			require.Error(t, err)
			assert.Empty(t, token)
			assert.ErrorIs(t, err, tt.sentinel)

			if tt.argument != "" {
				var argErr *InvalidArgumentError
				require.ErrorAs(t, err, &argErr)
				assert.Equal(t, tt.argument, argErr.Argument)
			} else {
				var expErr *ExpirationError
				require.ErrorAs(t, err, &expErr)
				assert.Equal(t, fixedNow, expErr.Now)
			}
		})
	}
}

func TestGenerateExpirationUsesEncodedSeconds(t *testing.T) {
	now := time.Unix(1000, 200_000_000)
	clock := func() time.Time { return now }

	soon := now.Add(500 * time.Millisecond)
	_, err := NewIssuer(testKey, WithClock(clock)).Generate(Wildcard, Options{ExpiresAt: &soon})
	assert.ErrorIs(t, err, ErrExpired)

	nextSecond := now.Add(800 * time.Millisecond)
	token, err := NewIssuer(testKey, WithClock(clock)).Generate(Wildcard, Options{ExpiresAt: &nextSecond})
	require.NoError(t, err)
	claims, err := Parse(token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, int64(1001), claims.ExpiresAt.Unix())
	assert.True(t, claims.ExpiresAt.After(now))
}

func TestNoAPIKeyMessage(t *testing.T) {
	_, err := NewIssuer("").Generate(Wildcard, Options{})
	assert.ErrorContains(t, err, "no API key provided")
}

func TestGenerateWithSigner(t *testing.T) {
	issuer := NewIssuer(testKey, WithSigner(NewSigner(jwt.SigningMethodHS512)))
	token, err := issuer.Generate(Wildcard, Options{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"alg":"HS512","typ":"JWT"}`, decodeSegment(t, strings.Split(token, ".")[0]))

	claims, err := Verify(token, testKey)
	require.NoError(t, err)
	assert.Equal(t, "*", claims.SearchRules)
}

func TestGenerateVerifiesAsJWT(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	uid := uuid.New()
	token, err := NewIssuer(testKey).Generate(
		SearchRules{"books": map[string]any{"filter": "tenant_id = 42"}},
		Options{ExpiresAt: &exp, APIKeyUID: uid},
	)
	require.NoError(t, err)

	claims, err := Verify(token, testKey)
	require.NoError(t, err)
	assert.Equal(t, "abcdefgh", claims.APIKeyPrefix)
	assert.Equal(t, uid.String(), claims.APIKeyUID)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, exp.Equal(claims.ExpiresAt.Time))
	assert.Equal(t, map[string]any{"books": map[string]any{"filter": "tenant_id = 42"}}, claims.SearchRules)
}

func TestVerifyExpired(t *testing.T) {
	longAgo := time.Now().Add(-48 * time.Hour)
	exp := longAgo.Add(time.Hour)
	token, err := NewIssuer(testKey, WithClock(func() time.Time { return longAgo })).
		Generate(Wildcard, Options{ExpiresAt: &exp})
	require.NoError(t, err)

	_, err = Verify(token, testKey)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	claims, err := Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "*", claims.SearchRules)
}

func TestVerifyRequiresKey(t *testing.T) {
	_, err := Verify("a.b.c", "")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse("not-a-token")
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
}
