package core

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSecretRedacts(t *testing.T) {
	s := NewSecret("masterKey-123")

	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprint(s))
	assert.Equal(t, "core.Secret{[REDACTED]}", fmt.Sprintf("%#v", s))
	assert.NotContains(t, fmt.Sprintf("%+v", struct{ Key Secret }{s}), "masterKey")
}

func TestSecretSerializationRedacts(t *testing.T) {
	cfg := struct {
		Host   string `json:"host" yaml:"host"`
		APIKey Secret `json:"api_key" yaml:"api_key"`
	}{Host: "http://localhost:7700", APIKey: NewSecret("masterKey-123")}

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "masterKey")
	assert.Contains(t, string(data), `"api_key":"[REDACTED]"`)

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "masterKey")
}

func TestSecretExpose(t *testing.T) {
	assert.Equal(t, "masterKey-123", NewSecret("masterKey-123").Expose())
}

func TestSecretPrefix(t *testing.T) {
	tests := []struct {
		value string
		n     int
		want  string
	}{
		{"masterKey-123", 8, "masterKe"},
		{"short", 8, "short"},
		{"exactly8", 8, "exactly8"},
		{"", 8, ""},
		{"abc", -1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, NewSecret(tt.value).Prefix(tt.n))
		})
	}
}

func TestSecretIsEmpty(t *testing.T) {
	assert.True(t, Secret{}.IsEmpty())
	assert.False(t, NewSecret("k").IsEmpty())
}
