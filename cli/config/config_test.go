package config

import (
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `default_profile: local
profiles:
  local:
    host: http://localhost:7700
    api_key_ref: local-master
  prod:
    host: https://search.example.com
    api_key_ref: prod-search
    client_agents:
      - Meilisearch Symfony (v0.10.0)
    timeout: 5s
`

func memFS(t *testing.T, path, content string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o600))
	return fs
}

func TestLoad(t *testing.T) {
	fs := memFS(t, "/home/u/.meili/config.yaml", sampleConfig)

	cfg, err := Load(fs, "/home/u/.meili/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.DefaultProfile)
	require.Len(t, cfg.Profiles, 2)

	prod := cfg.GetProfile("prod")
	require.NotNil(t, prod)
	assert.Equal(t, "https://search.example.com", prod.Host)
	assert.Equal(t, []string{"Meilisearch Symfony (v0.10.0)"}, prod.ClientAgents)
	assert.Equal(t, 5*time.Second, prod.Timeout)

	assert.Nil(t, cfg.GetProfile("missing"))
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), "/nope/config.yaml")
	require.NoError(t, err)
	assert.Empty(t, cfg.Profiles)
	assert.NotNil(t, cfg.Profiles)
}

func TestLoadInvalidYAML(t *testing.T) {
	fs := memFS(t, "/c.yaml", "profiles: [")
	_, err := Load(fs, "/c.yaml")
	assert.Error(t, err)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &Config{
		DefaultProfile: "ghost",
		Profiles: map[string]Profile{
			"a": {},
			"b": {Host: "ftp://example.com"},
			"c": {Host: "http://localhost:7700", Timeout: -time.Second},
			"d": {Host: "http://localhost:7700"},
		},
	}

	err := cfg.Validate()
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 4)
	assert.ErrorContains(t, err, `profile "a": host is required`)
	assert.ErrorContains(t, err, `scheme must be http or https`)
	assert.ErrorContains(t, err, `timeout must not be negative`)
	assert.ErrorContains(t, err, `default_profile "ghost" is not defined`)
}

func TestSaveRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := New()
	cfg.DefaultProfile = "local"
	cfg.Profiles["local"] = Profile{Host: "http://localhost:7700", APIKeyRef: "local", Timeout: 2 * time.Second}

	require.NoError(t, Save(fs, "/x/.meili/config.yaml", cfg))

	info, err := fs.Stat("/x/.meili/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String())

	loaded, err := Load(fs, "/x/.meili/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveRejectsInvalid(t *testing.T) {
	cfg := New()
	cfg.Profiles["bad"] = Profile{}
	assert.Error(t, Save(afero.NewMemMapFs(), "/c.yaml", cfg))
}

func TestResolve(t *testing.T) {
	fs := memFS(t, "/c.yaml", sampleConfig)
	cfg, err := Load(fs, "/c.yaml")
	require.NoError(t, err)

	tests := []struct {
		name    string
		flag    string
		env     Env
		want    Resolved
		wantErr string
	}{
		{
			name: "default profile from file",
			want: Resolved{Profile: "local", Host: "http://localhost:7700", APIKeyRef: "local-master"},
		},
		{
			name: "flag wins over env",
			flag: "prod",
			env:  Env{Profile: "local"},
			want: Resolved{
				Profile:      "prod",
				Host:         "https://search.example.com",
				APIKeyRef:    "prod-search",
				ClientAgents: []string{"Meilisearch Symfony (v0.10.0)"},
				Timeout:      5 * time.Second,
			},
		},
		{
			name: "env profile",
			env:  Env{Profile: "prod"},
			want: Resolved{
				Profile:      "prod",
				Host:         "https://search.example.com",
				APIKeyRef:    "prod-search",
				ClientAgents: []string{"Meilisearch Symfony (v0.10.0)"},
				Timeout:      5 * time.Second,
			},
		},
		{
			name: "env host and key override",
			env:  Env{Host: "http://10.0.0.1:7700", APIKey: "masterKey"},
			want: Resolved{Profile: "local", Host: "http://10.0.0.1:7700", APIKey: "masterKey", APIKeyRef: "local-master"},
		},
		{
			name:    "unknown profile",
			flag:    "staging",
			wantErr: `profile "staging" is not defined`,
		},
		{
			name:    "bad env host",
			env:     Env{Host: "localhost"},
			wantErr: "scheme must be http or https",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cfg.Resolve(tt.flag, tt.env)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveWithoutConfig(t *testing.T) {
	r, err := New().Resolve("", Env{})
	require.NoError(t, err)
	assert.ErrorContains(t, r.CheckHost(), "no host configured")

	r, err = New().Resolve("", Env{APIKey: "masterKey"})
	require.NoError(t, err)
	assert.Equal(t, "masterKey", r.APIKey)

	r, err = New().Resolve("", Env{Host: "http://localhost:7700"})
	require.NoError(t, err)
	assert.NoError(t, r.CheckHost())
	assert.Equal(t, DefaultProfileName, r.Profile)
	assert.Equal(t, "http://localhost:7700", r.Host)
}

func TestReadEnv(t *testing.T) {
	t.Setenv("MEILI_HOST", "http://localhost:7700")
	t.Setenv("MEILI_API_KEY", "masterKey")
	t.Setenv("MEILI_PROFILE", "prod")

	env, err := ReadEnv()
	require.NoError(t, err)
	assert.Equal(t, Env{Host: "http://localhost:7700", APIKey: "masterKey", Profile: "prod"}, env)
}
