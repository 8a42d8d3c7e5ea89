package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yus314/MoLe-sub005/internal/model"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := Default()
	_, err := cfg.AddProfile(ProfileConfig{
		Name:       "home",
		URL:        "https://ledger.example.com/",
		Auth:       &AuthConfig{User: "me", Password: "secret"},
		APIVersion: model.V(1, 32, 0),
	})
	require.NoError(t, err)
	_, err = cfg.AddProfile(ProfileConfig{Name: "work", URL: "http://10.0.0.5:5000", APIVersion: model.HTML})
	require.NoError(t, err)
	return cfg
}

func TestRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	detected := model.ServerVersion{Major: 1, Minor: 32, Patch: 3}
	cfg.Profiles[0].DetectedVersion = &detected

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "hlsync.db", cfg.Database)
	assert.Equal(t, "logs/hlsync.log", cfg.Log.File)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.False(t, cfg.Log.Verbose)
	assert.Empty(t, cfg.Profiles)
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
profiles:
  - id: 1
    name: home
    url: http://localhost:5000
    api_version: 1.19.1
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hlsync.db", cfg.Database)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	require.Len(t, cfg.Profiles, 1)
	assert.Equal(t, model.V(1, 19, 1), cfg.Profiles[0].APIVersion)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
profiles:
  - {id: 1, name: a, url: "http://a"}
  - {id: 1, name: b, url: "http://b"}
`), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "duplicate profile id 1")
}

func TestYAMLFormat(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "database: hlsync.db")
	assert.Contains(t, contents, "timeout: 30s")
	assert.Contains(t, contents, "api_version: html")
	assert.Contains(t, contents, "user: me")
}

func TestProfileLookup(t *testing.T) {
	cfg := testConfig(t)

	p, err := cfg.Profile("work")
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.ID)

	_, err = cfg.Profile("nope")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = cfg.Profile("")
	assert.ErrorContains(t, err, "pick one")

	single := Default()
	_, err = single.Profile("")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestAddProfile(t *testing.T) {
	cfg := testConfig(t)

	_, err := cfg.AddProfile(ProfileConfig{Name: "home", URL: "http://x"})
	assert.ErrorContains(t, err, "already exists")

	_, err = cfg.AddProfile(ProfileConfig{Name: "bad", URL: "ftp://x"})
	assert.Error(t, err)

	p, err := cfg.AddProfile(ProfileConfig{Name: "third", URL: "http://x"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
	assert.Len(t, cfg.Profiles, 3)
}

func TestProfileModel(t *testing.T) {
	cfg := testConfig(t)
	detected := model.ServerVersion{Major: 1, Minor: 40}
	cfg.Profiles[0].DetectedVersion = &detected

	m := cfg.Profiles[0].Model()
	assert.True(t, m.Persisted())
	assert.Equal(t, "https://ledger.example.com/", m.URL)
	require.NotNil(t, m.Credentials)
	assert.Equal(t, "secret", m.Credentials.Password)
	assert.Equal(t, model.V(1, 32, 0), m.APIVersion)
	require.NotNil(t, m.DetectedVersion)
	assert.Equal(t, 40, m.DetectedVersion.Minor)
	assert.Nil(t, cfg.Profiles[1].Model().Credentials)
}
