package config

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/retroachievements/legacy-redirector/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	return p
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", s.Listen)
	assert.Equal(t, 10*time.Second, s.ShutdownTimeout)
	assert.Equal(t, "public", s.PublicDir)
	assert.Equal(t, http.StatusMovedPermanently, s.StatusCode)
	assert.Equal(t, "/forums/topic/{topic}", s.TopicRoute)
	assert.Equal(t, DriverNone, s.Database.Driver)
	assert.Equal(t, uint(5), s.Database.ConnectAttempts)
	assert.Equal(t, 2*time.Second, s.Database.ConnectDelay)
}

func TestLoadFile(t *testing.T) {
	p := writeFile(t, "settings.yaml", `
listen: 127.0.0.1:9000
public_dir: /srv/public
rules_file: /etc/redirects.yaml
watch_rules: true
status_code: 302
base_url: https://retroachievements.org
database:
  driver: sqlite
  dsn: file:ra.db
  connect_attempts: 2
  connect_delay: 500ms
`)

	s, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", s.Listen)
	assert.Equal(t, "/srv/public", s.PublicDir)
	assert.Equal(t, "/etc/redirects.yaml", s.RulesFile)
	assert.True(t, s.WatchRules)
	assert.Equal(t, http.StatusFound, s.StatusCode)
	assert.Equal(t, "https://retroachievements.org", s.BaseURL)
	assert.Equal(t, DatabaseSettings{
		Driver:          store.DriverSQLite,
		DSN:             "file:ra.db",
		ConnectAttempts: 2,
		ConnectDelay:    500 * time.Millisecond,
	}, s.Database)
}

func TestLoadEnvOverrides(t *testing.T) {
	p := writeFile(t, "settings.yaml", "listen: :9000\n")

	t.Setenv("LEGACY_REDIRECTOR_LISTEN", ":7000")
	t.Setenv("APP_URL", "https://example.org")
	t.Setenv("LEGACY_REDIRECTOR_STATUS_CODE", "308")

	s, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, ":7000", s.Listen)
	assert.Equal(t, "https://example.org", s.BaseURL)
	assert.Equal(t, http.StatusPermanentRedirect, s.StatusCode)
}

func TestLoadInvalid(t *testing.T) {
	t.Run("malformed file", func(t *testing.T) {
		p := writeFile(t, "settings.yaml", "listen: [\n")
		_, err := Load(p)
		assert.Error(t, err)
	})

	t.Run("not a redirect code", func(t *testing.T) {
		p := writeFile(t, "settings.yaml", "status_code: 200\n")
		_, err := Load(p)
		assert.ErrorIs(t, err, ErrInvalidSettings)
	})
}

func TestSettingsValidate(t *testing.T) {
	valid := func() Settings {
		return Settings{Listen: ":8080", StatusCode: http.StatusMovedPermanently}
	}

	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Settings) {}},
		{name: "empty listen", mutate: func(s *Settings) { s.Listen = "" }, wantErr: true},
		{name: "bad status", mutate: func(s *Settings) { s.StatusCode = 404 }, wantErr: true},
		{name: "unknown driver", mutate: func(s *Settings) { s.Database.Driver = "mysql" }, wantErr: true},
		{name: "driver without dsn", mutate: func(s *Settings) { s.Database.Driver = store.DriverPostgres }, wantErr: true},
		{name: "sqlite", mutate: func(s *Settings) {
			s.Database.Driver = store.DriverSQLite
			s.Database.DSN = "file:ra.db"
		}},
		{name: "postgres", mutate: func(s *Settings) {
			s.Database.Driver = store.DriverPostgres
			s.Database.DSN = "postgres://localhost/ra"
		}},
		{name: "negative timeout", mutate: func(s *Settings) { s.ShutdownTimeout = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSettings)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
