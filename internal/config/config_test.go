package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvTimeout, "")
	return home
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIURL)
	assert.Equal(t, "120s", cfg.Timeout)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, 120*time.Second, cfg.TimeoutDuration())

	_, err = os.Stat(filepath.Join(home, ".rootmind", "config.json"))
	assert.True(t, os.IsNotExist(err), "Load must not create the file")
}

func TestLoadFileKeepsDefaultsForMissingKeys(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".rootmind")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"api_url": "https://study.example.com", "language": "es"}`), 0600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://study.example.com", cfg.APIURL)
	assert.Equal(t, "es", cfg.Language)
	assert.Equal(t, "120s", cfg.Timeout)
	assert.Equal(t, "dark", cfg.Theme)
}

func TestLoadInvalidJSON(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".rootmind")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{`), 0600))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.json")
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	require.NoError(t, Save(Config{APIURL: "http://file:1", Timeout: "5s"}))

	t.Setenv(EnvAPIURL, "http://env:2")
	t.Setenv(EnvAPIKey, "secret")
	t.Setenv(EnvTimeout, "30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env:2", cfg.APIURL)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 30*time.Second, cfg.TimeoutDuration())

	// LoadFile never sees the environment.
	fileCfg, err := LoadFile()
	require.NoError(t, err)
	assert.Equal(t, "http://file:1", fileCfg.APIURL)
	assert.Empty(t, fileCfg.APIKey)
}

func TestSaveRoundTrip(t *testing.T) {
	home := isolate(t)

	want := Default()
	want.APIKey = "k"
	want.StartDir = home
	require.NoError(t, Save(want))

	info, err := os.Stat(filepath.Join(home, ".rootmind", "config.json"))
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTimeoutDurationFallback(t *testing.T) {
	assert.Equal(t, 120*time.Second, Config{Timeout: "soon"}.TimeoutDuration())
	assert.Equal(t, 120*time.Second, Config{Timeout: "-1s"}.TimeoutDuration())
	assert.Equal(t, 90*time.Second, Config{Timeout: "90s"}.TimeoutDuration())
}

func TestGetSet(t *testing.T) {
	var cfg Config
	for _, key := range Keys {
		require.NoError(t, cfg.Set(key, "v-"+key))
		got, err := cfg.Get(key)
		require.NoError(t, err)
		assert.Equal(t, "v-"+key, got)
	}

	assert.Error(t, cfg.Set("model", "x"))
	_, err := cfg.Get("model")
	assert.Error(t, err)
}

func TestRedacted(t *testing.T) {
	cfg := Config{APIKey: "secret"}
	assert.Equal(t, "********", cfg.Redacted().APIKey)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Empty(t, Config{}.Redacted().APIKey)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	tests := []struct {
		name   string
		cfg    Config
		fields []string
	}{
		{name: "defaults", cfg: Default()},
		{name: "start dir", cfg: Config{APIURL: "https://x.io", StartDir: dir}},
		{name: "missing url", cfg: Config{}, fields: []string{"api_url"}},
		{name: "bad scheme", cfg: Config{APIURL: "ftp://x"}, fields: []string{"api_url"}},
		{name: "no host", cfg: Config{APIURL: "localhost:8000"}, fields: []string{"api_url"}},
		{name: "bad timeout", cfg: Config{APIURL: "http://x", Timeout: "later"}, fields: []string{"timeout"}},
		{name: "zero timeout", cfg: Config{APIURL: "http://x", Timeout: "0s"}, fields: []string{"timeout"}},
		{name: "start dir is file", cfg: Config{APIURL: "http://x", StartDir: file}, fields: []string{"start_dir"}},
		{
			name:   "several",
			cfg:    Config{Timeout: "x", StartDir: filepath.Join(dir, "missing")},
			fields: []string{"api_url", "timeout", "start_dir"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.cfg.Validate()
			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
				assert.Contains(t, e.Error(), e.Field+": ")
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}
