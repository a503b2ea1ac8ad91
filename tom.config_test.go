package tom

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.True(t, cfg.AutoEscape)
	assert.Equal(t, DefaultSiteRoot, cfg.SiteRoot)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
}

func TestParseConfig_Values(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
template_root: ./views
builtin_root: /usr/share/lightframe/views
site_root: /app/
max_depth: 50
auto_escape: false
log_level: debug
cache:
  enabled: true
  ttl: 90s
  max_entries: 10
`))
	require.NoError(t, err)
	assert.Equal(t, "./views", cfg.TemplateRoot)
	assert.Equal(t, "/usr/share/lightframe/views", cfg.BuiltinRoot)
	assert.Equal(t, "/app/", cfg.SiteRoot)
	assert.Equal(t, 50, cfg.MaxDepth)
	assert.Equal(t, DefaultMaxInheritanceDepth, cfg.MaxInheritanceDepth)
	assert.False(t, cfg.AutoEscape)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 10, cfg.Cache.MaxEntries)
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"negative max depth", "max_depth: -1", ConfigFieldMaxDepth},
		{"negative inheritance depth", "max_inheritance_depth: -2", ConfigFieldMaxInheritanceDepth},
		{"negative ttl", "cache:\n  ttl: -1m", ConfigFieldCacheTTL},
		{"negative max entries", "cache:\n  max_entries: -5", ConfigFieldCacheMaxEntries},
		{"unknown log level", "log_level: loud", ConfigFieldLogLevel},
		{"malformed yaml", "max_depth: [", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.input))
			require.Error(t, err)

			var customErr *cuserr.CustomError
			require.True(t, errors.As(err, &customErr))
			if tt.field == "" {
				return
			}
			field, ok := customErr.GetMetadata(MetaKeyField)
			assert.True(t, ok)
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site_root: /x/\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/x/", cfg.SiteRoot)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestConfig_Logger(t *testing.T) {
	logger, err := (&Config{}).Logger()
	require.NoError(t, err)
	assert.NotNil(t, logger)

	logger, err = (&Config{LogLevel: "warn"}).Logger()
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = (&Config{LogLevel: "loud"}).Logger()
	assert.Error(t, err)
}

func TestConfig_Loader(t *testing.T) {
	loader, err := DefaultConfig().Loader(nil)
	require.NoError(t, err)
	assert.Nil(t, loader)

	cfg := DefaultConfig()
	cfg.TemplateRoot = t.TempDir()
	loader, err = cfg.Loader(nil)
	require.NoError(t, err)
	assert.IsType(t, &FilesystemLoader{}, loader)

	cfg.Cache.Enabled = true
	loader, err = cfg.Loader(nil)
	require.NoError(t, err)
	assert.IsType(t, &CachedLoader{}, loader)
}

func TestNewFromConfig(t *testing.T) {
	project := t.TempDir()
	builtin := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(builtin, "base.html"), []byte("<{% block b %}{% endblock %}>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(project, "page.html"),
		[]byte(`{% extends "base.html" %}{% block b %}{{ / }}{{ x }}{% endblock %}`), 0o644))

	cfg := DefaultConfig()
	cfg.TemplateRoot = project
	cfg.BuiltinRoot = builtin
	cfg.SiteRoot = "/site/"
	cfg.AutoEscape = false
	cfg.Cache.Enabled = true

	engine, err := NewFromConfig(cfg)
	require.NoError(t, err)
	assert.IsType(t, &CachedLoader{}, engine.Loader())

	out, err := engine.Compile(context.Background(), "page.html", cfg.NewContext(map[string]any{"x": "<i>"}))
	require.NoError(t, err)
	assert.Equal(t, "</site/<i>>", out)

	cfg.MaxDepth = -1
	_, err = NewFromConfig(cfg)
	assert.Error(t, err)
}
