package tom

import (
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the file form of an engine configuration.
//
//	template_root: ./views
//	builtin_root: /usr/share/lightframe/views
//	site_root: /app/
//	max_depth: 100
//	max_inheritance_depth: 10
//	auto_escape: true
//	log_level: info
//	cache:
//	  enabled: true
//	  ttl: 5m
//	  max_entries: 1000
type Config struct {
	TemplateRoot        string        `yaml:"template_root"`
	BuiltinRoot         string        `yaml:"builtin_root"`
	SiteRoot            string        `yaml:"site_root"`
	MaxDepth            int           `yaml:"max_depth"`
	MaxInheritanceDepth int           `yaml:"max_inheritance_depth"`
	AutoEscape          bool          `yaml:"auto_escape"`
	LogLevel            string        `yaml:"log_level"`
	Cache               CacheSettings `yaml:"cache"`
}

// CacheSettings configures the template cache of a file configuration.
type CacheSettings struct {
	Enabled    bool          `yaml:"enabled"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
}

// Config field names used in error metadata
const (
	ConfigFieldMaxDepth            = "max_depth"
	ConfigFieldMaxInheritanceDepth = "max_inheritance_depth"
	ConfigFieldLogLevel            = "log_level"
	ConfigFieldCacheTTL            = "cache.ttl"
	ConfigFieldCacheMaxEntries     = "cache.max_entries"
)

// DefaultConfig returns the configuration New uses without options.
func DefaultConfig() *Config {
	return &Config{
		SiteRoot:            DefaultSiteRoot,
		MaxDepth:            DefaultMaxDepth,
		MaxInheritanceDepth: DefaultMaxInheritanceDepth,
		AutoEscape:          DefaultAutoEscape,
		Cache: CacheSettings{
			TTL:        DefaultCacheTTL,
			MaxEntries: DefaultCacheMaxEntries,
		},
	}
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigRead, path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML configuration. Missing fields keep their defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, NewConfigError(ErrMsgConfigParse, "", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	switch {
	case c.MaxDepth < 0:
		return NewConfigError(ErrMsgConfigInvalid, ConfigFieldMaxDepth, nil)
	case c.MaxInheritanceDepth < 0:
		return NewConfigError(ErrMsgConfigInvalid, ConfigFieldMaxInheritanceDepth, nil)
	case c.Cache.TTL < 0:
		return NewConfigError(ErrMsgConfigInvalid, ConfigFieldCacheTTL, nil)
	case c.Cache.MaxEntries < 0:
		return NewConfigError(ErrMsgConfigInvalid, ConfigFieldCacheMaxEntries, nil)
	}
	if c.LogLevel != "" {
		if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
			return NewConfigError(ErrMsgInvalidLogLevel, ConfigFieldLogLevel, err)
		}
	}
	return nil
}

// Logger builds a production logger writing to stderr at LogLevel.
// An empty LogLevel yields a no-op logger.
func (c *Config) Logger() (*zap.Logger, error) {
	if c.LogLevel == "" {
		return zap.NewNop(), nil
	}
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, NewConfigError(ErrMsgInvalidLogLevel, ConfigFieldLogLevel, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

// Loader builds the loader the configuration describes: the template root
// searched before the built-in root, wrapped in a cache when enabled.
// Without roots it returns nil.
func (c *Config) Loader(logger *zap.Logger) (Loader, error) {
	var roots []string
	for _, r := range []string{c.TemplateRoot, c.BuiltinRoot} {
		if r != "" {
			roots = append(roots, r)
		}
	}
	if len(roots) == 0 {
		return nil, nil
	}

	fsLoader, err := NewFilesystemLoader(roots...)
	if err != nil {
		return nil, err
	}
	if !c.Cache.Enabled {
		return fsLoader, nil
	}
	return NewCachedLoader(fsLoader, CacheConfig{TTL: c.Cache.TTL, MaxEntries: c.Cache.MaxEntries}, logger), nil
}

// Options converts the configuration into engine options.
func (c *Config) Options(logger *zap.Logger) ([]Option, error) {
	loader, err := c.Loader(logger)
	if err != nil {
		return nil, err
	}
	opts := []Option{
		WithLogger(logger),
		WithMaxDepth(c.MaxDepth),
		WithMaxInheritanceDepth(c.MaxInheritanceDepth),
		WithAutoEscape(c.AutoEscape),
	}
	if loader != nil {
		opts = append(opts, WithLoader(loader))
	}
	return opts, nil
}

// NewContext creates a render context carrying the configured site root.
func (c *Config) NewContext(data map[string]any) *Context {
	return NewContext(data).WithRequest(Request{SiteRoot: c.SiteRoot})
}

// NewFromConfig creates an Engine from a file configuration. Extra options
// are applied after the configured ones.
func NewFromConfig(cfg *Config, extra ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options(logger)
	if err != nil {
		return nil, err
	}
	engine, err := New(append(opts, extra...)...)
	if err != nil {
		return nil, err
	}
	logger.Debug(LogMsgConfigLoaded,
		zap.String(LogFieldRoot, cfg.TemplateRoot),
		zap.Bool(LogFieldCacheEnabled, cfg.Cache.Enabled),
	)
	return engine, nil
}
