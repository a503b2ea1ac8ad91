package main

import (
	"errors"
	"flag"
	"io"

	"github.com/lightframe/go-tom"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	errMissingTemplate = errors.New(ErrMsgMissingTemplate)
	errTemplateAndName = errors.New(ErrMsgTemplateAndName)
)

// engineFlags are the flags shared by every command that builds an engine.
type engineFlags struct {
	templatePath string
	templateName string
	root         string
	builtinRoot  string
	configPath   string
	siteRoot     string
	noEscape     bool
	verbose      bool
}

func (f *engineFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.templatePath, FlagTemplate, "", "")
	fs.StringVar(&f.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&f.templateName, FlagName, "", "")
	fs.StringVar(&f.templateName, FlagNameShort, "", "")
	fs.StringVar(&f.root, FlagRoot, "", "")
	fs.StringVar(&f.root, FlagRootShort, "", "")
	fs.StringVar(&f.builtinRoot, FlagBuiltinRoot, "", "")
	fs.StringVar(&f.builtinRoot, FlagBuiltinRootShort, "", "")
	fs.StringVar(&f.configPath, FlagConfig, "", "")
	fs.StringVar(&f.configPath, FlagConfigShort, "", "")
	fs.StringVar(&f.siteRoot, FlagSiteRoot, "", "")
	fs.BoolVar(&f.noEscape, FlagNoEscape, false, "")
	fs.BoolVar(&f.verbose, FlagVerbose, false, "")
	fs.BoolVar(&f.verbose, FlagVerboseShort, false, "")
}

// validateSource checks that exactly one of --template and --name is set.
func (f *engineFlags) validateSource() error {
	switch {
	case f.templatePath == "" && f.templateName == "":
		return errMissingTemplate
	case f.templatePath != "" && f.templateName != "":
		return errTemplateAndName
	}
	return nil
}

// config merges the optional configuration file with the flags. Flags win.
func (f *engineFlags) config() (*tom.Config, error) {
	cfg := tom.DefaultConfig()
	if f.configPath != "" {
		loaded, err := tom.LoadConfig(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if f.root != "" {
		cfg.TemplateRoot = f.root
	}
	if f.builtinRoot != "" {
		cfg.BuiltinRoot = f.builtinRoot
	}
	if f.siteRoot != "" {
		cfg.SiteRoot = f.siteRoot
	}
	if f.noEscape {
		cfg.AutoEscape = false
	}
	return cfg, nil
}

// build creates the engine and its configuration. Logs go to stderr.
func (f *engineFlags) build(stderr io.Writer) (*tom.Engine, *tom.Config, *zap.Logger, error) {
	cfg, err := f.config()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := newLogger(cfg.LogLevel, f.verbose, stderr)
	if err != nil {
		return nil, nil, nil, err
	}
	opts, err := cfg.Options(logger)
	if err != nil {
		return nil, nil, nil, err
	}
	engine, err := tom.New(opts...)
	if err != nil {
		return nil, nil, nil, err
	}
	return engine, cfg, logger, nil
}

// newLogger returns a development logger when verbose, a JSON logger at
// level otherwise, and a no-op logger when neither is asked for.
func newLogger(level string, verbose bool, w io.Writer) (*zap.Logger, error) {
	sink := zapcore.AddSync(w)
	if verbose {
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), sink, zapcore.DebugLevel)
		return zap.New(core), nil
	}
	if level == "" {
		return zap.NewNop(), nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sink, lvl)
	return zap.New(core), nil
}
