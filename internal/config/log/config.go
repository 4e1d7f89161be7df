// Package log holds the configuration options for the zap-backed logger.
package log

import "go.uber.org/zap/zapcore"

// Options configures a Logger built by internal/core/infrastructure/log.
type Options struct {
	// Level is one of debug/info/warn/error/fatal.
	Level string
	// FilePath is a destination path, or "stdout"/"stderr" for console
	// output. Empty means "stdout".
	FilePath string
	// ToConsole additionally mirrors output to stdout even when FilePath
	// names a file.
	ToConsole bool
	// EnableCaller adds the call site to each entry.
	EnableCaller bool
}

// Config is the resolved, defaulted form of Options.
type Config struct {
	opts Options
}

// New resolves Options into a Config, filling in defaults for a nil or
// partially populated Options.
func New(opts *Options) *Config {
	if opts == nil {
		opts = &Options{}
	}
	resolved := *opts
	if resolved.Level == "" {
		resolved.Level = "info"
	}
	if resolved.FilePath == "" {
		resolved.FilePath = "stdout"
	}
	return &Config{opts: resolved}
}

func (c *Config) GetFilePath() string    { return c.opts.FilePath }
func (c *Config) IsConsoleEnabled() bool { return c.opts.ToConsole }
func (c *Config) IsCallerEnabled() bool  { return c.opts.EnableCaller }

// GetZapLevel maps the configured level name to a zapcore.Level.
func (c *Config) GetZapLevel() zapcore.Level {
	switch c.opts.Level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
