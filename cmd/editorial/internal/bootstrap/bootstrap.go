package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	editorial "github.com/soygarfield/go-editorial"
)

// Options captures configuration shared by every CLI command.
type Options struct {
	ConfigPath string
	// ConfigRequired turns a missing config file into an error. Otherwise
	// the built-in defaults are used.
	ConfigRequired bool
	Source         string
	OutputPath     string
	StaticDir      string
	Dispatch       bool
	ModuleOptions  []editorial.Option
}

// LoadConfig reads the config file, falling back to defaults when it is
// absent and not required, then applies command-line overrides.
func LoadConfig(opts Options) (editorial.Config, error) {
	cfg := editorial.DefaultConfig()
	path := strings.TrimSpace(opts.ConfigPath)
	if path != "" {
		loaded, err := editorial.LoadConfig(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, fs.ErrNotExist) && !opts.ConfigRequired:
			// defaults
		default:
			return cfg, err
		}
	}

	if source := strings.TrimSpace(opts.Source); source != "" {
		cfg.Source.Provider = source
	}
	if output := strings.TrimSpace(opts.OutputPath); output != "" {
		cfg.Sitemap.OutputPath = output
	}
	if dir := strings.TrimSpace(opts.StaticDir); dir != "" {
		cfg.Static.OutputDir = dir
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// BuildModule loads the config and constructs the editorial module.
func BuildModule(ctx context.Context, opts Options) (*editorial.Module, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}
	moduleOpts := append([]editorial.Option(nil), opts.ModuleOptions...)
	if opts.Dispatch {
		moduleOpts = append(moduleOpts, editorial.WithCommandDispatcher(editorial.GlobalDispatcher{MaxRetries: 1}))
	}
	return editorial.New(ctx, cfg, moduleOpts...)
}
