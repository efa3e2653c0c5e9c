package vershape

import (
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/broady/vershape/shape"
)

var validate = validator.New()

// config holds the settings shared by a Registry and the Catalog that
// creates it.
type config struct {
	logger *slog.Logger

	// EagerWalk projects every schema type bound to a Go type on the first
	// generation pass of a version.
	EagerWalk bool

	// StrictModel runs edm.Model.Validate when a registry is created.
	StrictModel bool

	// TagKeys are the struct tag keys copied onto synthesized fields.
	TagKeys []string `validate:"min=1,dive,required"`
}

func defaultConfig() config {
	return config{
		EagerWalk: true,
		TagKeys:   shape.DefaultTagKeys,
	}
}

// Option configures a Registry or Catalog.
type Option func(*config)

// WithLogger sets the logger used for generation pass diagnostics.
// If not set, slog.Default() will be used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithEagerWalk controls whether the first generation pass of a version
// walks every schema type bound to a Go type (the default) or only the
// requested type.
func WithEagerWalk(eager bool) Option {
	return func(c *config) { c.EagerWalk = eager }
}

// WithStrictModel makes NewRegistry reject models that fail
// edm.Model.Validate.
func WithStrictModel() Option {
	return func(c *config) { c.StrictModel = true }
}

// WithTagKeys sets the struct tag keys copied from Go members onto
// synthesized fields. The default is shape.DefaultTagKeys.
func WithTagKeys(keys ...string) Option {
	return func(c *config) { c.TagKeys = keys }
}

func buildConfig(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, AsError(err)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return cfg, nil
}
