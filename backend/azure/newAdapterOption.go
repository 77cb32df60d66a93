package azure

import (
	"log/slog"

	"github.com/c2fo/blobfs/options"
)

const (
	optionNameClient             = "client"
	optionNameOptions            = "options"
	optionNameLogger             = "logger"
	optionNamePrefix             = "prefix"
	optionNameVisibilityHandling = "visibilityHandling"
	optionNameDirectPublicURL    = "directPublicURL"
)

// WithClient returns clientOpt implementation of NewAdapterOption
//
// WithClient is used to explicitly specify a Client to use for the adapter.
func WithClient(client Client) options.NewAdapterOption[Adapter] {
	return &clientOpt{
		client: client,
	}
}

type clientOpt struct {
	client Client
}

// Apply applies the client to the adapter
func (c *clientOpt) Apply(a *Adapter) {
	a.client = c.client
}

// NewAdapterOptionName returns the name of the option
func (c *clientOpt) NewAdapterOptionName() string {
	return optionNameClient
}

// WithOptions returns optionsOpt implementation of NewAdapterOption
//
// WithOptions replaces every option of the adapter, so it should be passed before the options adjusting single
// settings.
func WithOptions(opts Options) options.NewAdapterOption[Adapter] {
	return &optionsOpt{
		options: opts,
	}
}

type optionsOpt struct {
	options Options
}

// Apply applies the options to the adapter
func (o *optionsOpt) Apply(a *Adapter) {
	a.options = o.options
}

// NewAdapterOptionName returns the name of the option
func (o *optionsOpt) NewAdapterOptionName() string {
	return optionNameOptions
}

// WithLogger sets the logger of the adapter. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) options.NewAdapterOption[Adapter] {
	return &loggerOpt{
		logger: logger,
	}
}

type loggerOpt struct {
	logger *slog.Logger
}

// Apply applies the logger to the adapter
func (o *loggerOpt) Apply(a *Adapter) {
	if o.logger != nil {
		a.logger = o.logger
	}
}

// NewAdapterOptionName returns the name of the option
func (o *loggerOpt) NewAdapterOptionName() string {
	return optionNameLogger
}

// WithPrefix places every blob the adapter touches below prefix.
func WithPrefix(prefix string) options.NewAdapterOption[Adapter] {
	return &prefixOpt{
		prefix: prefix,
	}
}

type prefixOpt struct {
	prefix string
}

// Apply applies the prefix to the adapter
func (o *prefixOpt) Apply(a *Adapter) {
	a.options.Prefix = o.prefix
}

// NewAdapterOptionName returns the name of the option
func (o *prefixOpt) NewAdapterOptionName() string {
	return optionNamePrefix
}

// WithVisibilityHandling sets how visibility operations behave. Defaults to VisibilityThrow.
func WithVisibilityHandling(handling VisibilityHandling) options.NewAdapterOption[Adapter] {
	return &visibilityHandlingOpt{
		handling: handling,
	}
}

type visibilityHandlingOpt struct {
	handling VisibilityHandling
}

// Apply applies the visibility handling to the adapter
func (o *visibilityHandlingOpt) Apply(a *Adapter) {
	a.options.VisibilityHandling = o.handling
}

// NewAdapterOptionName returns the name of the option
func (o *visibilityHandlingOpt) NewAdapterOptionName() string {
	return optionNameVisibilityHandling
}

// WithDirectPublicURL makes PublicURL return the unsigned blob URL. Only useful for containers allowing public
// read access.
func WithDirectPublicURL(direct bool) options.NewAdapterOption[Adapter] {
	return &directPublicURLOpt{
		direct: direct,
	}
}

type directPublicURLOpt struct {
	direct bool
}

// Apply applies the public URL mode to the adapter
func (o *directPublicURLOpt) Apply(a *Adapter) {
	a.options.UseDirectPublicURL = o.direct
}

// NewAdapterOptionName returns the name of the option
func (o *directPublicURLOpt) NewAdapterOptionName() string {
	return optionNameDirectPublicURL
}
