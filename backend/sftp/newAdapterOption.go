package sftp

import (
	"log/slog"

	"github.com/c2fo/blobfs/options"
)

const (
	optionNameClient  = "client"
	optionNameOptions = "options"
	optionNameLogger  = "logger"
	optionNameRoot    = "root"
)

// WithClient returns clientOpt implementation of NewAdapterOption
//
// WithClient is used to explicitly specify a Client to use for the adapter, e.g. an *sftp.Client over an existing
// connection. The adapter closes it on Close.
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
// WithOptions is used to specify options for the adapter.
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

// WithRoot sets the remote directory paths are resolved against.
func WithRoot(root string) options.NewAdapterOption[Adapter] {
	return &rootOpt{
		root: root,
	}
}

type rootOpt struct {
	root string
}

// Apply applies the root to the adapter
func (o *rootOpt) Apply(a *Adapter) {
	a.options.Root = o.root
}

// NewAdapterOptionName returns the name of the option
func (o *rootOpt) NewAdapterOptionName() string {
	return optionNameRoot
}
