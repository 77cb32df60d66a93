package os

import (
	"log/slog"

	"github.com/c2fo/blobfs/options"
)

const (
	optionNameOptions      = "options"
	optionNameRoot         = "root"
	optionNameLogger       = "logger"
	optionNameTempDir      = "tempDir"
	optionNameLinkHandling = "linkHandling"
)

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

// WithRoot sets the directory paths are resolved against.
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

// WithTempDir provides an option to set a custom temporary directory path files are written to before being
// renamed into place.
func WithTempDir(tempDir string) options.NewAdapterOption[Adapter] {
	return &tempDirOpt{
		tempDir: tempDir,
	}
}

type tempDirOpt struct {
	tempDir string
}

// Apply applies the temp dir to the adapter
func (o *tempDirOpt) Apply(a *Adapter) {
	a.options.TempDir = o.tempDir
}

// NewAdapterOptionName returns the name of the option
func (o *tempDirOpt) NewAdapterOptionName() string {
	return optionNameTempDir
}

// WithLinkHandling sets what listings do with symbolic links. Defaults to DisallowLinks.
func WithLinkHandling(handling LinkHandling) options.NewAdapterOption[Adapter] {
	return &linkHandlingOpt{
		handling: handling,
	}
}

type linkHandlingOpt struct {
	handling LinkHandling
}

// Apply applies the link handling to the adapter
func (o *linkHandlingOpt) Apply(a *Adapter) {
	a.options.LinkHandling = o.handling
}

// NewAdapterOptionName returns the name of the option
func (o *linkHandlingOpt) NewAdapterOptionName() string {
	return optionNameLinkHandling
}
