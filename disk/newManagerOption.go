package disk

import (
	"log/slog"

	"github.com/c2fo/blobfs/options"
)

// ManagerOption configures a Manager.
type ManagerOption = options.NewAdapterOption[Manager]

const (
	optionNameLogger    = "logger"
	optionNameDecorator = "decorator"
)

// WithLogger sets the logger used by the manager.
func WithLogger(logger *slog.Logger) options.NewAdapterOption[Manager] {
	return &loggerOpt{logger: logger}
}

type loggerOpt struct {
	logger *slog.Logger
}

// Apply applies the logger to the manager
func (o *loggerOpt) Apply(m *Manager) {
	if o.logger != nil {
		m.logger = o.logger
	}
}

// NewAdapterOptionName returns the name of the option
func (o *loggerOpt) NewAdapterOptionName() string {
	return optionNameLogger
}

// WithDecorator wraps every adapter the manager builds with decorate.
func WithDecorator(decorate AdapterDecorator) options.NewAdapterOption[Manager] {
	return &decoratorOpt{decorate: decorate}
}

type decoratorOpt struct {
	decorate AdapterDecorator
}

// Apply applies the decorator to the manager
func (o *decoratorOpt) Apply(m *Manager) {
	m.decorator = o.decorate
}

// NewAdapterOptionName returns the name of the option
func (o *decoratorOpt) NewAdapterOptionName() string {
	return optionNameDecorator
}
