package mem

import (
	"time"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/options"
)

const (
	optionNameDefaultVisibility = "defaultVisibility"
	optionNameClock             = "clock"
)

// WithDefaultVisibility sets the visibility of files written without an explicit one. Defaults to blobfs.Public.
func WithDefaultVisibility(v blobfs.Visibility) options.NewAdapterOption[Adapter] {
	return &defaultVisibilityOpt{visibility: v}
}

type defaultVisibilityOpt struct {
	visibility blobfs.Visibility
}

// Apply applies the default visibility to the adapter
func (o *defaultVisibilityOpt) Apply(a *Adapter) {
	a.defaultVisibility = o.visibility
}

// NewAdapterOptionName returns the name of the option
func (o *defaultVisibilityOpt) NewAdapterOptionName() string {
	return optionNameDefaultVisibility
}

// WithClock replaces the source of last modified times.
func WithClock(now func() time.Time) options.NewAdapterOption[Adapter] {
	return &clockOpt{now: now}
}

type clockOpt struct {
	now func() time.Time
}

// Apply applies the clock to the adapter
func (o *clockOpt) Apply(a *Adapter) {
	a.now = o.now
}

// NewAdapterOptionName returns the name of the option
func (o *clockOpt) NewAdapterOptionName() string {
	return optionNameClock
}
