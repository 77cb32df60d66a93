package telemetry

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/c2fo/blobfs/options"
)

const optionNameAttributes = "attributes"

// WithAttributes adds attrs to every span the adapter records.
func WithAttributes(attrs ...attribute.KeyValue) options.NewAdapterOption[Adapter] {
	return &attributesOpt{attrs: attrs}
}

// WithDisk tags every span with the name of the disk the adapter serves.
func WithDisk(name string) options.NewAdapterOption[Adapter] {
	return &attributesOpt{attrs: []attribute.KeyValue{AttrDisk.String(name)}}
}

type attributesOpt struct {
	attrs []attribute.KeyValue
}

// Apply applies the attributes to the adapter
func (o *attributesOpt) Apply(a *Adapter) {
	a.attrs = append(a.attrs, o.attrs...)
}

// NewAdapterOptionName returns the name of the option
func (o *attributesOpt) NewAdapterOptionName() string {
	return optionNameAttributes
}
