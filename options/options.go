// Package options holds the functional option plumbing shared by every adapter constructor.
package options

// NewAdapterOption is implemented by the functional options accepted by an adapter constructor, where T is the
// adapter type.
// Example:
// ```
//
//	func WithPrefix(prefix string) options.NewAdapterOption[Adapter] {
//		return &prefixOpt{prefix: prefix}
//	}
//
//	type prefixOpt struct{ prefix string }
//
//	func (o *prefixOpt) Apply(a *Adapter)              { a.prefix = o.prefix }
//	func (o *prefixOpt) NewAdapterOptionName() string { return "prefix" }
//
// ```
type NewAdapterOption[T any] interface {
	Apply(*T)
	NewAdapterOptionName() string
}

// ApplyOptions applies opts to t in order. Nil options are skipped.
func ApplyOptions[T any](t *T, opts ...NewAdapterOption[T]) {
	for _, o := range opts {
		if o != nil {
			o.Apply(t)
		}
	}
}
