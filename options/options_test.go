package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type target struct {
	names []string
}

type nameOpt struct {
	name string
}

func (o *nameOpt) Apply(t *target)              { t.names = append(t.names, o.name) }
func (o *nameOpt) NewAdapterOptionName() string { return "name" }

func TestApplyOptions(t *testing.T) {
	tgt := &target{}
	ApplyOptions(tgt, &nameOpt{name: "first"}, nil, &nameOpt{name: "second"})
	assert.Equal(t, []string{"first", "second"}, tgt.names, "options are applied in order and nil is skipped")
}
