package telemetry

import (
	"testing"

	"github.com/c2fo/blobfs/backend/mem"
	"github.com/c2fo/blobfs/backend/testsuite"
)

// TestConformance checks that tracing leaves the behaviour of the wrapped adapter untouched.
func TestConformance(t *testing.T) {
	testsuite.RunConformanceTests(t, NewAdapter(mem.NewAdapter(), nil), testsuite.ConformanceOptions{
		SupportsVisibility:  true,
		SupportsDirectories: true,
	})
}
