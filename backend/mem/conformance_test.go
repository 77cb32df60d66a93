package mem

import (
	"testing"

	"github.com/c2fo/blobfs/backend/testsuite"
)

// TestConformance runs the conformance test suite against the in-memory adapter.
// No environment variables are required as this adapter operates entirely in memory.
func TestConformance(t *testing.T) {
	testsuite.RunConformanceTests(t, NewAdapter(), testsuite.ConformanceOptions{
		SupportsVisibility:  true,
		SupportsDirectories: true,
	})
}
