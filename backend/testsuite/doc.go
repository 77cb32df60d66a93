/*
Package testsuite is meant to be run by implementors of adapters to ensure that the behaviors of their adapter match
the expected behavior of the blobfs.Adapter contract. Note you may need to pass additional environmental variables for
authentication.

	//go:build blobfsintegration

	package myadapter

	func TestConformance(t *testing.T) {
	    testsuite.RunConformanceTests(t, NewAdapter(), testsuite.ConformanceOptions{})
	}

Every scenario works below its own directory of ConformanceOptions.BasePath and removes it afterwards, so the suite
can run against a shared container or bucket.
*/
package testsuite
