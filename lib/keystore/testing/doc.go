// Package testing provides standardised tests, benchmarks and a mock for
// implementations of the keystore.IKeystore interface.
//
// The package contains:
//   - testing: A conformance suite validating the IKeystore contract, from
//     schema enforcement to expiration semantics
//   - benchmark: Performance tests measuring throughput of the common store
//     operations
//   - mock: A testify-based mock so applications can test against the
//     interface without touching the filesystem
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func(tb testing.TB) keystore.IKeystore {
//		return newMyStore(tb)
//	}
//
//	// Running the standard test suite
//	kstesting.RunKeystoreTests(t, "MyStore", factory)
//
//	// Running performance benchmarks
//	kstesting.RunKeystoreBenchmarks(b, "MyStore", factory)
package testing
