// Package harness runs regression suites in isolation.
//
// Every call to Run gets a fresh in-memory store, a deterministic clock
// and a fixed run ID unless options say otherwise, so the trace of a
// suite is byte-for-byte reproducible. That trace is what golden files
// capture:
//
//	suite, err := harness.LoadSuite("testdata/suites/hex.yaml")
//	result, err := harness.Run(ctx, suite)
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        fmt.Println(msg)
//	    }
//	}
//
// Suites are YAML or CUE files. YAML documents are checked against
// Schema before they are decoded; CUE files go through the compiler
// package. The parse_numbers suite ships embedded, see Builtin.
package harness
