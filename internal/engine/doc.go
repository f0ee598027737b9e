// Package engine evaluates regression suites of numeric-parsing cases.
//
// A suite is an ordered list of (actual, expected) pairs. The engine runs
// each case through a registered call handler, compares the result with the
// expected literal and folds the per-case results into one pass flag:
//
//	pass := true
//	for each case: pass = pass && (actual == expected)
//
// # Equality
//
// Comparison is IEEE-754 ==, so NaN never equals NaN. The one exception is
// an explicit "NaN" expectation, which matches a NaN result; without it no
// case could assert that a parse fails.
//
// # Ordering
//
// Cases are evaluated in declaration order, one at a time. Every outcome is
// stamped with a seq from the logical Clock, then the run itself takes the
// next seq. Stored history is read back ORDER BY seq, id.
//
// # Replay
//
// Replay re-evaluates the cases of a stored run and reports any outcome
// that no longer reproduces. Because evaluation is a pure function of
// (call, input, radix), a clean replay means the parser has not drifted.
package engine
