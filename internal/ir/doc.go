// Package ir provides the canonical value and record types for numcheck.
//
// All other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - no binary floats in canonical JSON; numeric results are IRNumber
//     decimal text so traces and IDs are identical across platforms
//   - all JSON tags use snake_case
//   - logical clocks (seq) order records, never wall-clock timestamps
package ir
