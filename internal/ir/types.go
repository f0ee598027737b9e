package ir

// Call names understood by the engine.
const (
	CallParseInt   = "parseInt"
	CallParseFloat = "parseFloat"
)

// SuiteSpec is a compiled regression suite: an ordered list of cases
// whose outcomes are folded into one pass/fail flag.
type SuiteSpec struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Cases       []CaseSpec `json:"cases" yaml:"cases"`
}

// CaseSpec is one (actual, expected) pair. The actual side is a call on
// Input; Expect is a numeric literal, or "NaN" to expect the sentinel.
type CaseSpec struct {
	Call   string `json:"call" yaml:"call"`
	Input  string `json:"input" yaml:"input"`
	Radix  *int   `json:"radix,omitempty" yaml:"radix,omitempty"`
	Expect string `json:"expect" yaml:"expect"`
}

// RadixOrDefault returns the case's radix, or 0 (auto-detect) when unset.
func (c CaseSpec) RadixOrDefault() int {
	if c.Radix == nil {
		return 0
	}
	return *c.Radix
}

// Run is a stored suite execution.
type Run struct {
	ID            string `json:"id"`
	Suite         string `json:"suite"`
	SuiteHash     string `json:"suite_hash"`
	Pass          bool   `json:"pass"`
	CaseCount     int    `json:"case_count"`
	Seq           int64  `json:"seq"`
	EngineVersion string `json:"engine_version"`
}

// Outcome is the evaluated result of one case within a run.
type Outcome struct {
	ID       string   `json:"id"` // content-addressed, see OutcomeID
	RunID    string   `json:"run_id"`
	CaseID   string   `json:"case_id"`
	Seq      int64    `json:"seq"`
	Call     string   `json:"call"`
	Input    string   `json:"input"`
	Radix    int      `json:"radix"`
	Expected IRNumber `json:"expected"`
	Actual   IRNumber `json:"actual"`
	Pass     bool     `json:"pass"`
}
