package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
const (
	DomainCase    = "numcheck/case/v1"
	DomainOutcome = "numcheck/outcome/v1"
	DomainSuite   = "numcheck/suite/v1"
)

// hashWithDomain returns hex(SHA256(domain || 0x00 || data)).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CaseID identifies what a case computes: the call, its input and radix.
// The expected value is excluded so that correcting an expectation keeps
// the case's history.
func CaseID(call, input string, radix int) (string, error) {
	canonical, err := MarshalCanonical(IRObject{
		"call":  IRString(call),
		"input": IRString(input),
		"radix": IRInt(radix),
	})
	if err != nil {
		return "", fmt.Errorf("CaseID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCase, canonical), nil
}

// OutcomeID identifies one evaluation of a case within a run.
func OutcomeID(runID, caseID string, seq int64) (string, error) {
	canonical, err := MarshalCanonical(IRObject{
		"run_id":  IRString(runID),
		"case_id": IRString(caseID),
		"seq":     IRInt(seq),
	})
	if err != nil {
		return "", fmt.Errorf("OutcomeID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainOutcome, canonical), nil
}

// SuiteHash fingerprints a suite's full contents, expectations included.
func SuiteHash(s SuiteSpec) (string, error) {
	cases := make(IRArray, len(s.Cases))
	for i, c := range s.Cases {
		cases[i] = IRObject{
			"call":   IRString(c.Call),
			"input":  IRString(c.Input),
			"radix":  IRInt(c.RadixOrDefault()),
			"expect": IRString(c.Expect),
		}
	}
	canonical, err := MarshalCanonical(IRObject{
		"name":  IRString(s.Name),
		"cases": cases,
	})
	if err != nil {
		return "", fmt.Errorf("SuiteHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSuite, canonical), nil
}

// MustCaseID is like CaseID but panics on error.
func MustCaseID(call, input string, radix int) string {
	id, err := CaseID(call, input, radix)
	if err != nil {
		panic(err)
	}
	return id
}
