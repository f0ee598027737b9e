package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const hexSuiteYAML = `name: hex
description: hex prefixes
cases:
  - {call: parseInt, input: "0x1F", expect: 31}
  - {call: parseInt, input: "ff", radix: 16, expect: 255}
`

const floatSuiteYAML = `name: fractions
description: fractional forms
cases:
  - {call: parseFloat, input: ".01", expect: 0.01}
  - {call: parseFloat, input: "abc", expect: NaN}
`

// failingSuiteYAML expects the hex value although radix 10 stops at "x".
const failingSuiteYAML = `name: wrong
description: redundant prefix under radix 10
cases:
  - {call: parseInt, input: "0x1F", radix: 10, expect: 31}
`

const octalSuiteCUE = `suite: octal_like: {
	description: "leading zeros stay decimal"
	cases: [
		{call: "parseInt", input: "010", expect: 10},
		{call: "parseInt", input: "17", radix: 8, expect: 15},
	]
}
`

// writeSuite writes content to dir/name and returns the path.
func writeSuite(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs cmd with args and returns what it wrote to stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
