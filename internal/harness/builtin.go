package harness

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/roach88/numcheck/internal/ir"
)

// BuiltinName is the suite that runs when no suite files are given.
const BuiltinName = "parse_numbers"

//go:embed suites/*.yaml
var builtinFS embed.FS

// Builtin returns the embedded parse_numbers suite.
func Builtin() *ir.SuiteSpec {
	s, err := BuiltinSuite(BuiltinName)
	if err != nil {
		// The embedded file is part of the binary.
		panic(err)
	}
	return s
}

// BuiltinSuite returns an embedded suite by name.
func BuiltinSuite(name string) (*ir.SuiteSpec, error) {
	data, err := builtinFS.ReadFile(path.Join("suites", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("no builtin suite %q", name)
	}
	return ParseSuiteYAML(data)
}

// BuiltinNames lists the embedded suites, sorted.
func BuiltinNames() []string {
	entries, err := fs.ReadDir(builtinFS, "suites")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
