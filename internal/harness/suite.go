package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/numcheck/internal/compiler"
	"github.com/roach88/numcheck/internal/ir"
)

// LoadSuite reads a suite file that defines exactly one suite.
// .yaml and .yml files hold a single suite document; .cue files may
// define several under the "suite" field, in which case LoadSuite fails.
func LoadSuite(path string) (*ir.SuiteSpec, error) {
	suites, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if len(suites) != 1 {
		return nil, fmt.Errorf("%s: expected exactly one suite, found %d", path, len(suites))
	}
	return suites[0], nil
}

// LoadFile reads every suite defined in path.
func LoadFile(path string) ([]*ir.SuiteSpec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read suite file: %w", err)
		}
		suite, err := ParseSuiteYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return []*ir.SuiteSpec{suite}, nil
	case ".cue":
		suites, errs := compiler.CompileFile(path)
		if len(errs) > 0 {
			return nil, errors.Join(errs...)
		}
		return suites, nil
	default:
		return nil, fmt.Errorf("%s: unsupported suite file extension %q", path, filepath.Ext(path))
	}
}

// ParseSuiteYAML decodes a YAML suite document.
// Returns an error if the document fails the schema, contains unknown
// fields (typos), or fails suite validation.
func ParseSuiteYAML(data []byte) (*ir.SuiteSpec, error) {
	if err := ValidateDocument(data); err != nil {
		return nil, err
	}

	var suite ir.SuiteSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&suite); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if errs := suite.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid suite: %w", errs[0])
	}
	return &suite, nil
}

// FindSuiteFiles walks dir and returns the suite files in it, sorted.
// Hidden files and directories, and golden directories, are skipped.
func FindSuiteFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || name == "golden") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml", ".cue":
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}
