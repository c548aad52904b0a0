// Package corpora runs table tests whose table lives in a testdata
// directory: every input file is a case, and each expected output sits
// next to it as <input>.<output extension>.
package corpora

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// Corpus describes one directory of cases.
type Corpus struct {
	// Root is the testdata directory, relative to the test file calling Run.
	Root string

	// Refresh names an environment variable holding a glob. Cases whose
	// path matches it get their outputs rewritten instead of compared.
	Refresh string

	// Extensions lists the input file extensions without the dot.
	Extensions []string

	// Outputs are compared, in order, against the strings Test returns. A
	// missing output file means the output is expected to be empty.
	Outputs []Output

	Test func(t *testing.T, path, text string) []string
}

// Output is one expected result of a case.
type Output struct {
	Extension string
	// Compare reports a mismatch as a non-empty message. Nil compares
	// byte for byte and prints a unified diff.
	Compare Compare
}

type Compare func(got, want string) string

// Run executes every case under Root as a subtest.
func (c Corpus) Run(t *testing.T) {
	t.Helper()
	testDir := callerDir(0)
	root := filepath.Join(testDir, c.Root)

	cases, err := c.find(root)
	if err != nil {
		t.Fatalf("corpora: walk %s: %v", root, err)
	}
	if len(cases) == 0 {
		t.Fatalf("corpora: no cases with extensions %v under %s", c.Extensions, root)
	}

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if refresh != "" && !doublestar.ValidatePattern(refresh) {
			t.Fatalf("corpora: %s=%q is not a valid glob", c.Refresh, refresh)
		}
	}
	if refresh != "" {
		// A refreshing run never counts as passing.
		t.Logf("corpora: refreshing outputs matching %s=%s", c.Refresh, refresh)
		t.Fail()
	}

	for _, path := range cases {
		name, _ := filepath.Rel(testDir, path)
		name = filepath.ToSlash(name)
		t.Run(name, func(t *testing.T) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("corpora: read %s: %v", path, err)
			}
			results := c.Test(t, name, string(data))
			if len(results) != len(c.Outputs) {
				t.Fatalf("corpora: test returned %d results for %d outputs", len(results), len(c.Outputs))
			}

			rewrite := false
			if refresh != "" {
				rewrite, _ = doublestar.Match(refresh, name)
			}
			for i, out := range c.Outputs {
				outPath := path + "." + out.Extension
				if rewrite {
					if err := writeOutput(outPath, results[i]); err != nil {
						t.Errorf("corpora: %v", err)
					}
					continue
				}
				want, err := os.ReadFile(outPath)
				if err != nil && !errors.Is(err, fs.ErrNotExist) {
					t.Errorf("corpora: read %s: %v", outPath, err)
					continue
				}
				compare := out.Compare
				if compare == nil {
					compare = Diff
				}
				if msg := compare(results[i], string(want)); msg != "" {
					t.Errorf("output mismatch for %s:\n%s", outPath, msg)
				}
			}
		})
	}
}

func (c Corpus) find(root string) ([]string, error) {
	var cases []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if slices.Contains(c.Extensions, strings.TrimPrefix(filepath.Ext(p), ".")) {
			cases = append(cases, p)
		}
		return nil
	})
	return cases, err
}

func writeOutput(path, text string) error {
	if text == "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Diff is the default Compare: it returns a unified diff of want against
// got, or "" when they are equal.
func Diff(got, want string) string {
	if got == want {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("corpora: could not determine the test file's directory")
	}
	return filepath.Dir(file)
}
