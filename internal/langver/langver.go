// Package langver checks language-version directives in Lumen sources.
//
// A source file may pin the language version it was written for with a
// directive comment among its leading lines:
//
//	//! lumen >= 0.4, < 2.0
//
// The constraint uses standard semantic-version range syntax. Tools
// check it before parsing so that a file written for a newer language
// fails with one clear message instead of a page of syntax errors.
package langver

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is the language version this toolchain implements.
const Version = "0.4.0"

const directivePrefix = "//! lumen"

var current = semver.MustParse(Version)

// Directive is a language-version requirement found in a source file.
type Directive struct {
	Constraint string
	Line       int
}

// Find scans the leading lines of src for a version directive. The
// scan stops at the first line that is neither blank nor a comment.
// It returns nil when no directive is present.
func Find(src string) *Directive {
	for i, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
		case strings.HasPrefix(trimmed, directivePrefix):
			return &Directive{
				Constraint: strings.TrimSpace(trimmed[len(directivePrefix):]),
				Line:       i + 1,
			}
		case strings.HasPrefix(trimmed, "//"):
		default:
			return nil
		}
	}
	return nil
}

// Check validates the running language version against the directive.
func (d *Directive) Check() error {
	if d.Constraint == "" {
		return fmt.Errorf("line %d: version directive has no constraint", d.Line)
	}
	c, err := semver.NewConstraint(d.Constraint)
	if err != nil {
		return fmt.Errorf("line %d: invalid version constraint %q: %w", d.Line, d.Constraint, err)
	}
	if ok, reasons := c.Validate(current); !ok {
		return fmt.Errorf("line %d: language version %s does not satisfy %q: %v",
			d.Line, Version, d.Constraint, reasons[0])
	}
	return nil
}

// Verify finds and checks the directive of src in one step. Sources
// without a directive always pass.
func Verify(src string) error {
	d := Find(src)
	if d == nil {
		return nil
	}
	return d.Check()
}
