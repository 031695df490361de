package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/lslkit/lslkit-go/syntax"
)

const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// CheckMode controls how the constant-expression checks are reported.
type CheckMode string

const (
	CheckIgnore CheckMode = "ignore"
	CheckWarn   CheckMode = "warn"
	CheckError  CheckMode = "error"
)

// Options configures lint behavior.
type Options struct {
	// WarningsAsErrors reports every warning as an error
	WarningsAsErrors bool

	// Disabled lists issue codes that are dropped
	Disabled []string

	// ConstantChecks controls the dead-loop, dead-branch and division-by-zero checks
	ConstantChecks CheckMode
}

// DefaultOptions returns the default lint options.
func DefaultOptions() Options {
	return Options{ConstantChecks: CheckWarn}
}

// ParseCheckMode parses a string into CheckMode.
func ParseCheckMode(raw string) (CheckMode, error) {
	trimmed := strings.TrimSpace(strings.ToLower(raw))
	switch trimmed {
	case "", "warn", "warning":
		return CheckWarn, nil
	case "error", "err":
		return CheckError, nil
	case "ignore", "off", "none":
		return CheckIgnore, nil
	default:
		return CheckWarn, fmt.Errorf("unknown check mode: %s", raw)
	}
}

func normalizeCheckMode(mode CheckMode) CheckMode {
	switch strings.ToLower(strings.TrimSpace(string(mode))) {
	case string(CheckError):
		return CheckError
	case string(CheckIgnore):
		return CheckIgnore
	default:
		return CheckWarn
	}
}

// Issue represents a linter finding.
type Issue struct {
	File     string
	Pos      lexer.Position
	Severity string
	Code     string
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s:%d:%d [%s] %s: %s", i.File, i.Pos.Line, i.Pos.Column, i.Code, i.Severity, i.Message)
}

func position(p syntax.Position) lexer.Position {
	return lexer.Position{
		Filename: p.Filename,
		Offset:   p.Offset,
		Line:     p.Line,
		Column:   p.Column,
	}
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Sort orders issues by file, line, column, then code.
func Sort(issues []Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		x, y := issues[a], issues[b]
		if x.File != y.File {
			return x.File < y.File
		}
		if x.Pos.Line != y.Pos.Line {
			return x.Pos.Line < y.Pos.Line
		}
		if x.Pos.Column != y.Pos.Column {
			return x.Pos.Column < y.Pos.Column
		}
		return x.Code < y.Code
	})
}

// FormatText renders issues one per line, sorted by position.
func FormatText(issues []Issue) string {
	sorted := append([]Issue(nil), issues...)
	Sort(sorted)
	var b strings.Builder
	for _, issue := range sorted {
		b.WriteString(issue.String())
		b.WriteByte('\n')
	}
	return b.String()
}
