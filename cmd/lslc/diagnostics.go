package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/lslkit/lslkit-go/lint"
)

// CodeParseError marks scripts that could not be parsed
const CodeParseError = "parse-error"

// parseIssue reports a script that failed to parse. Grammar errors carry the
// position of the offending token; anything else is reported at the file.
func parseIssue(file string, err error) lint.Issue {
	issue := lint.Issue{
		File:     file,
		Severity: lint.SeverityError,
		Code:     CodeParseError,
		Message:  err.Error(),
	}
	var syntaxErr participle.Error
	if errors.As(err, &syntaxErr) {
		pos := syntaxErr.Position()
		issue.Pos = lexer.Position{Line: pos.Line, Column: pos.Column}
		issue.Message = syntaxErr.Message()
	}
	return issue
}

func writeIssues(out io.Writer, issues []lint.Issue, format string) error {
	switch strings.ToLower(format) {
	case "json":
		sorted := append([]lint.Issue{}, issues...)
		lint.Sort(sorted)
		encoded, err := json.MarshalIndent(sorted, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding issues: %w", err)
		}
		fmt.Fprintln(out, string(encoded))
	case "text", "":
		fmt.Fprint(out, lint.FormatText(issues))
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	return nil
}

// summarize counts issues by severity
func summarize(issues []lint.Issue) (errs, warns int) {
	for _, issue := range issues {
		if issue.Severity == lint.SeverityError {
			errs++
		} else {
			warns++
		}
	}
	return errs, warns
}
