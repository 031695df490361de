package lint

import (
	"os"
	"strings"
	"testing"

	"github.com/lslkit/lslkit-go/ast"
	"github.com/lslkit/lslkit-go/parser"
	"github.com/lslkit/lslkit-go/schema/library"
	"github.com/lslkit/lslkit-go/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLintDetectsDeadLoop(t *testing.T) {
	unit, _ := checkScript(t, handlerScript(`
        while (FALSE) llOwnerSay("never");
        for (; 1 > 2; ) llOwnerSay("never");
        while (TRUE) llOwnerSay("forever");
`), Options{})

	issues := CheckUnit(unit, "test.lsl", DefaultOptions())
	assert.Equal(t, 2, countIssues(issues, CodeDeadLoop))
}

func TestLintDetectsDeadBranch(t *testing.T) {
	unit, _ := checkScript(t, handlerScript(`
        if (TRUE && FALSE) llOwnerSay("never");
        if (!(2 * 3 == 6)) llOwnerSay("never");
        if (PI > 3) llOwnerSay("always");
        if (llFrand(1.0) > 2) llOwnerSay("unknown");
`), Options{})

	issues := CheckUnit(unit, "test.lsl", DefaultOptions())
	assert.Equal(t, 2, countIssues(issues, CodeDeadBranch))
}

func TestLintWrapsIntegerArithmetic(t *testing.T) {
	unit, _ := checkScript(t, handlerScript(`
        if (2147483647 + 1 < 0) llOwnerSay("wrapped");
        if (2147483647 * 2 == -2) llOwnerSay("wrapped");
        if (2147483647 + 1 > 0) llOwnerSay("never");
`), Options{})

	issues := CheckUnit(unit, "test.lsl", DefaultOptions())
	require.Equal(t, 1, countIssues(issues, CodeDeadBranch))
	for _, issue := range issues {
		if issue.Code == CodeDeadBranch {
			assert.Equal(t, 8, issue.Pos.Line)
		}
	}
}

func TestLintDetectsDivisionByZero(t *testing.T) {
	unit, _ := checkScript(t, handlerScript(`
        integer n = 10;
        n = n / 0;
        n /= (2 - 2);
        n = n % (integer)0.4;
        float f = n / 0.5;
        llOwnerSay((string)(n + f));
`), Options{})

	issues := CheckUnit(unit, "test.lsl", DefaultOptions())
	assert.Equal(t, 3, countIssues(issues, CodeDivisionByZero))
	assert.False(t, HasErrors(issues))
}

func TestConstantCheckModes(t *testing.T) {
	unit, _ := checkScript(t, handlerScript(`while (0) llOwnerSay("never");`), Options{})

	issues := CheckUnit(unit, "test.lsl", Options{ConstantChecks: CheckError})
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)

	assert.Empty(t, CheckUnit(unit, "test.lsl", Options{ConstantChecks: CheckIgnore}))
}

func TestLintDetectsInvalidKeyLiteral(t *testing.T) {
	unit, _ := checkScript(t, `
key owner = "not-a-key";

notify(key who) { llInstantMessage(who, "hi"); }

default
{
    state_entry()
    {
        key ok = "a1b2c3d4-0000-4000-8000-00000000abcd";
        key blank = "";
        key constant = NULL_KEY;
        llInstantMessage("bad", "hi");
        notify("also bad");
        llOwnerSay((key)"cast");
        llOwnerSay(owner);
        llOwnerSay(ok);
        llOwnerSay(blank);
        llOwnerSay(constant);
    }
}
`, Options{})

	issues := CheckUnit(unit, "", DefaultOptions())
	assert.Equal(t, 4, countIssues(issues, CodeInvalidKeyLiteral))
	for _, issue := range issues {
		assert.Equal(t, "test.lsl", issue.File)
	}
}

func TestCollectorFormatsValidatorDiagnostics(t *testing.T) {
	_, collector := checkScript(t, handlerScript(`
        integer unused;
        llSay(0);
        missing = 1;
`), Options{})

	issues := collector.Issues()
	require.Len(t, issues, 3)
	assert.Equal(t, CodeUnusedLocal, issues[0].Code)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, CodeTooFewArguments, issues[1].Code)
	assert.Equal(t, SeverityError, issues[1].Severity)
	assert.Equal(t, CodeUndefinedVariable, issues[2].Code)
	assert.Contains(t, issues[2].Message, `"missing"`)
	assert.True(t, collector.HasErrors())

	for i := 1; i < len(issues); i++ {
		assert.Greater(t, issues[i].Pos.Line, issues[i-1].Pos.Line)
	}

	collector.Reset()
	assert.Empty(t, collector.Issues())
}

func TestWarningsAsErrors(t *testing.T) {
	source := handlerScript(`integer unused;`)

	_, collector := checkScript(t, source, Options{})
	assert.False(t, collector.HasErrors())
	assert.Equal(t, 1, collector.Count(CodeUnusedLocal))

	_, collector = checkScript(t, source, Options{WarningsAsErrors: true})
	assert.True(t, collector.HasErrors())
	require.Len(t, collector.Issues(), 1)
	assert.Equal(t, SeverityError, collector.Issues()[0].Severity)
}

func TestDisabledCodes(t *testing.T) {
	source := handlerScript(`
        integer unused;
        while (FALSE) llOwnerSay("never");
`)
	unit, collector := checkScript(t, source, Options{Disabled: []string{CodeUnusedLocal, " " + CodeDeadLoop}})
	collector.Check(unit)
	assert.Empty(t, collector.Issues())

	unit, collector = checkScript(t, source, DefaultOptions())
	collector.Check(unit)
	assert.Equal(t, 1, collector.Count(CodeUnusedLocal))
	assert.Equal(t, 1, collector.Count(CodeDeadLoop))
}

func TestFormatText(t *testing.T) {
	issues := []Issue{
		{File: "b.lsl", Severity: SeverityWarning, Code: CodeUnusedLocal, Message: "local variable \"x\" is never used"},
		{File: "a.lsl", Severity: SeverityError, Code: CodeUndefinedVariable, Message: "variable \"y\" is not defined"},
	}
	issues[0].Pos.Line, issues[0].Pos.Column = 3, 5
	issues[1].Pos.Line, issues[1].Pos.Column = 7, 1

	text := FormatText(issues)
	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `a.lsl:7:1 [undefined-variable] error: variable "y" is not defined`, lines[0])
	assert.Equal(t, `b.lsl:3:5 [unused-local] warning: local variable "x" is never used`, lines[1])
	assert.Equal(t, "b.lsl", issues[0].File, "FormatText must not reorder its input")
}

func TestParseCheckMode(t *testing.T) {
	cases := map[string]CheckMode{
		"":        CheckWarn,
		"warn":    CheckWarn,
		"WARNING": CheckWarn,
		"error":   CheckError,
		" err ":   CheckError,
		"off":     CheckIgnore,
		"ignore":  CheckIgnore,
	}
	for raw, expected := range cases {
		mode, err := ParseCheckMode(raw)
		assert.NoError(t, err, raw)
		assert.Equal(t, expected, mode, raw)
	}

	_, err := ParseCheckMode("loud")
	assert.Error(t, err)
}

func TestOrdinal(t *testing.T) {
	assert.Equal(t, "1st", ordinal(0))
	assert.Equal(t, "2nd", ordinal(1))
	assert.Equal(t, "3rd", ordinal(2))
	assert.Equal(t, "4th", ordinal(3))
	assert.Equal(t, "11th", ordinal(10))
	assert.Equal(t, "12th", ordinal(11))
	assert.Equal(t, "22nd", ordinal(21))
}

func handlerScript(body string) string {
	return "default\n{\n    state_entry()\n    {\n" + body + "\n    }\n}\n"
}

func checkScript(t *testing.T, content string, options Options) (*ast.CompilationUnit, *Collector) {
	t.Helper()

	file, err := os.CreateTemp("", "lsl-lint-*.lsl")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(file.Name())

	if _, err := file.WriteString(content); err != nil {
		_ = file.Close()
		t.Fatalf("failed to write temp file: %v", err)
	}
	_ = file.Close()

	parsed, err := parser.New().ParseFile(file.Name())
	if err != nil {
		t.Fatalf("failed to parse file: %v", err)
	}
	parsed.Filename = "test.lsl"

	registry, err := library.NewDefaultRegistry(library.EagerFiltered)
	require.NoError(t, err)

	collector := NewCollector("test.lsl", options)
	unit, err := validator.New(registry, collector, collector).Validate(parsed)
	require.NoError(t, err)
	return unit, collector
}

func countIssues(issues []Issue, code string) int {
	n := 0
	for _, issue := range issues {
		if issue.Code == code {
			n++
		}
	}
	return n
}
