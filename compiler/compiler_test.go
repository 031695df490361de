package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/lslkit/lslkit-go/internal/testutils"
	"github.com/lslkit/lslkit-go/lint"
	"github.com/lslkit/lslkit-go/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greeterScript = `
string greeting = "Hello";

default
{
    state_entry()
    {
        llOwnerSay(greeting);
    }
}
`

func newCompiler(t *testing.T, opts ...Option) *Compiler {
	t.Helper()
	c, err := NewDefaultCompiler(nil, opts...)
	require.NoError(t, err)
	return c
}

func TestCheckSource(t *testing.T) {
	c := newCompiler(t)
	unit, issues, err := c.CheckSource("greeter.lsl", greeterScript)
	require.NoError(t, err)
	require.NotNil(t, unit)
	assert.Empty(t, issues)
	assert.False(t, unit.HasErrors())
	assert.Equal(t, "greeter.lsl", unit.Filename)
	assert.NotNil(t, c.Provider())
}

func TestCheckCombinesValidatorAndTreeIssues(t *testing.T) {
	c := newCompiler(t)
	_, issues, err := c.CheckSource("loop.lsl", testutils.Handler(`
        integer unused;
        while (FALSE) llOwnerSay("never");
`))
	require.NoError(t, err)
	assert.Equal(t, []string{lint.CodeUnusedLocal, lint.CodeDeadLoop}, testutils.Codes(issues))
	for _, issue := range issues {
		assert.Equal(t, "loop.lsl", issue.File)
	}
}

func TestCheckParseError(t *testing.T) {
	c := newCompiler(t)
	unit, issues, err := c.CheckSource("broken.lsl", "default { state_entry( }")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parse error")
	assert.Nil(t, unit)
	assert.Nil(t, issues)

	_, _, err = c.Validate(nil)
	assert.ErrorIs(t, err, validator.ErrNilFile)
}

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.lsl")
	broken := filepath.Join(dir, "broken.lsl")
	require.NoError(t, os.WriteFile(good, []byte(greeterScript), 0o644))
	require.NoError(t, os.WriteFile(broken, []byte("default {"), 0o644))

	c := newCompiler(t)
	results, err := c.CheckFiles([]string{good, broken, filepath.Join(dir, "missing.lsl")})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.NotNil(t, results[0].Unit)
	assert.Empty(t, results[0].Issues)

	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].Unit)

	assert.ErrorContains(t, results[2].Err, "failed to open file")

	_, err = c.CheckFiles([]string{good, filepath.Join(dir, "notes.txt")})
	assert.ErrorContains(t, err, "unsupported file extension")
}

func TestLintOptions(t *testing.T) {
	source := testutils.Handler(`
        integer unused;
        while (FALSE) llOwnerSay("never");
`)

	c := newCompiler(t, WithLintOptions(lint.Options{
		Disabled:         []string{lint.CodeDeadLoop},
		WarningsAsErrors: true,
	}))
	_, issues, err := c.CheckSource("test.lsl", source)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, lint.CodeUnusedLocal, issues[0].Code)
	assert.Equal(t, lint.SeverityError, issues[0].Severity)

	c = newCompiler(t, WithLintOptions(lint.Options{ConstantChecks: lint.CheckIgnore}))
	_, issues, err = c.CheckSource("test.lsl", source)
	require.NoError(t, err)
	assert.Equal(t, []string{lint.CodeUnusedLocal}, testutils.Codes(issues))
}

func TestValidatorOptions(t *testing.T) {
	source := "default\n{\n    touch_start(integer total) { }\n}\n"

	_, issues, err := newCompiler(t).CheckSource("test.lsl", source)
	require.NoError(t, err)
	assert.Empty(t, issues)

	c := newCompiler(t, WithValidatorOptions(validator.WithEventParameterWarnings(true)))
	_, issues, err = c.CheckSource("test.lsl", source)
	require.NoError(t, err)
	assert.Equal(t, []string{lint.CodeUnusedParameter}, testutils.Codes(issues))
}

func TestSubsetsSelectLibrary(t *testing.T) {
	source := testutils.Handler(`osMakeNotecard("card", "contents");`)

	_, issues, err := newCompiler(t).CheckSource("test.lsl", source)
	require.NoError(t, err)
	assert.Equal(t, []string{lint.CodeUndefinedFunction}, testutils.Codes(issues))

	c, err := NewDefaultCompiler([]string{"lsl", "ossl"})
	require.NoError(t, err)
	_, issues, err = c.CheckSource("test.lsl", source)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func ExampleCompiler_CheckSource() {
	c, err := NewDefaultCompiler(nil)
	if err != nil {
		panic(err)
	}
	_, issues, err := c.CheckSource("example.lsl", `
default
{
    state_entry()
    {
        integer count;
        llSay(0);
    }
}
`)
	if err != nil {
		panic(err)
	}
	for _, issue := range issues {
		fmt.Println(issue.Pos.Line, issue.Severity, issue.Code)
	}
	// Output:
	// 6 warning unused-local
	// 7 error too-few-arguments
}
