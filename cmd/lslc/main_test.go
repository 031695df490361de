package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lslkit/lslkit-go/lint"
	"github.com/lslkit/lslkit-go/parser"
	"github.com/lslkit/lslkit-go/schema/library"
)

const cleanScript = `
default
{
    state_entry()
    {
        llOwnerSay("ready");
    }
}
`

const unusedLocalScript = `
default
{
    state_entry()
    {
        integer spare;
    }
}
`

const extensionLibrary = `
subsets:
  - name: ext
    friendly_name: Extension
functions:
  - name: extPing
    subsets: [ext]
    return: integer
    params: [{type: string, name: target}]
`

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if list, ok := f.Value.(pflag.SliceValue); ok {
			_ = list.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestListFlag(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringSlice("subsets", nil, "")
	require.NoError(t, flags.Parse([]string{"--subsets", " lsl, ,ossl ,", "--subsets", "ext"}))
	assert.Equal(t, []string{"lsl", "ossl", "ext"}, listFlag(flags, "subsets"))
	assert.Empty(t, listFlag(flags, "missing"))
}

func TestParseIssue(t *testing.T) {
	_, err := parser.New().ParseString("broken.lsl", "default\n{\n    state_entry( {\n}\n")
	require.Error(t, err)
	issue := parseIssue("broken.lsl", err)
	assert.Equal(t, CodeParseError, issue.Code)
	assert.Equal(t, lint.SeverityError, issue.Severity)
	assert.Equal(t, 3, issue.Pos.Line)
	assert.Positive(t, issue.Pos.Column)
	assert.NotContains(t, issue.Message, "broken.lsl:3")

	issue = parseIssue("gone.lsl", errors.New("failed to open file: no such file"))
	assert.Zero(t, issue.Pos.Line)
	assert.Equal(t, "failed to open file: no such file", issue.Message)
}

func TestCollectScripts(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.lsl"), cleanScript)
	b := writeFile(t, filepath.Join(dir, "nested", "b.lsl"), cleanScript)
	writeFile(t, filepath.Join(dir, ".cache", "c.lsl"), cleanScript)
	notes := writeFile(t, filepath.Join(dir, "notes.txt"), "notes")

	files, err := collectScripts([]string{dir, a})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)

	files, err = collectScripts([]string{notes})
	require.NoError(t, err)
	assert.Equal(t, []string{notes}, files)

	_, err = collectScripts([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "clean.lsl"), cleanScript)

	stdout, _, err := execute(t, "check", dir)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	broken := writeFile(t, filepath.Join(dir, "broken.lsl"), "default\n{\n    state_entry() { llSay(0); }\n}\n")
	stdout, stderr, err := execute(t, "check", dir)
	assert.Error(t, err)
	assert.Contains(t, stdout, "[too-few-arguments]")
	assert.Contains(t, stdout, broken)
	assert.Contains(t, stderr, "1 error(s)")

	stdout, _, err = execute(t, "check", "--format", "json", broken)
	assert.Error(t, err)
	var issues []lint.Issue
	require.NoError(t, json.Unmarshal([]byte(stdout), &issues))
	require.Len(t, issues, 1)
	assert.Equal(t, lint.CodeTooFewArguments, issues[0].Code)

	_, _, err = execute(t, "check", "--format", "xml", broken)
	assert.ErrorContains(t, err, "unsupported format")

	unparsable := writeFile(t, filepath.Join(t.TempDir(), "bad.lsl"), "default {")
	stdout, _, err = execute(t, "check", unparsable)
	assert.Error(t, err)
	assert.Contains(t, stdout, "["+CodeParseError+"]")
}

func TestCheckFailOnWarn(t *testing.T) {
	script := writeFile(t, filepath.Join(t.TempDir(), "spare.lsl"), unusedLocalScript)

	stdout, _, err := execute(t, "check", script)
	require.NoError(t, err)
	assert.Contains(t, stdout, "[unused-local]")

	_, _, err = execute(t, "check", "--fail-on-warn", script)
	assert.ErrorContains(t, err, "1 warning(s)")

	_, _, err = execute(t, "check", "--warnings-as-errors", script)
	assert.ErrorContains(t, err, "1 error(s)")

	stdout, _, err = execute(t, "check", "--fail-on-warn", "--disable", lint.CodeUnusedLocal, script)
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestCheckConfigFile(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, filepath.Join(dir, "ext.lsl"), `
default
{
    state_entry()
    {
        integer spare;
        llOwnerSay((string)extPing("host"));
    }
}
`)
	writeFile(t, filepath.Join(dir, "lib", "ext.yaml"), extensionLibrary)
	config := writeFile(t, filepath.Join(dir, "lslc.yaml"), `
library:
  files: [lib/ext.yaml]
  subsets: [lsl, ext]
lint:
  fail_on_warn: true
`)

	_, _, err := execute(t, "check", "--config", config, script)
	assert.ErrorContains(t, err, "1 warning(s)")

	stdout, _, err := execute(t, "check", "--config", config, "--fail-on-warn=false", script)
	require.NoError(t, err)
	assert.Contains(t, stdout, "[unused-local]")
	assert.NotContains(t, stdout, "undefined-function")

	stdout, _, err = execute(t, "check", "--config", config, "--subsets", "lsl", "--fail-on-warn=false", script)
	assert.Error(t, err)
	assert.Contains(t, stdout, "[undefined-function]")

	_, _, err = execute(t, "check", "--config", filepath.Join(dir, "missing.yaml"), script)
	assert.ErrorContains(t, err, "reading config")
}

func TestLoadConfigJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "lslc.json"), `{
  "library": {"mode": "live", "sources": [{"type": "dir", "config": {"path": "lib"}}]},
  "lint": {"disabled": ["dead-code"], "constant_checks": "error"}
}`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "live", cfg.Library.Mode)
	require.Len(t, cfg.Library.Sources, 1)
	assert.Equal(t, []string{"dead-code"}, cfg.Lint.Disabled)

	s := &settings{lint: lint.DefaultOptions()}
	mode := ""
	require.NoError(t, applyConfig(cfg, s, &mode, func(string) bool { return false }))
	assert.Equal(t, "live", mode)
	assert.Equal(t, lint.CheckError, s.lint.ConstantChecks)
	require.Len(t, s.sources, 1)
	assert.Equal(t, dir, s.sources[0].BaseDir)

	cfg.Lint.ConstantChecks = "loud"
	assert.Error(t, applyConfig(cfg, s, &mode, func(string) bool { return false }))

	_, err = loadConfig(writeFile(t, filepath.Join(dir, "bad.yaml"), "library: [unclosed"))
	assert.ErrorContains(t, err, "parsing config yaml")
}

func TestLibraryCommands(t *testing.T) {
	stdout, _, err := execute(t, "library", "subsets")
	require.NoError(t, err)
	assert.Contains(t, stdout, "* lsl (Linden Scripting Language)")

	stdout, _, err = execute(t, "library", "functions", "--subsets", "lsl,ossl")
	require.NoError(t, err)
	assert.Contains(t, stdout, "osMakeNotecard(string notecardName, string contents)")
	assert.Contains(t, stdout, "[deprecated]")

	stdout, _, err = execute(t, "library", "functions")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "osMakeNotecard")

	stdout, _, err = execute(t, "library", "events")
	require.NoError(t, err)
	assert.Contains(t, stdout, "touch_start(")

	stdout, _, err = execute(t, "library", "constants", "--format", "json")
	require.NoError(t, err)
	var constants []library.ConstantSignature
	require.NoError(t, json.Unmarshal([]byte(stdout), &constants))
	assert.NotEmpty(t, constants)

	stdout, _, err = execute(t, "library", "describe", "llSound")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "function "))
	assert.Contains(t, stdout, "deprecated")

	_, _, err = execute(t, "library", "describe", "llNothing")
	assert.ErrorContains(t, err, "no visible library symbol")

	_, _, err = execute(t, "library", "functions", "--mode", "sideways")
	assert.ErrorContains(t, err, "unknown registry mode")
}

func TestWatcherReloadsLibrary(t *testing.T) {
	dir := t.TempDir()
	libPath := writeFile(t, filepath.Join(dir, "ext.yaml"), extensionLibrary)
	script := writeFile(t, filepath.Join(dir, "ping.lsl"), `
default
{
    state_entry()
    {
        llOwnerSay((string)extPong("host"));
    }
}
`)

	s := &settings{
		lint:               lint.DefaultOptions(),
		constantConditions: true,
		subsets:            []string{"lsl", "ext"},
		libraryFiles:       []string{libPath},
	}
	var out bytes.Buffer
	ctx := context.Background()
	w, err := newScriptWatcher(ctx, s, []string{dir}, &out, "json")
	require.NoError(t, err)
	assert.Equal(t, library.LiveFiltered, s.mode)

	w.checkAll()
	var issues []lint.Issue
	require.NoError(t, json.Unmarshal(out.Bytes(), &issues))
	require.Len(t, issues, 1)
	assert.Equal(t, lint.CodeUndefinedFunction, issues[0].Code)

	writeFile(t, libPath, strings.Replace(extensionLibrary, "extPing", "extPong", 1))
	out.Reset()
	w.process(ctx, []string{filepath.Clean(libPath)})
	issues = nil
	require.NoError(t, json.Unmarshal(out.Bytes(), &issues))
	assert.Empty(t, issues)

	writeFile(t, script, unusedLocalScript)
	out.Reset()
	w.process(ctx, []string{filepath.Clean(script), filepath.Join(dir, "gone.lsl")})
	issues = nil
	require.NoError(t, json.Unmarshal(out.Bytes(), &issues))
	require.Len(t, issues, 1)
	assert.Equal(t, lint.CodeUnusedLocal, issues[0].Code)

	require.NoError(t, w.start())
	assert.NoError(t, w.close())
}

func TestWatcherStartMissingTarget(t *testing.T) {
	dir := t.TempDir()
	s := &settings{
		lint:    lint.DefaultOptions(),
		subsets: []string{"lsl"},
	}
	var out bytes.Buffer
	w, err := newScriptWatcher(context.Background(), s, []string{filepath.Join(dir, "missing.lsl")}, &out, "text")
	require.NoError(t, err)

	err = w.start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.lsl")
	assert.Nil(t, w.watcher, "no watcher is left open when the scan fails")
	assert.NoError(t, w.close())
}
