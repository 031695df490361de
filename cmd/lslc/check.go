package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lslkit/lslkit-go/compiler"
	"github.com/lslkit/lslkit-go/lint"
)

// checkCmd validates scripts and reports their issues
var checkCmd = &cobra.Command{
	Use:   "check [files or directories...]",
	Short: "Validate LSL scripts",
	Long: `Validate LSL scripts and report every error and warning.

Directories are searched recursively for .lsl files. The command fails when any
error is reported, or on any issue at all with --fail-on-warn.

Examples:
  lslc check ./scripts
  lslc check --format json --disable unused-global main.lsl
  lslc check --config lslc.yaml --fail-on-warn ./scripts`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		return runCheck(cmd, s, args, format)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("format", "text", "Output format: text or json")
	addLintFlags(checkCmd)
}

func addLintFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("fail-on-warn", false, "Exit non-zero when warnings are reported")
	cmd.Flags().Bool("warnings-as-errors", false, "Report every warning as an error")
	cmd.Flags().StringSlice("disable", nil, "Issue codes to suppress")
	cmd.Flags().String("constant-checks", "warn", "Constant expression checks: warn, error or ignore")
	cmd.Flags().Bool("event-parameters", false, "Warn about unused event handler parameters")
	cmd.Flags().Bool("constant-conditions", true, "Warn about constant if conditions")
}

func runCheck(cmd *cobra.Command, s *settings, args []string, format string) error {
	files, err := collectScripts(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .lsl files found")
	}
	if s.verbose {
		fmt.Printf("Processing %d file(s)\n", len(files))
	}

	registry, err := buildRegistry(cmd.Context(), s)
	if err != nil {
		return err
	}
	comp := compiler.NewCompiler(registry, s.compilerOptions()...)

	issues, err := checkFiles(comp, files)
	if err != nil {
		return err
	}
	if err := writeIssues(cmd.OutOrStdout(), issues, format); err != nil {
		return err
	}
	return checkOutcome(cmd.ErrOrStderr(), issues, len(files), s.failOnWarn)
}

// checkFiles runs the compiler over files and folds parse failures into issues
func checkFiles(comp *compiler.Compiler, files []string) ([]lint.Issue, error) {
	results, err := comp.CheckFiles(files)
	if err != nil {
		return nil, err
	}
	issues := make([]lint.Issue, 0)
	for _, result := range results {
		if result.Err != nil {
			issues = append(issues, parseIssue(result.Path, result.Err))
			continue
		}
		issues = append(issues, result.Issues...)
	}
	return issues, nil
}

func checkOutcome(out io.Writer, issues []lint.Issue, fileCount int, failOnWarn bool) error {
	errs, warns := summarize(issues)
	if errs > 0 || warns > 0 {
		fmt.Fprintf(out, "%d file(s) checked: %d error(s), %d warning(s)\n", fileCount, errs, warns)
	}
	if errs > 0 {
		return fmt.Errorf("validation failed with %d error(s)", errs)
	}
	if failOnWarn && warns > 0 {
		return fmt.Errorf("validation failed with %d warning(s)", warns)
	}
	return nil
}

// collectScripts expands directories into the .lsl files below them. Explicit
// file arguments are kept whatever their extension so the compiler can reject them.
func collectScripts(args []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.EqualFold(filepath.Ext(path), compiler.ScriptExtension) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", arg, err)
		}
		sort.Strings(found)
		for _, path := range found {
			add(path)
		}
	}
	return files, nil
}
