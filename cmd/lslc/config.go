package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/lslkit/lslkit-go/compiler"
	"github.com/lslkit/lslkit-go/internal/librarysources"
	"github.com/lslkit/lslkit-go/lint"
	"github.com/lslkit/lslkit-go/schema/library"
	"github.com/lslkit/lslkit-go/validator"
)

type cliConfig struct {
	Library libraryConfig `yaml:"library" json:"library"`
	Lint    lintConfig    `yaml:"lint" json:"lint"`

	baseDir string
}

type libraryConfig struct {
	Files       []string                      `yaml:"files" json:"files"`
	SourcesFile string                        `yaml:"sources_file" json:"sources_file"`
	Sources     []librarysources.SourceConfig `yaml:"sources" json:"sources"`
	Mode        string                        `yaml:"mode" json:"mode"`
	Subsets     []string                      `yaml:"subsets" json:"subsets"`
	NoDefault   *bool                         `yaml:"no_default" json:"no_default"`
}

type lintConfig struct {
	WarningsAsErrors   *bool    `yaml:"warnings_as_errors" json:"warnings_as_errors"`
	FailOnWarn         *bool    `yaml:"fail_on_warn" json:"fail_on_warn"`
	Disabled           []string `yaml:"disabled" json:"disabled"`
	ConstantChecks     string   `yaml:"constant_checks" json:"constant_checks"`
	EventParameters    *bool    `yaml:"event_parameters" json:"event_parameters"`
	ConstantConditions *bool    `yaml:"constant_conditions" json:"constant_conditions"`
}

func loadConfig(path string) (*cliConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &cliConfig{baseDir: filepath.Dir(path)}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config yaml: %w", err)
		}
	}
	return cfg, nil
}

// settings is the merged view of flags and config file
type settings struct {
	verbose bool

	libraryFiles []string
	sourcesFile  string
	sources      []librarysources.SourceConfig
	mode         library.Mode
	subsets      []string
	noDefault    bool

	lint               lint.Options
	failOnWarn         bool
	eventParameters    bool
	constantConditions bool
}

func (s *settings) compilerOptions() []compiler.Option {
	return []compiler.Option{
		compiler.WithLintOptions(s.lint),
		compiler.WithValidatorOptions(
			validator.WithEventParameterWarnings(s.eventParameters),
			validator.WithConstantConditionWarnings(s.constantConditions),
		),
	}
}

// listFlag reads a string slice flag without blank entries
func listFlag(flags *pflag.FlagSet, name string) []string {
	values, _ := flags.GetStringSlice(name)
	list := make([]string, 0, len(values))
	for _, value := range values {
		list = append(list, strings.TrimSpace(value))
	}
	return slices.DeleteFunc(list, func(value string) bool { return value == "" })
}

// resolveSettings reads the flags of cmd and fills unset ones from the config file.
// Flags that were set explicitly always win.
func resolveSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Flags()
	s := &settings{
		lint:               lint.DefaultOptions(),
		constantConditions: true,
	}

	s.verbose, _ = flags.GetBool("verbose")
	s.libraryFiles = listFlag(flags, "library")
	s.sourcesFile, _ = flags.GetString("library-sources")
	s.subsets = listFlag(flags, "subsets")
	s.noDefault, _ = flags.GetBool("no-default-library")
	rawMode, _ := flags.GetString("mode")

	if flags.Lookup("warnings-as-errors") != nil {
		s.lint.WarningsAsErrors, _ = flags.GetBool("warnings-as-errors")
		s.failOnWarn, _ = flags.GetBool("fail-on-warn")
		s.lint.Disabled = listFlag(flags, "disable")
		checks, _ := flags.GetString("constant-checks")
		mode, err := lint.ParseCheckMode(checks)
		if err != nil {
			return nil, err
		}
		s.lint.ConstantChecks = mode
		s.eventParameters, _ = flags.GetBool("event-parameters")
		s.constantConditions, _ = flags.GetBool("constant-conditions")
	}

	configPath, _ := flags.GetString("config")
	if configPath != "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return nil, err
		}
		if err := applyConfig(cfg, s, &rawMode, flags.Changed); err != nil {
			return nil, err
		}
	}

	mode, err := library.ParseMode(rawMode)
	if err != nil {
		return nil, err
	}
	s.mode = mode
	return s, nil
}

func applyConfig(cfg *cliConfig, s *settings, rawMode *string, changed func(string) bool) error {
	if cfg == nil {
		return nil
	}
	resolve := func(path string) string {
		if path == "" || filepath.IsAbs(path) || cfg.baseDir == "" {
			return path
		}
		return filepath.Join(cfg.baseDir, path)
	}

	if len(cfg.Library.Files) > 0 && !changed("library") {
		s.libraryFiles = s.libraryFiles[:0]
		for _, file := range cfg.Library.Files {
			s.libraryFiles = append(s.libraryFiles, resolve(file))
		}
	}
	if cfg.Library.SourcesFile != "" && !changed("library-sources") {
		s.sourcesFile = resolve(cfg.Library.SourcesFile)
	}
	for _, source := range cfg.Library.Sources {
		if source.BaseDir == "" {
			source.BaseDir = cfg.baseDir
		}
		s.sources = append(s.sources, source)
	}
	if cfg.Library.Mode != "" && !changed("mode") {
		*rawMode = cfg.Library.Mode
	}
	if len(cfg.Library.Subsets) > 0 && !changed("subsets") {
		s.subsets = append([]string(nil), cfg.Library.Subsets...)
	}
	if cfg.Library.NoDefault != nil && !changed("no-default-library") {
		s.noDefault = *cfg.Library.NoDefault
	}

	if cfg.Lint.WarningsAsErrors != nil && !changed("warnings-as-errors") {
		s.lint.WarningsAsErrors = *cfg.Lint.WarningsAsErrors
	}
	if cfg.Lint.FailOnWarn != nil && !changed("fail-on-warn") {
		s.failOnWarn = *cfg.Lint.FailOnWarn
	}
	if len(cfg.Lint.Disabled) > 0 && !changed("disable") {
		s.lint.Disabled = append([]string(nil), cfg.Lint.Disabled...)
	}
	if cfg.Lint.ConstantChecks != "" && !changed("constant-checks") {
		mode, err := lint.ParseCheckMode(cfg.Lint.ConstantChecks)
		if err != nil {
			return fmt.Errorf("lint.constant_checks: %w", err)
		}
		s.lint.ConstantChecks = mode
	}
	if cfg.Lint.EventParameters != nil && !changed("event-parameters") {
		s.eventParameters = *cfg.Lint.EventParameters
	}
	if cfg.Lint.ConstantConditions != nil && !changed("constant-conditions") {
		s.constantConditions = *cfg.Lint.ConstantConditions
	}
	return nil
}

// buildRegistry creates the library registry described by s: the embedded data,
// then library files, then library sources.
func buildRegistry(ctx context.Context, s *settings) (*library.Registry, error) {
	var registry *library.Registry
	if s.noDefault {
		subsets := s.subsets
		if len(subsets) == 0 {
			subsets = []string{library.DefaultSubset}
		}
		registry = library.NewRegistry(s.mode, subsets...)
	} else {
		var err error
		registry, err = library.NewDefaultRegistry(s.mode, s.subsets...)
		if err != nil {
			return nil, err
		}
	}

	for _, file := range s.libraryFiles {
		if s.verbose {
			fmt.Printf("Loading library file %s...\n", file)
		}
		if err := library.LoadFile(file, registry); err != nil {
			return nil, err
		}
	}

	sources := append([]librarysources.SourceConfig(nil), s.sources...)
	if s.sourcesFile != "" {
		fromFile, err := librarysources.LoadFromFile(s.sourcesFile)
		if err != nil {
			return nil, err
		}
		sources = append(sources, fromFile...)
	}
	if err := librarysources.Apply(ctx, registry, sources, s.verbose); err != nil {
		return nil, err
	}

	if s.verbose {
		functions, events, constants := registry.Count()
		fmt.Printf("Library ready: %d functions, %d events, %d constants (subsets: %s)\n",
			functions, events, constants, strings.Join(registry.ActiveSubsets(), ", "))
	}
	return registry, nil
}
