package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/lslkit/lslkit-go/compiler"
	"github.com/lslkit/lslkit-go/schema/library"
)

// watchCmd re-checks scripts whenever they or the library files change
var watchCmd = &cobra.Command{
	Use:   "watch [files or directories...]",
	Short: "Re-check scripts when they change",
	Long: `Watch scripts and library data files and re-check on every change.

A changed script is checked on its own. A changed library file reloads the
library into a fresh live-filtered registry and re-checks every script.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		debounce, _ := cmd.Flags().GetDuration("debounce")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		w, err := newScriptWatcher(ctx, s, args, cmd.OutOrStdout(), format)
		if err != nil {
			return err
		}
		w.debounce = debounce
		return w.run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("format", "text", "Output format: text or json")
	watchCmd.Flags().Duration("debounce", 200*time.Millisecond, "Delay before re-checking after a change")
	addLintFlags(watchCmd)
}

type scriptWatcher struct {
	settings *settings
	format   string
	out      io.Writer
	targets  []string
	libFiles map[string]bool
	debounce time.Duration

	comp    *compiler.Compiler
	watcher *fsnotify.Watcher
}

func newScriptWatcher(ctx context.Context, s *settings, targets []string, out io.Writer, format string) (*scriptWatcher, error) {
	s.mode = library.LiveFiltered
	w := &scriptWatcher{
		settings: s,
		format:   format,
		out:      out,
		targets:  targets,
		libFiles: make(map[string]bool),
		debounce: 200 * time.Millisecond,
	}
	for _, file := range s.libraryFiles {
		w.libFiles[filepath.Clean(file)] = true
	}
	if err := w.reload(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// reload rebuilds the registry from scratch
func (w *scriptWatcher) reload(ctx context.Context) error {
	registry, err := buildRegistry(ctx, w.settings)
	if err != nil {
		return err
	}
	w.comp = compiler.NewCompiler(registry, w.settings.compilerOptions()...)
	return nil
}

// watchDirs lists the directories holding targets and library files
func (w *scriptWatcher) watchDirs() (map[string]bool, error) {
	dirs := make(map[string]bool)
	for _, target := range w.targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", target, err)
		}
		if !info.IsDir() {
			dirs[filepath.Dir(target)] = true
			continue
		}
		err = filepath.WalkDir(target, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != target && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				dirs[path] = true
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", target, err)
		}
	}
	for file := range w.libFiles {
		dirs[filepath.Dir(file)] = true
	}
	return dirs, nil
}

func (w *scriptWatcher) start() error {
	dirs, err := w.watchDirs()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.watcher = watcher

	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			log.Printf("Warning: failed to watch %s: %v", dir, err)
		}
	}
	log.Printf("Watching %d director(ies) for changes", len(dirs))
	return nil
}

func (w *scriptWatcher) close() error {
	if w.watcher == nil {
		return nil
	}
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close file watcher: %w", err)
	}
	return nil
}

func (w *scriptWatcher) run(ctx context.Context) error {
	if err := w.start(); err != nil {
		return err
	}
	defer w.close()

	w.checkAll()

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			log.Printf("File watcher stopped")
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			pending[filepath.Clean(event.Name)] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Printf("File watcher error: %v", err)
		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			pending = make(map[string]bool)
			w.process(ctx, changed)
		}
	}
}

func (w *scriptWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	name := filepath.Clean(event.Name)
	return w.libFiles[name] || strings.EqualFold(filepath.Ext(name), compiler.ScriptExtension)
}

// process handles one batch of changed paths
func (w *scriptWatcher) process(ctx context.Context, changed []string) {
	sort.Strings(changed)
	for _, path := range changed {
		if w.libFiles[path] {
			log.Printf("Library file %s changed, reloading", path)
			if err := w.reload(ctx); err != nil {
				log.Printf("Reloading library failed: %v", err)
				return
			}
			w.checkAll()
			return
		}
	}

	var scripts []string
	for _, path := range changed {
		if _, err := os.Stat(path); err != nil {
			log.Printf("Script %s removed", path)
			continue
		}
		scripts = append(scripts, path)
	}
	if len(scripts) > 0 {
		w.check(scripts)
	}
}

func (w *scriptWatcher) checkAll() {
	files, err := collectScripts(w.targets)
	if err != nil {
		log.Printf("Collecting scripts failed: %v", err)
		return
	}
	w.check(files)
}

func (w *scriptWatcher) check(files []string) {
	started := time.Now()
	issues, err := checkFiles(w.comp, files)
	if err != nil {
		log.Printf("Check failed: %v", err)
		return
	}
	if err := writeIssues(w.out, issues, w.format); err != nil {
		log.Printf("Writing issues failed: %v", err)
		return
	}
	errs, warns := summarize(issues)
	log.Printf("Checked %d file(s) in %s: %d error(s), %d warning(s)", len(files), time.Since(started).Round(time.Millisecond), errs, warns)
}
