package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command; subcommands register themselves in init
var rootCmd = &cobra.Command{
	Use:   "lslc",
	Short: "Check LSL scripts against a library of built-in symbols",
	Long: `lslc validates Linden Scripting Language scripts.

Scripts are parsed, type checked and resolved against a library of built-in
functions, events and constants. The library is grouped into subsets such as
"lsl" and "ossl"; only the active subsets are visible to scripts.

Examples:
  # Check every script below a directory
  lslc check ./scripts

  # Check with OpenSimulator extensions and JSON output
  lslc check --subsets lsl,ossl --format json main.lsl

  # Inspect the library
  lslc library functions --subsets ossl
  lslc library describe llSetTimerEvent`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to an lslc config file (YAML or JSON)")
	flags.Bool("verbose", false, "Show detailed output")
	flags.StringSlice("library", nil, "Extra library data files (comma-separated or repeated)")
	flags.String("library-sources", "", "Library sources file (YAML or JSON)")
	flags.StringSlice("subsets", nil, "Active library subsets (default lsl)")
	flags.String("mode", "", "Registry mode: eager or live")
	flags.Bool("no-default-library", false, "Do not load the embedded library")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
