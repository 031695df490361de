package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lslkit/lslkit-go/schema/library"
)

// libraryCmd groups the library inspection commands
var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Inspect the library of built-in symbols",
	Long: `Inspect the functions, events and constants visible to scripts.

Only symbols of the active subsets are listed; select them with --subsets.`,
}

var librarySubsetsCmd = &cobra.Command{
	Use:   "subsets",
	Short: "List the known subsets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, format, err := libraryRegistry(cmd)
		if err != nil {
			return err
		}
		return writeSubsets(cmd.OutOrStdout(), registry, format)
	},
}

var libraryFunctionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List the visible library functions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, format, err := libraryRegistry(cmd)
		if err != nil {
			return err
		}
		functions := registry.Functions()
		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), functions)
		}
		for _, fn := range functions {
			fmt.Fprintln(cmd.OutOrStdout(), describeLine(fn.SignatureString(), &fn.Signature))
		}
		return nil
	},
}

var libraryEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the visible event handlers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, format, err := libraryRegistry(cmd)
		if err != nil {
			return err
		}
		events := registry.Events()
		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), events)
		}
		for _, event := range events {
			fmt.Fprintln(cmd.OutOrStdout(), describeLine(event.SignatureString(), &event.Signature))
		}
		return nil
	},
}

var libraryConstantsCmd = &cobra.Command{
	Use:   "constants",
	Short: "List the visible library constants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, format, err := libraryRegistry(cmd)
		if err != nil {
			return err
		}
		constants := registry.Constants()
		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), constants)
		}
		for _, constant := range constants {
			fmt.Fprintln(cmd.OutOrStdout(), describeLine(constant.SignatureString(), &constant.Signature))
		}
		return nil
	},
}

var libraryDescribeCmd = &cobra.Command{
	Use:   "describe NAME",
	Short: "Show every visible symbol with the given name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, _, err := libraryRegistry(cmd)
		if err != nil {
			return err
		}
		return describeSymbol(cmd.OutOrStdout(), registry, args[0])
	},
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(librarySubsetsCmd)
	libraryCmd.AddCommand(libraryFunctionsCmd)
	libraryCmd.AddCommand(libraryEventsCmd)
	libraryCmd.AddCommand(libraryConstantsCmd)
	libraryCmd.AddCommand(libraryDescribeCmd)

	libraryCmd.PersistentFlags().String("format", "text", "Output format: text or json")
}

func libraryRegistry(cmd *cobra.Command) (*library.Registry, string, error) {
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "text" && format != "json" {
		return nil, "", fmt.Errorf("unsupported format: %s", format)
	}
	s, err := resolveSettings(cmd)
	if err != nil {
		return nil, "", err
	}
	registry, err := buildRegistry(cmd.Context(), s)
	if err != nil {
		return nil, "", err
	}
	return registry, format, nil
}

func writeJSON(out io.Writer, value interface{}) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Fprintln(out, string(encoded))
	return nil
}

func writeSubsets(out io.Writer, registry *library.Registry, format string) error {
	descriptions := registry.SubsetDescriptions()
	active := make(map[string]bool)
	for _, subset := range registry.ActiveSubsets() {
		active[subset] = true
	}

	if format == "json" {
		type subsetInfo struct {
			library.SubsetDescription
			Active bool `json:"active"`
		}
		infos := make([]subsetInfo, 0, len(descriptions))
		for _, desc := range descriptions {
			infos = append(infos, subsetInfo{SubsetDescription: *desc, Active: active[desc.Subset]})
		}
		return writeJSON(out, infos)
	}

	for _, desc := range descriptions {
		marker := " "
		if active[desc.Subset] {
			marker = "*"
		}
		line := fmt.Sprintf("%s %s", marker, desc.Subset)
		if desc.FriendlyName != "" {
			line += " (" + desc.FriendlyName + ")"
		}
		if desc.Description != "" {
			line += ": " + desc.Description
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func describeLine(prototype string, sig *library.Signature) string {
	line := prototype
	if sig.Deprecated {
		line += " [deprecated]"
	}
	return line + "  {" + strings.Join(sig.Subsets, ", ") + "}"
}

func describeSymbol(out io.Writer, registry *library.Registry, name string) error {
	found := false
	show := func(kind, prototype string, sig *library.Signature) {
		found = true
		fmt.Fprintf(out, "%s %s\n", kind, prototype)
		fmt.Fprintf(out, "  subsets: %s\n", strings.Join(sig.Subsets, ", "))
		if sig.Deprecated {
			fmt.Fprintln(out, "  deprecated")
		}
		if sig.DocumentationString != "" {
			fmt.Fprintf(out, "  %s\n", sig.DocumentationString)
		}
		keys := make([]string, 0, len(sig.Properties))
		for key := range sig.Properties {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(out, "  %s: %s\n", key, sig.Properties[key])
		}
	}

	functions, err := registry.LibraryFunctionSignatures(name)
	if err != nil {
		return err
	}
	for _, fn := range functions {
		show("function", fn.SignatureString(), &fn.Signature)
	}
	event, err := registry.EventHandlerSignature(name)
	if err != nil {
		return err
	}
	if event != nil {
		show("event", event.SignatureString(), &event.Signature)
	}
	constant, err := registry.LibraryConstantSignature(name)
	if err != nil {
		return err
	}
	if constant != nil {
		show("constant", constant.SignatureString(), &constant.Signature)
	}

	if !found {
		return fmt.Errorf("no visible library symbol named %s", name)
	}
	return nil
}
