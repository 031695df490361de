package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lslkit/lslkit-go/parser"
)

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Print the script grammar in EBNF form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), parser.New().EBNF())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(grammarCmd)
}
