package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"danfe/pkg/compiler"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <path>",
		Short: "Print the expression trees of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			prog, err := compiler.Parse(src)
			if err != nil {
				return located("parse error", args[0], err)
			}
			fmt.Fprint(cmd.OutOrStdout(), prog)
			return nil
		},
	}
}
