package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List or invoke registered widget tools",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(nil)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, t := range a.tools.List() {
			fmt.Fprintf(tw, "%s\t%s\n", t.Name, t.Description)
		}
		return tw.Flush()
	},
}

var toolsInvokeCmd = &cobra.Command{
	Use:   "invoke <tool> [json]",
	Short: "Invoke a tool with JSON input (argument or stdin)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(nil)
		if err != nil {
			return err
		}

		var input []byte
		if len(args) == 2 {
			input = []byte(args[1])
		} else {
			if input, err = io.ReadAll(os.Stdin); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
		}

		out, err := a.tools.Invoke(cmd.Context(), args[0], input)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	toolsCmd.AddCommand(toolsListCmd, toolsInvokeCmd)
}
