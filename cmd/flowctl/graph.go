package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowforge/flowcore/pipelineyaml"
)

var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Print a pipeline's topological and level-grouped execution order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := pipelineyaml.Load(args[0], builtinRegistry())
		if err != nil {
			return err
		}

		levels, err := p.ParallelOrder()
		if err != nil {
			return err
		}
		topo, err := p.TopologicalOrder()
		if err != nil {
			return err
		}

		if jsonFlag {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(struct {
				Levels      [][]string `json:"levels"`
				Topological []string   `json:"topological"`
			}{Levels: levels, Topological: topo})
		}

		fmt.Fprintln(cmd.OutOrStdout(), "levels:")
		for i, level := range levels {
			fmt.Fprintf(cmd.OutOrStdout(), "  %d: %v\n", i, level)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "topological order:")
		fmt.Fprintf(cmd.OutOrStdout(), "  %v\n", topo)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
