package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowforge/flowcore/pipeline"
	"github.com/flowforge/flowcore/pipelineyaml"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Load a pipeline definition and report structural problems",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := pipelineyaml.Load(args[0], builtinRegistry())
		if err != nil {
			return reportValidationFailure(err)
		}

		findings := p.Graph().Validate()
		if jsonFlag {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(findings)
		}
		if len(findings) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "ok: no structural problems found")
			return nil
		}
		for _, f := range findings {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", f.Type, f.Message)
		}
		return fmt.Errorf("%d structural problem(s) found", len(findings))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// reportValidationFailure surfaces the engine-level errors (CyclicDependency,
// ReservedName, DuplicateName, ...) that Build/Load raise synchronously,
// distinct from the non-fatal findings DependencyGraph.Validate collects.
func reportValidationFailure(err error) error {
	switch e := err.(type) {
	case *pipeline.CyclicDependency:
		return fmt.Errorf("cyclic dependency: %s", e.Error())
	default:
		return err
	}
}
