package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/flowforge/flowcore/pipelineyaml"
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Render a pipeline definition's step descriptions as Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := pipelineyaml.LoadDefinition(args[0])
		if err != nil {
			return err
		}

		var md strings.Builder
		fmt.Fprintf(&md, "# %s\n\n", def.Name)
		for _, st := range def.Steps {
			fmt.Fprintf(&md, "## %s (`%s`)\n\n", st.ID, st.Kind)
			if st.Optional {
				md.WriteString("_optional_\n\n")
			}
			if len(st.DependsOn) > 0 {
				fmt.Fprintf(&md, "depends on: %s\n\n", strings.Join(st.DependsOn, ", "))
			}
			if st.Description != "" {
				md.WriteString(st.Description)
				md.WriteString("\n\n")
			}
		}
		for _, grp := range def.ParallelGroups {
			fmt.Fprintf(&md, "## parallel group: %s\n\nmembers: %s\n\n", grp.Name, strings.Join(grp.Members, ", "))
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return err
		}
		out, err := renderer.Render(md.String())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
