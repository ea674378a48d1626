package main

import (
	"fmt"

	"github.com/flowforge/flowcore/pipeline"
	"github.com/flowforge/flowcore/pipelineyaml"
)

// builtinRegistry supplies the step kinds flowctl itself understands.
// Embedding programs register their own kinds through the same
// pipelineyaml.StepRegistry type; flowctl's kinds exist so `flowctl run`
// has something to execute out of the box.
func builtinRegistry() pipelineyaml.StepRegistry {
	return pipelineyaml.StepRegistry{
		"noop": func(with map[string]any) (pipeline.StepFn, error) {
			return func(r pipeline.Result) pipeline.Result { return r }, nil
		},
		"log": func(with map[string]any) (pipeline.StepFn, error) {
			msg, _ := with["message"].(string)
			return func(r pipeline.Result) pipeline.Result {
				fmt.Println(msg)
				return r
			}, nil
		},
	}
}
