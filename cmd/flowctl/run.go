package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/flowforge/flowcore/internal/dashboard"
	"github.com/flowforge/flowcore/middleware/logging"
	"github.com/flowforge/flowcore/middleware/progress"
	"github.com/flowforge/flowcore/pipeline"
	"github.com/flowforge/flowcore/pipelineyaml"
)

var (
	runVars  []string
	runWatch bool
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a pipeline definition",
	Long: `Run loads a pipeline definition and calls it once with an initial
Result seeded from --var flags. On an interactive terminal it drives a
live dashboard of level-by-level step progress; otherwise it logs step
lifecycle through zerolog, the same as any other middleware-observed
run. --watch keeps the definition loaded and rebuilds it whenever the
file changes, without interrupting a run already in flight.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		input := seedResult(runVars)

		if runWatch {
			return runWatching(path, input)
		}
		return runOnce(path, input)
	},
}

func init() {
	runCmd.Flags().StringArrayVar(&runVars, "var", nil, "seed the initial Result's context, as key=value (repeatable)")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "reload the definition whenever the file changes")
	rootCmd.AddCommand(runCmd)
}

func seedResult(vars []string) pipeline.Result {
	r := pipeline.NewResult(nil)
	for _, kv := range vars {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		r = r.WithContext(k, v)
	}
	return r
}

func runOnce(path string, input pipeline.Result) error {
	interactive := cfg.Dashboard.Enabled && term.IsTerminal(int(os.Stdout.Fd()))

	if !interactive {
		logger := logging.NewDefault(cfg.LogLevel, cfg.LogFormat)
		observe := func(id string, fn pipeline.StepFn) pipeline.StepFn {
			return logging.New(logger, id, "step_error")(fn)
		}
		p, err := pipelineyaml.LoadObserved(path, builtinRegistry(), observe)
		if err != nil {
			return err
		}
		out, err := p.Call(input)
		if err != nil {
			return err
		}
		return reportOutcome(out)
	}

	events := make(chan pipeline.ProgressEvent, 32)
	observe := func(id string, fn pipeline.StepFn) pipeline.StepFn {
		return progress.New(id, events)(fn)
	}
	p, err := pipelineyaml.LoadObserved(path, builtinRegistry(), observe)
	if err != nil {
		return err
	}
	levels, err := p.ParallelOrder()
	if err != nil {
		return err
	}

	program := tea.NewProgram(dashboard.New(levels, events))
	var callErr error
	var out pipeline.Result
	go func() {
		out, callErr = p.Call(input)
		close(events)
	}()
	if _, err := program.Run(); err != nil {
		return err
	}
	if callErr != nil {
		return callErr
	}
	return reportOutcome(out)
}

func runWatching(path string, input pipeline.Result) error {
	logger := logging.NewDefault(cfg.LogLevel, cfg.LogFormat)
	current := make(chan *pipeline.Pipeline, 1)

	observe := func(id string, fn pipeline.StepFn) pipeline.StepFn {
		return logging.New(logger, id, "step_error")(fn)
	}
	loadAndSwap := func(p *pipeline.Pipeline, err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
			return
		}
		select {
		case <-current: // drop the superseded pipeline reference
		default:
		}
		current <- p
		fmt.Fprintln(os.Stderr, "reloaded")
	}

	p, err := pipelineyaml.LoadObserved(path, builtinRegistry(), observe)
	if err != nil {
		return err
	}
	current <- p

	watcher, err := pipelineyaml.Watch(path, builtinRegistry(), func(np *pipeline.Pipeline, err error) {
		loadAndSwap(np, err)
	})
	if err != nil {
		return err
	}
	defer watcher.Close()

	for active := range current {
		out, err := active.Call(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
			continue
		}
		if err := reportOutcome(out); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	return nil
}

func reportOutcome(out pipeline.Result) error {
	if !out.Continuing() {
		fmt.Fprintf(os.Stderr, "pipeline halted, errors=%v\n", out.Errors())
		return fmt.Errorf("pipeline halted")
	}
	fmt.Printf("%+v\n", out.Value())
	return nil
}
