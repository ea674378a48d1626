// Package pipeline implements a composable dataflow pipeline engine.
//
// A Pipeline is built from named Steps with explicit dependencies. The
// engine computes a topological, level-grouped execution schedule, runs
// mutually independent steps concurrently within a level, and threads an
// immutable Result value through every step. Optional steps stay dormant
// until a step activates them at runtime, which lets a pipeline express
// router patterns and soft-failure cleanup paths without the scheduler
// knowing about either concept directly.
//
// The package has no file-format, logging, or CLI opinions: those live in
// sibling packages (pipelineyaml, middleware, cmd/flowctl) built on top of
// this one's public API.
package pipeline
