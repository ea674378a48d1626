package pipelineyaml

import (
	"github.com/flowforge/flowcore/internal/filewatch"
	"github.com/flowforge/flowcore/pipeline"
)

// Watch watches path with fsnotify and calls onReload with a freshly
// built *pipeline.Pipeline (or a load/build error) each time the file
// changes. The previously returned Pipeline keeps running unaffected,
// since Pipelines are immutable once built — onReload is the caller's
// signal to start routing new work to the new one.
func Watch(path string, reg StepRegistry, onReload func(*pipeline.Pipeline, error)) (*filewatch.Watcher, error) {
	reload := func() {
		p, err := Load(path, reg)
		onReload(p, err)
	}
	return filewatch.Watch(path, 0, reload)
}
