package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"

	"github.com/flowforge/flowcore/pipeline"
)

func TestNewLogsStepLifecycle(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	mw := New(logger, "work", "panic")
	fn := mw(func(r pipeline.Result) pipeline.Result { return r.WithContext("ran", true) })

	out := fn(pipeline.NewResult(nil))
	v, _ := out.ContextValue("ran")
	if v != true {
		t.Fatalf("wrapped step did not run")
	}
	if buf.Len() == 0 {
		t.Fatalf("expected log output")
	}
}

func TestNewRecoversPanicIntoHaltedResult(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	mw := New(logger, "boom", "panic")
	fn := mw(func(r pipeline.Result) pipeline.Result {
		panic("kaboom")
	})

	out := fn(pipeline.NewResult(nil))
	if out.Continuing() {
		t.Fatalf("expected panic recovery to halt")
	}
	msgs := out.Errors()["panic"]
	if len(msgs) != 1 || msgs[0] != "kaboom" {
		t.Fatalf("expected recovered panic recorded under errKey, got %v", out.Errors())
	}
}

func TestNewDefaultBuildsConsoleAndJSONLoggers(t *testing.T) {
	t.Parallel()
	console := NewDefault("info", "console")
	jsonLogger := NewDefault("debug", "json")
	if console.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("console level = %v", console.GetLevel())
	}
	if jsonLogger.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("json level = %v", jsonLogger.GetLevel())
	}
}
