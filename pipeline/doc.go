// Package pipeline chains commands so that each command's output is the
// next command's input.
//
// A pipeline runs on the calling goroutine and is pull-driven: the runner
// pulls the last stage, and a stage whose input buffer is empty advances its
// upstream stage by one line, recursively, down to the pipeline input. A
// stage whose input is exhausted is flushed. Commands that need their whole
// input (sort, tail, wc) write only when flushed, so no line passes them
// before everything upstream has finished.
//
// Every stage is opened before the first input line is read, so invalid
// arguments fail the run without consuming input or producing output.
//
// # Usage
//
//	out, err := pipeline.Start(unix.Grep("error"), unix.Sort()).
//	    Then(unix.Uniq(unix.UniqCount)).
//	    RunLines(ctx, lines)
//
// Each run gets a run ID carried in ctx and in its log lines, a
// "pipeline.run" span, and, with WithMetrics, run metrics.
package pipeline
