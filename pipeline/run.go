package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/linekit/command"
	"github.com/kbukum/linekit/env"
	"github.com/kbukum/linekit/errors"
	"github.com/kbukum/linekit/lineio"
	"github.com/kbukum/linekit/logger"
	"github.com/kbukum/linekit/observability"
)

// Runnable is a pipeline bound to its input and output.
type Runnable struct {
	name    string
	cmds    []command.Command
	env     *env.Context
	metrics *observability.PipelineMetrics
	log     *logger.Logger
	in      lineio.Input
	out     lineio.Output
}

// stage is the per-run state of one command.
type stage struct {
	index   int
	cmd     command.Command
	proc    command.Processor
	in      lineio.Input
	source  bool
	flushed bool
	linesIn int
}

type run struct {
	stages   []*stage
	failed   int
	linesOut int
}

// Run executes the pipeline. Errors from commands, the input and the output
// are returned unchanged; output already written stays written.
func (r *Runnable) Run(ctx context.Context) (err error) {
	if len(r.cmds) == 0 {
		return errors.InvalidInput("pipeline", "pipeline has no commands")
	}
	for i, cmd := range r.cmds {
		if cmd == nil {
			return errors.InvalidInput("pipeline", fmt.Sprintf("stage %d has no command", i))
		}
	}

	runID := uuid.NewString()
	ctx = logger.ContextWithRunID(ctx, runID)
	if r.env != nil {
		ctx = env.WithContext(ctx, r.env)
	}
	ctx, span := observability.StartSpan(ctx, observability.SpanPipelineRun)
	span.SetAttributes(
		attribute.String(observability.AttrRunID, runID),
		attribute.Int(observability.AttrStages, len(r.cmds)),
	)
	defer span.End()

	log := r.log
	if log == nil {
		log = logger.Get("pipeline")
	}
	log = log.WithContext(ctx).WithFields(logger.Fields(logger.FieldPipeline, r.name))

	st := &run{failed: -1}
	start := time.Now()
	defer func() {
		r.finish(ctx, log, st, time.Since(start), err)
	}()

	defer st.closeSources()
	if err := st.open(ctx, r.cmds, r.in, r.out, log); err != nil {
		return err
	}
	return st.pull(ctx)
}

// open opens every stage in order, wiring stage i's output to a buffer that
// stage i+1 reads. The last stage writes to out. A stage with its own source
// reads from it and its upstream is never advanced.
func (st *run) open(ctx context.Context, cmds []command.Command, in lineio.Input, out lineio.Output, log *logger.Logger) error {
	counted := lineio.OutputFunc(func(line string) error {
		if err := out.WriteLine(line); err != nil {
			return err
		}
		st.linesOut++
		return nil
	})

	st.stages = make([]*stage, len(cmds))
	for i, cmd := range cmds {
		st.stages[i] = &stage{index: i, cmd: cmd, in: in}
		var dst lineio.Output = counted
		if i < len(cmds)-1 {
			buf := lineio.NewBuffer()
			dst, in = buf, buf
		}
		proc, err := cmd.Open(ctx, dst)
		if err != nil {
			st.failed = i
			return err
		}
		st.stages[i].proc = proc
		if src, ok := command.SourceOf(proc); ok {
			st.stages[i].in, st.stages[i].source = src, true
		}
		log.Debug("stage opened", logger.Fields(
			logger.FieldStage, i,
			logger.FieldCommand, cmd.Name(),
			logger.FieldMode, cmd.Mode().String(),
		))
	}
	return nil
}

// pull drives the last stage until it has been flushed.
func (st *run) pull(ctx context.Context) error {
	last := len(st.stages) - 1
	for !st.stages[last].flushed {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := st.advance(ctx, last); err != nil {
			return err
		}
	}
	return nil
}

// advance feeds stage i one input line, or flushes it when its input is
// exhausted. An empty buffer is refilled by advancing the upstream stage.
func (st *run) advance(ctx context.Context, i int) error {
	s := st.stages[i]
	for {
		more, err := s.in.HasMoreLines()
		if err != nil {
			st.failed = i
			return err
		}
		if more {
			line, err := s.in.ReadLine()
			if err != nil {
				st.failed = i
				return err
			}
			s.linesIn++
			if err := s.proc.WriteLine(line); err != nil {
				st.failed = i
				return err
			}
			return nil
		}
		if i == 0 || s.source || st.stages[i-1].flushed {
			s.flushed = true
			if err := s.proc.Flush(); err != nil {
				st.failed = i
				return err
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := st.advance(ctx, i-1); err != nil {
			return err
		}
	}
}

func (st *run) closeSources() {
	for _, s := range st.stages {
		if s != nil && s.source {
			_ = command.CloseSource(s.in)
		}
	}
}

func (r *Runnable) finish(ctx context.Context, log *logger.Logger, st *run, d time.Duration, err error) {
	linesIn := 0
	if len(st.stages) > 0 && st.stages[0] != nil {
		linesIn = st.stages[0].linesIn
	}
	fields := logger.Fields(
		logger.FieldLinesIn, linesIn,
		logger.FieldLinesOut, st.linesOut,
	)
	observability.SetSpanAttribute(ctx, observability.AttrLinesIn, linesIn)
	observability.SetSpanAttribute(ctx, observability.AttrLinesOut, st.linesOut)

	status := "ok"
	if err != nil {
		status = "error"
		observability.SetSpanError(ctx, err)
		if appErr, ok := errors.AsAppError(err); ok {
			observability.SetSpanAttribute(ctx, observability.AttrErrorCode, string(appErr.Code))
		}
		if st.failed >= 0 {
			cmd := st.stages[st.failed].cmd.Name()
			fields[logger.FieldStage] = st.failed
			fields[logger.FieldCommand] = cmd
			if r.metrics != nil {
				r.metrics.RecordStageError(ctx, cmd, st.failed)
			}
		}
		log.Debug("pipeline failed", logger.MergeWithDuration(logger.MergeWithError(fields, err), d))
	} else {
		log.Info("pipeline finished", logger.MergeWithDuration(fields, d))
	}

	if r.metrics != nil {
		r.metrics.RecordRun(ctx, r.name, status, linesIn, st.linesOut, d)
	}
}
