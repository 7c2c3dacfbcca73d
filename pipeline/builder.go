package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/kbukum/linekit/command"
	"github.com/kbukum/linekit/env"
	"github.com/kbukum/linekit/lineio"
	"github.com/kbukum/linekit/logger"
	"github.com/kbukum/linekit/observability"
)

// Builder accumulates pipeline stages. Then appends in place and returns the
// same builder; the run methods snapshot the stages, so a builder may be run
// any number of times, concurrently, as long as it is not modified meanwhile.
type Builder struct {
	name    string
	cmds    []command.Command
	env     *env.Context
	metrics *observability.PipelineMetrics
	log     *logger.Logger
}

// Start creates a builder with cmds as its first stages.
func Start(cmds ...command.Command) *Builder {
	b := &Builder{}
	for _, cmd := range cmds {
		b.Then(cmd)
	}
	return b
}

// Then appends cmd as the last stage.
func (b *Builder) Then(cmd command.Command) *Builder {
	b.cmds = append(b.cmds, cmd)
	return b
}

// Named sets the name used in logs, spans and metrics.
func (b *Builder) Named(name string) *Builder {
	b.name = name
	return b
}

// WithEnv sets the execution environment handed to commands through ctx.
// Without it commands see env.FromContext(ctx) of the caller's context.
func (b *Builder) WithEnv(e *env.Context) *Builder {
	b.env = e
	return b
}

// WithMetrics records every run on m.
func (b *Builder) WithMetrics(m *observability.PipelineMetrics) *Builder {
	b.metrics = m
	return b
}

// WithLogger overrides the "pipeline" component logger.
func (b *Builder) WithLogger(l *logger.Logger) *Builder {
	b.log = l
	return b
}

// Name returns the pipeline name, or its String form when unnamed.
func (b *Builder) Name() string {
	if b.name != "" {
		return b.name
	}
	return b.String()
}

// Commands returns a copy of the stages.
func (b *Builder) Commands() []command.Command {
	return append([]command.Command(nil), b.cmds...)
}

// Len returns the number of stages.
func (b *Builder) Len() int { return len(b.cmds) }

// String renders the stages shell-style, e.g. "grep foo | sort".
func (b *Builder) String() string {
	parts := make([]string, len(b.cmds))
	for i, cmd := range b.cmds {
		switch c := cmd.(type) {
		case nil:
			parts[i] = "<nil>"
		case fmt.Stringer:
			parts[i] = c.String()
		default:
			parts[i] = c.Name()
		}
	}
	return strings.Join(parts, " | ")
}

// To binds the pipeline to an input and an output.
func (b *Builder) To(in lineio.Input, out lineio.Output) *Runnable {
	return &Runnable{
		name:    b.Name(),
		cmds:    b.Commands(),
		env:     b.env,
		metrics: b.metrics,
		log:     b.log,
		in:      in,
		out:     out,
	}
}

// Run executes the pipeline over in, writing the last stage's output to out.
func (b *Builder) Run(ctx context.Context, in lineio.Input, out lineio.Output) error {
	return b.To(in, out).Run(ctx)
}

// RunLines executes the pipeline over lines and returns the output lines.
// On error the lines written before the failure are returned with it.
func (b *Builder) RunLines(ctx context.Context, lines []string) ([]string, error) {
	out := lineio.NewCollector()
	err := b.Run(ctx, lineio.FromSlice(lines), out)
	return out.Lines(), err
}
