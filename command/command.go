package command

import (
	"context"
	"fmt"

	"github.com/kbukum/linekit/errors"
	"github.com/kbukum/linekit/lineio"
)

// Command is one executable pipeline stage.
type Command interface {
	// Name returns the command name, e.g. "sort".
	Name() string
	// Mode returns the command's fixed execution mode.
	Mode() Mode
	// Open validates the command's arguments and returns a Processor writing
	// to out. On error nothing has been written to out.
	Open(ctx context.Context, out lineio.Output) (Processor, error)
	// Execute runs the command over every line of in, writing to out.
	Execute(ctx context.Context, in lineio.Input, out lineio.Output) error
}

// Kind describes one command kind.
type Kind[O Option] struct {
	// Name is the command name.
	Name string
	// Mode is the execution mode shared by every command of this kind.
	Mode Mode
	// Alphabet lists every option of the kind.
	Alphabet []O
	// Usage describes the operands, for help output.
	Usage string
	// FileOperands marks kinds whose operands name files to read.
	FileOperands bool
	// Build validates args and returns fresh transform state for one run.
	Build func(ctx context.Context, args Args[O]) (Transform, error)
}

// OptionNames returns the names of the kind's options in alphabet order.
func (k *Kind[O]) OptionNames() []string {
	names := make([]string, len(k.Alphabet))
	for i, o := range k.Alphabet {
		names[i] = o.String()
	}
	return names
}

// ParseArgs resolves option names against the alphabet and binds operands.
// Unknown option names are an invalid-configuration error.
func (k *Kind[O]) ParseArgs(options, operands []string) (Args[O], error) {
	opts := make([]O, 0, len(options))
	for _, name := range options {
		o, ok := ParseOption(k.Alphabet, name)
		if !ok {
			return Args[O]{}, errors.InvalidConfiguration(k.Name,
				fmt.Sprintf("Unknown option %q for %s", name, k.Name)).
				WithDetail("allowed", k.OptionNames())
		}
		opts = append(opts, o)
	}
	return NewArgs(opts...).WithOperands(operands...), nil
}

// Cmd is an immutable command: a Kind bound to an argument set.
type Cmd[O Option] struct {
	kind *Kind[O]
	args Args[O]
}

// New binds kind to args.
func New[O Option](kind *Kind[O], args Args[O]) *Cmd[O] {
	return &Cmd[O]{kind: kind, args: args}
}

// Name returns the kind's name.
func (c *Cmd[O]) Name() string { return c.kind.Name }

// Mode returns the kind's execution mode.
func (c *Cmd[O]) Mode() Mode { return c.kind.Mode }

// Args returns the bound argument set.
func (c *Cmd[O]) Args() Args[O] { return c.args }

// Kind returns the command's kind.
func (c *Cmd[O]) Kind() *Kind[O] { return c.kind }

// WithArgs returns a new command of the same kind bound to args.
func (c *Cmd[O]) WithArgs(args Args[O]) *Cmd[O] {
	return &Cmd[O]{kind: c.kind, args: args}
}

// String renders the command as it would be typed, e.g. "sort --descending".
func (c *Cmd[O]) String() string {
	if c.args.IsEmpty() {
		return c.kind.Name
	}
	return c.kind.Name + " " + c.args.String()
}

// Open validates the arguments and returns a Processor writing to out.
func (c *Cmd[O]) Open(ctx context.Context, out lineio.Output) (Processor, error) {
	t, err := c.kind.Build(ctx, c.args)
	if err != nil {
		return nil, err
	}
	if t == nil || t.mode() != c.kind.Mode {
		return nil, errors.Internal(fmt.Errorf("%s: transform does not implement mode %s", c.kind.Name, c.kind.Mode))
	}
	switch fn := t.(type) {
	case LineFunc:
		if fn.Line == nil {
			return nil, errors.Internal(fmt.Errorf("%s: line transform has no Line func", c.kind.Name))
		}
		return &lineProcessor{name: c.kind.Name, fn: fn, out: out}, nil
	case BatchFunc:
		if fn == nil {
			return nil, errors.Internal(fmt.Errorf("%s: batch transform is nil", c.kind.Name))
		}
		return &batchProcessor{name: c.kind.Name, fn: fn, out: out}, nil
	}
	return nil, errors.Internal(fmt.Errorf("%s: unsupported transform %T", c.kind.Name, t))
}

// Execute runs the command over in, writing to out.
func (c *Cmd[O]) Execute(ctx context.Context, in lineio.Input, out lineio.Output) error {
	return Execute(ctx, c, in, out)
}

// Execute opens cmd on out, feeds it every line of in and flushes it.
// Argument validation happens before the first line is read. A command with
// its own source never reads in. Errors from in and out are returned
// unchanged.
func Execute(ctx context.Context, cmd Command, in lineio.Input, out lineio.Output) error {
	p, err := cmd.Open(ctx, out)
	if err != nil {
		return err
	}
	if src, ok := SourceOf(p); ok {
		in = src
		defer func() { _ = CloseSource(src) }()
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		more, err := in.HasMoreLines()
		if err != nil {
			return err
		}
		if !more {
			break
		}
		line, err := in.ReadLine()
		if err != nil {
			return err
		}
		if err := p.WriteLine(line); err != nil {
			return err
		}
	}
	return p.Flush()
}
