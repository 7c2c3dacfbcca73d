package command

import (
	"fmt"
	"io"

	"github.com/kbukum/linekit/errors"
	"github.com/kbukum/linekit/lineio"
)

// Processor is a command opened for one run. Input lines go in through
// WriteLine; results go to the Output the command was opened with. Flush
// signals that the input is exhausted.
type Processor interface {
	lineio.Output
	Flush() error
}

// SourceOf returns the input p reads in place of its upstream. Runners must
// feed p from it and leave the upstream unread.
func SourceOf(p Processor) (lineio.Input, bool) {
	lp, ok := p.(*lineProcessor)
	if !ok || lp.fn.Source == nil {
		return nil, false
	}
	return lp.fn.Source, true
}

// CloseSource releases src when it holds resources. Runners call it once
// they stop reading from a source returned by SourceOf.
func CloseSource(src lineio.Input) error {
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type lineProcessor struct {
	name    string
	fn      LineFunc
	out     lineio.Output
	flushed bool
}

func (p *lineProcessor) WriteLine(line string) error {
	if p.flushed {
		return errWriteAfterFlush(p.name)
	}
	return p.fn.Line(line, p.out)
}

func (p *lineProcessor) Flush() error {
	if p.flushed {
		return nil
	}
	p.flushed = true
	if p.fn.Done == nil {
		return nil
	}
	return p.fn.Done(p.out)
}

type batchProcessor struct {
	name    string
	fn      BatchFunc
	out     lineio.Output
	lines   []string
	flushed bool
}

func (p *batchProcessor) WriteLine(line string) error {
	if p.flushed {
		return errWriteAfterFlush(p.name)
	}
	p.lines = append(p.lines, line)
	return nil
}

func (p *batchProcessor) Flush() error {
	if p.flushed {
		return nil
	}
	p.flushed = true
	result, err := p.fn(p.lines)
	p.lines = nil
	if err != nil {
		return err
	}
	for _, line := range result {
		if err := p.out.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}

func errWriteAfterFlush(name string) error {
	return errors.Internal(fmt.Errorf("%s: line written after input was flushed", name)).
		WithDetail("command", name)
}
