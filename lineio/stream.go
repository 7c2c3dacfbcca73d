package lineio

import (
	"bufio"
	"context"
	"io"
)

// MaxLineSize is the longest line FromReader accepts.
const MaxLineSize = 1024 * 1024

type readerInput struct {
	scanner *bufio.Scanner
	next    string
	ready   bool
	done    bool
	err     error
}

// FromReader returns an Input reading newline-terminated lines from r.
// Line terminators ("\n" or "\r\n") are stripped. Read errors surface from
// HasMoreLines unchanged.
func FromReader(r io.Reader) Input {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &readerInput{scanner: s}
}

func (in *readerInput) HasMoreLines() (bool, error) {
	if in.ready {
		return true, nil
	}
	if in.done {
		return false, in.err
	}
	if in.scanner.Scan() {
		in.next = in.scanner.Text()
		in.ready = true
		return true, nil
	}
	in.done = true
	in.err = in.scanner.Err()
	return false, in.err
}

func (in *readerInput) ReadLine() (string, error) {
	more, err := in.HasMoreLines()
	if err != nil {
		return "", err
	}
	if !more {
		return "", ErrExhausted
	}
	in.ready = false
	return in.next, nil
}

// WriterOutput writes each line followed by a newline to an io.Writer
// through a buffer. Call Flush when done.
type WriterOutput struct {
	w *bufio.Writer
}

// ToWriter creates a WriterOutput on w.
func ToWriter(w io.Writer) *WriterOutput {
	return &WriterOutput{w: bufio.NewWriter(w)}
}

// WriteLine writes line and a trailing newline.
func (o *WriterOutput) WriteLine(line string) error {
	if _, err := o.w.WriteString(line); err != nil {
		return err
	}
	return o.w.WriteByte('\n')
}

// Flush writes any buffered data to the underlying writer.
func (o *WriterOutput) Flush() error {
	return o.w.Flush()
}

type iteratorInput struct {
	ctx   context.Context
	iter  Iterator
	next  string
	ready bool
	done  bool
}

// FromIterator adapts a pull iterator to the Input contract. ctx is passed to
// every Next call.
func FromIterator(ctx context.Context, iter Iterator) Input {
	return &iteratorInput{ctx: ctx, iter: iter}
}

func (in *iteratorInput) HasMoreLines() (bool, error) {
	if in.ready {
		return true, nil
	}
	if in.done {
		return false, nil
	}
	line, ok, err := in.iter.Next(in.ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		in.done = true
		return false, nil
	}
	in.next, in.ready = line, true
	return true, nil
}

func (in *iteratorInput) ReadLine() (string, error) {
	more, err := in.HasMoreLines()
	if err != nil {
		return "", err
	}
	if !more {
		return "", ErrExhausted
	}
	in.ready = false
	return in.next, nil
}
