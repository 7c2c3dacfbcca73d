package lineio

import (
	"context"
	"errors"
)

// ErrExhausted is returned by ReadLine when the input has no more lines.
var ErrExhausted = errors.New("lineio: input exhausted")

// Input provides pull-based sequential access to a stream of lines.
type Input interface {
	// HasMoreLines reports whether ReadLine will return another line.
	// An error means the underlying source failed.
	HasMoreLines() (bool, error)
	// ReadLine returns the next line. Returns ErrExhausted past the end.
	ReadLine() (string, error)
}

// Output consumes lines in the order they are written.
type Output interface {
	// WriteLine appends one line.
	WriteLine(line string) error
}

// Iterator is a pull iterator of lines. It matches the shape of the
// iterators used elsewhere in the kit so they can feed a pipeline directly.
type Iterator interface {
	// Next returns the next line. Returns ("", false, nil) when exhausted.
	Next(ctx context.Context) (string, bool, error)
}

// OutputFunc adapts a function to the Output interface.
type OutputFunc func(line string) error

// WriteLine calls f(line).
func (f OutputFunc) WriteLine(line string) error { return f(line) }

// Discard is an Output that drops every line.
var Discard Output = OutputFunc(func(string) error { return nil })

// Drain copies every remaining line of in to out and returns the number of
// lines copied. Errors from either side are returned unchanged.
func Drain(in Input, out Output) (int, error) {
	n := 0
	for {
		more, err := in.HasMoreLines()
		if err != nil {
			return n, err
		}
		if !more {
			return n, nil
		}
		line, err := in.ReadLine()
		if err != nil {
			return n, err
		}
		if err := out.WriteLine(line); err != nil {
			return n, err
		}
		n++
	}
}

// ReadAll reads every remaining line of in.
func ReadAll(in Input) ([]string, error) {
	c := NewCollector()
	_, err := Drain(in, c)
	return c.Lines(), err
}
