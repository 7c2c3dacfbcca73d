package command

import "github.com/kbukum/linekit/lineio"

// Transform is the per-run logic of a command. The set of implementations is
// closed: LineFunc for LineByLine kinds and BatchFunc for CompleteInput kinds.
type Transform interface {
	mode() Mode
}

// LineFunc is the LineByLine transform protocol.
type LineFunc struct {
	// Line handles one input line, writing zero or more lines to out.
	Line func(line string, out lineio.Output) error
	// Done runs once after the input is exhausted. Optional.
	Done func(out lineio.Output) error
	// Source, when set, replaces the command's input. Its lines go through
	// Line and the upstream input is never read.
	Source lineio.Input
}

func (LineFunc) mode() Mode { return LineByLine }

// BatchFunc is the CompleteInput transform protocol. It receives every input
// line in order, may reorder or replace the slice in place, and returns the
// lines to write.
type BatchFunc func(lines []string) ([]string, error)

func (BatchFunc) mode() Mode { return CompleteInput }
