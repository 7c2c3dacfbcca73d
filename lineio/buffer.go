package lineio

// Buffer is an in-memory FIFO of lines that is both an Output (for the stage
// writing into it) and an Input (for the stage reading from it).
//
// A Buffer is not safe for concurrent use; a pipeline run drives both ends
// from one goroutine.
type Buffer struct {
	lines []string
	head  int
}

// NewBuffer creates an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// WriteLine appends line to the tail.
func (b *Buffer) WriteLine(line string) error {
	b.lines = append(b.lines, line)
	return nil
}

// HasMoreLines reports whether a line is buffered right now.
func (b *Buffer) HasMoreLines() (bool, error) {
	return b.head < len(b.lines), nil
}

// ReadLine removes and returns the head line.
func (b *Buffer) ReadLine() (string, error) {
	if b.head >= len(b.lines) {
		return "", ErrExhausted
	}
	line := b.lines[b.head]
	b.lines[b.head] = ""
	b.head++
	if b.head == len(b.lines) {
		// Drained: reuse the backing array.
		b.lines = b.lines[:0]
		b.head = 0
	}
	return line, nil
}

// Len returns the number of buffered lines.
func (b *Buffer) Len() int { return len(b.lines) - b.head }
