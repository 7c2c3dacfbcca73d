package lineio

import "strings"

type sliceInput struct {
	lines []string
	index int
}

// FromSlice returns an Input yielding lines in order. The slice is not copied
// and must not be modified while the Input is in use.
func FromSlice(lines []string) Input {
	return &sliceInput{lines: lines}
}

// FromString splits text on newlines. A trailing newline does not produce an
// empty final line, and the empty string yields no lines.
func FromString(text string) Input {
	if text == "" {
		return &sliceInput{}
	}
	text = strings.TrimSuffix(text, "\n")
	return &sliceInput{lines: strings.Split(text, "\n")}
}

func (in *sliceInput) HasMoreLines() (bool, error) {
	return in.index < len(in.lines), nil
}

func (in *sliceInput) ReadLine() (string, error) {
	if in.index >= len(in.lines) {
		return "", ErrExhausted
	}
	line := in.lines[in.index]
	in.index++
	return line, nil
}

// Collector is an Output that keeps every line in memory.
type Collector struct {
	lines []string
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// WriteLine appends line.
func (c *Collector) WriteLine(line string) error {
	c.lines = append(c.lines, line)
	return nil
}

// Lines returns a copy of the collected lines. Never nil.
func (c *Collector) Lines() []string {
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of collected lines.
func (c *Collector) Len() int { return len(c.lines) }

// String joins the collected lines, each terminated by a newline.
func (c *Collector) String() string {
	var b strings.Builder
	for _, line := range c.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
