package lineio

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestFromSlice_Drain(t *testing.T) {
	c := NewCollector()
	n, err := Drain(FromSlice([]string{"a", "b", "c"}), c)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("got %d lines, want 3", n)
	}
	if got := strings.Join(c.Lines(), ","); got != "a,b,c" {
		t.Errorf("got %q, want %q", got, "a,b,c")
	}
}

func TestFromSlice_ReadPastEnd(t *testing.T) {
	in := FromSlice([]string{"only"})
	if _, err := in.ReadLine(); err != nil {
		t.Fatal(err)
	}
	more, err := in.HasMoreLines()
	if err != nil || more {
		t.Fatalf("HasMoreLines() = %v, %v; want false, nil", more, err)
	}
	if _, err := in.ReadLine(); !errors.Is(err, ErrExhausted) {
		t.Errorf("expected ErrExhausted, got %v", err)
	}
}

func TestFromString(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"single no newline", "a", []string{"a"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"blank line kept", "a\n\nb", []string{"a", "", "b"}},
		{"only newline", "\n", []string{""}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadAll(FromString(tc.text))
			if err != nil {
				t.Fatal(err)
			}
			if strings.Join(got, "|") != strings.Join(tc.want, "|") || len(got) != len(tc.want) {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuffer_FIFO(t *testing.T) {
	b := NewBuffer()
	if more, _ := b.HasMoreLines(); more {
		t.Fatal("new buffer should be empty")
	}
	_ = b.WriteLine("1")
	_ = b.WriteLine("2")
	if b.Len() != 2 {
		t.Errorf("Len() = %d, want 2", b.Len())
	}
	first, _ := b.ReadLine()
	_ = b.WriteLine("3")
	second, _ := b.ReadLine()
	third, _ := b.ReadLine()
	if first != "1" || second != "2" || third != "3" {
		t.Errorf("got %q %q %q, want 1 2 3", first, second, third)
	}
	if _, err := b.ReadLine(); !errors.Is(err, ErrExhausted) {
		t.Errorf("expected ErrExhausted, got %v", err)
	}
	_ = b.WriteLine("4")
	if got, _ := b.ReadLine(); got != "4" {
		t.Errorf("buffer should be reusable after draining, got %q", got)
	}
}

func TestFromReader(t *testing.T) {
	in := FromReader(strings.NewReader("one\r\ntwo\nthree"))
	got, err := ReadAll(in)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, ",") != "one,two,three" {
		t.Errorf("got %q", got)
	}
	if _, err := in.ReadLine(); !errors.Is(err, ErrExhausted) {
		t.Errorf("expected ErrExhausted, got %v", err)
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestFromReader_ErrorSurfacesUnchanged(t *testing.T) {
	boom := errors.New("disk on fire")
	in := FromReader(failingReader{err: boom})
	if _, err := in.HasMoreLines(); !errors.Is(err, boom) {
		t.Errorf("expected original error, got %v", err)
	}
}

func TestToWriter(t *testing.T) {
	var buf bytes.Buffer
	out := ToWriter(&buf)
	_ = out.WriteLine("x")
	_ = out.WriteLine("y")
	if buf.Len() != 0 {
		t.Error("expected output to be buffered until Flush")
	}
	if err := out.Flush(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "x\ny\n" {
		t.Errorf("got %q, want %q", buf.String(), "x\ny\n")
	}
}

type countingIter struct {
	n, max int
	err    error
}

func (it *countingIter) Next(_ context.Context) (string, bool, error) {
	if it.err != nil && it.n == it.max {
		return "", false, it.err
	}
	if it.n >= it.max {
		return "", false, nil
	}
	it.n++
	return strings.Repeat("x", it.n), true, nil
}

func TestFromIterator(t *testing.T) {
	got, err := ReadAll(FromIterator(context.Background(), &countingIter{max: 3}))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, ",") != "x,xx,xxx" {
		t.Errorf("got %q", got)
	}
}

func TestFromIterator_Error(t *testing.T) {
	boom := errors.New("upstream")
	got, err := ReadAll(FromIterator(context.Background(), &countingIter{max: 1, err: boom}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected the line read before the error, got %v", got)
	}
}

func TestDrain_OutputError(t *testing.T) {
	boom := errors.New("sink closed")
	calls := 0
	out := OutputFunc(func(string) error {
		calls++
		return boom
	})
	n, err := Drain(FromSlice([]string{"a", "b"}), out)
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if n != 0 || calls != 1 {
		t.Errorf("expected abort on first failure, n=%d calls=%d", n, calls)
	}
}

func TestCollector_String(t *testing.T) {
	c := NewCollector()
	_ = Discard.WriteLine("ignored")
	_ = c.WriteLine("a")
	_ = c.WriteLine("b")
	if c.String() != "a\nb\n" {
		t.Errorf("got %q", c.String())
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}
