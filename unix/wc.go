package unix

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kbukum/linekit/command"
)

// WcName is the wc command name.
const WcName = "wc"

// WcOption is an option of the wc command.
type WcOption uint8

const (
	// WcLines counts lines.
	WcLines WcOption = iota
	// WcWords counts whitespace-separated words.
	WcWords
	// WcChars counts characters, including one line terminator per line.
	WcChars
)

// String returns the option name.
func (o WcOption) String() string {
	switch o {
	case WcLines:
		return "lines"
	case WcWords:
		return "words"
	case WcChars:
		return "chars"
	}
	return "unknown"
}

// WcKind writes a single line of counts once the input is exhausted. With
// no options it counts lines, words and characters. A single metric is
// written as a bare number.
var WcKind = &command.Kind[WcOption]{
	Name:     WcName,
	Mode:     command.CompleteInput,
	Alphabet: []WcOption{WcLines, WcWords, WcChars},
	Build:    buildWc,
}

// Wc returns a wc command counting the given metrics.
func Wc(opts ...WcOption) *command.Cmd[WcOption] {
	return command.New(WcKind, command.NewArgs(opts...))
}

// WcWith returns a wc command bound to args.
func WcWith(args command.Args[WcOption]) *command.Cmd[WcOption] {
	return command.New(WcKind, args)
}

func buildWc(_ context.Context, args command.Args[WcOption]) (command.Transform, error) {
	metrics := args.Opts()
	if len(metrics) == 0 {
		metrics = []WcOption{WcLines, WcWords, WcChars}
	}
	return command.BatchFunc(func(lines []string) ([]string, error) {
		var words, chars int
		for _, line := range lines {
			words += len(strings.Fields(line))
			chars += utf8.RuneCountInString(line) + 1
		}
		counts := map[WcOption]int{WcLines: len(lines), WcWords: words, WcChars: chars}
		if len(metrics) == 1 {
			return []string{strconv.Itoa(counts[metrics[0]])}, nil
		}
		cols := make([]string, len(metrics))
		for i, m := range metrics {
			cols[i] = fmt.Sprintf("%7d", counts[m])
		}
		return []string{strings.Join(cols, " ")}, nil
	}), nil
}
