package unix

import (
	"context"
	"fmt"
	"strings"

	"github.com/kbukum/linekit/command"
	"github.com/kbukum/linekit/lineio"
)

// UniqName is the uniq command name.
const UniqName = "uniq"

// UniqOption is an option of the uniq command.
type UniqOption uint8

const (
	// UniqCount prefixes each output line with the size of its group.
	UniqCount UniqOption = iota
	// UniqDuplicatedOnly writes only groups of two or more lines.
	UniqDuplicatedOnly
	// UniqUniqueOnly writes only groups of a single line.
	UniqUniqueOnly
	// UniqIgnoreCase compares adjacent lines without regard to case.
	UniqIgnoreCase
)

// String returns the option name.
func (o UniqOption) String() string {
	switch o {
	case UniqCount:
		return "count"
	case UniqDuplicatedOnly:
		return "duplicatedOnly"
	case UniqUniqueOnly:
		return "uniqueOnly"
	case UniqIgnoreCase:
		return "ignoreCase"
	}
	return "unknown"
}

// UniqKind collapses runs of adjacent equal lines into their first line.
// Only adjacent lines are compared; sort first for global uniqueness.
var UniqKind = &command.Kind[UniqOption]{
	Name:     UniqName,
	Mode:     command.LineByLine,
	Alphabet: []UniqOption{UniqCount, UniqDuplicatedOnly, UniqUniqueOnly, UniqIgnoreCase},
	Build:    buildUniq,
}

// Uniq returns a uniq command with the given options.
func Uniq(opts ...UniqOption) *command.Cmd[UniqOption] {
	return command.New(UniqKind, command.NewArgs(opts...))
}

// UniqWith returns a uniq command bound to args.
func UniqWith(args command.Args[UniqOption]) *command.Cmd[UniqOption] {
	return command.New(UniqKind, args)
}

func buildUniq(_ context.Context, args command.Args[UniqOption]) (command.Transform, error) {
	if err := command.RequireExclusive(UniqName, args, UniqDuplicatedOnly, UniqUniqueOnly); err != nil {
		return nil, err
	}
	g := &uniqGroup{
		counting:   args.HasOpt(UniqCount),
		dupsOnly:   args.HasOpt(UniqDuplicatedOnly),
		uniqOnly:   args.HasOpt(UniqUniqueOnly),
		ignoreCase: args.HasOpt(UniqIgnoreCase),
	}
	return command.LineFunc{
		Line: func(line string, out lineio.Output) error {
			if g.size > 0 && g.same(line) {
				g.size++
				return nil
			}
			if err := g.emit(out); err != nil {
				return err
			}
			g.first, g.size = line, 1
			return nil
		},
		Done: g.emit,
	}, nil
}

type uniqGroup struct {
	counting, dupsOnly, uniqOnly, ignoreCase bool

	first string
	size  int
}

func (g *uniqGroup) same(line string) bool {
	if g.ignoreCase {
		return strings.EqualFold(g.first, line)
	}
	return g.first == line
}

func (g *uniqGroup) emit(out lineio.Output) error {
	size := g.size
	g.size = 0
	switch {
	case size == 0:
		return nil
	case g.dupsOnly && size < 2, g.uniqOnly && size > 1:
		return nil
	case g.counting:
		return out.WriteLine(fmt.Sprintf("%7d %s", size, g.first))
	}
	return out.WriteLine(g.first)
}
