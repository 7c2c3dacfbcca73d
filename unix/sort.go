package unix

import (
	"context"
	"slices"
	"strings"

	"github.com/kbukum/linekit/command"
)

// SortName is the sort command name.
const SortName = "sort"

// SortOption is an option of the sort command.
type SortOption uint8

const (
	// SortAscending sorts in ascending order (the default).
	SortAscending SortOption = iota
	// SortDescending sorts in descending order.
	SortDescending
)

// String returns the option name.
func (o SortOption) String() string {
	switch o {
	case SortAscending:
		return "ascending"
	case SortDescending:
		return "descending"
	}
	return "unknown"
}

// SortKind sorts every input line lexicographically. Ascending and
// descending are mutually exclusive; descending output is the ascending
// output reversed.
//
// Lines compare by UTF-8 bytes, which is code point order. UTF-16 code unit
// order differs for characters above U+FFFF: they sort after U+E000-U+FFFF
// here and before them in UTF-16.
var SortKind = &command.Kind[SortOption]{
	Name:     SortName,
	Mode:     command.CompleteInput,
	Alphabet: []SortOption{SortAscending, SortDescending},
	Build:    buildSort,
}

// Sort returns a sort command with the given options.
func Sort(opts ...SortOption) *command.Cmd[SortOption] {
	return command.New(SortKind, command.NewArgs(opts...))
}

// SortWith returns a sort command bound to args.
func SortWith(args command.Args[SortOption]) *command.Cmd[SortOption] {
	return command.New(SortKind, args)
}

func buildSort(_ context.Context, args command.Args[SortOption]) (command.Transform, error) {
	if err := command.RequireExclusive(SortName, args, SortAscending, SortDescending); err != nil {
		return nil, err
	}
	descending := args.HasOpt(SortDescending)
	return command.BatchFunc(func(lines []string) ([]string, error) {
		slices.SortStableFunc(lines, strings.Compare)
		if descending {
			slices.Reverse(lines)
		}
		return lines, nil
	}), nil
}

