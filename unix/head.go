package unix

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kbukum/linekit/command"
	"github.com/kbukum/linekit/errors"
	"github.com/kbukum/linekit/lineio"
)

const (
	// HeadName is the head command name.
	HeadName = "head"
	// TailName is the tail command name.
	TailName = "tail"

	// DefaultLineCount is the number of lines head and tail keep when no
	// count operand is given.
	DefaultLineCount = 10
)

// HeadKind keeps the first N input lines. The optional operand is N.
var HeadKind = &command.Kind[command.NoOption]{
	Name:  HeadName,
	Mode:  command.LineByLine,
	Usage: "[COUNT]",
	Build: buildHead,
}

// Head returns a head command keeping the first n lines.
func Head(n int) *command.Cmd[command.NoOption] {
	return command.New(HeadKind, command.NewArgs[command.NoOption]().WithOperands(strconv.Itoa(n)))
}

// TailKind keeps the last N input lines. The optional operand is N.
var TailKind = &command.Kind[command.NoOption]{
	Name:  TailName,
	Mode:  command.CompleteInput,
	Usage: "[COUNT]",
	Build: buildTail,
}

// Tail returns a tail command keeping the last n lines.
func Tail(n int) *command.Cmd[command.NoOption] {
	return command.New(TailKind, command.NewArgs[command.NoOption]().WithOperands(strconv.Itoa(n)))
}

func buildHead(_ context.Context, args command.Args[command.NoOption]) (command.Transform, error) {
	n, err := lineCount(HeadName, args)
	if err != nil {
		return nil, err
	}
	seen := 0
	return command.LineFunc{
		Line: func(line string, out lineio.Output) error {
			if seen >= n {
				return nil
			}
			seen++
			return out.WriteLine(line)
		},
	}, nil
}

func buildTail(_ context.Context, args command.Args[command.NoOption]) (command.Transform, error) {
	n, err := lineCount(TailName, args)
	if err != nil {
		return nil, err
	}
	return command.BatchFunc(func(lines []string) ([]string, error) {
		if len(lines) > n {
			lines = lines[len(lines)-n:]
		}
		return lines, nil
	}), nil
}

func lineCount(name string, args command.Args[command.NoOption]) (int, error) {
	switch args.NumOperands() {
	case 0:
		return DefaultLineCount, nil
	case 1:
	default:
		return 0, errors.InvalidConfiguration(name,
			fmt.Sprintf("%s takes at most one count operand, got %d", name, args.NumOperands()))
	}
	raw, _ := args.Operand(0)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.InvalidConfiguration(name, "Invalid line count: "+strconv.Quote(raw))
	}
	return n, nil
}
