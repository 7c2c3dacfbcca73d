package unix

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kbukum/linekit/command"
	"github.com/kbukum/linekit/errors"
	"github.com/kbukum/linekit/lineio"
)

// GrepName is the grep command name.
const GrepName = "grep"

// GrepOption is an option of the grep command.
type GrepOption uint8

const (
	// GrepIgnoreCase matches without regard to case.
	GrepIgnoreCase GrepOption = iota
	// GrepInvertMatch selects the lines that do not match.
	GrepInvertMatch
	// GrepFixedStrings treats the pattern as a literal string.
	GrepFixedStrings
	// GrepLineNumber prefixes each selected line with its 1-based number.
	GrepLineNumber
	// GrepCount writes only the number of selected lines.
	GrepCount
)

// String returns the option name.
func (o GrepOption) String() string {
	switch o {
	case GrepIgnoreCase:
		return "ignoreCase"
	case GrepInvertMatch:
		return "invertMatch"
	case GrepFixedStrings:
		return "fixedStrings"
	case GrepLineNumber:
		return "lineNumber"
	case GrepCount:
		return "count"
	}
	return "unknown"
}

// GrepKind selects the lines matching a pattern (a regular expression unless
// GrepFixedStrings is set). The pattern is the single operand.
var GrepKind = &command.Kind[GrepOption]{
	Name:     GrepName,
	Mode:     command.LineByLine,
	Alphabet: []GrepOption{GrepIgnoreCase, GrepInvertMatch, GrepFixedStrings, GrepLineNumber, GrepCount},
	Usage:    "PATTERN",
	Build:    buildGrep,
}

// Grep returns a grep command selecting lines matching pattern.
func Grep(pattern string, opts ...GrepOption) *command.Cmd[GrepOption] {
	return command.New(GrepKind, command.NewArgs(opts...).WithOperands(pattern))
}

// GrepWith returns a grep command bound to args.
func GrepWith(args command.Args[GrepOption]) *command.Cmd[GrepOption] {
	return command.New(GrepKind, args)
}

func buildGrep(_ context.Context, args command.Args[GrepOption]) (command.Transform, error) {
	if args.NumOperands() != 1 {
		return nil, errors.InvalidConfiguration(GrepName,
			fmt.Sprintf("grep takes exactly one pattern operand, got %d", args.NumOperands()))
	}
	pattern, _ := args.Operand(0)
	match, err := grepMatcher(pattern, args.HasOpt(GrepFixedStrings), args.HasOpt(GrepIgnoreCase))
	if err != nil {
		return nil, err
	}

	invert := args.HasOpt(GrepInvertMatch)
	numbered := args.HasOpt(GrepLineNumber)
	counting := args.HasOpt(GrepCount)
	lineNo, selected := 0, 0

	fn := command.LineFunc{
		Line: func(line string, out lineio.Output) error {
			lineNo++
			if match(line) == invert {
				return nil
			}
			selected++
			if counting {
				return nil
			}
			if numbered {
				return out.WriteLine(strconv.Itoa(lineNo) + ":" + line)
			}
			return out.WriteLine(line)
		},
	}
	if counting {
		fn.Done = func(out lineio.Output) error {
			return out.WriteLine(strconv.Itoa(selected))
		}
	}
	return fn, nil
}

func grepMatcher(pattern string, fixed, ignoreCase bool) (func(string) bool, error) {
	if fixed {
		if ignoreCase {
			needle := strings.ToLower(pattern)
			return func(line string) bool {
				return strings.Contains(strings.ToLower(line), needle)
			}, nil
		}
		return func(line string) bool { return strings.Contains(line, pattern) }, nil
	}
	if ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.InvalidConfiguration(GrepName, "Invalid pattern: "+err.Error()).
			WithDetail("pattern", pattern)
	}
	return re.MatchString, nil
}
