package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kbukum/linekit/errors"
)

// Option is a flag drawn from one command kind's closed enumeration.
// Option values are small integers (at most 64 per kind).
type Option interface {
	~uint8
	fmt.Stringer
}

// maxOptions is the size of an option alphabet.
const maxOptions = 64

// Args is an immutable set of options plus an ordered list of operands bound
// to one command instance. The zero value is the empty argument set.
type Args[O Option] struct {
	opts     uint64
	operands []string
}

// NewArgs creates an argument set holding opts. It never fails; options
// outside the alphabet range are ignored.
func NewArgs[O Option](opts ...O) Args[O] {
	var a Args[O]
	for _, o := range opts {
		a.opts |= bit(o)
	}
	return a
}

func bit[O Option](o O) uint64 {
	if uint8(o) >= maxOptions {
		return 0
	}
	return 1 << uint8(o)
}

// WithOpts returns a copy of a with opts added.
func (a Args[O]) WithOpts(opts ...O) Args[O] {
	out := Args[O]{opts: a.opts, operands: a.operands}
	for _, o := range opts {
		out.opts |= bit(o)
	}
	return out
}

// WithOperands returns a copy of a whose operands are replaced by operands.
func (a Args[O]) WithOperands(operands ...string) Args[O] {
	cp := make([]string, len(operands))
	copy(cp, operands)
	return Args[O]{opts: a.opts, operands: cp}
}

// HasOpt reports whether o is set.
func (a Args[O]) HasOpt(o O) bool {
	b := bit(o)
	return b != 0 && a.opts&b != 0
}

// Opts returns the set options in ascending order.
func (a Args[O]) Opts() []O {
	var opts []O
	for i := 0; i < maxOptions; i++ {
		if a.opts&(1<<uint(i)) != 0 {
			opts = append(opts, O(i))
		}
	}
	return opts
}

// Operands returns a copy of the operands.
func (a Args[O]) Operands() []string {
	cp := make([]string, len(a.operands))
	copy(cp, a.operands)
	return cp
}

// Operand returns the i-th operand.
func (a Args[O]) Operand(i int) (string, bool) {
	if i < 0 || i >= len(a.operands) {
		return "", false
	}
	return a.operands[i], true
}

// NumOperands returns the number of operands.
func (a Args[O]) NumOperands() int { return len(a.operands) }

// IsEmpty reports whether no option and no operand is set.
func (a Args[O]) IsEmpty() bool {
	return a.opts == 0 && len(a.operands) == 0
}

// String renders the arguments the way a shell user would type them,
// e.g. "--ignoreCase error".
func (a Args[O]) String() string {
	parts := make([]string, 0, len(a.operands)+4)
	for _, o := range a.Opts() {
		parts = append(parts, "--"+o.String())
	}
	for _, op := range a.operands {
		if op == "" || strings.ContainsAny(op, " \t\"'") {
			op = strconv.Quote(op)
		}
		parts = append(parts, op)
	}
	return strings.Join(parts, " ")
}

// RequireExclusive returns an invalid-configuration error when both x and y
// are set in args.
func RequireExclusive[O Option](name string, args Args[O], x, y O) error {
	if args.HasOpt(x) && args.HasOpt(y) {
		return errors.InvalidConfiguration(name,
			fmt.Sprintf("Options %s and %s cannot be specified at the same time", x, y)).
			WithDetail("options", []string{x.String(), y.String()})
	}
	return nil
}

// ParseOption resolves name against alphabet, ignoring case. A leading "--"
// or "-" is stripped.
func ParseOption[O Option](alphabet []O, name string) (O, bool) {
	name = strings.TrimLeft(name, "-")
	for _, o := range alphabet {
		if strings.EqualFold(o.String(), name) {
			return o, true
		}
	}
	var zero O
	return zero, false
}

// NoOption is the alphabet of command kinds that take no options.
type NoOption uint8

// String returns "none".
func (NoOption) String() string { return "none" }
