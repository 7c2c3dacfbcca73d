package unix

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/linekit/command"
	"github.com/kbukum/linekit/env"
	"github.com/kbukum/linekit/lineio"
)

// CatName is the cat command name.
const CatName = "cat"

// CatOption is an option of the cat command.
type CatOption uint8

const (
	// CatNumberLines prefixes every output line with its 1-based number.
	CatNumberLines CatOption = iota
)

// String returns the option name.
func (o CatOption) String() string {
	if o == CatNumberLines {
		return "numberLines"
	}
	return "unknown"
}

// CatKind copies its input to its output. When file operands are given the
// files are streamed in order and the input is never read; relative paths
// resolve against the execution context's current directory.
var CatKind = &command.Kind[CatOption]{
	Name:         CatName,
	Mode:         command.LineByLine,
	Alphabet:     []CatOption{CatNumberLines},
	Usage:        "[FILE...]",
	FileOperands: true,
	Build:        buildCat,
}

// Cat returns a cat command reading the given files, or its input when no
// files are given.
func Cat(files ...string) *command.Cmd[CatOption] {
	return command.New(CatKind, command.NewArgs[CatOption]().WithOperands(files...))
}

// CatWith returns a cat command bound to args.
func CatWith(args command.Args[CatOption]) *command.Cmd[CatOption] {
	return command.New(CatKind, args)
}

func buildCat(ctx context.Context, args command.Args[CatOption]) (command.Transform, error) {
	numbered := args.HasOpt(CatNumberLines)
	n := 0
	write := func(line string, out lineio.Output) error {
		if numbered {
			n++
			line = fmt.Sprintf("%6d\t%s", n, line)
		}
		return out.WriteLine(line)
	}

	files := args.Operands()
	if len(files) == 0 {
		return command.LineFunc{Line: write}, nil
	}

	ec := env.FromContext(ctx)
	paths := make([]string, len(files))
	for i, name := range files {
		paths[i] = ec.Resolve(name)
	}
	src := &catFiles{paths: paths}
	return command.LineFunc{
		Line:   write,
		Source: catSource{Input: lineio.FromIterator(ctx, src), files: src},
	}, nil
}

// catFiles yields the lines of each file in turn, opening a file only once
// the previous one is exhausted.
type catFiles struct {
	paths []string
	file  *os.File
	lines lineio.Input
}

func (f *catFiles) Next(ctx context.Context) (string, bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		if f.lines != nil {
			more, err := f.lines.HasMoreLines()
			if err != nil {
				return "", false, err
			}
			if more {
				line, err := f.lines.ReadLine()
				return line, err == nil, err
			}
			if err := f.Close(); err != nil {
				return "", false, err
			}
		}
		if len(f.paths) == 0 {
			return "", false, nil
		}
		file, err := os.Open(f.paths[0])
		if err != nil {
			return "", false, err
		}
		f.paths = f.paths[1:]
		f.file, f.lines = file, lineio.FromReader(file)
	}
}

// Close closes the file currently being read.
func (f *catFiles) Close() error {
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file, f.lines = nil, nil
	return err
}

type catSource struct {
	lineio.Input
	files *catFiles
}

func (s catSource) Close() error { return s.files.Close() }
