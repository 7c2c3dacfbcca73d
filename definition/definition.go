package definition

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/linekit/command"
	"github.com/kbukum/linekit/env"
	"github.com/kbukum/linekit/errors"
	"github.com/kbukum/linekit/pipeline"
	"github.com/kbukum/linekit/validation"
)

// Only the braced form is expanded so that regexp anchors such as "error$"
// in grep operands survive untouched.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// File is the parsed content of a definitions file.
type File struct {
	Pipelines map[string]Definition `yaml:"pipelines" validate:"dive"`
}

// Definition is one named pipeline.
type Definition struct {
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Dir         string  `yaml:"dir,omitempty" json:"dir,omitempty"`
	Stages      []Stage `yaml:"stages" json:"stages" validate:"min=1,dive"`
}

// Stage names a command and the arguments it is built with.
type Stage struct {
	Command  string   `yaml:"command" json:"command" validate:"required"`
	Options  []string `yaml:"options,omitempty" json:"options,omitempty"`
	Operands []string `yaml:"operands,omitempty" json:"operands,omitempty"`
}

// Summary describes a named pipeline for listings.
type Summary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Stages      int    `json:"stages"`
}

// CommandBuilder builds a command from its name, option names and operands.
// *unix.Registry satisfies it.
type CommandBuilder interface {
	Build(name string, options, operands []string) (command.Command, error)
}

// Load reads and parses the definitions file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return nil, appErr.WithDetail("file", path)
		}
		return nil, err
	}
	return f, nil
}

// Parse decodes and validates definitions from YAML. Unknown keys are
// rejected. An empty document yields a file with no pipelines.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(expandEnvVars(data)))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.Validation("invalid definitions file").WithCause(err)
	}
	if f.Pipelines == nil {
		f.Pipelines = make(map[string]Definition)
	}
	if err := validation.Validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Names returns the pipeline names in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Pipelines))
	for name := range f.Pipelines {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the named definition.
func (f *File) Lookup(name string) (Definition, bool) {
	d, ok := f.Pipelines[name]
	return d, ok
}

// Summaries describes every pipeline, sorted by name.
func (f *File) Summaries() []Summary {
	out := make([]Summary, 0, len(f.Pipelines))
	for _, name := range f.Names() {
		d := f.Pipelines[name]
		out = append(out, Summary{Name: name, Description: d.Description, Stages: len(d.Stages)})
	}
	return out
}

// Build resolves every stage of the named pipeline through b. Unknown
// pipeline names yield a NOT_FOUND error. Stage errors carry the pipeline
// name and the stage index as details.
func (f *File) Build(name string, b CommandBuilder) (*pipeline.Builder, error) {
	d, ok := f.Pipelines[name]
	if !ok {
		return nil, errors.NotFound("pipeline", name)
	}
	p, err := d.Build(b)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return nil, appErr.WithDetail("pipeline", name)
		}
		return nil, err
	}
	return p.Named(name), nil
}

// Build resolves the stages through b. A non-empty Dir becomes the
// pipeline's current directory.
func (d Definition) Build(b CommandBuilder) (*pipeline.Builder, error) {
	if len(d.Stages) == 0 {
		return nil, errors.InvalidInput("stages", "at least one stage is required")
	}
	p := pipeline.Start()
	for i, s := range d.Stages {
		cmd, err := b.Build(s.Command, s.Options, s.Operands)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				return nil, appErr.WithDetail("stage", i)
			}
			return nil, err
		}
		p.Then(cmd)
	}
	if d.Dir != "" {
		p.WithEnv(env.NewWithDir(d.Dir))
	}
	return p, nil
}

func expandEnvVars(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := string(match[2 : len(match)-1])
		if val, ok := os.LookupEnv(name); ok {
			return []byte(val)
		}
		return match
	})
}
