package unix

import (
	"fmt"
	"slices"
	"sync"

	"github.com/kbukum/linekit/command"
	"github.com/kbukum/linekit/errors"
)

// Factory builds a command from option names and operands.
type Factory func(options, operands []string) (command.Command, error)

// Entry describes a registered command. Files is set when the operands name
// files to read.
type Entry struct {
	Name    string       `json:"name"`
	Mode    command.Mode `json:"mode"`
	Options []string     `json:"options"`
	Usage   string       `json:"usage,omitempty"`
	Files   bool         `json:"files,omitempty"`
	Factory Factory      `json:"-"`
}

// Registry resolves command names to factories. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds an entry. It panics on an empty name, a nil factory or a
// name that is already registered.
func (r *Registry) Register(e Entry) {
	if e.Name == "" || e.Factory == nil {
		panic("unix: Register requires a name and a factory")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.entries[e.Name]; dup {
		panic(fmt.Sprintf("unix: command %q already registered", e.Name))
	}
	r.entries[e.Name] = e
}

// RegisterKind registers a command kind under its own name.
func RegisterKind[O command.Option](r *Registry, kind *command.Kind[O]) {
	r.Register(Entry{
		Name:    kind.Name,
		Mode:    kind.Mode,
		Options: kind.OptionNames(),
		Usage:   kind.Usage,
		Files:   kind.FileOperands,
		Factory: func(options, operands []string) (command.Command, error) {
			args, err := kind.ParseArgs(options, operands)
			if err != nil {
				return nil, err
			}
			return command.New(kind, args), nil
		},
	})
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Describe returns every entry sorted by name.
func (r *Registry) Describe() []Entry {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(names))
	for _, name := range names {
		if e, ok := r.entries[name]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Build resolves name and builds a command from options and operands.
// Argument validation is still deferred to execution; only option names are
// checked here.
func (r *Registry) Build(name string, options, operands []string) (command.Command, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return nil, errors.UnknownCommand(name)
	}
	return e.Factory(options, operands)
}

// DefaultRegistry holds the whole catalog.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterKind(r, CatKind)
	RegisterKind(r, GrepKind)
	RegisterKind(r, HeadKind)
	RegisterKind(r, TailKind)
	RegisterKind(r, SortKind)
	RegisterKind(r, UniqKind)
	RegisterKind(r, WcKind)
	return r
}
