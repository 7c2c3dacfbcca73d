package unix

import (
	"github.com/kbukum/linekit/command"
	"github.com/kbukum/linekit/pipeline"
)

// Builder is a pipeline builder with one method per catalog command.
type Builder struct {
	*pipeline.Builder
}

// Start begins an empty catalog pipeline.
func Start() *Builder {
	return &Builder{Builder: pipeline.Start()}
}

// Then appends any command.
func (b *Builder) Then(cmd command.Command) *Builder {
	b.Builder.Then(cmd)
	return b
}

// Cat appends cat reading files, or the pipeline input when none are given.
func (b *Builder) Cat(files ...string) *Builder { return b.Then(Cat(files...)) }

// Grep appends grep.
func (b *Builder) Grep(pattern string, opts ...GrepOption) *Builder {
	return b.Then(Grep(pattern, opts...))
}

// Head appends head.
func (b *Builder) Head(n int) *Builder { return b.Then(Head(n)) }

// Tail appends tail.
func (b *Builder) Tail(n int) *Builder { return b.Then(Tail(n)) }

// Sort appends sort.
func (b *Builder) Sort(opts ...SortOption) *Builder { return b.Then(Sort(opts...)) }

// Uniq appends uniq.
func (b *Builder) Uniq(opts ...UniqOption) *Builder { return b.Then(Uniq(opts...)) }

// Wc appends wc.
func (b *Builder) Wc(opts ...WcOption) *Builder { return b.Then(Wc(opts...)) }
