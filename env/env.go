package env

import (
	"context"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// Context is a lazily-resolved, cached snapshot of the host environment.
// It is safe for concurrent readers.
type Context struct {
	mu            sync.Mutex
	currentDir    string
	currentDirSet bool
	user          string
	userSet       bool
	userHome      string
	userHomeSet   bool
	tempDir       string
	tempDirSet    bool
}

// New creates a Context whose fields all resolve on first access.
func New() *Context {
	return &Context{}
}

// NewWithDir creates a Context with the current directory preset to dir.
func NewWithDir(dir string) *Context {
	c := &Context{}
	c.SetCurrentDirectory(dir)
	return c
}

// SetCurrentDirectory overrides the current directory. Lazy resolution is
// bypassed from then on.
func (c *Context) SetCurrentDirectory(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentDir = dir
	c.currentDirSet = true
}

// CurrentDirectory returns the working directory, resolved from the process
// on first use. Falls back to "." when the process directory is unavailable.
func (c *Context) CurrentDirectory() string {
	return c.resolve(&c.currentDir, &c.currentDirSet, func() string {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
		return "."
	})
}

// User returns the current user name.
func (c *Context) User() string {
	return c.resolve(&c.user, &c.userSet, func() string {
		if u, err := user.Current(); err == nil && u.Username != "" {
			return u.Username
		}
		if name := os.Getenv("USER"); name != "" {
			return name
		}
		return os.Getenv("USERNAME")
	})
}

// UserHome returns the user's home directory.
func (c *Context) UserHome() string {
	return c.resolve(&c.userHome, &c.userHomeSet, func() string {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return os.Getenv("HOME")
	})
}

// TempDirectory returns the directory for temporary files.
func (c *Context) TempDirectory() string {
	return c.resolve(&c.tempDir, &c.tempDirSet, os.TempDir)
}

// Env returns a snapshot of the process environment taken at call time.
func (c *Context) Env() map[string]string {
	environ := os.Environ()
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		m[k] = v
	}
	return m
}

// Getenv looks up a single environment variable.
func (c *Context) Getenv(name string) (string, bool) {
	return os.LookupEnv(name)
}

// Sys returns a snapshot of system properties taken at call time.
func (c *Context) Sys() map[string]string {
	return map[string]string{
		"os.name":        runtime.GOOS,
		"os.arch":        runtime.GOARCH,
		"go.version":     runtime.Version(),
		"file.separator": string(filepath.Separator),
		"path.separator": string(filepath.ListSeparator),
		"line.separator": "\n",
		"user.dir":       c.CurrentDirectory(),
		"user.home":      c.UserHome(),
		"user.name":      c.User(),
		"tmp.dir":        c.TempDirectory(),
	}
}

// Resolve joins a relative path onto the current directory. Absolute paths
// are returned cleaned.
func (c *Context) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(c.CurrentDirectory(), path)
}

func (c *Context) resolve(field *string, set *bool, fn func() string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !*set {
		*field = fn()
		*set = true
	}
	return *field
}

type contextKey struct{}

// WithContext stores c in ctx.
func WithContext(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the Context stored in ctx, or a new lazy Context
// describing the current process when none is stored.
func FromContext(ctx context.Context) *Context {
	if c, ok := ctx.Value(contextKey{}).(*Context); ok && c != nil {
		return c
	}
	return New()
}
