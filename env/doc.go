// Package env provides the ambient execution facts a command may need: the
// current directory, the user, the home and temp directories, the process
// environment and a set of system properties.
//
// A Context resolves each directory/user field lazily on first access and
// caches it for its lifetime. Only the current directory can be overridden,
// and overrides are expected before a run starts. Env and Sys return fresh
// snapshots on every call.
//
// Commands find their Context through context.Context:
//
//	ctx = env.WithContext(ctx, env.NewWithDir("/srv/logs"))
//	dir := env.FromContext(ctx).CurrentDirectory()
package env
