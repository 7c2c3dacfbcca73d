// Package bootstrap runs a long-lived linekit host: start hooks, then a wait
// for the context to end, then stop hooks within a graceful timeout.
//
//	app := bootstrap.New("linekit", version.Version)
//	app.OnStart(srv.Start)
//	app.OnStop(srv.Stop)
//	err := app.Run(ctx) // returns after ctx is canceled
package bootstrap
