// Package bootstrap runs the service lifecycle: typed config checks, logger
// setup, start/ready/stop hooks, a startup summary and graceful shutdown on
// SIGINT or SIGTERM.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnStart(srv.Start)
//	app.OnStop(srv.Stop)
//	err = app.Run(ctx)
package bootstrap
