// Package server runs an http.Handler with graceful shutdown.
//
// The server binds its listener before serving, so Addr reports the real
// address even when configured with port 0. Run adapts the lifecycle to
// errgroup:
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	return g.Wait()
//
// Cancelling ctx stops accepting connections and waits up to the shutdown
// timeout for in-flight requests.
package server
