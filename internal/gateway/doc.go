// Package gateway owns the gateway HTTP listener and its gin engine.
//
// The engine serves the health route explicitly; every other request
// falls through the engine's no-route hook to the route handler,
// normally the reverse proxy. Trailing slash and fixed path redirects
// are disabled so such requests reach the route handler unchanged.
//
// # Lifecycle
//
// A Gateway moves stopped → starting → running → stopping → stopped.
//
//	gw, err := gateway.New(cfg,
//	    gateway.WithLogger(logger),
//	    gateway.WithRouteHandler(reverseProxy),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := gw.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer gw.Stop(ctx)
package gateway
