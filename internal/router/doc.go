// Package router matches requests against the gateway route table.
//
// Routes are compiled once from configuration and evaluated in the
// order they were declared; the first route whose method filter and
// path pattern both accept the request wins. Path patterns are
// Ant-style:
//
//	/api/backend/users   exact (empty segments ignored)
//	/api/*/health        "*" matches exactly one segment
//	/api/backend/**      "**" matches zero or more trailing segments
//
// A Router is immutable after New and safe for concurrent use.
//
//	r, err := router.New(cfg.Spec.Routes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := r.Match(req)
//	if err != nil {
//	    // no route, err is *util.RouteNotFoundError
//	}
//	target := result.Route.Upstream.JoinPath(result.ForwardPath)
package router
