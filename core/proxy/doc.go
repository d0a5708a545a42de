// Package proxy forwards browser requests to the university schedule site
// (rasp.sstu.ru), which does not send CORS headers.
//
// A request to /?url=<target> is re-issued against target with browser-like
// headers. The response status and Content-Type are copied back together with
// permissive CORS headers. Without the url parameter the default target is
// fetched. OPTIONS requests are answered locally.
//
// Unlike an open proxy, only hosts in the allow-list are reachable, and
// redirects are followed only while they stay inside it. Upstream failures
// produce a 500 with a plain "Error: <message>" body.
//
//	p, err := proxy.NewFromConfig(cfg, proxy.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	srv.Run(ctx, p.Router())
package proxy
