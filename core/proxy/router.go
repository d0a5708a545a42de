package proxy

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/SinArtur/Sstu-DB/core/logger"
)

// Router mounts the proxy at "/" next to a /live probe.
func (p *Proxy) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(p.accessLog)

	r.Get("/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/", p)
	return r
}

func (p *Proxy) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		p.logger.InfoContext(r.Context(), "request",
			logger.Component("proxy"),
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.StatusCode(ww.Status()),
			logger.Latency(time.Since(start)),
			logger.RequestID(middleware.GetReqID(r.Context())),
		)
	})
}
