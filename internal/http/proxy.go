package httpx

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// NewBackendProxy builds a reverse proxy to the resource backend. The
// transport is expected to be an AuthTransport so proxied requests
// carry the session's bearer token and 401 responses tear the session
// down.
func NewBackendProxy(target *url.URL, transport http.RoundTripper, logger *slog.Logger) http.Handler {
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		Transport: transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("backend proxy error",
				slog.String("path", r.URL.Path),
				slog.Any("error", err))
			http.Error(w, "Bad Gateway", http.StatusBadGateway)
		},
	}
	return proxy
}
