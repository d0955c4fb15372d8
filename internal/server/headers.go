package server

import (
	"net/http"
	"strings"
)

// withIsolationHeaders adds the cross-origin isolation pair required for
// SharedArrayBuffer in the browser engine.
func (s *Server) withIsolationHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
		next.ServeHTTP(w, r)
	})
}

// withCacheControl applies the HTML cache policy to pages and the immutable
// policy to everything else. Paths without an extension are treated as pages,
// matching how the UI routes are served.
func (s *Server) withCacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if strings.HasSuffix(path, ".html") || strings.HasSuffix(path, "/") || !strings.Contains(path, ".") {
			w.Header().Set("Cache-Control", s.cfg.Server.HTMLCacheControl)
		} else {
			w.Header().Set("Cache-Control", s.cfg.Server.CacheControl)
		}
		next.ServeHTTP(w, r)
	})
}
