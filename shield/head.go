package shield

import "net/http"

// HeadToGet converts HEAD requests to GET so that handlers registered
// with r.Get() respond with 200 instead of 405. Uptime monitors probe
// the health endpoint with HEAD; net/http strips the body automatically.
func HeadToGet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			r.Method = http.MethodGet
		}
		next.ServeHTTP(w, r)
	})
}
