package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// HTTPObserver records one finished request.
type HTTPObserver interface {
	Observe(method, route string, status int, elapsed time.Duration)
}

// Metrics reports every request under its chi route pattern so path ids do
// not explode label cardinality.
func Metrics(observer HTTPObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if observer == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			observer.Observe(r.Method, routePattern(r), writtenStatus(ww), time.Since(start))
		})
	}
}
