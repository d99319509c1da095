package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/giftconnect/giftconnect-backend/api/responses"
	pkgerrors "github.com/giftconnect/giftconnect-backend/pkg/errors"
	"github.com/giftconnect/giftconnect-backend/pkg/logger"
	"github.com/giftconnect/giftconnect-backend/pkg/observability"
)

// Recoverer turns a handler panic into a 500 envelope and reports it to
// sentry. http.ErrAbortHandler is re-raised so net/http can drop the
// connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				ctx := r.Context()
				observability.CapturePanic(ctx, rec)

				cause := fmt.Errorf("recovered panic in %s %s: %v", r.Method, r.URL.Path, rec)
				if logg != nil {
					logg.Error(logg.WithField(ctx, "panic", fmt.Sprint(rec)), "handler panicked", cause)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, cause, "panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
