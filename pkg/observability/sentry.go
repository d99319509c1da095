package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/giftconnect/giftconnect-backend/pkg/config"
)

const flushTimeout = 2 * time.Second

// Init configures the global Sentry client. It is a no-op when no DSN is set,
// in which case capture calls are silently dropped.
func Init(cfg config.SentryConfig, app config.AppConfig, release string) (func(), error) {
	if !cfg.Enabled() {
		return func() {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      app.Env,
		Release:          release,
		TracesSampleRate: cfg.TracesSampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, fmt.Errorf("init sentry: %w", err)
	}
	return func() { sentry.Flush(flushTimeout) }, nil
}

// CaptureError reports err on the hub bound to ctx, falling back to the global hub.
func CaptureError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	hubFromContext(ctx).CaptureException(err)
}

// CapturePanic reports a recovered panic value.
func CapturePanic(ctx context.Context, recovered any) {
	if recovered == nil {
		return
	}
	hubFromContext(ctx).RecoverWithContext(ctx, recovered)
}

func hubFromContext(ctx context.Context) *sentry.Hub {
	if ctx != nil {
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			return hub
		}
	}
	return sentry.CurrentHub()
}
