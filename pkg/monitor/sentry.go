// Package monitor reports unexpected server-side failures to Sentry.
package monitor

import (
	"time"

	"github.com/getsentry/sentry-go"
)

type Options struct {
	DSN         string
	ServerName  string
	Release     string
	Environment string
}

// Init configures the Sentry client. An empty DSN leaves reporting disabled;
// capture calls are then no-ops.
func Init(opt Options) error {
	if opt.DSN == "" {
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              opt.DSN,
		AttachStacktrace: true,
		ServerName:       opt.ServerName,
		Release:          opt.Release,
		Environment:      opt.Environment,
	})
}

// CaptureError sends err with the given tags attached.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

// CapturePanic reports a recovered panic value.
func CapturePanic(v any) {
	sentry.CurrentHub().Recover(v)
}

// Flush waits for queued events to be delivered.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}
