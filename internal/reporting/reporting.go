// Package reporting forwards boundary failures to Sentry. Every call is a
// no-op until Init succeeds with a DSN.
package reporting

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Init configures the global Sentry client. An empty dsn leaves reporting off.
func Init(dsn, environment string) (bool, error) {
	if dsn == "" {
		return false, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
	if err != nil {
		return false, fmt.Errorf("sentry init: %w", err)
	}
	return true, nil
}

// Capture reports err tagged with the component that observed it.
func Capture(component string, err error) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", component)
		sentry.CaptureException(err)
	})
}

// Flush waits for queued events before the process exits.
func Flush() {
	sentry.Flush(2 * time.Second)
}
