package source

import (
	"context"

	"vigil/internal/telemetry"
)

// Source is an external telemetry adapter the background poller pulls
// from: one reading per call. Implementations own any retry or backoff
// for a flaky underlying bus; the monitor performs none.
type Source interface {
	Read(ctx context.Context) (telemetry.Reading, error)
}

// Func adapts a plain function to a Source
type Func func(ctx context.Context) (telemetry.Reading, error)

func (f Func) Read(ctx context.Context) (telemetry.Reading, error) {
	return f(ctx)
}
