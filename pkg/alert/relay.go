package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"rpi-dashboard/pkg/telemetry"
)

// Relay is the part of *nostr.Relay the notifier needs, so tests can mock it.
type Relay interface {
	Publish(ctx context.Context, event nostr.Event) error
	Close() error
}

// Dialer opens a relay connection.
type Dialer func(ctx context.Context, url string) (Relay, error)

// DialNostr connects with go-nostr.
func DialNostr(ctx context.Context, url string) (Relay, error) {
	r, err := nostr.RelayConnect(ctx, url)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ContextRelayConnect labels failed dial attempts in telemetry.
const ContextRelayConnect = "relay_connect"

// connect dials url up to maxAttempts times, sleeping backoff*attempt between
// tries. It gives up early if ctx ends.
func connect(ctx context.Context, dial Dialer, url string, maxAttempts int, backoff time.Duration, emit func(telemetry.TelemetryEvent)) (Relay, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		r, err := dial(ctx, url)
		if err == nil {
			return r, nil
		}
		lastErr = err
		emit(telemetry.NewDashboardError(
			fmt.Errorf("attempt %d/%d to %s: %w", attempt, maxAttempts, url, err),
			ContextRelayConnect,
			telemetry.ErrorSeverityWarning))

		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff * time.Duration(attempt)):
		}
	}
	return nil, fmt.Errorf("failed to connect to alert relay %s after %d attempts: %w", url, maxAttempts, lastErr)
}
