package alert

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"rpi-dashboard/pkg/health"
	"rpi-dashboard/pkg/snapshot"
	"rpi-dashboard/pkg/telemetry"
)

const (
	HashTag = "rpi-health"

	DefaultMaxAttempts = 3
	DefaultBackoff     = 2 * time.Second
	publishTimeout     = 10 * time.Second
)

type Config struct {
	RelayURL    string
	SecretKey   string
	DeviceLabel string
	MaxAttempts int
	Backoff     time.Duration
}

// Condition summarises whether a reading needs attention. Key identifies
// the condition for deduplication and ignores the exact temperature.
type Condition struct {
	Key      string
	Alerting bool
	Summary  string
}

// ConditionOf classifies a reading: high temperature or any current
// throttle flag is alerting. An undecodable throttle status is not.
func ConditionOf(r *health.Reading) Condition {
	sev := health.SeverityOf(r.Temperature)
	flags := health.DecodeThrottle(r.ThrottleStatus)

	throttled := !(len(flags) == 1 && (flags[0] == health.FlagNormal || flags[0] == health.FlagUnknown))
	alerting := sev == health.SeverityHigh || throttled

	var parts []string
	if sev == health.SeverityHigh {
		parts = append(parts, "temperature "+health.FormatTemperature(r.Temperature))
	}
	if throttled {
		parts = append(parts, "throttle: "+strings.Join(flags, ", "))
	}
	summary := "back to normal"
	if alerting {
		summary = strings.Join(parts, "; ")
	}

	return Condition{
		Key:      sev.String() + "|" + strings.Join(flags, ","),
		Alerting: alerting,
		Summary:  summary,
	}
}

// Notifier publishes a signed note when the latest reading enters or
// leaves an alerting condition. Repeated readings in the same condition
// publish nothing.
type Notifier struct {
	cfg       Config
	keys      *KeyPair
	dial      Dialer
	logger    *log.Logger
	publisher telemetry.TelemetryPublisher

	readings chan health.Reading

	// Owned by the run goroutine
	relay        Relay
	lastKey      string
	lastAlerting bool

	ctx       context.Context
	cancel    context.CancelFunc
	waitGroup sync.WaitGroup
}

func NewNotifier(cfg Config, dial Dialer, logger *log.Logger, publisher telemetry.TelemetryPublisher) (*Notifier, error) {
	keys, err := DeriveKeyPair(cfg.SecretKey)
	if err != nil {
		return nil, err
	}
	if dial == nil {
		dial = DialNostr
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if publisher == nil {
		publisher = telemetry.NewNoopPublisher()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Notifier{
		cfg:       cfg,
		keys:      keys,
		dial:      dial,
		logger:    logger,
		publisher: publisher,
		readings:  make(chan health.Reading, 1),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

func (n *Notifier) PublicKey() string { return n.keys.PublicKeyBech32 }

// Observe is a snapshot listener. It never blocks: when a reading is
// already queued it is replaced by the newer one.
func (n *Notifier) Observe(st snapshot.State[health.Snapshot]) {
	if !st.HasData || st.Data.Latest == nil || st.Status != snapshot.StatusIdle {
		return
	}
	r := *st.Data.Latest
	for {
		select {
		case n.readings <- r:
			return
		default:
		}
		select {
		case <-n.readings:
		default:
		}
	}
}

func (n *Notifier) Start() {
	n.logger.Printf("alerts for %s will be signed by %s", n.cfg.DeviceLabel, n.keys.PublicKeyBech32)
	n.waitGroup.Add(1)
	go func() {
		defer n.waitGroup.Done()
		for {
			select {
			case <-n.ctx.Done():
				return
			case r := <-n.readings:
				n.handle(n.ctx, r)
			}
		}
	}()
}

func (n *Notifier) Stop() {
	n.cancel()
	n.waitGroup.Wait()
	if n.relay != nil {
		_ = n.relay.Close()
		n.relay = nil
	}
}

func (n *Notifier) handle(ctx context.Context, r health.Reading) {
	cond := ConditionOf(&r)
	if cond.Key == n.lastKey {
		return
	}
	// Entering normal from normal (first reading, or a flag set that
	// changed without alerting) is not worth a note.
	if !cond.Alerting && !n.lastAlerting {
		n.lastKey = cond.Key
		return
	}

	content := fmt.Sprintf("[%s] %s", n.cfg.DeviceLabel, cond.Summary)
	if !r.Timestamp.IsZero() {
		content += " at " + r.Timestamp.UTC().Format(time.RFC3339)
	}
	if err := n.publish(ctx, content); err != nil {
		// Leave lastKey alone so the next reading retries.
		n.logger.Printf("alert publish failed: %v", err)
		n.publisher.Publish(telemetry.NewDashboardError(err, "alert_publish", telemetry.ErrorSeverityError))
		return
	}

	n.lastKey = cond.Key
	n.lastAlerting = cond.Alerting
	n.logger.Printf("alert published: %s", content)
	n.publisher.Publish(telemetry.NewAlertPublished(n.cfg.DeviceLabel, cond.Summary))
}

func (n *Notifier) publish(ctx context.Context, content string) error {
	if n.relay == nil {
		r, err := connect(ctx, n.dial, n.cfg.RelayURL, n.cfg.MaxAttempts, n.cfg.Backoff, n.publisher.Publish)
		if err != nil {
			return err
		}
		n.relay = r
	}

	ev, err := BuildEvent(n.keys, n.cfg.DeviceLabel, content, nostr.Now())
	if err != nil {
		return err
	}

	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := n.relay.Publish(pctx, ev); err != nil {
		_ = n.relay.Close()
		n.relay = nil
		return fmt.Errorf("failed to publish to %s: %w", n.cfg.RelayURL, err)
	}
	return nil
}

// BuildEvent returns a signed kind-1 note tagged with the device label.
func BuildEvent(keys *KeyPair, device, content string, createdAt nostr.Timestamp) (nostr.Event, error) {
	ev := nostr.Event{
		PubKey:    keys.PublicKeyHex,
		CreatedAt: createdAt,
		Kind:      nostr.KindTextNote,
		Tags: nostr.Tags{
			{"t", HashTag},
			{"device", device},
		},
		Content: content,
	}
	if err := ev.Sign(keys.PrivateKeyHex); err != nil {
		return nostr.Event{}, fmt.Errorf("failed to sign alert: %w", err)
	}
	return ev, nil
}
