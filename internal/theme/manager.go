package theme

import (
	"context"
	"fmt"
	"sync"

	"github.com/2beens/repcheck/internal/kv"
	"github.com/2beens/repcheck/internal/telemetry/metrics"
	"github.com/2beens/repcheck/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	KeyThemeMode = "@repcheck_theme_mode"

	subscriberBuffer = 4
)

// Manager is the only place the theme mode is read, changed and announced from
type Manager struct {
	scoper         kv.Scoper
	defaultMode    Mode
	metricsManager *metrics.Manager

	locksMutex sync.Mutex
	locks      map[string]*ghostLock

	mu          sync.Mutex
	closed      bool
	nextSubID   int
	subscribers map[string]map[int]chan Theme
}

type ghostLock struct {
	sync.Mutex
	refs int
}

func NewManager(scoper kv.Scoper, defaultMode Mode, metricsManager *metrics.Manager) *Manager {
	if _, err := ParseMode(string(defaultMode)); err != nil {
		defaultMode = ModeLight
	}
	return &Manager{
		scoper:         scoper,
		defaultMode:    defaultMode,
		metricsManager: metricsManager,
		locks:          make(map[string]*ghostLock),
		subscribers:    make(map[string]map[int]chan Theme),
	}
}

func (m *Manager) lock(ghostID string) func() {
	m.locksMutex.Lock()
	l, ok := m.locks[ghostID]
	if !ok {
		l = &ghostLock{}
		m.locks[ghostID] = l
	}
	l.refs++
	m.locksMutex.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		m.locksMutex.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, ghostID)
		}
		m.locksMutex.Unlock()
	}
}

// Mode returns the stored mode, or the default one when nothing (valid) is stored
func (m *Manager) Mode(ctx context.Context, ghostID string) Theme {
	ctx, span := tracing.GlobalTracer.Start(ctx, "theme.manager.mode")
	defer span.End()

	value, found, err := m.scoper.Scoped(ghostID).Get(ctx, KeyThemeMode)
	if err != nil {
		log.Errorf("theme: get mode for %s: %s", ghostID, err)
		m.metricsManager.CounterStorageFailures.WithLabelValues("get_theme").Inc()
		return ForMode(m.defaultMode)
	}
	if !found {
		return ForMode(m.defaultMode)
	}

	mode, err := ParseMode(value)
	if err != nil {
		log.Warnf("theme: stored mode for %s: %s", ghostID, err)
		return ForMode(m.defaultMode)
	}
	return ForMode(mode)
}

// Toggle flips the mode, saves it and tells every subscriber of that ghost
func (m *Manager) Toggle(ctx context.Context, ghostID string) (_ Theme, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "theme.manager.toggle")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	unlock := m.lock(ghostID)
	defer unlock()

	current := m.Mode(ctx, ghostID)
	next := ForMode(current.Mode.Toggled())
	span.SetAttributes(attribute.String("mode", string(next.Mode)))

	if err := m.scoper.Scoped(ghostID).Set(ctx, KeyThemeMode, string(next.Mode)); err != nil {
		m.metricsManager.CounterStorageFailures.WithLabelValues("set_theme").Inc()
		return current, fmt.Errorf("save theme mode: %w", err)
	}

	m.metricsManager.CounterThemeToggles.Inc()
	m.broadcast(ghostID, next)
	return next, nil
}

func (m *Manager) broadcast(ghostID string, theme Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for subID, ch := range m.subscribers[ghostID] {
		select {
		case ch <- theme:
		default:
			log.Warnf("theme: subscriber %d of %s is slow, update dropped", subID, ghostID)
		}
	}
}

// Subscribe returns a channel of theme changes for the ghost, and the func
// to call when done listening. The channel is closed by that func, or by
// Close, whichever comes first.
func (m *Manager) Subscribe(ghostID string) (<-chan Theme, func()) {
	ch := make(chan Theme, subscriberBuffer)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	subID := m.nextSubID
	m.nextSubID++
	if m.subscribers[ghostID] == nil {
		m.subscribers[ghostID] = make(map[int]chan Theme)
	}
	m.subscribers[ghostID][subID] = ch
	m.mu.Unlock()

	m.metricsManager.GaugeThemeSubscribers.Inc()

	unsubscribe := func() {
		m.mu.Lock()
		_, registered := m.subscribers[ghostID][subID]
		if registered {
			delete(m.subscribers[ghostID], subID)
			if len(m.subscribers[ghostID]) == 0 {
				delete(m.subscribers, ghostID)
			}
			close(ch)
		}
		m.mu.Unlock()

		if registered {
			m.metricsManager.GaugeThemeSubscribers.Dec()
		}
	}

	return ch, unsubscribe
}

// Close ends every open subscription, so listeners (SSE streams) return.
// Subscribing after Close yields an already closed channel.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	closedCount := 0
	for ghostID, subs := range m.subscribers {
		for _, ch := range subs {
			close(ch)
			closedCount++
		}
		delete(m.subscribers, ghostID)
	}
	m.metricsManager.GaugeThemeSubscribers.Sub(float64(closedCount))
	log.Debugf("theme: manager closed, %d subscriptions ended", closedCount)
}

func (m *Manager) SubscriberCount(ghostID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers[ghostID])
}
