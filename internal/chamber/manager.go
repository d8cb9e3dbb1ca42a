// Package chamber simulates the camera rep counter: while a session is active
// one rep is counted per tick, and finishing a session saves its reps.
package chamber

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/2beens/repcheck/internal/daytime"
	"github.com/2beens/repcheck/internal/progress"
	"github.com/2beens/repcheck/internal/telemetry/metrics"
	"github.com/2beens/repcheck/internal/telemetry/tracing"
	"github.com/2beens/repcheck/internal/workout"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultTick       = 2500 * time.Millisecond
	DefaultMaxSession = 30 * time.Minute

	// chance of a "LOWER!" on each tick
	lowerFeedbackChance = 0.3
)

var (
	ErrSessionNotFound = errors.New("chamber session not found")
	ErrInvalidReps     = errors.New("invalid initial reps")
)

//go:generate mockgen -source=$GOFILE -destination=manager_mocks_test.go -package=chamber_test

type progressUpdater interface {
	UpdateProgress(ctx context.Context, ghostID, exerciseID string, reps int) (progress.Snapshot, error)
}

type FinishResult struct {
	Session  Session           `json:"session"`
	Message  string            `json:"message"`
	Progress progress.Snapshot `json:"progress"`
}

type Manager struct {
	plan            *workout.Plan
	progressUpdater progressUpdater
	clock           daytime.Clock
	metricsManager  *metrics.Manager
	tick            time.Duration
	maxSession      time.Duration

	mu       sync.Mutex
	sessions map[string]*session
	// one active session per ghost, like the single camera screen
	byGhost map[string]string

	loopsCtx    context.Context
	loopsCancel context.CancelFunc
	loopsWg     sync.WaitGroup
	scheduler   *gocron.Scheduler

	// ability to inject tickers, randomness and ids (for unit and dev testing)
	TickerFunc    func(d time.Duration) (<-chan time.Time, func())
	RandFloatFunc func() float64
	NewIDFunc     func() string
}

func NewManager(
	plan *workout.Plan,
	progressUpdater progressUpdater,
	clock daytime.Clock,
	metricsManager *metrics.Manager,
	tick, maxSession time.Duration,
) *Manager {
	if tick <= 0 {
		tick = DefaultTick
	}
	if maxSession <= 0 {
		maxSession = DefaultMaxSession
	}

	loopsCtx, loopsCancel := context.WithCancel(context.Background())
	return &Manager{
		plan:            plan,
		progressUpdater: progressUpdater,
		clock:           clock,
		metricsManager:  metricsManager,
		tick:            tick,
		maxSession:      maxSession,
		sessions:        make(map[string]*session),
		byGhost:         make(map[string]string),
		loopsCtx:        loopsCtx,
		loopsCancel:     loopsCancel,
		TickerFunc: func(d time.Duration) (<-chan time.Time, func()) {
			ticker := time.NewTicker(d)
			return ticker.C, ticker.Stop
		},
		RandFloatFunc: rand.Float64,
		NewIDFunc:     uuid.NewString,
	}
}

func (m *Manager) Start(ctx context.Context, ghostID, exerciseID string, initialReps int) (_ Session, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "chamber.manager.start")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("exercise", exerciseID))

	if _, ok := m.plan.Exercise(exerciseID); !ok {
		return Session{}, fmt.Errorf("%w: %s", workout.ErrUnknownExercise, exerciseID)
	}
	if initialReps < 0 {
		return Session{}, fmt.Errorf("%w: %d", ErrInvalidReps, initialReps)
	}

	now := m.clock.Now()
	loopCtx, cancel := context.WithCancel(m.loopsCtx)
	s := &session{
		data: Session{
			ID:         m.NewIDFunc(),
			GhostID:    ghostID,
			ExerciseID: exerciseID,
			Reps:       initialReps,
			Feedback:   FeedbackGoodForm,
			Active:     true,
			StartedAt:  now,
			LastTickAt: now,
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}

	m.mu.Lock()
	previous := m.takeLocked(m.byGhost[ghostID])
	m.sessions[s.data.ID] = s
	m.byGhost[ghostID] = s.data.ID
	m.mu.Unlock()

	if previous != nil {
		m.discard(previous, "replaced")
	}

	ticks, stopTicker := m.TickerFunc(m.tick)
	m.loopsWg.Add(1)
	go m.countReps(loopCtx, s, ticks, stopTicker)

	m.metricsManager.GaugeChamberActive.Inc()
	m.metricsManager.CounterChamberSessions.WithLabelValues("started").Inc()
	log.Debugf("chamber: session %s started for %s [%s] at %d reps", s.data.ID, ghostID, exerciseID, initialReps)

	return s.snapshot(), nil
}

func (m *Manager) countReps(ctx context.Context, s *session, ticks <-chan time.Time, stopTicker func()) {
	defer m.loopsWg.Done()
	defer close(s.done)
	defer stopTicker()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			s.tick(m.clock.Now(), m.feedback())
		}
	}
}

func (m *Manager) feedback() Feedback {
	if m.RandFloatFunc() > 1-lowerFeedbackChance {
		return FeedbackLower
	}
	return FeedbackGoodForm
}

func (m *Manager) Get(ghostID, sessionID string) (Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	m.mu.Unlock()

	if !ok || s.data.GhostID != ghostID {
		return Session{}, ErrSessionNotFound
	}
	return s.snapshot(), nil
}

// Finish stops the session and saves its reps as today's count for the exercise
func (m *Manager) Finish(ctx context.Context, ghostID, sessionID string) (_ FinishResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "chamber.manager.finish")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if !ok || s.data.GhostID != ghostID {
		m.mu.Unlock()
		return FinishResult{}, ErrSessionNotFound
	}
	m.takeLocked(sessionID)
	m.mu.Unlock()

	final := s.stop()
	m.metricsManager.GaugeChamberActive.Dec()
	m.metricsManager.CounterChamberSessions.WithLabelValues("finished").Inc()
	m.metricsManager.HistogramChamberReps.Observe(float64(final.Reps))

	result := FinishResult{
		Session: final,
		Message: fmt.Sprintf("You completed %d reps.", final.Reps),
	}

	snapshot, err := m.progressUpdater.UpdateProgress(ctx, ghostID, final.ExerciseID, final.Reps)
	if err != nil {
		return result, fmt.Errorf("save session reps: %w", err)
	}
	result.Progress = snapshot

	log.Debugf("chamber: session %s finished with %d reps", sessionID, final.Reps)
	return result, nil
}

// Sweep discards sessions running longer than the max session duration, their reps are not saved
func (m *Manager) Sweep(now time.Time) int {
	var expired []*session

	m.mu.Lock()
	for id, s := range m.sessions {
		if now.Sub(s.data.StartedAt) > m.maxSession {
			expired = append(expired, m.takeLocked(id))
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		m.discard(s, "abandoned")
	}
	if len(expired) > 0 {
		log.Infof("chamber: swept %d abandoned sessions", len(expired))
	}
	return len(expired)
}

// StartSweeper runs Sweep periodically until Close
func (m *Manager) StartSweeper(every time.Duration) error {
	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Every(every).Do(func() {
		m.Sweep(m.clock.Now())
	}); err != nil {
		return fmt.Errorf("schedule chamber sweep: %w", err)
	}
	scheduler.StartAsync()

	m.mu.Lock()
	m.scheduler = scheduler
	m.mu.Unlock()
	return nil
}

func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops the sweeper and all running sessions without saving them
func (m *Manager) Close() {
	m.mu.Lock()
	scheduler := m.scheduler
	m.scheduler = nil
	remaining := make([]*session, 0, len(m.sessions))
	for id := range m.sessions {
		remaining = append(remaining, m.takeLocked(id))
	}
	m.mu.Unlock()

	if scheduler != nil {
		scheduler.Stop()
	}
	for _, s := range remaining {
		m.discard(s, "stopped")
	}

	m.loopsCancel()
	m.loopsWg.Wait()
}

// takeLocked removes the session from the indexes, m.mu must be held
func (m *Manager) takeLocked(sessionID string) *session {
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil
	}
	delete(m.sessions, sessionID)
	if m.byGhost[s.data.GhostID] == sessionID {
		delete(m.byGhost, s.data.GhostID)
	}
	return s
}

func (m *Manager) discard(s *session, outcome string) {
	final := s.stop()
	m.metricsManager.GaugeChamberActive.Dec()
	m.metricsManager.CounterChamberSessions.WithLabelValues(outcome).Inc()
	log.Debugf("chamber: session %s %s at %d reps", final.ID, outcome, final.Reps)
}
