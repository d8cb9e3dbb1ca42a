package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/2beens/repcheck/internal/daytime"
	"github.com/2beens/repcheck/internal/kv"
	"github.com/2beens/repcheck/internal/telemetry/metrics"
	"github.com/2beens/repcheck/internal/telemetry/tracing"
	"github.com/2beens/repcheck/internal/workout"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrMissionIncomplete = errors.New("daily mission not complete")

// Snapshot is what the app gets back after every progress call
type Snapshot struct {
	Today           string         `json:"today"`
	Progress        map[string]int `json:"progress"`
	Streak          int            `json:"streak"`
	Completed       int            `json:"completed"`
	Total           int            `json:"total"`
	MissionComplete bool           `json:"missionComplete"`
}

// Service runs tracker operations for many ghosts, one at a time per ghost
type Service struct {
	scoper         kv.Scoper
	clock          daytime.Clock
	plan           *workout.Plan
	metricsManager *metrics.Manager

	locksMutex sync.Mutex
	locks      map[string]*ghostLock
}

type ghostLock struct {
	sync.Mutex
	refs int
}

func NewService(
	scoper kv.Scoper,
	clock daytime.Clock,
	plan *workout.Plan,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		scoper:         scoper,
		clock:          clock,
		plan:           plan,
		metricsManager: metricsManager,
		locks:          make(map[string]*ghostLock),
	}
}

func (s *Service) lock(ghostID string) func() {
	s.locksMutex.Lock()
	l, ok := s.locks[ghostID]
	if !ok {
		l = &ghostLock{}
		s.locks[ghostID] = l
	}
	l.refs++
	s.locksMutex.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.locksMutex.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, ghostID)
		}
		s.locksMutex.Unlock()
	}
}

// loadedTracker must be called with the ghost lock held
func (s *Service) loadedTracker(ctx context.Context, ghostID string) *Tracker {
	tracker := NewTracker(s.scoper.Scoped(ghostID), s.clock, s.metricsManager)
	tracker.Load(ctx)
	return tracker
}

func (s *Service) snapshot(tracker *Tracker) Snapshot {
	progress := tracker.Progress()
	return Snapshot{
		Today:           daytime.Today(s.clock),
		Progress:        progress,
		Streak:          tracker.Streak(),
		Completed:       s.plan.CompletedCount(progress),
		Total:           s.plan.Len(),
		MissionComplete: tracker.IsMissionComplete(s.plan.Exercises()),
	}
}

func (s *Service) Load(ctx context.Context, ghostID string) Snapshot {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.service.load")
	defer span.End()

	unlock := s.lock(ghostID)
	defer unlock()

	return s.snapshot(s.loadedTracker(ctx, ghostID))
}

// DayProgress is today's rep counts and the effective streak
func (s *Service) DayProgress(ctx context.Context, ghostID string) (map[string]int, int) {
	snapshot := s.Load(ctx, ghostID)
	return snapshot.Progress, snapshot.Streak
}

// UpdateProgress saves the reps of one plan exercise, and completes the daily
// mission right away if that was the last missing one.
func (s *Service) UpdateProgress(ctx context.Context, ghostID, exerciseID string, reps int) (_ Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.service.updateProgress")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("exercise", exerciseID))

	if exerciseID == "" {
		return Snapshot{}, ErrInvalidExercise
	}
	if _, ok := s.plan.Exercise(exerciseID); !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", workout.ErrUnknownExercise, exerciseID)
	}

	unlock := s.lock(ghostID)
	defer unlock()

	tracker := s.loadedTracker(ctx, ghostID)
	if err := tracker.UpdateProgress(ctx, exerciseID, reps); err != nil {
		return s.snapshot(tracker), err
	}

	if tracker.IsMissionComplete(s.plan.Exercises()) {
		if err := tracker.CompleteDailyMission(ctx); err != nil {
			// reps are saved, the streak will be retried on the next update
			log.Errorf("progress: complete mission for %s: %s", ghostID, err)
		}
	}

	return s.snapshot(tracker), nil
}

// CompleteDailyMission marks today done, only once the whole plan is done
func (s *Service) CompleteDailyMission(ctx context.Context, ghostID string) (_ Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.service.completeDailyMission")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	unlock := s.lock(ghostID)
	defer unlock()

	tracker := s.loadedTracker(ctx, ghostID)
	if !tracker.IsMissionComplete(s.plan.Exercises()) {
		return s.snapshot(tracker), ErrMissionIncomplete
	}

	if err := tracker.CompleteDailyMission(ctx); err != nil {
		return s.snapshot(tracker), err
	}

	return s.snapshot(tracker), nil
}
