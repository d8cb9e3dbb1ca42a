// Package progress tracks today's rep counts per exercise and the streak of
// consecutive days on which the whole daily mission got done.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/2beens/repcheck/internal/daytime"
	"github.com/2beens/repcheck/internal/kv"
	"github.com/2beens/repcheck/internal/telemetry/metrics"
	"github.com/2beens/repcheck/internal/telemetry/tracing"
	"github.com/2beens/repcheck/internal/workout"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/multierr"
)

// storage keys, same as the ones the mobile app used on device
const (
	KeyProgress          = "@repcheck_progress"
	KeyLastReset         = "@repcheck_last_reset"
	KeyStreakCount       = "@repcheck_streak_count"
	KeyLastCompletedDate = "@repcheck_last_completed_date"
)

var (
	ErrInvalidExercise = errors.New("invalid exercise id")
	ErrInvalidReps     = errors.New("invalid reps count")
)

// Tracker is the progress state of a single device. It is not safe for
// concurrent use, Service takes care of that.
type Tracker struct {
	store          kv.Store
	clock          daytime.Clock
	metricsManager *metrics.Manager

	progress map[string]int
	streak   int
}

func NewTracker(store kv.Store, clock daytime.Clock, metricsManager *metrics.Manager) *Tracker {
	return &Tracker{
		store:          store,
		clock:          clock,
		metricsManager: metricsManager,
		progress:       map[string]int{},
	}
}

// Progress returns a copy of today's rep counts
func (t *Tracker) Progress() map[string]int {
	progressCopy := make(map[string]int, len(t.progress))
	for id, reps := range t.progress {
		progressCopy[id] = reps
	}
	return progressCopy
}

// Streak is the effective streak, already 0 if a day was missed
func (t *Tracker) Streak() int {
	return t.streak
}

// Load refreshes the in-memory state from storage, wiping the stored progress
// on the first access of a new day. Storage errors are logged and defaulted.
func (t *Tracker) Load(ctx context.Context) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.tracker.load")
	defer span.End()

	today, yesterday := daytime.Days(t.clock)
	span.SetAttributes(attribute.String("today", today))

	t.progress = t.loadDayProgress(ctx, today)

	storedStreak := t.readStreak(ctx)
	lastCompleted, _, err := t.store.Get(ctx, KeyLastCompletedDate)
	if err != nil {
		t.storageFailure("get_last_completed", err)
		lastCompleted = ""
	}

	if lastCompleted == today || lastCompleted == yesterday {
		t.streak = storedStreak
	} else {
		// broken streak stays on disk, it's just not shown
		t.streak = 0
	}
}

func (t *Tracker) loadDayProgress(ctx context.Context, today string) map[string]int {
	lastReset, found, err := t.store.Get(ctx, KeyLastReset)
	if err != nil {
		// don't wipe anything on a failed read, it might be there
		t.storageFailure("get_last_reset", err)
		return map[string]int{}
	}

	if !found || lastReset != today {
		log.Debugf("progress: new day [%s], last reset [%s], wiping reps", today, lastReset)
		if err := t.store.Set(ctx, KeyLastReset, today); err != nil {
			t.storageFailure("set_last_reset", err)
		}
		if err := t.store.Set(ctx, KeyProgress, "{}"); err != nil {
			t.storageFailure("set_progress", err)
		}
		return map[string]int{}
	}

	progressJson, found, err := t.store.Get(ctx, KeyProgress)
	if err != nil {
		t.storageFailure("get_progress", err)
		return map[string]int{}
	}
	if !found || progressJson == "" {
		return map[string]int{}
	}

	var stored map[string]int
	if err := json.Unmarshal([]byte(progressJson), &stored); err != nil {
		t.storageFailure("parse_progress", err)
		return map[string]int{}
	}

	progress := make(map[string]int, len(stored))
	for id, reps := range stored {
		if id == "" || reps < 0 {
			log.Warnf("progress: dropping stored entry [%s]: %d", id, reps)
			continue
		}
		progress[id] = reps
	}
	return progress
}

// readStreak returns the stored streak, 0 when missing or garbage
func (t *Tracker) readStreak(ctx context.Context) int {
	streak, err := t.readStoredStreak(ctx)
	if err != nil {
		t.storageFailure("get_streak", err)
		return 0
	}
	return streak
}

func (t *Tracker) readStoredStreak(ctx context.Context) (int, error) {
	streakStr, found, err := t.store.Get(ctx, KeyStreakCount)
	if err != nil {
		return 0, err
	}
	if !found || streakStr == "" {
		return 0, nil
	}

	streak, err := strconv.Atoi(streakStr)
	if err != nil {
		log.Warnf("progress: unparseable streak [%s]: %s", streakStr, err)
		return 0, nil
	}
	if streak < 0 {
		log.Warnf("progress: negative stored streak [%d]", streak)
		return 0, nil
	}
	return streak, nil
}

// UpdateProgress overwrites the rep count of one exercise and persists the
// whole progress map. The in-memory value is kept even if the write fails.
func (t *Tracker) UpdateProgress(ctx context.Context, exerciseID string, reps int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.tracker.updateProgress")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if exerciseID == "" {
		return ErrInvalidExercise
	}
	if reps < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidReps, reps)
	}

	span.SetAttributes(
		attribute.String("exercise", exerciseID),
		attribute.Int("reps", reps),
	)

	t.progress[exerciseID] = reps

	progressJson, err := json.Marshal(t.progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := t.store.Set(ctx, KeyProgress, string(progressJson)); err != nil {
		t.storageFailure("set_progress", err)
		return fmt.Errorf("save progress: %w", err)
	}

	t.metricsManager.CounterProgressUpdates.Inc()
	return nil
}

// CompleteDailyMission bumps the streak once per day: +1 when the mission was
// also done yesterday, otherwise it starts over from 1.
func (t *Tracker) CompleteDailyMission(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.tracker.completeDailyMission")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	today, yesterday := daytime.Days(t.clock)
	lastCompleted, _, err := t.store.Get(ctx, KeyLastCompletedDate)
	if err != nil {
		t.storageFailure("get_last_completed", err)
		return fmt.Errorf("read last completed date: %w", err)
	}
	if lastCompleted == today {
		return nil
	}

	storedStreak, err := t.readStoredStreak(ctx)
	if err != nil {
		t.storageFailure("get_streak", err)
		return fmt.Errorf("read streak: %w", err)
	}

	newStreak := 1
	if lastCompleted == yesterday {
		newStreak = storedStreak + 1
	}
	t.streak = newStreak

	err = multierr.Append(
		t.store.Set(ctx, KeyStreakCount, strconv.Itoa(newStreak)),
		t.store.Set(ctx, KeyLastCompletedDate, today),
	)
	if err != nil {
		t.storageFailure("set_streak", err)
		return fmt.Errorf("save streak: %w", err)
	}

	t.metricsManager.CounterMissionsCompleted.Inc()
	log.Infof("progress: streak updated to %d on %s", newStreak, today)
	return nil
}

// IsMissionComplete tells if every exercise of the list met its target today
func (t *Tracker) IsMissionComplete(exercises []workout.Exercise) bool {
	if len(exercises) == 0 {
		return false
	}
	for _, ex := range exercises {
		if !ex.IsDone(t.progress[ex.ID]) {
			return false
		}
	}
	return true
}

func (t *Tracker) storageFailure(op string, err error) {
	log.Errorf("progress: storage %s: %s", op, err)
	t.metricsManager.CounterStorageFailures.WithLabelValues(op).Inc()
}
