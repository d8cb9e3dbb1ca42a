package chamber

import (
	"context"
	"sync"
	"time"
)

type Feedback string

const (
	FeedbackGoodForm Feedback = "GOOD FORM"
	FeedbackLower    Feedback = "LOWER!"
)

// Session is a snapshot of one simulated rep counting run
type Session struct {
	ID         string    `json:"id"`
	GhostID    string    `json:"-"`
	ExerciseID string    `json:"exerciseId"`
	Reps       int       `json:"reps"`
	Feedback   Feedback  `json:"feedback"`
	Active     bool      `json:"active"`
	StartedAt  time.Time `json:"startedAt"`
	LastTickAt time.Time `json:"lastTickAt"`
}

type session struct {
	mu sync.RWMutex
	// ID, GhostID, ExerciseID and StartedAt are never changed after start
	data Session

	cancel context.CancelFunc
	done   chan struct{}
}

func (s *session) snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *session) tick(now time.Time, feedback Feedback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Reps++
	s.data.Feedback = feedback
	s.data.LastTickAt = now
}

// stop ends the counting loop and waits for it, returns the final state
func (s *session) stop() Session {
	s.cancel()
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Active = false
	return s.data
}
