package workout

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusComplete Status = "COMPLETE"
)

type LobbyExercise struct {
	Exercise
	CompletedReps int  `json:"completedReps"`
	Done          bool `json:"done"`
}

// Lobby is today's workout as shown on the app home screen
type Lobby struct {
	Weekday         string          `json:"weekday"`
	DayMonth        string          `json:"dayMonth"`
	Status          Status          `json:"status"`
	StreakCurrent   int             `json:"streakCurrent"`
	CompletedCount  int             `json:"completedCount"`
	TotalCount      int             `json:"totalCount"`
	ProgressPercent int             `json:"progressPercent"`
	Exercises       []LobbyExercise `json:"exercises"`
}

func NewLobby(plan *Plan, progress map[string]int, streak int, now time.Time) Lobby {
	lobby := Lobby{
		// en-GB style: "Monday", "14 October"
		Weekday:        now.Format("Monday"),
		DayMonth:       now.Format("02 January"),
		Status:         StatusPending,
		StreakCurrent:  streak,
		CompletedCount: plan.CompletedCount(progress),
		TotalCount:     plan.Len(),
		Exercises:      make([]LobbyExercise, 0, plan.Len()),
	}

	for _, ex := range plan.exercises {
		reps := progress[ex.ID]
		lobby.Exercises = append(lobby.Exercises, LobbyExercise{
			Exercise:      ex,
			CompletedReps: reps,
			Done:          ex.IsDone(reps),
		})
	}

	if lobby.TotalCount > 0 {
		lobby.ProgressPercent = lobby.CompletedCount * 100 / lobby.TotalCount
	}
	if plan.IsComplete(progress) {
		lobby.Status = StatusComplete
	}

	return lobby
}
