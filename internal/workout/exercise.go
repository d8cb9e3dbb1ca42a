package workout

import (
	"errors"
)

var ErrUnknownExercise = errors.New("unknown exercise")

// Difficulty is the exercise "class" shown as a badge in the app
type Difficulty string

const (
	DifficultyLight    Difficulty = "Light"
	DifficultyModerate Difficulty = "Moderate"
	DifficultySavage   Difficulty = "Savage"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyLight, DifficultyModerate, DifficultySavage:
		return true
	default:
		return false
	}
}

type Exercise struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	// Reps is the daily target
	Reps             int        `yaml:"reps" json:"reps"`
	Difficulty       Difficulty `yaml:"difficulty" json:"difficulty"`
	ShortDescription string     `yaml:"short_description" json:"shortDescription"`
	Instructions     string     `yaml:"instructions" json:"instructions"`
	Image            string     `yaml:"image" json:"image"`
}

// IsDone tells if the recorded reps meet the daily target
func (e Exercise) IsDone(reps int) bool {
	return reps >= e.Reps
}
