// Package theme owns the per-device light/dark setting of the app.
package theme

import (
	"fmt"

	"github.com/2beens/repcheck/internal/workout"
)

type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLight, ModeDark:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown theme mode [%s]", s)
	}
}

func (m Mode) Toggled() Mode {
	if m == ModeDark {
		return ModeLight
	}
	return ModeDark
}

type Colors struct {
	Background    string                        `json:"background"`
	Card          string                        `json:"card"`
	TextPrimary   string                        `json:"textPrimary"`
	TextSecondary string                        `json:"textSecondary"`
	TextMuted     string                        `json:"textMuted"`
	Primary       string                        `json:"primary"`
	Danger        string                        `json:"danger"`
	Streak        string                        `json:"streak"`
	ButtonText    string                        `json:"buttonText"`
	Badge         map[workout.Difficulty]string `json:"badge"`
	BadgeText     map[workout.Difficulty]string `json:"badgeText"`
}

type Theme struct {
	Mode   Mode   `json:"mode"`
	Colors Colors `json:"colors"`
}

func ForMode(mode Mode) Theme {
	if mode == ModeDark {
		return Theme{Mode: ModeDark, Colors: darkColors()}
	}
	return Theme{Mode: ModeLight, Colors: lightColors()}
}

// color maps are built per call, so callers can't change the palettes
func darkColors() Colors {
	return Colors{
		Background:    "#0F111A",
		Card:          "#1E2330",
		TextPrimary:   "#FFFFFF",
		TextSecondary: "#94A3B8",
		TextMuted:     "#475569",
		Primary:       "#00FFA3",
		Danger:        "#FF2E93",
		Streak:        "#FFD300",
		ButtonText:    "#0F111A",
		Badge: map[workout.Difficulty]string{
			workout.DifficultyLight:    "rgba(0, 240, 255, 0.15)",
			workout.DifficultyModerate: "rgba(255, 211, 0, 0.15)",
			workout.DifficultySavage:   "rgba(255, 46, 147, 0.15)",
		},
		BadgeText: map[workout.Difficulty]string{
			workout.DifficultyLight:    "#00F0FF",
			workout.DifficultyModerate: "#FFD300",
			workout.DifficultySavage:   "#FF2E93",
		},
	}
}

func lightColors() Colors {
	return Colors{
		Background:    "#F4F6F9",
		Card:          "#FFFFFF",
		TextPrimary:   "#1A202C",
		TextSecondary: "#718096",
		TextMuted:     "#A0AEC0",
		Primary:       "#00D189",
		Danger:        "#FF005C",
		Streak:        "#FF005C",
		ButtonText:    "#FFFFFF",
		Badge: map[workout.Difficulty]string{
			workout.DifficultyLight:    "#E6FFFA",
			workout.DifficultyModerate: "#FFFFF0",
			workout.DifficultySavage:   "#FFF5F7",
		},
		BadgeText: map[workout.Difficulty]string{
			workout.DifficultyLight:    "#00B5D8",
			workout.DifficultyModerate: "#F6AD55",
			workout.DifficultySavage:   "#D53F8C",
		},
	}
}
