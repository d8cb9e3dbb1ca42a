package workout

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_plan.yaml
var defaultPlanYaml []byte

// Plan is the static list of exercises scheduled for every day
type Plan struct {
	exercises []Exercise
	byID      map[string]int
}

type planFile struct {
	Exercises []Exercise `yaml:"exercises"`
}

// LoadPlan reads the plan from a YAML file, or the built-in plan if path is empty
func LoadPlan(path string) (*Plan, error) {
	if path == "" {
		return ParsePlan(defaultPlanYaml)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	return ParsePlan(data)
}

func DefaultPlan() *Plan {
	plan, err := ParsePlan(defaultPlanYaml)
	if err != nil {
		panic(fmt.Sprintf("built-in workout plan invalid: %s", err))
	}
	return plan
}

func ParsePlan(data []byte) (*Plan, error) {
	var pf planFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w", err)
	}
	return NewPlan(pf.Exercises)
}

func NewPlan(exercises []Exercise) (*Plan, error) {
	p := &Plan{
		exercises: make([]Exercise, 0, len(exercises)),
		byID:      make(map[string]int, len(exercises)),
	}

	for i, ex := range exercises {
		if ex.ID == "" {
			return nil, fmt.Errorf("exercise %d: empty id", i)
		}
		if _, exists := p.byID[ex.ID]; exists {
			return nil, fmt.Errorf("exercise %s: duplicate id", ex.ID)
		}
		if ex.Reps <= 0 {
			return nil, fmt.Errorf("exercise %s: reps must be positive, got %d", ex.ID, ex.Reps)
		}
		if !ex.Difficulty.IsValid() {
			return nil, fmt.Errorf("exercise %s: unknown difficulty [%s]", ex.ID, ex.Difficulty)
		}
		p.byID[ex.ID] = len(p.exercises)
		p.exercises = append(p.exercises, ex)
	}

	return p, nil
}

func (p *Plan) Exercise(id string) (Exercise, bool) {
	idx, ok := p.byID[id]
	if !ok {
		return Exercise{}, false
	}
	return p.exercises[idx], true
}

// Exercises returns a copy, in plan order
func (p *Plan) Exercises() []Exercise {
	return append([]Exercise{}, p.exercises...)
}

func (p *Plan) Len() int {
	return len(p.exercises)
}

// CompletedCount counts exercises whose recorded reps meet the target
func (p *Plan) CompletedCount(progress map[string]int) int {
	completed := 0
	for _, ex := range p.exercises {
		if ex.IsDone(progress[ex.ID]) {
			completed++
		}
	}
	return completed
}

// IsComplete is true when the plan has exercises and all of them are done
func (p *Plan) IsComplete(progress map[string]int) bool {
	return len(p.exercises) > 0 && p.CompletedCount(progress) == len(p.exercises)
}
