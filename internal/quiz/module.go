package quiz

import "time"

// Module is a named, independently fetchable question set.
type Module struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Reference   string `json:"url"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	// Progress is the prior attempt summary, nil when the module was never played.
	Progress *ModuleProgress `json:"-"`
}

// Key returns the identifier progress is stored under. Modules without an
// explicit ID are keyed by their reference.
func (m Module) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return m.Reference
}

// Clone returns a copy with its own Progress value.
func (m Module) Clone() Module {
	if m.Progress != nil {
		p := *m.Progress
		m.Progress = &p
	}
	return m
}

// ModuleProgress is the stored outcome of the latest attempt at a module.
type ModuleProgress struct {
	ModuleID     string
	Correct      int
	Total        int
	Completed    bool
	PagesVisited int
	UpdatedAt    time.Time
}

// Percent returns Correct/Total in [0, 1].
func (p ModuleProgress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Correct) / float64(p.Total)
}

// AnswerRecord is a saved answer for resuming a module. OptionIndex is in
// the question's original option order so it survives a reshuffle.
type AnswerRecord struct {
	ModuleID    string
	QuestionID  int
	OptionIndex int
}

// AnnotateProgress returns copies of mods with Progress attached from the
// matching records.
func AnnotateProgress(mods []Module, progress []ModuleProgress) []Module {
	byID := make(map[string]ModuleProgress, len(progress))
	for _, p := range progress {
		byID[p.ModuleID] = p
	}

	out := make([]Module, len(mods))
	for i, m := range mods {
		m = m.Clone()
		if p, ok := byID[m.Key()]; ok {
			m.Progress = &p
		}
		out[i] = m
	}
	return out
}
