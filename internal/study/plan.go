package study

import "github.com/rootmind/go-rootmind/internal/api"

// PlanEntry is a study item with its display ordinal.
type PlanEntry struct {
	Ordinal   int // 1-based position
	Section   string
	Objective string
}

// Plan is the state of the study plan panel: the items handed to it and
// whether the panel is expanded.
type Plan struct {
	items    []api.StudyItem
	expanded bool
}

// NewPlan returns an expanded panel over items.
func NewPlan(items []api.StudyItem) Plan {
	return Plan{items: cloneItems(items), expanded: true}
}

// SetItems replaces the items. The expanded state is kept.
func (p *Plan) SetItems(items []api.StudyItem) {
	p.items = cloneItems(items)
}

// Toggle flips the expanded state.
func (p *Plan) Toggle() {
	p.expanded = !p.expanded
}

// Expanded reports whether the item list is shown.
func (p Plan) Expanded() bool { return p.expanded }

// Visible reports whether the panel renders at all.
func (p Plan) Visible() bool { return len(p.items) > 0 }

// Len returns the number of items.
func (p Plan) Len() int { return len(p.items) }

// Entries returns the items in order with 1-based ordinals.
func (p Plan) Entries() []PlanEntry {
	out := make([]PlanEntry, len(p.items))
	for i, it := range p.items {
		out[i] = PlanEntry{Ordinal: i + 1, Section: it.Section, Objective: it.Objective}
	}
	return out
}
