package booking

import (
	"sort"

	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/timegrid"
)

// State owns every committed selection of the session and the blocked
// periods they must avoid. It is not safe for concurrent use; the UI loop is
// its only writer.
type State struct {
	selections map[string][]models.Selection
	blocked    map[string][]timegrid.Interval
}

// NewState creates an empty selection set over the given blocked periods,
// keyed by ISO date.
func NewState(blocked map[string][]timegrid.Interval) *State {
	if blocked == nil {
		blocked = make(map[string][]timegrid.Interval)
	}
	return &State{
		selections: make(map[string][]models.Selection),
		blocked:    blocked,
	}
}

// Ensure makes sure a (possibly empty) selection list exists for date.
func (s *State) Ensure(date string) {
	if _, ok := s.selections[date]; !ok {
		s.selections[date] = []models.Selection{}
	}
}

// Dates returns every date with a selection list, sorted.
func (s *State) Dates() []string {
	dates := make([]string, 0, len(s.selections))
	for d := range s.selections {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Selections returns a copy of the selections for date ordered by start.
func (s *State) Selections(date string) []models.Selection {
	list := append([]models.Selection(nil), s.selections[date]...)
	sort.Slice(list, func(i, j int) bool { return list[i].StartMin < list[j].StartMin })
	return list
}

// All returns every selection ordered by date, then start.
func (s *State) All() []models.Selection {
	var all []models.Selection
	for _, d := range s.Dates() {
		all = append(all, s.Selections(d)...)
	}
	return all
}

// Count returns the number of committed selections.
func (s *State) Count() int {
	n := 0
	for _, list := range s.selections {
		n += len(list)
	}
	return n
}

// Blocked returns the blocked intervals for date.
func (s *State) Blocked(date string) []timegrid.Interval {
	return s.blocked[date]
}

// Find looks a selection up by id.
func (s *State) Find(id string) (models.Selection, bool) {
	for _, list := range s.selections {
		for _, sel := range list {
			if sel.ID == id {
				return sel, true
			}
		}
	}
	return models.Selection{}, false
}

// Commit stores sel, first removing every selection on the same date that
// overlaps it. The removed selections are returned.
func (s *State) Commit(sel models.Selection) []models.Selection {
	var kept, removed []models.Selection
	for _, existing := range s.selections[sel.Date] {
		if timegrid.Overlaps(sel.StartMin, sel.EndMin, existing.StartMin, existing.EndMin) {
			removed = append(removed, existing)
			continue
		}
		kept = append(kept, existing)
	}
	s.selections[sel.Date] = append(kept, sel)
	return removed
}

// Remove deletes the selection with the given id.
func (s *State) Remove(id string) (models.Selection, bool) {
	for date, list := range s.selections {
		for i, sel := range list {
			if sel.ID != id {
				continue
			}
			s.selections[date] = append(list[:i:i], list[i+1:]...)
			return sel, true
		}
	}
	return models.Selection{}, false
}

// Clear drops every selection and returns what was dropped.
func (s *State) Clear() []models.Selection {
	all := s.All()
	s.selections = make(map[string][]models.Selection)
	return all
}
