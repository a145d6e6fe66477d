package model

// CaseStudy is a past engagement used as stylistic inspiration for a
// draft. Two case studies with the same Title are the same entity.
type CaseStudy struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// CaseStudySelection is an ordered set of case studies keyed by title.
// The zero value is an empty selection ready to use.
type CaseStudySelection struct {
	items []CaseStudy
}

// NewCaseStudySelection builds a selection from studies, dropping later
// duplicates by title.
func NewCaseStudySelection(studies ...CaseStudy) CaseStudySelection {
	var s CaseStudySelection
	for _, cs := range studies {
		s.Add(cs)
	}
	return s
}

func (s *CaseStudySelection) indexOf(title string) int {
	for i, cs := range s.items {
		if cs.Title == title {
			return i
		}
	}
	return -1
}

// Contains reports whether a study with the same title is selected.
func (s *CaseStudySelection) Contains(cs CaseStudy) bool {
	return s.indexOf(cs.Title) >= 0
}

// Add selects cs unless a study with the same title is already selected.
// It reports whether the selection changed.
func (s *CaseStudySelection) Add(cs CaseStudy) bool {
	if s.indexOf(cs.Title) >= 0 {
		return false
	}
	s.items = append(s.items, cs)
	return true
}

// Toggle removes the study sharing cs's title if present, otherwise adds
// cs. It reports whether cs is selected afterwards.
func (s *CaseStudySelection) Toggle(cs CaseStudy) bool {
	if i := s.indexOf(cs.Title); i >= 0 {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
		return false
	}
	s.items = append(s.items, cs)
	return true
}

// Clear empties the selection.
func (s *CaseStudySelection) Clear() {
	s.items = nil
}

// Len returns the number of selected studies.
func (s *CaseStudySelection) Len() int {
	return len(s.items)
}

// List returns a copy of the selected studies in selection order.
func (s *CaseStudySelection) List() []CaseStudy {
	out := make([]CaseStudy, len(s.items))
	copy(out, s.items)
	return out
}
