package labeling

// View is a render snapshot of a session.
type View struct {
	Position    int    `json:"position"`
	Image       int    `json:"image"`
	Total       int    `json:"total"`
	Name        string `json:"name"`
	Label       string `json:"label"`
	Reversed    bool   `json:"reversed"`
	CanPrevious bool   `json:"can_previous"`
	CanNext     bool   `json:"can_next"`
	CanCopy     bool   `json:"can_copy"`
	Labeled     int    `json:"labeled"`
	CanExport   bool   `json:"can_export"`
}

func (s *Session) View() View {
	labeled := 0
	for _, l := range s.labels {
		if l != "" {
			labeled++
		}
	}

	return View{
		Position:    s.idx,
		Image:       s.order[s.idx],
		Total:       len(s.items),
		Name:        s.Current().Name,
		Label:       s.Label(),
		Reversed:    s.reversed,
		CanPrevious: s.CanPrevious(),
		CanNext:     s.CanNext(),
		CanCopy:     s.CanPrevious(),
		Labeled:     labeled,
		CanExport:   labeled > 0,
	}
}
