// Package labeling implements the manual bib-number labeling workflow.
package labeling

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/numerador-esportivo/numerador/internal/export"
	"github.com/numerador-esportivo/numerador/internal/models"
)

// MaxLabelLength is the longest label, in characters, accepted by Edit.
const MaxLabelLength = 16

// ExportName is the base file name of the manual export.
const ExportName = "numerador_manual"

var (
	ErrNoFiles       = errors.New("no images uploaded")
	ErrLabelTooLong  = fmt.Errorf("label exceeds %d characters", MaxLabelLength)
	ErrUnknownAction = errors.New("unknown action")
	ErrNoSuchImage   = errors.New("image not in session")
)

// Action is a navigation or editing command applied to a session.
type Action string

const (
	ActionPrevious     Action = "previous"
	ActionNext         Action = "next"
	ActionCopyPrevious Action = "copy-previous"
	ActionReverse      Action = "reverse"
)

// Session holds the manual labeling state for one upload set.
//
// labels is indexed by upload position; order maps display positions to upload
// positions and idx is the cursor into order.
type Session struct {
	items    []models.ImageItem
	labels   []string
	order    []int
	idx      int
	reversed bool
}

// NewSession starts editing a non-empty upload set: cursor at 0, empty labels,
// identity display order.
func NewSession(items []models.ImageItem) (*Session, error) {
	if len(items) == 0 {
		return nil, ErrNoFiles
	}

	s := &Session{
		items:  append([]models.ImageItem(nil), items...),
		labels: make([]string, len(items)),
		order:  make([]int, len(items)),
	}
	for i := range s.order {
		s.order[i] = i
	}
	return s, nil
}

func (s *Session) Len() int { return len(s.items) }

func (s *Session) Index() int { return s.idx }

func (s *Session) Reversed() bool { return s.reversed }

// Order returns a copy of the display order.
func (s *Session) Order() []int {
	return append([]int(nil), s.order...)
}

// Current is the image shown at the cursor.
func (s *Session) Current() models.ImageItem {
	return s.items[s.order[s.idx]]
}

// Label is the label bound to the image at the cursor.
func (s *Session) Label() string {
	return s.labels[s.order[s.idx]]
}

// Edit sets the label of the image at the cursor.
func (s *Session) Edit(label string) error {
	return s.EditImage(s.order[s.idx], label)
}

// EditImage sets the label of the image at upload position image, wherever
// the cursor is now.
func (s *Session) EditImage(image int, label string) error {
	if image < 0 || image >= len(s.items) {
		return ErrNoSuchImage
	}
	if utf8.RuneCountInString(label) > MaxLabelLength {
		return ErrLabelTooLong
	}
	s.labels[image] = label
	return nil
}

func (s *Session) CanPrevious() bool { return s.idx > 0 }

func (s *Session) CanNext() bool { return s.idx < len(s.order)-1 }

// Previous moves the cursor back. It reports false when already at the start.
func (s *Session) Previous() bool {
	if !s.CanPrevious() {
		return false
	}
	s.idx--
	return true
}

// Next moves the cursor forward. It reports false when already at the end.
func (s *Session) Next() bool {
	if !s.CanNext() {
		return false
	}
	s.idx++
	return true
}

// CopyPrevious copies the label of the preceding display position onto the
// current image. It is a no-op at position 0.
func (s *Session) CopyPrevious() bool {
	if !s.CanPrevious() {
		return false
	}
	s.labels[s.order[s.idx]] = s.labels[s.order[s.idx-1]]
	return true
}

// Reverse flips the traversal order and rewinds the cursor. Labels stay bound
// to their images.
func (s *Session) Reverse() {
	for i, j := 0, len(s.order)-1; i < j; i, j = i+1, j-1 {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	}
	s.reversed = !s.reversed
	s.idx = 0
}

// Apply dispatches a named action.
func (s *Session) Apply(action Action) error {
	switch action {
	case ActionPrevious:
		s.Previous()
	case ActionNext:
		s.Next()
	case ActionCopyPrevious:
		s.CopyPrevious()
	case ActionReverse:
		s.Reverse()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	return nil
}

// Rows lists labeled images in the current display order. Unlabeled images
// are omitted.
func (s *Session) Rows() []models.Row {
	rows := make([]models.Row, 0, len(s.order))
	for _, i := range s.order {
		if s.labels[i] == "" {
			continue
		}
		rows = append(rows, models.Row{Name: s.items[i].Name, Value: s.labels[i]})
	}
	return rows
}

// Export encodes Rows. ok is false when no image has a label, in which case
// no download should be offered.
func (s *Session) Export(format export.Format) (f export.File, ok bool, err error) {
	rows := s.Rows()
	if len(rows) == 0 {
		return export.File{}, false, nil
	}
	f, err = export.Build(ExportName, rows, format)
	if err != nil {
		return export.File{}, false, err
	}
	return f, true, nil
}
