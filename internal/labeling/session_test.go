package labeling

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/numerador-esportivo/numerador/internal/export"
	"github.com/numerador-esportivo/numerador/internal/models"
)

func newTestSession(t *testing.T, names ...string) *Session {
	t.Helper()
	items := make([]models.ImageItem, 0, len(names))
	for _, n := range names {
		items = append(items, models.ImageItem{Name: n, Data: []byte(n)})
	}
	s, err := NewSession(items)
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	return s
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestNewSession(t *testing.T) {
	if _, err := NewSession(nil); !errors.Is(err, ErrNoFiles) {
		t.Errorf("Expected ErrNoFiles, got %v", err)
	}

	for n := 1; n <= 4; n++ {
		t.Run(fmt.Sprintf("%d images", n), func(t *testing.T) {
			names := make([]string, n)
			for i := range names {
				names[i] = fmt.Sprintf("img%d.jpg", i)
			}
			s := newTestSession(t, names...)

			if s.Index() != 0 {
				t.Errorf("Expected idx 0, got %d", s.Index())
			}
			if !reflect.DeepEqual(s.Order(), identity(n)) {
				t.Errorf("Expected identity order, got %v", s.Order())
			}
			if s.Reversed() {
				t.Error("Expected reversed=false")
			}
			if s.Label() != "" {
				t.Errorf("Expected empty label, got %q", s.Label())
			}
		})
	}
}

func TestNavigation(t *testing.T) {
	s := newTestSession(t, "a.jpg", "b.jpg", "c.jpg")

	if s.Previous() {
		t.Error("Previous must be disabled at position 0")
	}
	if !s.Next() || !s.Next() {
		t.Fatal("Next should advance twice")
	}
	if s.Current().Name != "c.jpg" {
		t.Errorf("Expected c.jpg, got %s", s.Current().Name)
	}
	if s.Next() {
		t.Error("Next must be disabled at the last position")
	}
	if s.Index() != 2 {
		t.Errorf("Expected idx 2, got %d", s.Index())
	}
	if !s.Previous() || s.Index() != 1 {
		t.Errorf("Expected idx 1 after Previous, got %d", s.Index())
	}
}

func TestSingleImageNavigation(t *testing.T) {
	s := newTestSession(t, "only.png")
	if s.CanPrevious() || s.CanNext() {
		t.Error("navigation must be disabled with one image")
	}
	s.Reverse()
	if s.Index() != 0 || s.Current().Name != "only.png" {
		t.Errorf("unexpected state after reverse: idx=%d name=%s", s.Index(), s.Current().Name)
	}
}

func TestEditPersistsAcrossNavigation(t *testing.T) {
	s := newTestSession(t, "a.jpg", "b.jpg", "c.jpg")

	s.Next()
	if err := s.Edit("123"); err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}
	s.Next()
	s.Previous()
	if s.Label() != "123" {
		t.Errorf("Expected label 123 after navigating back, got %q", s.Label())
	}

	s.Reverse()
	s.Next()
	if s.Current().Name != "b.jpg" || s.Label() != "123" {
		t.Errorf("label must follow the image across reversal, got %s=%q", s.Current().Name, s.Label())
	}
}

func TestEditMaxLength(t *testing.T) {
	s := newTestSession(t, "a.jpg")

	if err := s.Edit(strings.Repeat("9", MaxLabelLength)); err != nil {
		t.Errorf("Expected %d characters to be accepted, got %v", MaxLabelLength, err)
	}
	if err := s.Edit("ção" + strings.Repeat("1", MaxLabelLength-3)); err != nil {
		t.Errorf("length must count characters, not bytes: %v", err)
	}

	before := s.Label()
	err := s.Edit(strings.Repeat("9", MaxLabelLength+1))
	if !errors.Is(err, ErrLabelTooLong) {
		t.Errorf("Expected ErrLabelTooLong, got %v", err)
	}
	if s.Label() != before {
		t.Errorf("rejected edit must not change the label, got %q", s.Label())
	}
}

func TestEditImageIgnoresCursor(t *testing.T) {
	s := newTestSession(t, "a.jpg", "b.jpg", "c.jpg")

	s.Reverse()
	s.Next()
	if err := s.EditImage(0, "42"); err != nil {
		t.Fatalf("EditImage returned error: %v", err)
	}
	if s.Label() != "" {
		t.Errorf("image at the cursor must stay unlabeled, got %q", s.Label())
	}
	if got := s.Rows(); len(got) != 1 || got[0].Line() != "a.jpg;42" {
		t.Errorf("Expected only a.jpg;42, got %v", got)
	}

	for _, image := range []int{-1, 3} {
		if err := s.EditImage(image, "1"); !errors.Is(err, ErrNoSuchImage) {
			t.Errorf("EditImage(%d): expected ErrNoSuchImage, got %v", image, err)
		}
	}
	if err := s.EditImage(1, strings.Repeat("9", MaxLabelLength+1)); !errors.Is(err, ErrLabelTooLong) {
		t.Errorf("Expected ErrLabelTooLong, got %v", err)
	}
}

func TestCopyPrevious(t *testing.T) {
	s := newTestSession(t, "a.jpg", "b.jpg", "c.jpg")

	if err := s.Edit("10"); err != nil {
		t.Fatal(err)
	}
	if s.CopyPrevious() {
		t.Error("CopyPrevious must be a no-op at position 0")
	}
	if s.Label() != "10" {
		t.Errorf("no-op copy changed label to %q", s.Label())
	}

	s.Next()
	if err := s.Edit("99"); err != nil {
		t.Fatal(err)
	}
	if !s.CopyPrevious() {
		t.Fatal("CopyPrevious should be enabled at position 1")
	}
	if s.Label() != "10" {
		t.Errorf("Expected copied label 10, got %q", s.Label())
	}
	if v := s.View(); v.Label != "10" {
		t.Errorf("view must reflect the copied label immediately, got %q", v.Label)
	}
}

func TestCopyPreviousUsesDisplayOrder(t *testing.T) {
	s := newTestSession(t, "a.jpg", "b.jpg", "c.jpg")
	s.Next()
	s.Next()
	if err := s.Edit("7"); err != nil {
		t.Fatal(err)
	}

	s.Reverse() // display: c, b, a
	s.Next()
	if !s.CopyPrevious() {
		t.Fatal("CopyPrevious should be enabled")
	}
	if s.Current().Name != "b.jpg" || s.Label() != "7" {
		t.Errorf("Expected b.jpg to receive c.jpg's label, got %s=%q", s.Current().Name, s.Label())
	}
}

func TestReverse(t *testing.T) {
	s := newTestSession(t, "a.jpg", "b.jpg", "c.jpg", "d.jpg")
	s.Next()
	s.Next()

	s.Reverse()
	if s.Index() != 0 {
		t.Errorf("Expected idx reset to 0, got %d", s.Index())
	}
	if !s.Reversed() {
		t.Error("Expected reversed=true")
	}
	if !reflect.DeepEqual(s.Order(), []int{3, 2, 1, 0}) {
		t.Errorf("Expected reversed order, got %v", s.Order())
	}
	if s.Current().Name != "d.jpg" {
		t.Errorf("Expected last upload first, got %s", s.Current().Name)
	}

	s.Next()
	s.Reverse()
	if s.Index() != 0 || s.Reversed() {
		t.Errorf("Expected idx=0 reversed=false, got idx=%d reversed=%v", s.Index(), s.Reversed())
	}
	if !reflect.DeepEqual(s.Order(), identity(4)) {
		t.Errorf("Expected identity after reversing twice, got %v", s.Order())
	}
}

func TestApply(t *testing.T) {
	s := newTestSession(t, "a.jpg", "b.jpg")

	steps := []struct {
		action   Action
		expected int
	}{
		{ActionNext, 1},
		{ActionNext, 1},
		{ActionPrevious, 0},
		{ActionCopyPrevious, 0},
		{ActionReverse, 0},
	}
	for _, step := range steps {
		if err := s.Apply(step.action); err != nil {
			t.Fatalf("Apply(%s) returned error: %v", step.action, err)
		}
		if s.Index() != step.expected {
			t.Errorf("after %s expected idx %d, got %d", step.action, step.expected, s.Index())
		}
	}

	if err := s.Apply("jump"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("Expected ErrUnknownAction, got %v", err)
	}
}

func TestExport(t *testing.T) {
	tests := []struct {
		name     string
		labels   []string
		reverse  bool
		expected string
		ok       bool
	}{
		{
			name:     "unlabeled images are omitted",
			labels:   []string{"", "42", "7"},
			expected: "b.jpg;42\nc.jpg;7",
			ok:       true,
		},
		{
			name:     "reversed display order",
			labels:   []string{"1", "", "3"},
			reverse:  true,
			expected: "c.jpg;3\na.jpg;1",
			ok:       true,
		},
		{
			name:   "nothing labeled offers no download",
			labels: []string{"", "", ""},
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, "a.jpg", "b.jpg", "c.jpg")
			for i, l := range tt.labels {
				if err := s.Edit(l); err != nil {
					t.Fatal(err)
				}
				if i < len(tt.labels)-1 {
					s.Next()
				}
			}
			if tt.reverse {
				s.Reverse()
			}

			f, ok, err := s.Export(export.FormatCSV)
			if err != nil {
				t.Fatalf("Export returned error: %v", err)
			}
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			if f.Name != "numerador_manual.csv" || f.ContentType != "text/csv" {
				t.Errorf("unexpected file metadata %s %s", f.Name, f.ContentType)
			}
			if string(f.Data) != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, f.Data)
			}
		})
	}
}

func TestView(t *testing.T) {
	s := newTestSession(t, "a.jpg", "b.jpg")
	v := s.View()
	if v.Name != "a.jpg" || v.Total != 2 || v.CanPrevious || !v.CanNext || v.CanCopy || v.CanExport {
		t.Errorf("unexpected initial view %+v", v)
	}

	s.Next()
	if err := s.Edit("5"); err != nil {
		t.Fatal(err)
	}
	v = s.View()
	if v.Position != 1 || !v.CanPrevious || v.CanNext || !v.CanCopy || v.Labeled != 1 || !v.CanExport {
		t.Errorf("unexpected view after edit %+v", v)
	}
}
