package session

import (
	"image"

	"github.com/handiism/avatar-customizer/internal/model"
	"go.uber.org/zap"
)

// Hooks are optional host callbacks. Nil fields are not called. A hook
// that panics is logged and otherwise ignored.
type Hooks struct {
	// PartSelected is called after a selection is stored, and after a
	// rebuild for the first part that has shapes.
	PartSelected func(part string, shapeID int)

	// CompositeRedraw is called with every finished composite.
	CompositeRedraw func(img *image.RGBA)

	// GridRebuild is called after a rebuild with the ordered shapes of the
	// first part that has shapes.
	GridRebuild func(part string, shapes []model.ShapeEntry)
}

func (s *Session) partSelected(part string, shapeID int) {
	if s.hooks.PartSelected == nil {
		return
	}
	s.safely("part-selected", func() { s.hooks.PartSelected(part, shapeID) })
}

func (s *Session) compositeRedraw(img *image.RGBA) {
	if s.hooks.CompositeRedraw == nil {
		return
	}
	s.safely("composite-redraw", func() { s.hooks.CompositeRedraw(img) })
}

func (s *Session) gridRebuild(part string, shapes []model.ShapeEntry) {
	if s.hooks.GridRebuild == nil {
		return
	}
	s.safely("grid-rebuild", func() { s.hooks.GridRebuild(part, shapes) })
}

func (s *Session) emit(e Event) {
	if s.onEvent == nil {
		return
	}
	s.safely("event", func() { s.onEvent(e) })
}

// safely runs fn, recovering and logging any panic.
func (s *Session) safely(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("host callback panicked",
				zap.String("callback", name),
				zap.Any("panic", r))
		}
	}()
	fn()
}
