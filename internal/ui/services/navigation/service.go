package navigation

import (
	"projectfeed/internal/pagination"
)

// ScrollListener receives the layout after every navigation change
type ScrollListener func(pagination.ScrollSignal)

// Service handles cursor and viewport movement over a list of rows and
// reports every resulting layout as a scroll signal.
type Service struct {
	state     *State
	listeners []ScrollListener
}

// NewService creates a new navigation service
func NewService() *Service {
	return &Service{
		state: &State{
			ViewportHeight: 1, // updated on the first window size
		},
	}
}

// OnScroll registers a listener called synchronously after each change
func (s *Service) OnScroll(fn ScrollListener) {
	if fn != nil {
		s.listeners = append(s.listeners, fn)
	}
}

// GetCursor returns current cursor position
func (s *Service) GetCursor() int {
	return s.state.Cursor
}

// GetViewportOffset returns current viewport offset
func (s *Service) GetViewportOffset() int {
	return s.state.ViewportOffset
}

// GetViewportHeight returns current viewport height
func (s *Service) GetViewportHeight() int {
	return s.state.ViewportHeight
}

// GetTotal returns the number of rows in the list
func (s *Service) GetTotal() int {
	return s.state.Total
}

// VisibleCount returns how many rows are actually on screen
func (s *Service) VisibleCount() int {
	n := s.state.Total - s.state.ViewportOffset
	if n > s.state.ViewportHeight {
		n = s.state.ViewportHeight
	}
	if n < 0 {
		return 0
	}
	return n
}

// Signal returns the current layout as a scroll signal. The visible edge
// is the offset of the first row on screen plus the number of rows shown.
func (s *Service) Signal() pagination.ScrollSignal {
	return pagination.ScrollSignal{
		VisibleEdgeIndex: s.state.ViewportOffset + s.VisibleCount(),
		TotalCount:       s.state.Total,
	}
}

// SetViewportHeight updates how many rows fit on screen
func (s *Service) SetViewportHeight(rows int) {
	if rows < 1 {
		rows = 1
	}
	s.state.ViewportHeight = rows
	s.ensureVisible()
	s.emit()
}

// SetTotal updates the number of rows, e.g. after a page was appended
func (s *Service) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	s.state.Total = total
	s.state.Cursor = s.clampIndex(s.state.Cursor)
	s.ensureVisible()
	s.emit()
}

// Reset moves back to the top of an empty list
func (s *Service) Reset() {
	s.state.Cursor = 0
	s.state.ViewportOffset = 0
	s.state.Total = 0
	s.emit()
}

// Emit reports the current layout again, as after a fresh layout pass
func (s *Service) Emit() {
	s.emit()
}

// Navigate handles navigation in a direction
func (s *Service) Navigate(direction Direction) {
	switch direction {
	case DirectionUp:
		s.moveUp()
	case DirectionDown:
		s.moveDown()
	case DirectionPageUp:
		s.pageUp()
	case DirectionPageDown:
		s.pageDown()
	case DirectionHome:
		s.moveToStart()
	case DirectionEnd:
		s.moveToEnd()
	}
	s.emit()
}

// MoveToIndex moves cursor to specific index
func (s *Service) MoveToIndex(index int) {
	s.state.Cursor = s.clampIndex(index)
	s.ensureVisible()
	s.emit()
}

func (s *Service) emit() {
	sig := s.Signal()
	for _, fn := range s.listeners {
		fn(sig)
	}
}

func (s *Service) maxIndex() int {
	if s.state.Total == 0 {
		return 0
	}
	return s.state.Total - 1
}

func (s *Service) moveUp() {
	if s.state.Cursor > 0 {
		s.state.Cursor--
		s.ensureVisible()
	}
}

func (s *Service) moveDown() {
	if s.state.Cursor < s.maxIndex() {
		s.state.Cursor++
		s.ensureVisible()
	}
}

func (s *Service) pageUp() {
	pageSize := s.pageSize()
	s.state.Cursor = s.clampIndex(s.state.Cursor - pageSize)

	s.state.ViewportOffset -= pageSize
	if s.state.ViewportOffset < 0 {
		s.state.ViewportOffset = 0
	}
	s.ensureVisible()
}

func (s *Service) pageDown() {
	s.state.Cursor = s.clampIndex(s.state.Cursor + s.pageSize())
	s.ensureVisible()
}

func (s *Service) pageSize() int {
	if s.state.ViewportHeight > 1 {
		return s.state.ViewportHeight - 1
	}
	return 1
}

func (s *Service) moveToStart() {
	s.state.Cursor = 0
	s.state.ViewportOffset = 0
}

func (s *Service) moveToEnd() {
	s.state.Cursor = s.maxIndex()
	s.ensureVisible()
}

func (s *Service) clampIndex(index int) int {
	if index < 0 {
		return 0
	}
	if max := s.maxIndex(); index > max {
		return max
	}
	return index
}

func (s *Service) ensureVisible() {
	if s.state.Cursor < s.state.ViewportOffset {
		s.state.ViewportOffset = s.state.Cursor
	} else if s.state.Cursor >= s.state.ViewportOffset+s.state.ViewportHeight {
		s.state.ViewportOffset = s.state.Cursor - s.state.ViewportHeight + 1
	}
	// Never leave blank rows at the bottom when the list is long enough
	if maxOffset := s.state.Total - s.state.ViewportHeight; maxOffset >= 0 && s.state.ViewportOffset > maxOffset {
		s.state.ViewportOffset = maxOffset
	}
	if s.state.ViewportOffset < 0 {
		s.state.ViewportOffset = 0
	}
}
