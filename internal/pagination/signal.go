package pagination

import "fmt"

// ScrollSignal is one observation of the feed's scroll position: the index just
// past the last visible row and the number of rows currently loaded.
type ScrollSignal struct {
	VisibleEdgeIndex int
	TotalCount       int
}

// Valid reports whether both coordinates are non-negative.
func (s ScrollSignal) Valid() bool {
	return s.VisibleEdgeIndex >= 0 && s.TotalCount >= 0
}

func (s ScrollSignal) String() string {
	return fmt.Sprintf("edge=%d total=%d", s.VisibleEdgeIndex, s.TotalCount)
}

// NearBottom is the threshold predicate: the visible edge sits exactly two rows
// before the end of the loaded list. Malformed signals never qualify.
func NearBottom(s ScrollSignal) bool {
	return s.Valid() && s.VisibleEdgeIndex == s.TotalCount-2
}
