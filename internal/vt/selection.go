package vt

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

// Selection is the visual/clipboard text selection (spec.md §3). Unlike
// phroun-purfecterm's Buffer, which normalizes against buffer-absolute
// coordinates that include scrollback, this core has no scrollback (spec.md
// §1 Non-goals) so Start/End are plain screen cell coordinates.
type Selection struct {
	Start     Point
	End       Point
	Selecting bool // drag in progress
	Active    bool // a selection exists and should be drawn/exported
}

// Begin starts a new selection at (x, y).
func (s *Selection) Begin(x, y int) {
	s.Start = Point{X: x, Y: y}
	s.End = Point{X: x, Y: y}
	s.Selecting = true
	s.Active = true
}

// Extend moves the selection's end point while a drag is in progress.
func (s *Selection) Extend(x, y int) {
	s.End = Point{X: x, Y: y}
}

// Finish ends the drag; the selection remains Active (grounded on
// phroun-purfecterm's EndSelection: "Selection remains active until
// cleared").
func (s *Selection) Finish() {
	s.Selecting = false
}

// Clear deactivates the selection.
func (s *Selection) Clear() {
	*s = Selection{}
}

// Normalized returns the selection endpoints in reading order: start comes
// before end in row-major order (spec.md §4.7 "if end.y < start.y, swap
// endpoints; if same row and start.x > end.x, swap the x endpoints").
func (s Selection) Normalized() (start, end Point) {
	start, end = s.Start, s.End
	if end.Y < start.Y {
		start, end = end, start
	} else if end.Y == start.Y && start.X > end.X {
		start.X, end.X = end.X, start.X
	}
	return start, end
}

// Contains reports whether cell (x, y) falls within the selection (spec.md
// §4.7): same row → start.x ≤ x < end.x; first row of a multi-row selection
// → x ≥ start.x; last row → x ≤ end.x; strictly between → always true.
func (s Selection) Contains(x, y int) bool {
	if !s.Active {
		return false
	}
	start, end := s.Normalized()
	if y < start.Y || y > end.Y {
		return false
	}
	if start.Y == end.Y {
		return x >= start.X && x < end.X
	}
	if y == start.Y {
		return x >= start.X
	}
	if y == end.Y {
		return x <= end.X
	}
	return true
}
