// Package layout implements column tiling strategies for window managers.
//
// A strategy is a pure function of the visible windows, the usable screen
// rectangle and a small persisted State. It never moves windows itself: the
// host asks for Frames, applies them, and feeds every change event back
// through Update to get the next State.
package layout

import "math"

// WindowID identifies a window. Hosts must keep it stable for the lifetime
// of the window.
type WindowID string

// Window is a window as seen by a strategy. Only ID takes part in layout;
// Title is carried for hosts and renderers.
type Window struct {
	ID    WindowID `json:"id" toml:"id" yaml:"id"`
	Title string   `json:"title,omitempty" toml:"title,omitempty" yaml:"title,omitempty"`
}

// Rect is a rectangle in screen coordinates.
type Rect struct {
	X      float64 `json:"x" toml:"x" yaml:"x"`
	Y      float64 `json:"y" toml:"y" yaml:"y"`
	Width  float64 `json:"width" toml:"width" yaml:"width"`
	Height float64 `json:"height" toml:"height" yaml:"height"`
}

// Empty reports whether r covers no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Right returns the x coordinate just past the right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the y coordinate just past the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Frames maps every placed window to its rectangle.
type Frames map[WindowID]Rect

// Bounds is a closed interval a ratio is kept in.
type Bounds struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Clamp pins v into b.
func (b Bounds) Clamp(v float64) float64 {
	return clamp(v, b.Min, b.Max)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// roundHalfUp rounds .5 toward positive infinity, so -2.5 becomes -2.
// Frame coordinates on screens left of the origin depend on this.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// splitCount returns how many of n items go on the left when they are
// divided around a center: the left side gets the extra one.
func splitCount(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 1) / 2
}
