package layout

import "math"

// tileSide divides region into equal columns for windows, left to right.
// Column widths are floored and the last column takes what is left, so the
// columns cover region exactly. Nothing is placed in an empty region, and a
// column that floors to zero width gets no frame.
func tileSide(frames Frames, windows []Window, region Rect) {
	k := len(windows)
	if k == 0 || region.Empty() {
		return
	}
	colW := math.Floor(region.Width / float64(k))
	for i, w := range windows {
		width := colW
		if i == k-1 {
			width = region.Width - colW*float64(k-1)
		}
		if width <= 0 {
			continue
		}
		frames[w.ID] = Rect{
			X:      region.X + float64(i)*colW,
			Y:      region.Y,
			Width:  width,
			Height: region.Height,
		}
	}
}

// sideRegions returns the parts of screen left of center and right of it.
// A region that would have negative width comes back empty.
func sideRegions(screen, center Rect) (left, right Rect) {
	left = Rect{
		X:      screen.X,
		Y:      screen.Y,
		Width:  max(0, center.X-screen.X),
		Height: screen.Height,
	}
	right = Rect{
		X:      center.Right(),
		Y:      screen.Y,
		Width:  max(0, screen.Right()-center.Right()),
		Height: screen.Height,
	}
	return left, right
}
