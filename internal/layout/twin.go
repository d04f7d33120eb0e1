package layout

import "math"

// CenteredTwinColumns places two windows side by side in a centered region
// of MainRatio of the screen width, meeting at the screen midpoint. The other
// windows are split into equal columns on both sides. A single window gets
// the whole screen.
type CenteredTwinColumns struct{}

var twinRatio = ratioKnob{
	bounds: Bounds{Min: 0.20, Max: 0.90},
	step:   DefaultStep,
	get:    mainRatio,
	set:    setMainRatio,
}

func (CenteredTwinColumns) Name() string  { return "centered-twin-columns" }
func (CenteredTwinColumns) Title() string { return "Centered Twin Columns" }

func (CenteredTwinColumns) InitialState() State {
	return State{MainRatio: 0.50, WindowOrder: []WindowID{}}
}

// RatioBounds returns the interval MainRatio is kept in.
func (CenteredTwinColumns) RatioBounds() Bounds {
	return twinRatio.bounds
}

func (CenteredTwinColumns) Frames(windows []Window, screen Rect, state State) Frames {
	frames := Frames{}
	n := len(windows)
	if n == 0 || screen.Empty() {
		return frames
	}
	if n == 1 {
		frames[windows[0].ID] = screen
		return frames
	}

	ws := Stabilize(windows, state.WindowOrder)
	leftCount := splitCount(n - 2)
	centerLeft := min(leftCount, n-2)
	centerRight := min(leftCount+1, n-1)

	totalW := roundHalfUp(screen.Width * twinRatio.value(state))
	halfW := math.Floor(totalW / 2)
	otherHalfW := totalW - halfW
	midX := roundHalfUp(screen.X + screen.Width/2)

	leftPane := Rect{X: midX - halfW, Y: screen.Y, Width: halfW, Height: screen.Height}
	rightPane := Rect{X: midX, Y: screen.Y, Width: otherHalfW, Height: screen.Height}
	if !leftPane.Empty() {
		frames[ws[centerLeft].ID] = leftPane
	}
	if !rightPane.Empty() {
		frames[ws[centerRight].ID] = rightPane
	}

	center := Rect{X: leftPane.X, Y: screen.Y, Width: totalW, Height: screen.Height}
	left, right := sideRegions(screen, center)
	tileSide(frames, ws[:leftCount], left)
	tileSide(frames, ws[centerRight+1:], right)
	return frames
}

func (t CenteredTwinColumns) Update(change Change, state State) State {
	if next, ok := reduceOrder(change, state, t.InitialState()); ok {
		return next
	}
	if next, ok := twinRatio.reduce(change, state); ok {
		return next
	}
	return state
}

func (CenteredTwinColumns) Commands() []Command {
	return twinRatio.commands(
		"Widen the two centered panes (outward from midpoint)",
		"Narrow the two centered panes (inward toward midpoint)",
	)
}
