package layout

// CenteredPrimaryColumns places one primary window in a centered column of
// MainRatio of the screen width. The other windows are split into equal
// columns on both sides; the left side gets the extra window when the count
// is odd.
type CenteredPrimaryColumns struct{}

var primaryRatio = ratioKnob{
	bounds: Bounds{Min: 0.20, Max: 0.80},
	step:   DefaultStep,
	get:    mainRatio,
	set:    setMainRatio,
}

func (CenteredPrimaryColumns) Name() string  { return "centered-primary-columns" }
func (CenteredPrimaryColumns) Title() string { return "Centered Primary Columns" }

func (CenteredPrimaryColumns) InitialState() State {
	return State{MainRatio: 0.40, WindowOrder: []WindowID{}}
}

// RatioBounds returns the interval MainRatio is kept in.
func (CenteredPrimaryColumns) RatioBounds() Bounds {
	return primaryRatio.bounds
}

func (CenteredPrimaryColumns) Frames(windows []Window, screen Rect, state State) Frames {
	frames := Frames{}
	if len(windows) == 0 || screen.Empty() {
		return frames
	}

	ws := Stabilize(windows, state.WindowOrder)
	n := len(ws)
	leftCount := splitCount(n - 1)
	primaryIndex := min(leftCount, n-1)

	mainW := roundHalfUp(screen.Width * primaryRatio.value(state))
	center := Rect{
		X:      roundHalfUp(screen.X + (screen.Width-mainW)/2),
		Y:      screen.Y,
		Width:  mainW,
		Height: screen.Height,
	}
	if !center.Empty() {
		frames[ws[primaryIndex].ID] = center
	}

	left, right := sideRegions(screen, center)
	tileSide(frames, ws[:leftCount], left)
	tileSide(frames, ws[primaryIndex+1:], right)
	return frames
}

func (p CenteredPrimaryColumns) Update(change Change, state State) State {
	if next, ok := reduceOrder(change, state, p.InitialState()); ok {
		return next
	}
	if next, ok := primaryRatio.reduce(change, state); ok {
		return next
	}
	return state
}

func (CenteredPrimaryColumns) Commands() []Command {
	return primaryRatio.commands("Widen the centered primary", "Narrow the centered primary")
}
