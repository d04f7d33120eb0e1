package layout

// CenteredMainPane keeps the first MainPaneCount windows in a centered main
// area of MainPaneRatio of the screen width, split into equal columns. The
// remaining windows flank it, the left side taking the extra one.
//
// Column widths are rounded independently, so columns may overlap or leave a
// gap of up to one unit each. The main area is what this layout is about;
// pixel-perfect sides are not.
type CenteredMainPane struct{}

var mainPaneRatioKnob = ratioKnob{
	bounds: Bounds{Min: 0.10, Max: 1},
	step:   DefaultStep,
	get:    mainPaneRatio,
	set:    setMainPaneRatio,
}

// MinMainPaneCount is the smallest number of windows the main area holds.
const MinMainPaneCount = 1

func (CenteredMainPane) Name() string  { return "centered-main-pane" }
func (CenteredMainPane) Title() string { return "Centered Main Pane with Columns" }

func (CenteredMainPane) InitialState() State {
	return State{MainPaneCount: 1, MainPaneRatio: 0.5, WindowOrder: []WindowID{}}
}

// RatioBounds returns the interval MainPaneRatio is kept in.
func (CenteredMainPane) RatioBounds() Bounds {
	return mainPaneRatioKnob.bounds
}

func (CenteredMainPane) Frames(windows []Window, screen Rect, state State) Frames {
	frames := Frames{}
	if len(windows) == 0 || screen.Empty() {
		return frames
	}

	ws := Stabilize(windows, state.WindowOrder)
	mainCount := min(max(state.MainPaneCount, MinMainPaneCount), len(ws))
	secondaryCount := len(ws) - mainCount

	ratio := 1.0
	if secondaryCount > 0 {
		ratio = mainPaneRatioKnob.value(state)
	}
	mainW := roundHalfUp(screen.Width * ratio)
	mainWindowW := roundHalfUp(mainW / float64(mainCount))
	mainX := roundHalfUp(screen.X + (screen.Width-mainW)/2)

	sideW := (screen.Width - mainW) / 2
	leftCount := splitCount(secondaryCount)
	rightCount := secondaryCount - leftCount
	leftW, rightW := 0.0, 0.0
	if leftCount > 0 {
		leftW = roundHalfUp(sideW / float64(leftCount))
	}
	if rightCount > 0 {
		rightW = roundHalfUp(sideW / float64(rightCount))
	}

	for i, w := range ws {
		var frame Rect
		switch {
		case i < mainCount:
			frame = Rect{X: mainX + mainWindowW*float64(i), Width: mainWindowW}
		case i-mainCount < leftCount:
			frame = Rect{X: screen.X + leftW*float64(i-mainCount), Width: leftW}
		default:
			frame = Rect{X: mainX + mainW + rightW*float64(i-mainCount-leftCount), Width: rightW}
		}
		if frame.Width <= 0 {
			continue
		}
		frame.Y = screen.Y
		frame.Height = screen.Height
		frames[w.ID] = frame
	}
	return frames
}

func (m CenteredMainPane) Update(change Change, state State) State {
	if next, ok := reduceOrder(change, state, m.InitialState()); ok {
		return next
	}
	if c, ok := change.(CommandIssued); ok {
		switch c.Command {
		case CommandIncreaseMainCount:
			return increaseMainCount(state)
		case CommandDecreaseMainCount:
			return decreaseMainCount(state)
		}
	}
	if next, ok := mainPaneRatioKnob.reduce(change, state); ok {
		return next
	}
	return state
}

func (CenteredMainPane) Commands() []Command {
	return append([]Command{
		{Name: CommandIncreaseMainCount, Description: "Increase main pane count", UpdateState: increaseMainCount},
		{Name: CommandDecreaseMainCount, Description: "Decrease main pane count", UpdateState: decreaseMainCount},
	}, mainPaneRatioKnob.commands("Expand main pane", "Shrink main pane")...)
}

func increaseMainCount(s State) State {
	next := s.Clone()
	next.MainPaneCount = max(s.MainPaneCount, MinMainPaneCount-1) + 1
	return next
}

func decreaseMainCount(s State) State {
	next := s.Clone()
	next.MainPaneCount = max(MinMainPaneCount, s.MainPaneCount-1)
	return next
}
