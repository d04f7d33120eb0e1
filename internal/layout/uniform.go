package layout

// UniformColumns splits the screen into equal columns, left to right in
// window order. Widths are not rounded.
type UniformColumns struct{}

func (UniformColumns) Name() string  { return "uniform-columns" }
func (UniformColumns) Title() string { return "Uniform Columns" }

func (UniformColumns) InitialState() State {
	return State{WindowOrder: []WindowID{}}
}

func (UniformColumns) Frames(windows []Window, screen Rect, state State) Frames {
	frames := Frames{}
	if len(windows) == 0 || screen.Empty() {
		return frames
	}

	ws := Stabilize(windows, state.WindowOrder)
	columnWidth := screen.Width / float64(len(ws))
	for i, w := range ws {
		frames[w.ID] = Rect{
			X:      screen.X + columnWidth*float64(i),
			Y:      screen.Y,
			Width:  columnWidth,
			Height: screen.Height,
		}
	}
	return frames
}

func (u UniformColumns) Update(change Change, state State) State {
	if next, ok := reduceOrder(change, state, u.InitialState()); ok {
		return next
	}
	return state
}

// Commands is empty: uniform columns have nothing to adjust.
func (UniformColumns) Commands() []Command {
	return nil
}
