package layout

// Change is an event a host reports to a strategy. The set of changes is
// closed: WindowsChanged, CommandIssued, ResizedMain and HardReset. Any other
// value, including nil, leaves the state untouched.
type Change interface {
	change()
}

// WindowsChanged reports the current window list, in whatever order the host
// enumerates windows.
type WindowsChanged struct {
	Windows []Window
}

// CommandIssued carries a named layout command such as CommandExpandMain.
type CommandIssued struct {
	Command string
}

// ResizedMain reports that the user dragged the edge of the main area by
// Delta pixels on a screen ScreenWidth pixels wide.
type ResizedMain struct {
	Delta       float64
	ScreenWidth float64
}

// HardReset discards the state and restores the strategy's initial state.
type HardReset struct{}

func (WindowsChanged) change() {}
func (CommandIssued) change()  {}
func (ResizedMain) change()    {}
func (HardReset) change()      {}

// Command names understood by CommandIssued and the command tables.
const (
	CommandExpandMain        = "expandMain"
	CommandShrinkMain        = "shrinkMain"
	CommandIncreaseMain      = "increaseMain"
	CommandDecreaseMain      = "decreaseMain"
	CommandIncreaseMainCount = "increaseMainCount"
	CommandDecreaseMainCount = "decreaseMainCount"
)

// ratioDelta converts a pixel delta into a ratio delta. A zero screen width
// counts as 1.
func (c ResizedMain) ratioDelta() float64 {
	width := c.ScreenWidth
	if width == 0 {
		width = 1
	}
	return c.Delta / width
}

// reduceOrder applies the parts of a change every strategy handles the same
// way. It reports false when the change is not one of them.
func reduceOrder(change Change, state State, initial State) (State, bool) {
	switch c := change.(type) {
	case WindowsChanged:
		next := state.Clone()
		next.WindowOrder = Reconcile(IDs(c.Windows), state.WindowOrder)
		return next, true
	case HardReset:
		return initial.Clone(), true
	default:
		return state, false
	}
}
