package layout

// DefaultStep is how far one expand or shrink command moves a ratio.
const DefaultStep = 0.05

// ratioKnob is a clamped ratio field of State together with the step its
// commands move it by. The CommandIssued branch of Update and the command
// table both go through it, so the two routes cannot drift apart.
type ratioKnob struct {
	bounds Bounds
	step   float64
	get    func(State) float64
	set    func(*State, float64)
}

// value returns the field, clamped.
func (k ratioKnob) value(s State) float64 {
	return k.bounds.Clamp(k.get(s))
}

// add returns a copy of s with delta added to the field, clamped.
func (k ratioKnob) add(s State, delta float64) State {
	next := s.Clone()
	k.set(&next, k.bounds.Clamp(k.get(s)+delta))
	return next
}

func (k ratioKnob) expand(s State) State { return k.add(s, k.step) }
func (k ratioKnob) shrink(s State) State { return k.add(s, -k.step) }

// reduce handles CommandIssued and ResizedMain for the field.
func (k ratioKnob) reduce(change Change, state State) (State, bool) {
	switch c := change.(type) {
	case CommandIssued:
		switch c.Command {
		case CommandExpandMain, CommandIncreaseMain:
			return k.expand(state), true
		case CommandShrinkMain, CommandDecreaseMain:
			return k.shrink(state), true
		}
		return state, false
	case ResizedMain:
		return k.add(state, c.ratioDelta()), true
	}
	return state, false
}

// commands returns the four ratio commands described with the given verbs.
func (k ratioKnob) commands(expandDesc, shrinkDesc string) []Command {
	return []Command{
		{Name: CommandExpandMain, Description: expandDesc, UpdateState: k.expand},
		{Name: CommandShrinkMain, Description: shrinkDesc, UpdateState: k.shrink},
		{Name: CommandIncreaseMain, Description: "Alias of " + CommandExpandMain, UpdateState: k.expand},
		{Name: CommandDecreaseMain, Description: "Alias of " + CommandShrinkMain, UpdateState: k.shrink},
	}
}

func mainRatio(s State) float64            { return s.MainRatio }
func setMainRatio(s *State, v float64)     { s.MainRatio = v }
func mainPaneRatio(s State) float64        { return s.MainPaneRatio }
func setMainPaneRatio(s *State, v float64) { s.MainPaneRatio = v }
