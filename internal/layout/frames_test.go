package layout

import (
	"fmt"
	"math"
	"sort"
	"testing"
)

const eps = 1e-9

// assertTiles checks that frames cover screen left to right with no gap and
// no overlap, allowing each seam to be off by tolerance.
func assertTiles(t *testing.T, frames Frames, screen Rect, tolerance float64) {
	t.Helper()

	rects := make([]Rect, 0, len(frames))
	for id, r := range frames {
		if r.Width <= 0 || r.Height <= 0 {
			t.Errorf("frame %s has non-positive size: %+v", id, r)
		}
		if r.Y != screen.Y || r.Height != screen.Height {
			t.Errorf("frame %s does not span screen height: %+v", id, r)
		}
		rects = append(rects, r)
	}
	sort.Slice(rects, func(i, j int) bool { return rects[i].X < rects[j].X })

	if len(rects) == 0 {
		t.Fatalf("no frames for screen %+v", screen)
	}
	if math.Abs(rects[0].X-screen.X) > tolerance+eps {
		t.Errorf("first frame starts at %v, want %v", rects[0].X, screen.X)
	}
	for i := 1; i < len(rects); i++ {
		if d := math.Abs(rects[i].X - rects[i-1].Right()); d > tolerance+eps {
			t.Errorf("seam %d: frame at %v follows frame ending at %v", i, rects[i].X, rects[i-1].Right())
		}
	}
	last := rects[len(rects)-1]
	if math.Abs(last.Right()-screen.Right()) > tolerance*float64(len(rects))+eps {
		t.Errorf("last frame ends at %v, want %v", last.Right(), screen.Right())
	}
}

func namedWindows(n int) []Window {
	ws := make([]Window, n)
	for i := range ws {
		ws[i] = Window{ID: WindowID(fmt.Sprintf("w%d", i))}
	}
	return ws
}

func TestFramesEmpty(t *testing.T) {
	screen := Rect{Width: 100, Height: 100}
	for _, s := range All() {
		t.Run(s.Name(), func(t *testing.T) {
			if got := s.Frames(nil, screen, s.InitialState()); len(got) != 0 {
				t.Errorf("Frames(no windows) = %v, want empty", got)
			}
			empty := Rect{X: 10, Y: 10, Width: 0, Height: 50}
			if got := s.Frames(namedWindows(3), empty, s.InitialState()); len(got) != 0 {
				t.Errorf("Frames(empty screen) = %v, want empty", got)
			}
			negative := Rect{Width: -40, Height: 50}
			if got := s.Frames(namedWindows(3), negative, s.InitialState()); len(got) != 0 {
				t.Errorf("Frames(negative screen) = %v, want empty", got)
			}
		})
	}
}

func TestUniformColumnsScenario(t *testing.T) {
	s := UniformColumns{}
	frames := s.Frames(wins("a", "b", "c"), Rect{Width: 300, Height: 100}, s.InitialState())

	want := map[WindowID]Rect{
		"a": {X: 0, Y: 0, Width: 100, Height: 100},
		"b": {X: 100, Y: 0, Width: 100, Height: 100},
		"c": {X: 200, Y: 0, Width: 100, Height: 100},
	}
	for id, r := range want {
		if frames[id] != r {
			t.Errorf("frame %s = %+v, want %+v", id, frames[id], r)
		}
	}
}

func TestUniformColumnsFollowsOrder(t *testing.T) {
	s := UniformColumns{}
	state := State{WindowOrder: ids("c", "a", "b")}
	frames := s.Frames(wins("a", "b", "c"), Rect{X: 10, Width: 90, Height: 10}, state)

	if frames["c"].X != 10 || frames["a"].X != 40 || frames["b"].X != 70 {
		t.Errorf("frames not in remembered order: %+v", frames)
	}
}

func TestUniformColumnsCoverage(t *testing.T) {
	s := UniformColumns{}
	screen := Rect{X: -50, Y: 20, Width: 1000, Height: 700}
	for n := 1; n <= 9; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			frames := s.Frames(namedWindows(n), screen, s.InitialState())
			if len(frames) != n {
				t.Fatalf("got %d frames, want %d", len(frames), n)
			}
			assertTiles(t, frames, screen, 0)
		})
	}
}

func TestCenteredPrimaryColumnsScenario(t *testing.T) {
	s := CenteredPrimaryColumns{}
	state := s.InitialState()
	frames := s.Frames(wins("a", "b", "c"), Rect{Width: 100, Height: 50}, state)

	want := map[WindowID]Rect{
		"a": {X: 0, Width: 30, Height: 50},
		"b": {X: 30, Width: 40, Height: 50},
		"c": {X: 70, Width: 30, Height: 50},
	}
	for id, r := range want {
		if frames[id] != r {
			t.Errorf("frame %s = %+v, want %+v", id, frames[id], r)
		}
	}
}

func TestCenteredPrimaryColumnsPlacement(t *testing.T) {
	s := CenteredPrimaryColumns{}
	screen := Rect{Width: 1000, Height: 600}

	tests := []struct {
		n           int
		primary     int
		left, right int
	}{
		{n: 1, primary: 0},
		{n: 2, primary: 1, left: 1},
		{n: 3, primary: 1, left: 1, right: 1},
		{n: 4, primary: 2, left: 2, right: 1},
		{n: 5, primary: 2, left: 2, right: 2},
		{n: 6, primary: 3, left: 3, right: 2},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			ws := namedWindows(tt.n)
			frames := s.Frames(ws, screen, s.InitialState())
			if len(frames) != tt.n {
				t.Fatalf("got %d frames, want %d", len(frames), tt.n)
			}

			primary := frames[ws[tt.primary].ID]
			if primary.X != 300 || primary.Width != 400 {
				t.Errorf("primary %d = %+v, want x=300 width=400", tt.primary, primary)
			}

			left, right := 0, 0
			for i, w := range ws {
				if i == tt.primary {
					continue
				}
				if frames[w.ID].X < primary.X {
					left++
				} else {
					right++
				}
			}
			if left != tt.left || right != tt.right {
				t.Errorf("sides = %d/%d, want %d/%d", left, right, tt.left, tt.right)
			}
		})
	}
}

func TestCenteredPrimaryColumnsCoverage(t *testing.T) {
	s := CenteredPrimaryColumns{}
	screens := []Rect{
		{Width: 1000, Height: 600},
		{X: -1920, Y: 25, Width: 1917, Height: 1055},
		{X: 7, Width: 101, Height: 10},
	}
	for _, screen := range screens {
		for _, ratio := range []float64{0.2, 0.33, 0.4, 0.55, 0.8} {
			for n := 3; n <= 8; n++ {
				t.Run(fmt.Sprintf("%v/%v/n=%d", screen, ratio, n), func(t *testing.T) {
					state := State{MainRatio: ratio}
					frames := s.Frames(namedWindows(n), screen, state)
					if len(frames) != n {
						t.Fatalf("got %d frames, want %d", len(frames), n)
					}
					assertTiles(t, frames, screen, 0)
				})
			}
		}
	}
}

func TestCenteredPrimaryColumnsClampsRatio(t *testing.T) {
	s := CenteredPrimaryColumns{}
	screen := Rect{Width: 100, Height: 10}

	wide := s.Frames(wins("a"), screen, State{MainRatio: 5})
	if wide["a"].Width != 80 {
		t.Errorf("ratio above max gave width %v, want 80", wide["a"].Width)
	}
	narrow := s.Frames(wins("a"), screen, State{MainRatio: 0})
	if narrow["a"].Width != 20 {
		t.Errorf("ratio below min gave width %v, want 20", narrow["a"].Width)
	}
}

func TestCenteredPrimaryColumnsNarrowSides(t *testing.T) {
	s := CenteredPrimaryColumns{}
	// 10 wide at 0.8: primary 8 wide at x=1, one unit on each side for
	// several windows. Columns that floor to zero are left out.
	frames := s.Frames(namedWindows(7), Rect{Width: 10, Height: 5}, State{MainRatio: 0.8})
	for id, r := range frames {
		if r.Width <= 0 {
			t.Errorf("frame %s has width %v", id, r.Width)
		}
	}
	if len(frames) != 3 {
		t.Errorf("got %d frames, want primary plus one per side", len(frames))
	}
}

func TestCenteredMainPaneDefaults(t *testing.T) {
	s := CenteredMainPane{}
	screen := Rect{Width: 1000, Height: 500}

	single := s.Frames(wins("a"), screen, s.InitialState())
	if single["a"] != (Rect{Width: 1000, Height: 500}) {
		t.Errorf("single window = %+v, want full screen", single["a"])
	}

	frames := s.Frames(wins("a", "b", "c"), screen, s.InitialState())
	want := map[WindowID]Rect{
		"a": {X: 250, Width: 500, Height: 500},
		"b": {X: 0, Width: 250, Height: 500},
		"c": {X: 750, Width: 250, Height: 500},
	}
	for id, r := range want {
		if frames[id] != r {
			t.Errorf("frame %s = %+v, want %+v", id, frames[id], r)
		}
	}
}

func TestCenteredMainPaneMultipleMain(t *testing.T) {
	s := CenteredMainPane{}
	screen := Rect{Width: 1200, Height: 800}
	state := State{MainPaneCount: 2, MainPaneRatio: 0.5}

	frames := s.Frames(wins("a", "b", "c", "d", "e"), screen, state)
	want := map[WindowID]Rect{
		"a": {X: 300, Width: 300, Height: 800},
		"b": {X: 600, Width: 300, Height: 800},
		"c": {X: 0, Width: 150, Height: 800},
		"d": {X: 150, Width: 150, Height: 800},
		"e": {X: 900, Width: 300, Height: 800},
	}
	for id, r := range want {
		if frames[id] != r {
			t.Errorf("frame %s = %+v, want %+v", id, frames[id], r)
		}
	}
}

func TestCenteredMainPaneCountExceedsWindows(t *testing.T) {
	s := CenteredMainPane{}
	frames := s.Frames(wins("a", "b"), Rect{Width: 100, Height: 10}, State{MainPaneCount: 4, MainPaneRatio: 0.3})

	// No secondaries: the main area takes the full width and splits in two.
	if frames["a"] != (Rect{X: 0, Width: 50, Height: 10}) || frames["b"] != (Rect{X: 50, Width: 50, Height: 10}) {
		t.Errorf("frames = %+v", frames)
	}
}

func TestCenteredMainPaneCoverageWithinRounding(t *testing.T) {
	s := CenteredMainPane{}
	screen := Rect{X: 13, Y: 0, Width: 1003, Height: 700}
	for count := 1; count <= 3; count++ {
		for _, ratio := range []float64{0.1, 0.37, 0.5, 0.9} {
			// count main windows plus at least one on each side
			for n := count + 2; n <= count+6; n++ {
				t.Run(fmt.Sprintf("count=%d/ratio=%v/n=%d", count, ratio, n), func(t *testing.T) {
					frames := s.Frames(namedWindows(n), screen, State{MainPaneCount: count, MainPaneRatio: ratio})
					if len(frames) != n {
						t.Fatalf("got %d frames, want %d", len(frames), n)
					}
					assertTiles(t, frames, screen, 1)
				})
			}
		}
	}
}

func TestCenteredMainPaneFullRatioDropsSecondaries(t *testing.T) {
	s := CenteredMainPane{}
	frames := s.Frames(wins("a", "b", "c"), Rect{Width: 100, Height: 10}, State{MainPaneCount: 1, MainPaneRatio: 1})
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want only the main window: %+v", len(frames), frames)
	}
	if frames["a"].Width != 100 {
		t.Errorf("main width = %v, want 100", frames["a"].Width)
	}
}

func TestCenteredTwinColumnsSingleWindow(t *testing.T) {
	s := CenteredTwinColumns{}
	screen := Rect{X: 5, Y: 6, Width: 70, Height: 80}
	frames := s.Frames(wins("a"), screen, s.InitialState())
	if frames["a"] != screen {
		t.Errorf("single window = %+v, want %+v", frames["a"], screen)
	}
}

func TestCenteredTwinColumnsPair(t *testing.T) {
	s := CenteredTwinColumns{}
	frames := s.Frames(wins("a", "b"), Rect{Width: 1000, Height: 100}, s.InitialState())

	if frames["a"] != (Rect{X: 250, Width: 250, Height: 100}) {
		t.Errorf("center left = %+v", frames["a"])
	}
	if frames["b"] != (Rect{X: 500, Width: 250, Height: 100}) {
		t.Errorf("center right = %+v", frames["b"])
	}
}

func TestCenteredTwinColumnsOddCenterWidth(t *testing.T) {
	s := CenteredTwinColumns{}
	// 0.55 of 101 rounds to 56: halves 28 and 28 around midpoint 51
	frames := s.Frames(wins("a", "b"), Rect{Width: 101, Height: 10}, State{MainRatio: 0.55})
	if frames["a"].Width+frames["b"].Width != 56 {
		t.Errorf("center widths %v + %v, want 56", frames["a"].Width, frames["b"].Width)
	}
	if frames["b"].X != 51 || frames["a"].Right() != 51 {
		t.Errorf("panes do not meet at midpoint: %+v %+v", frames["a"], frames["b"])
	}

	frames = s.Frames(wins("a", "b"), Rect{Width: 100, Height: 10}, State{MainRatio: 0.45})
	if frames["a"].Width != 22 || frames["b"].Width != 23 {
		t.Errorf("halves = %v/%v, want 22/23", frames["a"].Width, frames["b"].Width)
	}
}

func TestCenteredTwinColumnsPlacement(t *testing.T) {
	s := CenteredTwinColumns{}
	screen := Rect{Width: 1000, Height: 100}

	tests := []struct {
		n                       int
		centerLeft, centerRight int
	}{
		{n: 2, centerLeft: 0, centerRight: 1},
		{n: 3, centerLeft: 1, centerRight: 2},
		{n: 4, centerLeft: 1, centerRight: 2},
		{n: 5, centerLeft: 2, centerRight: 3},
		{n: 6, centerLeft: 2, centerRight: 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			ws := namedWindows(tt.n)
			frames := s.Frames(ws, screen, s.InitialState())
			if got := frames[ws[tt.centerLeft].ID]; got.X != 250 || got.Width != 250 {
				t.Errorf("center left %d = %+v", tt.centerLeft, got)
			}
			if got := frames[ws[tt.centerRight].ID]; got.X != 500 || got.Width != 250 {
				t.Errorf("center right %d = %+v", tt.centerRight, got)
			}
		})
	}
}

func TestCenteredTwinColumnsCoverage(t *testing.T) {
	s := CenteredTwinColumns{}
	screens := []Rect{
		{Width: 1000, Height: 600},
		{X: -1280, Y: 0, Width: 1279, Height: 1024},
		{X: 3, Width: 77, Height: 10},
	}
	for _, screen := range screens {
		for _, ratio := range []float64{0.2, 0.5, 0.63, 0.9} {
			for n := 4; n <= 8; n++ {
				t.Run(fmt.Sprintf("%v/%v/n=%d", screen, ratio, n), func(t *testing.T) {
					frames := s.Frames(namedWindows(n), screen, State{MainRatio: ratio})
					if len(frames) != n {
						t.Fatalf("got %d frames, want %d", len(frames), n)
					}
					assertTiles(t, frames, screen, 0)
				})
			}
		}
	}
}

func TestFramesDoNotMutateInputs(t *testing.T) {
	windows := wins("c", "b", "a")
	state := State{WindowOrder: ids("a", "b", "c"), MainRatio: 0.5, MainPaneCount: 1, MainPaneRatio: 0.5}
	for _, s := range All() {
		s.Frames(windows, Rect{Width: 100, Height: 100}, state)
		if windows[0].ID != "c" || state.WindowOrder[0] != "a" {
			t.Errorf("%s mutated its inputs", s.Name())
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{2.5, 3},
		{2.4999, 2},
		{-2.5, -2},
		{-2.6, -3},
		{0, 0},
	}
	for _, tt := range tests {
		if got := roundHalfUp(tt.in); got != tt.want {
			t.Errorf("roundHalfUp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
