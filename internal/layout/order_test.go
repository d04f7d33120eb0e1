package layout

import (
	"reflect"
	"testing"
)

func ids(s ...string) []WindowID {
	out := make([]WindowID, len(s))
	for i, v := range s {
		out[i] = WindowID(v)
	}
	return out
}

func wins(s ...string) []Window {
	out := make([]Window, len(s))
	for i, v := range s {
		out[i] = Window{ID: WindowID(v), Title: v}
	}
	return out
}

func TestStabilize(t *testing.T) {
	tests := []struct {
		name    string
		windows []Window
		order   []WindowID
		want    []WindowID
	}{
		{
			name:    "empty order keeps input order",
			windows: wins("a", "b", "c"),
			want:    ids("a", "b", "c"),
		},
		{
			name:    "known windows follow order",
			windows: wins("c", "a", "b"),
			order:   ids("a", "b", "c"),
			want:    ids("a", "b", "c"),
		},
		{
			name:    "unknown windows appended in input order",
			windows: wins("d", "b", "e", "a"),
			order:   ids("a", "b"),
			want:    ids("a", "b", "d", "e"),
		},
		{
			name:    "stale identifiers skipped",
			windows: wins("b", "c"),
			order:   ids("a", "b", "x", "c"),
			want:    ids("b", "c"),
		},
		{
			name:    "duplicate order entries emit once",
			windows: wins("a", "b"),
			order:   ids("b", "b", "a"),
			want:    ids("b", "a"),
		},
		{
			name:  "no windows",
			order: ids("a"),
			want:  []WindowID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IDs(Stabilize(tt.windows, tt.order))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Stabilize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStabilizeIsDeterministicPermutation(t *testing.T) {
	windows := wins("e", "c", "a", "d", "b")
	orders := [][]WindowID{
		nil,
		ids("a", "b", "c", "d", "e"),
		ids("z", "d"),
		ids("b", "e", "q", "a"),
	}

	for _, order := range orders {
		first := Stabilize(windows, order)
		second := Stabilize(windows, order)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Stabilize(%v) not deterministic: %v vs %v", order, first, second)
		}
		if len(first) != len(windows) {
			t.Fatalf("Stabilize(%v) returned %d windows, want %d", order, len(first), len(windows))
		}
		seen := map[WindowID]int{}
		for _, w := range first {
			seen[w.ID]++
		}
		for _, w := range windows {
			if seen[w.ID] != 1 {
				t.Errorf("Stabilize(%v): window %s appears %d times", order, w.ID, seen[w.ID])
			}
		}
	}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name string
		old  []WindowID
		new  []WindowID
		want []WindowID
	}{
		{
			name: "rotation is ignored",
			old:  ids("A", "B", "C"),
			new:  ids("B", "C", "A"),
			want: ids("A", "B", "C"),
		},
		{
			name: "single swap is adopted",
			old:  ids("A", "B", "C"),
			new:  ids("A", "C", "B"),
			want: ids("A", "C", "B"),
		},
		{
			name: "swap of distant positions is adopted",
			old:  ids("A", "B", "C", "D"),
			new:  ids("D", "B", "C", "A"),
			want: ids("D", "B", "C", "A"),
		},
		{
			name: "two swaps are ignored",
			old:  ids("A", "B", "C", "D"),
			new:  ids("B", "A", "D", "C"),
			want: ids("A", "B", "C", "D"),
		},
		{
			name: "identical order is kept",
			old:  ids("A", "B"),
			new:  ids("A", "B"),
			want: ids("A", "B"),
		},
		{
			name: "add and remove",
			old:  ids("A", "B", "C"),
			new:  ids("B", "C", "D"),
			want: ids("B", "C", "D"),
		},
		{
			name: "new windows appended in given order",
			old:  ids("A", "B"),
			new:  ids("E", "B", "D", "A"),
			want: ids("A", "B", "E", "D"),
		},
		{
			name: "survivors keep old relative order",
			old:  ids("A", "B", "C", "D"),
			new:  ids("D", "B"),
			want: ids("B", "D"),
		},
		{
			name: "first windows",
			new:  ids("A", "B"),
			want: ids("A", "B"),
		},
		{
			name: "everything closed",
			old:  ids("A", "B"),
			new:  nil,
			want: []WindowID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.new, tt.old)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Reconcile(%v, %v) = %v, want %v", tt.new, tt.old, got, tt.want)
			}
		})
	}
}

func TestReconcileDoesNotAlias(t *testing.T) {
	old := ids("A", "B", "C")
	got := Reconcile(ids("C", "B", "A"), old)
	got[0] = "Z"
	if old[0] != "A" {
		t.Errorf("Reconcile result aliases old order: %v", old)
	}

	swapped := ids("A", "C", "B")
	got = Reconcile(swapped, old)
	got[0] = "Z"
	if swapped[0] != "A" {
		t.Errorf("Reconcile result aliases new order: %v", swapped)
	}
}

func TestIsExactSwap(t *testing.T) {
	tests := []struct {
		a, b []WindowID
		want bool
	}{
		{ids("A", "B"), ids("B", "A"), true},
		{ids("A", "B", "C"), ids("C", "B", "A"), true},
		{ids("A", "B", "C"), ids("A", "B", "C"), false},
		{ids("A", "B", "C"), ids("B", "C", "A"), false},
		{ids("A", "B", "C"), ids("A", "B", "D"), false},
		{ids("A", "B", "C"), ids("A", "X", "Y"), false},
		{ids("A", "B"), ids("A", "B", "C"), false},
		{nil, nil, false},
	}

	for _, tt := range tests {
		if got := IsExactSwap(tt.a, tt.b); got != tt.want {
			t.Errorf("IsExactSwap(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
