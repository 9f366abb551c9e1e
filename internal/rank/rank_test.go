package rank

import (
	"reflect"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct{ index, n, want int }{
		{-3, 4, 0},
		{0, 4, 0},
		{2, 4, 2},
		{4, 4, 4},
		{9, 4, 4},
		{1, 0, 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.index, tt.n); got != tt.want {
			t.Errorf("Clamp(%d, %d) = %d, want %d", tt.index, tt.n, got, tt.want)
		}
	}
}

func TestSplice(t *testing.T) {
	tests := []struct {
		name   string
		ids    []uint
		id     uint
		index  int
		want   []uint
		wantAt int
	}{
		{"into empty", nil, 7, 0, []uint{7}, 0},
		{"top of column", []uint{1, 2, 3}, 9, 0, []uint{9, 1, 2, 3}, 0},
		{"middle", []uint{1, 2, 3}, 9, 2, []uint{1, 2, 9, 3}, 2},
		{"past end clamps", []uint{1, 2}, 9, 10, []uint{1, 2, 9}, 2},
		{"negative clamps", []uint{1, 2}, 9, -1, []uint{9, 1, 2}, 0},
		{"reorder down", []uint{1, 2, 3, 4}, 1, 2, []uint{2, 3, 1, 4}, 2},
		{"reorder up", []uint{1, 2, 3, 4}, 4, 0, []uint{4, 1, 2, 3}, 0},
		{"same place", []uint{1, 2, 3}, 2, 1, []uint{1, 2, 3}, 1},
		{"reorder to end clamps to remaining", []uint{1, 2, 3}, 1, 3, []uint{2, 3, 1}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := append([]uint(nil), tt.ids...)
			got, at := Splice(tt.ids, tt.id, tt.index)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Splice = %v, want %v", got, tt.want)
			}
			if at != tt.wantAt {
				t.Errorf("index = %d, want %d", at, tt.wantAt)
			}
			if !reflect.DeepEqual(tt.ids, orig) {
				t.Errorf("input mutated: %v, was %v", tt.ids, orig)
			}
		})
	}
}

func TestRemove(t *testing.T) {
	got := Remove([]uint{4, 5, 6}, 5)
	if !reflect.DeepEqual(got, []uint{4, 6}) {
		t.Errorf("Remove = %v", got)
	}
	got = Remove([]uint{4}, 9)
	if !reflect.DeepEqual(got, []uint{4}) {
		t.Errorf("Remove missing = %v", got)
	}
}

func TestDense(t *testing.T) {
	tests := []struct {
		in   []int
		want bool
	}{
		{nil, true},
		{[]int{0}, true},
		{[]int{2, 0, 1}, true},
		{[]int{0, 2}, false},
		{[]int{0, 0}, false},
		{[]int{-1, 0}, false},
	}
	for _, tt := range tests {
		if got := Dense(tt.in); got != tt.want {
			t.Errorf("Dense(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
