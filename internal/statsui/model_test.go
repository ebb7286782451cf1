package statsui

import "testing"

func TestStepCurveWindow(t *testing.T) {
	tests := []struct {
		current int
		delta   int
		want    int
	}{
		{current: 10, delta: 1, want: 20},
		{current: 10, delta: -1, want: 5},
		{current: 1, delta: -1, want: 1},
		{current: 50, delta: 1, want: 50},
		{current: 7, delta: 1, want: 10},
		{current: 7, delta: -1, want: 1},
	}
	for _, tt := range tests {
		if got := stepCurveWindow(tt.current, tt.delta); got != tt.want {
			t.Fatalf("stepCurveWindow(%d, %d) = %d, want %d", tt.current, tt.delta, got, tt.want)
		}
	}
}
