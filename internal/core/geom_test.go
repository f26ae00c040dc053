package core

import "testing"

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}

	cx, cy := r.Center()
	if cx != 15 || cy != 17 {
		t.Errorf("Center() = (%d, %d), expected (15, 17)", cx, cy)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestRectCentered(t *testing.T) {
	outer := NewRect(0, 0, 20, 10)
	inner := outer.Centered(6, 4)

	if inner != NewRect(7, 3, 6, 4) {
		t.Errorf("Centered(6, 4) = %+v, expected {7 3 6 4}", inner)
	}
	if inner.X < outer.X || inner.Y < outer.Y || inner.Right() > outer.Right() || inner.Bottom() > outer.Bottom() {
		t.Error("Centered rect should lie inside the outer rect")
	}
}
