package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(2, 3, 4, 2)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"top-left corner", 2, 3, true},
		{"bottom-right inside", 5, 4, true},
		{"right edge is exclusive", 6, 3, false},
		{"bottom edge is exclusive", 2, 5, false},
		{"left of rect", 1, 3, false},
		{"above rect", 2, 2, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestRectCentered(t *testing.T) {
	outer := NewRect(0, 0, 80, 24)
	inner := outer.Centered(20, 10)

	if inner.X != 30 || inner.Y != 7 || inner.W != 20 || inner.H != 10 {
		t.Errorf("Centered() = %+v", inner)
	}

	// Larger than the outer rect spills past it
	big := outer.Centered(100, 30)
	if big.X != -10 || big.Y != -3 {
		t.Errorf("Centered(100, 30) = %+v, expected origin (-10, -3)", big)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 0, 0},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestInputFrameClearResetsClick(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionFlag)
	f.SetClick(3, 4, MouseRight)

	clone := f.Clone()
	f.Clear()

	if !f.Empty() {
		t.Error("Clear() should drop actions and the click")
	}
	if !clone.Has(ActionFlag) || clone.Click == nil || clone.Click.Button != MouseRight {
		t.Error("Clone() should be independent of the original")
	}
}
