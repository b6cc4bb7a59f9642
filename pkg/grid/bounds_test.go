package grid

import "testing"

func TestBoundsIntersects(t *testing.T) {
	b1 := Bounds{MinLon: -71.0, MaxLon: -70.0, MinLat: 42.0, MaxLat: 43.0}
	b2 := Bounds{MinLon: -70.5, MaxLon: -69.5, MinLat: 42.5, MaxLat: 43.5}
	b3 := Bounds{MinLon: -69.0, MaxLon: -68.0, MinLat: 44.0, MaxLat: 45.0}

	if !b1.Intersects(b2) {
		t.Error("b1 and b2 should intersect")
	}
	if b1.Intersects(b3) {
		t.Error("b1 and b3 should not intersect")
	}
}

func TestBoundsUnion(t *testing.T) {
	b1 := Bounds{MinLon: 0, MaxLon: 1, MinLat: 0, MaxLat: 1}
	b2 := Bounds{MinLon: 2, MaxLon: 3, MinLat: -1, MaxLat: 0.5}
	u := b1.Union(b2)
	want := Bounds{MinLon: 0, MaxLon: 3, MinLat: -1, MaxLat: 1}
	if u != want {
		t.Errorf("Union = %+v, want %+v", u, want)
	}
}

func TestBoundsCenter(t *testing.T) {
	b := Bounds{MinLon: 10, MaxLon: 20, MinLat: -4, MaxLat: 4}
	lon, lat := b.Center()
	if lon != 15 || lat != 0 {
		t.Errorf("Center() = (%v,%v), want (15,0)", lon, lat)
	}
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		x    float64
		n    int
		want float64
	}{
		{2.5, 0, 3},
		{-2.5, 0, -3},
		{1.045, 2, 1.05},
		{-1.045, 2, -1.05},
		{0.123456789, 9, 0.123456789},
	}
	for _, tt := range tests {
		got := roundHalfAwayFromZero(tt.x, tt.n)
		if got != tt.want {
			t.Errorf("roundHalfAwayFromZero(%v,%d) = %v, want %v", tt.x, tt.n, got, tt.want)
		}
	}
}
