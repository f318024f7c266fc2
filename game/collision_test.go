package game

import "testing"

func TestOverlaps(t *testing.T) {
	p := Rect{X: 50, Y: 165, W: 30, H: 30}

	cases := []struct {
		name string
		o    Rect
		want bool
	}{
		{"inside", Rect{X: 60, Y: 170, W: 5, H: 5}, true},
		{"partial", Rect{X: 70, Y: 150, W: 20, H: 20}, true},
		{"touching right edge", Rect{X: 80, Y: 165, W: 20, H: 30}, false},
		{"touching left edge", Rect{X: 30, Y: 165, W: 20, H: 30}, false},
		{"touching bottom edge", Rect{X: 50, Y: 195, W: 20, H: 30}, false},
		{"touching top edge", Rect{X: 50, Y: 135, W: 20, H: 30}, false},
		{"far right", Rect{X: 300, Y: 165, W: 20, H: 30}, false},
		{"above", Rect{X: 50, Y: 0, W: 20, H: 100}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Overlaps(p, c.o); got != c.want {
				t.Fatalf("Overlaps(%+v, %+v) = %v, want %v", p, c.o, got, c.want)
			}
			if got := Overlaps(c.o, p); got != c.want {
				t.Fatalf("Overlaps is not symmetric for %+v", c.o)
			}
		})
	}
}

func TestPlayerRectCentred(t *testing.T) {
	s := NewState()
	r := s.PlayerRect()
	if r.Top() != SurfaceHeight/2-PlayerHeight/2 || r.Bottom() != SurfaceHeight/2+PlayerHeight/2 {
		t.Fatalf("player rect = %+v", r)
	}
}

func TestPointerMapping(t *testing.T) {
	y, ok := PointerToSurface(150, 100, 180)
	if !ok || y != 100 {
		t.Fatalf("PointerToSurface = %f, %v; want 100, true", y, ok)
	}
	if _, ok := PointerToSurface(150, 100, 0); ok {
		t.Fatalf("expected zero-height rect to be rejected")
	}

	s := NewState()
	s.MovePlayer(-40)
	if s.PlayerY != PlayerHeight/2 {
		t.Fatalf("clamped top = %f", s.PlayerY)
	}
	s.MovePlayer(SurfaceHeight + 40)
	if s.PlayerY != SurfaceHeight-PlayerHeight/2 {
		t.Fatalf("clamped bottom = %f", s.PlayerY)
	}
	s.MovePlayer(200)
	if s.PlayerY != 200 {
		t.Fatalf("PlayerY = %f, want 200", s.PlayerY)
	}
}
