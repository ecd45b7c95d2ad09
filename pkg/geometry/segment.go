package geometry

// Segment represents a finite line segment between two points.
type Segment struct {
	A Point2D
	B Point2D
}

// Seg creates a new Segment.
func Seg(a, b Point2D) Segment {
	return Segment{A: a, B: b}
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.A.Distance(s.B)
}

// Angle returns the segment direction in radians.
func (s Segment) Angle() float64 {
	return s.B.Sub(s.A).Angle()
}

// ClosestPoint returns the point on the segment closest to p: the projection
// of p onto the segment's carrier line, clamped to the segment's extent.
// A degenerate (zero-length) segment yields its endpoint.
func (s Segment) ClosestPoint(p Point2D) Point2D {
	d := s.B.Sub(s.A)
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return s.A
	}
	t := p.Sub(s.A).Dot(d) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return s.A.Add(d.Scale(t))
}

// Distance returns the distance from p to the segment.
func (s Segment) Distance(p Point2D) float64 {
	return p.Distance(s.ClosestPoint(p))
}
