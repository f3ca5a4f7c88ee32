package astro

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestProject(t *testing.T) {
	center := r2.Vec{X: 300, Y: 200}

	tests := []struct {
		name  string
		angle float64
		want  r2.Vec
	}{
		{"3 o'clock", 0, r2.Vec{X: 400, Y: 200}},
		{"6 o'clock", 90, r2.Vec{X: 300, Y: 300}},
		{"9 o'clock", 180, r2.Vec{X: 200, Y: 200}},
		{"12 o'clock", 270, r2.Vec{X: 300, Y: 100}},
		{"unnormalized negative", -90, r2.Vec{X: 300, Y: 100}},
		{"unnormalized large", 540, r2.Vec{X: 200, Y: 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(center, 100, tt.angle)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("Project() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAscendantProjectsToLeftHorizon(t *testing.T) {
	center := r2.Vec{X: 250, Y: 250}
	for _, asc := range []float64{0, 17.5, 123.4, 359.9} {
		offset := AngleOffset(asc)
		screen := ToScreenAngle(asc, offset)
		if math.Abs(screen-180) > 1e-9 {
			t.Errorf("asc %v: screen angle = %v, want 180", asc, screen)
		}
		p := Project(center, 100, screen)
		if math.Abs(p.X-150) > 1e-9 || math.Abs(p.Y-250) > 1e-9 {
			t.Errorf("asc %v: projected to %+v, want left horizon", asc, p)
		}
	}
}

func TestToScreenAngleNotNormalized(t *testing.T) {
	if got := ToScreenAngle(350, 180); got != -170 {
		t.Errorf("ToScreenAngle(350, 180) = %v, want -170", got)
	}
}

func TestClampSegment(t *testing.T) {
	from := r2.Vec{X: 0, Y: 0}

	short := ClampSegment(from, r2.Vec{X: 3, Y: 4}, 8)
	if short != (r2.Vec{X: 3, Y: 4}) {
		t.Errorf("short segment changed: %+v", short)
	}

	long := ClampSegment(from, r2.Vec{X: 30, Y: 40}, 8)
	if math.Abs(r2.Norm(long)-8) > 1e-9 {
		t.Errorf("clamped length = %v, want 8", r2.Norm(long))
	}
	if math.Abs(long.X-4.8) > 1e-9 || math.Abs(long.Y-6.4) > 1e-9 {
		t.Errorf("clamped endpoint = %+v, want direction kept", long)
	}

	zero := ClampSegment(from, from, 8)
	if zero != from {
		t.Errorf("zero segment = %+v", zero)
	}
}
