package learn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/mllab/internal/dataset"
)

var testCenter = dataset.Point{X: dataset.EllipseCenterX, Y: dataset.EllipseCenterY}

func TestPrincipalDirectionIsUnit(t *testing.T) {
	v := PrincipalDirection
	if n := math.Hypot(v.X, v.Y); math.Abs(n-1) > 1e-12 {
		t.Errorf("expected unit vector, got norm %v", n)
	}
}

func TestProject_LandsOnLine(t *testing.T) {
	p := Project(dataset.Point{X: 250, Y: 130}, testCenter, PrincipalDirection)
	// The line through the center along (1,1) satisfies x - cx == y - cy.
	if d := (p.X - testCenter.X) - (p.Y - testCenter.Y); math.Abs(d) > 1e-9 {
		t.Errorf("projected point %+v is off the line by %v", p, d)
	}
}

func TestApplyProjection_ExactlyReversible(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	orig := NewPCAPoints(dataset.CorrelatedEllipse(rng, dataset.EllipseCount, testCenter.X, testCenter.Y))

	points := orig
	projected := false
	for i := 0; i < 101; i++ {
		projected = !projected
		points = ApplyProjection(points, projected, testCenter, PrincipalDirection)
	}
	if !projected {
		t.Fatal("expected to end projected after an odd number of toggles")
	}
	once := ApplyProjection(orig, true, testCenter, PrincipalDirection)
	for i := range points {
		if points[i] != once[i] {
			t.Fatalf("point %d drifted: %+v vs %+v", i, points[i], once[i])
		}
	}

	restored := ApplyProjection(points, false, testCenter, PrincipalDirection)
	for i := range restored {
		if restored[i] != orig[i] {
			t.Fatalf("point %d not restored bit-for-bit: %+v vs %+v", i, restored[i], orig[i])
		}
	}
}
