package camera

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestPositionOnSphere(t *testing.T) {
	c := NewOrbitCamera()
	c.SetCenter(10, 0, -5)
	c.Distance = 100
	c.RotationX = 0.3
	c.RotationY = 1.2

	got := c.Position().Distance(c.Center())
	if math32.Abs(float32(got)-100) > 1e-3 {
		t.Errorf("expected distance 100 from center, got %f", got)
	}
	if c.Position().Y <= 0 {
		t.Error("expected camera above the center for positive pitch")
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, 1e6)
	if c.RotationX != c.MaxPitch {
		t.Errorf("expected pitch clamped to %f, got %f", c.MaxPitch, c.RotationX)
	}
	c.HandleDrag(0, -1e6)
	if c.RotationX != c.MinPitch {
		t.Errorf("expected pitch clamped to %f, got %f", c.MinPitch, c.RotationX)
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := NewOrbitCamera()
	for i := 0; i < 100; i++ {
		c.HandleZoom(1)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("expected distance clamped to %f, got %f", c.MinDistance, c.Distance)
	}
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToBounds(-100, 0, -50, 100, 20, 50)

	if c.CenterX != 0 || c.CenterY != 10 || c.CenterZ != 0 {
		t.Errorf("expected center (0,10,0), got (%f,%f,%f)", c.CenterX, c.CenterY, c.CenterZ)
	}
	if math32.Abs(c.Distance-180) > 1e-3 {
		t.Errorf("expected distance 180, got %f", c.Distance)
	}
}

func TestViewMatrixLooksAtCenter(t *testing.T) {
	c := NewOrbitCamera()
	c.SetCenter(3, 4, 5)
	view := c.ViewMatrix()

	// The center lands on the view axis, in front of the camera
	p := view.TransformVec3(c.Center())
	if math32.Abs(float32(p.X)) > 1e-3 || math32.Abs(float32(p.Y)) > 1e-3 {
		t.Errorf("expected center on the view axis, got %v", p)
	}
	if p.Z >= 0 {
		t.Errorf("expected center in front of the camera, got z=%f", p.Z)
	}
}
