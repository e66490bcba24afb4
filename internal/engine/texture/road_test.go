package texture

import (
	"image"
	"image/color"
	"testing"
)

func TestRoadBands(t *testing.T) {
	const size = 200
	img := Road(size, 1)

	if img.Bounds().Dx() != size || img.Bounds().Dy() != size {
		t.Fatalf("expected %dx%d, got %v", size, size, img.Bounds())
	}

	// Bottom of the profile is concrete, the deck is dark asphalt
	concretePx := img.RGBAAt(size/2, 10)
	deckPx := img.RGBAAt(size/2, size*35/100)
	if concretePx.R < 130 {
		t.Errorf("expected light concrete, got %v", concretePx)
	}
	if deckPx.R > 80 {
		t.Errorf("expected dark asphalt, got %v", deckPx)
	}

	// Dashed center line: painted in the first half of the repeat only
	center := size / 2
	painted := img.RGBAAt(size/4, center)
	gap := img.RGBAAt(size*3/4, center)
	if painted.R < 200 || painted.B > 80 {
		t.Errorf("expected yellow dash, got %v", painted)
	}
	if gap.R > 80 {
		t.Errorf("expected asphalt between dashes, got %v", gap)
	}
}

func TestRoadDeterministic(t *testing.T) {
	a := Road(32, 5)
	b := Road(32, 5)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("pixel byte %d differs for the same seed", i)
		}
	}
}

func TestNormalMapFlat(t *testing.T) {
	flat := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range flat.Pix {
		flat.Pix[i] = 100
	}

	n := NormalMap(flat, 4)
	want := color.RGBA{R: 128, G: 128, B: 255, A: 255}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := n.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestNormalMapSlope(t *testing.T) {
	// Height rises along X in the middle of the image
	ramp := image.NewGray(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			ramp.SetGray(x, y, color.Gray{Y: uint8(x * 20)})
		}
	}

	px := NormalMap(ramp, 4).RGBAAt(4, 4)
	if px.R >= 128 {
		t.Errorf("expected normal tilted against the slope, got %v", px)
	}
	if px.G != 128 {
		t.Errorf("expected no Y tilt, got %v", px)
	}
}

func TestHeightSize(t *testing.T) {
	h := Height(16, 3)
	if h.Bounds().Dx() != 16 || h.Bounds().Dy() != 16 {
		t.Errorf("expected 16x16, got %v", h.Bounds())
	}
}

func TestHeightSmoothed(t *testing.T) {
	const size = 64
	h := Height(size, 3)

	// Neighbouring deck pixels differ by less than the raw grain range
	maxStep := 0
	y := size / 2
	for x := 1; x < size; x++ {
		d := int(h.GrayAt(x, y).Y) - int(h.GrayAt(x-1, y).Y)
		if d < 0 {
			d = -d
		}
		maxStep = max(maxStep, d)
	}
	if maxStep >= 32 {
		t.Errorf("expected blurred deck grain, max step %d", maxStep)
	}

	// Concrete sits above the deck on average
	var deck, concrete int
	for x := 0; x < size; x++ {
		deck += int(h.GrayAt(x, size/2).Y)
		concrete += int(h.GrayAt(x, 2).Y)
	}
	if concrete <= deck {
		t.Errorf("expected concrete (%d) above deck (%d)", concrete/size, deck/size)
	}
}
