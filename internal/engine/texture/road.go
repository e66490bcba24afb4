// Package texture generates and uploads the track's surface textures.
package texture

import (
	"image"
	"image/color"
	gomath "math"
	"math/rand"

	"github.com/anthonynsimon/bild/blur"
)

// Road paint and surface bands, as fractions of the around-track coordinate.
const (
	DeckStart  = 0.25
	DeckEnd    = 0.75
	EdgeInset  = 0.02
	LineWidth  = 0.008
	DashLength = 0.5 // fraction of one along-track repeat that is painted

	// HeightBlur is the Gaussian radius, in pixels, applied to the bump map.
	HeightBlur = 0.8
)

var (
	asphalt  = color.RGBA{R: 62, G: 62, B: 66, A: 255}
	concrete = color.RGBA{R: 150, G: 146, B: 138, A: 255}
	white    = color.RGBA{R: 235, G: 235, B: 230, A: 255}
	yellow   = color.RGBA{R: 230, G: 190, B: 40, A: 255}
)

// Road paints one repeat of the road surface. Image X runs along the track
// (texture S) and image Y around the cross-section (texture T): the deck
// with edge lines and a dashed center line, concrete elsewhere.
func Road(size int, seed int64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	rng := rand.New(rand.NewSource(seed))

	for y := 0; y < size; y++ {
		tc := (float64(y) + 0.5) / float64(size)
		for x := 0; x < size; x++ {
			sc := (float64(x) + 0.5) / float64(size)

			c := concrete
			if tc >= DeckStart && tc <= DeckEnd {
				c = asphalt
				switch {
				case gomath.Abs(tc-(DeckStart+EdgeInset)) < LineWidth,
					gomath.Abs(tc-(DeckEnd-EdgeInset)) < LineWidth:
					c = white
				case gomath.Abs(tc-0.5) < LineWidth && sc < DashLength:
					c = yellow
				}
			}
			img.SetRGBA(x, y, grain(c, rng))
		}
	}
	return img
}

// Height returns a bump map matching Road: fine grain on the deck and
// smoother concrete, softened by a small Gaussian blur.
func Height(size int, seed int64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	rng := rand.New(rand.NewSource(seed))

	for y := 0; y < size; y++ {
		tc := (float64(y) + 0.5) / float64(size)
		for x := 0; x < size; x++ {
			v := 128 + rng.Intn(9) - 4
			if tc >= DeckStart && tc <= DeckEnd {
				v = 96 + rng.Intn(33) - 16
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}
	return toGray(blur.Gaussian(img, HeightBlur))
}

func toGray(src *image.RGBA) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.SetGray(x, y, color.Gray{Y: src.RGBAAt(b.Min.X+x, b.Min.Y+y).R})
		}
	}
	return out
}

// NormalMap derives a tangent-space normal map from height by central
// differences, wrapping at the borders. Larger strength gives steeper bumps.
func NormalMap(height *image.Gray, strength float64) *image.RGBA {
	b := height.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	at := func(x, y int) float64 {
		x = (x%w + w) % w
		y = (y%h + h) % h
		return float64(height.GrayAt(b.Min.X+x, b.Min.Y+y).Y) / 255
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (at(x+1, y) - at(x-1, y)) * strength
			dy := (at(x, y+1) - at(x, y-1)) * strength
			nx, ny, nz := -dx, -dy, 1.0
			l := gomath.Sqrt(nx*nx + ny*ny + nz*nz)
			out.SetRGBA(x, y, color.RGBA{
				R: encode(nx / l),
				G: encode(ny / l),
				B: encode(nz / l),
				A: 255,
			})
		}
	}
	return out
}

// encode maps [-1, 1] to [0, 255].
func encode(v float64) uint8 {
	return uint8(gomath.Round((v*0.5 + 0.5) * 255))
}

func grain(c color.RGBA, rng *rand.Rand) color.RGBA {
	d := rng.Intn(13) - 6
	return color.RGBA{R: clamp8(int(c.R) + d), G: clamp8(int(c.G) + d), B: clamp8(int(c.B) + d), A: c.A}
}

func clamp8(v int) uint8 {
	return uint8(min(max(v, 0), 255))
}
