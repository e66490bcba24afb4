package city

import (
	"math/rand"

	"github.com/Faultbox/sweeptrack/internal/track"
)

// Factory returns a track.FieldFactory producing cities drawn by drawer.
// Each city gets its own layout seed, derived from seed.
func Factory(seed int64, drawer Drawer) track.FieldFactory {
	rng := rand.New(rand.NewSource(seed))
	return func(xWidth, zWidth float64, resolution int) track.Field {
		c := New(xWidth, zWidth, resolution, rng.Int63())
		c.SetDrawer(drawer)
		return c
	}
}
