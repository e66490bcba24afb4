package trackgen

import (
	"github.com/Faultbox/sweeptrack/internal/track"
)

// Open returns the layout stored at path, or a random layout from seed when
// path is empty.
func Open(path string, seed int64) (track.Generator, error) {
	if path == "" {
		return NewRandom(seed), nil
	}
	return LoadFile(path)
}
