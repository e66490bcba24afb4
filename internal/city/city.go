// Package city lays out a grid of building blocks around the track and cuts
// the road corridor out of it.
package city

import (
	"math/rand"

	polyclip "github.com/akavel/polyclip-go"
	"go.uber.org/zap"

	"github.com/Faultbox/sweeptrack/internal/logger"
	"github.com/Faultbox/sweeptrack/pkg/math"
)

const (
	// DefaultClearance is the half-width of the corridor kept free around
	// the centerline: the road deck plus a shoulder.
	DefaultClearance = 9.0

	// BlockFill is the fraction of a grid cell covered by its block; the
	// rest is street.
	BlockFill = 0.7

	MinHeight = 8.0
	MaxHeight = 60.0
)

// Block is one building: an axis-aligned footprint in the XZ plane extruded
// from Base to Base+Height.
type Block struct {
	Min, Max math.Vec2 // X, Z
	Base     float64
	Height   float64
}

// Center returns the footprint center.
func (b Block) Center() math.Vec2 {
	return b.Min.Lerp(b.Max, 0.5)
}

func (b Block) contour() polyclip.Contour {
	return polyclip.Contour{
		{X: b.Min.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Max.Y},
		{X: b.Min.X, Y: b.Max.Y},
	}
}

// Drawer draws the surviving blocks.
type Drawer interface {
	DrawBlocks(blocks []Block)
}

// City is a resolution x resolution block grid covering xWidth by zWidth,
// centered on the origin.
type City struct {
	XWidth     float64
	ZWidth     float64
	Resolution int
	Clearance  float64

	blocks []Block
	alive  []bool
	drawer Drawer

	log *zap.Logger
}

// New creates a city with block heights drawn from seed.
func New(xWidth, zWidth float64, resolution int, seed int64) *City {
	if resolution < 1 {
		resolution = 1
	}
	c := &City{
		XWidth:     xWidth,
		ZWidth:     zWidth,
		Resolution: resolution,
		Clearance:  DefaultClearance,
		blocks:     make([]Block, 0, resolution*resolution),
		alive:      make([]bool, 0, resolution*resolution),
		log:        logger.Named("city"),
	}

	rng := rand.New(rand.NewSource(seed))
	cellX, cellZ := c.cellSize()
	inset := math.Vec2{X: cellX * (1 - BlockFill) / 2, Y: cellZ * (1 - BlockFill) / 2}
	for z := 0; z < resolution; z++ {
		for x := 0; x < resolution; x++ {
			lo := math.Vec2{X: -xWidth/2 + float64(x)*cellX, Y: -zWidth/2 + float64(z)*cellZ}
			hi := lo.Add(math.Vec2{X: cellX, Y: cellZ})
			c.blocks = append(c.blocks, Block{
				Min:    lo.Add(inset),
				Max:    hi.Sub(inset),
				Height: MinHeight + rng.Float64()*(MaxHeight-MinHeight),
			})
			c.alive = append(c.alive, true)
		}
	}
	return c
}

// SetDrawer sets the target of Render.
func (c *City) SetDrawer(d Drawer) {
	c.drawer = d
}

func (c *City) cellSize() (float64, float64) {
	return c.XWidth / float64(c.Resolution), c.ZWidth / float64(c.Resolution)
}

// cellRange returns the clamped grid cells covering [lo, hi] on one axis.
func (c *City) cellRange(lo, hi, width, cell float64) (int, int) {
	first := int((lo + width/2) / cell)
	last := int((hi + width/2) / cell)
	if first < 0 {
		first = 0
	}
	if last >= c.Resolution {
		last = c.Resolution - 1
	}
	return first, last
}

// Carve removes every block whose footprint meets one of the Clearance
// half-width squares around the points of path.
func (c *City) Carve(path []math.Vec3) {
	if len(path) == 0 {
		return
	}
	cellX, cellZ := c.cellSize()

	// Bucket the corridor squares by the cells they touch
	nearby := make(map[int][]int)
	for i, p := range path {
		x0, x1 := c.cellRange(p.X-c.Clearance, p.X+c.Clearance, c.XWidth, cellX)
		z0, z1 := c.cellRange(p.Z-c.Clearance, p.Z+c.Clearance, c.ZWidth, cellZ)
		for z := z0; z <= z1; z++ {
			for x := x0; x <= x1; x++ {
				idx := z*c.Resolution + x
				nearby[idx] = append(nearby[idx], i)
			}
		}
	}

	removed := 0
	for idx, points := range nearby {
		if !c.alive[idx] {
			continue
		}
		block := polyclip.Polygon{c.blocks[idx].contour()}
		for _, i := range points {
			if block.Construct(polyclip.INTERSECTION, c.square(path[i])).NumVertices() > 0 {
				c.alive[idx] = false
				removed++
				break
			}
		}
	}

	c.log.Debug("carved city",
		zap.Int("path_points", len(path)),
		zap.Int("removed", removed),
		zap.Int("remaining", c.Len()),
	)
}

// square is the clearance square around p in the XZ plane.
func (c *City) square(p math.Vec3) polyclip.Polygon {
	return polyclip.Polygon{{
		{X: p.X - c.Clearance, Y: p.Z - c.Clearance},
		{X: p.X + c.Clearance, Y: p.Z - c.Clearance},
		{X: p.X + c.Clearance, Y: p.Z + c.Clearance},
		{X: p.X - c.Clearance, Y: p.Z + c.Clearance},
	}}
}

// Blocks returns the blocks still standing.
func (c *City) Blocks() []Block {
	out := make([]Block, 0, len(c.blocks))
	for i, b := range c.blocks {
		if c.alive[i] {
			out = append(out, b)
		}
	}
	return out
}

// Len returns the number of blocks still standing.
func (c *City) Len() int {
	n := 0
	for _, a := range c.alive {
		if a {
			n++
		}
	}
	return n
}

// Render passes the standing blocks to the drawer, if one is set.
func (c *City) Render() {
	if c.drawer == nil {
		return
	}
	c.drawer.DrawBlocks(c.Blocks())
}
