// Package rng provides the seedable uniform generator that drives all
// randomization. It is Marsaglia's MWC256 multiply-with-carry generator,
// a DIEHARD-quality source that is cheap enough for the grid search to
// consume millions of draws. It is not cryptographic.
package rng

// DefaultSeed is used when a generator is created without an explicit seed.
const DefaultSeed = 123456789

// MWC256 is a multiply-with-carry generator with a 256-entry lag table.
// The zero value is not usable; create instances with New.
type MWC256 struct {
	q           [256]uint32
	carry       uint32
	idx         uint8
	seed        uint32
	initialized bool
}

// New creates a generator with the given seed.
func New(seed int) *MWC256 {
	g := &MWC256{}
	g.Seed(seed)
	return g
}

// Seed resets the generator deterministically. The state table is rebuilt
// lazily on the next draw, so seeding is cheap.
func (g *MWC256) Seed(seed int) {
	g.seed = uint32(seed)
	g.carry = 362436
	g.idx = 255
	g.initialized = false
}

// Next32 returns the next raw 32-bit draw.
func (g *MWC256) Next32() uint32 {
	if !g.initialized {
		g.initialized = true
		j := g.seed
		for k := 0; k < 256; k++ {
			j = 69069*j + 12345 // wraps mod 2^32
			g.q[k] = j
		}
	}

	const a = 809430660
	g.idx++ // wraps mod 256, walking the lag table
	t := a*uint64(g.q[g.idx]) + uint64(g.carry)
	g.carry = uint32(t >> 32)
	g.q[g.idx] = uint32(t)
	return g.q[g.idx]
}

// Uniform returns the next draw scaled to [0,1]. The upper bound is
// attainable because the raw draw is divided by 2^32-1, so callers that
// index with the result must clamp.
func (g *MWC256) Uniform() float64 {
	const mult = 1.0 / 0xFFFFFFFF
	return mult * float64(g.Next32())
}
