package core

import (
	"math/bits"
	"strings"
)

// Pattern is a fixed-width bit vector representing one point in the
// combinatorial search space. Bit i corresponds to grid position
// (row = i / width, col = i % width). Patterns are immutable values.
type Pattern uint32

// Geometry describes the grid shape a Pattern is interpreted against.
type Geometry struct {
	Width  int // columns per row
	Height int // rows
}

// DefaultGeometry is the 5x3 grid used by the reference letter patterns.
var DefaultGeometry = Geometry{Width: 5, Height: 3}

// Bits returns the total number of positions in the grid.
func (g Geometry) Bits() int {
	return g.Width * g.Height
}

// SpaceSize returns the number of distinct patterns for this geometry.
func (g Geometry) SpaceSize() int {
	return 1 << g.Bits()
}

// EdgeMask returns a mask selecting the full first and last rows of the
// grid. For the default 5x3 geometry this is 0b111110000011111.
func (g Geometry) EdgeMask() Pattern {
	var mask Pattern
	for col := 0; col < g.Width; col++ {
		mask |= 1 << col
		mask |= 1 << ((g.Height-1)*g.Width + col)
	}
	return mask
}

// CenterMask returns a mask selecting interior positions: middle rows with
// the boundary columns excluded. For the default 5x3 geometry this is
// 0b000000111000000. The side columns of middle rows belong to neither
// region.
func (g Geometry) CenterMask() Pattern {
	var mask Pattern
	for row := 1; row < g.Height-1; row++ {
		for col := 1; col < g.Width-1; col++ {
			mask |= 1 << (row*g.Width + col)
		}
	}
	return mask
}

// Popcount returns the number of set bits in the pattern.
func (p Pattern) Popcount() int {
	return bits.OnesCount32(uint32(p))
}

// HammingDistance returns the number of differing bit positions between
// two patterns of equal width.
func (p Pattern) HammingDistance(other Pattern) int {
	return (p ^ other).Popcount()
}

// Bit returns 1 if position i is set, 0 otherwise.
func (p Pattern) Bit(i int) int {
	return int(p>>i) & 1
}

// Row extracts the bits of one grid row as a width-bit value.
func (p Pattern) Row(g Geometry, row int) Pattern {
	return (p >> (row * g.Width)) & (1<<g.Width - 1)
}

// reverseRow mirrors a width-bit row value left to right.
func reverseRow(row Pattern, width int) Pattern {
	var out Pattern
	for i := 0; i < width; i++ {
		out |= ((row >> i) & 1) << (width - 1 - i)
	}
	return out
}

// Render draws the pattern as a grid, one row per line.
func (p Pattern) Render(g Geometry) string {
	var b strings.Builder
	for row := 0; row < g.Height; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		rowBits := p.Row(g, row)
		for col := 0; col < g.Width; col++ {
			if rowBits.Bit(col) == 1 {
				b.WriteRune('█')
			} else {
				b.WriteRune('·')
			}
		}
	}
	return b.String()
}
