package core

// FeatureVector is a derived, read-only summary of a Pattern used by the
// classical candidate filter. It is computed on demand and never mutated.
type FeatureVector struct {
	Popcount      int  // total set bits
	EdgeBits      int  // set bits on the grid border
	CenterBits    int  // set bits in the grid interior
	SymmetryScore int  // approximate left-right row symmetry
	VerticalSym   bool // whether the pattern is roughly mirror-symmetric
}

// ExtractFeatures computes the feature vector of a pattern under the given
// grid geometry.
func ExtractFeatures(p Pattern, g Geometry) FeatureVector {
	score := rowSymmetryScore(p, g)
	return FeatureVector{
		Popcount:      p.Popcount(),
		EdgeBits:      (p & g.EdgeMask()).Popcount(),
		CenterBits:    (p & g.CenterMask()).Popcount(),
		SymmetryScore: score,
		VerticalSym:   score >= g.Height-1,
	}
}

// rowSymmetryScore scores each row against its mirror image: an exactly
// symmetric row earns 2 points, a row within Hamming distance 2 of its
// mirror earns 1 point.
func rowSymmetryScore(p Pattern, g Geometry) int {
	score := 0
	for row := 0; row < g.Height; row++ {
		rowBits := p.Row(g, row)
		reversed := reverseRow(rowBits, g.Width)
		switch {
		case rowBits == reversed:
			score += 2
		case rowBits.HammingDistance(reversed) <= 2:
			score++
		}
	}
	return score
}
