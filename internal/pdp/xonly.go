package pdp

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
)

// g1BCoeff is the b coefficient of the BLS12-381 G1 short Weierstrass
// equation y^2 = x^3 + b.
var g1BCoeff = func() fp.Element {
	var b fp.Element
	b.SetUint64(4)
	return b
}()

// encodeXOnly serializes a G1 element as its x-coordinate only, per
// spec.md §4.4/§6.5. The y-coordinate's sign is deliberately discarded:
// decodeXOnly always reconstructs the same canonical root of the curve
// equation, so the recovered point may be the original value or its
// negation (spec.md §4.7, "x-only encoding caveat").
func encodeXOnly(p *bls12381.G1Affine) []byte {
	b := p.X.Bytes()
	out := make([]byte, len(b))
	copy(out, b[:])
	return out
}

// decodeXOnly reconstructs a G1 element from an x-only encoding, choosing
// the canonical (non-lexicographically-largest) root of y^2 = x^3 + b.
func decodeXOnly(data []byte) (bls12381.G1Affine, error) {
	var x fp.Element
	x.SetBytes(data)

	var x3, rhs fp.Element
	x3.Square(&x).Mul(&x3, &x)
	rhs.Add(&x3, &g1BCoeff)

	var y fp.Element
	if y.Sqrt(&rhs) == nil {
		return bls12381.G1Affine{}, fmt.Errorf("pdp: x-only encoding does not correspond to a curve point")
	}
	if y.LexicographicallyLargest() {
		y.Neg(&y)
	}

	return bls12381.G1Affine{X: x, Y: y}, nil
}
