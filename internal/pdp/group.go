package pdp

import (
	"crypto/rand"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// randomZr draws a uniform element of Zr using rnd as the entropy source.
func randomZr(rnd io.Reader) (fr.Element, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	v, err := rand.Int(rnd, fr.Modulus())
	if err != nil {
		return fr.Element{}, err
	}
	var z fr.Element
	z.SetBigInt(v)
	return z, nil
}

// randomG1 draws a uniform element of G1 by multiplying the fixed generator
// by a uniform Zr scalar — valid because G1 is cyclic of prime order.
func randomG1(rnd io.Reader) (bls12381.G1Affine, error) {
	scalar, err := randomZr(rnd)
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	_, _, g1Gen, _ := bls12381.Generators()
	var p bls12381.G1Affine
	p.ScalarMultiplication(&g1Gen, scalar.BigInt(new(big.Int)))
	return p, nil
}

// randomG2 draws a uniform element of G2, the same way randomG1 does.
func randomG2(rnd io.Reader) (bls12381.G2Affine, error) {
	scalar, err := randomZr(rnd)
	if err != nil {
		return bls12381.G2Affine{}, err
	}
	_, _, _, g2Gen := bls12381.Generators()
	var p bls12381.G2Affine
	p.ScalarMultiplication(&g2Gen, scalar.BigInt(new(big.Int)))
	return p, nil
}

// fieldSizeBytes is the canonical byte length of a Zr element.
func fieldSizeBytes() int {
	var z fr.Element
	b := z.Bytes()
	return len(b[:])
}

// g1AffineXOnlySize is the byte length of an x-only encoded G1 element —
// the size of a single base-field element.
func g1AffineXOnlySize() int {
	var e fp.Element
	b := e.Bytes()
	return len(b[:])
}

// g2AffineSize is the byte length of a canonically (fully) encoded G2
// element.
func g2AffineSize() int {
	var g bls12381.G2Affine
	b := g.Bytes()
	return len(b[:])
}
