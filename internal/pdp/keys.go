package pdp

import (
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// SecretKey holds the two independent scalars an owner keeps private:
// ssk signs the file name (spec.md §3, I2) and x authenticates chunk
// content (spec.md §3, I1). It never leaves the owner.
type SecretKey struct {
	ssk fr.Element
	x   fr.Element
}

// PublicKey holds the group elements derived from a SecretKey plus the
// pairing context: spk = g^ssk, u (random G1), v = g^x, and the cached
// pairing euv = e(u,v).
type PublicKey struct {
	Spk bls12381.G2Affine
	U   bls12381.G1Affine
	V   bls12381.G2Affine
	Euv bls12381.GT
}

// KeyGen performs the three-step setup of spec.md §4.3: sample ssk and x,
// sample u, then derive spk, v, and euv. Either the full (SecretKey,
// PublicKey) pair is returned, or an error — there is no partially
// initialized state observable by the caller.
func KeyGen(ctx *Context, rnd io.Reader) (*SecretKey, *PublicKey, error) {
	ssk, err := randomZr(rnd)
	if err != nil {
		return nil, nil, &ParameterError{Op: "KeyGen: sample ssk", Err: err}
	}
	x, err := randomZr(rnd)
	if err != nil {
		return nil, nil, &ParameterError{Op: "KeyGen: sample x", Err: err}
	}
	u, err := randomG1(rnd)
	if err != nil {
		return nil, nil, &ParameterError{Op: "KeyGen: sample u", Err: err}
	}

	sk := &SecretKey{ssk: ssk, x: x}

	var spk bls12381.G2Affine
	spk.ScalarMultiplication(&ctx.g, ssk.BigInt(new(big.Int)))

	var v bls12381.G2Affine
	v.ScalarMultiplication(&ctx.g, x.BigInt(new(big.Int)))

	euv, err := bls12381.Pair([]bls12381.G1Affine{u}, []bls12381.G2Affine{v})
	if err != nil {
		return nil, nil, &ParameterError{Op: "KeyGen: pair(u,v)", Err: err}
	}

	pk := &PublicKey{Spk: spk, U: u, V: v, Euv: euv}

	return sk, pk, nil
}
