package pdp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// ChallengePair is one (index, coefficient) pair of a Challenge.
type ChallengePair struct {
	Index int
	V     fr.Element
}

// Challenge is the auditor's request of spec.md §4.5: c_ pairs (s_k, v_k),
// s_k drawn from [0,n) with replacement and v_k drawn uniformly from Zr.
type Challenge struct {
	Pairs []ChallengePair
}

// GenChallenge samples a Challenge over a file of n chunks, requesting
// proof for c chunks. c == 0 yields an empty, valid Challenge (a no-op
// audit round). n == 0 with c > 0 is an InputError: there is nothing to
// challenge.
func (ctx *Context) GenChallenge(n, c int, rnd io.Reader) (*Challenge, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	if n < 0 || c < 0 {
		return nil, &InputError{Op: "GenChallenge", Err: fmt.Errorf("n and c must be non-negative, got n=%d c=%d", n, c)}
	}
	if c == 0 {
		return &Challenge{}, nil
	}
	if n == 0 {
		return nil, &InputError{Op: "GenChallenge", Err: fmt.Errorf("cannot challenge %d chunks of an empty file", c)}
	}

	nBig := big.NewInt(int64(n))
	pairs := make([]ChallengePair, c)
	for k := 0; k < c; k++ {
		idx, err := rand.Int(rnd, nBig)
		if err != nil {
			return nil, &ParameterError{Op: "GenChallenge: sample index", Err: err}
		}
		v, err := randomZr(rnd)
		if err != nil {
			return nil, &ParameterError{Op: "GenChallenge: sample coefficient", Err: err}
		}
		pairs[k] = ChallengePair{Index: int(idx.Int64()), V: v}
	}

	return &Challenge{Pairs: pairs}, nil
}
