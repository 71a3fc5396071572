package pdp

import (
	"math/big"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// FixedBaseTable is a windowed doubling table for a fixed G1 base point,
// the analogue of the pairing library's pp_init/pp_pow_zn primitives named
// in spec.md §6.1. spec.md §4.4 recommends building one per sign operation
// for the fixed base u; Pow(exp) then replaces repeated calls to the
// library's generic scalar multiplication with table lookups plus additions.
//
// Pow is safe for concurrent use: SigGen shares one table across the worker
// goroutines of its parallel per-chunk loop (spec.md §8), so table growth is
// serialized behind mu.
type FixedBaseTable struct {
	mu     sync.Mutex
	powers []bls12381.G1Jac // powers[i] = 2^i * base
}

// NewFixedBaseTable builds a table covering exponents up to 2^bits-1;
// Pow grows the table lazily if it later sees a larger exponent.
func NewFixedBaseTable(base bls12381.G1Affine, bits int) *FixedBaseTable {
	if bits < 1 {
		bits = 1
	}
	t := &FixedBaseTable{powers: make([]bls12381.G1Jac, 1, bits)}
	t.powers[0].FromAffine(&base)
	t.ensureBits(bits)
	return t
}

func (t *FixedBaseTable) ensureBits(n int) {
	for len(t.powers) < n {
		var next bls12381.G1Jac
		next.Double(&t.powers[len(t.powers)-1])
		t.powers = append(t.powers, next)
	}
}

// Pow computes base^exp (written multiplicatively; base*exp additively)
// using the precomputed doubling table.
func (t *FixedBaseTable) Pow(exp *big.Int) bls12381.G1Affine {
	var res bls12381.G1Affine

	if exp.Sign() == 0 {
		res.SetInfinity()
		return res
	}

	bitLen := exp.BitLen()

	t.mu.Lock()
	t.ensureBits(bitLen)
	var acc bls12381.G1Jac
	started := false
	for i := 0; i < bitLen; i++ {
		if exp.Bit(i) == 1 {
			if !started {
				acc = t.powers[i]
				started = true
			} else {
				acc.AddAssign(&t.powers[i])
			}
		}
	}
	t.mu.Unlock()

	res.FromJacobian(&acc)
	return res
}
