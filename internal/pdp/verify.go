package pdp

import (
	"context"
	"fmt"
	"math/big"
	"runtime"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"golang.org/x/sync/errgroup"
)

// VerifyProof checks proof against chal and md (spec.md §4.7):
//
//	gamma = H(R)
//	T     = prod_k H(name||s_k)^{v_k}
//	accept iff R * e(sigma^gamma, g) == e(T^gamma * u^mu, v)
//
// The right-hand aggregate T is accumulated over GOMAXPROCS workers, the
// same partitioning SigGen and GenProof use (spec.md §8).
func VerifyProof(ctx *Context, proof *Proof, chal *Challenge, md *Metadata, pk *PublicKey) (bool, error) {
	h := NewHasher(ctx)
	gamma := h.HashGTToZr(&proof.R)
	gammaBig := gamma.BigInt(new(big.Int))

	nameBytes := md.Name.Bytes()

	var tJac bls12381.G1Jac
	tStarted := false

	if len(chal.Pairs) > 0 {
		numWorkers := runtime.GOMAXPROCS(0)
		if numWorkers > len(chal.Pairs) {
			numWorkers = len(chal.Pairs)
		}
		chunkSize := (len(chal.Pairs) + numWorkers - 1) / numWorkers
		partials := make([]bls12381.G1Jac, numWorkers)
		started := make([]bool, numWorkers)

		g, gctx := errgroup.WithContext(context.Background())
		for w := 0; w < numWorkers; w++ {
			w := w
			start := w * chunkSize
			end := start + chunkSize
			if end > len(chal.Pairs) {
				end = len(chal.Pairs)
			}
			if start >= end {
				continue
			}

			g.Go(func() error {
				wh := NewHasher(ctx)
				var local bls12381.G1Jac
				localStarted := false

				for k := start; k < end; k++ {
					select {
					case <-gctx.Done():
						return gctx.Err()
					default:
					}

					pair := chal.Pairs[k]
					if pair.Index < 0 || pair.Index >= len(md.Authenticators) {
						return &InputError{Op: "VerifyProof", Err: fmt.Errorf("challenge index %d out of range [0,%d)", pair.Index, len(md.Authenticators))}
					}

					wi := chunkWindowID(nameBytes[:], pair.Index)
					hi, err := wh.HashBytesToG1(wi)
					if err != nil {
						return &ParameterError{Op: "VerifyProof: hash chunk id", Err: err}
					}

					vBig := pair.V.BigInt(new(big.Int))
					var contrib bls12381.G1Affine
					contrib.ScalarMultiplication(&hi, vBig)
					var contribJac bls12381.G1Jac
					contribJac.FromAffine(&contrib)
					if !localStarted {
						local = contribJac
						localStarted = true
					} else {
						local.AddAssign(&contribJac)
					}
				}

				partials[w] = local
				started[w] = localStarted
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return false, err
		}

		for w := range partials {
			if !started[w] {
				continue
			}
			if !tStarted {
				tJac = partials[w]
				tStarted = true
			} else {
				tJac.AddAssign(&partials[w])
			}
		}
	}

	var t bls12381.G1Affine
	if tStarted {
		t.FromJacobian(&tJac)
	} else {
		t.SetInfinity()
	}

	// rhsBase = T^gamma * u^mu
	var tGamma bls12381.G1Affine
	tGamma.ScalarMultiplication(&t, gammaBig)

	var uMu bls12381.G1Affine
	uMu.ScalarMultiplication(&pk.U, proof.Mu)

	var rhsBase bls12381.G1Affine
	rhsBase.Add(&tGamma, &uMu)

	rhs, err := bls12381.Pair([]bls12381.G1Affine{rhsBase}, []bls12381.G2Affine{pk.V})
	if err != nil {
		return false, &ParameterError{Op: "VerifyProof: pair(rhsBase, v)", Err: err}
	}

	var sigmaGamma bls12381.G1Affine
	sigmaGamma.ScalarMultiplication(&proof.Sigma, gammaBig)

	sigmaPairing, err := bls12381.Pair([]bls12381.G1Affine{sigmaGamma}, []bls12381.G2Affine{ctx.g})
	if err != nil {
		return false, &ParameterError{Op: "VerifyProof: pair(sigma^gamma, g)", Err: err}
	}

	var lhs bls12381.GT
	lhs.Mul(&proof.R, &sigmaPairing)

	return lhs.Equal(&rhs), nil
}
