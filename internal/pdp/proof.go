package pdp

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"runtime"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"golang.org/x/sync/errgroup"
)

// Proof is the aggregated response of spec.md §4.6: a random-masked
// pairing value R, an aggregate authenticator Sigma, and the combined
// exponent Mu. Mu is kept as an unbounded integer throughout — it is never
// reduced mod the group order, since reduction happens implicitly the
// moment it is used as a scalar multiplier (spec.md §7 / DESIGN.md).
type Proof struct {
	R     bls12381.GT
	Sigma bls12381.G1Affine
	Mu    *big.Int
}

type proofPartial struct {
	mu      *big.Int
	sigma   bls12381.G1Jac
	started bool
}

// GenProof builds the storage side's response to chal (spec.md §4.6):
//
//	R     = euv^r                          (r random in Zr)
//	mu'   = sum_k v_k * m_{s_k}             (unbounded integer)
//	sigma = prod_k sigma_{s_k}^{v_k}
//	gamma = H(R)                            (into Zr)
//	mu    = r + gamma * mu'                 (unbounded integer)
//
// The per-pair accumulation is partitioned across GOMAXPROCS workers
// (spec.md §8); each worker reduces its own share before the results are
// merged, so the merge itself is sequential and allocation-free.
func GenProof(ctx *Context, chal *Challenge, md *Metadata, pk *PublicKey, src ChunkedSource, rnd io.Reader) (*Proof, error) {
	r, err := randomZr(rnd)
	if err != nil {
		return nil, &ParameterError{Op: "GenProof: sample r", Err: err}
	}

	var R bls12381.GT
	R.Exp(pk.Euv, r.BigInt(new(big.Int)))

	muPrime := big.NewInt(0)
	var sigmaJac bls12381.G1Jac
	sigmaStarted := false

	if len(chal.Pairs) > 0 {
		numWorkers := runtime.GOMAXPROCS(0)
		if numWorkers > len(chal.Pairs) {
			numWorkers = len(chal.Pairs)
		}
		chunkSize := (len(chal.Pairs) + numWorkers - 1) / numWorkers
		partials := make([]proofPartial, numWorkers)

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
				local := big.NewInt(0)
				var localSigma bls12381.G1Jac
				started := false

				for k := start; k < end; k++ {
					select {
					case <-gctx.Done():
						return gctx.Err()
					default:
					}

					pair := chal.Pairs[k]
					if pair.Index < 0 || pair.Index >= len(md.Authenticators) {
						return &InputError{Op: "GenProof", Err: fmt.Errorf("challenge index %d out of range [0,%d)", pair.Index, len(md.Authenticators))}
					}

					mi, err := src.ChunkMpz(pair.Index)
					if err != nil {
						return &SourceError{Index: pair.Index, Err: err}
					}
					mi = ctx.reduceExponent(mi)

					vBig := pair.V.BigInt(new(big.Int))
					term := new(big.Int).Mul(vBig, mi)
					local.Add(local, term)

					var contrib bls12381.G1Affine
					contrib.ScalarMultiplication(&md.Authenticators[pair.Index], vBig)
					var contribJac bls12381.G1Jac
					contribJac.FromAffine(&contrib)
					if !started {
						localSigma = contribJac
						started = true
					} else {
						localSigma.AddAssign(&contribJac)
					}
				}

				partials[w] = proofPartial{mu: local, sigma: localSigma, started: started}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, p := range partials {
			if p.mu != nil {
				muPrime.Add(muPrime, p.mu)
			}
			if p.started {
				if !sigmaStarted {
					sigmaJac = p.sigma
					sigmaStarted = true
				} else {
					sigmaJac.AddAssign(&p.sigma)
				}
			}
		}
	}

	var sigma bls12381.G1Affine
	if sigmaStarted {
		sigma.FromJacobian(&sigmaJac)
	} else {
		sigma.SetInfinity()
	}

	h := NewHasher(ctx)
	gamma := h.HashGTToZr(&R)

	mu := new(big.Int).Mul(gamma.BigInt(new(big.Int)), muPrime)
	mu.Add(mu, r.BigInt(new(big.Int)))

	return &Proof{R: R, Sigma: sigma, Mu: mu}, nil
}
