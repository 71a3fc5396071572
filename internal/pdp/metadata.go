package pdp

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"runtime"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"golang.org/x/sync/errgroup"
)

// maxAuthenticators bounds the per-chunk authenticator array SigGen will
// allocate (spec.md §7: ResourceError, "allocation failure during large
// authenticator arrays"). A file needing more chunks than this should be
// split before signing rather than forcing one multi-hundred-million-
// element G1 slice into memory.
const maxAuthenticators = 64 << 20

// Metadata is the Verification Metadata of spec.md §3/§4.4: a random file
// name, an x-only encoded signature over that name, and one authenticator
// per chunk.
type Metadata struct {
	Name           fr.Element
	NameSig        []byte
	Authenticators []bls12381.G1Affine
}

// chunkWindowID builds W_i = name || i (big-endian uint64), the per-chunk
// hash input of spec.md §4.4.
func chunkWindowID(nameBytes []byte, index int) []byte {
	w := make([]byte, len(nameBytes)+8)
	copy(w, nameBytes)
	binary.BigEndian.PutUint64(w[len(nameBytes):], uint64(index))
	return w
}

// SigGen produces the Verification Metadata for src: a fresh random name,
// its signature under sk.ssk, and one authenticator sigma_i per chunk,
// sigma_i = (H(name||i) * u^m_i)^x (spec.md §4.4). Per-chunk work is
// partitioned across GOMAXPROCS workers (spec.md §8); any single chunk
// failure cancels the remaining work and is returned wrapped as a
// *SourceError.
func SigGen(ctx *Context, sk *SecretKey, pk *PublicKey, src ChunkedSource, rnd io.Reader) (*Metadata, error) {
	if rnd == nil {
		rnd = rand.Reader
	}

	name, err := randomZr(rnd)
	if err != nil {
		return nil, &ParameterError{Op: "SigGen: sample name", Err: err}
	}
	nameBytes := name.Bytes()

	h := NewHasher(ctx)
	hName, err := h.HashBytesToG1(nameBytes[:])
	if err != nil {
		return nil, &ParameterError{Op: "SigGen: hash name", Err: err}
	}
	var nameSigPoint bls12381.G1Affine
	nameSigPoint.ScalarMultiplication(&hName, sk.ssk.BigInt(new(big.Int)))
	nameSig := encodeXOnly(&nameSigPoint)

	n := src.ChunkCount()
	if n <= 0 {
		return nil, &InputError{Op: "SigGen", Err: fmt.Errorf("chunk count must be positive, got %d", n)}
	}
	if n > maxAuthenticators {
		return nil, &ResourceError{Op: "SigGen", Err: fmt.Errorf("chunk count %d exceeds the maximum authenticator array size %d", n, maxAuthenticators)}
	}

	auths := make([]bls12381.G1Affine, n)
	table := NewFixedBaseTable(pk.U, fieldSizeBytes()*8)
	xBig := sk.x.BigInt(new(big.Int))

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > n {
		numWorkers = n
	}
	chunkSize := (n + numWorkers - 1) / numWorkers

	g, gctx := errgroup.WithContext(context.Background())
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		g.Go(func() error {
			wh := NewHasher(ctx)
			for i := start; i < end; i++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				wi := chunkWindowID(nameBytes[:], i)
				hi, err := wh.HashBytesToG1(wi)
				if err != nil {
					return &SourceError{Index: i, Err: err}
				}

				mi, err := src.ChunkMpz(i)
				if err != nil {
					return &SourceError{Index: i, Err: err}
				}
				mi = ctx.reduceExponent(mi)

				um := table.Pow(mi)
				var sum bls12381.G1Affine
				sum.Add(&hi, &um)

				var sigma bls12381.G1Affine
				sigma.ScalarMultiplication(&sum, xBig)
				auths[i] = sigma
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Metadata{Name: name, NameSig: nameSig, Authenticators: auths}, nil
}

// CheckSig verifies a Metadata's name signature (spec.md §4.8):
// e(name_sig, g) must equal e(H(name), spk), or their product must equal 1
// when the x-only decoding recovered the inverse point (spec.md §4.7/§6.5).
func CheckSig(ctx *Context, md *Metadata, pk *PublicKey) (bool, error) {
	nameSigPoint, err := decodeXOnly(md.NameSig)
	if err != nil {
		return false, &InputError{Op: "CheckSig: decode name_sig", Err: err}
	}

	nameBytes := md.Name.Bytes()
	h := NewHasher(ctx)
	hName, err := h.HashBytesToG1(nameBytes[:])
	if err != nil {
		return false, &ParameterError{Op: "CheckSig: hash name", Err: err}
	}

	p0, err := bls12381.Pair([]bls12381.G1Affine{nameSigPoint}, []bls12381.G2Affine{ctx.g})
	if err != nil {
		return false, &ParameterError{Op: "CheckSig: pair(name_sig, g)", Err: err}
	}
	p1, err := bls12381.Pair([]bls12381.G1Affine{hName}, []bls12381.G2Affine{pk.Spk})
	if err != nil {
		return false, &ParameterError{Op: "CheckSig: pair(H(name), spk)", Err: err}
	}

	if p0.Equal(&p1) {
		return true, nil
	}

	var product bls12381.GT
	product.Mul(&p0, &p1)
	var one bls12381.GT
	one.SetOne()
	return product.Equal(&one), nil
}
