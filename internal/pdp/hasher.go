package pdp

import (
	"crypto/sha256"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// hashToG1DST is the domain separation tag passed to the pairing library's
// hash-to-curve routine.
var hashToG1DST = []byte("PPPAS-PDP_BLS12381G1_XMD:SHA-256_SSWU_RO_")

// Hasher implements the Element Hasher (spec.md §4.2): it maps byte strings
// into G1 and maps group elements into Zr. It owns two scratch buffers that
// are reused across calls, so a Hasher must not be shared between
// concurrently-running callers — each goroutine in the parallel loops of
// SigGen and VerifyProof constructs its own.
type Hasher struct {
	digest  [sha256.Size]byte
	elemBuf []byte
}

// NewHasher constructs a Hasher bound to ctx (currently the context only
// fixes byte lengths; the hash functions themselves don't depend on the
// pairing parameters).
func NewHasher(ctx *Context) *Hasher {
	return &Hasher{}
}

// HashBytesToG1 computes a 256-bit digest of msg and maps it to a G1
// element via the pairing library's hash-to-curve routine (spec.md §4.2).
func (h *Hasher) HashBytesToG1(msg []byte) (bls12381.G1Affine, error) {
	h.digest = sha256.Sum256(msg)
	return bls12381.HashToG1(h.digest[:], hashToG1DST)
}

// HashGTToZr canonically encodes e and hashes the result into Zr.
func (h *Hasher) HashGTToZr(e *bls12381.GT) fr.Element {
	enc := e.Bytes()
	h.elemBuf = append(h.elemBuf[:0], enc[:]...)
	h.digest = sha256.Sum256(h.elemBuf)

	var z fr.Element
	z.SetBytes(h.digest[:])
	return z
}
