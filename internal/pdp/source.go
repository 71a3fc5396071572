package pdp

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// ChunkedSource is the file-chunking abstraction consumed by SigGen and
// GenProof (spec.md §6.2). Implementations must be deterministic: repeated
// reads of the same index must yield identical values, and the final
// partial chunk should be zero-padded. Chunking itself is out of scope for
// this package — see internal/chunked for a concrete implementation.
type ChunkedSource interface {
	// ChunkCount returns the total number of chunks in the file.
	ChunkCount() int
	// ChunkScalar returns chunk i reduced into Zr. 0 <= i < ChunkCount().
	ChunkScalar(i int) (fr.Element, error)
	// ChunkMpz returns chunk i as an unbounded integer representing the
	// same underlying bytes as ChunkScalar. 0 <= i < ChunkCount().
	ChunkMpz(i int) (*big.Int, error)
}
