package pdp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiggzz/PPPAS/internal/pdp"
)

// TestChallengeFreshness is P5: two independent GenChallenge calls over
// the same (n, c) produce differing pair sequences with overwhelming
// probability.
func TestChallengeFreshness(t *testing.T) {
	ctx, err := pdp.NewContext(pdp.ModeTypeA, nil)
	require.NoError(t, err)

	const n, c = 64, 16

	chalA, err := ctx.GenChallenge(n, c, nil)
	require.NoError(t, err)
	chalB, err := ctx.GenChallenge(n, c, nil)
	require.NoError(t, err)

	require.NotEqual(t, chalA.Pairs, chalB.Pairs)
}

// TestVerifyProofDeterminism is P6: VerifyProof is a pure function of its
// inputs — calling it twice on the same proof/challenge/metadata/key
// returns the same boolean both times.
func TestVerifyProofDeterminism(t *testing.T) {
	ctx, pk, md, src := setupRound(t, 8192, tinyChunkSize(t))

	chal, err := ctx.GenChallenge(src.ChunkCount(), src.ChunkCount(), nil)
	require.NoError(t, err)

	proof, err := pdp.GenProof(ctx, chal, md, pk, src, nil)
	require.NoError(t, err)

	ok1, err := pdp.VerifyProof(ctx, proof, chal, md, pk)
	require.NoError(t, err)
	ok2, err := pdp.VerifyProof(ctx, proof, chal, md, pk)
	require.NoError(t, err)

	require.Equal(t, ok1, ok2)
	require.True(t, ok1)
}

// TestReproducibleProofUnderFixedRandomness is scenario 6: two GenProof
// runs with the identical seeded randomness and identical inputs produce
// identical (R, Sigma, Mu).
func TestReproducibleProofUnderFixedRandomness(t *testing.T) {
	ctx, pk, md, src := setupRound(t, 8192, tinyChunkSize(t))

	chal, err := ctx.GenChallenge(src.ChunkCount(), src.ChunkCount(), nil)
	require.NoError(t, err)

	seed := []byte("fixed-seed-for-reproducibility-test-000000000000")
	rnd1 := newDeterministicReader(seed)
	rnd2 := newDeterministicReader(seed)

	proofA, err := pdp.GenProof(ctx, chal, md, pk, src, rnd1)
	require.NoError(t, err)
	proofB, err := pdp.GenProof(ctx, chal, md, pk, src, rnd2)
	require.NoError(t, err)

	require.True(t, proofA.R.Equal(&proofB.R))
	require.True(t, proofA.Sigma.Equal(&proofB.Sigma))
	require.Equal(t, 0, proofA.Mu.Cmp(proofB.Mu))
}

// deterministicReader replays a fixed byte sequence, looping if the caller
// reads past its end, standing in for a seeded PRNG in tests that need
// bit-for-bit reproducible randomness (spec.md §8 scenario 6).
type deterministicReader struct {
	seed []byte
	pos  int
}

func newDeterministicReader(seed []byte) *deterministicReader {
	return &deterministicReader{seed: seed}
}

func (r *deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.seed[r.pos%len(r.seed)]
		r.pos++
	}
	return len(p), nil
}
