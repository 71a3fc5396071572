package pdp_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/wiggzz/PPPAS/internal/chunked"
	"github.com/wiggzz/PPPAS/internal/pdp"
)

// setupRound builds a fresh Context/SecretKey/PublicKey/Metadata over a
// deterministically-generated demo file, the common fixture for every
// end-to-end scenario in spec.md §8.
func setupRound(t *testing.T, fileSize, chunkSize int) (*pdp.Context, *pdp.PublicKey, *pdp.Metadata, *chunked.FileSource) {
	t.Helper()

	ctx, err := pdp.NewContext(pdp.ModeTypeA, nil)
	require.NoError(t, err)

	sk, pk, err := pdp.KeyGen(ctx, nil)
	require.NoError(t, err)

	data, err := chunked.GenerateDemoFile([]byte("soundness-seed"), t.Name(), fileSize)
	require.NoError(t, err)

	src, err := chunked.NewFileSource(data, chunkSize)
	require.NoError(t, err)

	md, err := pdp.SigGen(ctx, sk, pk, src, nil)
	require.NoError(t, err)

	return ctx, pk, md, src
}

// TestEndToEndSoundness is P1: for any Challenge of size c > 0, a
// generated proof verifies (scenario 1, tiny-roundtrip: a 32-byte file,
// the name length, fits in one MinChunkSize chunk, so n == 1 and the
// challenge covers the whole file).
func TestEndToEndSoundness(t *testing.T) {
	ctx, pk, md, src := setupRound(t, 32, tinyChunkSize(t))

	chal, err := ctx.GenChallenge(src.ChunkCount(), src.ChunkCount(), nil)
	require.NoError(t, err)

	proof, err := pdp.GenProof(ctx, chal, md, pk, src, nil)
	require.NoError(t, err)

	ok, err := pdp.VerifyProof(ctx, proof, chal, md, pk)
	require.NoError(t, err)
	require.True(t, ok, "full-challenge proof must verify")
}

// TestTypicalAudit is scenario 2: a 32000-byte file, challenge size
// floor(0.8n).
func TestTypicalAudit(t *testing.T) {
	ctx, pk, md, src := setupRound(t, 32000, tinyChunkSize(t))

	n := src.ChunkCount()
	c := (n * 8) / 10
	require.Greater(t, c, 0)

	chal, err := ctx.GenChallenge(n, c, nil)
	require.NoError(t, err)

	proof, err := pdp.GenProof(ctx, chal, md, pk, src, nil)
	require.NoError(t, err)

	ok, err := pdp.VerifyProof(ctx, proof, chal, md, pk)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestEmptyChallengeBoundary is P7/scenario 4: c == 0 yields an empty
// Challenge; the resulting proof has Sigma == 1_G1 and still verifies.
func TestEmptyChallengeBoundary(t *testing.T) {
	ctx, pk, md, src := setupRound(t, 32000, tinyChunkSize(t))

	chal, err := ctx.GenChallenge(src.ChunkCount(), 0, nil)
	require.NoError(t, err)
	require.Empty(t, chal.Pairs)

	proof, err := pdp.GenProof(ctx, chal, md, pk, src, nil)
	require.NoError(t, err)
	require.True(t, proof.Sigma.IsInfinity(), "sigma must be the G1 identity when c == 0")

	ok, err := pdp.VerifyProof(ctx, proof, chal, md, pk)
	require.NoError(t, err)
	require.True(t, ok, "verify must accept an empty-challenge proof")
}

// TestChunkRepresentationEquivalence is P8: ChunkScalar and ChunkMpz read
// the same underlying chunk bytes, and a proof built from the (mpz-based)
// GenProof path still verifies regardless of what ChunkScalar would have
// produced for the same index.
func TestChunkRepresentationEquivalence(t *testing.T) {
	ctx, pk, md, src := setupRound(t, 32000, tinyChunkSize(t))

	n := src.ChunkCount()
	chal, err := ctx.GenChallenge(n, n, nil)
	require.NoError(t, err)

	scalar, err := src.ChunkScalar(0)
	require.NoError(t, err)
	mpz, err := src.ChunkMpz(0)
	require.NoError(t, err)

	scalarAsBig := scalar.BigInt(new(big.Int))
	require.Equal(t, 0, scalarAsBig.Cmp(new(big.Int).Mod(mpz, fr.Modulus())),
		"ChunkScalar must be ChunkMpz reduced into Zr, never an unrelated value")

	proof, err := pdp.GenProof(ctx, chal, md, pk, src, nil)
	require.NoError(t, err)

	ok, err := pdp.VerifyProof(ctx, proof, chal, md, pk)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestGenChallengeInputError is the n == 0, c > 0 InputError edge case of
// spec.md §4.5.
func TestGenChallengeInputError(t *testing.T) {
	ctx, err := pdp.NewContext(pdp.ModeTypeA, nil)
	require.NoError(t, err)

	_, err = ctx.GenChallenge(0, 4, nil)
	require.Error(t, err)
	var inputErr *pdp.InputError
	require.ErrorAs(t, err, &inputErr)
}

// tinyChunkSize returns a chunk size small enough to keep TestEndToEnd*'s
// tiny-roundtrip scenario at n == 1 chunk of MinChunkSize bytes (the
// FileSource clamps requested sizes below chunked.MinChunkSize up to it).
func tinyChunkSize(t *testing.T) int {
	t.Helper()
	return chunked.MinChunkSize
}
