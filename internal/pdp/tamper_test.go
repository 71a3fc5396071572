package pdp_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/wiggzz/PPPAS/internal/chunked"
	"github.com/wiggzz/PPPAS/internal/pdp"
)

// TestTamperedAuthenticatorDetected is P4/scenario 3: flipping a bit of
// sigma_0 causes verify_proof to fail for every challenge that samples
// index 0, and has no effect on challenges that never touch it.
func TestTamperedAuthenticatorDetected(t *testing.T) {
	ctx, pk, md, src := setupRound(t, 32000, tinyChunkSize(t))
	require.Greater(t, src.ChunkCount(), 1, "need at least 2 chunks to test an untouched index")

	md.Authenticators[0] = flipOneBit(t, md.Authenticators[0])

	chalHit, err := ctx.GenChallenge(src.ChunkCount(), 1, nil)
	require.NoError(t, err)
	chalHit.Pairs[0].Index = 0

	proof, err := pdp.GenProof(ctx, chalHit, md, pk, src, nil)
	require.NoError(t, err)
	ok, err := pdp.VerifyProof(ctx, proof, chalHit, md, pk)
	require.NoError(t, err)
	require.False(t, ok, "a proof touching the tampered authenticator must be rejected")

	chalMiss, err := ctx.GenChallenge(src.ChunkCount(), 1, nil)
	require.NoError(t, err)
	chalMiss.Pairs[0].Index = 1

	proof2, err := pdp.GenProof(ctx, chalMiss, md, pk, src, nil)
	require.NoError(t, err)
	ok2, err := pdp.VerifyProof(ctx, proof2, chalMiss, md, pk)
	require.NoError(t, err)
	require.True(t, ok2, "a proof that never touches the tampered authenticator must still verify")
}

// TestTamperedChunkDetected is the other half of P4: flipping a bit of the
// underlying chunk content (rather than the authenticator) also causes
// rejection, since sigma_i was computed over the original bytes.
func TestTamperedChunkDetected(t *testing.T) {
	ctx, pk, md, src := setupRound(t, 32000, tinyChunkSize(t))

	tamperedSrc := &tamperingSource{FileSource: src, tamperIndex: 0}

	chal, err := ctx.GenChallenge(src.ChunkCount(), 1, nil)
	require.NoError(t, err)
	chal.Pairs[0].Index = 0

	proof, err := pdp.GenProof(ctx, chal, md, pk, tamperedSrc, nil)
	require.NoError(t, err)
	ok, err := pdp.VerifyProof(ctx, proof, chal, md, pk)
	require.NoError(t, err)
	require.False(t, ok, "a proof built over tampered chunk content must be rejected")
}

// flipOneBit returns p with its compressed encoding's low-order bit of the
// last byte flipped and re-decoded, giving a different-but-valid G1 point
// to stand in for a single corrupted bit in storage.
func flipOneBit(t *testing.T, p bls12381.G1Affine) bls12381.G1Affine {
	t.Helper()
	b := p.Bytes()
	b[len(b)-1] ^= 0x01
	var tampered bls12381.G1Affine
	if _, err := tampered.SetBytes(b[:]); err == nil && !tampered.Equal(&p) {
		return tampered
	}
	// Fall back to negating the point outright: still a single
	// algebraically-meaningful change that must break the pairing
	// identity, used only if the bit flip above didn't land on a valid,
	// distinct point.
	var negated bls12381.G1Affine
	negated.Neg(&p)
	return negated
}

// tamperingSource wraps a FileSource and returns corrupted bytes for one
// chunk index, simulating storage-side bit rot on the file content itself
// (as opposed to the authenticator array).
type tamperingSource struct {
	*chunked.FileSource
	tamperIndex int
}

func (s *tamperingSource) ChunkScalar(i int) (fr.Element, error) {
	z, err := s.FileSource.ChunkScalar(i)
	if err != nil || i != s.tamperIndex {
		return z, err
	}
	var one fr.Element
	one.SetOne()
	z.Add(&z, &one)
	return z, nil
}

func (s *tamperingSource) ChunkMpz(i int) (*big.Int, error) {
	m, err := s.FileSource.ChunkMpz(i)
	if err != nil || i != s.tamperIndex {
		return m, err
	}
	return new(big.Int).Add(m, big.NewInt(1)), nil
}
