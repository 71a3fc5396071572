package pdp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiggzz/PPPAS/internal/pdp"
)

// TestSignatureValidity is P2: check_sig(sig_gen(...)) is true for every
// key pair and file.
func TestSignatureValidity(t *testing.T) {
	ctx, pk, md, _ := setupRound(t, 4096, tinyChunkSize(t))

	ok, err := pdp.CheckSig(ctx, md, pk)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestNameSigUnforgeability is P3/scenario 5: verifying metadata signed by
// one key pair against an independently-generated public key must fail.
func TestNameSigUnforgeability(t *testing.T) {
	ctxA, pkA, mdA, _ := setupRound(t, 4096, tinyChunkSize(t))
	_, pkB, _, _ := setupRound(t, 4096, tinyChunkSize(t))

	ok, err := pdp.CheckSig(ctxA, mdA, pkA)
	require.NoError(t, err)
	require.True(t, ok, "sanity: metadata must check out against its own key")

	ok, err = pdp.CheckSig(ctxA, mdA, pkB)
	require.NoError(t, err)
	require.False(t, ok, "metadata must not check out against an unrelated public key")
}

// TestNameSigSwapArbitraryBytes is P3: substituting an arbitrary G1 byte
// string for name_sig causes check_sig to reject.
func TestNameSigSwapArbitraryBytes(t *testing.T) {
	ctx, pk, md, _ := setupRound(t, 4096, tinyChunkSize(t))

	forged := make([]byte, len(md.NameSig))
	copy(forged, md.NameSig)
	forged[0] ^= 0xff
	md.NameSig = forged

	ok, err := pdp.CheckSig(ctx, md, pk)
	if err != nil {
		// An invalid x-only encoding is an acceptable rejection path too.
		return
	}
	require.False(t, ok)
}
