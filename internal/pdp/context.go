// Package pdp implements the cryptographic core of a privacy-preserving
// public-auditing protocol for cloud storage: parameter generation,
// per-chunk authenticator signing, challenge generation, aggregate proof
// construction, and proof verification over a bilinear pairing.
//
// The pairing arithmetic itself is provided by gnark-crypto's BLS12-381
// curve package; this package never reimplements curve or pairing math, only
// the protocol built on top of it.
package pdp

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// ContextMode selects how the Pairing Context's secret-exponent bookkeeping
// behaves. Both modes run the actual group arithmetic over the same
// BLS12-381 prime-order subgroup; ModeTypeA1 additionally carries a
// synthetic composite modulus used to reduce integer exponents before they
// are applied, mirroring the Euler-theorem optimization the source protocol
// performs when the pairing group order itself is composite. See
// DESIGN.md / SPEC_FULL.md §7 for why true composite-order groups aren't
// used here.
type ContextMode int

const (
	// ModeTypeA models the symmetric, prime-order construction.
	ModeTypeA ContextMode = iota
	// ModeTypeA1 additionally enables Euler-theorem exponent reduction.
	ModeTypeA1
)

// euler1024Bits is the bit length used for each of the two primes composing
// the synthetic modulus N in ModeTypeA1, matching the ~512/513-bit primes
// described in spec.md §4.1.
const euler1024Bits = 512

// Context holds the pairing parameters shared by every operation: the
// generator g of G2 and the fixed byte lengths used to encode names and
// name-signatures. It is immutable after NewContext/NewContextFromBlob
// returns.
type Context struct {
	mode ContextMode
	g    bls12381.G2Affine

	nameLength int
	sigLength  int

	// Type-A1 bookkeeping: N = p*q, L = N - (p+q-1) = phi(N).
	n *big.Int
	l *big.Int
}

// NewContext samples a fresh generator and, for ModeTypeA1, a fresh
// composite modulus, following spec.md §4.1. rnd is used for every random
// draw; pass crypto/rand.Reader in production and a deterministic reader in
// tests that need reproducible output (spec.md §8 scenario 6).
func NewContext(mode ContextMode, rnd io.Reader) (*Context, error) {
	if rnd == nil {
		rnd = rand.Reader
	}

	g, err := randomG2(rnd)
	if err != nil {
		return nil, &ParameterError{Op: "NewContext: sample g", Err: err}
	}

	ctx := &Context{
		mode:       mode,
		g:          g,
		nameLength: fieldSizeBytes(),
		sigLength:  g1AffineXOnlySize(),
	}

	if mode == ModeTypeA1 {
		n, l, err := generateEulerModulus(rnd)
		if err != nil {
			return nil, &ParameterError{Op: "NewContext: generate composite modulus", Err: err}
		}
		ctx.n = n
		ctx.l = l
	}

	return ctx, nil
}

// generateEulerModulus samples two ~512-bit primes p, q, and returns
// N = p*q and L = N - (p+q-1) = phi(N).
func generateEulerModulus(rnd io.Reader) (n, l *big.Int, err error) {
	p, err := rand.Prime(rnd, euler1024Bits+1)
	if err != nil {
		return nil, nil, fmt.Errorf("generate p: %w", err)
	}
	q, err := rand.Prime(rnd, euler1024Bits)
	if err != nil {
		return nil, nil, fmt.Errorf("generate q: %w", err)
	}

	n = new(big.Int).Mul(p, q)

	l = new(big.Int).Add(p, q)
	l.Sub(l, big.NewInt(1))
	l.Sub(n, l)

	return n, l, nil
}

// NewContextFromBlob reconstructs a Context from a byte blob produced by
// Context.Marshal. The wire layout is fixed network-order, length-prefixed
// fields (spec.md §6.5): mode byte, g (fixed-size G2 encoding), and, when
// mode is ModeTypeA1, length-prefixed N and L.
func NewContextFromBlob(blob []byte) (*Context, error) {
	if len(blob) < 1 {
		return nil, &ParameterError{Op: "NewContextFromBlob", Err: fmt.Errorf("empty blob")}
	}

	mode := ContextMode(blob[0])
	rest := blob[1:]

	gSize := g2AffineSize()
	if len(rest) < gSize {
		return nil, &ParameterError{Op: "NewContextFromBlob", Err: fmt.Errorf("truncated generator")}
	}
	var g bls12381.G2Affine
	if _, err := g.SetBytes(rest[:gSize]); err != nil {
		return nil, &ParameterError{Op: "NewContextFromBlob", Err: fmt.Errorf("decode g: %w", err)}
	}
	rest = rest[gSize:]

	ctx := &Context{
		mode:       mode,
		g:          g,
		nameLength: fieldSizeBytes(),
		sigLength:  g1AffineXOnlySize(),
	}

	if mode == ModeTypeA1 {
		n, rest2, err := readLengthPrefixed(rest)
		if err != nil {
			return nil, &ParameterError{Op: "NewContextFromBlob", Err: fmt.Errorf("decode N: %w", err)}
		}
		l, _, err := readLengthPrefixed(rest2)
		if err != nil {
			return nil, &ParameterError{Op: "NewContextFromBlob", Err: fmt.Errorf("decode L: %w", err)}
		}
		ctx.n = new(big.Int).SetBytes(n)
		ctx.l = new(big.Int).SetBytes(l)
	}

	return ctx, nil
}

// Marshal serializes the Context to the wire layout NewContextFromBlob
// expects.
func (c *Context) Marshal() []byte {
	gBytes := c.g.Bytes()

	out := make([]byte, 0, 1+len(gBytes))
	out = append(out, byte(c.mode))
	out = append(out, gBytes[:]...)

	if c.mode == ModeTypeA1 {
		out = appendLengthPrefixed(out, c.n.Bytes())
		out = appendLengthPrefixed(out, c.l.Bytes())
	}

	return out
}

func appendLengthPrefixed(dst []byte, field []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(field)))
	dst = append(dst, lenBuf[:]...)
	return append(dst, field...)
}

func readLengthPrefixed(src []byte) (field []byte, rest []byte, err error) {
	if len(src) < 4 {
		return nil, nil, fmt.Errorf("truncated length prefix")
	}
	n := binary.BigEndian.Uint32(src[:4])
	src = src[4:]
	if uint64(len(src)) < uint64(n) {
		return nil, nil, fmt.Errorf("truncated field")
	}
	return src[:n], src[n:], nil
}

// Mode reports the construction mode selected at NewContext time.
func (c *Context) Mode() ContextMode { return c.mode }

// G returns the G2 generator g.
func (c *Context) G() bls12381.G2Affine { return c.g }

// NameLength is the fixed byte length used to encode a Metadata's random
// name (spec.md §3: name_length = |Zr|_bytes).
func (c *Context) NameLength() int { return c.nameLength }

// SigLength is the fixed byte length used for the x-only encoded
// name-signature (spec.md §3: sig_length = |G1|_x_only_bytes).
func (c *Context) SigLength() int { return c.sigLength }

// EulerModulus returns (N, L, true) when running in ModeTypeA1, or
// (nil, nil, false) otherwise.
func (c *Context) EulerModulus() (n, l *big.Int, ok bool) {
	if c.mode != ModeTypeA1 {
		return nil, nil, false
	}
	return c.n, c.l, true
}

// reduceExponent applies the Euler-theorem reduction described in spec.md
// §4.1/§4.4 when running in ModeTypeA1: m mod L. In ModeTypeA, m is
// returned unchanged (still an unbounded integer — reduction mod the
// group's prime order happens implicitly at the point of scalar
// multiplication, never here).
func (c *Context) reduceExponent(m *big.Int) *big.Int {
	if c.mode != ModeTypeA1 || c.l == nil {
		return m
	}
	return new(big.Int).Mod(m, c.l)
}
