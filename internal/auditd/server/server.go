// Package server models the untrusted storage side of an audit round. It is
// shaped after p2p.Node's handler-map dispatch (p2p/node.go: HandlerFunc,
// Message envelope), trimmed to the single verb this side of the protocol
// actually needs: answer a Challenge with a Proof.
package server

import (
	"fmt"
	"sync"

	"github.com/wiggzz/PPPAS/internal/pdp"
)

// Server holds everything an untrusted storage node needs to answer
// audits: the file's ChunkedSource, the Verification Metadata (GenProof
// reads only its authenticators), and the owner's PublicKey.
type Server struct {
	mu sync.RWMutex

	ctx    *pdp.Context
	pk     *pdp.PublicKey
	md     *pdp.Metadata
	source pdp.ChunkedSource
}

// New constructs a Server that can answer challenges for a single
// already-signed file.
func New(ctx *pdp.Context, pk *pdp.PublicKey, md *pdp.Metadata, source pdp.ChunkedSource) *Server {
	return &Server{ctx: ctx, pk: pk, md: md, source: source}
}

// Prove answers a Challenge with a Proof, the server-side half of
// spec.md §4.6. It is the only verb this handler exposes, the analogue of
// p2p.Node's messageHandler dispatching on msg.Type — here there is only
// one message type, so dispatch collapses to a single method call.
func (s *Server) Prove(chal *pdp.Challenge) (*pdp.Proof, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.source == nil {
		return nil, fmt.Errorf("auditd/server: no file loaded")
	}

	proof, err := pdp.GenProof(s.ctx, chal, s.md, s.pk, s.source, nil)
	if err != nil {
		return nil, fmt.Errorf("auditd/server: generate proof: %w", err)
	}
	return proof, nil
}

// ReplaceFile swaps in a newly-signed file, the server-side counterpart to
// a fresh sig_gen round. It is not part of spec.md's core (dynamic updates
// are an explicit Non-goal) — it only lets this demo daemon rotate to a
// new demo file between runs without restarting the process.
func (s *Server) ReplaceFile(md *pdp.Metadata, source pdp.ChunkedSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.md = md
	s.source = source
}
