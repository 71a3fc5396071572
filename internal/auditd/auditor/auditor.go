// Package auditor implements the verifier side of an audit round: it holds
// the owner's retained Metadata.Name/NameSig and PublicKey, issues
// Challenges on an interval, and checks the Proof the Server returns. The
// Auditor is a long-lived struct wrapping a Config, driven by a
// time.Ticker, since auditing is inherently a repeating process rather
// than a one-shot check.
package auditor

import (
	"context"
	"fmt"
	"time"

	"github.com/wiggzz/PPPAS/internal/pdp"
)

// Prover is the interface the untrusted storage side exposes, satisfied by
// *server.Server. The auditor depends only on this narrow interface so it
// can be tested against a fake storage side.
type Prover interface {
	Prove(chal *pdp.Challenge) (*pdp.Proof, error)
}

// RoundResult is the outcome of one challenge/prove/verify round.
type RoundResult struct {
	Round    int
	Accepted bool
	Err      error
	Latency  time.Duration
}

// Config configures an Auditor's repeating challenge schedule.
type Config struct {
	ChunkCount int           // n, the file's chunk count
	SampleSize int           // c, challenge size per round
	Interval   time.Duration // time between rounds
	MaxRounds  int           // 0 = unbounded
}

// Auditor repeatedly challenges a Prover and verifies its responses,
// reporting each round's outcome on Results.
type Auditor struct {
	cfg     Config
	ctx     *pdp.Context
	pk      *pdp.PublicKey
	md      *pdp.Metadata
	prover  Prover
	Results chan RoundResult
}

// New builds an Auditor. md must carry only Name and NameSig plus the
// authenticators the auditor is entitled to see per spec.md §3 (in this
// single-process demo the same Metadata value is shared with the Server,
// since there is no network boundary to enforce the split across).
func New(cfg Config, ctx *pdp.Context, pk *pdp.PublicKey, md *pdp.Metadata, prover Prover) *Auditor {
	return &Auditor{
		cfg:     cfg,
		ctx:     ctx,
		pk:      pk,
		md:      md,
		prover:  prover,
		Results: make(chan RoundResult, 1),
	}
}

// Run drives the repeating challenge/prove/verify loop until ctx is
// cancelled, MaxRounds rounds have completed (0 means no limit), or a round
// fails, in which case that round's error is returned.
// Each round's RoundResult is sent on a.Results; Run closes Results before
// returning.
func (a *Auditor) Run(ctx context.Context) error {
	defer close(a.Results)

	ticker := time.NewTicker(a.cfg.Interval)
	defer ticker.Stop()

	for round := 1; a.cfg.MaxRounds == 0 || round <= a.cfg.MaxRounds; round++ {
		result := a.runRound(round)
		select {
		case a.Results <- result:
		case <-ctx.Done():
			return ctx.Err()
		}
		if result.Err != nil {
			return result.Err
		}

		if a.cfg.MaxRounds != 0 && round == a.cfg.MaxRounds {
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (a *Auditor) runRound(round int) RoundResult {
	start := time.Now()

	chal, err := a.ctx.GenChallenge(a.cfg.ChunkCount, a.cfg.SampleSize, nil)
	if err != nil {
		return RoundResult{Round: round, Err: fmt.Errorf("gen challenge: %w", err), Latency: time.Since(start)}
	}

	proof, err := a.prover.Prove(chal)
	if err != nil {
		return RoundResult{Round: round, Err: fmt.Errorf("prove: %w", err), Latency: time.Since(start)}
	}

	ok, err := pdp.VerifyProof(a.ctx, proof, chal, a.md, a.pk)
	if err != nil {
		return RoundResult{Round: round, Err: fmt.Errorf("verify proof: %w", err), Latency: time.Since(start)}
	}

	return RoundResult{Round: round, Accepted: ok, Latency: time.Since(start)}
}
