// auditord runs a complete PP-PDP demonstration round in a single process:
// it generates a pairing context and key pair, signs a demo file, then runs
// repeated challenge/prove/verify rounds against an in-process storage
// server, logging every round through the ambient config/logging/health/
// metrics/rate-limit stack.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wiggzz/PPPAS/internal/auditd/auditor"
	"github.com/wiggzz/PPPAS/internal/auditd/config"
	"github.com/wiggzz/PPPAS/internal/auditd/health"
	"github.com/wiggzz/PPPAS/internal/auditd/logging"
	"github.com/wiggzz/PPPAS/internal/auditd/metrics"
	"github.com/wiggzz/PPPAS/internal/auditd/ratelimit"
	"github.com/wiggzz/PPPAS/internal/auditd/server"
	"github.com/wiggzz/PPPAS/internal/chunked"
	"github.com/wiggzz/PPPAS/internal/pdp"
)

func main() {
	configPath := flag.String("config", "auditord.json", "path to JSON config file")
	serverID := flag.String("server-id", "server-0", "identifier of the storage server being audited")
	flag.Parse()

	if err := run(*configPath, *serverID); err != nil {
		fmt.Fprintln(os.Stderr, "auditord:", err)
		os.Exit(1)
	}
}

func run(configPath, serverID string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logFile := ""
	if cfg.LogFile != "" {
		logFile = cfg.LogFile
	}
	auditFile := ""
	if cfg.EnableAuditLog {
		auditFile = cfg.AuditLogPath
	}
	log, err := logging.New(cfg.LogLevel, logFile, auditFile)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer log.Close()

	checker := health.NewChecker()
	collector := metrics.NewCollector()
	limiter := ratelimit.NewPerServer(cfg.RateLimitTokens, 1, time.Second)

	mode := pdp.ModeTypeA
	if cfg.ContextMode == "type-a1" {
		mode = pdp.ModeTypeA1
	}

	ctx, err := pdp.NewContext(mode, nil)
	checker.Register("pairing", func() error {
		if ctx == nil {
			return fmt.Errorf("pairing context not initialized")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("new pairing context: %w", err)
	}
	log.Info().Str("mode", cfg.ContextMode).Msg("pairing context initialized")

	sk, pk, err := pdp.KeyGen(ctx, nil)
	if err != nil {
		return fmt.Errorf("key gen: %w", err)
	}
	log.Info().Msg("key pair generated")

	demoFile, err := chunked.GenerateDemoFile([]byte("auditord-demo-seed"), "auditord/demo-file", cfg.DemoFileBytes)
	if err != nil {
		return fmt.Errorf("generate demo file: %w", err)
	}
	source, err := chunked.NewFileSource(demoFile, cfg.ChunkSizeBytes)
	if err != nil {
		return fmt.Errorf("chunk demo file: %w", err)
	}
	log.Info().Int("chunks", source.ChunkCount()).Msg("demo file chunked")

	md, err := pdp.SigGen(ctx, sk, pk, source, nil)
	if err != nil {
		return fmt.Errorf("sign demo file: %w", err)
	}
	if ok, err := pdp.CheckSig(ctx, md, pk); err != nil || !ok {
		return fmt.Errorf("name signature self-check failed: ok=%v err=%v", ok, err)
	}
	log.Info().Msg("file signed; name signature verified")

	srv := server.New(ctx, pk, md, source)
	checker.Register("server", func() error {
		if !limiter.Allow(serverID) {
			return fmt.Errorf("rate limited")
		}
		return nil
	})

	a := auditor.New(auditor.Config{
		ChunkCount: source.ChunkCount(),
		SampleSize: cfg.SampleSize,
		Interval:   time.Duration(cfg.AuditIntervalSeconds) * time.Second,
		MaxRounds:  cfg.MaxRounds,
	}, ctx, pk, md, srv)

	ctxSig, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		for result := range a.Results {
			collector.Inc(metrics.ChallengesIssued)
			collector.ObserveDuration(metrics.AuditLatencySecond, result.Latency)

			if result.Err != nil {
				log.Error().Err(result.Err).Int("round", result.Round).Msg("audit round failed")
				checker.RecordAudit("last-audit", false, result.Err.Error())
				continue
			}

			if result.Accepted {
				collector.Inc(metrics.ProofsVerified)
				checker.RecordAudit("last-audit", true, "proof accepted")
			} else {
				collector.Inc(metrics.ProofsRejected)
				checker.RecordAudit("last-audit", false, "proof rejected")
			}

			log.Audit().Info().
				Int("round", result.Round).
				Bool("accepted", result.Accepted).
				Dur("latency", result.Latency).
				Msg("audit round complete")

			hc := checker.Check()
			log.Debug().Str("overall", string(hc.OverallStatus)).Msg("health snapshot")
		}
	}()

	if err := a.Run(ctxSig); err != nil && ctxSig.Err() == nil {
		return fmt.Errorf("auditor run: %w", err)
	}

	snap := collector.Snapshot()
	log.Info().
		Int64("challenges_issued", snap.Counters[metrics.ChallengesIssued]).
		Int64("proofs_verified", snap.Counters[metrics.ProofsVerified]).
		Int64("proofs_rejected", snap.Counters[metrics.ProofsRejected]).
		Msg("auditord shutting down")

	return nil
}
