package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/5n10sndkts/forensic-scanner/internal/bloomfilter"
	"github.com/5n10sndkts/forensic-scanner/internal/config"
	"github.com/5n10sndkts/forensic-scanner/internal/derive"
	"github.com/5n10sndkts/forensic-scanner/internal/dispatcher"
	"github.com/5n10sndkts/forensic-scanner/internal/fingerprint"
	"github.com/5n10sndkts/forensic-scanner/internal/prng"
	"github.com/5n10sndkts/forensic-scanner/internal/resultio"
	"github.com/5n10sndkts/forensic-scanner/internal/scanbackend"
	"github.com/5n10sndkts/forensic-scanner/internal/targetlist"
	"github.com/5n10sndkts/forensic-scanner/internal/vault"
)

func newRandstormScanCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "randstorm-scan",
		Short: "Sweep weak-entropy wallet candidates against a target address list",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, false)
			if err != nil {
				return err
			}
			return runRandstormScan(cmd, cfg)
		},
	}
	cmd.Flags().String("targets", "", "path to the target address list (required unless --direct-sweep)")
	cmd.Flags().String("scan-mode", "standard", "quick|standard|deep|exhaustive")
	cmd.Flags().String("backend", "auto", "auto|wgpu|opencl|cpu")
	cmd.Flags().String("phase", "one", "fingerprint database phase: one|two|three")
	cmd.Flags().Int64("start-ms", 0, "window start, unix ms (default: historical Randstorm window)")
	cmd.Flags().Int64("end-ms", 0, "window end, unix ms (default: historical Randstorm window)")
	cmd.Flags().Int64("interval-ms", 0, "override the scan-mode's timestamp spacing")
	cmd.Flags().Bool("direct-sweep", false, "scan timestamps directly against one engine, skipping the fingerprint database")
	cmd.Flags().String("engine", "v8-mwc1616", "PRNG engine for --direct-sweep")
	bindFlag(v, cmd, "targets.path", "targets")
	bindFlag(v, cmd, "scan.mode", "scan-mode")
	bindFlag(v, cmd, "scan.backend", "backend")
	return cmd
}

func runRandstormScan(cmd *cobra.Command, cfg config.Config) error {
	targetsPath, _ := cmd.Flags().GetString("targets")
	phaseStr, _ := cmd.Flags().GetString("phase")
	startMs, _ := cmd.Flags().GetInt64("start-ms")
	endMs, _ := cmd.Flags().GetInt64("end-ms")
	intervalMs, _ := cmd.Flags().GetInt64("interval-ms")
	directSweep, _ := cmd.Flags().GetBool("direct-sweep")
	engineStr, _ := cmd.Flags().GetString("engine")

	if targetsPath == "" {
		return fmt.Errorf("--targets is required")
	}
	addresses, err := targetlist.Load(targetsPath)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		return fmt.Errorf("target list %s contained no valid addresses", targetsPath)
	}

	hash160s, err := hash160sForTargets(addresses)
	if err != nil {
		return err
	}

	mode := fingerprint.ParseScanMode(cfg.ScanMode)
	if startMs == 0 {
		startMs = fingerprint.DefaultWindowStartMs
	}
	if endMs == 0 {
		endMs = fingerprint.DefaultWindowEndMs
	}
	if intervalMs == 0 {
		intervalMs = mode.IntervalMs()
	}

	if directSweep {
		return runDirectSweep(startMs, endMs, intervalMs, parseEngine(engineStr), hash160s)
	}
	return runFingerprintScan(cfg, phaseStr, startMs, endMs, mode, hash160s)
}

func runFingerprintScan(cfg config.Config, phaseStr string, startMs, endMs int64, mode fingerprint.ScanMode, hash160s [][]byte) error {
	runID := uuid.NewString()
	log.Printf("randstorm-scan: run %s starting (phase=%s)", runID, phaseStr)
	phase := parsePhase(phaseStr)

	var store *vault.Store
	if cfg.VaultConnString != "" {
		s, err := vault.Connect(context.Background(), cfg.VaultConnString)
		if err != nil {
			return fmt.Errorf("connecting to vault: %w", err)
		}
		defer s.Close()
		store = s
	} else {
		log.Println("randstorm-scan: VAULT_DATABASE_URL not set, confirmed hits will only be printed, not persisted")
	}

	var hits []resultio.ScanHit
	dcfg := dispatcher.Config{
		Backend:         scanbackend.ParseKind(cfg.Backend),
		Engines:         prng.AllEngines(),
		Phase:           phase,
		Mode:            mode,
		WindowStartMs:   startMs,
		WindowEndMs:     endMs,
		VaultPassphrase: cfg.VaultPassphrase,
	}
	d, err := dispatcher.NewDispatcher(dcfg, hash160s, store, func(c scanbackend.Candidate) {
		hits = append(hits, resultio.ScanHit{
			Address:        c.Address.Encoded,
			Confidence:     resultio.ConfidenceForPhase(phase),
			Config:         c.Fingerprint.Config,
			TimestampMs:    c.Fingerprint.TimestampMs,
			DerivationPath: "direct (PRNG-derived, no BIP-32 path)",
		})
	}, nil)
	if err != nil {
		return fmt.Errorf("building dispatcher: %w", err)
	}

	if err := d.Run(context.Background()); err != nil {
		return fmt.Errorf("running scan: %w", err)
	}

	return resultio.WriteScanResults(os.Stdout, hits)
}

func runDirectSweep(startMs, endMs, intervalMs int64, engine prng.Engine, hash160s [][]byte) error {
	bloomCfg := bloomfilter.DefaultConfig()
	bloomCfg.ExpectedItems = uint64(len(hash160s))
	if bloomCfg.ExpectedItems == 0 {
		bloomCfg.ExpectedItems = 1
	}
	bloom := bloomfilter.New(bloomCfg)
	bloom.InsertBatch(hash160s)

	gen := fingerprint.NewTimestampGenerator(startMs, endMs, intervalMs)
	var hits []resultio.DirectSweepHit
	for {
		ts, ok := gen.Next()
		if !ok {
			break
		}
		priv := prng.GeneratePrivKeyBytes(uint64(ts), engine, nil)
		if !derive.IsValidScalar(priv) {
			continue
		}
		addr, err := derive.DeriveAddress(priv, derive.P2PKHCompressed, nil)
		if err != nil {
			continue
		}
		if bloom.MayContain(addr.Hash160) {
			hits = append(hits, resultio.DirectSweepHit{Address: addr.Encoded, TimestampMs: ts})
		}
	}
	return resultio.WriteDirectSweepResults(os.Stdout, hits)
}

func parsePhase(s string) fingerprint.Phase {
	switch s {
	case "two":
		return fingerprint.PhaseTwo
	case "three":
		return fingerprint.PhaseThree
	default:
		return fingerprint.PhaseOne
	}
}

func parseEngine(s string) prng.Engine {
	for _, e := range prng.AllEngines() {
		if e.String() == s {
			return e
		}
	}
	return prng.V8Mwc1616
}
