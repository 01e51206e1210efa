package dispatcher

import (
	"context"
	"testing"

	"github.com/5n10sndkts/forensic-scanner/internal/derive"
	"github.com/5n10sndkts/forensic-scanner/internal/fingerprint"
	"github.com/5n10sndkts/forensic-scanner/internal/prng"
	"github.com/5n10sndkts/forensic-scanner/internal/scanbackend"
)

func TestRunFindsSeededTarget(t *testing.T) {
	targetTs := fingerprint.DefaultWindowStartMs
	priv := prng.GeneratePrivKeyBytes(uint64(targetTs), prng.V8Mwc1616, nil)
	addr, err := derive.DeriveAddress(priv, derive.P2PKHCompressed, nil)
	if err != nil {
		t.Fatalf("DeriveAddress: %v", err)
	}

	cfg := Config{
		Backend:       scanbackend.Cpu,
		Engines:       []prng.Engine{prng.V8Mwc1616},
		BatchSize:     4,
		Phase:         fingerprint.PhaseOne,
		Mode:          fingerprint.Exhaustive,
		WindowStartMs: targetTs,
		WindowEndMs:   targetTs + 5, // a handful of ms, one per config
	}

	var hits []scanbackend.Candidate
	d, err := NewDispatcher(cfg, [][]byte{addr.Hash160}, nil, func(c scanbackend.Candidate) {
		hits = append(hits, c)
	}, nil)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	found := false
	for _, h := range hits {
		if h.Address.Encoded == addr.Encoded {
			found = true
		}
	}
	if !found {
		t.Errorf("expected to find seeded target %s among %d hits", addr.Encoded, len(hits))
	}
}

func TestRunRespectsMaxFingerprints(t *testing.T) {
	cfg := Config{
		Backend:         scanbackend.Cpu,
		Engines:         []prng.Engine{prng.V8Mwc1616},
		BatchSize:       2,
		MaxFingerprints: 3,
		Phase:           fingerprint.PhaseOne,
		Mode:            fingerprint.Exhaustive,
		WindowStartMs:   fingerprint.DefaultWindowStartMs,
		WindowEndMs:     fingerprint.DefaultWindowStartMs + 100,
	}

	d, err := NewDispatcher(cfg, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if d.Progress().Processed < cfg.MaxFingerprints {
		t.Errorf("processed = %d, want >= %d", d.Progress().Processed, cfg.MaxFingerprints)
	}
}
