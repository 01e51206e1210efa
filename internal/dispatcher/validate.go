package dispatcher

import (
	"fmt"

	"github.com/5n10sndkts/forensic-scanner/internal/bloomfilter"
	"github.com/5n10sndkts/forensic-scanner/internal/fingerprint"
	"github.com/5n10sndkts/forensic-scanner/internal/prng"
	"github.com/5n10sndkts/forensic-scanner/internal/scanbackend"
)

// Mismatch describes one byte-level divergence found by Validate.
type Mismatch struct {
	Fingerprint fingerprint.Fingerprint
	Engine      prng.Engine
	CPUPrivKey  [32]byte
	GPUPrivKey  [32]byte
}

// Validate draws n fingerprints from db (phase-filtered) and runs both the
// CPU golden reference and the requested backend over them, reporting
// every byte-level divergence — the randstorm-validate command's bit-
// parity check (spec.md §4.4's "Bit-parity rule").
func Validate(backendKind scanbackend.Kind, db *fingerprint.Database, phase fingerprint.Phase, n int, engines []prng.Engine) ([]Mismatch, error) {
	if len(engines) == 0 {
		engines = prng.AllEngines()
	}

	backend, err := scanbackend.Select(backendKind)
	if err != nil {
		return nil, fmt.Errorf("selecting backend: %w", err)
	}
	cpu := scanbackend.NewCPUBackend()

	configs := db.ConfigsForPhase(phase)
	stream := fingerprint.NewStream(configs, fingerprint.DefaultWindowStartMs, fingerprint.DefaultWindowEndMs, 1)
	sample := stream.NextBatch(n)

	// An all-bits-set Bloom filter makes every candidate test positive, so
	// both backends emit a candidate for every (fingerprint, engine) pair —
	// maximal comparison surface for the parity check.
	alwaysHitBloom := bloomfilter.NewFull(bloomfilter.DefaultConfig())

	cpuHits, err := cpu.ProcessBatch(sample, engines, alwaysHitBloom)
	if err != nil {
		return nil, fmt.Errorf("cpu backend: %w", err)
	}
	gpuHits, err := backend.ProcessBatch(sample, engines, alwaysHitBloom)
	if err != nil {
		return nil, fmt.Errorf("%s backend: %w", backend.Name(), err)
	}

	cpuByKey := make(map[string]scanbackend.Candidate, len(cpuHits))
	for _, h := range cpuHits {
		cpuByKey[mismatchKey(h.Fingerprint, h.Engine)] = h
	}

	var mismatches []Mismatch
	for _, g := range gpuHits {
		c, ok := cpuByKey[mismatchKey(g.Fingerprint, g.Engine)]
		if !ok || c.PrivKey != g.PrivKey {
			var cpuKey [32]byte
			if ok {
				cpuKey = c.PrivKey
			}
			mismatches = append(mismatches, Mismatch{
				Fingerprint: g.Fingerprint,
				Engine:      g.Engine,
				CPUPrivKey:  cpuKey,
				GPUPrivKey:  g.PrivKey,
			})
		}
	}
	return mismatches, nil
}

func mismatchKey(fp fingerprint.Fingerprint, engine prng.Engine) string {
	return fmt.Sprintf("%d|%s|%s", fp.TimestampMs, fp.Config.UserAgent, engine)
}
