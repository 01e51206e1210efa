// Package dispatcher implements the Randstorm scan orchestration loop
// (spec.md §4.4 / C4): batch fill from the fingerprint stream, backend
// dispatch, CPU re-verification of every reported hit, the independent
// Milk-Sad fixed-path sweep, and progress tracking.
package dispatcher

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/5n10sndkts/forensic-scanner/internal/bloomfilter"
	"github.com/5n10sndkts/forensic-scanner/internal/derive"
	"github.com/5n10sndkts/forensic-scanner/internal/fingerprint"
	"github.com/5n10sndkts/forensic-scanner/internal/noncecrawl"
	"github.com/5n10sndkts/forensic-scanner/internal/prng"
	"github.com/5n10sndkts/forensic-scanner/internal/scanbackend"
	"github.com/5n10sndkts/forensic-scanner/internal/vault"
)

// DefaultBatchSize is the backend-suggested fill size per spec.md §4.4.
const DefaultBatchSize = 10_000

// Config controls one Randstorm scan.
type Config struct {
	Backend         scanbackend.Kind
	Engines         []prng.Engine
	BatchSize       int
	MaxFingerprints int64 // 0 = unlimited
	Phase           fingerprint.Phase
	Mode            fingerprint.ScanMode
	WindowStartMs   int64
	WindowEndMs     int64
	VaultPassphrase string // used only when a Store is supplied to NewDispatcher
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if len(c.Engines) == 0 {
		c.Engines = prng.AllEngines()
	}
	if c.WindowStartMs == 0 && c.WindowEndMs == 0 {
		c.WindowStartMs = fingerprint.DefaultWindowStartMs
		c.WindowEndMs = fingerprint.DefaultWindowEndMs
	}
	return c
}

// Progress is the dispatcher's current state, safe for concurrent reads.
type Progress struct {
	Processed        int64 `json:"processed"`
	Confirmed        int64 `json:"confirmed"`
	MilkSadConfirmed int64 `json:"milkSadConfirmed"`
	Rejected         int64 `json:"rejected"`
	Total            int64 `json:"total"`
	IsRunning        bool  `json:"isRunning"`
}

// Dispatcher drives one Randstorm scan against a fixed target set.
type Dispatcher struct {
	backend scanbackend.Backend
	store   *vault.Store
	cfg     Config
	bloom   *bloomfilter.Filter
	stream  *fingerprint.Stream

	processed        atomic.Int64
	confirmed        atomic.Int64
	milkSadConfirmed atomic.Int64
	rejected         atomic.Int64
	running          atomic.Bool

	onHit     func(scanbackend.Candidate)
	onMilkSad func(MilkSadHit)
}

// NewDispatcher builds a Bloom filter over targetHash160s (C7, default
// false-positive rate and k per spec.md §4.4 step 2), selects the
// requested backend, and constructs the fingerprint stream for the
// requested phase/mode/window.
func NewDispatcher(cfg Config, targetHash160s [][]byte, store *vault.Store, onHit func(scanbackend.Candidate), onMilkSad func(MilkSadHit)) (*Dispatcher, error) {
	cfg = cfg.withDefaults()

	backend, err := scanbackend.Select(cfg.Backend)
	if err != nil {
		return nil, fmt.Errorf("selecting backend: %w", err)
	}

	bloomCfg := bloomfilter.DefaultConfig()
	bloomCfg.ExpectedItems = uint64(len(targetHash160s))
	if bloomCfg.ExpectedItems == 0 {
		bloomCfg.ExpectedItems = 1
	}
	bloom := bloomfilter.New(bloomCfg)
	bloom.InsertBatch(targetHash160s)

	db := fingerprint.NewDatabase()
	configs := db.ConfigsForPhase(cfg.Phase)
	stream := fingerprint.NewStream(configs, cfg.WindowStartMs, cfg.WindowEndMs, cfg.Mode.IntervalMs())

	return &Dispatcher{
		backend:   backend,
		store:     store,
		cfg:       cfg,
		bloom:     bloom,
		stream:    stream,
		onHit:     onHit,
		onMilkSad: onMilkSad,
	}, nil
}

func (d *Dispatcher) Progress() Progress {
	return Progress{
		Processed:        d.processed.Load(),
		Confirmed:        d.confirmed.Load(),
		MilkSadConfirmed: d.milkSadConfirmed.Load(),
		Rejected:         d.rejected.Load(),
		Total:            d.stream.Len(),
		IsRunning:        d.running.Load(),
	}
}

// Stop causes the current batch to finish and the loop to exit gracefully
// (spec.md §5's cancellation model — one batch is the unit of
// interruption, there is no mid-dispatch cancellation).
func (d *Dispatcher) Stop() {
	d.running.Store(false)
}

// Run executes the scan loop until the stream is exhausted, the running
// flag is cleared, or MaxFingerprints is reached.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.running.Store(true)
	defer d.running.Store(false)

	cpu := scanbackend.NewCPUBackend()

	for d.running.Load() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.cfg.MaxFingerprints > 0 && d.processed.Load() >= d.cfg.MaxFingerprints {
			break
		}

		batch := d.stream.NextBatch(d.cfg.BatchSize)
		if len(batch) == 0 {
			break
		}

		hits, err := d.backend.ProcessBatch(batch, d.cfg.Engines, d.bloom)
		if err != nil {
			log.Printf("[dispatcher] backend %s batch failed, retrying on cpu: %v", d.backend.Name(), err)
			hits, err = cpu.ProcessBatch(batch, d.cfg.Engines, d.bloom)
			if err != nil {
				log.Printf("[dispatcher] cpu fallback also failed: %v", err)
				d.processed.Add(int64(len(batch)))
				continue
			}
		}

		for _, hit := range hits {
			if !d.reverify(hit) {
				d.rejected.Add(1)
				log.Printf("[dispatcher] backend %s hit failed CPU re-verification, discarding: %s/%s",
					d.backend.Name(), hit.Engine, hit.Address.Encoded)
				continue
			}
			d.confirmed.Add(1)
			if d.store != nil {
				d.persist(ctx, hit)
			}
			if d.onHit != nil {
				d.onHit(hit)
			}
		}

		seenTimestamps := make(map[int64]struct{}, len(batch))
		for _, fp := range batch {
			if _, seen := seenTimestamps[fp.TimestampMs]; seen {
				continue
			}
			seenTimestamps[fp.TimestampMs] = struct{}{}
			for _, ms := range CheckMilkSad(fp.TimestampMs, d.bloom) {
				d.milkSadConfirmed.Add(1)
				if d.onMilkSad != nil {
					d.onMilkSad(ms)
				}
			}
		}

		d.processed.Add(int64(len(batch)))
	}

	return nil
}

// persist encrypts hit's private key and upserts it into the vault under
// the "randstorm" vulnerability class, mirroring noncecrawl.Crawler.persist.
func (d *Dispatcher) persist(ctx context.Context, hit scanbackend.Candidate) {
	passphrase := d.cfg.VaultPassphrase
	if passphrase == "" {
		passphrase = vault.DefaultPassphrase
	}

	wif, err := noncecrawl.PrivKeyToWIF(hit.PrivKey)
	if err != nil {
		log.Printf("[dispatcher] wif encode failed for %s: %v", hit.Address.Encoded, err)
		return
	}
	enc, err := vault.EncryptPrivateKey(wif, passphrase)
	if err != nil {
		log.Printf("[dispatcher] vault encrypt failed for %s: %v", hit.Address.Encoded, err)
		return
	}

	target := vault.NewTarget(hit.Address.Encoded, "randstorm").WithEncryptedKey(enc)
	if err := d.store.UpsertTarget(ctx, target); err != nil {
		log.Printf("[dispatcher] vault upsert failed for %s: %v", hit.Address.Encoded, err)
	}
}

// reverify recomputes hit's private key on the CPU golden reference and
// compares private-key, pubkey, and hash160 bytes for an exact match —
// spec.md §4.4's bit-parity rule applied inline to every reported hit.
func (d *Dispatcher) reverify(hit scanbackend.Candidate) bool {
	golden := prng.GeneratePrivKeyBytes(uint64(hit.Fingerprint.TimestampMs), hit.Engine, nil)
	if golden != hit.PrivKey {
		return false
	}
	addr, err := derive.DeriveAddress(golden, derive.P2PKHCompressed, nil)
	if err != nil {
		return false
	}
	if addr.Encoded != hit.Address.Encoded {
		return false
	}
	return true
}
