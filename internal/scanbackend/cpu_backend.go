package scanbackend

import (
	"github.com/5n10sndkts/forensic-scanner/internal/bloomfilter"
	"github.com/5n10sndkts/forensic-scanner/internal/derive"
	"github.com/5n10sndkts/forensic-scanner/internal/fingerprint"
	"github.com/5n10sndkts/forensic-scanner/internal/prng"
)

// cpuBackend is the golden reference: every compute backend's output must
// match this one byte-for-byte for a given (fingerprint, engine) pair.
type cpuBackend struct{}

func NewCPUBackend() Backend {
	return cpuBackend{}
}

func (cpuBackend) Name() string { return "cpu" }

func (cpuBackend) ProcessBatch(batch []fingerprint.Fingerprint, engines []prng.Engine, bloom *bloomfilter.Filter) ([]Candidate, error) {
	var hits []Candidate
	for _, fp := range batch {
		for _, engine := range engines {
			priv := prng.GeneratePrivKeyBytes(uint64(fp.TimestampMs), engine, nil)
			if !derive.IsValidScalar(priv) {
				continue
			}
			addr, err := derive.DeriveAddress(priv, derive.P2PKHCompressed, nil)
			if err != nil {
				continue
			}
			if !bloom.MayContain(addr.Hash160) {
				continue
			}
			hits = append(hits, Candidate{
				Fingerprint: fp,
				Engine:      engine,
				PrivKey:     priv,
				Address:     addr,
			})
		}
	}
	return hits, nil
}
