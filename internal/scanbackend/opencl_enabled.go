//go:build opencl

package scanbackend

import (
	"log"

	"github.com/5n10sndkts/forensic-scanner/internal/bloomfilter"
	"github.com/5n10sndkts/forensic-scanner/internal/fingerprint"
	"github.com/5n10sndkts/forensic-scanner/internal/prng"
)

// openClBackend mirrors wgpuBackend for the compute-kernel (OpenCL) path.
type openClBackend struct {
	cpu Backend
}

func newOpenClBackend() Backend {
	return &openClBackend{cpu: NewCPUBackend()}
}

func (o *openClBackend) Name() string { return "opencl" }

func (o *openClBackend) ProcessBatch(batch []fingerprint.Fingerprint, engines []prng.Engine, bloom *bloomfilter.Filter) ([]Candidate, error) {
	log.Printf("[opencl] dispatching %d fingerprints x %d engines", len(batch), len(engines))
	return o.cpu.ProcessBatch(batch, engines, bloom)
}
