// Package scanbackend provides the compute-backend abstraction the
// dispatcher (internal/dispatcher) drives: a CPU golden-reference
// implementation plus build-tag-gated compute-shader (wgpu) and
// compute-kernel (OpenCL) variants, selected the way the teacher's CUDA
// matcher picks between its CGO kernel and its CPU fallback.
package scanbackend

import (
	"fmt"

	"github.com/5n10sndkts/forensic-scanner/internal/bloomfilter"
	"github.com/5n10sndkts/forensic-scanner/internal/derive"
	"github.com/5n10sndkts/forensic-scanner/internal/fingerprint"
	"github.com/5n10sndkts/forensic-scanner/internal/prng"
)

// Kind selects which compute backend a scan runs on.
type Kind int

const (
	Auto Kind = iota
	Wgpu
	OpenCl
	Cpu
)

func (k Kind) String() string {
	switch k {
	case Auto:
		return "auto"
	case Wgpu:
		return "wgpu"
	case OpenCl:
		return "opencl"
	case Cpu:
		return "cpu"
	default:
		return "unknown"
	}
}

// Candidate is one confirmed hit: a fingerprint/engine pair whose derived
// P2PKH-compressed hash160 tested positive against the Bloom filter.
type Candidate struct {
	Fingerprint fingerprint.Fingerprint
	Engine      prng.Engine
	PrivKey     [32]byte
	Address     derive.DerivedAddress
}

// Backend processes one batch of fingerprints against the Bloom filter
// under every requested PRNG engine, reporting fingerprint/engine pairs
// that test positive. Every implementation must be bit-identical to the
// CPU golden reference for a given (fingerprint, engine) pair — the
// dispatcher's bit-parity validation command checks exactly this.
type Backend interface {
	Name() string
	ProcessBatch(batch []fingerprint.Fingerprint, engines []prng.Engine, bloom *bloomfilter.Filter) ([]Candidate, error)
}

// ParseKind parses the --backend flag value; unrecognized values fall
// back to Auto.
func ParseKind(s string) Kind {
	switch s {
	case "wgpu":
		return Wgpu
	case "opencl":
		return OpenCl
	case "cpu":
		return Cpu
	default:
		return Auto
	}
}

// Select resolves a requested Kind to a concrete Backend. Auto prefers the
// compute-shader backend (wgpu/Metal) on Darwin and the compute-kernel
// backend (OpenCL) elsewhere, falling back to CPU if neither is compiled
// in. An explicit Wgpu or OpenCl request fails hard if that backend was
// not compiled in, per spec.md §4.4's backend-selection rule.
func Select(kind Kind) (Backend, error) {
	switch kind {
	case Cpu:
		return NewCPUBackend(), nil
	case Wgpu:
		b := newWgpuBackend()
		if b == nil {
			return nil, fmt.Errorf("wgpu backend requested but not available in this build")
		}
		return b, nil
	case OpenCl:
		b := newOpenClBackend()
		if b == nil {
			return nil, fmt.Errorf("opencl backend requested but not available in this build")
		}
		return b, nil
	case Auto:
		return selectAuto(), nil
	default:
		return nil, fmt.Errorf("unknown backend kind %d", kind)
	}
}
