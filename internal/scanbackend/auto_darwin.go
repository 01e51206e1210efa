//go:build darwin

package scanbackend

import "log"

// selectAuto on macOS prefers the compute-shader (wgpu/Metal) backend,
// falling back to the compute-kernel (OpenCL) backend, then CPU.
func selectAuto() Backend {
	if b := newWgpuBackend(); b != nil {
		return b
	}
	if b := newOpenClBackend(); b != nil {
		return b
	}
	log.Println("[scanbackend] no compute backend compiled in, falling back to CPU")
	return NewCPUBackend()
}
