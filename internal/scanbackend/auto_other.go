//go:build !darwin

package scanbackend

import "log"

// selectAuto on non-Darwin platforms prefers the compute-kernel (OpenCL)
// backend, falling back to the compute-shader (wgpu) backend, then CPU —
// the reverse of Darwin's preference order.
func selectAuto() Backend {
	if b := newOpenClBackend(); b != nil {
		return b
	}
	if b := newWgpuBackend(); b != nil {
		return b
	}
	log.Println("[scanbackend] no compute backend compiled in, falling back to CPU")
	return NewCPUBackend()
}
