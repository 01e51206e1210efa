//go:build !opencl

package scanbackend

// newOpenClBackend returns nil when the engine was compiled without the
// 'opencl' build tag.
func newOpenClBackend() Backend {
	return nil
}
