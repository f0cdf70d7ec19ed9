//go:build amd64

package simd

import "golang.org/x/sys/cpu"

// detectCPUFeaturesImpl fills in the feature flags this package can only
// learn by asking the hardware.
func detectCPUFeaturesImpl() {
	hasSSE2 = cpu.X86.HasSSE2
	hasSSE41 = cpu.X86.HasSSE41
	hasAVX2 = cpu.X86.HasAVX2
	hasAVX512 = cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW
}
