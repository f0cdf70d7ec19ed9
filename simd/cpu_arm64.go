//go:build arm64

package simd

// detectCPUFeaturesImpl is a no-op on arm64: NEON is already assumed present
// by detectCPUFeatures.
func detectCPUFeaturesImpl() {}
