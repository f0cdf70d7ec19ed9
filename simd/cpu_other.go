//go:build !amd64 && !arm64

package simd

// detectCPUFeaturesImpl leaves every flag at its zero value: no SIMD
// features are assumed on unrecognized architectures.
func detectCPUFeaturesImpl() {}
