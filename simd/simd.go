// Package simd reports the CPU features available on the current host.
//
// The streaming decoder has no SIMD-dependent code path: its hot loop is a
// small phase dispatch plus bounded byte/word copies, not a bulk
// vector-compare problem. This package exists for the verifier harness,
// which uses wider SIMD feature availability as a (very rough) proxy for
// "this machine can afford a deeper match search," and widens the reference
// encoder's hash-chain depth accordingly when generating large round-trip
// corpora.
package simd

import (
	"runtime"
	"sync"
)

var (
	isAMD64 = runtime.GOARCH == "amd64"
	isARM64 = runtime.GOARCH == "arm64"

	hasSSE2   bool
	hasSSE41  bool
	hasAVX2   bool
	hasAVX512 bool
	hasNEON   bool

	detectOnce sync.Once
)

// Features reports which CPU features were detected on this host.
type Features struct {
	HasSSE2   bool
	HasSSE41  bool
	HasAVX2   bool
	HasAVX512 bool
	HasNEON   bool
}

// DetectFeatures detects and caches the host's CPU features.
func DetectFeatures() Features {
	detectOnce.Do(detectCPUFeatures)

	return Features{
		HasSSE2:   hasSSE2,
		HasSSE41:  hasSSE41,
		HasAVX2:   hasAVX2,
		HasAVX512: hasAVX512,
		HasNEON:   hasNEON,
	}
}

func detectCPUFeatures() {
	if isAMD64 {
		hasSSE2 = true
	}
	if isARM64 {
		hasNEON = true
	}

	detectCPUFeaturesImpl()
}

// SearchDepthHint returns a hash-chain search-depth multiplier: hosts with
// wider SIMD capability get a deeper (more exhaustive) search, since the
// reference encoder's byte-compare inner loop is cheap enough there to
// afford it without slowing fixture generation to a crawl.
func SearchDepthHint() int {
	f := DetectFeatures()

	switch {
	case f.HasAVX512:
		return 4
	case f.HasAVX2:
		return 3
	case f.HasSSE41, f.HasNEON:
		return 2
	default:
		return 1
	}
}
