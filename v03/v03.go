// Package v03 exposes the parallel entry points built on top of
// parallel.Dispatcher: one pair routed through the hash-chain encoder
// (compress.CompressBlockLevel) and one through the LZ4X matcher
// (compress.CompressBlockV2Level). Both fall back to sequential compression
// if the dispatcher's worker pool fails to start.
package v03

import (
	"github.com/harriteja/lz4stream/compress"
	"github.com/harriteja/lz4stream/parallel"
)

// CompressBlockParallel compresses src with Dispatcher.CompressBlocks at the
// default level.
func CompressBlockParallel(src []byte, dst []byte) ([]byte, error) {
	return CompressBlockParallelLevel(src, dst, int(compress.DefaultLevel))
}

// CompressBlockParallelLevel compresses src with Dispatcher.CompressBlocks at
// the given level, falling back to CompressBlockLevel if the dispatcher
// can't start its worker pool.
func CompressBlockParallelLevel(src []byte, dst []byte, level int) ([]byte, error) {
	dispatcher := parallel.NewDispatcher(0, 0) // Use defaults
	defer dispatcher.Stop()

	if err := dispatcher.Start(); err != nil {
		// Fall back to non-parallel compression
		return compress.CompressBlockLevel(src, dst, compress.CompressionLevel(level))
	}

	return dispatcher.CompressBlocks(src, level)
}

// CompressBlockV2Parallel compresses src with Dispatcher.CompressBlocksV2 at
// the default level, routing each chunk through the LZ4X matcher instead of
// the plain hash-chain encoder CompressBlockParallel uses.
func CompressBlockV2Parallel(src []byte, dst []byte) ([]byte, error) {
	return CompressBlockV2ParallelLevel(src, dst, int(compress.DefaultLevel))
}

// CompressBlockV2ParallelLevel compresses src with Dispatcher.CompressBlocksV2
// at the given level, falling back to CompressBlockV2Level if the dispatcher
// can't start its worker pool.
func CompressBlockV2ParallelLevel(src []byte, dst []byte, level int) ([]byte, error) {
	dispatcher := parallel.NewDispatcher(0, 0) // Use defaults
	defer dispatcher.Stop()

	if err := dispatcher.Start(); err != nil {
		// Fall back to non-parallel compression
		return compress.CompressBlockV2Level(src, dst, compress.CompressionLevel(level))
	}

	return dispatcher.CompressBlocksV2(src, level)
}
