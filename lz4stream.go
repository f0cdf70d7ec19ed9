// Package lz4stream provides a resumable, streaming decoder for the LZ4
// block format, along with a reference block encoder used to produce
// conforming input for it.
package lz4stream

import (
	"github.com/harriteja/lz4stream/compress"
	"github.com/harriteja/lz4stream/decode"
)

// Version constants for this module.
const (
	Version      = "0.1.0"
	VersionMajor = 0
	VersionMinor = 1
	VersionPatch = 0
)

// NewDecoder returns a resumable LZ4 block decoder that satisfies nearby
// match copies by re-reading its own output buffer. See decode.Decoder.
func NewDecoder() *decode.Decoder {
	return decode.NewDecoder()
}

// NewUncachedDecoder returns a resumable LZ4 block decoder that never
// reads its output buffer back, sourcing every match from its internal
// history ring instead. See decode.UncachedDecoder.
func NewUncachedDecoder() *decode.UncachedDecoder {
	return decode.NewUncachedDecoder()
}

// CompressBlock compresses src into an LZ4 block at the default
// compression level, the reference encoder used to produce input for the
// decoders above. It allocates dst if nil or too small.
func CompressBlock(src []byte, dst []byte) ([]byte, error) {
	return compress.CompressBlock(src, dst)
}

// CompressBlockLevel compresses src into an LZ4 block at the given
// compression level (1 fastest .. 12 best ratio).
func CompressBlockLevel(src []byte, dst []byte, level int) ([]byte, error) {
	return compress.CompressBlockLevel(src, dst, compress.CompressionLevel(level))
}
