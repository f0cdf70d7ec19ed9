// Package decode implements a resumable decoder for the LZ4 block format.
//
// Unlike a one-shot decompressor, a Decoder or UncachedDecoder may be fed
// arbitrarily small input chunks and asked to fill arbitrarily small output
// buffers across any number of calls to Run: it suspends mid-token or
// mid-copy and resumes exactly where it left off. This is what lets a
// caller decode a multi-megabyte LZ4 block through a fixed, small buffer
// without ever holding the whole stream in memory twice.
//
// Two variants implement the same contract. Decoder re-reads the caller's
// output buffer to satisfy nearby match copies, which is cheaper in the
// common case but requires that buffer to be ordinary, readable memory.
// UncachedDecoder never reads the output buffer back; it sources every
// match from its internal history ring instead, which is the right choice
// when the output lives in write-combining, uncached, or non-coherent
// memory (an mmap'd device, video RAM). Both produce byte-identical output
// for the same input.
//
// This package decodes LZ4 blocks only. Frame headers, skippable frames,
// checksums, and the compressor are out of scope; see the compress package
// for a conforming block encoder used by this module's own tests.
package decode
