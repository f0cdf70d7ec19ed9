// Package verify is the round-trip harness for the decode package: it
// compresses a payload with the compress package's reference encoder,
// then decodes the result back through decode.Decoder and
// decode.UncachedDecoder under a variety of chunking regimes, bit-
// comparing against the original payload.
//
// Nothing in decode imports this package or compress — the dependency
// runs one way, harness onto decoder, exactly as an external test
// collaborator should.
package verify
