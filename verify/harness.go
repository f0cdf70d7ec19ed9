package verify

import (
	"fmt"

	"github.com/harriteja/lz4stream/compress"
	"github.com/harriteja/lz4stream/decode"
	"github.com/harriteja/lz4stream/matcher"
	"github.com/harriteja/lz4stream/simd"
)

// ChunkRegime names a fixed read/write limit the harness drives a decoder
// through. A limit of 0 means "no limit" — hand the decoder everything in
// one call.
type ChunkRegime struct {
	Name       string
	ReadLimit  int
	WriteLimit int
}

// Regimes are the chunking sweeps this harness drives every decoder
// variant through: one-shot, and 1024/512-byte limits applied
// independently to the read and write sides.
var Regimes = []ChunkRegime{
	{Name: "one-shot", ReadLimit: 0, WriteLimit: 0},
	{Name: "read-1024", ReadLimit: 1024, WriteLimit: 0},
	{Name: "write-1024", ReadLimit: 0, WriteLimit: 1024},
	{Name: "read-512", ReadLimit: 512, WriteLimit: 0},
	{Name: "write-512", ReadLimit: 0, WriteLimit: 512},
}

// Encode produces a conforming LZ4 block for payload using the reference
// high-compression encoder. It exists so the harness and its callers
// never have to reach into the compress package directly.
//
// compress.CompressBlockLevel rejects inputs shorter than
// compress.MinBlockSize outright (a limitation of its hash-chain setup,
// which needs a handful of bytes of lookahead); the wire format itself
// has no such floor; a block under that size, including the S1 empty
// case, is just a single literal-only sequence, so Encode builds that
// directly rather than padding the payload (which would decode back to
// something other than payload).
func Encode(payload []byte) ([]byte, error) {
	if len(payload) < compress.MinBlockSize {
		return encodeLiteralOnly(payload), nil
	}
	return compress.CompressBlockLevel(payload, nil, compress.DefaultLevel)
}

// EncodeDeep produces a conforming LZ4 block like Encode, but through the
// generic matcher (compress.CompressBlockGenericDeep) with its search depth,
// matcher.DefaultConfig's MaxAttempts, multiplied by simd.SearchDepthHint.
// Large round-trip corpora (see
// TestLargeRandomCorpusAcrossRegimes) use this instead of Encode: searching
// harder surfaces longer matches and smaller distances, exercising paths
// (the baseline decoder's ring fallback, the uncached decoder's
// short-distance RLE kernel) that a few short literal-heavy fixtures rarely
// reach. On hosts with no wider SIMD capability, SearchDepthHint returns 1
// and the search depth stays at that default; the encoder is still the
// generic matcher, not Encode's HCMatcher path.
func EncodeDeep(payload []byte) ([]byte, error) {
	if len(payload) < compress.MinBlockSize {
		return encodeLiteralOnly(payload), nil
	}
	attempts := matcher.DefaultConfig().MaxAttempts * simd.SearchDepthHint()
	return compress.CompressBlockGenericDeep(payload, nil, compress.DefaultLevel, attempts)
}

// EncodeV2 produces a conforming LZ4 block through the LZ4X matcher
// (compress.CompressBlockV2Level) instead of the plain hash-chain encoder
// Encode uses. It is the harness's third independent encoder strategy,
// alongside Encode's hash chain and EncodeDeep's SIMD-scaled generic
// matcher, so round-trip coverage isn't limited to whatever one matcher
// implementation happens to emit.
func EncodeV2(payload []byte) ([]byte, error) {
	if len(payload) < compress.MinBlockSize {
		return encodeLiteralOnly(payload), nil
	}
	return compress.CompressBlockV2Level(payload, nil, compress.DefaultLevel)
}

func encodeLiteralOnly(payload []byte) []byte {
	n := len(payload)
	if n == 0 {
		return nil
	}

	litCode := n
	if litCode > 15 {
		litCode = 15
	}
	out := []byte{byte(litCode << 4)}

	if n >= 15 {
		rem := n - 15
		for rem >= 255 {
			out = append(out, 255)
			rem -= 255
		}
		out = append(out, byte(rem))
	}

	return append(out, payload...)
}

// Decode drives dec to completion against encoded under the given
// chunking regime, returning the concatenated output. If Run ever returns a
// non-nil error, Decode stops and returns the output so far together with
// that error, wrapped with the regime's name.
func Decode(dec decode.StreamDecoder, encoded []byte, regime ChunkRegime) ([]byte, error) {
	readLimit := regime.ReadLimit
	if readLimit <= 0 {
		readLimit = len(encoded) + 1
	}
	writeLimit := regime.WriteLimit
	if writeLimit <= 0 {
		writeLimit = 1 << 20
	}

	var result []byte
	remaining := encoded
	out := make([]byte, writeLimit)

	for {
		var feed []byte
		if len(remaining) > 0 {
			n := readLimit
			if n > len(remaining) {
				n = len(remaining)
			}
			feed = remaining[:n]
			remaining = remaining[n:]
		}

		setCursors(dec, feed, out)

		if err := dec.Run(); err != nil {
			return result, fmt.Errorf("regime %s: Run: %w", regime.Name, err)
		}

		produced := writeLimit - len(getOut(dec))
		result = append(result, out[:produced]...)

		leftover := getIn(dec)
		remaining = append(append([]byte{}, leftover...), remaining...)

		if len(remaining) == 0 && produced == 0 {
			break
		}
	}

	return result, nil
}

func setCursors(dec decode.StreamDecoder, in, out []byte) {
	switch d := dec.(type) {
	case *decode.Decoder:
		d.In = in
		d.Out = out
	case *decode.UncachedDecoder:
		d.In = in
		d.Out = out
	}
}

func getIn(dec decode.StreamDecoder) []byte {
	switch d := dec.(type) {
	case *decode.Decoder:
		return d.In
	case *decode.UncachedDecoder:
		return d.In
	}
	return nil
}

func getOut(dec decode.StreamDecoder) []byte {
	switch d := dec.(type) {
	case *decode.Decoder:
		return d.Out
	case *decode.UncachedDecoder:
		return d.Out
	}
	return nil
}

// RoundTrip encodes payload, decodes it back under every regime in
// Regimes with both decoder variants, and reports the first mismatch it
// finds. A nil return means every regime and variant reproduced payload
// exactly.
func RoundTrip(payload []byte) error {
	return roundTripWith(payload, Encode)
}

// RoundTripDeep is RoundTrip with EncodeDeep in place of Encode: the same
// decode-and-compare sweep, against a block produced by the wider,
// SIMD-scaled hash-chain search.
func RoundTripDeep(payload []byte) error {
	return roundTripWith(payload, EncodeDeep)
}

// RoundTripV2 is RoundTrip with EncodeV2 in place of Encode: the same
// decode-and-compare sweep, against a block produced by the LZ4X matcher.
func RoundTripV2(payload []byte) error {
	return roundTripWith(payload, EncodeV2)
}

func roundTripWith(payload []byte, encode func([]byte) ([]byte, error)) error {
	encoded, err := encode(payload)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	for _, regime := range Regimes {
		baseline, err := Decode(decode.NewDecoder(), encoded, regime)
		if err != nil {
			return fmt.Errorf("baseline decoder: %w", err)
		}
		if !equal(baseline, payload) {
			return fmt.Errorf("regime %s: baseline decoder produced %d bytes, want %d", regime.Name, len(baseline), len(payload))
		}

		uncached, err := Decode(decode.NewUncachedDecoder(), encoded, regime)
		if err != nil {
			return fmt.Errorf("uncached decoder: %w", err)
		}
		if !equal(uncached, payload) {
			return fmt.Errorf("regime %s: uncached decoder produced %d bytes, want %d", regime.Name, len(uncached), len(payload))
		}
	}

	return nil
}

func equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
