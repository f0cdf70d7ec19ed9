package decode

const (
	ringSize = 1 << 16
	ringMask = ringSize - 1
)

// core holds the position shared by both decoder variants: the I/O
// cursors for the call in progress, the parsing phase, partially-read
// lengths, and the 64 KiB history ring. Callers never construct a core
// directly; see Decoder and UncachedDecoder.
type core struct {
	In  []byte
	Out []byte

	ring [ringSize]byte
	oPos uint32

	litLen uint32
	matLen uint32
	matDst uint32

	ph phase
}

func (c *core) reset() {
	*c = core{}
}

// atCleanBoundary reports whether the decoder sits at a point where a
// well-formed block is allowed to end: idle between sequences, or just
// past a literal run with its match distance not yet read. The LZ4 block
// format permits the final sequence of a block to carry no match at all,
// so a decoder parked in READ_OFS with nothing left to read is not stuck
// mid-token — it may simply have reached the end of the block. The
// decoder has no notion of "end of block" itself — that belongs to
// whatever framing a caller puts around these blocks — but a caller that
// does track block boundaries can use this to confirm it stopped feeding
// input at a legal place rather than truly mid-sequence.
func (c *core) atCleanBoundary() bool {
	switch c.ph {
	case phaseReadTok:
		return c.litLen == 0 && c.matLen == 0
	case phaseReadOfs:
		return true
	default:
		return false
	}
}

// resyncRing folds the bytes this call emitted back into the history
// ring, so a later call — quite possibly against a brand new output
// buffer that shares none of this call's bytes — can still satisfy a
// match that reaches back into them. Only the baseline Decoder needs
// this: UncachedDecoder keeps the ring current as it writes, so it never
// falls behind in the first place.
func (c *core) resyncRing(emitted []byte) {
	n := len(emitted)
	if n == 0 {
		return
	}
	if n >= ringSize {
		copy(c.ring[:], emitted[n-ringSize:])
		c.oPos = 0
		return
	}

	end := c.oPos + uint32(n)
	if end > ringSize {
		first := ringSize - c.oPos
		copy(c.ring[c.oPos:], emitted[:first])
		rest := uint32(n) - first
		copy(c.ring[:rest], emitted[first:])
		c.oPos = rest
		return
	}

	copy(c.ring[c.oPos:end], emitted)
	c.oPos = end
	if c.oPos == ringSize {
		c.oPos = 0
	}
}

// StreamDecoder is the contract both Decoder and UncachedDecoder satisfy.
// A verifier or a framing layer above this package can hold either variant
// behind this interface and exercise them identically.
type StreamDecoder interface {
	// Init resets the decoder to decode a fresh block stream, discarding
	// any history and clearing a latched error.
	Init()

	// Run advances decoding as far as the current In and Out allow. On
	// return, In and Out are re-sliced to their unconsumed remainders.
	Run() error

	// AtCleanBoundary reports whether the decoder is idle between
	// sequences, or has just finished a literal run and not yet read a
	// match distance (where a block whose last sequence has no match ends).
	AtCleanBoundary() bool
}
