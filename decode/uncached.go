package decode

import (
	"encoding/binary"
	"math"
)

// UncachedDecoder is the resumable LZ4 block decoder for destinations that
// cannot be read back cheaply or coherently — an mmap'd device register
// window, write-combining or non-coherent memory, video RAM. It never
// reads Out; every byte it produces is mirrored into the history ring as
// it is written, and every match is sourced exclusively from that ring.
//
// For ordinary heap or stack buffers, Decoder is usually faster; the two
// variants are interchangeable for correctness and produce byte-identical
// output given the same input.
//
// The zero value is not ready for use; call NewUncachedDecoder or Init
// first.
type UncachedDecoder struct {
	core
}

// NewUncachedDecoder returns an UncachedDecoder ready to decode a fresh
// block stream.
func NewUncachedDecoder() *UncachedDecoder {
	u := &UncachedDecoder{}
	u.Init()
	return u
}

// Init resets u to decode a fresh block stream. It is safe to call on an
// UncachedDecoder that has latched an error.
func (u *UncachedDecoder) Init() {
	u.reset()
}

// AtCleanBoundary reports whether u is idle between sequences, or has just
// finished a literal run and not yet read a match distance.
func (u *UncachedDecoder) AtCleanBoundary() bool {
	return u.atCleanBoundary()
}

// Run consumes as much of u.In and fills as much of u.Out as it can in
// one pass, suspending the instant either runs out. On success it
// re-slices u.In and u.Out to their unconsumed remainders and returns
// nil. Once it returns ErrCorrupt the decoder is latched: every later
// call returns ErrCorrupt again untouched. Unlike Decoder, a successful
// return never needs to resync the ring — it was kept current the whole
// way through.
func (u *UncachedDecoder) Run() error {
	if u.ph == phaseReportError {
		return ErrCorrupt
	}

	in := u.In
	out := u.Out
	ii, oi := 0, 0

decodeLoop:
	for {
		switch u.ph {
		case phaseReadTok:
			if ii == len(in) {
				break decodeLoop
			}
			c := in[ii]
			ii++
			u.litLen = uint32(c >> 4)
			u.matLen = uint32(c&0x0F) + 4
			switch {
			case c>>4 == 0:
				u.ph = phaseReadOfs
			case c>>4 == 15:
				u.ph = phaseReadExLitLen
			default:
				u.ph = phaseCopyLit
			}

		case phaseReadExLitLen:
			if ii == len(in) {
				break decodeLoop
			}
			c := in[ii]
			ii++
			if uint32(c) > math.MaxUint32-u.litLen {
				u.ph = phaseReportError
				return ErrCorrupt
			}
			u.litLen += uint32(c)
			if c != 255 {
				u.ph = phaseCopyLit
			}

		case phaseCopyLit:
			n := int(u.litLen)
			if avail := len(in) - ii; n > avail {
				n = avail
			}
			if avail := len(out) - oi; n > avail {
				n = avail
			}
			for i := 0; i < n; i++ {
				c := in[ii]
				ii++
				u.ring[u.oPos] = c
				u.oPos = (u.oPos + 1) & ringMask
				out[oi] = c
				oi++
			}
			u.litLen -= uint32(n)
			if u.litLen != 0 {
				break decodeLoop
			}
			u.ph = phaseReadOfs

		case phaseReadOfs:
			if ii == len(in) {
				break decodeLoop
			}
			u.matDst = uint32(in[ii])
			ii++
			u.ph = phaseReadOfs2

		case phaseReadOfs2:
			if ii == len(in) {
				break decodeLoop
			}
			u.matDst |= uint32(in[ii]) << 8
			ii++
			if u.matDst == 0 {
				u.ph = phaseReportError
				return ErrCorrupt
			}
			if u.matLen == 15+4 {
				u.ph = phaseReadExMatLen
			} else {
				u.ph = phaseCopyMat
			}

		case phaseReadExMatLen:
			if ii == len(in) {
				break decodeLoop
			}
			c := in[ii]
			ii++
			if uint32(c) > math.MaxUint32-u.matLen {
				u.ph = phaseReportError
				return ErrCorrupt
			}
			u.matLen += uint32(c)
			if c != 255 {
				u.ph = phaseCopyMat
			}

		case phaseCopyMat:
			remaining := int(u.matLen)
			if avail := len(out) - oi; remaining > avail {
				remaining = avail
			}
			toProcess := remaining

			if remaining > 0 {
				if int(u.matDst) >= wordSize {
					// Kernel 1: distance at least a word wide. Source
					// and destination windows in the ring never
					// overlap within a single word, so each word can
					// be read, written back to the ring, and written
					// to Out as one unit.
					for remaining >= wordSize {
						srcPos := (u.oPos + ringSize - u.matDst) & ringMask
						w := u.ringReadWord(srcPos)
						u.ringWriteWord(u.oPos, w)
						binary.LittleEndian.PutUint64(out[oi:oi+wordSize], w)
						oi += wordSize
						u.oPos = (u.oPos + wordSize) & ringMask
						remaining -= wordSize
					}
				} else {
					// Kernel 2: distance shorter than a word — the
					// classic RLE case. The match's source bytes are
					// themselves bytes this same copy is producing,
					// so the output is a periodic repeat of the D
					// bytes that preceded it. Load that seed once and
					// tile it a word at a time instead of recomputing
					// a byte-by-byte dependency chain.
					d := int(u.matDst)
					var pattern [wordSize]byte
					start := (u.oPos + ringSize - u.matDst) & ringMask
					for i := 0; i < d; i++ {
						pattern[i] = u.ring[(start+uint32(i))&ringMask]
					}
					ph := 0
					for remaining >= wordSize {
						var w [wordSize]byte
						for k := 0; k < wordSize; k++ {
							w[k] = pattern[(ph+k)%d]
						}
						u.ringWriteWord(u.oPos, binary.LittleEndian.Uint64(w[:]))
						copy(out[oi:oi+wordSize], w[:])
						oi += wordSize
						u.oPos = (u.oPos + wordSize) & ringMask
						ph = (ph + wordSize) % d
						remaining -= wordSize
					}
				}

				// Tail shorter than a word, common to both kernels.
				for remaining > 0 {
					srcPos := (u.oPos + ringSize - u.matDst) & ringMask
					c := u.ring[srcPos]
					u.ring[u.oPos] = c
					u.oPos = (u.oPos + 1) & ringMask
					out[oi] = c
					oi++
					remaining--
				}

				u.matLen -= uint32(toProcess)
			}

			if u.matLen != 0 {
				break decodeLoop
			}
			u.ph = phaseReadTok

		default:
			u.ph = phaseReportError
			return ErrCorrupt
		}
	}

	u.In = in[ii:]
	u.Out = out[oi:]
	return nil
}
