package decode

import "math"

// Decoder is the resumable LZ4 block decoder. It satisfies a match copy
// that stays within the bytes already written during the current Run call
// by re-reading the caller's own Out buffer, and falls back to the
// history ring only when a match reaches further back than that. This is
// the cheaper choice whenever Out is ordinary, readable memory.
//
// The zero value is not ready for use; call NewDecoder or Init first.
type Decoder struct {
	core
}

// NewDecoder returns a Decoder ready to decode a fresh block stream.
func NewDecoder() *Decoder {
	d := &Decoder{}
	d.Init()
	return d
}

// Init resets d to decode a fresh block stream. It is safe to call on a
// Decoder that has latched an error.
func (d *Decoder) Init() {
	d.reset()
}

// AtCleanBoundary reports whether d is idle between sequences, or has just
// finished a literal run and not yet read a match distance.
func (d *Decoder) AtCleanBoundary() bool {
	return d.atCleanBoundary()
}

// Run consumes as much of d.In and fills as much of d.Out as it can in
// one pass, suspending the instant either runs out. On success it
// re-slices d.In and d.Out to their unconsumed remainders and returns
// nil. Once it returns ErrCorrupt the decoder is latched: every later
// call returns ErrCorrupt again untouched.
func (d *Decoder) Run() error {
	if d.ph == phaseReportError {
		return ErrCorrupt
	}

	in := d.In
	out := d.Out
	ii, oi := 0, 0

decodeLoop:
	for {
		switch d.ph {
		case phaseReadTok:
			if ii == len(in) {
				break decodeLoop
			}
			c := in[ii]
			ii++
			d.litLen = uint32(c >> 4)
			d.matLen = uint32(c&0x0F) + 4
			switch {
			case c>>4 == 0:
				d.ph = phaseReadOfs
			case c>>4 == 15:
				d.ph = phaseReadExLitLen
			default:
				d.ph = phaseCopyLit
			}

		case phaseReadExLitLen:
			if ii == len(in) {
				break decodeLoop
			}
			c := in[ii]
			ii++
			if uint32(c) > math.MaxUint32-d.litLen {
				d.ph = phaseReportError
				return ErrCorrupt
			}
			d.litLen += uint32(c)
			if c != 255 {
				d.ph = phaseCopyLit
			}

		case phaseCopyLit:
			n := int(d.litLen)
			if avail := len(in) - ii; n > avail {
				n = avail
			}
			if avail := len(out) - oi; n > avail {
				n = avail
			}
			if n > 0 {
				copy(out[oi:oi+n], in[ii:ii+n])
				ii += n
				oi += n
				d.litLen -= uint32(n)
			}
			if d.litLen != 0 {
				break decodeLoop
			}
			d.ph = phaseReadOfs

		case phaseReadOfs:
			if ii == len(in) {
				break decodeLoop
			}
			d.matDst = uint32(in[ii])
			ii++
			d.ph = phaseReadOfs2

		case phaseReadOfs2:
			if ii == len(in) {
				break decodeLoop
			}
			d.matDst |= uint32(in[ii]) << 8
			ii++
			if d.matDst == 0 {
				d.ph = phaseReportError
				return ErrCorrupt
			}
			if d.matLen == 15+4 {
				d.ph = phaseReadExMatLen
			} else {
				d.ph = phaseCopyMat
			}

		case phaseReadExMatLen:
			if ii == len(in) {
				break decodeLoop
			}
			c := in[ii]
			ii++
			if uint32(c) > math.MaxUint32-d.matLen {
				d.ph = phaseReportError
				return ErrCorrupt
			}
			d.matLen += uint32(c)
			if c != 255 {
				d.ph = phaseCopyMat
			}

		case phaseCopyMat:
			n := int(d.matLen)
			if avail := len(out) - oi; n > avail {
				n = avail
			}
			if n > 0 {
				nInCall := oi
				if int(d.matDst) > nInCall {
					// Branch A: part (or all) of the match reaches
					// behind the start of this call's output, into
					// history the ring still remembers.
					bufDst := int(d.matDst) - nInCall
					bufCnt := bufDst
					if bufCnt > n {
						bufCnt = n
					}

					bufSrc := int(d.oPos) - bufDst
					for bufSrc < 0 {
						bufSrc += ringSize
					}

					if bufSrc+bufCnt > ringSize {
						e := ringSize - bufSrc
						copy(out[oi:oi+e], d.ring[bufSrc:])
						copy(out[oi+e:oi+bufCnt], d.ring[:bufCnt-e])
					} else {
						copy(out[oi:oi+bufCnt], d.ring[bufSrc:bufSrc+bufCnt])
					}

					oi += bufCnt
					n -= bufCnt
					d.matLen -= uint32(bufCnt)
				}

				// Branch B: the remainder overlaps bytes written
				// earlier in this very call. The distance can be
				// smaller than the remaining length (that's how RLE
				// runs are encoded), so this has to go byte by byte —
				// copy() is undefined for overlapping spans going
				// the wrong way, and a bulk copy would read bytes
				// before this loop has produced them.
				for i := 0; i < n; i++ {
					out[oi] = out[oi-int(d.matDst)]
					oi++
				}
				d.matLen -= uint32(n)
			}
			if d.matLen != 0 {
				break decodeLoop
			}
			d.ph = phaseReadTok

		default:
			// Unreachable except through memory corruption of d.ph;
			// fail closed rather than index out of range.
			d.ph = phaseReportError
			return ErrCorrupt
		}
	}

	d.In = in[ii:]
	d.Out = out[oi:]
	d.resyncRing(out[:oi])
	return nil
}
