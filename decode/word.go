package decode

import "encoding/binary"

const wordSize = 8

// ringReadWord reads the 8 bytes of ring history starting at the logical
// position pos (pos < ringSize), wrapping through a scratch array if the
// read straddles the end of the buffer. Endianness is fixed by
// encoding/binary.LittleEndian, not by the host, so the bit pattern in the
// returned word is the same on every platform this decoder runs on.
func (c *core) ringReadWord(pos uint32) uint64 {
	if pos+wordSize <= ringSize {
		return binary.LittleEndian.Uint64(c.ring[pos : pos+wordSize])
	}
	var tmp [wordSize]byte
	first := ringSize - pos
	copy(tmp[:first], c.ring[pos:])
	copy(tmp[first:], c.ring[:wordSize-first])
	return binary.LittleEndian.Uint64(tmp[:])
}

// ringWriteWord writes the 8 bytes of w to the ring starting at the
// logical position pos, wrapping through a scratch array as needed.
func (c *core) ringWriteWord(pos uint32, w uint64) {
	var tmp [wordSize]byte
	binary.LittleEndian.PutUint64(tmp[:], w)
	if pos+wordSize <= ringSize {
		copy(c.ring[pos:pos+wordSize], tmp[:])
		return
	}
	first := ringSize - pos
	copy(c.ring[pos:], tmp[:first])
	copy(c.ring[:wordSize-first], tmp[first:])
}
