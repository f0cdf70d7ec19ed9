package compress

import (
	"encoding/binary"

	"github.com/harriteja/lz4stream/matcher"
)

// GenericBlock compresses with matcher.GenericMatcher, the index-width-
// parameterized hash-chain finder. V2Block fixes its matcher to the
// LZ4X implementation; GenericBlock exists for callers who want to pick
// the chain index width themselves — int32 keeps the hash and chain
// tables at half the size of V2Block's on inputs under 2 GiB, which
// matters when compressing many small blocks concurrently.
type GenericBlock struct {
	src     []byte
	level   CompressionLevel
	matcher *matcher.GenericMatcher[int32]
}

// NewGenericBlock creates a GenericBlock ready to compress src.
func NewGenericBlock(src []byte, level CompressionLevel) (*GenericBlock, error) {
	if len(src) < MinBlockSize || len(src) > MaxBlockSize {
		return nil, ErrInvalidBlockSize
	}
	if level < 0 || level > MaxLevel {
		return nil, ErrInvalidCompressionLevel
	}

	config := matcher.DefaultConfig()
	switch {
	case level <= 3:
		config.MaxAttempts = 4
	case level <= 6:
		config.MaxAttempts = 8
	case level <= 9:
		config.MaxAttempts = 16
	default:
		config.MaxAttempts = 32
	}

	m := matcher.NewMatcher[int32](config)
	m.Reset(src)

	return &GenericBlock{
		src:     src,
		level:   level,
		matcher: m,
	}, nil
}

// CompressToBuffer compresses the block to dst, allocating a worst-case
// buffer when dst is nil or too small.
func (b *GenericBlock) CompressToBuffer(dst []byte) ([]byte, error) {
	inputLen := len(b.src)
	worstCaseSize := inputLen + (inputLen / 255) + 16
	if dst == nil || len(dst) < worstCaseSize {
		dst = make([]byte, worstCaseSize)
	}

	srcPos := 0
	dstPos := 0
	lastLiteral := 0

	for !b.matcher.End() {
		offset, matchLen := b.matcher.FindBestMatch()

		if matchLen < 4 {
			b.matcher.Advance(1)
			srcPos++
			continue
		}

		literalLen := srcPos - lastLiteral
		literalLenCode := min(literalLen, 15)
		matchLenCode := min(int(matchLen)-4, 15)

		dst[dstPos] = byte(literalLenCode<<4 | matchLenCode)
		dstPos++

		if literalLen >= 15 {
			remaining := literalLen - 15
			for remaining >= 255 {
				dst[dstPos] = 255
				dstPos++
				remaining -= 255
			}
			dst[dstPos] = byte(remaining)
			dstPos++
		}

		copy(dst[dstPos:], b.src[lastLiteral:srcPos])
		dstPos += literalLen

		binary.LittleEndian.PutUint16(dst[dstPos:], uint16(offset))
		dstPos += 2

		if int(matchLen)-4 >= 15 {
			remaining := int(matchLen) - 4 - 15
			for remaining >= 255 {
				dst[dstPos] = 255
				dstPos++
				remaining -= 255
			}
			dst[dstPos] = byte(remaining)
			dstPos++
		}

		srcPos += int(matchLen)
		lastLiteral = srcPos
		b.matcher.Advance(matchLen)
	}

	if lastLiteral < inputLen {
		literalLen := inputLen - lastLiteral
		literalLenCode := min(literalLen, 15)
		dst[dstPos] = byte(literalLenCode << 4)
		dstPos++

		if literalLen >= 15 {
			remaining := literalLen - 15
			for remaining >= 255 {
				dst[dstPos] = 255
				dstPos++
				remaining -= 255
			}
			dst[dstPos] = byte(remaining)
			dstPos++
		}

		copy(dst[dstPos:], b.src[lastLiteral:])
		dstPos += literalLen
	}

	return dst[:dstPos], nil
}

// CompressBlockGeneric compresses src with GenericBlock at the default
// compression level.
func CompressBlockGeneric(src []byte, dst []byte) ([]byte, error) {
	return CompressBlockGenericLevel(src, dst, DefaultLevel)
}

// CompressBlockGenericLevel compresses src with GenericBlock at the given
// compression level.
func CompressBlockGenericLevel(src []byte, dst []byte, level CompressionLevel) ([]byte, error) {
	block, err := NewGenericBlock(src, level)
	if err != nil {
		return nil, err
	}
	return block.CompressToBuffer(dst)
}

// NewGenericBlockWithAttempts is like NewGenericBlock, but takes the
// matcher's search depth directly instead of deriving it from level. Callers
// that have an independent signal for how much search the host can afford
// (see simd.SearchDepthHint) use this to widen or narrow the hash chain
// without having to fake a compression level to get there.
func NewGenericBlockWithAttempts(src []byte, level CompressionLevel, maxAttempts int) (*GenericBlock, error) {
	if len(src) < MinBlockSize || len(src) > MaxBlockSize {
		return nil, ErrInvalidBlockSize
	}
	if level < 0 || level > MaxLevel {
		return nil, ErrInvalidCompressionLevel
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	config := matcher.DefaultConfig()
	config.MaxAttempts = maxAttempts

	m := matcher.NewMatcher[int32](config)
	m.Reset(src)

	return &GenericBlock{
		src:     src,
		level:   level,
		matcher: m,
	}, nil
}

// CompressBlockGenericDeep compresses src with GenericBlock using
// maxAttempts as the matcher's search depth instead of the one level implies.
func CompressBlockGenericDeep(src, dst []byte, level CompressionLevel, maxAttempts int) ([]byte, error) {
	block, err := NewGenericBlockWithAttempts(src, level, maxAttempts)
	if err != nil {
		return nil, err
	}
	return block.CompressToBuffer(dst)
}
