package compress

// Tests for the LZ4X-matcher encoder (CompressBlockV2/CompressBlockV2Level).
// verify.EncodeV2/RoundTripV2 exercise the same encoder against the decode
// package from outside this package; these tests stay package-local since
// they also cover NewV2Block/CompressToBuffer, which have no exported
// equivalent in verify's scope.

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"
)

func TestCompressBlockV2(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantErr bool
	}{
		{
			name:    "Empty input",
			input:   []byte{},
			wantErr: true,
		},
		{
			name:    "Small input",
			input:   []byte("Hello, world!"), // 13 bytes, under MinBlockSize
			wantErr: true,
		},
		{
			name:    "Medium input",
			input:   bytes.Repeat([]byte("GoZ4X is a fast pure-Go LZ4 compression library! "), 20),
			wantErr: false,
		},
		{
			name:    "Larger input",
			input:   genRandomData(100 * 1024), // 100KB
			wantErr: false,
		},
		{
			name:    "Repeated pattern",
			input:   bytes.Repeat([]byte("ABCD"), 1000),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Test with v0.2 compression
			compressed, err := CompressBlockV2(tt.input, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("CompressBlockV2() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				return
			}

			// Verify compression worked
			if len(compressed) == 0 {
				t.Error("CompressBlockV2() returned empty compressed data")
			}

			// Verify decompression works
			decompressed, err := DecompressBlock(compressed, nil, len(tt.input))
			if err != nil {
				t.Errorf("DecompressBlock() error = %v", err)
				return
			}

			// Verify data integrity
			if !bytes.Equal(decompressed, tt.input) {
				t.Error("Decompressed data does not match original input")
			}

			// Only test a few compression levels to speed up the test
			for _, level := range []int{1, 6, 9} {
				compressed, err := CompressBlockV2Level(tt.input, nil, CompressionLevel(level))
				if err != nil {
					t.Errorf("CompressBlockV2Level(level=%d) error = %v", level, err)
					continue
				}

				// Verify compression at this level worked
				if len(compressed) == 0 {
					t.Errorf("CompressBlockV2Level(level=%d) returned empty compressed data", level)
					continue
				}

				// Verify decompression works for this level
				decompressed, err := DecompressBlock(compressed, nil, len(tt.input))
				if err != nil {
					t.Errorf("DecompressBlock() for level %d error = %v", level, err)
					continue
				}

				// Verify data integrity at this level
				if !bytes.Equal(decompressed, tt.input) {
					t.Errorf("Decompressed data for level %d does not match original input", level)
				}
			}
		})
	}
}

func TestCompressBlockV2VsV1(t *testing.T) {
	// Generate test cases
	testCases := []struct {
		name string
		data []byte
	}{
		{
			name: "Simple pattern",
			data: bytes.Repeat([]byte("ABCDABCDABCDABCD"), 100),
		},
		{
			name: "Text data",
			data: []byte("GoZ4X is a fast pure-Go LZ4 compression library! It provides both streaming and block APIs for LZ4 compression and decompression. This is a test of the text compression capabilities."),
		},
		{
			name: "Binary with repetition",
			data: genDataWithRepetition(50000),
		},
		{
			name: "Random data",
			data: genRandomData(50000),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := tc.data

			// Compare v1 and v2 compression
			v1Compressed, err := CompressBlock(input, nil)
			if err != nil {
				t.Errorf("CompressBlock() error = %v", err)
				return
			}

			v2Compressed, err := CompressBlockV2(input, nil)
			if err != nil {
				t.Errorf("CompressBlockV2() error = %v", err)
				return
			}

			// Measure compression ratios
			v1Ratio := float64(len(input)) / float64(len(v1Compressed))
			v2Ratio := float64(len(input)) / float64(len(v2Compressed))

			// Log the results
			t.Logf("Input size: %d bytes", len(input))
			t.Logf("V1 compressed size: %d bytes (ratio: %.2fx)", len(v1Compressed), v1Ratio)
			t.Logf("V2 compressed size: %d bytes (ratio: %.2fx)", len(v2Compressed), v2Ratio)

			// Skip the assertion that V2 must be better - different algorithms have different tradeoffs
			// One may be better for some patterns while worse for others

			// Check that both decompress correctly
			v1Decompressed, err := DecompressBlock(v1Compressed, nil, len(input))
			if err != nil {
				t.Errorf("DecompressBlock() error for v1 = %v", err)
				return
			}

			v2Decompressed, err := DecompressBlock(v2Compressed, nil, len(input))
			if err != nil {
				t.Errorf("DecompressBlock() error for v2 = %v", err)
				return
			}

			// Verify data integrity for both
			if !bytes.Equal(v1Decompressed, input) {
				t.Errorf("V1 decompressed data does not match original input")
			}

			if !bytes.Equal(v2Decompressed, input) {
				t.Errorf("V2 decompressed data does not match original input")
			}
		})
	}
}

// genRandomData creates random data of the specified size
func genRandomData(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(rand.Intn(256))
	}
	return data
}

// genDataWithRepetition creates data with some repetitive patterns
func genDataWithRepetition(size int) []byte {
	data := make([]byte, size)

	// Generate base pattern
	pattern := make([]byte, 100)
	for i := range pattern {
		pattern[i] = byte(rand.Intn(256))
	}

	// Fill with pattern and variations
	for i := 0; i < size; {
		// Decide whether to use exact pattern or a variation
		if rand.Intn(10) < 7 {
			// Use exact pattern
			patternLen := min(len(pattern), size-i)
			copy(data[i:], pattern[:patternLen])
			i += patternLen
		} else {
			// Use variation
			variation := byte(rand.Intn(5))
			patternLen := min(len(pattern), size-i)
			for j := 0; j < patternLen; j++ {
				data[i+j] = pattern[j] + variation
			}
			i += patternLen
		}
	}

	return data
}

// genRepeatingPattern creates a pattern that will test the v0.2 pattern acceleration feature
func genRepeatingPattern(size int) []byte {
	data := make([]byte, 0, size)

	// Create a pattern that repeats in a way that v0.2 can detect better
	basePattern := []byte("ABCDEFABCDEFABCDEF")

	// Fill data with variations of the pattern
	for len(data) < size {
		// Add some single-byte repetitions
		if len(data)%512 == 0 && len(data)+100 < size {
			repeatedChar := byte('A' + (len(data) % 26))
			for i := 0; i < 100 && len(data) < size; i++ {
				data = append(data, repeatedChar)
			}
		}

		// Add pattern of varying lengths
		patternSize := 4 + (len(data) % 8)
		if len(data)+patternSize <= size {
			start := len(data) % len(basePattern)
			end := min(start+patternSize, len(basePattern))
			pattern := basePattern[start:end]

			// Repeat this pattern a few times
			repeats := 10 + (len(data) % 20)
			for i := 0; i < repeats && len(data)+len(pattern) <= size; i++ {
				data = append(data, pattern...)
			}
		}

		// Add some regular data
		if len(data)%256 == 0 && len(data)+20 < size {
			for i := 0; i < 20 && len(data) < size; i++ {
				data = append(data, byte(len(data)%256))
			}
		}
	}

	return data[:size]
}

// TestDecompressBlockV2 specifically tests the V2 decompression function
func TestDecompressBlockV2(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantErr bool
	}{
		{
			name:    "Medium data",
			input:   bytes.Repeat([]byte("GoZ4X is a fast pure-Go LZ4 compression library! "), 20),
			wantErr: false,
		},
		{
			name:    "Repeated pattern",
			input:   bytes.Repeat([]byte("ABCD"), 1000),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Compress with V2
			compressed, err := CompressBlockV2(tt.input, nil)
			if err != nil {
				t.Fatalf("CompressBlockV2() error = %v", err)
			}

			// Decompress with V2
			decompressed, err := DecompressBlockV2(compressed, nil, len(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("DecompressBlockV2() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			// Check result
			if !bytes.Equal(decompressed, tt.input) {
				t.Errorf("DecompressBlockV2() got = %v, want %v", len(decompressed), len(tt.input))
			}
		})
	}
}

// TestV2BlockEdgeCases tests edge cases in the V2Block implementation
func TestV2BlockEdgeCases(t *testing.T) {
	// Test invalid block size
	t.Run("Small block size", func(t *testing.T) {
		_, err := NewV2Block([]byte("abc"), DefaultLevel, BlockOptions{})
		if err == nil {
			t.Error("Expected error for small block size, got nil")
		}
	})

	t.Run("Large block size", func(t *testing.T) {
		largeData := make([]byte, MaxBlockSize+1)
		_, err := NewV2Block(largeData, DefaultLevel, BlockOptions{})
		if err == nil {
			t.Error("Expected error for large block size, got nil")
		}
	})

	t.Run("Invalid compression level", func(t *testing.T) {
		data := make([]byte, 1024)
		_, err := NewV2Block(data, 99, BlockOptions{})
		if err == nil {
			t.Error("Expected error for invalid compression level, got nil")
		}
	})

	t.Run("All compression levels", func(t *testing.T) {
		data := bytes.Repeat([]byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ"), 50)

		for level := CompressionLevel(1); level <= MaxLevel; level++ {
			block, err := NewV2Block(data, level, BlockOptions{})
			if err != nil {
				t.Errorf("NewV2Block failed at level %d: %v", level, err)
				continue
			}

			compressed, err := block.CompressToBuffer(nil)
			if err != nil {
				t.Errorf("CompressToBuffer failed at level %d: %v", level, err)
				continue
			}

			decompressed, err := DecompressBlock(compressed, nil, len(data))
			if err != nil {
				t.Errorf("DecompressBlock failed at level %d: %v", level, err)
				continue
			}

			if !bytes.Equal(decompressed, data) {
				t.Errorf("Data mismatch at level %d", level)
			}
		}
	})
}

// Test minimum used function defined in improved_block.go
func TestMin(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{5, 10, 5},
		{10, 5, 5},
		{0, 5, 0},
		{-5, 5, -5},
		{5, -5, -5},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("min(%d,%d)", tt.a, tt.b), func(t *testing.T) {
			got := min(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("min(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
