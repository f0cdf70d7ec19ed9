package decode

import (
	"bytes"
	"math/rand"
	"testing"
)

// runChunked feeds encoded through a StreamDecoder inChunk bytes of input
// and outChunk bytes of output buffer at a time, returning the fully
// decoded output. A chunk size of 0 means "all at once".
func runChunked(t *testing.T, dec StreamDecoder, encoded []byte, inChunk, outChunk int) []byte {
	t.Helper()

	if inChunk <= 0 {
		inChunk = len(encoded) + 1
	}
	if outChunk <= 0 {
		outChunk = 1 << 20
	}

	var result []byte
	remaining := encoded
	out := make([]byte, outChunk)

	for {
		var feed []byte
		if len(remaining) > 0 {
			n := inChunk
			if n > len(remaining) {
				n = len(remaining)
			}
			feed = remaining[:n]
			remaining = remaining[n:]
		}

		setIn(dec, feed)
		setOut(dec, out)

		if err := dec.Run(); err != nil {
			t.Fatalf("Run: %v", err)
		}

		produced := outChunk - len(getOut(dec))
		result = append(result, out[:produced]...)

		leftover := getIn(dec)
		remaining = append(append([]byte{}, leftover...), remaining...)

		if len(remaining) == 0 && produced == 0 {
			break
		}
	}

	return result
}

// The test helpers below reach into the two concrete decoder types since
// StreamDecoder intentionally exposes no field access — Run mutates In/Out
// directly on whichever concrete type the caller holds.

func setIn(dec StreamDecoder, b []byte) {
	switch d := dec.(type) {
	case *Decoder:
		d.In = b
	case *UncachedDecoder:
		d.In = b
	}
}

func setOut(dec StreamDecoder, b []byte) {
	switch d := dec.(type) {
	case *Decoder:
		d.Out = b
	case *UncachedDecoder:
		d.Out = b
	}
}

func getIn(dec StreamDecoder) []byte {
	switch d := dec.(type) {
	case *Decoder:
		return d.In
	case *UncachedDecoder:
		return d.In
	}
	return nil
}

func getOut(dec StreamDecoder) []byte {
	switch d := dec.(type) {
	case *Decoder:
		return d.Out
	case *UncachedDecoder:
		return d.Out
	}
	return nil
}

func variants() []struct {
	name string
	new  func() StreamDecoder
} {
	return []struct {
		name string
		new  func() StreamDecoder
	}{
		{"baseline", func() StreamDecoder { return NewDecoder() }},
		{"uncached", func() StreamDecoder { return NewUncachedDecoder() }},
	}
}

func TestScenarios(t *testing.T) {
	hello := []byte("Hello")
	s2 := append([]byte{0x50}, hello...)

	s3 := []byte{0x14, 0x41, 0x01, 0x00}
	s3Want := bytes.Repeat([]byte{0x41}, 9)

	s4 := append([]byte{0xF0, 0xFF, 0xFF, 0x02}, bytes.Repeat([]byte{0x00}, 527)...)

	cases := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"S1_empty", nil, nil},
		{"S2_short_literal", s2, hello},
		{"S3_literal_and_short_match", s3, s3Want},
		{"S4_extended_literal", s4, bytes.Repeat([]byte{0x00}, 527)},
	}

	for _, v := range variants() {
		for _, tc := range cases {
			t.Run(v.name+"/"+tc.name, func(t *testing.T) {
				dec := v.new()
				got := runChunked(t, dec, tc.in, 0, 0)
				if !bytes.Equal(got, tc.want) {
					t.Fatalf("got %x, want %x", got, tc.want)
				}
				if !dec.AtCleanBoundary() {
					t.Fatalf("decoder not at a clean boundary after a well-formed stream")
				}
			})
		}
	}
}

func TestZeroDistanceErrorLatches(t *testing.T) {
	encoded := []byte{0x14, 0x41, 0x00, 0x00}

	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			dec := v.new()
			out := make([]byte, 16)

			setIn(dec, encoded)
			setOut(dec, out)
			err := dec.Run()
			if err != ErrCorrupt {
				t.Fatalf("first Run() = %v, want ErrCorrupt", err)
			}

			setIn(dec, []byte{0x00})
			setOut(dec, out)
			err = dec.Run()
			if err != ErrCorrupt {
				t.Fatalf("second Run() = %v, want ErrCorrupt (error must latch)", err)
			}
		})
	}
}

func TestCrossCallHistory(t *testing.T) {
	// S6: S3's 9 decoded bytes fed back as a fresh literal run, decoded
	// through 1-byte input chunks and a 1-byte output buffer.
	payload := bytes.Repeat([]byte{0x41}, 9)
	encoded := append([]byte{0x90}, payload...) // token: L=9, M=0

	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			dec := v.new()
			got := runChunked(t, dec, encoded, 1, 1)
			if !bytes.Equal(got, payload) {
				t.Fatalf("got %x, want %x", got, payload)
			}
		})
	}
}

func TestChunkingInvarianceAcrossSizes(t *testing.T) {
	payload := bytes.Repeat([]byte{0x41}, 9)
	encoded := append([]byte{0x90}, payload...)

	chunkSizes := []int{0, 1, 2, 3, 7}
	for _, v := range variants() {
		for _, cs := range chunkSizes {
			t.Run(v.name, func(t *testing.T) {
				dec := v.new()
				got := runChunked(t, dec, encoded, cs, cs)
				if !bytes.Equal(got, payload) {
					t.Fatalf("chunk size %d: got %x, want %x", cs, got, payload)
				}
			})
		}
	}
}

func TestVariantAgreementOnRandomBlocks(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 20; trial++ {
		literal := make([]byte, 1+rng.Intn(40))
		rng.Read(literal)

		// Sequence: literal run, then a short RLE match (distance 1,
		// length 8) so both variants exercise their match-copy path.
		tok := byte((min(len(literal), 14) << 4) | 4)
		encoded := []byte{tok}
		if len(literal) >= 15 {
			tok = byte(15<<4 | 4)
			encoded = []byte{tok}
			ext := len(literal) - 15
			for ext >= 255 {
				encoded = append(encoded, 255)
				ext -= 255
			}
			encoded = append(encoded, byte(ext))
		}
		encoded = append(encoded, literal...)
		encoded = append(encoded, 0x01, 0x00) // distance = 1

		var results [][]byte
		for _, v := range variants() {
			dec := v.new()
			got := runChunked(t, dec, encoded, 3, 5)
			results = append(results, got)
		}

		if !bytes.Equal(results[0], results[1]) {
			t.Fatalf("trial %d: baseline and uncached disagree: %x vs %x", trial, results[0], results[1])
		}
	}
}

func TestStreamDecoderInterfaceSatisfied(t *testing.T) {
	var _ StreamDecoder = (*Decoder)(nil)
	var _ StreamDecoder = (*UncachedDecoder)(nil)
}

// TestRingInvariantBaseline forces every output byte through its own Run
// call (a 1-byte output buffer), which means the in-call output region is
// always empty by the time COPY_MAT runs. The baseline variant therefore
// has no choice but to source the match entirely from the ring resynced
// after the previous call — this is Branch A of §4.3 on every byte.
func TestRingInvariantBaseline(t *testing.T) {
	encoded := []byte{0x14, 0x42, 0x01, 0x00} // L=1 literal 0x42, D=1, match len 8
	want := bytes.Repeat([]byte{0x42}, 9)

	dec := NewDecoder()
	got := runChunked(t, dec, encoded, 1, 1)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

// TestCursorAccounting checks property 4: after a partial Run, In and Out
// have been re-sliced by exactly the number of bytes consumed/produced,
// never more, never less.
func TestCursorAccounting(t *testing.T) {
	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			dec := v.new()
			encoded := []byte{0x50, 'H', 'e', 'l', 'l', 'o'}
			out := make([]byte, 3) // smaller than the 5-byte literal run

			setIn(dec, encoded)
			setOut(dec, out)
			if err := dec.Run(); err != nil {
				t.Fatalf("Run: %v", err)
			}

			in := getIn(dec)
			if string(in) != "lo" {
				t.Fatalf("In = %q, want %q (token and 3 written literal bytes consumed)", in, "lo")
			}

			remainingOut := getOut(dec)
			if len(remainingOut) != 0 {
				t.Fatalf("Out not fully consumed: %d bytes left", len(remainingOut))
			}
			if !bytes.Equal(out, []byte("Hel")) {
				t.Fatalf("out = %q, want %q", out, "Hel")
			}
		})
	}
}

func TestInitClearsLatchedError(t *testing.T) {
	encoded := []byte{0x14, 0x41, 0x00, 0x00}

	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			dec := v.new()
			out := make([]byte, 16)
			setIn(dec, encoded)
			setOut(dec, out)
			if err := dec.Run(); err != ErrCorrupt {
				t.Fatalf("Run() = %v, want ErrCorrupt", err)
			}

			dec.Init()
			if !dec.AtCleanBoundary() {
				t.Fatalf("decoder not at a clean boundary after Init")
			}

			setIn(dec, []byte{0x50, 'h', 'i', '!', '!', '!'})
			setOut(dec, out)
			if err := dec.Run(); err != nil {
				t.Fatalf("Run() after Init = %v, want nil", err)
			}
		})
	}
}
