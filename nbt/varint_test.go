package nbt

import (
	"errors"
	"testing"
)

func TestUvarintRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 0x7f, 0x80, 300, 16383, 16384, 1<<21 - 1, 1 << 21, 1<<31 - 1}
	for _, want := range values {
		enc := AppendUvarint(nil, want)
		if len(enc) > maxVarIntBytes {
			t.Fatalf("encoding of %d is %d bytes, max is %d", want, len(enc), maxVarIntBytes)
		}
		got, n, err := Uvarint(enc, 0)
		if err != nil {
			t.Fatalf("Uvarint(%d): %v", want, err)
		}
		if n != len(enc) {
			t.Fatalf("Uvarint(%d) consumed %d of %d bytes", want, n, len(enc))
		}
		if got != want {
			t.Fatalf("round trip: got %d want %d", got, want)
		}
	}
}

func TestUvarintTooLong(t *testing.T) {
	// Continuation bit still set on the fifth byte.
	_, _, err := Uvarint([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, 0)
	if !errors.Is(err, ErrMalformedVarInt) {
		t.Fatalf("got %v, want ErrMalformedVarInt", err)
	}
}

func TestUvarintTruncated(t *testing.T) {
	_, _, err := Uvarint([]byte{0x80, 0x80}, 0)
	if !errors.Is(err, ErrMalformedVarInt) {
		t.Fatalf("got %v, want ErrMalformedVarInt", err)
	}
}

func TestVarIntStream(t *testing.T) {
	var buf []byte
	want := []uint32{0, 5, 127, 128, 90000}
	for _, v := range want {
		buf = AppendUvarint(buf, v)
	}

	s := NewVarIntStream(buf)
	for i, w := range want {
		got, err := s.Next()
		if err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("Next %d: got %d want %d", i, got, w)
		}
	}
	if _, err := s.Next(); !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("got %v, want ErrEndOfStream", err)
	}
	if s.Remaining() != 0 {
		t.Fatalf("Remaining = %d, want 0", s.Remaining())
	}
}

func TestVarIntStreamTruncatedTail(t *testing.T) {
	buf := AppendUvarint(nil, 300)
	buf = append(buf, 0x80) // dangling continuation byte
	s := NewVarIntStream(buf)
	if _, err := s.Next(); err != nil {
		t.Fatalf("first Next: %v", err)
	}
	if _, err := s.Next(); !errors.Is(err, ErrMalformedVarInt) {
		t.Fatalf("got %v, want ErrMalformedVarInt", err)
	}
}
