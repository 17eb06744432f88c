package nbt

// Variable-length unsigned integer encoding: 7 payload bits per byte, high
// bit set on every byte except the last. Five bytes bound a 32-bit payload;
// a fifth continuation byte is malformed, as is a stream that ends
// mid-sequence.
const maxVarIntBytes = 5

// AppendUvarint appends the encoding of v to dst and returns the extended
// slice. Encoding never emits more than five bytes.
func AppendUvarint(dst []byte, v uint32) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// Uvarint decodes one varint starting at off, returning the value and the
// number of bytes consumed.
func Uvarint(buf []byte, off int) (uint32, int, error) {
	var v uint32
	var shift uint
	for i := 0; ; i++ {
		if i == maxVarIntBytes {
			return 0, 0, ErrMalformedVarInt
		}
		if off+i >= len(buf) {
			return 0, 0, ErrMalformedVarInt
		}
		b := buf[off+i]
		v |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
		shift += 7
	}
}

// VarIntStream is a pull cursor over a varint-encoded byte slice: one Next
// call decodes one integer and advances the shared position. The stream is
// finite and not restartable; a fresh cursor is required per decode pass.
type VarIntStream struct {
	buf []byte
	off int
}

func NewVarIntStream(buf []byte) *VarIntStream {
	return &VarIntStream{buf: buf}
}

// Next decodes the next integer. It returns ErrEndOfStream once the cursor
// sits exactly at the end of the buffer, and ErrMalformedVarInt if the
// buffer ends mid-sequence or a fifth continuation byte appears.
func (s *VarIntStream) Next() (uint32, error) {
	if s.off >= len(s.buf) {
		return 0, ErrEndOfStream
	}
	v, n, err := Uvarint(s.buf, s.off)
	if err != nil {
		return 0, err
	}
	s.off += n
	return v, nil
}

// Remaining reports how many undecoded bytes follow the cursor.
func (s *VarIntStream) Remaining() int { return len(s.buf) - s.off }
