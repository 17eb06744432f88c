package nbt

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Reader parses a byte buffer into a tag tree. A single mutable cursor is
// advanced by every primitive read; the reader is not safe for concurrent
// use and a fresh Reader is required per parse.
//
// Multi-byte primitives are big-endian, matching the Java-convention
// on-disk family this converter reads. This deliberately differs from the
// Writer's little-endian default.
type Reader struct {
	buf   []byte
	off   int
	order binary.ByteOrder
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf, order: binary.BigEndian}
}

// NewReaderOrder is for callers (chiefly tests) that need to parse the
// writer's little-endian output with the same tag layout.
func NewReaderOrder(buf []byte, order binary.ByteOrder) *Reader {
	return &Reader{buf: buf, order: order}
}

// Offset reports the cursor position, in bytes from the start of the buffer.
func (r *Reader) Offset() int { return r.off }

// Remaining reports how many unread bytes follow the cursor.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) need(n int) error {
	if avail := len(r.buf) - r.off; avail < n {
		return &UnexpectedEOBError{Offset: r.off, Needed: n, Available: avail}
	}
	return nil
}

func (r *Reader) readByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

func (r *Reader) readInt16() (int16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := int16(r.order.Uint16(r.buf[r.off:]))
	r.off += 2
	return v, nil
}

func (r *Reader) readInt32() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := int32(r.order.Uint32(r.buf[r.off:]))
	r.off += 4
	return v, nil
}

func (r *Reader) readInt64() (int64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := int64(r.order.Uint64(r.buf[r.off:]))
	r.off += 8
	return v, nil
}

func (r *Reader) readFloat32() (float32, error) {
	bits, err := r.readInt32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(bits)), nil
}

func (r *Reader) readFloat64() (float64, error) {
	bits, err := r.readInt64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(bits)), nil
}

// readString reads a uint16 length prefix and that many UTF-8 bytes. A zero
// length short-circuits without a payload read.
func (r *Reader) readString() (string, error) {
	n, err := r.readInt16()
	if err != nil {
		return "", err
	}
	length := int(uint16(n))
	if length == 0 {
		return "", nil
	}
	if err := r.need(length); err != nil {
		return "", err
	}
	s := string(r.buf[r.off : r.off+length])
	r.off += length
	return s, nil
}

// ReadRoot parses the document's root tag, which must be a compound. The
// root's name is read and discarded.
func (r *Reader) ReadRoot() (*Compound, error) {
	kind, _, payload, err := r.ReadNamedTag()
	if err != nil {
		return nil, err
	}
	if kind != KindCompound {
		return nil, &InvalidRootTagError{Kind: kind}
	}
	c := payload.(Compound)
	return &c, nil
}

// ReadNamedTag reads one (kind, name, payload) triple. An End tag carries
// neither name nor payload and returns (KindEnd, "", nil, nil).
func (r *Reader) ReadNamedTag() (Kind, string, Tag, error) {
	kb, err := r.readByte()
	if err != nil {
		return 0, "", nil, err
	}
	kind := Kind(kb)
	if kind == KindEnd {
		return KindEnd, "", nil, nil
	}
	name, err := r.readString()
	if err != nil {
		return kind, "", nil, err
	}
	payload, err := r.readPayload(kind)
	if err != nil {
		return kind, name, nil, err
	}
	return kind, name, payload, nil
}

func (r *Reader) readPayload(kind Kind) (Tag, error) {
	switch kind {
	case KindByte:
		b, err := r.readByte()
		if err != nil {
			return nil, err
		}
		return Byte{Value: int8(b)}, nil

	case KindShort:
		v, err := r.readInt16()
		if err != nil {
			return nil, err
		}
		return Short{Value: v}, nil

	case KindInt:
		v, err := r.readInt32()
		if err != nil {
			return nil, err
		}
		return Int{Value: v}, nil

	case KindLong:
		v, err := r.readInt64()
		if err != nil {
			return nil, err
		}
		return Long{Value: v}, nil

	case KindFloat:
		v, err := r.readFloat32()
		if err != nil {
			return nil, err
		}
		return Float{Value: v}, nil

	case KindDouble:
		v, err := r.readFloat64()
		if err != nil {
			return nil, err
		}
		return Double{Value: v}, nil

	case KindString:
		s, err := r.readString()
		if err != nil {
			return nil, err
		}
		return String{Value: s}, nil

	case KindByteArray:
		count, err := r.readCount()
		if err != nil {
			return nil, err
		}
		if err := r.need(count); err != nil {
			return nil, err
		}
		out := make([]byte, count)
		copy(out, r.buf[r.off:r.off+count])
		r.off += count
		return ByteArray{Value: out}, nil

	case KindIntArray:
		count, err := r.readCount()
		if err != nil {
			return nil, err
		}
		out := make([]int32, count)
		for i := range out {
			if out[i], err = r.readInt32(); err != nil {
				return nil, err
			}
		}
		return IntArray{Value: out}, nil

	case KindLongArray:
		count, err := r.readCount()
		if err != nil {
			return nil, err
		}
		out := make([]int64, count)
		for i := range out {
			if out[i], err = r.readInt64(); err != nil {
				return nil, err
			}
		}
		return LongArray{Value: out}, nil

	case KindList:
		eb, err := r.readByte()
		if err != nil {
			return nil, err
		}
		elemKind := Kind(eb)
		count, err := r.readCount()
		if err != nil {
			return nil, err
		}
		elems := make([]Tag, 0, count)
		for i := 0; i < count; i++ {
			elem, err := r.readPayload(elemKind)
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}
		return List{ElementKind: elemKind, Elements: elems}, nil

	case KindCompound:
		tags := make(map[string]Tag)
		for {
			kind, name, payload, err := r.ReadNamedTag()
			if err != nil {
				return nil, err
			}
			if kind == KindEnd {
				break
			}
			tags[name] = payload
		}
		return Compound{Tags: tags}, nil

	default:
		return nil, fmt.Errorf("nbt: unknown tag kind %s at offset %d", kind, r.off-1)
	}
}

// readCount reads an int32 length prefix and rejects negative values.
func (r *Reader) readCount() (int, error) {
	at := r.off
	n, err := r.readInt32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &MalformedLengthError{Offset: at, Length: n}
	}
	return int(n), nil
}
