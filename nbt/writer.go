package nbt

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
)

// minMarshalBuffer is the floor applied by Marshal when sizing the write
// buffer. The writer never grows its buffer, so the caller-provided estimate
// is padded generously and the result trimmed afterwards.
const minMarshalBuffer = 10 << 20

// Writer serializes an in-memory value tree into a fixed byte buffer. One
// cursor is shared across the whole document so every write appends
// contiguously; the writer is not reentrant.
//
// Multi-byte primitives are little-endian, matching the Bedrock-convention
// on-disk family this converter writes. The Reader's big-endian default is
// the other half of that same asymmetry; the mismatch is a property of the
// formats being bridged, not something to unify.
//
// Unlike the Reader, the writer does not consume a pre-built tag tree: the
// wire kind of every value is inferred from its runtime shape by valueKind.
// The inference covers only the shapes block and command data needs.
type Writer struct {
	buf   []byte
	off   int
	order binary.ByteOrder
}

func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf, order: binary.LittleEndian}
}

func NewWriterOrder(buf []byte, order binary.ByteOrder) *Writer {
	return &Writer{buf: buf, order: order}
}

// Len reports the cursor position: the number of bytes written so far.
func (w *Writer) Len() int { return w.off }

// Bytes returns the written portion of the buffer.
func (w *Writer) Bytes() []byte { return w.buf[:w.off] }

// Marshal serializes root into a freshly allocated buffer of
// max(4×estimate, 10 MiB) bytes, trimmed to the written length. estimate is
// the caller's guess at the JSON-serialized size of the tree.
func Marshal(root map[string]any, estimate int) ([]byte, error) {
	size := 4 * estimate
	if size < minMarshalBuffer {
		size = minMarshalBuffer
	}
	w := NewWriter(make([]byte, size))
	if err := w.WriteRoot(root); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// valueKind classifies a runtime value as a wire kind. Kept separate from
// payload dispatch so the inference rule is testable on its own.
//
// Go integer types and whole-valued float64s map to Int; only float32 and
// fractional float64 map to Float. A float64 carrying 3.0 therefore writes
// as Int 3, mirroring how dynamically typed state values behave upstream.
func valueKind(v any) (Kind, error) {
	switch n := v.(type) {
	case bool:
		return KindByte, nil
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return KindInt, nil
	case float32:
		return KindFloat, nil
	case float64:
		if n == math.Trunc(n) {
			return KindInt, nil
		}
		return KindFloat, nil
	case string:
		return KindString, nil
	case []any:
		return KindList, nil
	case map[string]any:
		return KindCompound, nil
	default:
		return KindEnd, fmt.Errorf("nbt: unsupported value type %T", v)
	}
}

func (w *Writer) room(n int) error {
	if avail := len(w.buf) - w.off; avail < n {
		return &BufferFullError{Offset: w.off, Needed: n, Available: avail}
	}
	return nil
}

func (w *Writer) writeByte(b byte) error {
	if err := w.room(1); err != nil {
		return err
	}
	w.buf[w.off] = b
	w.off++
	return nil
}

func (w *Writer) writeInt16(v int16) error {
	if err := w.room(2); err != nil {
		return err
	}
	w.order.PutUint16(w.buf[w.off:], uint16(v))
	w.off += 2
	return nil
}

func (w *Writer) writeInt32(v int32) error {
	if err := w.room(4); err != nil {
		return err
	}
	w.order.PutUint32(w.buf[w.off:], uint32(v))
	w.off += 4
	return nil
}

func (w *Writer) writeString(s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("nbt: string length %d exceeds the uint16 wire prefix", len(s))
	}
	if err := w.writeInt16(int16(len(s))); err != nil {
		return err
	}
	if err := w.room(len(s)); err != nil {
		return err
	}
	copy(w.buf[w.off:], s)
	w.off += len(s)
	return nil
}

// WriteRoot writes the document: one compound kind byte, an empty name,
// every root key as a named tag, and a terminating End byte. Keys are
// written in sorted order so output is deterministic.
func (w *Writer) WriteRoot(root map[string]any) error {
	if err := w.writeByte(byte(KindCompound)); err != nil {
		return err
	}
	if err := w.writeString(""); err != nil {
		return err
	}
	return w.writeCompoundBody(root)
}

func (w *Writer) writeCompoundBody(m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.writeNamed(k, m[k]); err != nil {
			return err
		}
	}
	return w.writeByte(byte(KindEnd))
}

func (w *Writer) writeNamed(name string, v any) error {
	kind, err := valueKind(v)
	if err != nil {
		return fmt.Errorf("%w whilst serializing %q", err, name)
	}
	if err := w.writeByte(byte(kind)); err != nil {
		return err
	}
	if err := w.writeString(name); err != nil {
		return err
	}
	return w.writePayload(kind, v)
}

func (w *Writer) writePayload(kind Kind, v any) error {
	switch kind {
	case KindByte:
		if v.(bool) {
			return w.writeByte(1)
		}
		return w.writeByte(0)

	case KindInt:
		return w.writeInt32(asInt32(v))

	case KindFloat:
		// The float payload is its IEEE 754 bit pattern reinterpreted as a
		// signed 32-bit integer; for float64 the value is narrowed first.
		var f float32
		switch n := v.(type) {
		case float32:
			f = n
		case float64:
			f = float32(n)
		}
		return w.writeInt32(int32(math.Float32bits(f)))

	case KindString:
		return w.writeString(v.(string))

	case KindList:
		return w.writeList(v.([]any))

	case KindCompound:
		return w.writeCompoundBody(v.(map[string]any))

	default:
		return fmt.Errorf("nbt: no payload writer for %s", kind)
	}
}

// writeList writes the element kind once for the whole list, then each
// element's payload without per-element kind bytes or names. The element
// kind comes from the first element; a later element of a different kind is
// rejected rather than coerced.
func (w *Writer) writeList(elems []any) error {
	if len(elems) == 0 {
		if err := w.writeByte(byte(KindEnd)); err != nil {
			return err
		}
		return w.writeInt32(0)
	}
	elemKind, err := valueKind(elems[0])
	if err != nil {
		return err
	}
	if err := w.writeByte(byte(elemKind)); err != nil {
		return err
	}
	if err := w.writeInt32(int32(len(elems))); err != nil {
		return err
	}
	for i, elem := range elems {
		kind, err := valueKind(elem)
		if err != nil {
			return err
		}
		if kind != elemKind {
			return fmt.Errorf("nbt: mixed kinds in list: element %d is %s, list is %s", i, kind, elemKind)
		}
		if err := w.writePayload(elemKind, elem); err != nil {
			return err
		}
	}
	return nil
}

func asInt32(v any) int32 {
	switch n := v.(type) {
	case int:
		return int32(n)
	case int8:
		return int32(n)
	case int16:
		return int32(n)
	case int32:
		return n
	case int64:
		return int32(n)
	case uint8:
		return int32(n)
	case uint16:
		return int32(n)
	case uint32:
		return int32(n)
	case float64:
		return int32(n)
	}
	return 0
}
