// Package nbt implements the binary tag-tree serialization used by the
// converter: a reader for the big-endian (Java-convention) wire layout and a
// writer for the little-endian (Bedrock-convention) layout. The two halves
// intentionally default to different byte orders; see the reader and writer
// docs.
//
// reference : http://minecraft.gamepedia.com/NBT_format
package nbt

import "fmt"

// Kind is the wire type of a single tag.
type Kind byte

const (
	KindEnd       Kind = iota //  0 : no payload, no name
	KindByte                  //  1 : signed  8-bit integer
	KindShort                 //  2 : signed 16-bit integer
	KindInt                   //  3 : signed 32-bit integer
	KindLong                  //  4 : signed 64-bit integer
	KindFloat                 //  5 : IEEE 754 32-bit floating point
	KindDouble                //  6 : IEEE 754 64-bit floating point
	KindByteArray             //  7 : int32 count, then count bytes
	KindString                //  8 : uint16 length, then UTF-8 bytes
	KindList                  //  9 : element kind byte, int32 count, unnamed payloads
	KindCompound              // 10 : named tags until KindEnd
	KindIntArray              // 11 : int32 count, then count int32
	KindLongArray             // 12 : int32 count, then count int64
)

var kindNames = map[Kind]string{
	KindEnd:       "TAG_End",
	KindByte:      "TAG_Byte",
	KindShort:     "TAG_Short",
	KindInt:       "TAG_Int",
	KindLong:      "TAG_Long",
	KindFloat:     "TAG_Float",
	KindDouble:    "TAG_Double",
	KindByteArray: "TAG_Byte_Array",
	KindString:    "TAG_String",
	KindList:      "TAG_List",
	KindCompound:  "TAG_Compound",
	KindIntArray:  "TAG_Int_Array",
	KindLongArray: "TAG_Long_Array",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return fmt.Sprintf("%s (0x%02x)", name, byte(k))
	}
	return fmt.Sprintf("Unknown (0x%02x)", byte(k))
}

// Tag is one node of the parsed tree. Each wire kind has exactly one concrete
// type carrying exactly the payload that kind requires; consumers dispatch
// with a type switch.
type Tag interface {
	Kind() Kind
}

type Byte struct{ Value int8 }

type Short struct{ Value int16 }

type Int struct{ Value int32 }

type Long struct{ Value int64 }

type Float struct{ Value float32 }

type Double struct{ Value float64 }

type ByteArray struct{ Value []byte }

type String struct{ Value string }

// List holds same-kind payloads. An empty list has ElementKind KindEnd.
type List struct {
	ElementKind Kind
	Elements    []Tag
}

// Compound holds named child tags. Key order is not preserved on read; the
// wire form stops at a terminating End tag.
type Compound struct{ Tags map[string]Tag }

type IntArray struct{ Value []int32 }

type LongArray struct{ Value []int64 }

func (Byte) Kind() Kind      { return KindByte }
func (Short) Kind() Kind     { return KindShort }
func (Int) Kind() Kind       { return KindInt }
func (Long) Kind() Kind      { return KindLong }
func (Float) Kind() Kind     { return KindFloat }
func (Double) Kind() Kind    { return KindDouble }
func (ByteArray) Kind() Kind { return KindByteArray }
func (String) Kind() Kind    { return KindString }
func (List) Kind() Kind      { return KindList }
func (Compound) Kind() Kind  { return KindCompound }
func (IntArray) Kind() Kind  { return KindIntArray }
func (LongArray) Kind() Kind { return KindLongArray }
