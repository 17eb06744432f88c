package nbt

import (
	"errors"
	"fmt"
)

var ErrMalformedVarInt = errors.New("nbt: malformed varint")
var ErrEndOfStream = errors.New("nbt: end of varint stream")

// UnexpectedEOBError reports a read that would run past the end of the
// buffer. Always fatal to the current parse.
type UnexpectedEOBError struct {
	Offset    int
	Needed    int
	Available int
}

func (e *UnexpectedEOBError) Error() string {
	return fmt.Sprintf("nbt: unexpected end of buffer at offset %d: need %d bytes, have %d",
		e.Offset, e.Needed, e.Available)
}

// InvalidRootTagError reports a document whose root tag is not a compound.
type InvalidRootTagError struct {
	Kind Kind
}

func (e *InvalidRootTagError) Error() string {
	return fmt.Sprintf("nbt: root tag must be %s, got %s", KindCompound, e.Kind)
}

// MalformedLengthError reports a negative length prefix on a list, array or
// counted payload.
type MalformedLengthError struct {
	Offset int
	Length int32
}

func (e *MalformedLengthError) Error() string {
	return fmt.Sprintf("nbt: negative length %d at offset %d", e.Length, e.Offset)
}

// BufferFullError reports a write that would run past the writer's fixed
// buffer. The caller sized the buffer; the writer never grows it.
type BufferFullError struct {
	Offset    int
	Needed    int
	Available int
}

func (e *BufferFullError) Error() string {
	return fmt.Sprintf("nbt: write buffer full at offset %d: need %d bytes, have %d",
		e.Offset, e.Needed, e.Available)
}
