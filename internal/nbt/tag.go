// Package nbt decodes the compressed, base64-encoded item blobs attached to
// marketplace listings into a tree of typed, named tags.
package nbt

import "fmt"

// TagID identifies the payload type of a tag on the wire.
type TagID byte

// Known tag ids.
const (
	TagEnd TagID = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

var tagNames = [...]string{
	TagEnd:       "End",
	TagByte:      "Byte",
	TagShort:     "Short",
	TagInt:       "Int",
	TagLong:      "Long",
	TagFloat:     "Float",
	TagDouble:    "Double",
	TagByteArray: "ByteArray",
	TagString:    "String",
	TagList:      "List",
	TagCompound:  "Compound",
	TagIntArray:  "IntArray",
	TagLongArray: "LongArray",
}

func (id TagID) String() string {
	if int(id) < len(tagNames) {
		return tagNames[id]
	}
	return fmt.Sprintf("TagID(%d)", byte(id))
}

// Tag is a decoded payload. The concrete types below are the only implementations.
type Tag interface {
	ID() TagID
}

type (
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	ByteArray []int8
	String    string
	IntArray  []int32
	LongArray []int64
)

func (Byte) ID() TagID      { return TagByte }
func (Short) ID() TagID     { return TagShort }
func (Int) ID() TagID       { return TagInt }
func (Long) ID() TagID      { return TagLong }
func (Float) ID() TagID     { return TagFloat }
func (Double) ID() TagID    { return TagDouble }
func (ByteArray) ID() TagID { return TagByteArray }
func (String) ID() TagID    { return TagString }
func (IntArray) ID() TagID  { return TagIntArray }
func (LongArray) ID() TagID { return TagLongArray }

// List is a homogeneous sequence of unnamed tags.
type List struct {
	Elem  TagID
	Items []Tag
}

func (*List) ID() TagID { return TagList }

// Len returns the number of elements.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// Compound maps names to tags.
type Compound map[string]Tag

func (Compound) ID() TagID { return TagCompound }

// Get returns the tag stored under name.
func (c Compound) Get(name string) (Tag, bool) {
	t, ok := c[name]
	return t, ok
}

// Compound returns the nested compound stored under name.
func (c Compound) Compound(name string) (Compound, bool) {
	v, ok := c[name].(Compound)
	return v, ok
}

// List returns the list stored under name.
func (c Compound) List(name string) (*List, bool) {
	v, ok := c[name].(*List)
	return v, ok
}

// String returns the string stored under name.
func (c Compound) String(name string) (string, bool) {
	v, ok := c[name].(String)
	return string(v), ok
}

// Short returns the short stored under name.
func (c Compound) Short(name string) (int16, bool) {
	v, ok := c[name].(Short)
	return int16(v), ok
}

// Byte returns the byte stored under name.
func (c Compound) Byte(name string) (int8, bool) {
	v, ok := c[name].(Byte)
	return int8(v), ok
}

// Int returns the integer stored under name. Narrower integer tags are
// widened, since producers are not consistent about the width they use.
func (c Compound) Int(name string) (int32, bool) {
	switch v := c[name].(type) {
	case Int:
		return int32(v), true
	case Short:
		return int32(v), true
	case Byte:
		return int32(v), true
	}
	return 0, false
}

// Tree is a decoded root compound together with the root's name.
type Tree struct {
	Name string
	Root Compound
}
