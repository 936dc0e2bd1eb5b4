package nbt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"slices"
)

// Marshal serializes a tree without compression. Compound keys are written in
// sorted order so the output is deterministic.
func Marshal(t *Tree) ([]byte, error) {
	var buf bytes.Buffer
	w := &writer{buf: &buf}
	w.tagID(TagCompound)
	if err := w.string(t.Name); err != nil {
		return nil, err
	}
	if err := w.compound(t.Root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type writer struct {
	buf *bytes.Buffer
}

func (w *writer) tagID(id TagID) { w.buf.WriteByte(byte(id)) }

func (w *writer) u16(v uint16) { w.buf.Write(binary.BigEndian.AppendUint16(nil, v)) }
func (w *writer) u32(v uint32) { w.buf.Write(binary.BigEndian.AppendUint32(nil, v)) }
func (w *writer) u64(v uint64) { w.buf.Write(binary.BigEndian.AppendUint64(nil, v)) }

func (w *writer) string(s string) error {
	b := encodeMUTF8(s)
	if len(b) > math.MaxUint16 {
		return fmt.Errorf("string of %d bytes exceeds tag limit", len(b))
	}
	w.u16(uint16(len(b)))
	w.buf.Write(b)
	return nil
}

func (w *writer) payload(t Tag) error {
	switch v := t.(type) {
	case Byte:
		w.buf.WriteByte(byte(v))
	case Short:
		w.u16(uint16(v))
	case Int:
		w.u32(uint32(v))
	case Long:
		w.u64(uint64(v))
	case Float:
		w.u32(math.Float32bits(float32(v)))
	case Double:
		w.u64(math.Float64bits(float64(v)))
	case ByteArray:
		w.u32(uint32(len(v)))
		for _, b := range v {
			w.buf.WriteByte(byte(b))
		}
	case String:
		return w.string(string(v))
	case *List:
		return w.list(v)
	case Compound:
		return w.compound(v)
	case IntArray:
		w.u32(uint32(len(v)))
		for _, n := range v {
			w.u32(uint32(n))
		}
	case LongArray:
		w.u32(uint32(len(v)))
		for _, n := range v {
			w.u64(uint64(n))
		}
	default:
		return fmt.Errorf("cannot encode %T", t)
	}
	return nil
}

func (w *writer) list(l *List) error {
	elem := l.Elem
	if len(l.Items) == 0 {
		elem = TagEnd
	}
	w.tagID(elem)
	w.u32(uint32(len(l.Items)))
	for i, item := range l.Items {
		if item.ID() != l.Elem {
			return fmt.Errorf("list element %d is %v, want %v", i, item.ID(), l.Elem)
		}
		if err := w.payload(item); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) compound(c Compound) error {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		t := c[k]
		w.tagID(t.ID())
		if err := w.string(k); err != nil {
			return err
		}
		if err := w.payload(t); err != nil {
			return err
		}
	}
	w.tagID(TagEnd)
	return nil
}
