package nbt

import (
	"encoding/binary"
	"math"
)

// maxDepth bounds compound/list nesting so hostile input cannot exhaust the stack.
const maxDepth = 512

type reader struct {
	buf []byte
	off int
}

// Parse decodes an uncompressed tree. The root must be a compound.
func Parse(data []byte) (*Tree, error) {
	r := &reader{buf: data}

	id, err := r.tagID()
	if err != nil {
		return nil, err
	}
	if id != TagCompound {
		return nil, malformed("root tag is %v, want Compound", id)
	}
	name, err := r.string()
	if err != nil {
		return nil, err
	}
	root, err := r.compound(0)
	if err != nil {
		return nil, err
	}
	return &Tree{Name: name, Root: root}, nil
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || n > len(r.buf)-r.off {
		return nil, malformed("need %d bytes at offset %d, have %d", n, r.off, len(r.buf)-r.off)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) tagID() (TagID, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	id := TagID(b[0])
	if id > TagLongArray {
		return 0, malformed("unknown tag id %d at offset %d", b[0], r.off-1)
	}
	return id, nil
}

func (r *reader) u16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *reader) string() (string, error) {
	n, err := r.u16()
	if err != nil {
		return "", err
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return decodeMUTF8(b), nil
}

// length reads a signed 32-bit element count and checks that at least
// count*width bytes remain.
func (r *reader) length(width int) (int, error) {
	v, err := r.u32()
	if err != nil {
		return 0, err
	}
	n := int(int32(v))
	if n < 0 {
		return 0, malformed("negative length %d at offset %d", n, r.off-4)
	}
	if width > 0 && n > (len(r.buf)-r.off)/width {
		return 0, malformed("length %d exceeds remaining %d bytes", n, len(r.buf)-r.off)
	}
	return n, nil
}

func (r *reader) payload(id TagID, depth int) (Tag, error) {
	switch id {
	case TagByte:
		b, err := r.take(1)
		if err != nil {
			return nil, err
		}
		return Byte(int8(b[0])), nil
	case TagShort:
		v, err := r.u16()
		return Short(int16(v)), err
	case TagInt:
		v, err := r.u32()
		return Int(int32(v)), err
	case TagLong:
		v, err := r.u64()
		return Long(int64(v)), err
	case TagFloat:
		v, err := r.u32()
		return Float(math.Float32frombits(v)), err
	case TagDouble:
		v, err := r.u64()
		return Double(math.Float64frombits(v)), err
	case TagByteArray:
		n, err := r.length(1)
		if err != nil {
			return nil, err
		}
		b, _ := r.take(n)
		out := make(ByteArray, n)
		for i, c := range b {
			out[i] = int8(c)
		}
		return out, nil
	case TagString:
		s, err := r.string()
		return String(s), err
	case TagList:
		return r.list(depth + 1)
	case TagCompound:
		return r.compound(depth + 1)
	case TagIntArray:
		n, err := r.length(4)
		if err != nil {
			return nil, err
		}
		out := make(IntArray, n)
		for i := range out {
			v, _ := r.u32()
			out[i] = int32(v)
		}
		return out, nil
	case TagLongArray:
		n, err := r.length(8)
		if err != nil {
			return nil, err
		}
		out := make(LongArray, n)
		for i := range out {
			v, _ := r.u64()
			out[i] = int64(v)
		}
		return out, nil
	}
	return nil, malformed("unexpected %v payload", id)
}

func (r *reader) list(depth int) (*List, error) {
	if depth > maxDepth {
		return nil, malformed("nesting deeper than %d", maxDepth)
	}
	elem, err := r.tagID()
	if err != nil {
		return nil, err
	}
	n, err := r.length(0)
	if err != nil {
		return nil, err
	}
	if elem == TagEnd && n > 0 {
		return nil, malformed("list of End with %d elements", n)
	}
	// every element occupies at least one byte
	if n > len(r.buf)-r.off {
		return nil, malformed("list length %d exceeds remaining %d bytes", n, len(r.buf)-r.off)
	}
	l := &List{Elem: elem, Items: make([]Tag, 0, n)}
	for i := 0; i < n; i++ {
		t, err := r.payload(elem, depth)
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, t)
	}
	return l, nil
}

func (r *reader) compound(depth int) (Compound, error) {
	if depth > maxDepth {
		return nil, malformed("nesting deeper than %d", maxDepth)
	}
	c := make(Compound)
	for {
		id, err := r.tagID()
		if err != nil {
			return nil, err
		}
		if id == TagEnd {
			return c, nil
		}
		name, err := r.string()
		if err != nil {
			return nil, err
		}
		t, err := r.payload(id, depth)
		if err != nil {
			return nil, err
		}
		c[name] = t
	}
}
