package nbt

import (
	"unicode/utf16"
	"unicode/utf8"
)

// Tag strings use Java's modified UTF-8: NUL is written as C0 80 and
// characters outside the BMP as two 3-byte surrogate halves.

// decodeMUTF8 converts modified UTF-8 to a Go string. Bytes that do not form
// a valid sequence become U+FFFD. Standard 4-byte sequences, which Java never
// writes, are accepted as-is.
func decodeMUTF8(b []byte) string {
	if isPlainASCII(b) {
		return string(b)
	}

	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c < 0x80:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b) && isCont(b[i+1]):
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b) && isCont(b[i+1]) && isCont(b[i+2]):
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		case c&0xF8 == 0xF0:
			r, size := utf8.DecodeRune(b[i:])
			units = utf16.AppendRune(units, r)
			i += size
		default:
			units = append(units, utf8.RuneError)
			i++
		}
	}
	return string(utf16.Decode(units))
}

// encodeMUTF8 converts s to modified UTF-8.
func encodeMUTF8(s string) []byte {
	if isPlainASCII([]byte(s)) {
		return []byte(s)
	}

	out := make([]byte, 0, len(s)+len(s)/2)
	for _, r := range s {
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			out = appendUnit(out, uint16(hi))
			out = appendUnit(out, uint16(lo))
			continue
		}
		out = appendUnit(out, uint16(r))
	}
	return out
}

func appendUnit(out []byte, u uint16) []byte {
	switch {
	case u != 0 && u < 0x80:
		return append(out, byte(u))
	case u < 0x800:
		return append(out, 0xC0|byte(u>>6), 0x80|byte(u&0x3F))
	default:
		return append(out, 0xE0|byte(u>>12), 0x80|byte(u>>6&0x3F), 0x80|byte(u&0x3F))
	}
}

func isPlainASCII(b []byte) bool {
	for _, c := range b {
		if c == 0 || c >= 0x80 {
			return false
		}
	}
	return true
}

func isCont(c byte) bool { return c&0xC0 == 0x80 }
