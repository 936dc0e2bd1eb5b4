package nbt

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// maxInflated caps the decompressed size of a single blob.
const maxInflated = 16 << 20

// Decode turns a base64 encoded, gzip compressed blob into a tree.
func Decode(encoded string) (*Tree, error) {
	compressed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &DecodeError{Kind: ErrEncoding, Err: err}
	}

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, &DecodeError{Kind: ErrCompression, Err: err}
	}
	defer zr.Close()

	data, err := io.ReadAll(io.LimitReader(zr, maxInflated+1))
	if err != nil {
		return nil, &DecodeError{Kind: ErrCompression, Err: err}
	}
	if len(data) > maxInflated {
		return nil, &DecodeError{Kind: ErrCompression, Err: fmt.Errorf("inflated size exceeds %d bytes", maxInflated)}
	}

	return Parse(data)
}

// Encode is the inverse of Decode.
func Encode(t *Tree) (string, error) {
	data, err := Marshal(t)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return "", fmt.Errorf("compressing tree: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("compressing tree: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Blob is an encoded tree as it appears in a listing. The tree is decoded on
// first use and the result, including a failure, is kept for later calls.
// Copies of a Blob share the cached result. The returned tree must not be modified.
type Blob struct {
	raw  string
	cell *blobCell
}

type blobCell struct {
	once sync.Once
	tree *Tree
	err  error
}

// NewBlob wraps an encoded string.
func NewBlob(encoded string) Blob {
	return Blob{raw: encoded, cell: &blobCell{}}
}

// Raw returns the encoded form.
func (b Blob) Raw() string { return b.raw }

// Tree decodes the blob, at most once per NewBlob.
func (b Blob) Tree() (*Tree, error) {
	if b.cell == nil {
		return Decode(b.raw)
	}
	b.cell.once.Do(func() {
		b.cell.tree, b.cell.err = Decode(b.raw)
	})
	return b.cell.tree, b.cell.err
}

// Item decodes the blob and returns its first item.
func (b Blob) Item() (*Item, error) {
	t, err := b.Tree()
	if err != nil {
		return nil, err
	}
	return t.Item()
}

func (b Blob) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.raw)
}

// UnmarshalJSON accepts the plain string form and the older
// {"type":0,"data":"..."} object form.
func (b *Blob) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*b = Blob{}
		return nil
	case len(data) > 0 && data[0] == '{':
		var wrapped struct {
			Type int    `json:"type"`
			Data string `json:"data"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return fmt.Errorf("parsing item bytes object: %w", err)
		}
		*b = NewBlob(wrapped.Data)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parsing item bytes: %w", err)
	}
	*b = NewBlob(s)
	return nil
}
