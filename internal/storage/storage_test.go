package storage

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan/skyblock-auctions/internal/hypixel"
	"github.com/johan/skyblock-auctions/internal/nbt"
	"github.com/johan/skyblock-auctions/internal/nbt/nbttest"
)

func sample() []*hypixel.Auction {
	return []*hypixel.Auction{
		{UUID: "a1", ItemName: "Hyperion", Bin: true, StartingBid: 900000000, ItemBytes: nbt.NewBlob(nbttest.Item(267, "Hyperion"))},
		{UUID: "a2", ItemName: "Enchanted Book", ItemBytes: nbt.NewBlob(nbttest.Book(map[string]int32{"sharpness": 5}))},
	}
}

func readLines(t *testing.T, r io.Reader) []hypixel.Auction {
	t.Helper()
	var out []hypixel.Auction
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var a hypixel.Auction
		require.NoError(t, json.Unmarshal(sc.Bytes(), &a))
		out = append(out, a)
	}
	require.NoError(t, sc.Err())
	return out
}

func TestFileStorage_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.jsonl")
	s, err := NewFileStorage(path, false)
	require.NoError(t, err)

	require.NoError(t, WriteAll(s, sample()))
	assert.Equal(t, int64(2), s.Count())
	assert.Equal(t, path, s.Path())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got := readLines(t, f)
	require.Len(t, got, 2)
	assert.Equal(t, "a1", got[0].UUID)
	assert.Equal(t, "Hyperion", got[0].ItemName)

	tree, err := got[1].ItemBytes.Tree()
	require.NoError(t, err)
	ench, ok := tree.Enchantments()
	require.True(t, ok)
	assert.Equal(t, int32(5), ench["sharpness"])
}

func TestFileStorage_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	s, err := NewFileStorage(path, true)
	require.NoError(t, err)
	assert.Equal(t, path+".gz", s.Path())

	require.NoError(t, WriteAll(s, sample()))

	f, err := os.Open(s.Path())
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)

	assert.Len(t, readLines(t, zr), 2)
}

func TestFileStorage_WriteAfterClose(t *testing.T) {
	s, err := NewFileStorage(filepath.Join(t.TempDir(), "x.jsonl"), false)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Error(t, s.Write(sample()[0]))
}

func TestNullStorage(t *testing.T) {
	assert.NoError(t, WriteAll(NewNullStorage(), sample()))
}
