package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan/skyblock-auctions/internal/hypixel"
	"github.com/johan/skyblock-auctions/internal/nbt"
	"github.com/johan/skyblock-auctions/internal/nbt/nbttest"
	"github.com/johan/skyblock-auctions/internal/snapshot"
)

func ptr[T any](v T) *T { return &v }

func fixture() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Success:    true,
		TotalPages: 1,
		Auctions: []hypixel.Auction{
			{UUID: "hyp", ItemName: "Hyperion", Bin: true, ItemBytes: nbt.NewBlob(nbttest.Item(267, "Hyperion"))},
			{UUID: "scy", ItemName: "Scylla", Bin: false, ItemBytes: nbt.NewBlob(nbttest.Item(267, "Scylla"))},
			{UUID: "book", ItemName: "Enchanted Book", Bin: true, ItemBytes: nbt.NewBlob(nbttest.Book(map[string]int32{"sharpness": 5}))},
			{UUID: "book2", ItemName: "Enchanted Book", Bin: false, ItemBytes: nbt.NewBlob(nbttest.Book(map[string]int32{"sharpness": 4, "looting": 3}))},
			{UUID: "plain", ItemName: "Enchanted Book", Bin: true, ItemBytes: nbt.NewBlob(nbttest.Book(nil))},
			{UUID: "sword", ItemName: "Sharp Sword", Bin: true, ItemBytes: nbt.NewBlob(nbttest.MustEncode(nbttest.ItemTree(276, "Sharp Sword", map[string]int32{"sharpness": 5})))},
			{UUID: "broken", ItemName: "Broken Thing", Bin: true, ItemBytes: nbt.NewBlob("H4sI corrupted")},
		},
	}
}

func uuids(as []*hypixel.Auction) []string {
	out := []string{}
	for _, a := range as {
		out = append(out, a.UUID)
	}
	return out
}

func TestRun(t *testing.T) {
	snap := fixture()

	tests := []struct {
		name string
		pred Predicate
		want []string
	}{
		{name: "name", pred: Predicate{Name: "Hyperion"}, want: []string{"hyp"}},
		{name: "name bin", pred: Predicate{Name: "Hyperion", Bin: ptr(true)}, want: []string{"hyp"}},
		{name: "name not bin", pred: Predicate{Name: "Hyperion", Bin: ptr(false)}, want: []string{}},
		{name: "name is case sensitive", pred: Predicate{Name: "hyperion"}, want: []string{}},
		{name: "enchant", pred: Predicate{Enchantment: "sharpness"}, want: []string{"book", "book2"}},
		{name: "enchant level", pred: Predicate{Enchantment: "sharpness", Level: ptr(int32(5))}, want: []string{"book"}},
		{name: "enchant wrong level", pred: Predicate{Enchantment: "sharpness", Level: ptr(int32(6))}, want: []string{}},
		{name: "enchant missing", pred: Predicate{Enchantment: "protection"}, want: []string{}},
		{name: "enchant bin", pred: Predicate{Enchantment: "sharpness", Bin: ptr(true)}, want: []string{"book"}},
		{name: "broken by name", pred: Predicate{Name: "Broken Thing"}, want: []string{"broken"}},
		{name: "empty predicate", pred: Predicate{}, want: []string{"hyp", "scy", "book", "book2", "plain", "sword", "broken"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uuids(Run(snap, tt.pred)))
		})
	}
}

func TestEnchantedBookScenario(t *testing.T) {
	snap := &snapshot.Snapshot{Auctions: []hypixel.Auction{
		{UUID: "b", ItemName: "Enchanted Book", ItemBytes: nbt.NewBlob(nbttest.Book(map[string]int32{"sharpness": 5}))},
	}}

	assert.Len(t, Run(snap, Predicate{Enchantment: "sharpness"}), 1)
	assert.Len(t, Run(snap, Predicate{Enchantment: "sharpness", Level: ptr(int32(5))}), 1)
	assert.Empty(t, Run(snap, Predicate{Enchantment: "sharpness", Level: ptr(int32(4))}))
	assert.Empty(t, Run(snap, Predicate{Enchantment: "looting"}))
}

func TestDecodeFailureIsolation(t *testing.T) {
	snap := fixture()

	for _, a := range Run(snap, Predicate{Enchantment: "sharpness"}) {
		assert.NotEqual(t, "broken", a.UUID)
	}
	assert.Equal(t, []string{"broken"}, uuids(Run(snap, Predicate{Name: "Broken Thing"})))
	assert.Equal(t, 1, Undecodable(snap))
}

func TestDeterministic(t *testing.T) {
	snap := fixture()
	p := Predicate{Enchantment: "sharpness"}
	first := uuids(Run(snap, p))
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, uuids(Run(snap, p)))
	}
}

func TestSelectStopsEarly(t *testing.T) {
	snap := fixture()
	n := 0
	for range Select(snap, And()) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
	assert.Empty(t, Run(nil, Predicate{}))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    int32
		wantErr bool
	}{
		{input: "5", want: 5},
		{input: "0", want: 0},
		{input: "V", wantErr: true},
		{input: "-1", wantErr: true},
		{input: "99999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				var ie *InputError
				require.ErrorAs(t, err, &ie)
				assert.Equal(t, "level", ie.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPredicateString(t *testing.T) {
	p := Predicate{Name: "Hyperion", Bin: ptr(true)}
	assert.Equal(t, `name="Hyperion" bin=true`, p.String())
	assert.Equal(t, "all", Predicate{}.String())
	assert.Equal(t, "enchant=sharpness level=5", Predicate{Enchantment: "sharpness", Level: ptr(int32(5))}.String())
}
