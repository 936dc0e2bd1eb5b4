// Package nbttest builds item blobs for tests.
package nbttest

import (
	"github.com/johan/skyblock-auctions/internal/nbt"
)

// ItemTree returns a listing tree holding one item. A nil enchants map
// produces an item without an enchantments compound.
func ItemTree(id int16, name string, enchants map[string]int32) *nbt.Tree {
	extra := nbt.Compound{
		"id":        nbt.String("TEST_ITEM"),
		"uuid":      nbt.String("00000000-0000-0000-0000-000000000000"),
		"timestamp": nbt.String("1/1/23 12:00 PM"),
	}
	if enchants != nil {
		ench := nbt.Compound{}
		for k, v := range enchants {
			ench[k] = nbt.Int(v)
		}
		extra["enchantments"] = ench
	}

	item := nbt.Compound{
		"id":     nbt.Short(id),
		"Count":  nbt.Byte(1),
		"Damage": nbt.Short(0),
		"tag": nbt.Compound{
			"Unbreakable": nbt.Byte(1),
			"HideFlags":   nbt.Int(254),
			"display": nbt.Compound{
				"Name": nbt.String("§f" + name),
				"Lore": &nbt.List{Elem: nbt.TagString, Items: []nbt.Tag{
					nbt.String("§7A test item."),
					nbt.String("§f§lCOMMON"),
				}},
			},
			"ExtraAttributes": extra,
		},
	}

	return &nbt.Tree{
		Name: "",
		Root: nbt.Compound{
			"i": &nbt.List{Elem: nbt.TagCompound, Items: []nbt.Tag{item}},
		},
	}
}

// MustEncode encodes t and panics on failure.
func MustEncode(t *nbt.Tree) string {
	s, err := nbt.Encode(t)
	if err != nil {
		panic(err)
	}
	return s
}

// Book returns an encoded enchanted book blob.
func Book(enchants map[string]int32) string {
	return MustEncode(ItemTree(nbt.EnchantedBookID, "Enchanted Book", enchants))
}

// Item returns an encoded blob for a non-book item.
func Item(id int16, name string) string {
	return MustEncode(ItemTree(id, name, nil))
}
