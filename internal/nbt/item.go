package nbt

import "fmt"

// EnchantedBookID is the numeric item type of an enchanted book.
const EnchantedBookID int16 = 403

// Item is a view over the first item compound of a listing tree.
type Item struct {
	c Compound
}

// Item returns the first element of the root's "i" list.
func (t *Tree) Item() (*Item, error) {
	items, ok := t.Root.List("i")
	if !ok {
		return nil, malformed("root has no item list")
	}
	if items.Len() == 0 {
		return nil, malformed("item list is empty")
	}
	c, ok := items.Items[0].(Compound)
	if !ok {
		return nil, malformed("item list holds %v, want Compound", items.Elem)
	}
	return &Item{c: c}, nil
}

// ItemTypeID returns the numeric type id of the first item.
func (t *Tree) ItemTypeID() (int16, error) {
	it, err := t.Item()
	if err != nil {
		return 0, err
	}
	return it.TypeID()
}

// Enchantments returns the first item's enchantment levels, if it has any.
func (t *Tree) Enchantments() (map[string]int32, bool) {
	it, err := t.Item()
	if err != nil {
		return nil, false
	}
	return it.Enchantments()
}

// Compound exposes the raw item compound.
func (it *Item) Compound() Compound { return it.c }

// TypeID returns the "id" short.
func (it *Item) TypeID() (int16, error) {
	id, ok := it.c.Short("id")
	if !ok {
		return 0, &DecodeError{Kind: ErrMalformed, Err: fmt.Errorf("item has no short id")}
	}
	return id, nil
}

// Count returns the stack size.
func (it *Item) Count() int8 {
	n, _ := it.c.Byte("Count")
	return n
}

// Damage returns the damage value, which also distinguishes item variants.
func (it *Item) Damage() int16 {
	n, _ := it.c.Short("Damage")
	return n
}

func (it *Item) extraAttributes() (Compound, bool) {
	tag, ok := it.c.Compound("tag")
	if !ok {
		return nil, false
	}
	return tag.Compound("ExtraAttributes")
}

func (it *Item) display() (Compound, bool) {
	tag, ok := it.c.Compound("tag")
	if !ok {
		return nil, false
	}
	return tag.Compound("display")
}

// Enchantments walks tag -> ExtraAttributes -> enchantments. A missing level
// anywhere on the path means the item has no enchantments.
func (it *Item) Enchantments() (map[string]int32, bool) {
	extra, ok := it.extraAttributes()
	if !ok {
		return nil, false
	}
	ench, ok := extra.Compound("enchantments")
	if !ok {
		return nil, false
	}
	out := make(map[string]int32, len(ench))
	for name := range ench {
		if lvl, ok := ench.Int(name); ok {
			out[name] = lvl
		}
	}
	return out, true
}

// SkyBlockID returns ExtraAttributes.id, e.g. "ENCHANTED_BOOK".
func (it *Item) SkyBlockID() string {
	extra, ok := it.extraAttributes()
	if !ok {
		return ""
	}
	id, _ := extra.String("id")
	return id
}

// DisplayName returns tag.display.Name with formatting codes intact.
func (it *Item) DisplayName() string {
	d, ok := it.display()
	if !ok {
		return ""
	}
	name, _ := d.String("Name")
	return name
}

// Lore returns tag.display.Lore lines with formatting codes intact.
func (it *Item) Lore() []string {
	d, ok := it.display()
	if !ok {
		return nil
	}
	l, ok := d.List("Lore")
	if !ok {
		return nil
	}
	lines := make([]string, 0, l.Len())
	for _, t := range l.Items {
		if s, ok := t.(String); ok {
			lines = append(lines, string(s))
		}
	}
	return lines
}
