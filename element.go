package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ElementID identifies an element in the content database.
type ElementID int

// Element is the metadata for one element. Emoji indexes the emoji table.
type Element struct {
	ID    ElementID `json:"id"`
	Name  string    `json:"name"`
	Tier  int       `json:"tier"`
	Emoji int       `json:"emoji"`
}

// comboKey returns the canonical "min+max" key for an unordered pair.
func comboKey(a, b ElementID) string {
	if a > b {
		a, b = b, a
	}
	return strconv.Itoa(int(a)) + "+" + strconv.Itoa(int(b))
}

// parseComboKey accepts "a+b" in either order.
func parseComboKey(key string) (ElementID, ElementID, error) {
	left, right, ok := strings.Cut(key, "+")
	if !ok {
		return 0, 0, fmt.Errorf("combination key %q: missing '+'", key)
	}
	a, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return 0, 0, fmt.Errorf("combination key %q: %w", key, err)
	}
	b, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return 0, 0, fmt.Errorf("combination key %q: %w", key, err)
	}
	return ElementID(a), ElementID(b), nil
}

// ElementTable is the read-only element and recipe lookup shared by every actor in a world.
// Keys are canonicalized on construction so lookups are symmetric.
type ElementTable struct {
	elements map[ElementID]Element
	combos   map[string]ElementID
	base     []ElementID
}

// NewElementTable builds a table. Combination keys that do not parse are dropped.
func NewElementTable(elements []Element, combos map[string]ElementID) *ElementTable {
	t := &ElementTable{
		elements: make(map[ElementID]Element, len(elements)),
		combos:   make(map[string]ElementID, len(combos)),
	}
	for _, e := range elements {
		t.elements[e.ID] = e
		if e.Tier == 0 {
			t.base = append(t.base, e.ID)
		}
	}
	sort.Slice(t.base, func(i, j int) bool { return t.base[i] < t.base[j] })
	for key, result := range combos {
		a, b, err := parseComboKey(key)
		if err != nil {
			continue
		}
		t.combos[comboKey(a, b)] = result
	}
	return t
}

// Element returns the metadata for id.
func (t *ElementTable) Element(id ElementID) (Element, bool) {
	e, ok := t.elements[id]
	return e, ok
}

// Lookup returns the raw recipe result for the pair, whether or not the result element exists.
func (t *ElementTable) Lookup(a, b ElementID) (ElementID, bool) {
	r, ok := t.combos[comboKey(a, b)]
	return r, ok
}

// Combine returns the result element for the pair. A recipe whose result is not a known
// element counts as no combination.
func (t *ElementTable) Combine(a, b ElementID) (Element, bool) {
	r, ok := t.Lookup(a, b)
	if !ok {
		return Element{}, false
	}
	return t.Element(r)
}

// Tier returns the tier of id, or 0 for unknown ids.
func (t *ElementTable) Tier(id ElementID) int {
	return t.elements[id].Tier
}

// BaseElements returns the tier-0 element ids in ascending order.
func (t *ElementTable) BaseElements() []ElementID {
	return t.base
}

// Len returns the number of known elements.
func (t *ElementTable) Len() int {
	return len(t.elements)
}
