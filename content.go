package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-kit/log/level"
)

// Content files inside the data dir
const (
	ElementsFile     = "elements.json"
	CombinationsFile = "combinations.json"
	EmojisFile       = "emojis.json"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnknownElement     = errors.New("unknown element")
	ErrDuplicateElement   = errors.New("duplicate element")
	ErrInvalidElement     = errors.New("invalid element")
	ErrInvalidCombination = errors.New("invalid combination")
)

// elementRecord is the on-disk shape of an element; the id is the map key.
type elementRecord struct {
	Name  string `json:"name"`
	Tier  int    `json:"tier"`
	Emoji int    `json:"emoji"`
}

// Combination is one recipe as exposed by the admin API.
type Combination struct {
	Key    string    `json:"key"`
	A      ElementID `json:"a"`
	B      ElementID `json:"b"`
	Result ElementID `json:"result"`
}

// BrokenCombination is a recipe that references at least one missing element.
type BrokenCombination struct {
	Combination
	Missing []ElementID `json:"missing"`
}

// ContentStore owns the JSON content files and publishes immutable ElementTable snapshots
// for running worlds.
type ContentStore struct {
	mu       sync.RWMutex
	dir      string
	elements map[ElementID]Element
	combos   map[string]ElementID
	emojis   map[int]string

	table atomic.Pointer[ElementTable]
}

// OpenContentStore loads the three content files from dir.
func OpenContentStore(dir string) (*ContentStore, error) {
	cs := &ContentStore{
		dir:      dir,
		elements: make(map[ElementID]Element),
		combos:   make(map[string]ElementID),
		emojis:   make(map[int]string),
	}

	var rawElements map[string]elementRecord
	if err := readJSON(filepath.Join(dir, ElementsFile), &rawElements); err != nil {
		return nil, err
	}
	for k, rec := range rawElements {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%s: element id %q: %w", ElementsFile, k, err)
		}
		cs.elements[ElementID(id)] = Element{ID: ElementID(id), Name: rec.Name, Tier: rec.Tier, Emoji: rec.Emoji}
	}

	var rawCombos map[string]ElementID
	if err := readJSON(filepath.Join(dir, CombinationsFile), &rawCombos); err != nil {
		return nil, err
	}
	for k, result := range rawCombos {
		a, b, err := parseComboKey(k)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", CombinationsFile, err)
		}
		cs.combos[comboKey(a, b)] = result
	}

	var rawEmojis map[string]string
	if err := readJSON(filepath.Join(dir, EmojisFile), &rawEmojis); err != nil {
		return nil, err
	}
	for k, glyph := range rawEmojis {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%s: emoji index %q: %w", EmojisFile, k, err)
		}
		cs.emojis[idx] = glyph
	}

	cs.publish()
	if broken := cs.BrokenCombinations(); len(broken) > 0 {
		level.Warn(logger).Log("msg", "content has broken combinations", "count", len(broken), "dir", dir)
	}
	level.Info(logger).Log("msg", "content loaded", "elements", len(cs.elements), "combinations", len(cs.combos), "emojis", len(cs.emojis))
	return cs, nil
}

// Table returns the latest published combination table.
func (cs *ContentStore) Table() *ElementTable {
	return cs.table.Load()
}

// publish rebuilds the table snapshot. Caller must hold mu (read or write) or be the constructor.
func (cs *ContentStore) publish() {
	elements := make([]Element, 0, len(cs.elements))
	for _, e := range cs.elements {
		elements = append(elements, e)
	}
	combos := make(map[string]ElementID, len(cs.combos))
	for k, v := range cs.combos {
		combos[k] = v
	}
	cs.table.Store(NewElementTable(elements, combos))
}

// Elements returns all elements ordered by id.
func (cs *ContentStore) Elements() []Element {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make([]Element, 0, len(cs.elements))
	for _, e := range cs.elements {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CreateElement adds e. A zero id is assigned the next free id.
func (cs *ContentStore) CreateElement(e Element) (Element, error) {
	if strings.TrimSpace(e.Name) == "" || e.Tier < 0 || e.ID < 0 {
		return Element{}, ErrInvalidElement
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if e.ID == 0 {
		for id := range cs.elements {
			if id >= e.ID {
				e.ID = id
			}
		}
		e.ID++
	} else if _, exists := cs.elements[e.ID]; exists {
		return Element{}, fmt.Errorf("element %d: %w", e.ID, ErrDuplicateElement)
	}
	for _, other := range cs.elements {
		if strings.EqualFold(other.Name, e.Name) {
			return Element{}, fmt.Errorf("element name %q: %w", e.Name, ErrDuplicateElement)
		}
	}

	cs.elements[e.ID] = e
	if err := cs.saveElements(); err != nil {
		delete(cs.elements, e.ID)
		return Element{}, err
	}
	cs.publish()
	return e, nil
}

// UpdateElement replaces the element with the given id.
func (cs *ContentStore) UpdateElement(id ElementID, e Element) (Element, error) {
	if strings.TrimSpace(e.Name) == "" || e.Tier < 0 {
		return Element{}, ErrInvalidElement
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()

	prev, ok := cs.elements[id]
	if !ok {
		return Element{}, fmt.Errorf("element %d: %w", id, ErrNotFound)
	}
	e.ID = id
	cs.elements[id] = e
	if err := cs.saveElements(); err != nil {
		cs.elements[id] = prev
		return Element{}, err
	}
	cs.publish()
	return e, nil
}

// DeleteElement removes an element. Recipes referencing it are left in place and show up in
// BrokenCombinations until cleaned up.
func (cs *ContentStore) DeleteElement(id ElementID) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	prev, ok := cs.elements[id]
	if !ok {
		return fmt.Errorf("element %d: %w", id, ErrNotFound)
	}
	delete(cs.elements, id)
	if err := cs.saveElements(); err != nil {
		cs.elements[id] = prev
		return err
	}
	cs.publish()
	return nil
}

// Combinations returns all recipes ordered by key.
func (cs *ContentStore) Combinations() []Combination {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.combinationsLocked()
}

func (cs *ContentStore) combinationsLocked() []Combination {
	out := make([]Combination, 0, len(cs.combos))
	for k, r := range cs.combos {
		a, b, _ := parseComboKey(k)
		out = append(out, Combination{Key: k, A: a, B: b, Result: r})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// PutCombination creates or replaces the recipe for the pair (a, b).
func (cs *ContentStore) PutCombination(a, b, result ElementID) (Combination, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for _, id := range []ElementID{a, b, result} {
		if _, ok := cs.elements[id]; !ok {
			return Combination{}, fmt.Errorf("element %d: %w", id, ErrUnknownElement)
		}
	}
	key := comboKey(a, b)
	prev, existed := cs.combos[key]
	cs.combos[key] = result
	if err := cs.saveCombinations(); err != nil {
		if existed {
			cs.combos[key] = prev
		} else {
			delete(cs.combos, key)
		}
		return Combination{}, err
	}
	cs.publish()
	if a > b {
		a, b = b, a
	}
	return Combination{Key: key, A: a, B: b, Result: result}, nil
}

// DeleteCombination removes a recipe by key; "b+a" and "a+b" are the same key.
func (cs *ContentStore) DeleteCombination(key string) error {
	a, b, err := parseComboKey(key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCombination, err)
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()

	canon := comboKey(a, b)
	prev, ok := cs.combos[canon]
	if !ok {
		return fmt.Errorf("combination %s: %w", canon, ErrNotFound)
	}
	delete(cs.combos, canon)
	if err := cs.saveCombinations(); err != nil {
		cs.combos[canon] = prev
		return err
	}
	cs.publish()
	return nil
}

// Emojis returns a copy of the emoji table.
func (cs *ContentStore) Emojis() map[int]string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make(map[int]string, len(cs.emojis))
	for k, v := range cs.emojis {
		out[k] = v
	}
	return out
}

// Emoji returns the glyph at idx, or "" if unset.
func (cs *ContentStore) Emoji(idx int) string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.emojis[idx]
}

// SetEmoji sets the glyph at idx. An empty glyph deletes the entry.
func (cs *ContentStore) SetEmoji(idx int, glyph string) error {
	if idx < 0 {
		return fmt.Errorf("emoji index %d: %w", idx, ErrInvalidElement)
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()

	prev, existed := cs.emojis[idx]
	if glyph == "" {
		delete(cs.emojis, idx)
	} else {
		cs.emojis[idx] = glyph
	}
	if err := cs.saveEmojis(); err != nil {
		if existed {
			cs.emojis[idx] = prev
		} else {
			delete(cs.emojis, idx)
		}
		return err
	}
	return nil
}

// BrokenCombinations lists recipes whose inputs or result no longer exist.
func (cs *ContentStore) BrokenCombinations() []BrokenCombination {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.brokenLocked()
}

func (cs *ContentStore) brokenLocked() []BrokenCombination {
	var broken []BrokenCombination
	for _, c := range cs.combinationsLocked() {
		var missing []ElementID
		for _, id := range []ElementID{c.A, c.B, c.Result} {
			if _, ok := cs.elements[id]; !ok && !containsID(missing, id) {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			broken = append(broken, BrokenCombination{Combination: c, Missing: missing})
		}
	}
	return broken
}

// CleanupBrokenCombinations deletes every broken recipe and returns how many were removed.
func (cs *ContentStore) CleanupBrokenCombinations() (int, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	broken := cs.brokenLocked()
	if len(broken) == 0 {
		return 0, nil
	}
	removed := make(map[string]ElementID, len(broken))
	for _, b := range broken {
		removed[b.Key] = b.Result
		delete(cs.combos, b.Key)
	}
	if err := cs.saveCombinations(); err != nil {
		for k, v := range removed {
			cs.combos[k] = v
		}
		return 0, err
	}
	cs.publish()
	level.Info(logger).Log("msg", "removed broken combinations", "count", len(removed))
	return len(removed), nil
}

func (cs *ContentStore) saveElements() error {
	out := make(map[string]elementRecord, len(cs.elements))
	for id, e := range cs.elements {
		out[strconv.Itoa(int(id))] = elementRecord{Name: e.Name, Tier: e.Tier, Emoji: e.Emoji}
	}
	return writeJSONAtomic(filepath.Join(cs.dir, ElementsFile), out)
}

func (cs *ContentStore) saveCombinations() error {
	return writeJSONAtomic(filepath.Join(cs.dir, CombinationsFile), cs.combos)
}

func (cs *ContentStore) saveEmojis() error {
	out := make(map[string]string, len(cs.emojis))
	for idx, g := range cs.emojis {
		out[strconv.Itoa(idx)] = g
	}
	return writeJSONAtomic(filepath.Join(cs.dir, EmojisFile), out)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// writeJSONAtomic writes v to a temp file in the same dir and renames it over path.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func containsID(ids []ElementID, id ElementID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
