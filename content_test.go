package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeContent seeds dir with a tiny content set: Fire(1)+Water(2)=Steam(10).
func writeContent(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		ElementsFile: `{
  "1": {"name": "Fire", "tier": 0, "emoji": 0},
  "2": {"name": "Water", "tier": 0, "emoji": 1},
  "10": {"name": "Steam", "tier": 1, "emoji": 2}
}`,
		CombinationsFile: `{"2+1": 10}`,
		EmojisFile:       `{"0": "🔥", "1": "💧", "2": "♨️"}`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func openTestStore(t *testing.T) (*ContentStore, string) {
	t.Helper()
	dir := t.TempDir()
	writeContent(t, dir)
	cs, err := OpenContentStore(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return cs, dir
}

func TestOpenContentStoreCanonicalizesKeys(t *testing.T) {
	cs, _ := openTestStore(t)
	if got := len(cs.Elements()); got != 3 {
		t.Fatalf("expected 3 elements, got %d", got)
	}
	combos := cs.Combinations()
	if len(combos) != 1 || combos[0].Key != "1+2" || combos[0].Result != 10 {
		t.Fatalf("unexpected combinations %+v", combos)
	}
	if r, ok := cs.Table().Lookup(2, 1); !ok || r != 10 {
		t.Fatalf("table lookup failed: %v %v", r, ok)
	}
	if cs.Emoji(0) != "🔥" {
		t.Fatalf("emoji not loaded")
	}
}

func TestOpenContentStoreMissingFile(t *testing.T) {
	if _, err := OpenContentStore(t.TempDir()); err == nil {
		t.Fatalf("expected error for an empty data dir")
	}
}

func TestCreateElementAssignsIDAndPersists(t *testing.T) {
	cs, dir := openTestStore(t)

	e, err := cs.CreateElement(Element{Name: "Earth", Emoji: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.ID != 11 {
		t.Fatalf("expected next free id 11, got %d", e.ID)
	}
	if _, err := cs.CreateElement(Element{Name: "earth"}); !errors.Is(err, ErrDuplicateElement) {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
	if _, err := cs.CreateElement(Element{ID: 1, Name: "Flame"}); !errors.Is(err, ErrDuplicateElement) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
	if _, err := cs.CreateElement(Element{Name: "  "}); !errors.Is(err, ErrInvalidElement) {
		t.Fatalf("expected invalid element error, got %v", err)
	}
	if _, ok := cs.Table().Element(11); !ok {
		t.Fatalf("table was not republished")
	}

	reopened, err := OpenContentStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if el, ok := reopened.Table().Element(11); !ok || el.Name != "Earth" {
		t.Fatalf("created element did not persist: %+v", el)
	}
}

func TestUpdateElement(t *testing.T) {
	cs, _ := openTestStore(t)
	if _, err := cs.UpdateElement(10, Element{Name: "Vapor", Tier: 1}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if el, _ := cs.Table().Element(10); el.Name != "Vapor" {
		t.Fatalf("update not published: %+v", el)
	}
	if _, err := cs.UpdateElement(99, Element{Name: "Nope"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPutCombinationValidatesElements(t *testing.T) {
	cs, _ := openTestStore(t)
	if _, err := cs.PutCombination(1, 99, 10); !errors.Is(err, ErrUnknownElement) {
		t.Fatalf("expected unknown element, got %v", err)
	}
	c, err := cs.PutCombination(10, 1, 2)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if c.Key != "1+10" || c.A != 1 || c.B != 10 {
		t.Fatalf("unexpected combination %+v", c)
	}
	if r, ok := cs.Table().Lookup(1, 10); !ok || r != 2 {
		t.Fatalf("new recipe not published")
	}
}

func TestDeleteCombinationEitherOrder(t *testing.T) {
	cs, _ := openTestStore(t)
	if err := cs.DeleteCombination("2+1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := cs.Table().Lookup(1, 2); ok {
		t.Fatalf("deleted recipe still in table")
	}
	if err := cs.DeleteCombination("1+2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := cs.DeleteCombination("fire"); !errors.Is(err, ErrInvalidCombination) {
		t.Fatalf("expected invalid combination, got %v", err)
	}
}

func TestBrokenCombinationsAndCleanup(t *testing.T) {
	cs, dir := openTestStore(t)
	if err := cs.DeleteElement(10); err != nil {
		t.Fatalf("delete element: %v", err)
	}

	broken := cs.BrokenCombinations()
	if len(broken) != 1 || broken[0].Key != "1+2" || len(broken[0].Missing) != 1 || broken[0].Missing[0] != 10 {
		t.Fatalf("unexpected broken list %+v", broken)
	}
	// The table hides recipes whose result is gone.
	if _, ok := cs.Table().Combine(1, 2); ok {
		t.Fatalf("combination with a missing result must not resolve")
	}

	n, err := cs.CleanupBrokenCombinations()
	if err != nil || n != 1 {
		t.Fatalf("cleanup: n=%d err=%v", n, err)
	}
	if n, _ := cs.CleanupBrokenCombinations(); n != 0 {
		t.Fatalf("second cleanup removed %d", n)
	}

	reopened, err := OpenContentStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if len(reopened.Combinations()) != 0 {
		t.Fatalf("cleanup did not persist")
	}
}

func TestSetEmoji(t *testing.T) {
	cs, dir := openTestStore(t)
	if err := cs.SetEmoji(7, "🌋"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cs.SetEmoji(0, ""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := cs.SetEmoji(-1, "x"); err == nil {
		t.Fatalf("negative index must be rejected")
	}

	reopened, err := OpenContentStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Emoji(7) != "🌋" || reopened.Emoji(0) != "" {
		t.Fatalf("emoji changes did not persist: %v", reopened.Emojis())
	}
}
