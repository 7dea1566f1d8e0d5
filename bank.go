package main

import "github.com/go-kit/log/level"

// bankCombination is one combinable pair found in a bank scan.
type bankCombination struct {
	I, J         int // bank indices, I < J
	A, B         ElementID
	Result       Element
	NewDiscovery bool
}

// CollectElement puts a newly collected element into s's bank.
//
// With free capacity the element goes to a random slot and the bank is rescanned. With a full
// bank the element is tried against each held element in bank order; the first match replaces
// that slot with the result and the new element is consumed. The bank is rescanned either way.
// The replaced slot holds the result immediately; only the client-facing combine signal waits
// CombineRevealTicks.
func (w *World) CollectElement(s *Snake, id ElementID) {
	if !s.bankFull() {
		s.Bank = insertElement(s.Bank, w.rng.Intn(len(s.Bank)+1), id)
		s.enforceBankCapacity()
		w.checkChain(s, 0, false)
		return
	}

	combined := false
	for i, held := range s.Bank {
		result, ok := w.Table.Combine(id, held)
		if !ok {
			continue
		}
		s.Bank[i] = result.ID
		isNew := w.award(s, result)

		ev := Event{
			Kind:         EventCombine,
			ActorID:      s.ID,
			Sources:      []ElementID{held, id},
			Result:       result.ID,
			NewDiscovery: isNew,
			Slot:         i,
		}
		w.Deferred.Schedule(w.Tick+CombineRevealTicks, func() {
			ev.Tick = w.Tick
			w.Events.Emit(ev)
		})
		combined = true
		break
	}
	w.checkChain(s, 0, combined)
}

// CheckCombinations scans s's bank and applies combinations, chaining up to MaxChainDepth.
// Returns the number of combinations applied.
func (w *World) CheckCombinations(s *Snake) int {
	return w.checkChain(s, 0, false)
}

// checkChain applies the best available combination and recurses with depth+1. combined
// reports whether the triggering mutation already produced a combination, which keeps the
// player's streak alive when the rescan finds nothing more.
func (w *World) checkChain(s *Snake, depth int, combined bool) int {
	if depth >= MaxChainDepth {
		return 0
	}
	var candidates []bankCombination
	if len(s.Bank) >= 2 {
		candidates = w.possibleCombinations(s)
	}
	if len(candidates) == 0 {
		// A bank with fewer than two elements has nothing to scan and leaves the streak alone.
		if depth == 0 && !combined && s.IsPlayer && len(s.Bank) >= 2 {
			s.ComboStreak = 0
		}
		return 0
	}

	c := pickCombination(candidates)
	s.Bank = removePair(s.Bank, c.I, c.J)
	isNew := w.award(s, c.Result)
	s.Bank = insertElement(s.Bank, w.rng.Intn(len(s.Bank)+1), c.Result.ID)
	s.enforceBankCapacity()

	w.Events.Emit(Event{
		Kind:         EventCombine,
		Tick:         w.Tick,
		ActorID:      s.ID,
		Sources:      []ElementID{c.A, c.B},
		Result:       c.Result.ID,
		NewDiscovery: isNew,
		Slot:         -1,
	})
	return 1 + w.checkChain(s, depth+1, true)
}

// possibleCombinations lists every unordered bank pair with a valid result.
func (w *World) possibleCombinations(s *Snake) []bankCombination {
	var out []bankCombination
	for i := 0; i < len(s.Bank); i++ {
		for j := i + 1; j < len(s.Bank); j++ {
			result, ok := w.Table.Combine(s.Bank[i], s.Bank[j])
			if !ok {
				continue
			}
			out = append(out, bankCombination{
				I:            i,
				J:            j,
				A:            s.Bank[i],
				B:            s.Bank[j],
				Result:       result,
				NewDiscovery: !s.Discovered[result.ID],
			})
		}
	}
	return out
}

// pickCombination prefers new discoveries, then higher result tier, then scan order.
func pickCombination(candidates []bankCombination) bankCombination {
	best := candidates[0]
	for _, c := range candidates[1:] {
		switch {
		case c.NewDiscovery && !best.NewDiscovery:
			best = c
		case c.NewDiscovery == best.NewDiscovery && c.Result.Tier > best.Result.Tier:
			best = c
		}
	}
	return best
}

// award applies discovery bookkeeping and score for producing result. Returns true when
// result is a first-time discovery for s.
func (w *World) award(s *Snake, result Element) bool {
	if s.IsPlayer {
		s.ComboStreak++
	}

	isNew := !s.Discovered[result.ID]
	if isNew {
		s.Discovered[result.ID] = true
		s.Discoveries++
		s.Score += DiscoveryBonus
		w.Events.Emit(Event{
			Kind:         EventDiscover,
			Tick:         w.Tick,
			ActorID:      s.ID,
			ActorName:    s.Name,
			Result:       result.ID,
			NewDiscovery: true,
			WorldFirst:   w.markWorldDiscovery(result.ID),
			Slot:         -1,
		})
	} else {
		s.Score += streakBonus(s.ComboStreak)
	}

	if s.IsPlayer && s.ComboStreak >= 2 {
		w.Events.Emit(Event{Kind: EventStreak, Tick: w.Tick, ActorID: s.ID, Streak: s.ComboStreak, Slot: -1})
	}
	if result.Tier > 0 {
		s.Grow(result.Tier)
	}
	return isNew
}

// streakBonus maps a streak count to the repeat-combination bonus. AI snakes never track a
// streak and always get the first tier.
func streakBonus(streak int) int {
	if streak < 1 {
		streak = 1
	}
	if streak > len(ComboStreakBonus) {
		streak = len(ComboStreakBonus)
	}
	return ComboStreakBonus[streak-1]
}

// Digest empties s's bank and awards DigestBonusPerElement per element cleared.
func (w *World) Digest(s *Snake) int {
	n := len(s.Bank)
	s.Bank = nil
	s.Score += n * DigestBonusPerElement
	w.Events.Emit(Event{Kind: EventDigest, Tick: w.Tick, ActorID: s.ID, Count: n, Slot: -1})
	return n
}

// CanCombine reports whether any pair in the bank has a valid result.
func (s *Snake) CanCombine(t *ElementTable) bool {
	for i := 0; i < len(s.Bank); i++ {
		for j := i + 1; j < len(s.Bank); j++ {
			if _, ok := t.Combine(s.Bank[i], s.Bank[j]); ok {
				return true
			}
		}
	}
	return false
}

// enforceBankCapacity truncates an overfull bank.
func (s *Snake) enforceBankCapacity() {
	if len(s.Bank) <= s.BankCapacity {
		return
	}
	level.Warn(logger).Log("msg", "bank over capacity, truncating", "snake", s.ID, "len", len(s.Bank), "capacity", s.BankCapacity)
	s.Bank = s.Bank[:s.BankCapacity]
}

func insertElement(bank []ElementID, idx int, id ElementID) []ElementID {
	bank = append(bank, 0)
	copy(bank[idx+1:], bank[idx:])
	bank[idx] = id
	return bank
}

// removePair removes indices i < j.
func removePair(bank []ElementID, i, j int) []ElementID {
	bank = append(bank[:j], bank[j+1:]...)
	return append(bank[:i], bank[i+1:]...)
}
