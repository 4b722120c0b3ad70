// Package feed defines the mood feed domain: posts, the closed reaction
// kind set, the per-post reaction aggregate and milestones.
package feed

import "sync"

// ReactionKind is one of the fixed set of reactions a viewer can apply to
// a post. The set is closed; it is not extensible at runtime.
type ReactionKind string

const (
	ReactionLike      ReactionKind = "like"
	ReactionLove      ReactionKind = "love"
	ReactionCelebrate ReactionKind = "celebrate"
	ReactionExcited   ReactionKind = "excited"
	ReactionFunny     ReactionKind = "funny"
	ReactionSupport   ReactionKind = "support"
)

// ReactionKinds lists every kind in declaration order. TopKinds breaks
// count ties by this order.
var ReactionKinds = []ReactionKind{
	ReactionLike,
	ReactionLove,
	ReactionCelebrate,
	ReactionExcited,
	ReactionFunny,
	ReactionSupport,
}

// ReactionStyle carries the display attributes of a kind.
type ReactionStyle struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Emoji string `json:"emoji"`
}

var reactionStyles = map[ReactionKind]ReactionStyle{
	ReactionLike:      {Label: "Like", Color: "#1877F2", Emoji: "\U0001F44D"},
	ReactionLove:      {Label: "Love", Color: "#E91E63", Emoji: "❤️"},
	ReactionCelebrate: {Label: "Celebrate", Color: "#FF9800", Emoji: "\U0001F973"},
	ReactionExcited:   {Label: "Excited", Color: "#9C27B0", Emoji: "\U0001F929"},
	ReactionFunny:     {Label: "Funny", Color: "#FFC107", Emoji: "\U0001F602"},
	ReactionSupport:   {Label: "Support", Color: "#4CAF50", Emoji: "\U0001F91D"},
}

// Style returns the display attributes for a kind.
func (k ReactionKind) Style() ReactionStyle {
	return reactionStyles[k]
}

// Valid reports whether k belongs to the closed kind set.
func (k ReactionKind) Valid() bool {
	_, ok := reactionStyles[k]
	return ok
}

// ReactionEntry records one user's presence in a kind's user set.
type ReactionEntry struct {
	UserName string       `json:"userName"`
	Kind     ReactionKind `json:"kind"`
}

// ReactionAggregate is the per-post reaction state: a count per kind, the
// user set per kind and each viewer's current selection. Invariants held
// for every reachable state:
//
//   - count[kind] == len(users[kind])
//   - a viewer appears in at most one kind's user set, and that kind
//     equals the viewer's recorded selection
//
// All mutations on one aggregate are serialized by its own mutex;
// aggregates for different posts are fully independent.
type ReactionAggregate struct {
	mu      sync.Mutex
	counts  map[ReactionKind]int
	users   map[ReactionKind][]ReactionEntry
	current map[string]ReactionKind
}

// NewReactionAggregate creates an empty aggregate.
func NewReactionAggregate() *ReactionAggregate {
	return &ReactionAggregate{
		counts:  make(map[ReactionKind]int),
		users:   make(map[ReactionKind][]ReactionEntry),
		current: make(map[string]ReactionKind),
	}
}

// ToggleDefault is the tap gesture: with no current reaction the viewer
// gets a like; with any current reaction it is removed entirely. It never
// switches kinds in one call.
func (a *ReactionAggregate) ToggleDefault(viewer string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if prev, ok := a.current[viewer]; ok {
		a.remove(viewer, prev)
		delete(a.current, viewer)
		return
	}
	a.add(viewer, ReactionLike)
	a.current[viewer] = ReactionLike
}

// Select is the long-press-then-pick gesture. Picking the current kind
// removes it; picking a different kind replaces the prior one.
func (a *ReactionAggregate) Select(viewer string, kind ReactionKind) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prev, had := a.current[viewer]
	if had {
		a.remove(viewer, prev)
		delete(a.current, viewer)
	}
	if had && prev == kind {
		return
	}
	a.add(viewer, kind)
	a.current[viewer] = kind
}

// remove decrements a kind's count (floored at zero) and drops the viewer
// from its user set. Caller holds the lock.
func (a *ReactionAggregate) remove(viewer string, kind ReactionKind) {
	if a.counts[kind] > 0 {
		a.counts[kind]--
	}
	entries := a.users[kind]
	kept := entries[:0]
	for _, e := range entries {
		if e.UserName != viewer {
			kept = append(kept, e)
		}
	}
	a.users[kind] = kept
}

// add increments a kind's count and records the viewer, skipping both when
// the viewer is already present so double-apply cannot drift the counts.
// Caller holds the lock.
func (a *ReactionAggregate) add(viewer string, kind ReactionKind) {
	for _, e := range a.users[kind] {
		if e.UserName == viewer {
			return
		}
	}
	a.users[kind] = append(a.users[kind], ReactionEntry{UserName: viewer, Kind: kind})
	a.counts[kind]++
}

// Total returns the sum of all kind counts. Never negative.
func (a *ReactionAggregate) Total() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	total := 0
	for _, c := range a.counts {
		total += c
	}
	return total
}

// TopKinds returns up to n kinds with a positive count, ordered by count
// descending with declaration-order tiebreak.
func (a *ReactionAggregate) TopKinds(n int) []ReactionKind {
	a.mu.Lock()
	defer a.mu.Unlock()

	top := make([]ReactionKind, 0, len(ReactionKinds))
	for _, k := range ReactionKinds {
		if a.counts[k] > 0 {
			top = append(top, k)
		}
	}
	// Insertion sort by count keeps the declaration-order tie behavior of
	// the seeded slice; the kind set is six wide.
	for i := 1; i < len(top); i++ {
		for j := i; j > 0 && a.counts[top[j]] > a.counts[top[j-1]]; j-- {
			top[j], top[j-1] = top[j-1], top[j]
		}
	}
	if len(top) > n {
		top = top[:n]
	}
	return top
}

// CurrentFor returns the viewer's selected kind, if any.
func (a *ReactionAggregate) CurrentFor(viewer string) (ReactionKind, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	k, ok := a.current[viewer]
	return k, ok
}

// Count returns one kind's count.
func (a *ReactionAggregate) Count(kind ReactionKind) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts[kind]
}

// UsersFor returns a copy of one kind's user set.
func (a *ReactionAggregate) UsersFor(kind ReactionKind) []ReactionEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ReactionEntry, len(a.users[kind]))
	copy(out, a.users[kind])
	return out
}

// Breakdown is a read-only snapshot of an aggregate, shaped for the API.
type Breakdown struct {
	Total  int                              `json:"total"`
	Counts map[ReactionKind]int             `json:"counts"`
	Users  map[ReactionKind][]ReactionEntry `json:"users"`
	Top    []ReactionKind                   `json:"top"`
}

// Snapshot captures the aggregate under one lock acquisition.
func (a *ReactionAggregate) Snapshot() Breakdown {
	a.mu.Lock()
	counts := make(map[ReactionKind]int, len(a.counts))
	users := make(map[ReactionKind][]ReactionEntry, len(a.users))
	total := 0
	for _, k := range ReactionKinds {
		if a.counts[k] == 0 {
			continue
		}
		counts[k] = a.counts[k]
		total += a.counts[k]
		entries := make([]ReactionEntry, len(a.users[k]))
		copy(entries, a.users[k])
		users[k] = entries
	}
	a.mu.Unlock()

	return Breakdown{
		Total:  total,
		Counts: counts,
		Users:  users,
		Top:    a.TopKinds(3),
	}
}

// Seed loads persisted entries into an aggregate, rebuilding counts and
// per-viewer selections. Entries for a viewer beyond the first per kind
// are ignored to keep the single-choice invariant.
func (a *ReactionAggregate) Seed(entries []ReactionEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, e := range entries {
		if !e.Kind.Valid() {
			continue
		}
		if _, taken := a.current[e.UserName]; taken {
			continue
		}
		a.users[e.Kind] = append(a.users[e.Kind], ReactionEntry{UserName: e.UserName, Kind: e.Kind})
		a.counts[e.Kind]++
		a.current[e.UserName] = e.Kind
	}
}
