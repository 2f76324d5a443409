// Package reactions keeps a per-content-item cache of reaction counts with
// optimistic local mutation. The server stays authoritative for counts: every
// successful fetch or mutation wholesale-replaces the cached count map, while
// the locally chosen kind is only authoritative for "which kind did I just
// pick" until the next re-fetch lands.
package reactions

import (
	"context"
	"log"
	"sync"

	"github.com/bramble-app/bramble-go/internal/api"
)

// Identity exposes the local user's id; the session manager satisfies it.
type Identity interface {
	UserID() string
}

// Key identifies one content item's reaction state.
type Key struct {
	Type api.ContentType
	ID   string
}

type state struct {
	counts   map[string]int
	own      string // "" when the local user has no recorded reaction
	selected string // display kind; defaults to like
}

// Aggregator is the reaction cache. Safe for concurrent callers; the count
// map is last-write-wins, which is fine because it is always replaced from a
// server fetch, never field-merged.
type Aggregator struct {
	client *api.Client
	self   Identity

	mu    sync.Mutex
	items map[Key]*state
}

func NewAggregator(client *api.Client, self Identity) *Aggregator {
	return &Aggregator{client: client, self: self, items: make(map[Key]*state)}
}

// EnsureLoaded lazily hydrates the cache for one content item. A key whose
// count map is already cached is a no-op. The fetched reaction list is
// scanned for the local user's own reaction.
func (a *Aggregator) EnsureLoaded(ctx context.Context, key Key) error {
	a.mu.Lock()
	if item, ok := a.items[key]; ok && item.counts != nil {
		a.mu.Unlock()
		return nil
	}
	a.mu.Unlock()

	summary, err := a.client.GetReactions(ctx, key.Type, key.ID)
	if err != nil {
		return err
	}

	counts := countMap(summary)

	own := ""
	selfID := ""
	if a.self != nil {
		selfID = a.self.UserID()
	}
	for _, r := range summary.Reactions {
		if selfID != "" && r.UserID == selfID && r.ReactionName != "" {
			own = r.ReactionName
			break
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	item := a.itemLocked(key)
	item.counts = counts
	if own != "" {
		item.own = own
		item.selected = own
	}
	return nil
}

// Choose optimistically records kind as the local user's reaction, sends the
// mutation, then refreshes the count map from the server. A failed mutation
// propagates to the caller but the optimistic kind stays: the next successful
// re-fetch reconciles it.
func (a *Aggregator) Choose(ctx context.Context, key Key, kind string) error {
	a.mu.Lock()
	item := a.itemLocked(key)
	item.own = kind
	item.selected = kind
	a.mu.Unlock()

	err := a.client.SetReaction(ctx, key.Type, key.ID, kind)
	a.refreshCounts(ctx, key)
	return err
}

// QuickToggle implements single-tap semantics: no reaction picks like, an
// existing like is removed, any other kind switches to like.
func (a *Aggregator) QuickToggle(ctx context.Context, key Key) error {
	if err := a.EnsureLoaded(ctx, key); err != nil {
		return err
	}

	switch a.Own(key) {
	case "":
		return a.Choose(ctx, key, api.ReactionLike)
	case api.ReactionLike:
		return a.Remove(ctx, key)
	default:
		return a.Choose(ctx, key, api.ReactionLike)
	}
}

// Remove deletes the local user's reaction, clears the own kind and
// refreshes counts. When the delete request fails the own kind is left as it
// was, matching the eventual-consistency behavior of Choose.
func (a *Aggregator) Remove(ctx context.Context, key Key) error {
	if err := a.client.RemoveReaction(ctx, key.Type, key.ID); err != nil {
		return err
	}

	a.mu.Lock()
	a.itemLocked(key).own = ""
	a.mu.Unlock()

	a.refreshCounts(ctx, key)
	return nil
}

// Invalidate drops one item from the cache so the next EnsureLoaded
// re-fetches it.
func (a *Aggregator) Invalidate(key Key) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.items, key)
}

// Own returns the local user's recorded kind for the item, or "".
func (a *Aggregator) Own(key Key) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if item, ok := a.items[key]; ok {
		return item.own
	}
	return ""
}

// Selected returns the display kind for the item, defaulting to like.
func (a *Aggregator) Selected(key Key) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if item, ok := a.items[key]; ok && item.selected != "" {
		return item.selected
	}
	return api.ReactionLike
}

// DisplayCount returns how many *other* users reacted with kind: the cached
// count minus one iff the local user's own kind equals it. This compensates
// for the count already including the optimistic local vote before the
// server's confirmation lands.
func (a *Aggregator) DisplayCount(key Key, kind string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	item, ok := a.items[key]
	if !ok {
		return 0
	}
	total := item.counts[kind]
	if item.own == kind {
		total--
		if total < 0 {
			total = 0
		}
	}
	return total
}

// Total returns the sum over every kind's cached count.
func (a *Aggregator) Total(key Key) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	item, ok := a.items[key]
	if !ok {
		return 0
	}
	sum := 0
	for _, n := range item.counts {
		sum += n
	}
	return sum
}

// Counts returns a copy of the cached count map.
func (a *Aggregator) Counts(key Key) map[string]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	item, ok := a.items[key]
	if !ok {
		return map[string]int{}
	}
	out := make(map[string]int, len(item.counts))
	for kind, n := range item.counts {
		out[kind] = n
	}
	return out
}

// refreshCounts replaces the cached count map from the server. A failed
// fetch keeps the previous counts; the kinds the user picked are never
// touched here.
func (a *Aggregator) refreshCounts(ctx context.Context, key Key) {
	summary, err := a.client.GetReactions(ctx, key.Type, key.ID)
	if err != nil {
		log.Printf("[reactions] failed to refresh counts for %s/%s: %v", key.Type, key.ID, err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.itemLocked(key).counts = countMap(summary)
}

func (a *Aggregator) itemLocked(key Key) *state {
	item, ok := a.items[key]
	if !ok {
		item = &state{}
		a.items[key] = item
	}
	return item
}

func countMap(summary *api.ReactionSummary) map[string]int {
	counts := make(map[string]int, len(summary.Counts))
	for _, c := range summary.Counts {
		if c.Name == "" {
			continue
		}
		counts[c.Name] = int(c.Count)
	}
	return counts
}
