package market

import "github.com/overtimestaff/marketboard/internal/model"

// IndexSize is the number of listings in each projection.
const IndexSize = 4

// Reconciler merges snapshot and realtime events into the active list.
// It is not safe for concurrent use; Board serializes access.
type Reconciler struct {
	items []model.MarketUpdate
	max   int
}

// NewReconciler creates an empty reconciler holding at most model.MaxActive items.
func NewReconciler() *Reconciler {
	return &Reconciler{max: model.MaxActive}
}

// Seed replaces the list with a snapshot, keeping its order.
func (r *Reconciler) Seed(list []model.MarketUpdate) {
	n := min(len(list), r.max)
	r.items = make([]model.MarketUpdate, n)
	copy(r.items, list[:n])
}

// ApplyInsert prepends u and evicts from the tail beyond capacity.
// Duplicate IDs are not collapsed.
func (r *Reconciler) ApplyInsert(u model.MarketUpdate) {
	items := make([]model.MarketUpdate, 0, r.max)
	items = append(items, u)
	items = append(items, r.items...)
	if len(items) > r.max {
		items = items[:r.max]
	}
	r.items = items
}

// ApplyUpdate replaces every listing with u's ID in place.
// It reports whether any listing matched.
func (r *Reconciler) ApplyUpdate(u model.MarketUpdate) bool {
	found := false
	for i := range r.items {
		if r.items[i].ID == u.ID {
			r.items[i] = u
			found = true
		}
	}
	return found
}

// Items returns a copy of the active list.
func (r *Reconciler) Items() []model.MarketUpdate {
	out := make([]model.MarketUpdate, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of active listings.
func (r *Reconciler) Len() int {
	return len(r.items)
}

// LiveIndex returns the first IndexSize listings that are not swaps.
func (r *Reconciler) LiveIndex() []model.MarketUpdate {
	return r.take(func(u model.MarketUpdate) bool {
		return u.Type != model.CategorySwap
	})
}

// EmergencyIndex returns the first IndexSize urgent or swap listings.
func (r *Reconciler) EmergencyIndex() []model.MarketUpdate {
	return r.take(func(u model.MarketUpdate) bool {
		return u.Type == model.CategoryUrgent || u.Type == model.CategorySwap
	})
}

func (r *Reconciler) take(keep func(model.MarketUpdate) bool) []model.MarketUpdate {
	out := make([]model.MarketUpdate, 0, IndexSize)
	for _, u := range r.items {
		if len(out) == IndexSize {
			break
		}
		if keep(u) {
			out = append(out, u)
		}
	}
	return out
}
