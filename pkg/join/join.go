// Package join reconciles a keyed data set against the nodes built for the
// previous data set.
//
// Diff computes which keys were added, kept, and removed. Join drives node
// lifecycle from that diff: nodes for new keys are created, nodes for removed
// keys are destroyed, and every surviving node is updated unconditionally.
package join

// Changeset lists keys by change type. Added and Kept follow the order of the
// updated set; Removed follows the order of the existing set.
type Changeset[K comparable] struct {
	Added   []K
	Kept    []K
	Removed []K
}

// HasChanges reports whether any key was added or removed.
func (c Changeset[K]) HasChanges() bool {
	return len(c.Added) > 0 || len(c.Removed) > 0
}

// Diff compares two key lists. Repeated keys count once, at their first
// position.
func Diff[K comparable](existing, updated []K) Changeset[K] {
	cs := Changeset[K]{
		Added:   []K{},
		Kept:    []K{},
		Removed: []K{},
	}

	existingSet := make(map[K]struct{}, len(existing))
	for _, k := range existing {
		existingSet[k] = struct{}{}
	}

	updatedSet := make(map[K]struct{}, len(updated))
	for _, k := range updated {
		if _, dup := updatedSet[k]; dup {
			continue
		}
		updatedSet[k] = struct{}{}
		if _, ok := existingSet[k]; ok {
			cs.Kept = append(cs.Kept, k)
		} else {
			cs.Added = append(cs.Added, k)
		}
	}

	seen := make(map[K]struct{}, len(existing))
	for _, k := range existing {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := updatedSet[k]; !ok {
			cs.Removed = append(cs.Removed, k)
		}
	}

	return cs
}

// Hooks are the lifecycle callbacks of a Join. Create and Update are required;
// Destroy may be nil.
type Hooks[K comparable, D, N any] struct {
	Key     func(D) K
	Create  func(D) N
	Update  func(D, N)
	Destroy func(K, N)
}

// Join keeps one node per key of the last applied data set.
type Join[K comparable, D, N any] struct {
	hooks Hooks[K, D, N]
	nodes map[K]N
	order []K
}

// New creates an empty join.
func New[K comparable, D, N any](hooks Hooks[K, D, N]) *Join[K, D, N] {
	return &Join[K, D, N]{
		hooks: hooks,
		nodes: make(map[K]N),
	}
}

// Apply reconciles data against the current nodes and returns the key diff.
// Items whose key repeats an earlier item are ignored.
func (j *Join[K, D, N]) Apply(data []D) Changeset[K] {
	keys := make([]K, 0, len(data))
	items := make(map[K]D, len(data))
	for _, d := range data {
		k := j.hooks.Key(d)
		if _, dup := items[k]; dup {
			continue
		}
		items[k] = d
		keys = append(keys, k)
	}

	cs := Diff(j.order, keys)

	for _, k := range cs.Removed {
		if j.hooks.Destroy != nil {
			j.hooks.Destroy(k, j.nodes[k])
		}
		delete(j.nodes, k)
	}
	for _, k := range cs.Added {
		j.nodes[k] = j.hooks.Create(items[k])
	}
	for _, k := range keys {
		j.hooks.Update(items[k], j.nodes[k])
	}

	j.order = keys
	return cs
}

// Get returns the node bound to k.
func (j *Join[K, D, N]) Get(k K) (N, bool) {
	n, ok := j.nodes[k]
	return n, ok
}

// Keys returns the bound keys in data order.
func (j *Join[K, D, N]) Keys() []K {
	return append([]K(nil), j.order...)
}

// Nodes returns the bound nodes in data order.
func (j *Join[K, D, N]) Nodes() []N {
	out := make([]N, 0, len(j.order))
	for _, k := range j.order {
		out = append(out, j.nodes[k])
	}
	return out
}

// Len returns the number of bound keys.
func (j *Join[K, D, N]) Len() int {
	return len(j.order)
}
