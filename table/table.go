package table

import (
	"fmt"
	"iter"
	"maps"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/arloliu/partab/errs"
	"github.com/arloliu/partab/value"
)

// Table is a partition of n entities into an unbounded number of groups under a
// Chinese Restaurant Process prior with concentration alpha.
//
// Group ids are handed out by CreateGroup in increasing order and never reused, so
// they stay stable across deletions. Active groups with no members are tracked in an
// empty set, which Pseudocount uses to split alpha among the seats a sampler could
// open.
//
// Note: Table is NOT thread-safe. Drive each table from a single goroutine.
type Table[T any] struct {
	cfg *Config

	alpha       float64
	assignments []int64
	groups      map[uint64]*Group[T]
	empty       *roaring64.Bitmap
	nextID      uint64
	assigned    int
}

// NewTable creates a table over n entities, all unassigned, with no groups.
//
// Returns errs.ErrInvalidEntityCount if n <= 0.
func NewTable[T any](n int, opts ...Option) (*Table[T], error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidEntityCount, n)
	}

	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	t := &Table[T]{
		cfg:         cfg,
		alpha:       cfg.alpha,
		assignments: make([]int64, n),
		groups:      make(map[uint64]*Group[T]),
		empty:       roaring64.New(),
	}
	for i := range t.assignments {
		t.assignments[i] = Unassigned
	}

	cfg.logger.Debug("table created", "table", cfg.name, "entities", n, "alpha", t.alpha)

	return t, nil
}

// CreateGroup allocates the next group id as an empty active group and returns it
// with a handle to its zero-valued aggregate for the caller to initialize.
func (t *Table[T]) CreateGroup() (uint64, *T) {
	gid := t.nextID
	t.nextID++

	g := &Group[T]{}
	t.groups[gid] = g
	t.empty.Add(gid)

	t.cfg.metrics.RecordGroupCreated(t.cfg.name)
	t.cfg.metrics.RecordActiveGroups(t.cfg.name, len(t.groups))
	t.verify()

	return gid, &g.Data
}

// DeleteGroup removes an empty active group.
//
// Returns errs.ErrInvalidGroupID if gid is not active and errs.ErrGroupNotEmpty if it
// still has members. The table is unchanged on error.
func (t *Table[T]) DeleteGroup(gid uint64) error {
	g, ok := t.groups[gid]
	if !ok {
		return fmt.Errorf("%w: %d", errs.ErrInvalidGroupID, gid)
	}
	if g.Count != 0 {
		return fmt.Errorf("%w: group %d has %d members", errs.ErrGroupNotEmpty, gid, g.Count)
	}

	delete(t.groups, gid)
	t.empty.Remove(gid)

	t.cfg.metrics.RecordGroupDeleted(t.cfg.name)
	t.cfg.metrics.RecordActiveGroups(t.cfg.name, len(t.groups))
	t.verify()

	return nil
}

// AddValue assigns entity eid to group gid and returns the group's aggregate so the
// caller can fold the entity's observation into it.
//
// Returns errs.ErrInvalidEntityID, errs.ErrEntityAssigned or errs.ErrInvalidGroupID.
// The table is unchanged on error.
func (t *Table[T]) AddValue(gid uint64, eid int) (*T, error) {
	if eid < 0 || eid >= len(t.assignments) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", errs.ErrInvalidEntityID, eid, len(t.assignments))
	}
	if cur := t.assignments[eid]; cur != Unassigned {
		return nil, fmt.Errorf("%w: entity %d is in group %d", errs.ErrEntityAssigned, eid, cur)
	}
	g, ok := t.groups[gid]
	if !ok {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidGroupID, gid)
	}

	if g.Count == 0 {
		t.empty.Remove(gid)
	}
	g.Count++
	t.assignments[eid] = int64(gid) //nolint:gosec
	t.assigned++
	t.verify()

	return &g.Data, nil
}

// RemoveValue unassigns entity eid and returns its former group id and aggregate so
// the caller can take the entity's observation back out.
//
// Returns errs.ErrInvalidEntityID or errs.ErrEntityNotAssigned. The table is unchanged
// on error.
func (t *Table[T]) RemoveValue(eid int) (uint64, *T, error) {
	if eid < 0 || eid >= len(t.assignments) {
		return 0, nil, fmt.Errorf("%w: %d not in [0, %d)", errs.ErrInvalidEntityID, eid, len(t.assignments))
	}
	cur := t.assignments[eid]
	if cur == Unassigned {
		return 0, nil, fmt.Errorf("%w: entity %d", errs.ErrEntityNotAssigned, eid)
	}

	gid := uint64(cur)
	g := t.groups[gid]
	g.Count--
	if g.Count == 0 {
		t.empty.Add(gid)
	}
	t.assignments[eid] = Unassigned
	t.assigned--
	t.verify()

	return gid, &g.Data, nil
}

// ScoreAssignment returns the log-probability of the current partition under the
// CRP prior.
//
// Assigned entities are visited in index order. Each one either joins a group seen
// earlier in the sweep, with weight equal to that group's running count, or opens a
// new one with weight alpha, normalized by (entities seen so far + alpha). The
// product equals the Ewens formula
//
//	alpha^K * Γ(alpha) / Γ(alpha + m) * Π_k (n_k - 1)!
//
// for m assigned entities in K groups, so the result does not depend on which
// entities hold which ids. Unassigned entities are skipped, and a table with no
// assignments scores 0.
func (t *Table[T]) ScoreAssignment() float64 {
	seen := make(map[int64]int, len(t.groups))
	score := 0.0
	m := 0

	for _, gid := range t.assignments {
		if gid == Unassigned {
			continue
		}

		numer := t.alpha
		if c := seen[gid]; c > 0 {
			numer = float64(c)
		}
		score += math.Log(numer / (float64(m) + t.alpha))

		seen[gid]++
		m++
	}

	return score
}

// Pseudocount returns the weight of joining group gid: its member count, or for an
// empty group alpha split evenly over all empty groups.
//
// Returns errs.ErrInvalidGroupID if gid is not active.
func (t *Table[T]) Pseudocount(gid uint64) (float64, error) {
	g, ok := t.groups[gid]
	if !ok {
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidGroupID, gid)
	}
	if g.Count > 0 {
		return float64(g.Count), nil
	}

	return t.alpha / float64(t.empty.GetCardinality()), nil
}

// Alpha returns the concentration parameter.
func (t *Table[T]) Alpha() float64 {
	return t.alpha
}

// SetAlpha replaces the concentration parameter.
//
// Returns errs.ErrInvalidConcentration unless alpha is finite and positive.
func (t *Table[T]) SetAlpha(alpha float64) error {
	if err := validateConcentration(alpha); err != nil {
		return err
	}
	t.alpha = alpha

	return nil
}

// GetHPMutator returns an in-place view of a named hyperparameter. The only key is
// "alpha". Writes through the view bypass validation, so callers perturbing alpha
// must keep it positive.
func (t *Table[T]) GetHPMutator(key string) (value.Mutator, error) {
	if key != "alpha" {
		return value.Mutator{}, fmt.Errorf("%w: %q", errs.ErrUnknownKey, key)
	}

	return value.ScalarMutator(&t.alpha), nil
}

// NumEntities returns the population size n.
func (t *Table[T]) NumEntities() int { return len(t.assignments) }

// NumGroups returns the number of active groups, empty ones included.
func (t *Table[T]) NumGroups() int { return len(t.groups) }

// NumAssigned returns the number of entities that belong to a group.
func (t *Table[T]) NumAssigned() int { return t.assigned }

// AllAssigned reports whether every entity belongs to a group.
func (t *Table[T]) AllAssigned() bool { return t.assigned == len(t.assignments) }

// NoneAssigned reports whether no entity belongs to a group.
func (t *Table[T]) NoneAssigned() bool { return t.assigned == 0 }

// NextGroupID returns the id the next CreateGroup call will allocate.
func (t *Table[T]) NextGroupID() uint64 { return t.nextID }

// Assignment returns the group id of eid, or Unassigned.
func (t *Table[T]) Assignment(eid int) (int64, error) {
	if eid < 0 || eid >= len(t.assignments) {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", errs.ErrInvalidEntityID, eid, len(t.assignments))
	}

	return t.assignments[eid], nil
}

// Assignments returns a copy of the assignment vector.
func (t *Table[T]) Assignments() []int64 {
	return slices.Clone(t.assignments)
}

// IsActive reports whether gid is an active group.
func (t *Table[T]) IsActive(gid uint64) bool {
	_, ok := t.groups[gid]
	return ok
}

// IsEmpty reports whether gid is an active group with no members.
func (t *Table[T]) IsEmpty(gid uint64) bool {
	return t.empty.Contains(gid)
}

// GroupSize returns the member count of gid.
func (t *Table[T]) GroupSize(gid uint64) (int, error) {
	g, ok := t.groups[gid]
	if !ok {
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidGroupID, gid)
	}

	return g.Count, nil
}

// GroupData returns the aggregate of gid.
func (t *Table[T]) GroupData(gid uint64) (*T, error) {
	g, ok := t.groups[gid]
	if !ok {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidGroupID, gid)
	}

	return &g.Data, nil
}

// GroupIDs returns the active group ids in ascending order.
func (t *Table[T]) GroupIDs() []uint64 {
	return slices.Sorted(maps.Keys(t.groups))
}

// EmptyGroups returns the ids of active groups with no members in ascending order.
func (t *Table[T]) EmptyGroups() []uint64 {
	return t.empty.ToArray()
}

// Groups iterates the active groups in ascending id order. The yielded Group is a
// copy; use GroupData to mutate an aggregate. Groups deleted during iteration and
// not yet reached are skipped; groups created during iteration are not visited.
func (t *Table[T]) Groups() iter.Seq2[uint64, Group[T]] {
	return func(yield func(uint64, Group[T]) bool) {
		for _, gid := range t.GroupIDs() {
			g, ok := t.groups[gid]
			if !ok {
				continue
			}
			if !yield(gid, *g) {
				return
			}
		}
	}
}

// String summarizes the table for logs.
func (t *Table[T]) String() string {
	return fmt.Sprintf("Table{n=%d, groups=%d, empty=%d, assigned=%d, alpha=%g}",
		len(t.assignments), len(t.groups), t.empty.GetCardinality(), t.assigned, t.alpha)
}
