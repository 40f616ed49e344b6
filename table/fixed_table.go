package table

import (
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/arloliu/partab/errs"
	"github.com/arloliu/partab/value"
)

// FixedTable is a partition of n entities into exactly K groups under a finite
// Dirichlet-discrete prior with one weight per group.
//
// All K groups exist for the table's lifetime, so there is no create, delete or
// empty-set bookkeeping.
//
// Note: FixedTable is NOT thread-safe. Drive each table from a single goroutine.
type FixedTable[T any] struct {
	cfg *Config

	alphas      []float64
	assignments []int64
	groups      []Group[T]
	assigned    int
}

// NewFixedTable creates a table over n entities and k groups, all entities unassigned.
//
// Returns errs.ErrInvalidEntityCount if n <= 0, errs.ErrInvalidGroupCount if k <= 0, or
// errs.ErrSizeMismatch if WithAlphas was given a vector whose length is not k.
func NewFixedTable[T any](n, k int, opts ...Option) (*FixedTable[T], error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidEntityCount, n)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidGroupCount, k)
	}

	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	alphas := cfg.alphas
	if alphas == nil {
		alphas = make([]float64, k)
		for i := range alphas {
			alphas[i] = cfg.alpha
		}
	} else if len(alphas) != k {
		return nil, fmt.Errorf("%w: %d alphas for %d groups", errs.ErrSizeMismatch, len(alphas), k)
	}

	t := &FixedTable[T]{
		cfg:         cfg,
		alphas:      alphas,
		assignments: make([]int64, n),
		groups:      make([]Group[T], k),
	}
	for i := range t.assignments {
		t.assignments[i] = Unassigned
	}

	cfg.logger.Debug("fixed table created", "table", cfg.name, "entities", n, "groups", k)

	return t, nil
}

// AddValue assigns entity eid to group gid and returns the group's aggregate.
//
// Returns errs.ErrInvalidEntityID, errs.ErrEntityAssigned or errs.ErrInvalidGroupID
// (gid outside [0, K)). The table is unchanged on error.
func (t *FixedTable[T]) AddValue(gid uint64, eid int) (*T, error) {
	if eid < 0 || eid >= len(t.assignments) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", errs.ErrInvalidEntityID, eid, len(t.assignments))
	}
	if cur := t.assignments[eid]; cur != Unassigned {
		return nil, fmt.Errorf("%w: entity %d is in group %d", errs.ErrEntityAssigned, eid, cur)
	}
	if gid >= uint64(len(t.groups)) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", errs.ErrInvalidGroupID, gid, len(t.groups))
	}

	g := &t.groups[gid]
	g.Count++
	t.assignments[eid] = int64(gid) //nolint:gosec
	t.assigned++
	t.verify()

	return &g.Data, nil
}

// RemoveValue unassigns entity eid and returns its former group id and aggregate.
//
// Returns errs.ErrInvalidEntityID or errs.ErrEntityNotAssigned. The table is unchanged
// on error.
func (t *FixedTable[T]) RemoveValue(eid int) (uint64, *T, error) {
	if eid < 0 || eid >= len(t.assignments) {
		return 0, nil, fmt.Errorf("%w: %d not in [0, %d)", errs.ErrInvalidEntityID, eid, len(t.assignments))
	}
	cur := t.assignments[eid]
	if cur == Unassigned {
		return 0, nil, fmt.Errorf("%w: entity %d", errs.ErrEntityNotAssigned, eid)
	}

	g := &t.groups[cur]
	g.Count--
	t.assignments[eid] = Unassigned
	t.assigned--
	t.verify()

	return uint64(cur), &g.Data, nil
}

// ScoreAssignment returns the Dirichlet-multinomial log marginal of the current
// assignment:
//
//	Σ_i [lgamma(alpha_i + count_i) - lgamma(alpha_i)] + lgamma(A) - lgamma(A + N)
//
// where A is the sum of the weights and N the number of assigned entities.
func (t *FixedTable[T]) ScoreAssignment() float64 {
	score := 0.0
	alphaSum := 0.0
	countSum := 0

	for i, alpha := range t.alphas {
		count := t.groups[i].Count
		alphaSum += alpha
		countSum += count
		score += lgamma(alpha+float64(count)) - lgamma(alpha)
	}

	return score + lgamma(alphaSum) - lgamma(alphaSum+float64(countSum))
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

// Pseudocount returns alpha_gid + count_gid.
//
// Returns errs.ErrInvalidGroupID if gid is outside [0, K).
func (t *FixedTable[T]) Pseudocount(gid uint64) (float64, error) {
	if gid >= uint64(len(t.groups)) {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", errs.ErrInvalidGroupID, gid, len(t.groups))
	}

	return t.alphas[gid] + float64(t.groups[gid].Count), nil
}

// Alphas returns a copy of the Dirichlet weights.
func (t *FixedTable[T]) Alphas() []float64 {
	return slices.Clone(t.alphas)
}

// SetAlphas replaces the Dirichlet weights.
//
// Returns errs.ErrSizeMismatch if len(alphas) != K and errs.ErrInvalidConcentration if
// any weight is not finite and positive. The table is unchanged on error.
func (t *FixedTable[T]) SetAlphas(alphas []float64) error {
	if len(alphas) != len(t.alphas) {
		return fmt.Errorf("%w: %d alphas for %d groups", errs.ErrSizeMismatch, len(alphas), len(t.alphas))
	}
	for _, a := range alphas {
		if err := validateConcentration(a); err != nil {
			return err
		}
	}
	copy(t.alphas, alphas)

	return nil
}

// GetHPMutator returns an in-place view of a named hyperparameter. The only key is
// "alphas", a K-element vector view.
func (t *FixedTable[T]) GetHPMutator(key string) (value.Mutator, error) {
	if key != "alphas" {
		return value.Mutator{}, fmt.Errorf("%w: %q", errs.ErrUnknownKey, key)
	}

	return value.MutatorOf(t.alphas), nil
}

// NumEntities returns the population size n.
func (t *FixedTable[T]) NumEntities() int { return len(t.assignments) }

// NumGroups returns K.
func (t *FixedTable[T]) NumGroups() int { return len(t.groups) }

// NumAssigned returns the number of entities that belong to a group.
func (t *FixedTable[T]) NumAssigned() int { return t.assigned }

// Assignment returns the group id of eid, or Unassigned.
func (t *FixedTable[T]) Assignment(eid int) (int64, error) {
	if eid < 0 || eid >= len(t.assignments) {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", errs.ErrInvalidEntityID, eid, len(t.assignments))
	}

	return t.assignments[eid], nil
}

// Assignments returns a copy of the assignment vector.
func (t *FixedTable[T]) Assignments() []int64 {
	return slices.Clone(t.assignments)
}

// GroupSize returns the member count of gid.
func (t *FixedTable[T]) GroupSize(gid uint64) (int, error) {
	if gid >= uint64(len(t.groups)) {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", errs.ErrInvalidGroupID, gid, len(t.groups))
	}

	return t.groups[gid].Count, nil
}

// GroupData returns the aggregate of gid.
func (t *FixedTable[T]) GroupData(gid uint64) (*T, error) {
	if gid >= uint64(len(t.groups)) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", errs.ErrInvalidGroupID, gid, len(t.groups))
	}

	return &t.groups[gid].Data, nil
}

// Groups iterates all K groups in id order. The yielded Group is a copy.
func (t *FixedTable[T]) Groups() iter.Seq2[uint64, Group[T]] {
	return func(yield func(uint64, Group[T]) bool) {
		for i := range t.groups {
			if !yield(uint64(i), t.groups[i]) {
				return
			}
		}
	}
}

// String summarizes the table for logs.
func (t *FixedTable[T]) String() string {
	return fmt.Sprintf("FixedTable{n=%d, k=%d, assigned=%d}", len(t.assignments), len(t.groups), t.assigned)
}
