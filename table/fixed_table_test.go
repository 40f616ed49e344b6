package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/partab/errs"
	"github.com/arloliu/partab/value"
)

func newTestFixedTable(t *testing.T, n, k int, opts ...Option) *FixedTable[tally] {
	t.Helper()

	opts = append([]Option{WithInvariantChecks(true)}, opts...)
	tbl, err := NewFixedTable[tally](n, k, opts...)
	require.NoError(t, err)

	return tbl
}

// dirichletMultinomial is the log marginal of one labeled sequence with the given counts.
func dirichletMultinomial(alphas []float64, counts []int) float64 {
	a, m := 0.0, 0
	score := 0.0
	for i, alpha := range alphas {
		a += alpha
		m += counts[i]
		score += lgamma(alpha+float64(counts[i])) - lgamma(alpha)
	}

	return score + lgamma(a) - lgamma(a+float64(m))
}

func TestNewFixedTable(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		tbl, err := NewFixedTable[tally](4, 3)
		require.NoError(t, err)

		assert.Equal(t, 4, tbl.NumEntities())
		assert.Equal(t, 3, tbl.NumGroups())
		assert.Equal(t, []float64{1, 1, 1}, tbl.Alphas())
		assert.Equal(t, 0, tbl.NumAssigned())
	})

	t.Run("uniform alpha", func(t *testing.T) {
		tbl, err := NewFixedTable[tally](4, 2, WithAlpha(0.5))
		require.NoError(t, err)
		assert.Equal(t, []float64{0.5, 0.5}, tbl.Alphas())
	})

	t.Run("explicit alphas", func(t *testing.T) {
		alphas := []float64{1, 2, 3}
		tbl, err := NewFixedTable[tally](4, 3, WithAlphas(alphas))
		require.NoError(t, err)

		alphas[0] = 99
		assert.Equal(t, []float64{1, 2, 3}, tbl.Alphas())
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := NewFixedTable[tally](0, 2)
		require.ErrorIs(t, err, errs.ErrInvalidEntityCount)

		_, err = NewFixedTable[tally](3, 0)
		require.ErrorIs(t, err, errs.ErrInvalidGroupCount)

		_, err = NewFixedTable[tally](3, 2, WithAlphas([]float64{1}))
		require.ErrorIs(t, err, errs.ErrSizeMismatch)

		_, err = NewFixedTable[tally](3, 2, WithAlphas([]float64{1, 0}))
		require.ErrorIs(t, err, errs.ErrInvalidConcentration)
	})
}

func TestFixedTable_ScenarioB(t *testing.T) {
	tbl := newTestFixedTable(t, 5, 2, WithAlphas([]float64{1.0, 1.0}))

	for eid, gid := range []uint64{0, 1, 0, 1, 0} {
		_, err := tbl.AddValue(gid, eid)
		require.NoError(t, err)
	}

	n0, err := tbl.GroupSize(0)
	require.NoError(t, err)
	n1, err := tbl.GroupSize(1)
	require.NoError(t, err)
	assert.Equal(t, 3, n0)
	assert.Equal(t, 2, n1)

	// Beta(4, 3) = 3! 2! / 6! = 1/60
	assert.InDelta(t, math.Log(1.0/60.0), tbl.ScoreAssignment(), 1e-12)
	assert.InDelta(t, dirichletMultinomial([]float64{1, 1}, []int{3, 2}), tbl.ScoreAssignment(), 1e-12)
}

func TestFixedTable_SingleGroupScoresZero(t *testing.T) {
	for _, alpha := range []float64{0.1, 1, 7.5} {
		tbl := newTestFixedTable(t, 6, 1, WithAlpha(alpha))
		for eid := range 6 {
			_, err := tbl.AddValue(0, eid)
			require.NoError(t, err)
		}
		assert.InDelta(t, 0.0, tbl.ScoreAssignment(), 1e-9, "alpha %v", alpha)
	}
}

func TestFixedTable_ScoreAssignment(t *testing.T) {
	alphas := []float64{0.3, 2.0, 1.1, 4.0}
	tbl := newTestFixedTable(t, 12, 4, WithAlphas(alphas))
	assert.InDelta(t, 0.0, tbl.ScoreAssignment(), 1e-12)

	labels := []uint64{3, 1, 1, 0, 3, 3, 2, 1, 3, 0}
	counts := make([]int, 4)
	for eid, gid := range labels {
		_, err := tbl.AddValue(gid, eid)
		require.NoError(t, err)
		counts[gid]++
	}

	assert.InDelta(t, dirichletMultinomial(alphas, counts), tbl.ScoreAssignment(), 1e-9)
}

func TestFixedTable_AddRemove(t *testing.T) {
	tbl := newTestFixedTable(t, 3, 2)

	agg, err := tbl.AddValue(1, 2)
	require.NoError(t, err)
	agg.N++

	a, err := tbl.Assignment(2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), a)

	gid, got, err := tbl.RemoveValue(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), gid)
	assert.Equal(t, 1, got.N)
	assert.Equal(t, []int64{Unassigned, Unassigned, Unassigned}, tbl.Assignments())

	var sizes []int
	for _, g := range tbl.Groups() {
		sizes = append(sizes, g.Count)
	}
	assert.Equal(t, []int{0, 0}, sizes)
}

func TestFixedTable_ErrorsLeaveStateUntouched(t *testing.T) {
	tbl := newTestFixedTable(t, 3, 2, WithAlphas([]float64{1, 2}))
	_, err := tbl.AddValue(0, 0)
	require.NoError(t, err)

	assignments := tbl.Assignments()
	alphas := tbl.Alphas()

	_, err = tbl.AddValue(2, 1)
	require.ErrorIs(t, err, errs.ErrInvalidGroupID)
	_, err = tbl.AddValue(1, 0)
	require.ErrorIs(t, err, errs.ErrEntityAssigned)
	_, err = tbl.AddValue(1, 3)
	require.ErrorIs(t, err, errs.ErrInvalidEntityID)
	_, _, err = tbl.RemoveValue(1)
	require.ErrorIs(t, err, errs.ErrEntityNotAssigned)
	err = tbl.SetAlphas([]float64{1})
	require.ErrorIs(t, err, errs.ErrSizeMismatch)
	err = tbl.SetAlphas([]float64{3, -1})
	require.ErrorIs(t, err, errs.ErrInvalidConcentration)
	_, err = tbl.Pseudocount(5)
	require.ErrorIs(t, err, errs.ErrInvalidGroupID)
	_, err = tbl.GroupData(2)
	require.ErrorIs(t, err, errs.ErrInvalidGroupID)

	assert.Equal(t, assignments, tbl.Assignments())
	assert.Equal(t, alphas, tbl.Alphas())
	assert.Equal(t, 1, tbl.NumAssigned())
}

func TestFixedTable_Pseudocount(t *testing.T) {
	tbl := newTestFixedTable(t, 4, 2, WithAlphas([]float64{0.5, 2}))
	for _, eid := range []int{0, 1, 2} {
		_, err := tbl.AddValue(1, eid)
		require.NoError(t, err)
	}

	p0, err := tbl.Pseudocount(0)
	require.NoError(t, err)
	p1, err := tbl.Pseudocount(1)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p0, 1e-12)
	assert.InDelta(t, 5.0, p1, 1e-12)
}

func TestFixedTable_HPMutator(t *testing.T) {
	tbl := newTestFixedTable(t, 4, 3)
	for eid, gid := range []uint64{0, 0, 2, 1} {
		_, err := tbl.AddValue(gid, eid)
		require.NoError(t, err)
	}

	m, err := tbl.GetHPMutator("alphas")
	require.NoError(t, err)
	assert.Equal(t, value.Vector(value.TypeFloat64, 3), m.Type())

	m.SetFloat64(1, 4.0)
	value.Set(m, 2, float32(0.5))
	assert.Equal(t, []float64{1, 4, 0.5}, tbl.Alphas())
	assert.InDelta(t, dirichletMultinomial([]float64{1, 4, 0.5}, []int{2, 1, 1}), tbl.ScoreAssignment(), 1e-12)

	_, err = tbl.GetHPMutator("alpha")
	require.ErrorIs(t, err, errs.ErrUnknownKey)

	require.NoError(t, tbl.SetAlphas([]float64{2, 2, 2}))
	assert.Equal(t, 2.0, m.Accessor().Float64(0))
}

func TestFixedTable_InvariantChecks(t *testing.T) {
	tbl := newTestFixedTable(t, 3, 2)
	tbl.groups[1].Count = 4

	assert.Panics(t, func() { _, _ = tbl.AddValue(0, 0) })
}

func TestFixedTable_String(t *testing.T) {
	tbl := newTestFixedTable(t, 3, 2)
	assert.Equal(t, "FixedTable{n=3, k=2, assigned=0}", tbl.String())
}
