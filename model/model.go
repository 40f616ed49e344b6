// Package model defines the contract between partition tables and the component
// likelihood families whose per-group state they carry.
//
// A Model describes one family and the shape of a single observation. Its Hypers hold
// the family's shared hyperparameters and create Groups, which keep the sufficient
// statistics of the observations assigned to one cluster. Tables store a Group as
// their per-group aggregate, so a sampler typically works with a
// table.Table[model.Group]:
//
//	h := betabern.New().CreateHypers()
//	tbl, _ := table.NewTable[model.Group](n)
//
//	gid, agg := tbl.CreateGroup()
//	*agg = h.CreateGroup(rng)
//
//	grp, _ := tbl.AddValue(gid, eid)
//	(*grp).AddValue(h, obs, rng)
//
// Hyperparameters and sufficient statistics are exchanged as opaque byte bags and,
// for in-place perturbation by samplers, through string-keyed value.Mutator views.
package model

import (
	"math/rand/v2"

	"github.com/arloliu/partab/value"
)

// Model is a likelihood family.
type Model interface {
	// CreateHypers returns hyperparameters at the family's defaults.
	CreateHypers() Hypers

	// RuntimeType is the type of one observation.
	RuntimeType() value.RuntimeType
}

// Hypers holds a family's shared hyperparameters.
type Hypers interface {
	GetHP() ([]byte, error)
	SetHP(bag []byte) error

	// GetHPMutator returns a writable view of one named hyperparameter. Unknown keys
	// return an error wrapping errs.ErrUnknownKey.
	GetHPMutator(key string) (value.Mutator, error)

	// CreateGroup returns a new empty group, drawing any group-level latent state
	// from the prior.
	CreateGroup(rng *rand.Rand) Group

	String() string
}

// Group holds the sufficient statistics of the observations assigned to one cluster.
//
// Every method takes the Hypers that created the group. Passing another family's
// Hypers is a programming error and panics.
type Group interface {
	AddValue(h Hypers, v value.Accessor, rng *rand.Rand)
	RemoveValue(h Hypers, v value.Accessor, rng *rand.Rand)

	// ScoreValue is the log predictive density of v given the group.
	ScoreValue(h Hypers, v value.Accessor, rng *rand.Rand) float64

	// ScoreData is the log joint density of the group's observations and latent state.
	ScoreData(h Hypers, rng *rand.Rand) float64

	// SampleValue writes a draw from the group's predictive distribution into m.
	SampleValue(h Hypers, m value.Mutator, rng *rand.Rand)

	GetSS() ([]byte, error)
	SetSS(bag []byte) error
	GetSSMutator(key string) (value.Mutator, error)

	String() string
}
