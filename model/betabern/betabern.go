// Package betabern implements the Beta-Bernoulli likelihood family with an explicit
// per-group success probability.
//
// Each group draws p ~ Beta(alpha, beta) when it is created and scores boolean
// observations as Bernoulli(p). The group keeps head and tail counts so ScoreData
// can evaluate the joint density of p and the group's observations.
//
// Hyperparameter and sufficient-statistic bags are JSON documents:
//
//	{"alpha":1,"beta":1}
//	{"heads":3,"tails":1,"p":0.71}
package betabern

import (
	"fmt"
	"math"
	"math/rand/v2"

	gojson "github.com/goccy/go-json"

	"github.com/arloliu/partab/errs"
	"github.com/arloliu/partab/model"
	"github.com/arloliu/partab/value"
)

// Model is the Beta-Bernoulli family. Observations are bool scalars.
type Model struct{}

var _ model.Model = Model{}

// New returns the family.
func New() Model { return Model{} }

// CreateHypers returns a uniform Beta(1, 1) prior.
func (Model) CreateHypers() model.Hypers {
	return &Hypers{Alpha: 1, Beta: 1}
}

func (Model) RuntimeType() value.RuntimeType { return value.Scalar(value.TypeBool) }

// Hypers are the Beta prior's shape parameters.
type Hypers struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

var _ model.Hypers = (*Hypers)(nil)

func (h *Hypers) GetHP() ([]byte, error) {
	return gojson.Marshal(h)
}

// SetHP loads a hyperparameter bag. Both shapes must be finite and positive; on error
// h is unchanged.
func (h *Hypers) SetHP(bag []byte) error {
	var next Hypers
	if err := gojson.Unmarshal(bag, &next); err != nil {
		return fmt.Errorf("betabern: decode hyperparameters: %w", err)
	}
	if !validShape(next.Alpha) || !validShape(next.Beta) {
		return fmt.Errorf("%w: alpha=%v beta=%v", errs.ErrInvalidConcentration, next.Alpha, next.Beta)
	}
	*h = next

	return nil
}

func validShape(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// GetHPMutator exposes "alpha" and "beta" as float64 scalars.
func (h *Hypers) GetHPMutator(key string) (value.Mutator, error) {
	switch key {
	case "alpha":
		return value.ScalarMutator(&h.Alpha), nil
	case "beta":
		return value.ScalarMutator(&h.Beta), nil
	default:
		return value.Mutator{}, fmt.Errorf("%w: betabern has no hyperparameter %q", errs.ErrUnknownKey, key)
	}
}

// CreateGroup returns an empty group with p drawn from the prior.
func (h *Hypers) CreateGroup(rng *rand.Rand) model.Group {
	return &Group{P: sampleBeta(rng, h.Alpha, h.Beta)}
}

func (h *Hypers) String() string {
	return fmt.Sprintf("{alpha:%g,beta:%g}", h.Alpha, h.Beta)
}

// Group counts the true (Heads) and false (Tails) observations of one cluster.
type Group struct {
	Heads uint64  `json:"heads"`
	Tails uint64  `json:"tails"`
	P     float64 `json:"p"`
}

var _ model.Group = (*Group)(nil)

func (g *Group) AddValue(_ model.Hypers, v value.Accessor, _ *rand.Rand) {
	if value.Get[bool](v, 0) {
		g.Heads++
	} else {
		g.Tails++
	}
}

// RemoveValue takes back an observation added earlier. Removing more heads or tails
// than were added panics.
func (g *Group) RemoveValue(_ model.Hypers, v value.Accessor, _ *rand.Rand) {
	if value.Get[bool](v, 0) {
		if g.Heads == 0 {
			panic("betabern: removing a head from a group with none")
		}
		g.Heads--
	} else {
		if g.Tails == 0 {
			panic("betabern: removing a tail from a group with none")
		}
		g.Tails--
	}
}

func (g *Group) ScoreValue(_ model.Hypers, v value.Accessor, _ *rand.Rand) float64 {
	if value.Get[bool](v, 0) {
		return math.Log(g.P)
	}

	return math.Log1p(-g.P)
}

// ScoreData returns log Beta(p | alpha, beta) + heads*log(p) + tails*log(1-p).
func (g *Group) ScoreData(h model.Hypers, _ *rand.Rand) float64 {
	hp := hypersOf(h)

	logP, logQ := math.Log(g.P), math.Log1p(-g.P)
	prior := (hp.Alpha-1)*logP + (hp.Beta-1)*logQ - lbeta(hp.Alpha, hp.Beta)

	return prior + float64(g.Heads)*logP + float64(g.Tails)*logQ
}

func (g *Group) SampleValue(_ model.Hypers, m value.Mutator, rng *rand.Rand) {
	value.Set(m, 0, rng.Float64() < g.P)
}

func (g *Group) GetSS() ([]byte, error) {
	return gojson.Marshal(g)
}

// SetSS loads a sufficient-statistic bag. p must lie in [0, 1]; on error g is unchanged.
func (g *Group) SetSS(bag []byte) error {
	var next Group
	if err := gojson.Unmarshal(bag, &next); err != nil {
		return fmt.Errorf("betabern: decode statistics: %w", err)
	}
	if !(next.P >= 0 && next.P <= 1) {
		return fmt.Errorf("betabern: p=%v outside [0, 1]", next.P)
	}
	*g = next

	return nil
}

// GetSSMutator exposes "heads" and "tails" as uint64 scalars and "p" as a float64.
func (g *Group) GetSSMutator(key string) (value.Mutator, error) {
	switch key {
	case "heads":
		return value.ScalarMutator(&g.Heads), nil
	case "tails":
		return value.ScalarMutator(&g.Tails), nil
	case "p":
		return value.ScalarMutator(&g.P), nil
	default:
		return value.Mutator{}, fmt.Errorf("%w: betabern has no statistic %q", errs.ErrUnknownKey, key)
	}
}

func (g *Group) String() string {
	return fmt.Sprintf("{heads:%d,tails:%d,p:%g}", g.Heads, g.Tails, g.P)
}

func hypersOf(h model.Hypers) *Hypers {
	hp, ok := h.(*Hypers)
	if !ok {
		panic(fmt.Sprintf("betabern: group used with %T hyperparameters", h))
	}

	return hp
}

func lbeta(a, b float64) float64 {
	la, _ := math.Lgamma(a)
	lb, _ := math.Lgamma(b)
	lab, _ := math.Lgamma(a + b)

	return la + lb - lab
}
