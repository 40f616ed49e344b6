// Package noop is a stub likelihood family that does nothing. It measures the call
// overhead of driving a table through the model interfaces.
package noop

import (
	"fmt"
	"math/rand/v2"

	"github.com/arloliu/partab/errs"
	"github.com/arloliu/partab/model"
	"github.com/arloliu/partab/value"
)

type Model struct{}

var _ model.Model = Model{}

func New() Model { return Model{} }

func (Model) CreateHypers() model.Hypers { return &Hypers{} }

// RuntimeType is a bool scalar; the family ignores its observations.
func (Model) RuntimeType() value.RuntimeType { return value.Scalar(value.TypeBool) }

type Hypers struct{}

var _ model.Hypers = (*Hypers)(nil)

func (*Hypers) GetHP() ([]byte, error) { return []byte{}, nil }

func (*Hypers) SetHP([]byte) error { return nil }

func (*Hypers) GetHPMutator(key string) (value.Mutator, error) {
	return value.Mutator{}, fmt.Errorf("%w: noop has no hyperparameter %q", errs.ErrUnknownKey, key)
}

func (*Hypers) CreateGroup(*rand.Rand) model.Group { return &Group{} }

func (*Hypers) String() string { return "<noop>" }

type Group struct{}

var _ model.Group = (*Group)(nil)

func (*Group) AddValue(model.Hypers, value.Accessor, *rand.Rand) {}
func (*Group) RemoveValue(model.Hypers, value.Accessor, *rand.Rand) {}

func (*Group) ScoreValue(model.Hypers, value.Accessor, *rand.Rand) float64 { return 0 }
func (*Group) ScoreData(model.Hypers, *rand.Rand) float64 { return 0 }

func (*Group) SampleValue(model.Hypers, value.Mutator, *rand.Rand) {}

func (*Group) GetSS() ([]byte, error) { return []byte{}, nil }

func (*Group) SetSS([]byte) error { return nil }

func (*Group) GetSSMutator(key string) (value.Mutator, error) {
	return value.Mutator{}, fmt.Errorf("%w: noop has no statistic %q", errs.ErrUnknownKey, key)
}

func (*Group) String() string { return "<noop>" }
