package table

// Unassigned marks an entity that belongs to no group.
const Unassigned int64 = -1

// Group is one cluster: how many entities it holds and the caller's aggregate for them.
type Group[T any] struct {
	Count int
	Data  T
}
