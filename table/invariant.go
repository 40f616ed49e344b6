package table

import (
	"fmt"

	"github.com/arloliu/partab/internal/pool"
)

// verify panics if the table's bookkeeping is inconsistent. It is a no-op unless the
// table was built WithInvariantChecks(true).
func (t *Table[T]) verify() {
	if !t.cfg.checks {
		return
	}

	if err := t.checkInvariants(); err != nil {
		t.cfg.logger.Error("partition invariant violated", "table", t.cfg.name, "error", err)
		panic(err)
	}
}

func (t *Table[T]) checkInvariants() error {
	counts := make(map[uint64]int, len(t.groups))
	assigned := 0
	for eid, gid := range t.assignments {
		if gid == Unassigned {
			continue
		}
		if _, ok := t.groups[uint64(gid)]; !ok {
			return fmt.Errorf("entity %d assigned to inactive group %d", eid, gid)
		}
		counts[uint64(gid)]++
		assigned++
	}
	if assigned != t.assigned {
		return fmt.Errorf("assigned counter %d, assignment vector holds %d", t.assigned, assigned)
	}

	zeroCount := 0
	for gid, g := range t.groups {
		if g.Count == 0 {
			zeroCount++
		}
		if g.Count != counts[gid] {
			return fmt.Errorf("group %d count %d, assignment vector holds %d", gid, g.Count, counts[gid])
		}
		if gid >= t.nextID {
			return fmt.Errorf("group %d not below next id %d", gid, t.nextID)
		}
		if (g.Count == 0) != t.empty.Contains(gid) {
			return fmt.Errorf("group %d count %d disagrees with empty set membership", gid, g.Count)
		}
	}
	if t.empty.GetCardinality() != uint64(zeroCount) {
		return fmt.Errorf("empty set holds %d ids for %d empty groups", t.empty.GetCardinality(), zeroCount)
	}

	return nil
}

// verify panics if the fixed table's bookkeeping is inconsistent. It is a no-op
// unless the table was built WithInvariantChecks(true).
func (t *FixedTable[T]) verify() {
	if !t.cfg.checks {
		return
	}

	if err := t.checkInvariants(); err != nil {
		t.cfg.logger.Error("partition invariant violated", "table", t.cfg.name, "error", err)
		panic(err)
	}
}

func (t *FixedTable[T]) checkInvariants() error {
	counts, release := pool.GetInt64Slice(len(t.groups))
	defer release()

	assigned := 0
	for eid, gid := range t.assignments {
		if gid == Unassigned {
			continue
		}
		if gid < 0 || gid >= int64(len(t.groups)) {
			return fmt.Errorf("entity %d assigned to group %d outside [0, %d)", eid, gid, len(t.groups))
		}
		counts[gid]++
		assigned++
	}
	if assigned != t.assigned {
		return fmt.Errorf("assigned counter %d, assignment vector holds %d", t.assigned, assigned)
	}

	for gid := range t.groups {
		if int64(t.groups[gid].Count) != counts[gid] {
			return fmt.Errorf("group %d count %d, assignment vector holds %d", gid, t.groups[gid].Count, counts[gid])
		}
	}

	return nil
}
