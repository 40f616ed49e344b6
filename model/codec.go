package model

import (
	"math/rand/v2"

	"github.com/arloliu/partab/table"
)

// PayloadCodec returns the group payload functions that let a table of Groups be
// serialized. Payloads are the groups' sufficient-statistic bags; decoding creates a
// fresh group from h and loads the bag into it. rng seeds the throwaway prior draw
// CreateGroup makes before the bag overwrites it.
func PayloadCodec(h Hypers, rng *rand.Rand) (table.EncodeFunc[Group], table.DecodeFunc[Group]) {
	encode := func(g Group) ([]byte, error) {
		return g.GetSS()
	}
	decode := func(bag []byte) (Group, error) {
		g := h.CreateGroup(rng)
		if err := g.SetSS(bag); err != nil {
			return nil, err
		}

		return g, nil
	}

	return encode, decode
}
