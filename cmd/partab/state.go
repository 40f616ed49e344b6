package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/arloliu/partab/errs"
	"github.com/arloliu/partab/format"
	"github.com/arloliu/partab/section"
	"github.com/arloliu/partab/table"
)

// The CLI never interprets group aggregates: payloads are carried as opaque bytes.
func keepPayload(b []byte) ([]byte, error) { return slices.Clone(b), nil }

func writePayload(b []byte) ([]byte, error) { return b, nil }

// loaded is a decoded blob of any kind.
type loaded interface {
	describe(w io.Writer)
	reencode(opts ...table.EncodeOption) ([]byte, error)
}

// load decodes data according to the kind recorded in its header.
func load(data []byte, opts ...table.Option) (section.StateHeader, loaded, error) {
	header, err := section.ParseStateHeader(data)
	if err != nil {
		return section.StateHeader{}, nil, err
	}

	var state loaded
	switch kind := header.Flag.StateKind(); kind {
	case format.KindTable:
		t, err := table.DecodeTable(data, keepPayload, opts...)
		if err != nil {
			return header, nil, err
		}
		state = crpState{t}
	case format.KindFixedTable:
		t, err := table.DecodeFixedTable(data, keepPayload, opts...)
		if err != nil {
			return header, nil, err
		}
		state = fixedState{t}
	case format.KindTableHyper:
		t, err := table.NewTable[[]byte](1, opts...)
		if err != nil {
			return header, nil, err
		}
		if err := t.SetHP(data); err != nil {
			return header, nil, err
		}
		state = crpHyper{t}
	case format.KindFixedTableHyper:
		t, err := table.NewFixedTable[[]byte](1, int(header.GroupCount), opts...)
		if err != nil {
			return header, nil, fmt.Errorf("%w: %w", errs.ErrInvalidState, err)
		}
		if err := t.SetHP(data); err != nil {
			return header, nil, err
		}
		state = fixedHyper{t}
	default:
		return header, nil, fmt.Errorf("%w: %s", errs.ErrUnexpectedKind, kind)
	}

	return header, state, nil
}

func describeHeader(w io.Writer, h section.StateHeader, size int) {
	order := "little-endian"
	if h.Flag.IsBigEndian() {
		order = "big-endian"
	}
	fmt.Fprintf(w, "kind:\t%s\n", h.Flag.StateKind())
	fmt.Fprintf(w, "byte order:\t%s\n", order)
	fmt.Fprintf(w, "compression:\t%s\n", h.Flag.CompressionType())
	fmt.Fprintf(w, "size:\t%d bytes (body %d, checksum %016x)\n", size, h.BodyLength, h.Checksum)
}

type crpState struct{ t *table.Table[[]byte] }

func (s crpState) describe(w io.Writer) {
	t := s.t
	fmt.Fprintf(w, "alpha:\t%g\n", t.Alpha())
	fmt.Fprintf(w, "entities:\t%d (%d assigned)\n", t.NumEntities(), t.NumAssigned())
	fmt.Fprintf(w, "groups:\t%d (next id %d)\n", t.NumGroups(), t.NextGroupID())
	fmt.Fprintf(w, "empty:\t%v\n", t.EmptyGroups())
	fmt.Fprintf(w, "log p:\t%.6f\n", t.ScoreAssignment())

	fmt.Fprintf(w, "\ngid\tsize\tpseudocount\tpayload\n")
	for gid, g := range t.Groups() {
		pc, _ := t.Pseudocount(gid)
		fmt.Fprintf(w, "%d\t%d\t%g\t%d bytes\n", gid, g.Count, pc, len(g.Data))
	}
}

func (s crpState) reencode(opts ...table.EncodeOption) ([]byte, error) {
	return s.t.Serialize(writePayload, opts...)
}

type fixedState struct{ t *table.FixedTable[[]byte] }

func (s fixedState) describe(w io.Writer) {
	t := s.t
	fmt.Fprintf(w, "alphas:\t%v\n", t.Alphas())
	fmt.Fprintf(w, "entities:\t%d (%d assigned)\n", t.NumEntities(), t.NumAssigned())
	fmt.Fprintf(w, "groups:\t%d\n", t.NumGroups())
	fmt.Fprintf(w, "log p:\t%.6f\n", t.ScoreAssignment())

	fmt.Fprintf(w, "\ngid\tsize\tpseudocount\tpayload\n")
	for gid, g := range t.Groups() {
		pc, _ := t.Pseudocount(gid)
		fmt.Fprintf(w, "%d\t%d\t%g\t%d bytes\n", gid, g.Count, pc, len(g.Data))
	}
}

func (s fixedState) reencode(opts ...table.EncodeOption) ([]byte, error) {
	return s.t.Serialize(writePayload, opts...)
}

type crpHyper struct{ t *table.Table[[]byte] }

func (s crpHyper) describe(w io.Writer) {
	fmt.Fprintf(w, "alpha:\t%g\n", s.t.Alpha())
}

func (s crpHyper) reencode(opts ...table.EncodeOption) ([]byte, error) {
	return s.t.GetHP(opts...)
}

type fixedHyper struct{ t *table.FixedTable[[]byte] }

func (s fixedHyper) describe(w io.Writer) {
	fmt.Fprintf(w, "alphas:\t%v\n", s.t.Alphas())
}

func (s fixedHyper) reencode(opts ...table.EncodeOption) ([]byte, error) {
	return s.t.GetHP(opts...)
}
