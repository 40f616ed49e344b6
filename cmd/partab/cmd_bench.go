package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/arloliu/partab"
	"github.com/arloliu/partab/model"
	"github.com/arloliu/partab/table"
	"github.com/arloliu/partab/value"
)

type benchParams struct {
	family   string
	entities int
	groups   int
	iters    int
	seed     uint64
}

type benchResult struct {
	ops     int
	elapsed time.Duration
	score   float64
}

// NsPerOp is the mean cost of one remove plus re-add.
func (r benchResult) NsPerOp() float64 {
	if r.ops == 0 {
		return 0
	}

	return float64(r.elapsed.Nanoseconds()) / float64(r.ops)
}

func newBenchCmd(c *cli) *cobra.Command {
	var (
		p           benchParams
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure add/remove cost through a model-backed CRP table",
		Long: `bench seats every entity in one of K groups, then for each iteration removes
each entity and re-adds it to a uniformly chosen group, updating the family's
sufficient statistics on both moves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("seed") {
				p.seed = c.cfg.Seed
			}

			res, err := runBench(p, c.tableOptions("bench")...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "family=%s entities=%d groups=%d iters=%d seed=%d\n",
				p.family, p.entities, p.groups, p.iters, p.seed)
			fmt.Fprintf(out, "ops=%d elapsed=%s ns/op=%.1f log p=%.4f\n",
				res.ops, res.elapsed, res.NsPerOp(), res.score)

			if showMetrics {
				return dumpMetrics(out, c.registry)
			}

			return nil
		},
	}
	cmd.Flags().StringVar(&p.family, "family", "betabern", "likelihood family: "+strings.Join(partab.Families(), ", "))
	cmd.Flags().IntVar(&p.entities, "entities", 10000, "number of entities")
	cmd.Flags().IntVar(&p.groups, "groups", 10, "number of groups")
	cmd.Flags().IntVar(&p.iters, "iters", 10, "sweeps over all entities")
	cmd.Flags().Uint64Var(&p.seed, "seed", 1, "random seed (default from config)")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "print the collected table metrics")

	return cmd
}

func runBench(p benchParams, opts ...table.Option) (benchResult, error) {
	if p.entities <= 0 || p.groups <= 0 || p.iters <= 0 {
		return benchResult{}, fmt.Errorf("%w: entities, groups and iters must be positive", errInvalidConfig)
	}

	m, err := partab.LookupFamily(p.family)
	if err != nil {
		return benchResult{}, err
	}

	rng := rand.New(rand.NewPCG(p.seed, p.seed^0x9e3779b97f4a7c15)) //nolint:gosec
	h := m.CreateHypers()

	rows, err := sampleRows(m.RuntimeType(), h, p.entities, rng)
	if err != nil {
		return benchResult{}, err
	}

	tbl, err := partab.NewModelTable(p.entities, opts...)
	if err != nil {
		return benchResult{}, err
	}
	gids := make([]uint64, p.groups)
	for i := range gids {
		gid, agg := tbl.CreateGroup()
		*agg = h.CreateGroup(rng)
		gids[i] = gid
	}

	for eid, row := range rows {
		grp, err := tbl.AddValue(gids[rng.IntN(len(gids))], eid)
		if err != nil {
			return benchResult{}, err
		}
		(*grp).AddValue(h, row, rng)
	}

	start := time.Now()
	for range p.iters {
		for eid, row := range rows {
			_, grp, err := tbl.RemoveValue(eid)
			if err != nil {
				return benchResult{}, err
			}
			(*grp).RemoveValue(h, row, rng)

			grp, err = tbl.AddValue(gids[rng.IntN(len(gids))], eid)
			if err != nil {
				return benchResult{}, err
			}
			(*grp).AddValue(h, row, rng)
		}
	}

	return benchResult{
		ops:     p.iters * p.entities,
		elapsed: time.Since(start),
		score:   tbl.ScoreAssignment(),
	}, nil
}

// sampleRows draws n observations from a fresh group of the family.
func sampleRows(rt value.RuntimeType, h model.Hypers, n int, rng *rand.Rand) ([]value.Accessor, error) {
	src := h.CreateGroup(rng)
	rows := make([]value.Accessor, n)
	for i := range rows {
		m, err := newRow(rt)
		if err != nil {
			return nil, err
		}
		src.SampleValue(h, m, rng)
		rows[i] = m.Accessor()
	}

	return rows, nil
}

func newRow(rt value.RuntimeType) (value.Mutator, error) {
	switch rt.Type() {
	case value.TypeBool:
		return value.MutatorOf(make([]bool, rt.N())), nil
	case value.TypeInt64:
		return value.MutatorOf(make([]int64, rt.N())), nil
	case value.TypeUint64:
		return value.MutatorOf(make([]uint64, rt.N())), nil
	case value.TypeFloat64:
		return value.MutatorOf(make([]float64, rt.N())), nil
	default:
		return value.Mutator{}, fmt.Errorf("bench does not generate %s observations", rt)
	}
}

// dumpMetrics prints one line per series: counters and gauges by value, histograms
// by sample count and sum.
func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			slices.Sort(labels)
			series := mf.GetName() + "{" + strings.Join(labels, ",") + "}"

			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(w, "%s %g\n", series, m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				fmt.Fprintf(w, "%s %g\n", series, m.GetGauge().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fmt.Fprintf(w, "%s count=%d sum=%g\n", series, h.GetSampleCount(), h.GetSampleSum())
			}
		}
	}

	return nil
}
