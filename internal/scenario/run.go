package scenario

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/phroun/chain"
)

// Result is the outcome of one scenario.
type Result struct {
	Name     string
	Op       string
	Duration time.Duration
	Ops      int
	Elements int
	Nodes    int
	Merged   int
	Extra    string
}

func (r Result) String() string {
	shape := fmt.Sprintf("[%d elements, %d nodes]", r.Elements, r.Nodes)
	if r.Merged > 0 {
		shape = fmt.Sprintf("[%d elements, %d nodes, %d merged]", r.Elements, r.Nodes, r.Merged)
	}
	if r.Extra != "" {
		shape += " " + r.Extra
	}
	if r.Ops > 0 && r.Duration > 0 {
		opsPerSec := float64(r.Ops) / r.Duration.Seconds()
		return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec) %s", r.Name, r.Duration.Round(time.Microsecond), r.Ops, opsPerSec, shape)
	}
	return fmt.Sprintf("%-40s %12v  %s", r.Name, r.Duration.Round(time.Microsecond), shape)
}

// Run executes scenarios with at most parallel running at once. Results keep
// the order of scenarios. The first failure cancels the rest.
func Run(ctx context.Context, scenarios []Scenario, parallel int, log *chain.Logger) ([]Result, error) {
	if log == nil {
		log = chain.NoopLogger()
	}
	if parallel <= 0 {
		parallel = 1
	}

	results := make([]Result, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, s := range scenarios {
		g.Go(func() error {
			r, err := Execute(ctx, s, log.WithChain(s.Name))
			if err != nil {
				return err
			}
			log.Info("scenario finished", "name", s.Name, "op", s.Op, "duration", r.Duration, "ops", r.Ops)
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Execute runs a single scenario on a fresh chain and validates the chain
// afterwards.
func Execute(ctx context.Context, s Scenario, log *chain.Logger) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	kind, _ := chain.ParseFilterKind(s.Filter)
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))

	if s.Op == OpKeyedUpsert {
		return runKeyed(ctx, s, kind, rng, log)
	}

	opts := []chain.Option[int]{chain.WithFilter[int](kind), chain.WithLogger[int](log)}
	var c *chain.Chain[int]
	if s.Op == OpReplace {
		c = chain.FromSlice(modulo(s.Elements, 100), opts...)
	} else {
		c = chain.FromSlice(sequence(s.Elements), opts...)
	}

	r := Result{Name: s.Name, Op: s.Op}
	replaced := 0
	start := time.Now()

	for j := 0; j < s.Operations; j++ {
		if j&255 == 0 {
			if err := ctx.Err(); err != nil {
				return r, err
			}
		}

		var err error
		switch s.Op {
		case OpAppend:
			c.Add(s.Elements + j)
		case OpInsertMiddle:
			err = c.Insert(c.Count()/2, -j-1)
		case OpInsertRandom:
			err = c.Insert(rng.IntN(c.Count()+1), -j-1)
		case OpInsertBlock:
			block := make([]int, s.BlockSize)
			for k := range block {
				block[k] = -(j*s.BlockSize + k) - 1
			}
			err = c.InsertBlock(rng.IntN(c.Count()+1), block)
		case OpReplace:
			replaced += c.Replace(j%100, 100+j)
		case OpRemove:
			if c.Count() == 0 {
				break
			}
			_, err = c.RemoveAt(rng.IntN(c.Count()))
		case OpSlice:
			if c.Count() == 0 {
				break
			}
			from := rng.IntN(c.Count())
			_, err = c.Slice(from, rng.IntN(c.Count()-from+1))
		}
		if err != nil {
			return r, fmt.Errorf("scenario %q: %s step %d: %w", s.Name, s.Op, j, err)
		}
		r.Ops++
	}

	if s.Op == OpReplace {
		r.Extra = fmt.Sprintf("%d replaced", replaced)
	}
	if s.Compact {
		r.Merged = c.Compact()
	}
	r.Duration = time.Since(start)

	if err := c.Validate(); err != nil {
		return r, err
	}
	st := c.Stats()
	r.Elements, r.Nodes = st.Elements, st.Nodes
	return r, nil
}

func runKeyed(ctx context.Context, s Scenario, kind chain.FilterKind, rng *rand.Rand, log *chain.Logger) (Result, error) {
	k := chain.NewKeyed[int, int](chain.WithFilter[int](kind), chain.WithLogger[int](log))
	keys := max(s.Elements, 1)

	r := Result{Name: s.Name, Op: s.Op}
	start := time.Now()
	updated := 0
	for j := 0; j < s.Operations; j++ {
		if j&255 == 0 {
			if err := ctx.Err(); err != nil {
				return r, err
			}
		}
		if _, existed := k.Insert(rng.IntN(keys), j); existed {
			updated++
		}
		r.Ops++
	}
	r.Duration = time.Since(start)

	if err := k.Validate(); err != nil {
		return r, err
	}
	r.Elements, r.Nodes = k.Count(), k.Count()
	r.Extra = fmt.Sprintf("%d updated", updated)
	return r, nil
}

func sequence(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func modulo(n, m int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i % m
	}
	return out
}
