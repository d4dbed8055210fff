package decimate

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/meshdec/pkg/mesh"
)

// DefaultMinEdgesForParallel is the edge count below which the initial
// cost pass runs sequentially; worker dispatch overhead dominates on
// small meshes.
const DefaultMinEdgesForParallel = 1000

// ParallelOptions extends Options with worker-pool settings for the
// initial cost pass.
type ParallelOptions struct {
	Options
	// NumWorkers is the worker count. Zero means runtime.NumCPU().
	NumWorkers int
	// MinEdgesForParallel is the threshold below which the cost pass is
	// computed sequentially. Zero means DefaultMinEdgesForParallel.
	MinEdgesForParallel int
}

// ParallelResult carries run statistics alongside the decimation result.
type ParallelResult struct {
	Result
	// RunID identifies this run in logs.
	RunID uuid.UUID
	// Workers is the number of workers the cost pass actually used;
	// 1 when the pass ran sequentially.
	Workers int
	// CostPassTime is the wall time of the initial cost computation.
	CostPassTime time.Duration
	// TotalTime is the wall time of the whole call.
	TotalTime time.Duration
}

// DecimateParallel is Decimate with the initial edge costs computed by a
// worker pool. Only that pass is parallel: it reads static connectivity
// and quadrics, so workers share nothing mutable and each fills a
// disjoint shard of the cost array. The greedy loop itself is inherently
// sequential (every collapse mutates shared 1-ring state) and its
// collapse choices are identical to Decimate's for the same input. The
// context applies to the cost pass only; once the loop starts it runs to
// a terminal state.
func DecimateParallel(ctx context.Context, m *mesh.Mesh, opts ParallelOptions) (*ParallelResult, error) {
	start := time.Now()
	runID := uuid.New()

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("run_id", runID.String()))
	opts.Logger = logger

	st, target, early, err := prepare(m, opts.Options)
	if err != nil {
		return nil, err
	}
	if early != nil {
		return &ParallelResult{
			Result:    *early,
			RunID:     runID,
			Workers:   1,
			TotalTime: time.Since(start),
		}, nil
	}

	workers := opts.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	minEdges := opts.MinEdgesForParallel
	if minEdges <= 0 {
		minEdges = DefaultMinEdgesForParallel
	}

	numEdges := len(st.conn.Edges)
	costs := make([]float64, numEdges)
	placements := make([]placement, numEdges)

	costStart := time.Now()
	if numEdges < minEdges || workers <= 1 {
		workers = 1
		for id := 0; id < numEdges; id++ {
			placements[id] = st.computeCost(id)
			costs[id] = placements[id].cost
		}
	} else if err := parallelCosts(ctx, st, workers, costs, placements); err != nil {
		return nil, err
	}
	costPass := time.Since(costStart)

	logger.Debug("initial cost pass done",
		zap.Int("edges", numEdges),
		zap.Int("workers", workers),
		zap.Duration("elapsed", costPass),
	)

	res, err := run(st, target, costs, placements, logger)
	if err != nil {
		return nil, err
	}
	return &ParallelResult{
		Result:       *res,
		RunID:        runID,
		Workers:      workers,
		CostPassTime: costPass,
		TotalTime:    time.Since(start),
	}, nil
}

// parallelCosts partitions the edge id range into contiguous shards, one
// per worker. Workers only read the shared state and write disjoint
// slices of the output arrays, so no locks are needed; the pool is torn
// down synchronously before returning on every path.
func parallelCosts(ctx context.Context, st *state, workers int, costs []float64, placements []placement) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	numEdges := len(costs)
	shard := (numEdges + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * shard
		hi := lo + shard
		if hi > numEdges {
			hi = numEdges
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for id := lo; id < hi; id++ {
				if id%256 == 0 && ctx.Err() != nil {
					return
				}
				placements[id] = st.computeCost(id)
				costs[id] = placements[id].cost
			}
		}(lo, hi)
	}
	wg.Wait()

	return ctx.Err()
}
