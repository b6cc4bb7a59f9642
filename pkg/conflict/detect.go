package conflict

import (
	"context"
	"runtime"
	"sync"
)

// Triple is a detected conflict: at second T, existing route J came
// within Epsilon of new route I.
type Triple struct {
	T int
	J int // existing-route index
	I int // new-route index
}

// Result is the output of Detect.
type Result struct {
	Triples       []Triple
	ConflictTimes map[int]bool
	Truncated     bool // true if MAX_TRIPLES was reached before every conflict was recorded
}

// MaxTriples caps the number of triples Detect will record, mirroring the
// original's preset `max_triplets` bound on its fixed-capacity result
// array. Once reached, later conflicts are still reflected in
// ConflictTimes but no longer appended to Triples.
const MaxTriples = 1_000_000

// Options configures Detect.
type Options struct {
	// Workers is the number of goroutines dispatched over t-tiles.
	// <= 0 defaults to runtime.NumCPU(), matching the teacher's
	// LoadOptions.Workers convention.
	Workers int
	// TileSize is how many consecutive seconds each dispatched job
	// covers. <= 0 defaults to 256.
	TileSize int
}

// Detect finds every (t, j, i) where a new route (index >= tensor.
// ExistingCount) comes within epsilon of an existing route (index <
// tensor.ExistingCount) at the same integer second, per spec.md §4.6's
// kernel: pointwise Euclidean distance in the mixed (lon°, lat°, alt m)
// space, no unit reconciliation. The scan is dispatched as a worker pool
// over contiguous t-tiles (grounded on the teacher's LoadCellsParallel
// job-channel shape; each tile's results are merged under a mutex); ctx
// is checked between tiles so a caller can
// cancel a long-running scan. Output ordering is not guaranteed across
// tiles, matching the original kernel's unordered parallel append.
func Detect(ctx context.Context, tensor Tensor, epsilon float64, opts Options) (Result, error) {
	n := len(tensor.P)
	if n == 0 || tensor.ExistingCount == 0 || tensor.ExistingCount == n {
		return Result{ConflictTimes: map[int]bool{}}, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	tileSize := opts.TileSize
	if tileSize <= 0 {
		tileSize = 256
	}

	epsilonSq := epsilon * epsilon

	type tile struct{ lo, hi int } // [lo, hi)
	var tiles []tile
	for lo := 0; lo < tensor.Horizon; lo += tileSize {
		hi := lo + tileSize
		if hi > tensor.Horizon {
			hi = tensor.Horizon
		}
		tiles = append(tiles, tile{lo, hi})
	}
	if workers > len(tiles) {
		workers = len(tiles)
	}
	if workers == 0 {
		return Result{ConflictTimes: map[int]bool{}}, nil
	}

	jobs := make(chan tile, len(tiles))
	for _, tl := range tiles {
		jobs <- tl
	}
	close(jobs)

	var mu sync.Mutex
	var triples []Triple
	conflictTimes := make(map[int]bool)
	truncated := false

	var wg sync.WaitGroup
	var cancelled bool
	var cancelMu sync.Mutex

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tl := range jobs {
				cancelMu.Lock()
				c := cancelled
				cancelMu.Unlock()
				if c {
					continue
				}
				select {
				case <-ctx.Done():
					cancelMu.Lock()
					cancelled = true
					cancelMu.Unlock()
					continue
				default:
				}

				local := detectTile(tensor, tl.lo, tl.hi, epsilonSq)

				mu.Lock()
				for t := range local.times {
					conflictTimes[t] = true
				}
				remaining := MaxTriples - len(triples)
				if remaining > 0 {
					if len(local.triples) > remaining {
						triples = append(triples, local.triples[:remaining]...)
						truncated = true
					} else {
						triples = append(triples, local.triples...)
					}
				} else if len(local.triples) > 0 {
					truncated = true
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}

	return Result{Triples: triples, ConflictTimes: conflictTimes, Truncated: truncated}, nil
}

type tileResult struct {
	triples []Triple
	times   map[int]bool
}

func detectTile(tensor Tensor, lo, hi int, epsilonSq float64) tileResult {
	out := tileResult{times: make(map[int]bool)}
	n := len(tensor.P)
	for t := lo; t < hi; t++ {
		for i := tensor.ExistingCount; i < n; i++ {
			if !tensor.M[i][t] {
				continue
			}
			pi := tensor.P[i][t]
			for j := 0; j < tensor.ExistingCount; j++ {
				if !tensor.M[j][t] {
					continue
				}
				pj := tensor.P[j][t]
				dLon := pi[0] - pj[0]
				dLat := pi[1] - pj[1]
				dAlt := pi[2] - pj[2]
				distSq := dLon*dLon + dLat*dLat + dAlt*dAlt
				if distSq < epsilonSq {
					out.times[t] = true
					out.triples = append(out.triples, Triple{T: t, J: j, I: i})
				}
			}
		}
	}
	return out
}
