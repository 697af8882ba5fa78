package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool runs row bands of a stage on a bounded number of goroutines.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: workers}
}

func (p *Pool) Workers() int {
	return p.workers
}

// Rows calls fn over contiguous bands [y0, y1) that together cover
// [0, height). It returns once every band has finished, so callers may hand
// the output buffer on immediately.
func (p *Pool) Rows(height int, fn func(y0, y1 int)) {
	if height <= 0 {
		return
	}

	workers := min(p.workers, height)
	if workers == 1 {
		fn(0, height)
		return
	}

	band := (height + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for y0 := 0; y0 < height; y0 += band {
		y1 := min(y0+band, height)
		g.Go(func() error {
			fn(y0, y1)
			return nil
		})
	}
	_ = g.Wait()
}
