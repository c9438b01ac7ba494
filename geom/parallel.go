package geom

import (
	"runtime"
	"sync"
)

// ForEachRow runs fn(i) for every i in [0,n), splitting contiguous row
// ranges across workers goroutines. Callers must ensure fn writes to
// disjoint locations per row; no synchronization is provided. workers <= 1
// runs sequentially; workers above runtime.NumCPU() are capped.
func ForEachRow(n, workers int, fn func(i int)) {
	if workers > runtime.NumCPU() {
		workers = runtime.NumCPU()
	}
	if workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	rowsPerWorker := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, n)
		if start >= n {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}
