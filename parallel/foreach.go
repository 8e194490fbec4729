// Package parallel runs loop bodies on a bounded number of goroutines
package parallel

import "sync"

// ForEach calls body for every i in [0, length) using at most limit concurrent
// goroutines and returns when all calls have finished.
func ForEach(length, limit int, body func(i int)) {
	if length <= 0 {
		return
	}
	if limit <= 0 {
		limit = 1
	}
	if limit > length {
		limit = length
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	wg.Add(length)
	for i := 0; i < length; i++ {
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			body(i)
		}(i)
	}
	wg.Wait()
}

// Strided splits [0, length) between workers so that worker w handles w, w+workers, ...
// It returns the number of workers actually used.
func Strided(length, workers int, body func(worker, i int)) int {
	if workers > length {
		workers = length
	}
	if workers <= 0 {
		return 0
	}
	ForEach(workers, workers, func(w int) {
		for i := w; i < length; i += workers {
			body(w, i)
		}
	})
	return workers
}
