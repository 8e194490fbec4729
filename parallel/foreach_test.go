package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForEachVisitsAll(t *testing.T) {
	seen := make([]int32, 100)
	var running, peak int32
	ForEach(len(seen), 4, func(i int) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		atomic.AddInt32(&seen[i], 1)
		atomic.AddInt32(&running, -1)
	})
	for i, v := range seen {
		assert.Equal(t, int32(1), v, "index %d", i)
	}
	assert.LessOrEqual(t, peak, int32(4))
}

func TestForEachEmpty(t *testing.T) {
	ForEach(0, 4, func(int) { t.Fatal("called") })
}

func TestStrided(t *testing.T) {
	owner := make([]int, 10)
	used := Strided(len(owner), 3, func(w, i int) { owner[i] = w })
	assert.Equal(t, 3, used)
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2, 0, 1, 2, 0}, owner)

	assert.Equal(t, 2, Strided(2, 8, func(w, i int) {}))
	assert.Equal(t, 0, Strided(0, 8, func(w, i int) {}))
}
