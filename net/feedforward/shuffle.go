package feedforward

import "math/rand"

// shuffle permutes order deterministically for the seed.
func shuffle(order []int, seed uint32) {
	rand.New(rand.NewSource(int64(seed))).Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
}
