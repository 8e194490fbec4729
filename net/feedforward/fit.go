package feedforward

import "context"
import "math"

import "github.com/neurlang/textclf/errors"
import "github.com/neurlang/textclf/hash"
import "github.com/neurlang/textclf/layer"
import "github.com/neurlang/textclf/model"
import "github.com/neurlang/textclf/parallel"

const clip = 1e-7

// binaryCrossEntropy returns the loss of probability p for label y and its derivative by p.
func binaryCrossEntropy(p, y float64) (loss, dp float64) {
	c := math.Min(math.Max(p, clip), 1-clip)
	loss = -(y*math.Log(c) + (1-y)*math.Log(1-c))
	dp = (c - y) / (c * (1 - c))
	return
}

func correct(p, y float64) bool {
	return (p >= 0.5) == (y >= 0.5)
}

// Fit trains the network with mini-batch gradient descent. The last
// ValidationSplit fraction of the rows is held out and scored after every epoch.
func (f *FeedforwardNetwork) Fit(ctx context.Context, x [][]float64, y []float64, o model.FitOptions) (*model.History, error) {
	if f.opt == nil {
		return nil, errors.New("feedforward: fit before compile")
	}
	if len(x) != len(y) {
		return nil, errors.Errorf("feedforward: %d rows but %d labels", len(x), len(y))
	}
	if o.Epochs < 0 || o.BatchSize < 0 || o.ValidationSplit < 0 || o.ValidationSplit >= 1 {
		return nil, errors.Errorf("feedforward: invalid fit options %+v", o)
	}
	if err := f.checkRows(x); err != nil {
		return nil, err
	}
	batchSize := o.BatchSize
	if batchSize == 0 {
		batchSize = 32
	}
	split := len(x) - int(float64(len(x))*o.ValidationSplit)
	if split == 0 {
		return nil, errors.Errorf("feedforward: no training rows among %d", len(x))
	}
	order := make([]int, split)
	for i := range order {
		order[i] = i
	}
	val := make([]int, 0, len(x)-split)
	for i := split; i < len(x); i++ {
		val = append(val, i)
	}

	work := make([]*gradients, f.threads())
	losses := make([]float64, len(work))
	corrects := make([]int, len(work))
	history := &model.History{}
	defer history.Freeze()

	for epoch := 0; epoch < o.Epochs; epoch++ {
		if ctx.Err() != nil {
			return history, nil
		}
		seed := hash.Mix(o.Seed, uint32(epoch))
		if o.Shuffle {
			shuffle(order, seed)
		}
		var loss float64
		var right int
		for b := 0; b < len(order); b += batchSize {
			if ctx.Err() != nil {
				return history, nil
			}
			end := b + batchSize
			if end > len(order) {
				end = len(order)
			}
			l, r := f.step(x, y, order[b:end], seed, work, losses, corrects)
			loss += l
			right += r
		}
		e := model.Epoch{
			Loss:     loss / float64(len(order)),
			Accuracy: float64(right) / float64(len(order)),
		}
		if len(val) > 0 {
			e.ValLoss, e.ValAccuracy = f.score(x, y, val)
		} else {
			e.ValLoss, e.ValAccuracy = e.Loss, e.Accuracy
		}
		if ctx.Err() != nil {
			return history, nil
		}
		history.Append(e)

		stop := false
		for _, c := range o.Callbacks {
			if c.OnEpochEnd(epoch+1, e, history) {
				stop = true
			}
		}
		if stop {
			break
		}
	}
	return history, nil
}

// step computes the gradients of one batch on the workers, averages them and
// applies the optimizer. It returns the summed loss and the number of correct predictions.
func (f *FeedforwardNetwork) step(x [][]float64, y []float64, batch []int, seed uint32,
	work []*gradients, losses []float64, corrects []int) (float64, int) {
	for w := range work {
		if work[w] != nil {
			work[w].zero()
		}
		losses[w], corrects[w] = 0, 0
	}
	used := parallel.Strided(len(batch), len(work), func(w, i int) {
		if work[w] == nil {
			work[w] = f.newGradients()
		}
		n := batch[i]
		caches := make([]interface{}, len(f.layers))
		p := f.forward(x[n], layer.Mode{Train: true, Seed: hash.Mix(seed, uint32(n))}, caches)
		l, dp := binaryCrossEntropy(p, y[n])
		losses[w] += l
		if correct(p, y[n]) {
			corrects[w]++
		}
		f.backward(dp, caches, work[w])
		work[w].touch(caches)
	})

	sum := work[0]
	for w := 1; w < used; w++ {
		sum.add(work[w])
	}
	sum.scale(1 / float64(len(batch)))
	f.opt.Step(f.params(), sum.flat())

	var loss float64
	var right int
	for w := 0; w < used; w++ {
		loss += losses[w]
		right += corrects[w]
	}
	return loss, right
}

func (f *FeedforwardNetwork) predictRows(x [][]float64, rows []int) []float64 {
	out := make([]float64, len(rows))
	parallel.Strided(len(rows), f.threads(), func(_, i int) {
		out[i] = f.forward(x[rows[i]], layer.Mode{}, nil)
	})
	return out
}

// score returns the mean loss and the accuracy on rows in inference mode.
func (f *FeedforwardNetwork) score(x [][]float64, y []float64, rows []int) (loss, accuracy float64) {
	probs := f.predictRows(x, rows)
	var right int
	for i, p := range probs {
		l, _ := binaryCrossEntropy(p, y[rows[i]])
		loss += l
		if correct(p, y[rows[i]]) {
			right++
		}
	}
	n := float64(len(rows))
	return loss / n, float64(right) / n
}
