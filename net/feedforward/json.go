package feedforward

import "compress/lzw"
import "encoding/json"
import "io"
import "os"

import "github.com/neurlang/textclf/errors"
import "github.com/neurlang/textclf/layer"

type savedLayer struct {
	Kind   string         `json:"kind"`
	Config layer.Layer    `json:"config"`
	Output layer.Shape    `json:"output"`
	Params []*layer.Param `json:"params"`
}

type savedNetwork struct {
	Input     layer.Shape  `json:"input"`
	Loss      string       `json:"loss,omitempty"`
	Optimizer string       `json:"optimizer,omitempty"`
	Layers    []savedLayer `json:"layers"`
}

type loadedLayer struct {
	Kind   string        `json:"kind"`
	Params []layer.Param `json:"params"`
}

type loadedNetwork struct {
	Input  layer.Shape   `json:"input"`
	Layers []loadedLayer `json:"layers"`
}

// Save writes the layer configuration and weights as lzw compressed json
func (f *FeedforwardNetwork) Save(w io.Writer) error {
	net := savedNetwork{Input: f.input, Loss: string(f.loss)}
	if f.opt != nil {
		net.Optimizer = f.opt.Name()
	}
	for i, l := range f.layers {
		net.Layers = append(net.Layers, savedLayer{
			Kind:   l.Kind(),
			Config: l,
			Output: f.shapes[i],
			Params: l.Params(),
		})
	}
	lw := lzw.NewWriter(w, lzw.LSB, 8)
	if err := json.NewEncoder(lw).Encode(net); err != nil {
		lw.Close()
		return err
	}
	return lw.Close()
}

// ReadCompressedWeightsFromFile reads model weights from a lzw file
func (f *FeedforwardNetwork) ReadCompressedWeightsFromFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	return f.ReadCompressedWeights(file)
}

// ReadCompressedWeights loads weights written by Save into a network built
// with the same layers.
func (f *FeedforwardNetwork) ReadCompressedWeights(r io.Reader) error {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	defer lr.Close()

	var net loadedNetwork
	if err := json.NewDecoder(lr).Decode(&net); err != nil {
		return err
	}
	if net.Input != f.input || len(net.Layers) != len(f.layers) {
		return errors.Errorf("feedforward: saved network %s with %d layers does not match %s with %d layers",
			net.Input, len(net.Layers), f.input, len(f.layers))
	}
	for i, l := range f.layers {
		saved := net.Layers[i]
		params := l.Params()
		if saved.Kind != l.Kind() || len(saved.Params) != len(params) {
			return errors.Errorf("feedforward: layer %d is %s, saved %s", i, l.Kind(), saved.Kind)
		}
		for j, p := range params {
			if len(saved.Params[j].Value) != len(p.Value) {
				return errors.Errorf("feedforward: layer %d param %s has %d values, saved %d",
					i, p.Name, len(p.Value), len(saved.Params[j].Value))
			}
		}
	}
	for i, l := range f.layers {
		for j, p := range l.Params() {
			copy(p.Value, net.Layers[i].Params[j].Value)
		}
	}
	return nil
}
