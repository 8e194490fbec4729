package trainer

import "github.com/neurlang/textclf/errors"
import "github.com/neurlang/textclf/model"

type weightsReader interface {
	ReadCompressedWeightsFromFile(name string) error
}

// Resume loads the weights saved at path into m before training continues.
func Resume(m model.Model, path string) error {
	r, ok := m.(weightsReader)
	if !ok {
		return errors.Errorf("trainer: %T cannot load saved weights", m)
	}
	return errors.Wrapf(r.ReadCompressedWeightsFromFile(path), "resume from %s", path)
}
