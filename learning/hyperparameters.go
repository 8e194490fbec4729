package learning

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/neurlang/textclf/errors"
)

// HyperParameters shape the trunk and the fitting loop. They are read from a
// YAML or JSON file; keys left out keep their defaults.
type HyperParameters struct {
	DenseUnits     []int   `yaml:"dense_units" json:"dense_units" validate:"dive,gt=0"`
	Dropout        float64 `yaml:"dropout" json:"dropout" validate:"gte=0,lt=1"`
	Filters        int     `yaml:"filters" json:"filters" validate:"gt=0"`
	KernelSize     int     `yaml:"kernel_size" json:"kernel_size" validate:"gt=0"`
	PoolSize       int     `yaml:"pool_size" json:"pool_size" validate:"gt=0"`
	RecurrentUnits int     `yaml:"recurrent_units" json:"recurrent_units" validate:"gt=0"`

	// BatchSize overrides the configured batch size when positive.
	BatchSize int `yaml:"batch_size" json:"batch_size" validate:"gte=0"`

	ValidationSplit float64 `yaml:"validation_split" json:"validation_split" validate:"gte=0,lt=1"`
	Patience        int     `yaml:"patience" json:"patience" validate:"gt=0"`
	MinDelta        float64 `yaml:"min_delta" json:"min_delta" validate:"gte=0"`
	Shuffle         bool    `yaml:"shuffle" json:"shuffle"`
}

// DefaultHyperParameters returns the values used for keys missing from the file.
func DefaultHyperParameters() HyperParameters {
	return HyperParameters{
		DenseUnits:      []int{64},
		Dropout:         0.5,
		Filters:         64,
		KernelSize:      3,
		PoolSize:        2,
		RecurrentUnits:  32,
		ValidationSplit: 0.1,
		Patience:        3,
		MinDelta:        0.001,
		Shuffle:         true,
	}
}

var validate = validator.New()

// Validate checks the value ranges.
func (h HyperParameters) Validate() error {
	if err := validate.Struct(h); err != nil {
		return errors.InvalidConfigf("hyperparameters: %v", err)
	}
	return nil
}

// DecodeHyperParameters decodes a YAML (or JSON) document over the defaults. Unknown keys are rejected.
func DecodeHyperParameters(r io.Reader) (HyperParameters, error) {
	h := DefaultHyperParameters()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&h); err != nil && err != io.EOF {
		return h, errors.InvalidConfigf("hyperparameters: %v", err)
	}
	return h, h.Validate()
}

// ReadHyperParameters reads the hyperparameter file at path.
func ReadHyperParameters(path string) (HyperParameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return HyperParameters{}, errors.InvalidConfigf("hyperparameters: %v", err)
	}
	return DecodeHyperParameters(bytes.NewReader(data))
}

// FileID identifies a hyperparameter file in the ledger: its base name without extension.
func FileID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
