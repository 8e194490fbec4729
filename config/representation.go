package config

// Representation is the on-disk feature scheme of a dataset.
type Representation string

const (
	Count      Representation = "count"
	TFIDF      Representation = "tfidf"
	Word       Representation = "word"
	Embedding  Representation = "embedding"
	Pretrained Representation = "pretrained"
)

// Representations lists the supported representations.
var Representations = []Representation{Count, TFIDF, Word, Embedding, Pretrained}

// Family groups representations that load and extract features the same way.
type Family string

const (
	// FamilySparse rows are count or tf-idf vectors stored as CSR archives.
	FamilySparse Family = "sparse"

	// FamilyDiscrete rows are dense word indicator vectors.
	FamilyDiscrete Family = "discrete"

	// FamilyLearned rows are token index sequences with a trainable embedding.
	FamilyLearned Family = "learned"

	// FamilyPretrained rows are token index sequences with a supplied embedding matrix.
	FamilyPretrained Family = "pretrained"
)

// Families lists every family.
var Families = []Family{FamilySparse, FamilyDiscrete, FamilyLearned, FamilyPretrained}

// Family returns the family of r, or "" for an unknown representation.
func (r Representation) Family() Family {
	switch r {
	case Count, TFIDF:
		return FamilySparse
	case Word:
		return FamilyDiscrete
	case Embedding:
		return FamilyLearned
	case Pretrained:
		return FamilyPretrained
	}
	return ""
}

// Tokens reports whether rows hold token indices.
func (f Family) Tokens() bool {
	return f == FamilyLearned || f == FamilyPretrained
}

// Architecture is the trunk put between the feature extractor and the head.
type Architecture string

const (
	FFNN  Architecture = "ffnn"
	CNN   Architecture = "cnn"
	BCNN  Architecture = "bcnn"
	RNN   Architecture = "rnn"
	RCNN  Architecture = "rcnn"
	BRNN  Architecture = "brnn"
	BRCNN Architecture = "brcnn"
)

// Architectures lists the supported architectures.
var Architectures = []Architecture{FFNN, CNN, BCNN, RNN, RCNN, BRNN, BRCNN}

// OptimizerKind names the optimizer.
type OptimizerKind string

const (
	Adam OptimizerKind = "adam"
	SGD  OptimizerKind = "sgd"
)

type allowList struct {
	vocab        []int
	embeddingDim []int
}

var allowLists = map[Representation]allowList{
	Count:      {vocab: []int{1000, 5000, 10000, 20000}},
	TFIDF:      {vocab: []int{1000, 5000, 10000, 20000}},
	Word:       {vocab: []int{1000, 5000, 10000}},
	Embedding:  {vocab: []int{5000, 10000, 20000}, embeddingDim: []int{50, 100, 200, 300}},
	Pretrained: {vocab: []int{5000, 10000, 20000}, embeddingDim: []int{50, 100, 200, 300}},
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
