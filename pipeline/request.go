package pipeline

import (
	"text2phenotype.com/postag/eval"
	"text2phenotype.com/postag/pos"
	"text2phenotype.com/postag/types"
)

type Kind string

const (
	KindTag   Kind = "tag"
	KindScore Kind = "score"
)

// Request carries everything one run needs in memory. Tag runs read Table
// and Test; score runs read Tagged and Key.
type Request struct {
	Tid     string
	Kind    Kind
	Options types.Options
	Table   *pos.FrequencyTable
	Test    []byte
	Tagged  []byte
	Key     []byte
}

// Response is sent exactly once per request. Output holds the word/tag
// lines for a tag run and the text report for a score run.
type Response struct {
	Output []byte
	Result *eval.Result
	Err    error
}
