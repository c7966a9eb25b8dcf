// Package eval compares predicted tags against a gold key.
package eval

import (
	"errors"
	"fmt"
)

var (
	ErrLengthMismatch = errors.New("number of tags to compare don't match")
	ErrNoTags         = errors.New("no tags to compare")
)

type LengthMismatchError struct {
	Predicted int
	Gold      int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("%s: %d predicted, %d gold", ErrLengthMismatch, e.Predicted, e.Gold)
}

func (e *LengthMismatchError) Is(target error) bool {
	return target == ErrLengthMismatch
}

type Result struct {
	Accuracy     float64
	CorrectTotal int
	Total        int
	Matrix       *ConfusionMatrix
}

// Score compares predicted[i] with gold[i] for every i. Accuracy is the
// percentage of equal pairs. Tags are compared as exact strings.
func Score(predicted []string, gold []string) (*Result, error) {
	if len(predicted) != len(gold) {
		return nil, &LengthMismatchError{Predicted: len(predicted), Gold: len(gold)}
	}
	if len(predicted) == 0 {
		return nil, ErrNoTags
	}

	matrix := NewConfusionMatrix()
	correct := 0
	for i, p := range predicted {
		if p == gold[i] {
			correct++
		}
		matrix.Add(p, gold[i])
	}

	return &Result{
		Accuracy:     float64(correct) / float64(len(predicted)) * 100,
		CorrectTotal: correct,
		Total:        len(predicted),
		Matrix:       matrix,
	}, nil
}
