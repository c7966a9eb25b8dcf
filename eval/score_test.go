package eval

import (
	"bytes"
	"errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestScoreScenario(t *testing.T) {
	res, err := Score([]string{"NN", "VB"}, []string{"NN", "VBD"})
	require.NoError(t, err)
	require.Equal(t, 50.0, res.Accuracy)
	require.Equal(t, map[string]int{"NN NN": 1}, res.Matrix.Correct.Map())
	require.Equal(t, map[string]int{"VB VBD": 1}, res.Matrix.Incorrect.Map())
}

func TestScoreLengthMismatch(t *testing.T) {
	res, err := Score([]string{"NN", "VB", "DT"}, []string{"NN", "VB", "DT", "JJ"})
	require.Nil(t, res)
	require.True(t, errors.Is(err, ErrLengthMismatch))

	var mismatch *LengthMismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, 3, mismatch.Predicted)
	require.Equal(t, 4, mismatch.Gold)
}

func TestScoreEmpty(t *testing.T) {
	_, err := Score(nil, nil)
	require.ErrorIs(t, err, ErrNoTags)
}

func TestScoreInvariants(t *testing.T) {
	predicted := []string{"DT", "NN", "VBD", "NN", "NN", ",", "NN", "IN"}
	gold := []string{"DT", "NN", "VBN", "VB", "NN", ",", "VB", "RB"}
	res, err := Score(predicted, gold)
	require.NoError(t, err)

	require.Equal(t, len(predicted), res.Total)
	require.Equal(t, res.Total, res.Matrix.Total())
	require.Equal(t, res.CorrectTotal, res.Matrix.Correct.Total())
	require.Equal(t, res.Total-res.CorrectTotal, res.Matrix.Incorrect.Total())
	require.Equal(t, float64(res.CorrectTotal)/float64(res.Total)*100, res.Accuracy)

	expectedCorrect := []TagPair{{"DT", "DT"}, {"NN", "NN"}, {",", ","}}
	if diff := cmp.Diff(expectedCorrect, res.Matrix.Correct.Pairs()); diff != "" {
		t.Errorf("correct pairs (-want +got):\n%s", diff)
	}
	expectedIncorrect := []TagPair{{"VBD", "VBN"}, {"NN", "VB"}, {"IN", "RB"}}
	if diff := cmp.Diff(expectedIncorrect, res.Matrix.Incorrect.Pairs()); diff != "" {
		t.Errorf("incorrect pairs (-want +got):\n%s", diff)
	}
	require.Equal(t, 2, res.Matrix.Incorrect.Count(TagPair{"NN", "VB"}))
	require.Equal(t, 2, res.Matrix.Correct.Count(TagPair{"NN", "NN"}))
}

func TestScoreIsCaseSensitive(t *testing.T) {
	res, err := Score([]string{"nn", "NN "}, []string{"NN", "NN"})
	require.NoError(t, err)
	require.Equal(t, 0.0, res.Accuracy)
	require.Equal(t, 2, res.Matrix.Incorrect.Total())
}

func TestFormatAccuracy(t *testing.T) {
	cases := map[float64]string{
		50:               "50.0",
		100:              "100.0",
		0:                "0.0",
		92.1177671406448: "92.1177671406448",
		100.0 / 3.0:      "33.333333333333336",
	}
	for f, expected := range cases {
		require.Equal(t, expected, FormatAccuracy(f))
	}
}

func TestWriteReport(t *testing.T) {
	res, err := Score([]string{"NN", "VB", "NN", "DT"}, []string{"NN", "VBD", "NN", "RB"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, res))
	expected := "The total accuracy of this POS Tagger is: 50.0%\n" +
		"-------------------------------Correct POS Pairs-----------------------------------------------------\n" +
		"NN NN: 2\n" +
		"-------------------------------Incorrect POS Pairs-----------------------------------------------------\n" +
		"VB VBD: 1\n" +
		"DT RB: 1\n"
	require.Equal(t, expected, buf.String())
}
