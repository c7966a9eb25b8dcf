package pos

import (
	"context"
	"fmt"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestTagBasic(t *testing.T) {
	table := BuildTable(tokens("dog", "NN", "dog", "NN", "run", "VB"))
	var got []string
	for _, word := range []string{"dog", "run", "cat"} {
		got = append(got, word+"/"+Tag(word, table, ModeBasic))
	}
	require.Equal(t, []string{"dog/NN", "run/VB", "cat/NN"}, got)
}

func TestTagBasicIgnoresRules(t *testing.T) {
	table := BuildTable(nil)
	for _, word := range []string{"London", "a9b", "dogs", "quickly", "well-known", "running"} {
		require.Equal(t, "NN", Tag(word, table, ModeBasic), word)
	}
}

func TestNewTagger(t *testing.T) {
	table := BuildTable(tokens("dog", "NN"))
	basic := NewTagger(table, ModeBasic)
	enhanced := NewTagger(table, ModeEnhanced)
	require.Equal(t, "NN", basic("dog"))
	require.Equal(t, "NN", basic("walking"))
	require.Equal(t, "VBG", enhanced("walking"))
}

func TestTagKnownWordBeatsRules(t *testing.T) {
	table := BuildTable(tokens("Apple", "NN", "runs", "VBZ"))
	require.Equal(t, "NN", Tag("Apple", table, ModeEnhanced))
	require.Equal(t, "VBZ", Tag("runs", table, ModeEnhanced))
}

func TestTagEnhancedRules(t *testing.T) {
	table := BuildTable(nil)
	cases := []struct {
		word     string
		expected string
	}{
		{"Quickly-run3s", "NNP"},
		{"London", "NNP"},
		{"Élan", "NNP"},
		{"a9b", "CD"},
		{"1,000", "CD"},
		{"9am", "NN"},
		{"am9", "NN"},
		{"9", "NN"},
		{"12", "NN"},
		{"1990s", "CD"},
		{"dogs", "NNS"},
		{"3s", "NNS"},
		{"quickly", "RB"},
		{"well-known", "JJ"},
		{"-x", "JJ"},
		{"x-", "NN"},
		{"run-3", "NN"},
		{"running", "VBG"},
		{"sing-alongs", "NNS"},
		{"cat", "NN"},
		{"", "NN"},
	}
	for _, c := range cases {
		require.Equal(t, c.expected, Tag(c.word, table, ModeEnhanced), fmt.Sprintf("word %q", c.word))
	}
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("Enhanced")
	require.NoError(t, err)
	require.Equal(t, ModeEnhanced, mode)
	require.Equal(t, "enhanced", mode.String())

	mode, err = ParseMode("")
	require.NoError(t, err)
	require.Equal(t, ModeBasic, mode)

	_, err = ParseMode("hmm")
	require.Error(t, err)
}

func TestTagAllKeepsOrder(t *testing.T) {
	table := BuildTable(tokens("the", "DT", "dog", "NN", "barked", "VBD"))
	var words, expected []string
	for i := 0; i < 5000; i++ {
		switch i % 4 {
		case 0:
			words, expected = append(words, "the"), append(expected, "DT")
		case 1:
			words, expected = append(words, "dog"), append(expected, "NN")
		case 2:
			words, expected = append(words, "barked"), append(expected, "VBD")
		default:
			words, expected = append(words, "Rex"), append(expected, "NNP")
		}
	}
	for _, workers := range []int{0, 1, 3, 8, 10000} {
		tags, err := TagAll(context.Background(), words, table, ModeEnhanced, workers)
		require.NoError(t, err)
		if diff := cmp.Diff(expected, tags); diff != "" {
			t.Fatalf("workers=%d unexpected tags (-want +got):\n%s", workers, diff)
		}
	}
}

func TestTagAllEmpty(t *testing.T) {
	tags, err := TagAll(context.Background(), nil, BuildTable(nil), ModeBasic, 4)
	require.NoError(t, err)
	require.Empty(t, tags)
}

func TestTagAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := TagAll(ctx, []string{"dog"}, BuildTable(nil), ModeBasic, 2)
	require.ErrorIs(t, err, context.Canceled)
}
