package pos

import (
	"context"
	"fmt"
	"golang.org/x/sync/errgroup"
	"strings"
)

type Mode int

const (
	ModeBasic Mode = iota
	ModeEnhanced
)

func (m Mode) String() string {
	if m == ModeEnhanced {
		return "enhanced"
	}
	return "basic"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "basic":
		return ModeBasic, nil
	case "enhanced", "e":
		return ModeEnhanced, nil
	}
	return ModeBasic, fmt.Errorf("unknown tagging mode %q", s)
}

// Tag returns the most frequent training tag of a known word. Unknown words
// get NN in basic mode and go through the suffix/shape rules in enhanced mode.
func Tag(word string, table *FrequencyTable, mode Mode) string {
	if tag, ok := table.Best(word); ok {
		return tag
	}
	return tagUnknown(word, mode)
}

// NewTagger binds a table and a mode into a single-word tagging function.
func NewTagger(table *FrequencyTable, mode Mode) func(word string) string {
	return func(word string) string {
		return Tag(word, table, mode)
	}
}

const cancelCheckInterval = 1024

// TagAll tags every word using up to workers goroutines. The result is in
// the same order as words.
func TagAll(ctx context.Context, words []string, table *FrequencyTable, mode Mode, workers int) ([]string, error) {
	tags := make([]string, len(words))
	if workers < 1 {
		workers = 1
	}
	size := (len(words) + workers - 1) / workers
	if size == 0 {
		return tags, nil
	}

	tag := NewTagger(table, mode)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(words); start += size {
		start, end := start, start+size
		if end > len(words) {
			end = len(words)
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if (i-start)%cancelCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				tags[i] = tag(words[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tags, nil
}
