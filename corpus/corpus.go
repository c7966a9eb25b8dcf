// Package corpus reads and writes the line-oriented `word/tag` files used
// for training, tagging and scoring.
//
// Every line holds one token. The word and the tag are split at the LAST
// occurrence of Separator, so a tag can never contain it. Only trailing
// newline characters are trimmed; anything else (including '\r') is kept.
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const Separator = "/"

// TaggedToken is a word together with its part-of-speech tag.
type TaggedToken struct {
	Word string
	Tag  string
}

func (t TaggedToken) String() string {
	return t.Word + Separator + t.Tag
}

// ProcessedSequence is the ordered tag column of a tagged file.
type ProcessedSequence struct {
	Tags []string
	Len  int
}

type ParseError struct {
	Line int
	Text string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: missing %q separator in %q", e.Line, Separator, e.Text)
	}
	return fmt.Sprintf("missing %q separator in %q", Separator, e.Text)
}

// ParseLine splits a `word/tag` line at its last separator.
func ParseLine(line string) (TaggedToken, error) {
	line = trimNewline(line)
	idx := strings.LastIndex(line, Separator)
	if idx < 0 {
		return TaggedToken{}, &ParseError{Text: line}
	}
	return TaggedToken{Word: line[:idx], Tag: line[idx+len(Separator):]}, nil
}

func ExtractTag(line string) (string, error) {
	token, err := ParseLine(line)
	if err != nil {
		return "", err
	}
	return token.Tag, nil
}

// ExtractWord returns the word of a test line. Lines without a separator are
// bare words and are returned unchanged.
func ExtractWord(line string) string {
	line = trimNewline(line)
	if idx := strings.LastIndex(line, Separator); idx >= 0 {
		return line[:idx]
	}
	return line
}

func ReadTokens(r io.Reader) ([]TaggedToken, error) {
	var tokens []TaggedToken
	err := forEachLine(r, func(n int, line string) error {
		token, err := ParseLine(line)
		if err != nil {
			return withLine(err, n)
		}
		tokens = append(tokens, token)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// ReadWords reads the words to be tagged. When tagged is false the whole line
// is the word; otherwise a trailing `/tag` is dropped.
func ReadWords(r io.Reader, tagged bool) ([]string, error) {
	var words []string
	err := forEachLine(r, func(_ int, line string) error {
		if tagged {
			words = append(words, ExtractWord(line))
		} else {
			words = append(words, trimNewline(line))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return words, nil
}

func ReadTags(r io.Reader) (ProcessedSequence, error) {
	var seq ProcessedSequence
	err := forEachLine(r, func(n int, line string) error {
		tag, err := ExtractTag(line)
		if err != nil {
			return withLine(err, n)
		}
		seq.Tags = append(seq.Tags, tag)
		seq.Len++
		return nil
	})
	if err != nil {
		return ProcessedSequence{}, err
	}
	return seq, nil
}

// WriteTokens writes one `word/tag` line per word. words and tags must have
// the same length.
func WriteTokens(w io.Writer, words []string, tags []string) error {
	if len(words) != len(tags) {
		return fmt.Errorf("got %d words and %d tags", len(words), len(tags))
	}
	bw := bufio.NewWriter(w)
	for i, word := range words {
		if _, err := bw.WriteString(word + Separator + tags[i] + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func forEachLine(r io.Reader, fn func(n int, line string) error) error {
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if len(line) == 0 {
			if err == io.EOF {
				return nil
			} else if err != nil {
				return err
			}
		}
		if fnErr := fn(n, line); fnErr != nil {
			return fnErr
		}
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
	}
}

func withLine(err error, n int) error {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		parseErr.Line = n
	}
	return err
}

func trimNewline(line string) string {
	return strings.TrimRight(line, "\n")
}
