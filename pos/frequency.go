package pos

import (
	"text2phenotype.com/postag/corpus"
	"encoding/json"
	"fmt"
)

// TagCounts holds how often each tag was seen for one word. Tags are kept in
// the order they were first seen, which decides ties in Best.
type TagCounts struct {
	tags   []string
	counts map[string]int
}

func newTagCounts() *TagCounts {
	return &TagCounts{counts: make(map[string]int, 1)}
}

func (c *TagCounts) add(tag string, n int) {
	if _, ok := c.counts[tag]; !ok {
		c.tags = append(c.tags, tag)
	}
	c.counts[tag] += n
}

// Best returns the most frequent tag. On a tie the tag inserted first wins.
func (c *TagCounts) Best() string {
	best, bestCount := "", 0
	for _, tag := range c.tags {
		if n := c.counts[tag]; n > bestCount {
			best, bestCount = tag, n
		}
	}
	return best
}

func (c *TagCounts) Count(tag string) int {
	return c.counts[tag]
}

func (c *TagCounts) Tags() []string {
	tags := make([]string, len(c.tags))
	copy(tags, c.tags)
	return tags
}

func (c *TagCounts) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// FrequencyTable maps a case-sensitive word to the counts of its tags in the
// training data. It is never modified after BuildTable returns, so it can be
// shared by concurrent taggers.
type FrequencyTable struct {
	words  []string
	counts map[string]*TagCounts
}

func BuildTable(tokens []corpus.TaggedToken) *FrequencyTable {
	table := &FrequencyTable{counts: make(map[string]*TagCounts)}
	for _, token := range tokens {
		table.add(token.Word, token.Tag, 1)
	}
	return table
}

func (t *FrequencyTable) add(word string, tag string, n int) {
	c, ok := t.counts[word]
	if !ok {
		c = newTagCounts()
		t.counts[word] = c
		t.words = append(t.words, word)
	}
	c.add(tag, n)
}

func (t *FrequencyTable) Lookup(word string) (*TagCounts, bool) {
	c, ok := t.counts[word]
	return c, ok
}

// Best returns the most frequent tag of a known word.
func (t *FrequencyTable) Best(word string) (string, bool) {
	c, ok := t.counts[word]
	if !ok {
		return "", false
	}
	return c.Best(), true
}

// Words returns the known words in first-seen order.
func (t *FrequencyTable) Words() []string {
	words := make([]string, len(t.words))
	copy(words, t.words)
	return words
}

func (t *FrequencyTable) Len() int {
	return len(t.words)
}

// Words and tags are stored as []byte, which encoding/json writes as base64,
// so words that are not valid UTF-8 keep their exact bytes.
type tagCountJSON struct {
	Tag   []byte `json:"tag"`
	Count int    `json:"count"`
}

type wordEntryJSON struct {
	Word []byte         `json:"word"`
	Tags []tagCountJSON `json:"tags"`
}

// MarshalJSON encodes the table as a list so both word and tag order survive.
func (t *FrequencyTable) MarshalJSON() ([]byte, error) {
	entries := make([]wordEntryJSON, 0, len(t.words))
	for _, word := range t.words {
		c := t.counts[word]
		entry := wordEntryJSON{Word: []byte(word), Tags: make([]tagCountJSON, 0, len(c.tags))}
		for _, tag := range c.tags {
			entry.Tags = append(entry.Tags, tagCountJSON{Tag: []byte(tag), Count: c.counts[tag]})
		}
		entries = append(entries, entry)
	}
	return json.Marshal(entries)
}

func (t *FrequencyTable) UnmarshalJSON(b []byte) error {
	var entries []wordEntryJSON
	if err := json.Unmarshal(b, &entries); err != nil {
		return err
	}
	table := FrequencyTable{counts: make(map[string]*TagCounts, len(entries))}
	for _, entry := range entries {
		word := string(entry.Word)
		if len(entry.Tags) == 0 {
			return fmt.Errorf("word %q has no tags", word)
		}
		if _, ok := table.counts[word]; ok {
			return fmt.Errorf("word %q listed twice", word)
		}
		for _, tc := range entry.Tags {
			tag := string(tc.Tag)
			if tc.Count < 1 {
				return fmt.Errorf("word %q: tag %q has count %d", word, tag, tc.Count)
			}
			if c, ok := table.counts[word]; ok && c.Count(tag) > 0 {
				return fmt.Errorf("word %q: tag %q listed twice", word, tag)
			}
			table.add(word, tag, tc.Count)
		}
	}
	*t = table
	return nil
}
