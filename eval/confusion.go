package eval

type TagPair struct {
	Predicted string
	Gold      string
}

// String renders the pair as "<predicted> <gold>".
func (p TagPair) String() string {
	return p.Predicted + " " + p.Gold
}

// PairCounts counts tag pairs and remembers the order they were first seen in.
type PairCounts struct {
	pairs  []TagPair
	counts map[TagPair]int
}

func newPairCounts() *PairCounts {
	return &PairCounts{counts: make(map[TagPair]int)}
}

func (c *PairCounts) add(p TagPair) {
	if _, ok := c.counts[p]; !ok {
		c.pairs = append(c.pairs, p)
	}
	c.counts[p]++
}

func (c *PairCounts) Count(p TagPair) int {
	return c.counts[p]
}

// Pairs returns the counted pairs in first-seen order.
func (c *PairCounts) Pairs() []TagPair {
	pairs := make([]TagPair, len(c.pairs))
	copy(pairs, c.pairs)
	return pairs
}

func (c *PairCounts) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Map returns the counts keyed by the rendered pair.
func (c *PairCounts) Map() map[string]int {
	m := make(map[string]int, len(c.counts))
	for p, n := range c.counts {
		m[p.String()] = n
	}
	return m
}

// ConfusionMatrix splits compared tag pairs into matching and non-matching
// ones. Every compared token lands in exactly one of the two.
type ConfusionMatrix struct {
	Correct   *PairCounts
	Incorrect *PairCounts
}

func NewConfusionMatrix() *ConfusionMatrix {
	return &ConfusionMatrix{
		Correct:   newPairCounts(),
		Incorrect: newPairCounts(),
	}
}

func (m *ConfusionMatrix) Add(predicted string, gold string) {
	p := TagPair{Predicted: predicted, Gold: gold}
	if predicted == gold {
		m.Correct.add(p)
	} else {
		m.Incorrect.add(p)
	}
}

func (m *ConfusionMatrix) Total() int {
	return m.Correct.Total() + m.Incorrect.Total()
}
