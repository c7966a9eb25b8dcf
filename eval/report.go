package eval

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	accuracyHeader  = "The total accuracy of this POS Tagger is: "
	correctBanner   = "-------------------------------Correct POS Pairs-----------------------------------------------------"
	incorrectBanner = "-------------------------------Incorrect POS Pairs-----------------------------------------------------"
)

// FormatAccuracy prints a float with the shortest digits that round-trip and
// always keeps a fractional part, e.g. 50.0 or 92.1177671406448.
func FormatAccuracy(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// WriteReport writes the accuracy line followed by the correct and the
// incorrect pair blocks, pairs listed in first-seen order.
func WriteReport(w io.Writer, res *Result) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s%s%%\n", accuracyHeader, FormatAccuracy(res.Accuracy))
	fmt.Fprintln(bw, correctBanner)
	writePairs(bw, res.Matrix.Correct)
	fmt.Fprintln(bw, incorrectBanner)
	writePairs(bw, res.Matrix.Incorrect)
	return bw.Flush()
}

func writePairs(w io.Writer, counts *PairCounts) {
	for _, p := range counts.Pairs() {
		fmt.Fprintf(w, "%s: %d\n", p, counts.Count(p))
	}
}
