package textmetrics

import (
	"strings"
)

// Wrap partitions text into lines whose cell width does not exceed budget.
// Lines break between runes only; joining the result reproduces text.
// Invalid UTF-8 bytes are kept as they are and count as one cell each.
// Empty text yields a single empty line. Budgets below 2 are raised to 2
// so that a full-width rune always fits.
func Wrap(text string, budget int) []string {
	if budget < minBudget {
		budget = minBudget
	}
	if text == "" {
		return []string{""}
	}

	var lines []string
	var current strings.Builder
	used := 0

	for i := 0; i < len(text); {
		size, w := nextCell(text[i:])
		if used+w > budget {
			lines = append(lines, current.String())
			current.Reset()
			used = 0
		}
		current.WriteString(text[i : i+size])
		used += w
		i += size
	}
	lines = append(lines, current.String())

	return lines
}

// Align pads every sequence with empty lines up to the length of the longest.
// Inputs are not modified; each returned sequence is a fresh slice.
func Align(seqs ...[]string) [][]string {
	maxLen := 0
	for _, s := range seqs {
		if len(s) > maxLen {
			maxLen = len(s)
		}
	}

	out := make([][]string, len(seqs))
	for i, s := range seqs {
		padded := make([]string, maxLen)
		copy(padded, s)
		out[i] = padded
	}
	return out
}
