package cli

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// SelectionItem is one certifiable symbol offered in the specify prompt.
type SelectionItem struct {
	Symbol   string
	Display  string
	Location string
}

// ParseSelection interprets a selection expression over n 1-based items:
// "all", "none" or empty, and comma or space separated numbers and
// "a-b" ranges. Out-of-range and unparseable tokens are skipped with a
// warning; indices come back deduplicated in ascending order.
func ParseSelection(input string, n int) ([]int, []string) {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	if trimmed == "" || trimmed == "none" {
		return nil, nil
	}
	if trimmed == "all" {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i + 1
		}
		return indices, nil
	}

	var warnings []string
	picked := make(map[int]bool)
	tokens := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	for _, token := range tokens {
		lo, hi, ok := parseRange(token)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("ignoring %q: not a number or range", token))
			continue
		}
		if lo > hi {
			warnings = append(warnings, fmt.Sprintf("ignoring %q: empty range", token))
			continue
		}
		for i := lo; i <= hi; i++ {
			if i < 1 || i > n {
				warnings = append(warnings, fmt.Sprintf("ignoring %d: out of range 1-%d", i, n))
				continue
			}
			picked[i] = true
		}
	}

	indices := make([]int, 0, len(picked))
	for i := range picked {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices, warnings
}

func parseRange(token string) (lo, hi int, ok bool) {
	if left, right, found := strings.Cut(token, "-"); found {
		loVal, loErr := strconv.Atoi(left)
		hiVal, hiErr := strconv.Atoi(right)
		if loErr != nil || hiErr != nil {
			return 0, 0, false
		}
		return loVal, hiVal, true
	}
	value, err := strconv.Atoi(token)
	if err != nil {
		return 0, 0, false
	}
	return value, value, true
}

// PromptSelection lists items on out and reads one selection line from in.
// It returns the chosen symbols; EOF counts as an empty selection.
func PromptSelection(in io.Reader, out io.Writer, items []SelectionItem) ([]string, error) {
	for i, item := range items {
		if item.Location != "" {
			fmt.Fprintf(out, "  %d. %s (%s)\n", i+1, item.Display, item.Location)
		} else {
			fmt.Fprintf(out, "  %d. %s\n", i+1, item.Display)
		}
	}
	fmt.Fprintf(out, "Select symbols to certify (e.g. 1,3-5, all, none): ")

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read selection: %w", err)
	}

	indices, warnings := ParseSelection(line, len(items))
	for _, warning := range warnings {
		fmt.Fprintf(out, "warning: %s\n", warning)
	}

	symbols := make([]string, 0, len(indices))
	for _, i := range indices {
		symbols = append(symbols, items[i-1].Symbol)
	}
	return symbols, nil
}
