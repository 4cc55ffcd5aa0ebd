package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// formatNumber formats numbers with commas for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return addCommas(fmt.Sprintf("%d", n))
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// average divides a total duration over n operations
func average(total time.Duration, n int) string {
	if n <= 0 {
		return "N/A"
	}
	return (total / time.Duration(n)).Round(time.Millisecond).String()
}

// successRate is the share of attempts that did not fail
func successRate(ok, failed int) float64 {
	if ok+failed == 0 {
		return 0
	}
	return float64(ok) / float64(ok+failed)
}

// rankCounts renders a count map as "a 3, b 1", most frequent first
func rankCounts[K comparable](counts map[K]int, label func(K) string) string {
	type pair struct {
		key   K
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for k, c := range counts {
		pairs = append(pairs, pair{k, c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return label(pairs[i].key) < label(pairs[j].key)
	})

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s %d", label(p.key), p.count))
	}
	return strings.Join(parts, ", ")
}
