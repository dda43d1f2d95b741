// Package rank assigns tie-aware competition ranks to scored results.
package rank

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortOrder selects which end of the score range ranks best.
type SortOrder int

const (
	// Descending ranks the highest score first.
	Descending SortOrder = iota
	// Ascending ranks the lowest score first.
	Ascending
)

// ParseSortOrder parses "ascending" or "descending".
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "descending":
		return Descending, nil
	case "ascending":
		return Ascending, nil
	}
	return Descending, fmt.Errorf("unknown sort order %q (expected ascending or descending)", s)
}

func (o SortOrder) String() string {
	if o == Ascending {
		return "ascending"
	}
	return "descending"
}

// Ranked wraps a payload with its assigned rank.
type Ranked[T any] struct {
	Payload T
	Rank    int
}

// Rank orders items by score and assigns standard competition ranks ("1224"):
// records with equal scores share a rank, and the next distinct score takes
// its 1-based position in the sorted sequence. Items with equal scores keep
// their input order.
func Rank[T any](items []T, order SortOrder, score func(T) float64) []Ranked[T] {
	if len(items) == 0 {
		return nil
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		c := cmp.Compare(score(a), score(b))
		if order == Descending {
			return -c
		}
		return c
	})

	ranked := make([]Ranked[T], len(sorted))
	for i, item := range sorted {
		r := i + 1
		if i > 0 && score(item) == score(sorted[i-1]) {
			r = ranked[i-1].Rank
		}
		ranked[i] = Ranked[T]{Payload: item, Rank: r}
	}
	return ranked
}
