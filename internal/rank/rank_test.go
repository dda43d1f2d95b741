package rank

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scored struct {
	id    string
	score float64
}

func scoreOf(s scored) float64 { return s.score }

func ranks[T any](rs []Ranked[T]) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.Rank
	}
	return out
}

func TestRank_CompetitionRanking(t *testing.T) {
	var items []scored
	for range 10 {
		items = append(items, scored{"low", -1.439})
	}
	for range 9 {
		items = append(items, scored{"high", 4.203})
	}

	ranked := Rank(items, Descending, scoreOf)
	require.Len(t, ranked, 19)

	for i, r := range ranked {
		if i < 9 {
			assert.Equal(t, 1, r.Rank)
			assert.Equal(t, 4.203, r.Payload.score)
		} else {
			assert.Equal(t, 10, r.Rank)
			assert.Equal(t, -1.439, r.Payload.score)
		}
	}
}

func TestRank_1224(t *testing.T) {
	items := []scored{{"a", 3}, {"b", 5}, {"c", 5}, {"d", 1}}

	desc := Rank(items, Descending, scoreOf)
	assert.Equal(t, []int{1, 1, 3, 4}, ranks(desc))
	assert.Equal(t, "b", desc[0].Payload.id)
	assert.Equal(t, "c", desc[1].Payload.id)
	assert.Equal(t, "a", desc[2].Payload.id)

	asc := Rank(items, Ascending, scoreOf)
	assert.Equal(t, []int{1, 2, 3, 3}, ranks(asc))
	assert.Equal(t, "d", asc[0].Payload.id)
	assert.Equal(t, "b", asc[2].Payload.id)
	assert.Equal(t, "c", asc[3].Payload.id)
}

func TestRank_EdgeCases(t *testing.T) {
	assert.Empty(t, Rank(nil, Descending, scoreOf))

	single := Rank([]scored{{"x", 0.5}}, Ascending, scoreOf)
	assert.Equal(t, []int{1}, ranks(single))

	equal := Rank([]scored{{"a", 2}, {"b", 2}, {"c", 2}}, Descending, scoreOf)
	assert.Equal(t, []int{1, 1, 1}, ranks(equal))
}

func TestRank_DoesNotModifyInput(t *testing.T) {
	items := []scored{{"a", 1}, {"b", 2}}
	Rank(items, Descending, scoreOf)
	assert.Equal(t, "a", items[0].id)
}

func TestRank_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, order := range []SortOrder{Descending, Ascending} {
		items := make([]scored, 200)
		for i := range items {
			items[i] = scored{score: float64(rng.Intn(20)) / 4}
		}

		ranked := Rank(items, order, scoreOf)
		for i := range ranked {
			for j := range ranked {
				a, b := ranked[i], ranked[j]
				better := a.Payload.score > b.Payload.score
				if order == Ascending {
					better = a.Payload.score < b.Payload.score
				}
				if better {
					assert.Less(t, a.Rank, b.Rank)
				}
				assert.Equal(t, a.Payload.score == b.Payload.score, a.Rank == b.Rank)
			}
			// The rank is the position of the first record in its score group.
			first := i
			for first > 0 && ranked[first-1].Payload.score == ranked[i].Payload.score {
				first--
			}
			assert.Equal(t, first+1, ranked[i].Rank)
		}
	}
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("ascending")
	require.NoError(t, err)
	assert.Equal(t, Ascending, o)
	assert.Equal(t, "ascending", o.String())

	o, err = ParseSortOrder(" Descending ")
	require.NoError(t, err)
	assert.Equal(t, Descending, o)
	assert.Equal(t, "descending", o.String())

	_, err = ParseSortOrder("random")
	assert.Error(t, err)
}
