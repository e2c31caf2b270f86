// Package match scores lost reports against found reports (and vice versa).
package match

import (
	"sort"
	"strings"

	"github.com/Manoj120605/Lostfoundbot25/internal/item"
)

// Attribute and location contributions to a match score.
const (
	exactPoints     = 10
	substringPoints = 5
)

// Match pairs a candidate report with its similarity score.
type Match struct {
	Item  item.Item `json:"item"`
	Score int       `json:"score"`
}

// Pool exposes read-only access to the two report collections.
// Implemented by store.Store.
type Pool interface {
	Lost() []item.Item
	Found() []item.Item
}

// Engine ranks candidates from a Pool. It is stateless; every call reads the
// pool fresh.
type Engine struct {
	pool Pool
}

// New creates an Engine over the given pool.
func New(pool Pool) *Engine {
	return &Engine{pool: pool}
}

// Score computes the similarity between two reports.
//
// Reports in different categories never match (score 0). Otherwise every
// detail key present on both sides contributes: +10 for a case-insensitive
// exact value match, +5 when one non-empty value contains the other. The
// location contributes on the same scale. Keys present on only one side
// contribute nothing. Score is symmetric: Score(a, b) == Score(b, a).
func Score(a, b item.Item) int {
	if a.Category != b.Category {
		return 0
	}

	score := 0
	for key, av := range a.Details {
		bv, ok := b.Details[key]
		if !ok {
			continue
		}
		score += compareValues(av, bv)
	}
	score += compareLocations(a.Location, b.Location)
	return score
}

func compareValues(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	switch {
	case a == b:
		return exactPoints
	case a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a)):
		return substringPoints
	default:
		return 0
	}
}

// compareLocations mirrors compareValues but keeps the historical empty-side
// substring bonus: a query with no location still earns +5 against any
// candidate location, which the ranking relies on.
func compareLocations(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	switch {
	case a == b:
		return exactPoints
	case strings.Contains(a, b) || strings.Contains(b, a):
		return substringPoints
	default:
		return 0
	}
}

// FindMatches ranks candidates from the opposite collection against a query
// described by category and details. A lost query searches the found
// collection and vice versa. Only OPEN candidates are eligible; candidates
// scoring 0 are dropped; results sort by score descending with ties keeping
// the pool's original relative order.
func (e *Engine) FindMatches(queryIsLost bool, category string, details map[string]string) []Match {
	pool := e.pool.Lost()
	if queryIsLost {
		pool = e.pool.Found()
	}
	return Rank(item.Item{Category: category, Details: details}, pool)
}

// Rank scores query against every OPEN candidate in pool and returns the
// positive-scoring ones, best first, ties in pool order.
func Rank(query item.Item, pool []item.Item) []Match {
	matches := make([]Match, 0, len(pool))
	for _, cand := range pool {
		if cand.Status != item.StatusOpen {
			continue
		}
		if s := Score(query, cand); s > 0 {
			matches = append(matches, Match{Item: cand, Score: s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
