package analytics

// meanGroups accumulates values per key and remembers the order in which
// keys were first seen, which makes best-group selection deterministic.
type meanGroups[K comparable] struct {
	order []K
	sum   map[K]float64
	count map[K]int
}

func newMeanGroups[K comparable]() *meanGroups[K] {
	return &meanGroups[K]{
		sum:   make(map[K]float64),
		count: make(map[K]int),
	}
}

func (g *meanGroups[K]) add(key K, value float64) {
	if _, seen := g.count[key]; !seen {
		g.order = append(g.order, key)
	}
	g.sum[key] += value
	g.count[key]++
}

func (g *meanGroups[K]) mean(key K) float64 {
	n := g.count[key]
	if n == 0 {
		return 0
	}
	return g.sum[key] / float64(n)
}

// best returns the key with the highest mean. When several keys share the
// highest mean, the one first seen wins.
func (g *meanGroups[K]) best() (K, bool) {
	var bestKey K
	if len(g.order) == 0 {
		return bestKey, false
	}
	bestKey = g.order[0]
	bestMean := g.mean(bestKey)
	for _, key := range g.order[1:] {
		if m := g.mean(key); m > bestMean {
			bestKey, bestMean = key, m
		}
	}
	return bestKey, true
}
