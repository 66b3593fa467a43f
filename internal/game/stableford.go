package game

import "math"

// awardGamePoints converts a round's final ranking into overall game points
// and adds them to each surviving player's running total.
//
// With N ranked players, rank r earns N+1-r points, except the outright
// winner who earns N+1 (or 2 when playing solo). Players tied on round score
// share the points their span would have earned, averaged and rounded to one
// decimal. Players with no overall entry left the game and earn nothing.
//
// Returns the points awarded this round, keyed by player id.
func awardGamePoints(ranked []*Player, overall map[string]float64) map[string]float64 {
	n := len(ranked)
	awarded := make(map[string]float64, n)
	if n == 0 {
		return awarded
	}

	values := make([]float64, n)
	for i := range values {
		values[i] = float64(n - i) // rank i+1 gets n+1-(i+1)
	}
	if n > 1 {
		values[0] = float64(n + 1)
	} else {
		values[0] = 2
	}

	for i := 0; i < n; {
		j := i
		for j+1 < n && ranked[j+1].RoundScore == ranked[i].RoundScore {
			j++
		}
		sum := 0.0
		for k := i; k <= j; k++ {
			sum += values[k]
		}
		share := math.Round(sum/float64(j-i+1)*10) / 10
		for k := i; k <= j; k++ {
			id := ranked[k].ID
			if _, ok := overall[id]; !ok {
				continue
			}
			overall[id] += share
			awarded[id] = share
		}
		i = j + 1
	}
	return awarded
}
