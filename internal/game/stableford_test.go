package game

import (
	"fmt"
	"testing"
)

func rankedPlayers(scores ...int) ([]*Player, map[string]float64) {
	ranked := make([]*Player, 0, len(scores))
	overall := make(map[string]float64, len(scores))
	for i, s := range scores {
		id := fmt.Sprintf("p%d", i+1)
		ranked = append(ranked, &Player{ID: id, Name: id, RoundScore: s})
		overall[id] = 0
	}
	return ranked, overall
}

func TestAwardGamePointsStrictOrder(t *testing.T) {
	for n := 2; n <= 8; n++ {
		scores := make([]int, n)
		for i := range scores {
			scores[i] = n - i // strictly decreasing, no ties
		}
		ranked, overall := rankedPlayers(scores...)
		awarded := awardGamePoints(ranked, overall)

		if got := awarded[ranked[0].ID]; got != float64(n+1) {
			t.Errorf("n=%d: winner got %v, want %d", n, got, n+1)
		}
		for r := 2; r <= n; r++ {
			want := float64(n + 1 - r)
			if got := awarded[ranked[r-1].ID]; got != want {
				t.Errorf("n=%d rank %d: got %v, want %v", n, r, got, want)
			}
		}
	}
}

func TestAwardGamePointsSoloPlayer(t *testing.T) {
	ranked, overall := rankedPlayers(7)
	awarded := awardGamePoints(ranked, overall)
	if got := awarded["p1"]; got != 2 {
		t.Fatalf("solo player got %v, want 2", got)
	}
	if overall["p1"] != 2 {
		t.Fatalf("overall not updated: %v", overall["p1"])
	}
}

func TestAwardGamePointsTwoWayTie(t *testing.T) {
	// Rank values for N=2 are 3 and 1; a full tie averages to 2.
	ranked, overall := rankedPlayers(3, 3)
	awarded := awardGamePoints(ranked, overall)
	for _, p := range ranked {
		if got := awarded[p.ID]; got != 2 {
			t.Errorf("%s got %v, want 2", p.ID, got)
		}
	}
}

func TestAwardGamePointsTieBlockAveraging(t *testing.T) {
	// N=4: values are 5,3,2,1. Ranks 2-3 tie and share (3+2)/2 = 2.5.
	ranked, overall := rankedPlayers(10, 7, 7, 1)
	awarded := awardGamePoints(ranked, overall)

	if got := awarded["p1"]; got != 5 {
		t.Errorf("winner got %v, want 5", got)
	}
	if got := awarded["p2"]; got != 2.5 {
		t.Errorf("p2 got %v, want 2.5", got)
	}
	if got := awarded["p3"]; got != 2.5 {
		t.Errorf("p3 got %v, want 2.5", got)
	}
	if got := awarded["p4"]; got != 1 {
		t.Errorf("p4 got %v, want 1", got)
	}

	// Tie averaging must preserve the total points handed out.
	total := 0.0
	for _, v := range awarded {
		total += v
	}
	if total != 5+3+2+1 {
		t.Errorf("tie averaging changed total: %v", total)
	}
}

func TestAwardGamePointsSkipsDisconnected(t *testing.T) {
	ranked, overall := rankedPlayers(5, 3, 1)
	delete(overall, "p2")
	awarded := awardGamePoints(ranked, overall)
	if _, ok := awarded["p2"]; ok {
		t.Error("disconnected player received an award")
	}
	if _, ok := overall["p2"]; ok {
		t.Error("disconnected player re-entered the overall map")
	}
	if awarded["p1"] != 4 || awarded["p3"] != 1 {
		t.Errorf("surviving awards wrong: %v", awarded)
	}
}

func TestAwardGamePointsEmptyRanking(t *testing.T) {
	awarded := awardGamePoints(nil, map[string]float64{})
	if len(awarded) != 0 {
		t.Fatalf("expected no awards, got %v", awarded)
	}
}
