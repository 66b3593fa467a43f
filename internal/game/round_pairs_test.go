package game

import (
	"testing"

	"github.com/AdamJH-ai/handleys-fun-factory/internal/questions"
)

func pairsBank() *questions.Bank {
	return &questions.Bank{
		Pairs: []questions.PairsQuestion{{
			Prompt: "Capitals",
			Pairs: [][2]string{
				{"France", "Paris"},
				{"Spain", "Madrid"},
				{"Italy", "Rome"},
			},
		}},
	}
}

func correctPairs() [][]string {
	return [][]string{
		{"France", "Paris"},
		{"Spain", "Madrid"},
		{"Italy", "Rome"},
	}
}

func TestQuickPairsSpeedBonus(t *testing.T) {
	g, _, sched := newTestGame(pairsBank(), func(c *Config) { c.RoundsTotal = 1 })
	g.RegisterDisplay("display")
	g.RegisterPlayer("p1", "Ann")
	g.RegisterPlayer("p2", "Ben")
	startToOngoing(t, g, sched)

	g.HandleSubmission("p1", PairSet{Pairs: correctPairs(), ElapsedMS: 4000})
	g.HandleSubmission("p2", PairSet{Pairs: correctPairs(), ElapsedMS: 2500})
	sched.fireN(t, 1)

	if got := g.players["p2"].RoundScore; got != 2 {
		t.Errorf("fastest correct player scored %d, want 2", got)
	}
	if got := g.players["p1"].RoundScore; got != 1 {
		t.Errorf("slower correct player scored %d, want 1", got)
	}
}

func TestQuickPairsOrderInsensitive(t *testing.T) {
	g, _, sched := newTestGame(pairsBank(), func(c *Config) { c.RoundsTotal = 1 })
	g.RegisterDisplay("display")
	g.RegisterPlayer("p1", "Ann")
	startToOngoing(t, g, sched)

	// Reversed items within pairs and a shuffled pair order still count.
	g.HandleSubmission("p1", PairSet{Pairs: [][]string{
		{"Rome", "Italy"},
		{"Paris", "France"},
		{"Madrid", "Spain"},
	}, ElapsedMS: 3000})
	sched.fireN(t, 1)

	if got := g.players["p1"].RoundScore; got != 2 {
		t.Errorf("reordered correct set scored %d, want 2", got)
	}
}

func TestQuickPairsWrongSetScoresNothing(t *testing.T) {
	g, _, sched := newTestGame(pairsBank(), func(c *Config) { c.RoundsTotal = 1 })
	g.RegisterDisplay("display")
	g.RegisterPlayer("p1", "Ann")
	startToOngoing(t, g, sched)

	g.HandleSubmission("p1", PairSet{Pairs: [][]string{
		{"France", "Madrid"},
		{"Spain", "Paris"},
		{"Italy", "Rome"},
	}, ElapsedMS: 1000})
	sched.fireN(t, 1)

	if got := g.players["p1"].RoundScore; got != 0 {
		t.Errorf("partially wrong set scored %d, want 0", got)
	}
}

func TestQuickPairsValidation(t *testing.T) {
	g, rec, sched := newTestGame(pairsBank(), func(c *Config) { c.RoundsTotal = 1 })
	g.RegisterDisplay("display")
	g.RegisterPlayer("p1", "Ann")
	startToOngoing(t, g, sched)

	g.HandleSubmission("p1", PairSet{Pairs: correctPairs()[:2], ElapsedMS: 1000})
	if g.players["p1"].pairSet != nil {
		t.Fatal("short pair set was stored")
	}
	g.HandleSubmission("p1", PairSet{Pairs: correctPairs(), ElapsedMS: -5})
	if g.players["p1"].pairSet != nil {
		t.Fatal("negative elapsed time was stored")
	}
	if _, ok := rec.lastTo("player:p1", "message"); !ok {
		t.Error("no rejection notice sent")
	}
}
