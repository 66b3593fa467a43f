package game

import (
	"math/rand"
	"testing"
)

// The canonical difference-round walkthrough: three players, true answer 50,
// guesses 45/50/60. Errors accumulate as round score and the lowest error
// wins the round.
func TestDifferenceRoundScenario(t *testing.T) {
	g, _, sched := newTestGame(yearBank(50), func(c *Config) { c.RoundsTotal = 1 })
	g.RegisterDisplay("display")
	g.RegisterPlayer("p1", "Ann")
	g.RegisterPlayer("p2", "Ben")
	g.RegisterPlayer("p3", "Cat")
	startToOngoing(t, g, sched)

	g.HandleSubmission("p1", NumberGuess{Value: 45})
	g.HandleSubmission("p2", NumberGuess{Value: 50})
	g.HandleSubmission("p3", NumberGuess{Value: 60})
	sched.fireN(t, 1) // pre-scoring pause

	if got := g.players["p1"].RoundScore; got != 5 {
		t.Errorf("p1 round score %d, want 5", got)
	}
	if got := g.players["p2"].RoundScore; got != 0 {
		t.Errorf("p2 round score %d, want 0", got)
	}
	if got := g.players["p3"].RoundScore; got != 10 {
		t.Errorf("p3 round score %d, want 10", got)
	}

	// Turn results pause, then the exhausted turn tracker ends the round.
	sched.fireN(t, 1)
	if g.phase != PhaseRoundResults {
		t.Fatalf("round did not finish, phase %v", g.phase)
	}

	// Ranking is Ben (0), Ann (5), Cat (10); rank values for N=3 are 4,2,1.
	if got := g.overall["p2"]; got != 4 {
		t.Errorf("p2 overall %v, want 4", got)
	}
	if got := g.overall["p1"]; got != 2 {
		t.Errorf("p1 overall %v, want 2", got)
	}
	if got := g.overall["p3"]; got != 1 {
		t.Errorf("p3 overall %v, want 1", got)
	}
}

func TestSubmissionWriteOnce(t *testing.T) {
	g, rec, sched := newTestGame(yearBank(50), func(c *Config) { c.RoundsTotal = 1 })
	g.RegisterDisplay("display")
	g.RegisterPlayer("p1", "Ann")
	g.RegisterPlayer("p2", "Ben")
	startToOngoing(t, g, sched)

	g.HandleSubmission("p1", NumberGuess{Value: 45})
	g.HandleSubmission("p1", NumberGuess{Value: 99})
	payload, ok := rec.lastTo("player:p1", "message")
	if !ok {
		t.Fatal("no rejection notice for duplicate submission")
	}
	if m := payload.(map[string]any); m["data"] != "Already guessed." {
		t.Errorf("unexpected notice: %v", m["data"])
	}

	g.HandleSubmission("p2", NumberGuess{Value: 50})
	sched.fireN(t, 1)
	if got := g.players["p1"].RoundScore; got != 5 {
		t.Errorf("first submission not the one scored: round score %d, want 5", got)
	}
}

func TestSubmissionRangeValidation(t *testing.T) {
	g, rec, sched := newTestGame(yearBank(50), func(c *Config) { c.RoundsTotal = 1 })
	g.RegisterDisplay("display")
	g.RegisterPlayer("p1", "Ann")
	startToOngoing(t, g, sched)

	g.HandleSubmission("p1", NumberGuess{Value: -20000})
	if g.players["p1"].numberGuess != nil {
		t.Fatal("out-of-range guess was stored")
	}
	if _, ok := rec.lastTo("player:p1", "message"); !ok {
		t.Error("no rejection notice for out-of-range guess")
	}
}

func TestScoringIdempotent(t *testing.T) {
	g, _, sched := newTestGame(yearBank(50), func(c *Config) { c.RoundsTotal = 1 })
	g.RegisterDisplay("display")
	g.RegisterPlayer("p1", "Ann")
	startToOngoing(t, g, sched)

	r := g.round.(*diffRound)
	g.HandleSubmission("p1", NumberGuess{Value: 45})
	sched.fireN(t, 1)
	if got := g.players["p1"].RoundScore; got != 5 {
		t.Fatalf("round score %d, want 5", got)
	}

	// A stale completion check must not score the turn again.
	g.mu.Lock()
	r.score(g)
	g.mu.Unlock()
	if got := g.players["p1"].RoundScore; got != 5 {
		t.Errorf("re-entrant scoring changed round score to %d", got)
	}
}

func TestStaleTimerDropped(t *testing.T) {
	g, _, sched := newTestGame(yearBank(50, 60), func(c *Config) { c.RoundsTotal = 1 })
	g.RegisterDisplay("display")
	g.RegisterPlayer("p1", "Ann")
	startToOngoing(t, g, sched)

	g.HandleSubmission("p1", NumberGuess{Value: 45})
	// Queue now holds the pre-scoring pause. Queue a second one by way of a
	// disconnect-triggered completion re-check before the first fires.
	g.RegisterPlayer("p2", "Ben")
	g.Disconnect("p2")

	sched.fireN(t, 1) // scores the turn, bumps the epoch
	phase := g.phase
	score := g.players["p1"].RoundScore
	sched.fireN(t, 1) // the stale duplicate must be a no-op
	if g.phase != phase || g.players["p1"].RoundScore != score {
		t.Error("stale continuation acted after the phase moved on")
	}
}

func TestSampleUniqueAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	src := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	got := sample(rng, src, 5)
	if len(got) != 5 {
		t.Fatalf("sample size %d, want 5", len(got))
	}
	seen := map[int]bool{}
	for _, v := range got {
		if seen[v] {
			t.Fatalf("duplicate sample %d", v)
		}
		seen[v] = true
	}

	if got := sample(rng, src, 50); len(got) != len(src) {
		t.Errorf("oversized request returned %d items, want %d", len(got), len(src))
	}
}

func TestBuildPlanCyclesScarceTypes(t *testing.T) {
	g, _, _ := newTestGame(yearBank(50), nil)
	plan := g.buildPlan([]RoundType{GuessTheYear, TrueOrFalse})
	if len(plan) != g.cfg.RoundsTotal {
		t.Fatalf("plan length %d, want %d", len(plan), g.cfg.RoundsTotal)
	}
	counts := map[RoundType]int{}
	for _, rt := range plan {
		counts[rt]++
	}
	if counts[GuessTheYear] != 5 || counts[TrueOrFalse] != 5 {
		t.Errorf("cyclic plan unbalanced: %v", counts)
	}
}

func TestBuildPlanSamplesWhenPlentiful(t *testing.T) {
	g, _, _ := newTestGame(yearBank(50), func(c *Config) { c.RoundsTotal = 4 })
	plan := g.buildPlan(AllRoundTypes)
	if len(plan) != 4 {
		t.Fatalf("plan length %d, want 4", len(plan))
	}
	seen := map[RoundType]bool{}
	for _, rt := range plan {
		if seen[rt] {
			t.Fatalf("type %v repeated despite enough distinct types", rt)
		}
		seen[rt] = true
	}
}
