package game

import (
	"fmt"
	"strings"
	"testing"

	"github.com/AdamJH-ai/handleys-fun-factory/internal/questions"
)

func holBank(n int, answer int) *questions.Bank {
	b := &questions.Bank{}
	for i := 0; i < n; i++ {
		b.HigherLower = append(b.HigherLower, questions.NumberQuestion{
			Question: fmt.Sprintf("Q%d", i+1),
			Answer:   answer,
		})
	}
	return b
}

func startHOL(t *testing.T, players int, bank *questions.Bank) (*Game, *recorder, *manualScheduler, *higherLowerRound) {
	t.Helper()
	g, rec, sched := newTestGame(bank, func(c *Config) { c.RoundsTotal = 1 })
	g.RegisterDisplay("display")
	for i := 1; i <= players; i++ {
		g.RegisterPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player%d", i))
	}
	startToOngoing(t, g, sched)
	r, ok := g.round.(*higherLowerRound)
	if !ok {
		t.Fatalf("active round is %T", g.round)
	}
	return g, rec, sched, r
}

func TestHigherLowerQueueFairness(t *testing.T) {
	cases := []struct{ players, turns, submits int }{
		{2, 10, 5},
		{3, 9, 3},
		{4, 12, 3},
		{5, 10, 2},
		{6, 12, 2},
		{7, 7, 1},
		{8, 8, 1},
	}
	for _, tc := range cases {
		_, _, _, r := startHOL(t, tc.players, holBank(12, 100))
		if len(r.queue) != tc.players*tc.submits {
			t.Errorf("%d players: queue length %d, want %d", tc.players, len(r.queue), tc.players*tc.submits)
		}
		counts := map[string]int{}
		for _, id := range r.queue {
			counts[id]++
		}
		if len(counts) != tc.players {
			t.Errorf("%d players: %d distinct submitters in queue", tc.players, len(counts))
		}
		for id, n := range counts {
			if n != tc.submits {
				t.Errorf("%d players: %s appears %d times, want %d", tc.players, id, n, tc.submits)
			}
		}
	}
}

func TestHigherLowerRequiresTwoPlayers(t *testing.T) {
	g, _, sched := newTestGame(holBank(12, 100), func(c *Config) { c.RoundsTotal = 1 })
	g.RegisterDisplay("display")
	g.RegisterPlayer("p1", "Solo")
	if err := g.StartGame("display"); err != nil {
		t.Fatal(err)
	}
	sched.fireN(t, 2) // lead-in, intro; begin fails and schedules the skip
	if g.round != nil {
		t.Fatal("round started with a single player")
	}
}

func TestHigherLowerDirectionScoring(t *testing.T) {
	g, _, sched, r := startHOL(t, 3, holBank(12, 100))
	sub := r.submitterID

	g.HandleSubmission(sub, NumberGuess{Value: 80})
	var right, wrong string
	for _, p := range g.contestants() {
		if p.ID == sub {
			continue
		}
		if right == "" {
			right = p.ID
		} else {
			wrong = p.ID
		}
	}
	// Answer 100 is higher than the submitted 80.
	g.HandleSubmission(right, DirectionGuess{Direction: "Higher"})
	g.HandleSubmission(wrong, DirectionGuess{Direction: "Lower"})
	sched.fireN(t, 1)

	if got := g.players[right].RoundScore; got != 1 {
		t.Errorf("correct guesser scored %d, want 1", got)
	}
	if got := g.players[wrong].RoundScore; got != 0 {
		t.Errorf("wrong guesser scored %d, want 0", got)
	}
	// One wrong guesser credits the submitter once.
	if got := g.players[sub].RoundScore; got != 1 {
		t.Errorf("submitter scored %d, want 1", got)
	}
}

func TestHigherLowerSubmitterSweep(t *testing.T) {
	g, _, sched, r := startHOL(t, 4, holBank(12, 100))
	sub := r.submitterID

	g.HandleSubmission(sub, NumberGuess{Value: 100})
	for _, p := range g.contestants() {
		if p.ID != sub {
			g.HandleSubmission(p.ID, DirectionGuess{Direction: "Higher"})
		}
	}
	sched.fireN(t, 1)

	// Exact answer: one point per opponent, nothing for any guesser.
	if got := g.players[sub].RoundScore; got != 3 {
		t.Errorf("submitter scored %d, want 3", got)
	}
	for _, p := range g.contestants() {
		if p.ID != sub && p.RoundScore != 0 {
			t.Errorf("guesser %s scored %d during a sweep", p.Name, p.RoundScore)
		}
	}
}

func TestHigherLowerGuesserOnlyAfterSubmission(t *testing.T) {
	g, rec, _, r := startHOL(t, 3, holBank(12, 100))
	var guesser string
	for _, p := range g.contestants() {
		if p.ID != r.submitterID {
			guesser = p.ID
			break
		}
	}
	g.HandleSubmission(guesser, DirectionGuess{Direction: "Higher"})
	if g.players[guesser].direction != "" {
		t.Fatal("direction accepted before the submitter answered")
	}
	payload, ok := rec.lastTo("player:"+guesser, "message")
	if !ok {
		t.Fatal("early guesser got no rejection notice")
	}
	if m := payload.(map[string]any); !strings.Contains(m["data"].(string), "hasn't answered") {
		t.Errorf("unexpected notice: %v", m["data"])
	}
}

func TestHigherLowerSubmitterCannotGuessDirection(t *testing.T) {
	g, rec, _, r := startHOL(t, 3, holBank(12, 100))
	sub := r.submitterID
	g.HandleSubmission(sub, NumberGuess{Value: 80})

	g.HandleSubmission(sub, DirectionGuess{Direction: "Higher"})
	if g.players[sub].direction != "" {
		t.Fatal("submitter's direction guess was recorded")
	}
	payload, ok := rec.lastTo("player:"+sub, "message")
	if !ok {
		t.Fatal("submitter got no rejection notice")
	}
	if m := payload.(map[string]any); !strings.Contains(m["data"].(string), "locked in") {
		t.Errorf("unexpected notice: %v", m["data"])
	}
}

func TestHigherLowerSubmitterDisconnectAbandonsTurn(t *testing.T) {
	g, _, _, r := startHOL(t, 3, holBank(12, 100))
	firstSub := r.submitterID
	turn := r.turns.turnNo()

	g.Disconnect(firstSub)

	if r.turns.turnNo() <= turn {
		t.Fatalf("turn did not advance after submitter disconnect: %d", r.turns.turnNo())
	}
	if r.submitterID == firstSub {
		t.Error("departed player still designated submitter")
	}
	if r.stage != holAwaitingSubmission {
		t.Errorf("new turn not awaiting submission, stage %v", r.stage)
	}
}

func TestHigherLowerGuesserDisconnectCompletesTurn(t *testing.T) {
	g, _, sched, r := startHOL(t, 3, holBank(12, 100))
	sub := r.submitterID
	g.HandleSubmission(sub, NumberGuess{Value: 80})

	var guessed bool
	for _, p := range g.contestants() {
		if p.ID == sub {
			continue
		}
		if !guessed {
			g.HandleSubmission(p.ID, DirectionGuess{Direction: "Higher"})
			guessed = true
		} else {
			g.Disconnect(p.ID)
		}
	}
	sched.fireN(t, 1)
	if g.phase != PhaseTurnResults {
		t.Fatalf("turn did not resolve after guesser disconnect, phase %v", g.phase)
	}
}
