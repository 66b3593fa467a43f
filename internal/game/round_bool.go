package game

import "github.com/AdamJH-ai/handleys-fun-factory/internal/questions"

// boolRound is the true-or-false format.
type boolRound struct {
	turns turnTracker
	qs    []questions.BoolQuestion
	cur   questions.BoolQuestion
}

func (r *boolRound) kind() RoundType { return TrueOrFalse }

func (r *boolRound) begin(g *Game) bool {
	r.qs = sample(g.rng, g.bank.Bool, g.cfg.TargetTurns)
	if len(r.qs) == 0 {
		return false
	}
	r.turns = turnTracker{total: len(r.qs)}
	g.after(g.cfg.SetupLeadIn, func() { r.nextTurn(g) })
	return true
}

func (r *boolRound) nextTurn(g *Game) {
	if !r.turns.next() {
		g.finishRound(TrueOrFalse, false)
		return
	}
	r.cur = r.qs[r.turns.turnNo()-1]
	g.beginTurn()
	g.updateView(regionRound, map[string]any{
		"turn":        r.turns.turnNo(),
		"total_turns": r.turns.total,
		"statement":   r.cur.Statement,
	})
	g.out.ToPlayers("true_or_false_player_prompt", map[string]any{
		"statement": r.cur.Statement,
	})
}

func (r *boolRound) submit(g *Game, p *Player, sub Submission) {
	guess, ok := sub.(BoolGuess)
	if !ok || g.phase != PhaseOngoing {
		g.notify(p.ID, "Invalid answer.")
		return
	}
	if p.boolGuess != nil {
		g.notify(p.ID, "Already answered.")
		return
	}
	v := guess.Value
	p.boolGuess = &v
	g.submittedPing(p)
	r.checkComplete(g)
}

func (r *boolRound) playerLeft(g *Game, _ *Player) { r.checkComplete(g) }

func (r *boolRound) checkComplete(g *Game) {
	if g.phase != PhaseOngoing {
		return
	}
	if len(g.pendingNames(func(q *Player) bool { return q.boolGuess == nil }, "")) > 0 {
		return
	}
	g.after(g.cfg.PreScoringPause, func() { r.score(g) })
}

func (r *boolRound) score(g *Game) {
	if g.phase != PhaseOngoing {
		return
	}
	results := make([]map[string]any, 0, len(g.contestants()))
	for _, p := range g.contestants() {
		correct := p.boolGuess != nil && *p.boolGuess == r.cur.Answer
		if correct {
			p.RoundScore++
		}
		guess := any("N/A")
		if p.boolGuess != nil {
			guess = *p.boolGuess
		}
		results = append(results, map[string]any{
			"name":        p.Name,
			"guess":       guess,
			"correct":     correct,
			"round_score": p.RoundScore,
		})
	}
	g.showTurnResults(TrueOrFalse, map[string]any{
		"statement":      r.cur.Statement,
		"correct_answer": r.cur.Answer,
		"results":        results,
	}, func() { r.nextTurn(g) })
}
