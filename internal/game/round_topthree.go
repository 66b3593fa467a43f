package game

import "github.com/AdamJH-ai/handleys-fun-factory/internal/questions"

// topThreeRound asks players to pick the top three entries from a longer
// list. All three right is worth 3, exactly two right is worth 1.
type topThreeRound struct {
	turns turnTracker
	qs    []questions.TopThreeQuestion
	cur   questions.TopThreeQuestion
}

func (r *topThreeRound) kind() RoundType { return TopThree }

func (r *topThreeRound) begin(g *Game) bool {
	r.qs = sample(g.rng, g.bank.TopThree, g.cfg.TargetTurns)
	if len(r.qs) == 0 {
		return false
	}
	r.turns = turnTracker{total: len(r.qs)}
	g.after(g.cfg.SetupLeadIn, func() { r.nextTurn(g) })
	return true
}

func (r *topThreeRound) nextTurn(g *Game) {
	if !r.turns.next() {
		g.finishRound(TopThree, false)
		return
	}
	r.cur = r.qs[r.turns.turnNo()-1]
	g.beginTurn()
	g.updateView(regionRound, map[string]any{
		"turn":        r.turns.turnNo(),
		"total_turns": r.turns.total,
		"question":    r.cur.Question,
		"options":     r.cur.Options,
	})
	g.out.ToPlayers("top_three_player_prompt", map[string]any{
		"question": r.cur.Question,
		"options":  r.cur.Options,
	})
}

func (r *topThreeRound) submit(g *Game, p *Player, sub Submission) {
	picks, ok := sub.(TopPicks)
	if !ok || g.phase != PhaseOngoing {
		g.notify(p.ID, "Invalid submission.")
		return
	}
	if len(picks.Choices) != 3 {
		g.notify(p.ID, "Pick exactly three.")
		return
	}
	seen := map[string]bool{}
	for _, c := range picks.Choices {
		if seen[c] || !contains(r.cur.Options, c) {
			g.notify(p.ID, "Pick three different options from the list.")
			return
		}
		seen[c] = true
	}
	if p.topPicks != nil {
		g.notify(p.ID, "Already submitted.")
		return
	}
	p.topPicks = append([]string(nil), picks.Choices...)
	g.submittedPing(p)
	r.checkComplete(g)
}

func (r *topThreeRound) playerLeft(g *Game, _ *Player) { r.checkComplete(g) }

func (r *topThreeRound) checkComplete(g *Game) {
	if g.phase != PhaseOngoing {
		return
	}
	if len(g.pendingNames(func(q *Player) bool { return q.topPicks == nil }, "")) > 0 {
		return
	}
	g.after(g.cfg.PreScoringPause, func() { r.score(g) })
}

func (r *topThreeRound) score(g *Game) {
	if g.phase != PhaseOngoing {
		return
	}
	results := make([]map[string]any, 0, len(g.contestants()))
	for _, p := range g.contestants() {
		hits := 0
		for _, c := range p.topPicks {
			if contains(r.cur.Correct, c) {
				hits++
			}
		}
		points := 0
		switch hits {
		case 3:
			points = 3
		case 2:
			points = 1
		}
		p.RoundScore += points
		results = append(results, map[string]any{
			"name":        p.Name,
			"picks":       p.topPicks,
			"num_correct": hits,
			"points":      points,
			"round_score": p.RoundScore,
		})
	}
	g.showTurnResults(TopThree, map[string]any{
		"question":        r.cur.Question,
		"correct_answers": r.cur.Correct,
		"results":         results,
	}, func() { r.nextTurn(g) })
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
