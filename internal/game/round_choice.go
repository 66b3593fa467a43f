package game

import "github.com/AdamJH-ai/handleys-fun-factory/internal/questions"

// oddOneOutRound shows six options, one of which doesn't belong. Options are
// reshuffled per turn so the odd one out never sits in a fixed slot.
type oddOneOutRound struct {
	turns   turnTracker
	qs      []questions.OddOneOutQuestion
	cur     questions.OddOneOutQuestion
	options []string
}

func (r *oddOneOutRound) kind() RoundType { return WhoDidntDoIt }

func (r *oddOneOutRound) begin(g *Game) bool {
	r.qs = sample(g.rng, g.bank.OddOneOut, g.cfg.TargetTurns)
	if len(r.qs) == 0 {
		return false
	}
	r.turns = turnTracker{total: len(r.qs)}
	g.after(g.cfg.SetupLeadIn, func() { r.nextTurn(g) })
	return true
}

func (r *oddOneOutRound) nextTurn(g *Game) {
	if !r.turns.next() {
		g.finishRound(WhoDidntDoIt, false)
		return
	}
	r.cur = r.qs[r.turns.turnNo()-1]
	r.options = append([]string(nil), r.cur.Options...)
	g.rng.Shuffle(len(r.options), func(i, j int) { r.options[i], r.options[j] = r.options[j], r.options[i] })

	g.beginTurn()
	g.updateView(regionRound, map[string]any{
		"turn":        r.turns.turnNo(),
		"total_turns": r.turns.total,
		"question":    r.cur.Question,
		"options":     r.options,
		"image_url":   r.cur.ImageURL,
	})
	g.out.ToPlayers("wddi_player_prompt", map[string]any{
		"question":         r.cur.Question,
		"shuffled_options": r.options,
	})
}

func (r *oddOneOutRound) submit(g *Game, p *Player, sub Submission) {
	choice, ok := sub.(OptionChoice)
	if !ok || g.phase != PhaseOngoing {
		g.notify(p.ID, "Invalid answer.")
		return
	}
	valid := false
	for _, o := range r.options {
		if o == choice.Option {
			valid = true
			break
		}
	}
	if !valid {
		g.notify(p.ID, "That's not one of the options.")
		return
	}
	if p.optionChoice != "" {
		g.notify(p.ID, "Already answered.")
		return
	}
	p.optionChoice = choice.Option
	g.submittedPing(p)
	r.checkComplete(g)
}

func (r *oddOneOutRound) playerLeft(g *Game, _ *Player) { r.checkComplete(g) }

func (r *oddOneOutRound) checkComplete(g *Game) {
	if g.phase != PhaseOngoing {
		return
	}
	if len(g.pendingNames(func(q *Player) bool { return q.optionChoice == "" }, "")) > 0 {
		return
	}
	g.after(g.cfg.PreScoringPause, func() { r.score(g) })
}

func (r *oddOneOutRound) score(g *Game) {
	if g.phase != PhaseOngoing {
		return
	}
	results := make([]map[string]any, 0, len(g.contestants()))
	for _, p := range g.contestants() {
		correct := p.optionChoice == r.cur.CorrectAnswer
		if correct {
			p.RoundScore++
		}
		guess := any(p.optionChoice)
		if p.optionChoice == "" {
			guess = "N/A"
		}
		results = append(results, map[string]any{
			"name":        p.Name,
			"guess":       guess,
			"correct":     correct,
			"round_score": p.RoundScore,
		})
	}
	g.showTurnResults(WhoDidntDoIt, map[string]any{
		"question":       r.cur.Question,
		"correct_answer": r.cur.CorrectAnswer,
		"results":        results,
	}, func() { r.nextTurn(g) })
}
