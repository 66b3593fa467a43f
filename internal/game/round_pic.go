package game

import (
	"fmt"

	"github.com/AdamJH-ai/handleys-fun-factory/internal/questions"
)

// picRound asks players to tap the right numbered region of a picture.
// The picture only appears on the main screen; players get a plain
// numbered grid.
type picRound struct {
	turns turnTracker
	qs    []questions.PicQuestion
	cur   questions.PicQuestion
}

func (r *picRound) kind() RoundType { return TapThePic }

func (r *picRound) begin(g *Game) bool {
	r.qs = sample(g.rng, g.bank.Pic, g.cfg.TargetTurns)
	if len(r.qs) == 0 {
		return false
	}
	r.turns = turnTracker{total: len(r.qs)}
	g.after(g.cfg.SetupLeadIn, func() { r.nextTurn(g) })
	return true
}

func (r *picRound) nextTurn(g *Game) {
	if !r.turns.next() {
		g.finishRound(TapThePic, false)
		return
	}
	r.cur = r.qs[r.turns.turnNo()-1]
	g.beginTurn()
	g.updateView(regionRound, map[string]any{
		"turn":        r.turns.turnNo(),
		"total_turns": r.turns.total,
		"question":    r.cur.Question,
		"image_url":   r.cur.ImageURL,
		"num_options": r.cur.NumOptions,
	})
	g.out.ToPlayers("tap_the_pic_player_prompt", map[string]any{
		"question":    r.cur.Question,
		"num_options": r.cur.NumOptions,
	})
}

func (r *picRound) submit(g *Game, p *Player, sub Submission) {
	guess, ok := sub.(NumberGuess)
	if !ok || g.phase != PhaseOngoing {
		g.notify(p.ID, "Invalid answer.")
		return
	}
	if guess.Value < 1 || guess.Value > r.cur.NumOptions {
		g.notify(p.ID, fmt.Sprintf("Pick a number from 1 to %d.", r.cur.NumOptions))
		return
	}
	if p.numberGuess != nil {
		g.notify(p.ID, "Already answered.")
		return
	}
	v := guess.Value
	p.numberGuess = &v
	g.submittedPing(p)
	r.checkComplete(g)
}

func (r *picRound) playerLeft(g *Game, _ *Player) { r.checkComplete(g) }

func (r *picRound) checkComplete(g *Game) {
	if g.phase != PhaseOngoing {
		return
	}
	if len(g.pendingNames(func(q *Player) bool { return q.numberGuess == nil }, "")) > 0 {
		return
	}
	g.after(g.cfg.PreScoringPause, func() { r.score(g) })
}

func (r *picRound) score(g *Game) {
	if g.phase != PhaseOngoing {
		return
	}
	results := make([]map[string]any, 0, len(g.contestants()))
	for _, p := range g.contestants() {
		correct := p.numberGuess != nil && *p.numberGuess == r.cur.Answer
		if correct {
			p.RoundScore++
		}
		guess := any("N/A")
		if p.numberGuess != nil {
			guess = *p.numberGuess
		}
		results = append(results, map[string]any{
			"name":        p.Name,
			"guess":       guess,
			"correct":     correct,
			"round_score": p.RoundScore,
		})
	}
	g.showTurnResults(TapThePic, map[string]any{
		"question":       r.cur.Question,
		"correct_answer": r.cur.Answer,
		"results":        results,
	}, func() { r.nextTurn(g) })
}
