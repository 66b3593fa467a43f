package game

import (
	"fmt"
	"sort"
	"time"
)

// numericQuestion is one turn of a difference-scored round, with the wire
// payloads already shaped for the prompt and results views.
type numericQuestion struct {
	answer  int
	prompt  map[string]any
	display map[string]any
	extras  map[string]any
}

// diffRound runs the two numeric-guess formats. Every player guesses a
// number per turn; the absolute error accumulates into round_score and the
// lowest total wins the round.
type diffRound struct {
	t           RoundType
	promptEvent string
	waitEvent   string
	min, max    int
	invalidMsg  string
	load        func(g *Game) []numericQuestion

	turns turnTracker
	qs    []numericQuestion
	cur   numericQuestion
}

func newAgeRound() *diffRound {
	return &diffRound{
		t:           GuessTheAge,
		promptEvent: "gta_player_prompt",
		waitEvent:   "gta_wait_for_guesses",
		min:         0,
		max:         120,
		invalidMsg:  "Invalid guess (0-120).",
		load: func(g *Game) []numericQuestion {
			qs := make([]numericQuestion, 0, g.cfg.TargetTurns)
			for _, c := range sample(g.rng, g.bank.Age, g.cfg.TargetTurns) {
				qs = append(qs, numericQuestion{
					answer: c.Age,
					prompt: map[string]any{"celebrity_name": c.Name},
					display: map[string]any{
						"celebrity": map[string]any{
							"name":        c.Name,
							"image_url":   c.ImageURL,
							"description": c.Description,
						},
					},
					extras: map[string]any{"actual_age": c.Age, "celebrity_name": c.Name},
				})
			}
			return qs
		},
	}
}

func newYearRound() *diffRound {
	maxYear := time.Now().Year() + 100
	return &diffRound{
		t:           GuessTheYear,
		promptEvent: "gty_player_prompt",
		waitEvent:   "gty_wait_for_guesses",
		min:         -10000,
		max:         maxYear,
		invalidMsg:  fmt.Sprintf("Invalid guess (-10000 to %d).", maxYear),
		load: func(g *Game) []numericQuestion {
			qs := make([]numericQuestion, 0, g.cfg.TargetTurns)
			for _, q := range sample(g.rng, g.bank.Year, g.cfg.TargetTurns) {
				qs = append(qs, numericQuestion{
					answer: q.Year,
					prompt: map[string]any{"question": q.Question},
					display: map[string]any{
						"question":  q.Question,
						"image_url": q.ImageURL,
					},
					extras: map[string]any{"actual_year": q.Year, "question": q.Question},
				})
			}
			return qs
		},
	}
}

func (r *diffRound) kind() RoundType { return r.t }

func (r *diffRound) begin(g *Game) bool {
	r.qs = r.load(g)
	if len(r.qs) == 0 {
		return false
	}
	r.turns = turnTracker{total: len(r.qs)}
	g.after(g.cfg.SetupLeadIn, func() { r.nextTurn(g) })
	return true
}

func (r *diffRound) nextTurn(g *Game) {
	if !r.turns.next() {
		g.finishRound(r.t, true)
		return
	}
	r.cur = r.qs[r.turns.turnNo()-1]
	g.beginTurn()

	ctx := map[string]any{
		"turn":        r.turns.turnNo(),
		"total_turns": r.turns.total,
	}
	for k, v := range r.cur.display {
		ctx[k] = v
	}
	g.updateView(regionRound, ctx)
	g.out.ToPlayers(r.promptEvent, r.cur.prompt)
}

func (r *diffRound) submit(g *Game, p *Player, sub Submission) {
	guess, ok := sub.(NumberGuess)
	if !ok || g.phase != PhaseOngoing {
		g.notify(p.ID, r.invalidMsg)
		return
	}
	if guess.Value < r.min || guess.Value > r.max {
		g.notify(p.ID, r.invalidMsg)
		return
	}
	if p.numberGuess != nil {
		g.notify(p.ID, "Already guessed.")
		return
	}
	v := guess.Value
	p.numberGuess = &v
	g.submittedPing(p)
	remaining := len(g.pendingNames(func(q *Player) bool { return q.numberGuess == nil }, ""))
	g.out.ToPlayer(p.ID, r.waitEvent, map[string]any{"waiting_on": remaining})
	r.checkComplete(g)
}

func (r *diffRound) playerLeft(g *Game, _ *Player) { r.checkComplete(g) }

func (r *diffRound) checkComplete(g *Game) {
	if g.phase != PhaseOngoing {
		return
	}
	if len(g.pendingNames(func(q *Player) bool { return q.numberGuess == nil }, "")) > 0 {
		return
	}
	g.after(g.cfg.PreScoringPause, func() { r.score(g) })
}

func (r *diffRound) score(g *Game) {
	if g.phase != PhaseOngoing {
		return
	}

	type row struct {
		entry map[string]any
		diff  int
		ok    bool
	}
	rows := make([]row, 0, len(g.contestants()))
	for _, p := range g.contestants() {
		if p.numberGuess == nil {
			rows = append(rows, row{entry: map[string]any{
				"name": p.Name, "guess": "N/A", "diff": "-", "round_score": p.RoundScore,
			}})
			continue
		}
		diff := r.cur.answer - *p.numberGuess
		if diff < 0 {
			diff = -diff
		}
		p.RoundScore += diff
		rows = append(rows, row{
			entry: map[string]any{
				"name": p.Name, "guess": *p.numberGuess, "diff": diff, "round_score": p.RoundScore,
			},
			diff: diff,
			ok:   true,
		})
	}
	// Best guesses first, non-submitters last.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ok != rows[j].ok {
			return rows[i].ok
		}
		return rows[i].diff < rows[j].diff
	})

	ctx := map[string]any{}
	for k, v := range r.cur.extras {
		ctx[k] = v
	}
	results := make([]map[string]any, 0, len(rows))
	for _, w := range rows {
		results = append(results, w.entry)
	}
	ctx["results"] = results

	g.showTurnResults(r.t, ctx, func() { r.nextTurn(g) })
}
