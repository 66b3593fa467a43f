package game

import (
	"sort"

	"github.com/AdamJH-ai/handleys-fun-factory/internal/questions"
)

type holStage int

const (
	holAwaitingSubmission holStage = iota
	holAwaitingGuesses
)

// holTurnConfig fixes turn count and per-player submission quota by player
// count, so everyone submits their fair share across the round.
type holTurnConfig struct {
	turns   int
	submits int
}

var holTurnConfigs = map[int]holTurnConfig{
	2: {turns: 10, submits: 5},
	3: {turns: 9, submits: 3},
	4: {turns: 12, submits: 3},
	5: {turns: 10, submits: 2},
	6: {turns: 12, submits: 2},
	7: {turns: 7, submits: 1},
	8: {turns: 8, submits: 1},
}

// higherLowerRound is the two-phase protocol: one designated submitter
// answers a number question in secret, then everyone else guesses whether
// the true answer is higher or lower than the submitter's number.
type higherLowerRound struct {
	turns turnTracker
	qs    []questions.NumberQuestion
	cur   questions.NumberQuestion
	queue []string

	stage          holStage
	submitterID    string
	submitterName  string
	submitterGuess *int
}

func (r *higherLowerRound) kind() RoundType { return HigherOrLower }

func (r *higherLowerRound) begin(g *Game) bool {
	contestants := g.contestants()
	if len(contestants) < 2 {
		return false
	}
	cfg, ok := holTurnConfigs[len(contestants)]
	if !ok {
		cfg = holTurnConfig{turns: len(contestants), submits: 1}
	}
	turns := cfg.turns
	if len(g.bank.HigherLower) < turns {
		turns = len(g.bank.HigherLower)
	}
	if turns == 0 {
		return false
	}
	r.qs = sample(g.rng, g.bank.HigherLower, turns)
	r.turns = turnTracker{total: turns}

	ids := make([]string, 0, len(contestants))
	for _, p := range contestants {
		ids = append(ids, p.ID)
	}
	g.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	r.queue = make([]string, 0, len(ids)*cfg.submits)
	for i := 0; i < cfg.submits; i++ {
		r.queue = append(r.queue, ids...)
	}

	g.after(g.cfg.SetupLeadIn, func() { r.nextTurn(g) })
	return true
}

func (r *higherLowerRound) nextTurn(g *Game) {
	for {
		if !r.turns.next() {
			g.finishRound(HigherOrLower, false)
			return
		}
		id := r.queue[r.turns.turnNo()-1]
		if _, still := g.overall[id]; still {
			r.submitterID = id
			break
		}
		// A departed player's queue slot is skipped but still consumes
		// a turn.
	}
	r.cur = r.qs[r.turns.turnNo()-1]
	r.stage = holAwaitingSubmission
	r.submitterGuess = nil
	r.submitterName = g.players[r.submitterID].Name

	g.beginTurn()
	g.updateView(regionRound, map[string]any{
		"turn":           r.turns.turnNo(),
		"total_turns":    r.turns.total,
		"question_text":  r.cur.Question,
		"submitter_name": r.submitterName,
	})
	g.out.ToPlayer(r.submitterID, "hol_submitter_prompt", map[string]any{"question": r.cur.Question})
	for _, p := range g.contestants() {
		if p.ID == r.submitterID {
			continue
		}
		g.out.ToPlayer(p.ID, "hol_wait_prompt", map[string]any{
			"wait_message": "Waiting for " + r.submitterName + " to guess...",
		})
	}
}

func (r *higherLowerRound) submit(g *Game, p *Player, sub Submission) {
	if g.phase != PhaseOngoing {
		return
	}
	switch {
	case p.ID == r.submitterID && r.stage == holAwaitingSubmission:
		guess, ok := sub.(NumberGuess)
		if !ok {
			g.notify(p.ID, "Invalid guess. Please enter a number.")
			return
		}
		v := guess.Value
		r.submitterGuess = &v
		r.stage = holAwaitingGuesses

		names := []string{}
		for _, q := range g.contestants() {
			if q.ID != r.submitterID {
				names = append(names, q.Name)
			}
		}
		g.updateView(regionRound, map[string]any{
			"turn":            r.turns.turnNo(),
			"total_turns":     r.turns.total,
			"question_text":   r.cur.Question,
			"submitter_name":  r.submitterName,
			"submitter_guess": v,
			"players_status":  names,
		})
		for _, q := range g.contestants() {
			if q.ID != r.submitterID {
				g.out.ToPlayer(q.ID, "hol_guesser_prompt", map[string]any{})
			}
		}
		g.out.ToPlayer(p.ID, "hol_wait_prompt", map[string]any{
			"wait_message": "Waiting for others to guess Higher or Lower...",
		})
		r.checkComplete(g)

	case p.ID != r.submitterID && r.stage == holAwaitingGuesses:
		dir, ok := sub.(DirectionGuess)
		if !ok || (dir.Direction != "Higher" && dir.Direction != "Lower") {
			g.notify(p.ID, "Guess 'Higher' or 'Lower'.")
			return
		}
		if p.direction != "" {
			g.notify(p.ID, "Already guessed.")
			return
		}
		p.direction = dir.Direction
		g.submittedPing(p)
		g.out.ToPlayer(p.ID, "hol_wait_prompt", map[string]any{
			"wait_message": "Guess locked in! Waiting for others...",
		})
		r.checkComplete(g)

	case p.ID == r.submitterID:
		g.notify(p.ID, "Your number is locked in. Waiting on the guesses.")

	default:
		g.notify(p.ID, "Hold on, "+r.submitterName+" hasn't answered yet.")
	}
}

func (r *higherLowerRound) playerLeft(g *Game, p *Player) {
	if g.phase != PhaseOngoing {
		return
	}
	if p.ID == r.submitterID && r.stage == holAwaitingSubmission {
		// The turn can't proceed without its submitter. Abandon it and
		// move on, consuming the slot.
		r.nextTurn(g)
		return
	}
	r.checkComplete(g)
}

func (r *higherLowerRound) checkComplete(g *Game) {
	if g.phase != PhaseOngoing || r.stage != holAwaitingGuesses {
		return
	}
	if len(g.pendingNames(func(q *Player) bool { return q.direction == "" }, r.submitterID)) > 0 {
		return
	}
	g.after(g.cfg.PreScoringPause, func() { r.score(g) })
}

func (r *higherLowerRound) score(g *Game) {
	if g.phase != PhaseOngoing || r.stage != holAwaitingGuesses || r.submitterGuess == nil {
		return
	}
	answer := r.cur.Answer
	guess := *r.submitterGuess
	submitterPoints := 0
	var guesserResults []map[string]any

	if guess == answer {
		// Submitter sweep: exact answer earns a point per opponent and
		// every guesser walks away empty-handed.
		submitterPoints = len(g.contestants()) - 1
		for _, p := range g.contestants() {
			if p.ID == r.submitterID {
				continue
			}
			guesserResults = append(guesserResults, map[string]any{
				"name": p.Name, "guess": p.direction, "is_correct": false,
			})
		}
	} else {
		for _, p := range g.contestants() {
			if p.ID == r.submitterID {
				continue
			}
			correct := (p.direction == "Higher" && answer > guess) ||
				(p.direction == "Lower" && answer < guess)
			if correct {
				p.RoundScore++
			} else {
				submitterPoints++
			}
			guesserResults = append(guesserResults, map[string]any{
				"name": p.Name, "guess": p.direction, "is_correct": correct,
			})
		}
	}
	if submitter, still := g.players[r.submitterID]; still {
		submitter.RoundScore += submitterPoints
	}
	sort.Slice(guesserResults, func(i, j int) bool {
		return guesserResults[i]["name"].(string) < guesserResults[j]["name"].(string)
	})

	scores := make([]map[string]any, 0, len(g.contestants()))
	for _, p := range g.rankByRoundScore(false) {
		scores = append(scores, map[string]any{"name": p.Name, "score": p.RoundScore})
	}
	g.showTurnResults(HigherOrLower, map[string]any{
		"question_text":            r.cur.Question,
		"submitter_name":           r.submitterName,
		"submitter_guess":          guess,
		"correct_answer":           answer,
		"guesser_results":          guesserResults,
		"submitter_points_awarded": submitterPoints,
		"final_round_scores":       scores,
	}, func() { r.nextTurn(g) })
}
