package game

import "math/rand"

// driver is the behaviour of a single round. begin reports false when the
// round cannot run (no questions, not enough players); the director then
// skips ahead. submit and playerLeft are called with the game lock held.
type driver interface {
	kind() RoundType
	begin(g *Game) bool
	submit(g *Game, p *Player, sub Submission)
	playerLeft(g *Game, p *Player)
}

func newDriver(t RoundType) driver {
	switch t {
	case GuessTheAge:
		return newAgeRound()
	case GuessTheYear:
		return newYearRound()
	case WhoDidntDoIt:
		return &oddOneOutRound{}
	case OrderUp:
		return &orderRound{}
	case QuickPairs:
		return &pairsRound{}
	case TrueOrFalse:
		return &boolRound{}
	case TapThePic:
		return &picRound{}
	case TopThree:
		return &topThreeRound{}
	case HigherOrLower:
		return &higherLowerRound{}
	case AveragersAssemble:
		return &averagersRound{}
	}
	return nil
}

// turnTracker counts turns within a round.
type turnTracker struct {
	idx   int
	total int
}

// next advances to the following turn and reports whether one remains.
func (t *turnTracker) next() bool {
	t.idx++
	return t.idx <= t.total
}

func (t *turnTracker) turnNo() int { return t.idx }

// sample picks up to n elements of src uniformly without replacement.
func sample[T any](rng *rand.Rand, src []T, n int) []T {
	if n > len(src) {
		n = len(src)
	}
	out := make([]T, 0, n)
	for _, i := range rng.Perm(len(src))[:n] {
		out = append(out, src[i])
	}
	return out
}

func (g *Game) resetRoundScores() {
	for _, p := range g.contestants() {
		p.RoundScore = 0
		p.clearTurn()
	}
}

// beginTurn moves into the answering phase and wipes per-turn state.
func (g *Game) beginTurn() {
	g.phase = PhaseOngoing
	g.bump()
	for _, p := range g.contestants() {
		p.clearTurn()
	}
	g.emitGameState()
}

// showTurnResults publishes a turn's outcome on the main screen, tells the
// players to look up, and schedules the continuation.
func (g *Game) showTurnResults(t RoundType, ctx map[string]any, next func()) {
	g.phase = PhaseTurnResults
	g.bump()
	g.emitGameState()
	g.updateView(regionResults, ctx)
	g.out.ToPlayers("results_on_main_screen", map[string]any{})
	g.after(g.cfg.turnResultDelay(t), next)
}

// finishRound ranks the round, awards overall game points and shows the
// round summary before moving on.
func (g *Game) finishRound(t RoundType, asc bool) {
	g.phase = PhaseRoundResults
	g.bump()
	g.round = nil

	ranked := g.rankByRoundScore(asc)
	awarded := awardGamePoints(ranked, g.overall)

	rankings := make([]map[string]any, 0, len(ranked))
	rec := roundRecord{Type: t}
	for i, p := range ranked {
		rankings = append(rankings, map[string]any{
			"rank":           i + 1,
			"name":           p.Name,
			"round_score":    p.RoundScore,
			"points_awarded": awarded[p.ID],
		})
		rec.Rankings = append(rec.Rankings, rankRecord{
			Rank:       i + 1,
			Name:       p.Name,
			RoundScore: p.RoundScore,
			Awarded:    awarded[p.ID],
		})
	}
	g.history = append(g.history, rec)

	g.emitGameState()
	g.updateView(regionResults, map[string]any{
		"round_type":     t.Key(),
		"round_name":     t.DisplayName(),
		"rankings":       rankings,
		"overall_scores": g.leaderboard(),
	})
	g.after(g.cfg.SummaryDelay, g.nextGameRound)
}
