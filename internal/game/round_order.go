package game

import (
	"sort"

	"github.com/AdamJH-ai/handleys-fun-factory/internal/questions"
)

// orderRound asks players to arrange a shuffled item list back into the
// correct sequence. Only a perfect sequence scores.
type orderRound struct {
	turns    turnTracker
	qs       []questions.OrderQuestion
	cur      questions.OrderQuestion
	shuffled []string
}

func (r *orderRound) kind() RoundType { return OrderUp }

func (r *orderRound) begin(g *Game) bool {
	r.qs = sample(g.rng, g.bank.Order, g.cfg.TargetTurns)
	if len(r.qs) == 0 {
		return false
	}
	r.turns = turnTracker{total: len(r.qs)}
	g.after(g.cfg.SetupLeadIn, func() { r.nextTurn(g) })
	return true
}

func (r *orderRound) nextTurn(g *Game) {
	if !r.turns.next() {
		g.finishRound(OrderUp, false)
		return
	}
	r.cur = r.qs[r.turns.turnNo()-1]
	r.shuffled = append([]string(nil), r.cur.Items...)
	g.rng.Shuffle(len(r.shuffled), func(i, j int) { r.shuffled[i], r.shuffled[j] = r.shuffled[j], r.shuffled[i] })

	g.beginTurn()
	g.updateView(regionRound, map[string]any{
		"turn":        r.turns.turnNo(),
		"total_turns": r.turns.total,
		"question":    r.cur.Question,
		"items":       r.shuffled,
	})
	g.out.ToPlayers("ou_player_prompt", map[string]any{
		"question":       r.cur.Question,
		"items_to_order": r.shuffled,
	})
}

// samePermutation reports whether a is a reordering of b.
func samePermutation(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func (r *orderRound) submit(g *Game, p *Player, sub Submission) {
	list, ok := sub.(OrderedList)
	if !ok || g.phase != PhaseOngoing {
		g.notify(p.ID, "Invalid submission.")
		return
	}
	if !samePermutation(list.Items, r.cur.Items) {
		g.notify(p.ID, "Your list doesn't match the items for this question.")
		return
	}
	if p.orderedList != nil {
		g.notify(p.ID, "Already submitted.")
		return
	}
	p.orderedList = append([]string(nil), list.Items...)
	g.submittedPing(p)
	r.checkComplete(g)
}

func (r *orderRound) playerLeft(g *Game, _ *Player) { r.checkComplete(g) }

func (r *orderRound) checkComplete(g *Game) {
	if g.phase != PhaseOngoing {
		return
	}
	if len(g.pendingNames(func(q *Player) bool { return q.orderedList == nil }, "")) > 0 {
		return
	}
	g.after(g.cfg.PreScoringPause, func() { r.score(g) })
}

func (r *orderRound) score(g *Game) {
	if g.phase != PhaseOngoing {
		return
	}
	results := make([]map[string]any, 0, len(g.contestants()))
	for _, p := range g.contestants() {
		correct := p.orderedList != nil && exactSequence(p.orderedList, r.cur.Items)
		if correct {
			p.RoundScore++
		}
		results = append(results, map[string]any{
			"name":        p.Name,
			"submitted":   p.orderedList,
			"correct":     correct,
			"round_score": p.RoundScore,
		})
	}
	g.showTurnResults(OrderUp, map[string]any{
		"question":      r.cur.Question,
		"correct_order": r.cur.Items,
		"results":       results,
	}, func() { r.nextTurn(g) })
}

func exactSequence(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
