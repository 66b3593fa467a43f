package game

import "github.com/AdamJH-ai/handleys-fun-factory/internal/questions"

// pairsRound is the speed-matching format. Everyone matches the same three
// pairs; the fastest fully-correct submission earns 2 points, every other
// fully-correct submission earns 1.
type pairsRound struct {
	turns turnTracker
	qs    []questions.PairsQuestion
	cur   questions.PairsQuestion
}

func (r *pairsRound) kind() RoundType { return QuickPairs }

func (r *pairsRound) begin(g *Game) bool {
	r.qs = sample(g.rng, g.bank.Pairs, g.cfg.TargetTurns)
	if len(r.qs) == 0 {
		return false
	}
	r.turns = turnTracker{total: len(r.qs)}
	g.after(g.cfg.SetupLeadIn, func() { r.nextTurn(g) })
	return true
}

func (r *pairsRound) nextTurn(g *Game) {
	if !r.turns.next() {
		g.finishRound(QuickPairs, false)
		return
	}
	r.cur = r.qs[r.turns.turnNo()-1]
	g.beginTurn()

	listA := make([]string, 0, len(r.cur.Pairs))
	listB := make([]string, 0, len(r.cur.Pairs))
	for _, pr := range r.cur.Pairs {
		listA = append(listA, pr[0])
		listB = append(listB, pr[1])
	}
	g.rng.Shuffle(len(listA), func(i, j int) { listA[i], listA[j] = listA[j], listA[i] })
	g.rng.Shuffle(len(listB), func(i, j int) { listB[i], listB[j] = listB[j], listB[i] })

	g.updateView(regionRound, map[string]any{
		"turn":            r.turns.turnNo(),
		"total_turns":     r.turns.total,
		"category_prompt": r.cur.Prompt,
		"list_a_items":    listA,
		"list_b_items":    listB,
	})
	g.out.ToPlayers("qp_player_prompt", map[string]any{
		"category_prompt":   r.cur.Prompt,
		"list_a":            listA,
		"list_b":            listB,
		"num_pairs_to_make": questions.PairsPerQuestion,
	})
}

// normalizePair orders a pair's two items so submitted and correct pairs
// compare equal regardless of which column each item came from.
func normalizePair(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

func (r *pairsRound) submit(g *Game, p *Player, sub Submission) {
	set, ok := sub.(PairSet)
	if !ok || g.phase != PhaseOngoing {
		g.notify(p.ID, "Invalid submission format or data.")
		return
	}
	if len(set.Pairs) != questions.PairsPerQuestion || set.ElapsedMS < 0 {
		g.notify(p.ID, "Invalid submission format or data.")
		return
	}
	normalized := make([][2]string, 0, len(set.Pairs))
	for _, pr := range set.Pairs {
		if len(pr) != 2 {
			g.notify(p.ID, "Invalid submission format or data.")
			return
		}
		normalized = append(normalized, normalizePair(pr[0], pr[1]))
	}
	if p.pairSet != nil {
		g.notify(p.ID, "You already submitted for this question.")
		return
	}
	p.pairSet = normalized
	p.pairMS = set.ElapsedMS
	g.submittedPing(p)
	r.checkComplete(g)
}

func (r *pairsRound) playerLeft(g *Game, _ *Player) { r.checkComplete(g) }

func (r *pairsRound) checkComplete(g *Game) {
	if g.phase != PhaseOngoing {
		return
	}
	if len(g.pendingNames(func(q *Player) bool { return q.pairSet == nil }, "")) > 0 {
		return
	}
	g.after(g.cfg.PreScoringPause, func() { r.score(g) })
}

func (r *pairsRound) correctCount(set [][2]string) int {
	want := map[[2]string]bool{}
	for _, pr := range r.cur.Pairs {
		want[normalizePair(pr[0], pr[1])] = true
	}
	n := 0
	for _, pr := range set {
		if want[pr] {
			n++
		}
	}
	return n
}

func (r *pairsRound) score(g *Game) {
	if g.phase != PhaseOngoing {
		return
	}

	var fastest *Player
	for _, p := range g.contestants() {
		if p.pairSet == nil || r.correctCount(p.pairSet) != questions.PairsPerQuestion {
			continue
		}
		if fastest == nil || p.pairMS < fastest.pairMS {
			fastest = p
		}
	}

	results := make([]map[string]any, 0, len(g.contestants()))
	for _, p := range g.contestants() {
		points := 0
		hits := 0
		allCorrect := false
		if p.pairSet != nil {
			hits = r.correctCount(p.pairSet)
			allCorrect = hits == questions.PairsPerQuestion
			if allCorrect {
				points = 1
				if p == fastest {
					points = 2
				}
			}
		}
		p.RoundScore += points
		timeMS := any("-")
		if p.pairSet != nil {
			timeMS = p.pairMS
		}
		results = append(results, map[string]any{
			"name":              p.Name,
			"all_correct":       allCorrect,
			"num_correct_pairs": hits,
			"time_ms":           timeMS,
			"points_this_turn":  points,
			"round_score":       p.RoundScore,
		})
	}

	correctPairs := make([][]string, 0, len(r.cur.Pairs))
	for _, pr := range r.cur.Pairs {
		correctPairs = append(correctPairs, []string{pr[0], pr[1]})
	}
	ctx := map[string]any{
		"category_prompt": r.cur.Prompt,
		"correct_pairs":   correctPairs,
		"results":         results,
	}
	if fastest != nil {
		ctx["fastest_name"] = fastest.Name
	}
	g.showTurnResults(QuickPairs, ctx, func() { r.nextTurn(g) })
}
