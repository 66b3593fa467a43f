package game

import (
	"fmt"
	"math"
	"sort"

	"github.com/AdamJH-ai/handleys-fun-factory/internal/questions"
)

type aaPhase int

const (
	aaSelection aaPhase = iota
	aaGameplay
)

var aaTeamNames = []string{"Team Cap", "Team Iron Man", "Team Thor", "Team Spidey"}

// Team is one drafted squad in Averagers, Assemble.
type Team struct {
	Name    string
	Members []string
}

// averagersRound drafts players into teams and then runs numeric-guess turns
// where each team's averaged answer competes for closeness to the truth.
//
// With three or fewer players everyone plays as their own one-member team
// and the draft is skipped entirely.
type averagersRound struct {
	turns turnTracker
	qs    []questions.NumberQuestion
	cur   questions.NumberQuestion

	phase    aaPhase
	teams    []Team
	unpicked []string
	pickerID string
}

func (r *averagersRound) kind() RoundType { return AveragersAssemble }

func (r *averagersRound) begin(g *Game) bool {
	contestants := g.contestants()
	if len(contestants) < 2 {
		return false
	}
	r.qs = sample(g.rng, g.bank.Averagers, g.cfg.TargetTurns)
	if len(r.qs) == 0 {
		return false
	}
	r.turns = turnTracker{total: len(r.qs)}

	if len(contestants) <= 3 {
		r.phase = aaGameplay
		for _, p := range contestants {
			r.teams = append(r.teams, Team{Name: p.Name, Members: []string{p.ID}})
		}
		g.after(g.cfg.SetupLeadIn, func() { r.nextTurn(g) })
		return true
	}

	// Draft order is lowest overall score first, a catch-up mechanic.
	// Random tiebreak so equal scores don't always pick in join order.
	r.phase = aaSelection
	ids := make([]string, 0, len(contestants))
	for _, p := range contestants {
		ids = append(ids, p.ID)
	}
	tiebreak := make(map[string]int, len(ids))
	for _, id := range ids {
		tiebreak[id] = g.rng.Int()
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := g.overall[ids[i]], g.overall[ids[j]]
		if a != b {
			return a < b
		}
		return tiebreak[ids[i]] < tiebreak[ids[j]]
	})
	r.unpicked = ids
	g.after(g.cfg.SetupLeadIn, func() { r.nextPick(g) })
	return true
}

func teamName(n int) string {
	if n < len(aaTeamNames) {
		return aaTeamNames[n]
	}
	return fmt.Sprintf("Team %d", n+1)
}

func (r *averagersRound) teamsForDisplay(g *Game) []map[string]any {
	out := make([]map[string]any, 0, len(r.teams))
	for _, t := range r.teams {
		names := []string{}
		for _, id := range t.Members {
			if p, ok := g.players[id]; ok {
				names = append(names, p.Name)
			}
		}
		out = append(out, map[string]any{"name": t.Name, "members": names})
	}
	return out
}

// nextPick runs one step of the draft loop. The draft ends early when two
// players remain (auto-paired) or one does (appended to the first team).
func (r *averagersRound) nextPick(g *Game) {
	if len(r.unpicked) <= 2 {
		if len(r.unpicked) == 2 {
			r.teams = append(r.teams, Team{
				Name:    teamName(len(r.teams)),
				Members: []string{r.unpicked[0], r.unpicked[1]},
			})
			r.unpicked = nil
		} else if len(r.unpicked) == 1 && len(r.teams) > 0 {
			r.teams[0].Members = append(r.teams[0].Members, r.unpicked[0])
			r.unpicked = nil
		}
		r.phase = aaGameplay
		r.pickerID = ""
		g.updateView(regionRound, map[string]any{"teams": r.teamsForDisplay(g)})
		g.after(g.cfg.TeamRevealDelay, func() { r.nextTurn(g) })
		return
	}

	r.pickerID = r.unpicked[0]
	picker := g.players[r.pickerID]
	choosable := make([]map[string]any, 0, len(r.unpicked)-1)
	for _, id := range r.unpicked[1:] {
		if p, ok := g.players[id]; ok {
			choosable = append(choosable, map[string]any{"sid": id, "name": p.Name})
		}
	}
	g.updateView(regionRound, map[string]any{
		"picker_name":  picker.Name,
		"teams_so_far": r.teamsForDisplay(g),
	})
	g.out.ToPlayer(r.pickerID, "aa_pick_teammate_prompt", map[string]any{
		"players_to_choose_from": choosable,
	})
	for _, p := range g.contestants() {
		if p.ID != r.pickerID {
			g.out.ToPlayer(p.ID, "aa_wait_prompt", map[string]any{
				"wait_message": "Waiting for " + picker.Name + " to pick a teammate...",
			})
		}
	}
}

func (r *averagersRound) removeUnpicked(id string) bool {
	for i, u := range r.unpicked {
		if u == id {
			r.unpicked = append(r.unpicked[:i], r.unpicked[i+1:]...)
			return true
		}
	}
	return false
}

func (r *averagersRound) handlePick(g *Game, p *Player, pick TeamPick) {
	if r.phase != aaSelection || p.ID != r.pickerID {
		return
	}
	if pick.PlayerID == p.ID || pick.PlayerID == "" {
		g.notify(p.ID, "You can't pick yourself.")
		return
	}
	valid := false
	for _, id := range r.unpicked {
		if id == pick.PlayerID {
			valid = true
			break
		}
	}
	if !valid {
		g.notify(p.ID, "That player isn't available to pick.")
		return
	}

	r.teams = append(r.teams, Team{
		Name:    teamName(len(r.teams)),
		Members: []string{p.ID, pick.PlayerID},
	})
	r.removeUnpicked(p.ID)
	r.removeUnpicked(pick.PlayerID)
	r.nextPick(g)
}

func (r *averagersRound) nextTurn(g *Game) {
	if !r.turns.next() {
		g.finishRound(AveragersAssemble, false)
		return
	}
	r.cur = r.qs[r.turns.turnNo()-1]
	g.beginTurn()
	g.updateView(regionRound, map[string]any{
		"turn":          r.turns.turnNo(),
		"total_turns":   r.turns.total,
		"question_text": r.cur.Question,
		"teams":         r.teamsForDisplay(g),
	})
	g.out.ToPlayers("aa_player_prompt", map[string]any{"question": r.cur.Question})
}

func (r *averagersRound) submit(g *Game, p *Player, sub Submission) {
	if pick, ok := sub.(TeamPick); ok {
		r.handlePick(g, p, pick)
		return
	}
	if r.phase == aaSelection {
		g.notify(p.ID, "Teams are still being picked. Hang tight!")
		return
	}
	if g.phase != PhaseOngoing {
		g.notify(p.ID, "Not taking guesses right now.")
		return
	}
	guess, ok := sub.(NumberGuess)
	if !ok {
		g.notify(p.ID, "Invalid guess. Please enter a number.")
		return
	}
	if p.numberGuess != nil {
		g.notify(p.ID, "Already guessed.")
		return
	}
	v := guess.Value
	p.numberGuess = &v
	g.submittedPing(p)
	r.checkComplete(g)
}

func (r *averagersRound) playerLeft(g *Game, p *Player) {
	if r.phase == aaSelection {
		if r.removeUnpicked(p.ID) {
			// Rerun the step whenever the pool shrinks. A departed
			// picker hands off, and a small enough pool hits the
			// auto-pair or odd-player cutoff and ends the draft.
			r.nextPick(g)
		}
		return
	}
	r.checkComplete(g)
}

func (r *averagersRound) checkComplete(g *Game) {
	if g.phase != PhaseOngoing || r.phase != aaGameplay {
		return
	}
	if len(g.pendingNames(func(q *Player) bool { return q.numberGuess == nil }, "")) > 0 {
		return
	}
	g.after(g.cfg.PreScoringPause, func() { r.score(g) })
}

func (r *averagersRound) score(g *Game) {
	if g.phase != PhaseOngoing || r.phase != aaGameplay {
		return
	}
	answer := r.cur.Answer

	type teamResult struct {
		team    Team
		average int
		diff    int
		guesses map[string]any
	}
	results := make([]teamResult, 0, len(r.teams))
	for _, t := range r.teams {
		sum, n := 0, 0
		guesses := map[string]any{}
		for _, id := range t.Members {
			p, ok := g.players[id]
			if !ok {
				continue
			}
			if p.numberGuess == nil {
				guesses[p.Name] = "N/A"
				continue
			}
			guesses[p.Name] = *p.numberGuess
			sum += *p.numberGuess
			n++
		}
		avg := 0
		if n > 0 {
			avg = int(math.Round(float64(sum) / float64(n)))
		}
		diff := answer - avg
		if diff < 0 {
			diff = -diff
		}
		results = append(results, teamResult{team: t, average: avg, diff: diff, guesses: guesses})
	}
	if len(results) == 0 {
		return
	}

	minDiff := results[0].diff
	for _, tr := range results[1:] {
		if tr.diff < minDiff {
			minDiff = tr.diff
		}
	}
	// Every team at the minimum difference scores; ties are not broken.
	for _, tr := range results {
		if tr.diff != minDiff {
			continue
		}
		for _, id := range tr.team.Members {
			if p, ok := g.players[id]; ok {
				p.RoundScore++
			}
		}
	}

	rows := make([]map[string]any, 0, len(results))
	for _, tr := range results {
		points := 0
		if tr.diff == minDiff {
			points = 1
		}
		score := 0
		for _, id := range tr.team.Members {
			if p, ok := g.players[id]; ok {
				score = p.RoundScore
				break
			}
		}
		rows = append(rows, map[string]any{
			"name":              tr.team.Name,
			"average":           tr.average,
			"diff":              tr.diff,
			"member_guesses":    tr.guesses,
			"points_this_turn":  points,
			"total_round_score": score,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i]["diff"].(int) < rows[j]["diff"].(int) })

	g.showTurnResults(AveragersAssemble, map[string]any{
		"question_text":  r.cur.Question,
		"correct_answer": answer,
		"team_results":   rows,
	}, func() { r.nextTurn(g) })
}
