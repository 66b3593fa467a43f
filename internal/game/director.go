package game

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotDisplay  = errors.New("only the main screen can start a game")
	ErrNoQuestions = errors.New("no question banks available")
)

// StartGame kicks off a new game. Only the registered main screen may start
// one, and only from the lobby with at least one player connected.
func (g *Game) StartGame(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id != g.displayID {
		return ErrNotDisplay
	}
	if g.phase != PhaseWaiting {
		return ErrInvalidPhase
	}
	if len(g.players) == 0 {
		return ErrNotEnoughPlayers
	}
	types := g.availableTypes()
	if len(types) == 0 {
		return ErrNoQuestions
	}

	g.gameID = uuid.NewString()
	g.plan = g.buildPlan(types)
	g.roundNum = 0
	g.history = nil
	g.overall = make(map[string]float64, len(g.players))
	for pid := range g.players {
		g.overall[pid] = 0
	}
	g.bump()

	log.Info().
		Str("game_id", g.gameID).
		Int("players", len(g.players)).
		Int("rounds", len(g.plan)).
		Msg("game started")

	g.announce("Let the games begin!")
	g.emitGameState()
	g.after(g.cfg.SetupLeadIn, g.nextGameRound)
	return nil
}

// availableTypes reports the round types whose question banks loaded.
// Higher or Lower and Averagers, Assemble additionally check player counts
// when their round begins.
func (g *Game) availableTypes() []RoundType {
	counts := map[RoundType]int{
		GuessTheAge:       len(g.bank.Age),
		GuessTheYear:      len(g.bank.Year),
		WhoDidntDoIt:      len(g.bank.OddOneOut),
		OrderUp:           len(g.bank.Order),
		QuickPairs:        len(g.bank.Pairs),
		TrueOrFalse:       len(g.bank.Bool),
		TapThePic:         len(g.bank.Pic),
		TopThree:          len(g.bank.TopThree),
		HigherOrLower:     len(g.bank.HigherLower),
		AveragersAssemble: len(g.bank.Averagers),
	}
	var types []RoundType
	for _, t := range AllRoundTypes {
		if counts[t] > 0 {
			types = append(types, t)
		}
	}
	return types
}

// buildPlan draws the game's round sequence. With enough types available the
// plan is a straight sample without replacement; otherwise types repeat
// cyclically and the whole plan is shuffled.
func (g *Game) buildPlan(types []RoundType) []RoundType {
	total := g.cfg.RoundsTotal
	if len(types) >= total {
		return sample(g.rng, types, total)
	}
	plan := make([]RoundType, 0, total)
	for i := 0; i < total; i++ {
		plan = append(plan, types[i%len(types)])
	}
	g.rng.Shuffle(len(plan), func(i, j int) { plan[i], plan[j] = plan[j], plan[i] })
	return plan
}

func (g *Game) nextGameRound() {
	g.roundNum++
	if g.roundNum > len(g.plan) {
		g.endOverallGame()
		return
	}
	t := g.plan[g.roundNum-1]

	g.phase = PhaseRoundIntro
	g.bump()
	g.resetRoundScores()
	g.emitGameState()

	log.Info().Int("round", g.roundNum).Str("type", t.Key()).Msg("round intro")
	g.out.ToDisplay("play_round_jingle", map[string]any{"jingle_file": t.Jingle()})
	g.updateView(regionResults, map[string]any{
		"round_number": g.roundNum,
		"total_rounds": len(g.plan),
		"round_name":   t.DisplayName(),
		"rules":        t.Rules(),
	})

	g.after(g.cfg.RoundIntroDelay, func() {
		d := newDriver(t)
		g.round = d
		if !d.begin(g) {
			log.Warn().Str("type", t.Key()).Msg("round could not start, skipping")
			g.round = nil
			g.after(time.Second, g.nextGameRound)
		}
	})
}

func (g *Game) endOverallGame() {
	g.phase = PhaseGameOver
	g.bump()
	g.round = nil

	standings := g.leaderboard()
	winner := ""
	if len(standings) > 0 {
		winner = standings[0].Name
	}
	log.Info().Str("game_id", g.gameID).Str("winner", winner).Msg("game over")

	g.emitGameState()
	g.updateView(regionGameOver, map[string]any{
		"winner":    winner,
		"standings": standings,
	})
	g.out.ToPlayers("overall_game_over_player", map[string]any{
		"winner":    winner,
		"standings": standings,
	})

	if g.cfg.ExportFile != "" {
		if err := g.exportResults(); err != nil {
			log.Error().Err(err).Msg("failed to export game results")
		}
	}

	g.after(g.cfg.GameOverDelay, g.resetForNewGame)
}

func (g *Game) resetForNewGame() {
	g.phase = PhaseWaiting
	g.bump()
	g.roundNum = 0
	g.plan = nil
	g.history = nil
	g.overall = map[string]float64{}
	for _, p := range g.players {
		p.RoundScore = 0
		p.clearTurn()
	}
	g.emitPlayerList()
	g.emitGameState()
	g.out.ToPlayers("ready_for_new_game", map[string]any{})
}
