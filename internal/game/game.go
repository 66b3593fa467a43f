// Package game implements the party quiz engine: the single host display,
// up to eight phone players, a ten round game plan and the per-round
// mini-game drivers.
package game

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AdamJH-ai/handleys-fun-factory/internal/questions"
)

var (
	ErrGameFull          = errors.New("game is full")
	ErrInvalidPhase      = errors.New("not allowed in current phase")
	ErrAlreadySubmitted  = errors.New("already submitted this turn")
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrNotEnoughPlayers  = errors.New("not enough players")
)

// Display regions the main screen exposes for partial updates.
const (
	regionPlayerList = "#player-list"
	regionRound      = "#round-content-area"
	regionResults    = "#results-area"
	regionGameOver   = "#overall-game-over-area"
)

// Emitter delivers events to the connected clients. The ws package provides
// the socket-backed implementation; tests substitute a recorder.
type Emitter interface {
	ToPlayers(event string, payload any)
	ToPlayer(id, event string, payload any)
	ToDisplay(event string, payload any)
}

// Scheduler runs a function after a delay. The production implementation
// wraps time.AfterFunc; tests drive it by hand.
type Scheduler interface {
	After(d time.Duration, fn func())
}

type timerScheduler struct{}

func (timerScheduler) After(d time.Duration, fn func()) { time.AfterFunc(d, fn) }

// NewScheduler returns the timer-backed Scheduler used in production.
func NewScheduler() Scheduler { return timerScheduler{} }

// Game is the whole party: connections, scores and the round in flight.
// All exported methods are safe for concurrent use.
type Game struct {
	mu    sync.Mutex
	cfg   Config
	bank  *questions.Bank
	out   Emitter
	sched Scheduler
	rng   *rand.Rand

	gameID    string
	phase     Phase
	epoch     uint64
	roundNum  int
	plan      []RoundType
	overall   map[string]float64
	displayID string
	players   map[string]*Player
	order     []string
	round     driver
	history   []roundRecord
}

func New(cfg Config, bank *questions.Bank, out Emitter, sched Scheduler, rng *rand.Rand) *Game {
	return &Game{
		cfg:     cfg,
		bank:    bank,
		out:     out,
		sched:   sched,
		rng:     rng,
		phase:   PhaseWaiting,
		overall: map[string]float64{},
		players: map[string]*Player{},
	}
}

// after schedules fn on the game's scheduler. The callback is dropped if the
// game has moved on to a different phase by the time it fires, so a stale
// timer can never act on a state it was not scheduled for.
func (g *Game) after(d time.Duration, fn func()) {
	e := g.epoch
	g.sched.After(d, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.epoch != e {
			return
		}
		fn()
	})
}

func (g *Game) bump() { g.epoch++ }

// stateName renders the phase the way clients expect it, qualified by the
// active round type where one exists.
func (g *Game) stateName() string {
	key := ""
	if g.round != nil {
		key = g.round.kind().Key()
	} else if g.roundNum >= 1 && g.roundNum <= len(g.plan) {
		key = g.plan[g.roundNum-1].Key()
	}
	switch g.phase {
	case PhaseWaiting:
		return "waiting"
	case PhaseRoundIntro:
		return "round_intro"
	case PhaseOngoing:
		return key + "_ongoing"
	case PhaseTurnResults:
		return key + "_results_display"
	case PhaseRoundResults:
		return key + "_results"
	case PhaseGameOver:
		return "overall_game_over"
	}
	return "waiting"
}

// RegisterDisplay binds the main screen. A new display replaces any
// previous one.
func (g *Game) RegisterDisplay(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.displayID != "" && g.displayID != id {
		log.Info().Str("old", g.displayID).Str("new", id).Msg("main screen replaced")
	}
	g.displayID = id
	g.emitPlayerList()
	g.emitGameState()
}

// RegisterPlayer adds a contestant. Names are trimmed, truncated and
// defaulted. A returning id keeps its slot and just refreshes the name.
// Joins during a running game are accepted into the lobby for the next
// game only.
func (g *Game) RegisterPlayer(id, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if p, ok := g.players[id]; ok {
		p.Name = normalizeName(name, id)
		g.emitPlayerList()
		g.emitGameState()
		return nil
	}
	if len(g.players) >= g.cfg.MaxPlayers {
		g.notify(id, "Game full.")
		return ErrGameFull
	}

	p := &Player{ID: id, Name: normalizeName(name, id)}
	g.players[id] = p
	g.order = append(g.order, id)
	log.Info().Str("id", id).Str("name", p.Name).Msg("player joined")

	switch g.phase {
	case PhaseWaiting:
		g.notify(id, "Welcome, "+p.Name+"! Waiting for the game to start...")
	case PhaseGameOver:
		g.notify(id, "The game just finished. You'll be in the next one!")
	default:
		g.notify(id, "A game is already in progress. You'll join the next one!")
	}
	g.announce(p.Name + " has joined!")
	g.emitPlayerList()
	g.emitGameState()
	return nil
}

// Disconnect removes a departed connection. A leaving contestant forfeits
// their scores; the active round gets a chance to re-check its completion
// condition.
func (g *Game) Disconnect(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id == g.displayID {
		g.displayID = ""
		log.Info().Msg("main screen disconnected")
		return
	}
	p, ok := g.players[id]
	if !ok {
		return
	}
	delete(g.players, id)
	delete(g.overall, id)
	for i, oid := range g.order {
		if oid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	log.Info().Str("id", id).Str("name", p.Name).Msg("player left")
	g.announce(p.Name + " has left the game.")
	g.emitPlayerList()
	g.emitGameState()

	if g.round != nil {
		g.round.playerLeft(g, p)
	}
}

// HandleSubmission routes a player's answer to the active round driver.
func (g *Game) HandleSubmission(id string, sub Submission) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[id]
	if !ok {
		return
	}
	if g.round == nil || (g.phase != PhaseOngoing && g.phase != PhaseRoundIntro) {
		g.notify(id, "There's nothing to answer right now.")
		return
	}
	if _, in := g.overall[id]; !in {
		g.notify(id, "You'll join in from the next game.")
		return
	}
	g.round.submit(g, p, sub)
}

// contestants returns the players taking part in the current game, in join
// order. Mid-game joiners are excluded until the next game starts.
func (g *Game) contestants() []*Player {
	out := make([]*Player, 0, len(g.order))
	for _, id := range g.order {
		if _, ok := g.overall[id]; !ok {
			continue
		}
		out = append(out, g.players[id])
	}
	return out
}

// pendingNames lists contestants for whom pending returns true, skipping
// the excluded id. Used both for completion checks and waiting-on displays.
func (g *Game) pendingNames(pending func(*Player) bool, exclude string) []string {
	var names []string
	for _, p := range g.contestants() {
		if p.ID == exclude {
			continue
		}
		if pending(p) {
			names = append(names, p.Name)
		}
	}
	return names
}

// rankByRoundScore orders contestants by round score, best first unless asc
// is set (lower-is-better rounds). Ties break alphabetically so the ranking
// is stable for the summary display.
func (g *Game) rankByRoundScore(asc bool) []*Player {
	ranked := g.contestants()
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.RoundScore != b.RoundScore {
			if asc {
				return a.RoundScore < b.RoundScore
			}
			return a.RoundScore > b.RoundScore
		}
		return a.Name < b.Name
	})
	return ranked
}

type leaderboardEntry struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// leaderboard reports overall standings, best first, ties by name.
func (g *Game) leaderboard() []leaderboardEntry {
	entries := make([]leaderboardEntry, 0, len(g.overall))
	for id, score := range g.overall {
		p, ok := g.players[id]
		if !ok {
			continue
		}
		entries = append(entries, leaderboardEntry{Name: p.Name, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

func (g *Game) notify(id, msg string) {
	g.out.ToPlayer(id, "message", map[string]any{"data": msg})
}

func (g *Game) announce(msg string) {
	g.out.ToDisplay("message", map[string]any{"data": msg})
}

func (g *Game) updateView(target string, ctx map[string]any) {
	g.out.ToDisplay("update_view", map[string]any{"target": target, "context": ctx})
}

func (g *Game) emitPlayerList() {
	names := make([]string, 0, len(g.order))
	for _, id := range g.order {
		names = append(names, g.players[id].Name)
	}
	g.updateView(regionPlayerList, map[string]any{"players": names})
}

func (g *Game) emitGameState() {
	payload := map[string]any{
		"state":        g.stateName(),
		"round_number": g.roundNum,
		"total_rounds": g.cfg.RoundsTotal,
		"players":      g.leaderboard(),
	}
	g.out.ToPlayers("game_state_update", payload)
	g.out.ToDisplay("game_state_update", payload)
}

// submittedPing tells everyone that a player has locked in an answer,
// without revealing it.
func (g *Game) submittedPing(p *Player) {
	payload := map[string]any{"name": p.Name}
	g.out.ToPlayers("player_submitted_update", payload)
	g.out.ToDisplay("player_submitted_update", payload)
}
