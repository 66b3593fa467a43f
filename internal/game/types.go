package game

import (
	"strings"
	"time"
)

// RoundType identifies one of the mini-game formats a round can take.
type RoundType int

const (
	GuessTheAge RoundType = iota
	GuessTheYear
	WhoDidntDoIt
	OrderUp
	QuickPairs
	TrueOrFalse
	TapThePic
	TopThree
	HigherOrLower
	AveragersAssemble
)

// AllRoundTypes lists every format in declaration order.
var AllRoundTypes = []RoundType{
	GuessTheAge, GuessTheYear, WhoDidntDoIt, OrderUp, QuickPairs,
	TrueOrFalse, TapThePic, TopThree, HigherOrLower, AveragersAssemble,
}

var roundKeys = map[RoundType]string{
	GuessTheAge:       "guess_the_age",
	GuessTheYear:      "guess_the_year",
	WhoDidntDoIt:      "who_didnt_do_it",
	OrderUp:           "order_up",
	QuickPairs:        "quick_pairs",
	TrueOrFalse:       "true_or_false",
	TapThePic:         "tap_the_pic",
	TopThree:          "the_top_three",
	HigherOrLower:     "higher_or_lower",
	AveragersAssemble: "averagers_assemble",
}

var roundDisplayNames = map[RoundType]string{
	GuessTheAge:       "Guess the Age",
	GuessTheYear:      "Guess the Year",
	WhoDidntDoIt:      "Who Didn't Do It?",
	OrderUp:           "Order Up!",
	QuickPairs:        "Quick Pairs",
	TrueOrFalse:       "True or False?",
	TapThePic:         "Tap the Pic",
	TopThree:          "The Top Three",
	HigherOrLower:     "Higher or Lower?",
	AveragersAssemble: "Averagers, Assemble!",
}

var roundRules = map[RoundType]string{
	GuessTheAge:       "Guess how old each celebrity is. The closer you are, the more points you score!",
	GuessTheYear:      "Guess the year each event happened. Closest guess scores the most points!",
	WhoDidntDoIt:      "Six options, one odd one out. Tap the one that doesn't belong!",
	OrderUp:           "Put the items in the correct order. Only a perfect sequence scores!",
	QuickPairs:        "Match the pairs as fast as you can. Fastest correct answer gets a bonus!",
	TrueOrFalse:       "Simple: is the statement true or false?",
	TapThePic:         "Look at the picture and tap the right spot!",
	TopThree:          "Pick the top three from the list. Each correct pick counts!",
	HigherOrLower:     "One player answers a number question in secret. Everyone else guesses higher or lower!",
	AveragersAssemble: "Team up! Your team's average answer has to land closest to the truth.",
}

var roundJingles = map[RoundType]string{
	GuessTheAge:       "gta_jingle.mp3",
	GuessTheYear:      "gty_jingle.mp3",
	WhoDidntDoIt:      "wddi_jingle.mp3",
	OrderUp:           "ou_jingle.mp3",
	QuickPairs:        "qp_jingle.mp3",
	TrueOrFalse:       "tf_jingle.mp3",
	TapThePic:         "ttp_jingle.mp3",
	TopThree:          "your_ttt_jingle.mp3",
	HigherOrLower:     "hol_jingle.mp3",
	AveragersAssemble: "avengers_theme.mp3",
}

// Key returns the wire identifier used in events and phase names.
func (t RoundType) Key() string { return roundKeys[t] }

// DisplayName returns the human-readable round title.
func (t RoundType) DisplayName() string { return roundDisplayNames[t] }

// Rules returns the blurb shown on the main screen during the round intro.
func (t RoundType) Rules() string { return roundRules[t] }

// Jingle returns the audio file the display plays when the round starts.
func (t RoundType) Jingle() string { return roundJingles[t] }

func (t RoundType) String() string { return t.Key() }

// Phase is the coarse game state. The wire representation depends on the
// active round type, see Game.stateName.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseRoundIntro
	PhaseOngoing
	PhaseTurnResults
	PhaseRoundResults
	PhaseGameOver
)

// Player is one connected contestant. Per-turn submission fields are cleared
// between turns; RoundScore resets between rounds.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	RoundScore int `json:"round_score"`

	numberGuess  *int
	boolGuess    *bool
	optionChoice string
	orderedList  []string
	pairSet      [][2]string
	pairMS       int64
	topPicks     []string
	direction    string
}

func (p *Player) clearTurn() {
	p.numberGuess = nil
	p.boolGuess = nil
	p.optionChoice = ""
	p.orderedList = nil
	p.pairSet = nil
	p.pairMS = 0
	p.topPicks = nil
	p.direction = ""
}

// Submission is the tagged union of everything a player can send during a
// turn. Each round driver accepts the variants it understands and rejects
// the rest.
type Submission interface {
	isSubmission()
}

type NumberGuess struct{ Value int }

type BoolGuess struct{ Value bool }

type OptionChoice struct{ Option string }

type OrderedList struct{ Items []string }

type PairSet struct {
	Pairs     [][]string
	ElapsedMS int64
}

type TopPicks struct{ Choices []string }

// DirectionGuess carries "Higher" or "Lower".
type DirectionGuess struct{ Direction string }

// TeamPick names the player chosen by the current team captain.
type TeamPick struct{ PlayerID string }

func (NumberGuess) isSubmission()    {}
func (BoolGuess) isSubmission()      {}
func (OptionChoice) isSubmission()   {}
func (OrderedList) isSubmission()    {}
func (PairSet) isSubmission()        {}
func (TopPicks) isSubmission()       {}
func (DirectionGuess) isSubmission() {}
func (TeamPick) isSubmission()       {}

// Config carries the tunable game parameters. Zero values are not usable,
// start from DefaultConfig.
type Config struct {
	RoundsTotal int
	MaxPlayers  int
	TargetTurns int

	RoundIntroDelay  time.Duration
	SummaryDelay     time.Duration
	GameOverDelay    time.Duration
	SetupLeadIn      time.Duration
	PreScoringPause  time.Duration
	TeamRevealDelay  time.Duration
	TurnResultDelays map[RoundType]time.Duration

	ExportFile string
}

func DefaultConfig() Config {
	return Config{
		RoundsTotal:     10,
		MaxPlayers:      8,
		TargetTurns:     10,
		RoundIntroDelay: 8 * time.Second,
		SummaryDelay:    12 * time.Second,
		GameOverDelay:   15 * time.Second,
		SetupLeadIn:     500 * time.Millisecond,
		PreScoringPause: 500 * time.Millisecond,
		TeamRevealDelay: 8 * time.Second,
		TurnResultDelays: map[RoundType]time.Duration{
			GuessTheAge:       5 * time.Second,
			GuessTheYear:      5 * time.Second,
			TrueOrFalse:       6 * time.Second,
			WhoDidntDoIt:      7 * time.Second,
			TapThePic:         8 * time.Second,
			OrderUp:           10 * time.Second,
			QuickPairs:        10 * time.Second,
			TopThree:          10 * time.Second,
			HigherOrLower:     10 * time.Second,
			AveragersAssemble: 10 * time.Second,
		},
	}
}

func (c Config) turnResultDelay(t RoundType) time.Duration {
	if d, ok := c.TurnResultDelays[t]; ok {
		return d
	}
	return 5 * time.Second
}

// normalizeName trims, truncates to 15 runes and falls back to a short
// id-derived default for empty names.
func normalizeName(name, id string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		short := id
		if len(short) > 4 {
			short = short[:4]
		}
		return "P_" + short
	}
	r := []rune(name)
	if len(r) > 15 {
		r = r[:15]
	}
	return string(r)
}
