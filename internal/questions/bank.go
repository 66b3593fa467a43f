package questions

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// File names match the bank files shipped alongside the server binary.
const (
	ageFile       = "celebrities.json"
	yearFile      = "guess_the_year_questions.json"
	oddOneOutFile = "who_didnt_do_it_questions.json"
	orderFile     = "order_up_questions.json"
	pairsFile     = "quick_pairs_questions.json"
	boolFile      = "true_or_false_questions.json"
	picFile       = "tap_the_pic_questions.json"
	topThreeFile  = "top_three_questions.json"
	higherFile    = "higher_or_lower_questions.json"
	averagersFile = "averagers_assemble_questions.json"
)

// PairsPerQuestion is the number of pairs every Quick Pairs question must carry.
const PairsPerQuestion = 3

// Bank holds every loaded question bank. An empty slice means the round type
// is unavailable for this process.
type Bank struct {
	Age         []AgeQuestion
	Year        []YearQuestion
	OddOneOut   []OddOneOutQuestion
	Order       []OrderQuestion
	Pairs       []PairsQuestion
	Bool        []BoolQuestion
	Pic         []PicQuestion
	TopThree    []TopThreeQuestion
	HigherLower []NumberQuestion
	Averagers   []NumberQuestion
}

// Load reads every question bank from dir. Load never fails: banks that
// cannot be read stay empty and the corresponding round type is simply
// never played.
func Load(dir string) *Bank {
	b := &Bank{}
	b.Age = loadAge(filepath.Join(dir, ageFile), time.Now())
	b.Year = loadYear(filepath.Join(dir, yearFile))
	b.OddOneOut = loadOddOneOut(filepath.Join(dir, oddOneOutFile))
	b.Order = loadOrder(filepath.Join(dir, orderFile))
	b.Pairs = loadPairs(filepath.Join(dir, pairsFile))
	b.Bool = loadBool(filepath.Join(dir, boolFile))
	b.Pic = loadPic(filepath.Join(dir, picFile))
	b.TopThree = loadTopThree(filepath.Join(dir, topThreeFile))
	b.HigherLower = loadNumber(filepath.Join(dir, higherFile), "higher_or_lower")
	b.Averagers = loadNumber(filepath.Join(dir, averagersFile), "averagers_assemble")
	return b
}

func readInto(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("question bank unavailable")
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("question bank unparseable")
		return false
	}
	return true
}

func loadAge(path string, now time.Time) []AgeQuestion {
	var raw []AgeQuestion
	if !readInto(path, &raw) {
		return nil
	}
	out := make([]AgeQuestion, 0, len(raw))
	for _, q := range raw {
		if q.Name == "" || q.DOB == "" || q.ImageURL == "" || q.Description == "" {
			log.Warn().Str("name", q.Name).Msg("skipping celebrity with missing fields")
			continue
		}
		dob, err := time.Parse("2006-01-02", q.DOB)
		if err != nil {
			log.Warn().Str("name", q.Name).Str("dob", q.DOB).Msg("skipping celebrity with bad dob")
			continue
		}
		q.Age = ageAt(dob, now)
		out = append(out, q)
	}
	log.Info().Int("count", len(out)).Msg("loaded guess-the-age bank")
	return out
}

func loadYear(path string) []YearQuestion {
	var raw []YearQuestion
	if !readInto(path, &raw) {
		return nil
	}
	out := make([]YearQuestion, 0, len(raw))
	for _, q := range raw {
		if q.Question == "" || q.Year == 0 || q.ImageURL == "" {
			log.Warn().Str("question", q.Question).Msg("skipping invalid year question")
			continue
		}
		out = append(out, q)
	}
	log.Info().Int("count", len(out)).Msg("loaded guess-the-year bank")
	return out
}

func loadOddOneOut(path string) []OddOneOutQuestion {
	var raw []OddOneOutQuestion
	if !readInto(path, &raw) {
		return nil
	}
	out := make([]OddOneOutQuestion, 0, len(raw))
	for _, q := range raw {
		if q.Question == "" || len(q.Options) != 6 || q.CorrectAnswer == "" || !contains(q.Options, q.CorrectAnswer) {
			log.Warn().Str("question", q.Question).Msg("skipping invalid odd-one-out question")
			continue
		}
		out = append(out, q)
	}
	log.Info().Int("count", len(out)).Msg("loaded who-didnt-do-it bank")
	return out
}

func loadOrder(path string) []OrderQuestion {
	var raw []OrderQuestion
	if !readInto(path, &raw) {
		return nil
	}
	out := make([]OrderQuestion, 0, len(raw))
	for _, q := range raw {
		if strings.TrimSpace(q.Question) == "" || len(q.Items) == 0 {
			log.Warn().Str("question", q.Question).Msg("skipping invalid order-up question")
			continue
		}
		out = append(out, q)
	}
	log.Info().Int("count", len(out)).Msg("loaded order-up bank")
	return out
}

func loadPairs(path string) []PairsQuestion {
	var raw []PairsQuestion
	if !readInto(path, &raw) {
		return nil
	}
	out := make([]PairsQuestion, 0, len(raw))
	for _, q := range raw {
		if strings.TrimSpace(q.Prompt) == "" || len(q.RawPairs) != PairsPerQuestion {
			log.Warn().Str("prompt", q.Prompt).Msg("skipping invalid quick-pairs question")
			continue
		}
		ok := true
		pairs := make([][2]string, 0, PairsPerQuestion)
		for _, p := range q.RawPairs {
			if len(p) != 2 || strings.TrimSpace(p[0]) == "" || strings.TrimSpace(p[1]) == "" {
				ok = false
				break
			}
			pairs = append(pairs, [2]string{p[0], p[1]})
		}
		if !ok {
			log.Warn().Str("prompt", q.Prompt).Msg("skipping quick-pairs question with malformed pair")
			continue
		}
		q.Pairs = pairs
		out = append(out, q)
	}
	log.Info().Int("count", len(out)).Msg("loaded quick-pairs bank")
	return out
}

func loadBool(path string) []BoolQuestion {
	type rawBool struct {
		Statement string `json:"statement"`
		Answer    *bool  `json:"correct_answer"`
	}
	var raw []rawBool
	if !readInto(path, &raw) {
		return nil
	}
	out := make([]BoolQuestion, 0, len(raw))
	for _, q := range raw {
		if q.Statement == "" || q.Answer == nil {
			log.Warn().Str("statement", q.Statement).Msg("skipping invalid true-or-false question")
			continue
		}
		out = append(out, BoolQuestion{Statement: q.Statement, Answer: *q.Answer})
	}
	log.Info().Int("count", len(out)).Msg("loaded true-or-false bank")
	return out
}

func loadPic(path string) []PicQuestion {
	var raw []PicQuestion
	if !readInto(path, &raw) {
		return nil
	}
	out := make([]PicQuestion, 0, len(raw))
	for _, q := range raw {
		if q.Question == "" || q.ImageURL == "" || q.NumOptions < 2 || q.Answer < 1 || q.Answer > q.NumOptions {
			log.Warn().Str("question", q.Question).Msg("skipping invalid tap-the-pic question")
			continue
		}
		out = append(out, q)
	}
	log.Info().Int("count", len(out)).Msg("loaded tap-the-pic bank")
	return out
}

func loadTopThree(path string) []TopThreeQuestion {
	var raw []TopThreeQuestion
	if !readInto(path, &raw) {
		return nil
	}
	out := make([]TopThreeQuestion, 0, len(raw))
	for _, q := range raw {
		if q.Question == "" || len(q.Options) == 0 || len(q.Correct) != 3 {
			log.Warn().Str("question", q.Question).Msg("skipping invalid top-three question")
			continue
		}
		out = append(out, q)
	}
	log.Info().Int("count", len(out)).Msg("loaded top-three bank")
	return out
}

func loadNumber(path, kind string) []NumberQuestion {
	type rawNumber struct {
		Question string `json:"question"`
		Answer   *int   `json:"answer"`
	}
	var raw []rawNumber
	if !readInto(path, &raw) {
		return nil
	}
	out := make([]NumberQuestion, 0, len(raw))
	for _, q := range raw {
		if q.Question == "" || q.Answer == nil {
			log.Warn().Str("kind", kind).Str("question", q.Question).Msg("skipping invalid number question")
			continue
		}
		out = append(out, NumberQuestion{Question: q.Question, Answer: *q.Answer})
	}
	log.Info().Int("count", len(out)).Str("kind", kind).Msg("loaded number-answer bank")
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
