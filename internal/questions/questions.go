// Package questions loads and validates the per-round question banks.
//
// Each round type has its own JSON file and its own record shape. Loaders are
// deliberately forgiving: a malformed record is skipped with a warning, and a
// missing or unreadable file simply leaves that bank empty, which the game
// treats as "round type unavailable".
package questions

import (
	"time"
)

type AgeQuestion struct {
	Name        string `json:"name"`
	DOB         string `json:"dob"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`

	// Age is derived from DOB at load time.
	Age int `json:"-"`
}

type YearQuestion struct {
	Question string `json:"question"`
	Year     int    `json:"year"`
	ImageURL string `json:"image_url"`
}

type OddOneOutQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	ImageURL      string   `json:"image_url"`
}

type OrderQuestion struct {
	Question string   `json:"question"`
	Items    []string `json:"items_in_correct_order"`
}

type PairsQuestion struct {
	Prompt string      `json:"category_prompt"`
	Pairs  [][2]string `json:"-"`

	RawPairs [][]string `json:"pairs"`
}

type BoolQuestion struct {
	Statement string `json:"statement"`
	Answer    bool   `json:"correct_answer"`
}

type PicQuestion struct {
	Question   string `json:"question_text"`
	ImageURL   string `json:"image_url"`
	NumOptions int    `json:"num_options"`
	Answer     int    `json:"correct_answer"`
}

type TopThreeQuestion struct {
	Question string   `json:"question_text"`
	Options  []string `json:"options"`
	Correct  []string `json:"correct_answers"`
}

// NumberQuestion is the shape shared by Higher or Lower and
// Averagers, Assemble: a question with a single integer answer.
type NumberQuestion struct {
	Question string `json:"question"`
	Answer   int    `json:"answer"`
}

// ageAt returns whole years between dob and now, counting birthdays.
func ageAt(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}
