package game

import (
	"fmt"
	"os"
	"time"
)

type rankRecord struct {
	Rank       int
	Name       string
	RoundScore int
	Awarded    float64
}

type roundRecord struct {
	Type     RoundType
	Rankings []rankRecord
}

// exportResults appends the finished game's round-by-round results and final
// standings to the configured export file. Called with the game lock held,
// after the final ranking is computed.
func (g *Game) exportResults() error {
	f, err := os.OpenFile(g.cfg.ExportFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening export file: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "=== Game %s (%s) ===\n", g.gameID, time.Now().Format(time.RFC3339))
	for i, rec := range g.history {
		fmt.Fprintf(f, "Round %d: %s\n", i+1, rec.Type.DisplayName())
		for _, rk := range rec.Rankings {
			fmt.Fprintf(f, "  %d. %s  round score %d, awarded %.1f\n",
				rk.Rank, rk.Name, rk.RoundScore, rk.Awarded)
		}
	}
	fmt.Fprintln(f, "Final standings:")
	for i, e := range g.leaderboard() {
		fmt.Fprintf(f, "  %d. %s  %.1f\n", i+1, e.Name, e.Score)
	}
	fmt.Fprintln(f)
	return nil
}
