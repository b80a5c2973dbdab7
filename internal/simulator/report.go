package simulator

import (
	"github.com/lox/pebbles/internal/fileutil"
	"github.com/lox/pebbles/internal/game"
	"github.com/lox/pebbles/internal/statistics"
)

// Report is the machine-readable summary of a simulation run
type Report struct {
	Config         game.Config        `json:"config"`
	Opponent       string             `json:"opponent"`
	Seed           int64              `json:"seed"`
	Games          int                `json:"games"`
	Wins           map[string]int     `json:"wins"`
	ProgramWinRate float64            `json:"programWinRate"`
	ProgramCI95    [2]float64         `json:"programCi95"`
	OpenerWinRate  map[string]float64 `json:"openerWinRate"`
	MeanMoves      float64            `json:"meanMoves"`
	MedianMoves    float64            `json:"medianMoves"`
}

// NewReport summarises tally for a run of cfg games against opponent
func NewReport(tally *statistics.Tally, cfg game.Config, opponent string, seed int64) Report {
	low, high := tally.ConfidenceInterval95(game.Program)

	r := Report{
		Config:         cfg,
		Opponent:       opponent,
		Seed:           seed,
		Games:          tally.Games,
		Wins:           make(map[string]int, 2),
		ProgramWinRate: tally.WinRate(game.Program),
		ProgramCI95:    [2]float64{low, high},
		OpenerWinRate:  make(map[string]float64, 2),
		MeanMoves:      tally.MeanMoves(),
		MedianMoves:    tally.MedianMoves(),
	}
	for _, p := range []game.Player{game.Program, game.User} {
		r.Wins[p.String()] = tally.Wins[p]
		if tally.Opening[p].Games > 0 {
			r.OpenerWinRate[p.String()] = tally.OpenerWinRate(p)
		}
	}
	return r
}

// WriteReport saves r as JSON at path, replacing any previous report
func WriteReport(path string, r Report) error {
	return fileutil.WriteJSONAtomic(path, r, 0o644)
}
