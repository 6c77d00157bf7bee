// Command perft runs goosemg's move generator against a list of scenarios
// read from a YAML file, reporting node counts (and an optional per-move
// divide breakdown) through a structured logger.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/oliverans/goosemg960/diag"
	goosemg "github.com/oliverans/goosemg960/goosemg"
)

// Scenario names a position and the perft depths to run against it, with an
// optional expected node count per depth for regression checking.
type Scenario struct {
	Name     string   `yaml:"name"`
	FEN      string   `yaml:"fen"`
	Depths   []int    `yaml:"depths"`
	Expected []uint64 `yaml:"expected,omitempty"`
}

var defaultScenarios = []Scenario{
	{
		Name:     "startpos",
		FEN:      goosemg.FENStartPos,
		Depths:   []int{1, 2, 3, 4},
		Expected: []uint64{20, 400, 8902, 197281},
	},
	{
		Name:     "kiwipete",
		FEN:      "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		Depths:   []int{1, 2, 3},
		Expected: []uint64{48, 2039, 97862},
	},
}

// loadScenarios reads scenarios from a YAML file, mirroring how the pack's
// lichess-bot repo loads its own declarative book file.
func loadScenarios(path string) ([]Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios file %q: %w", path, err)
	}
	var scenarios []Scenario
	if err := yaml.Unmarshal(b, &scenarios); err != nil {
		return nil, fmt.Errorf("parse scenarios file %q: %w", path, err)
	}
	return scenarios, nil
}

func main() {
	scenariosPath := flag.String("scenarios", "", "YAML file of perft scenarios (defaults to a small built-in set)")
	divide := flag.Bool("divide", false, "print a per-root-move divide breakdown for the first scenario")
	zstdLog := flag.String("zstd-log", "", "write the divide breakdown to this file, compressed with zstd")
	flag.Parse()

	log := diag.NewLogger()

	scenarios := defaultScenarios
	if *scenariosPath != "" {
		loaded, err := loadScenarios(*scenariosPath)
		if err != nil {
			log.Fatal().Err(err).Msg("load_scenarios_failed")
		}
		scenarios = loaded
	}

	var divideWriter *zstd.Encoder
	if *zstdLog != "" {
		f, err := os.Create(*zstdLog)
		if err != nil {
			log.Fatal().Err(err).Str("path", *zstdLog).Msg("create_zstd_log_failed")
		}
		defer f.Close()
		enc, err := zstd.NewWriter(f)
		if err != nil {
			log.Fatal().Err(err).Msg("create_zstd_encoder_failed")
		}
		defer enc.Close()
		divideWriter = enc
	}

	for _, sc := range scenarios {
		board, valid := diag.ReportFEN(log, sc.FEN)
		if board == nil {
			continue
		}
		if !valid {
			log.Warn().Str("scenario", sc.Name).Msg("running_perft_on_invalid_position")
		}

		for i, depth := range sc.Depths {
			start := time.Now()
			nodes := goosemg.Perft(board, depth)
			elapsed := time.Since(start)

			event := log.Info().
				Str("scenario", sc.Name).
				Int("depth", depth).
				Uint64("nodes", nodes).
				Dur("elapsed", elapsed).
				Float64("nps", float64(nodes)/elapsed.Seconds())

			if i < len(sc.Expected) {
				event = event.Uint64("expected", sc.Expected[i]).Bool("match", nodes == sc.Expected[i])
			}
			event.Msg("perft_depth")
		}

		if *divide {
			runDivide(log, board, sc, divideWriter)
			*divide = false // only the first scenario gets a divide breakdown
		}
	}
}

func runDivide(log zerolog.Logger, board *goosemg.Board, sc Scenario, w *zstd.Encoder) {
	if len(sc.Depths) == 0 {
		return
	}
	depth := sc.Depths[len(sc.Depths)-1]
	div := goosemg.PerftDivide(board, depth)

	type entry struct {
		move  string
		nodes uint64
	}
	entries := make([]entry, 0, len(div))
	var total uint64
	for m, n := range div {
		entries = append(entries, entry{m.String(), n})
		total += n
	}
	slices.SortFunc(entries, func(a, b entry) bool { return a.move < b.move })

	for _, e := range entries {
		log.Info().Str("scenario", sc.Name).Int("depth", depth).Str("move", e.move).Uint64("nodes", e.nodes).Msg("perft_divide")
		if w != nil {
			fmt.Fprintf(w, "%s: %d\n", e.move, e.nodes)
		}
	}
	log.Info().Str("scenario", sc.Name).Int("depth", depth).Uint64("total", total).Msg("perft_divide_total")
}
