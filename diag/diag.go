// Package diag wires goosemg's status diagnostics into a structured logger,
// for harnesses that want a human-readable trail of rejected FENs and
// position violations. goosemg itself stays silent; logging is an ambient
// concern of the consumer, not the state machine.
package diag

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	goosemg "github.com/oliverans/goosemg960/goosemg"
)

// NewLogger returns a zerolog logger configured for console output, in the
// style the pack's other chess-domain repo sets up its own logger.
func NewLogger() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Logger()
}

// statusNames pairs each StatusMask bit with the event field name it logs
// under, in the order Status() documents them.
var statusNames = []struct {
	bit  goosemg.StatusMask
	name string
}{
	{goosemg.StatusNoWhiteKing, "no_white_king"},
	{goosemg.StatusNoBlackKing, "no_black_king"},
	{goosemg.StatusTooManyKings, "too_many_kings"},
	{goosemg.StatusTooManyWhitePawns, "too_many_white_pawns"},
	{goosemg.StatusTooManyBlackPawns, "too_many_black_pawns"},
	{goosemg.StatusPawnsOnBackrank, "pawns_on_backrank"},
	{goosemg.StatusTooManyPieces, "too_many_pieces"},
	{goosemg.StatusBadCastlingRights, "bad_castling_rights"},
	{goosemg.StatusInvalidEpSquare, "invalid_ep_square"},
	{goosemg.StatusOppositeCheck, "opposite_check"},
}

// ReportFEN parses fen and logs either a clean "position_ok" event or a
// "position_violation" event naming every structural defect Status() found.
// It returns the parsed board and whether it was structurally valid, so
// callers can decide whether to proceed with a semantically off position.
func ReportFEN(log zerolog.Logger, fen string) (board *goosemg.Board, valid bool) {
	board, err := goosemg.ParseFEN(fen)
	if err != nil {
		log.Error().Err(err).Str("fen", fen).Msg("rejected_fen")
		return nil, false
	}

	mask := board.Status()
	if mask == goosemg.StatusEmpty {
		log.Debug().Str("fen", fen).Msg("position_ok")
		return board, true
	}

	event := log.Warn().Str("fen", fen).Uint32("status_mask", uint32(mask))
	for _, sn := range statusNames {
		if mask&sn.bit != 0 {
			event = event.Bool(sn.name, true)
		}
	}
	event.Msg("position_violation")
	return board, false
}
