package goosemg

// HasInsufficientMaterial reports whether color cannot checkmate by any
// sequence of legal moves, looking only at material (including bishop square
// colour, not piece placement), mirroring the well-known insufficient-material
// rule.
func (b *Board) HasInsufficientMaterial(color Color) bool {
	ci := int(color)
	oi := int(color.Opposite())
	if b.occupancy[ci]&(b.pawns[ci]|b.rooks[ci]|b.queens[ci]) != 0 {
		return false
	}
	if b.occupancy[ci]&b.knights[ci] != 0 {
		return popcount(b.occupancy[ci]) <= 2 &&
			b.occupancy[oi]&^(b.kings[oi]|b.queens[oi]) == 0
	}
	if b.occupancy[ci]&b.bishops[ci] != 0 {
		bishops := b.bishops[ci]
		sameColor := bishops&darkSquares == 0 || bishops&lightSquares == 0
		return sameColor && b.pawns[oi]|b.pawns[ci] == 0 && b.knights[oi]|b.knights[ci] == 0
	}
	return true
}

// IsInsufficientMaterial reports whether neither side has sufficient material
// to checkmate by any sequence of legal moves.
func (b *Board) IsInsufficientMaterial() bool {
	return b.HasInsufficientMaterial(White) && b.HasInsufficientMaterial(Black)
}

// isZeroingMove reports whether m resets the halfmove clock (a pawn move or a
// capture, including en passant).
func isZeroingMove(m Move) bool {
	return typeOf(m.MovedPiece()) == 1 || m.CapturedPiece() != NoPiece || m.Flags() == FlagEnPassant
}

// isHalfmoves reports the halfmove-clock rule gate shared by the fifty- and
// seventy-five-move checks: the clock must have reached n, and the side to
// move must still have a legal move (otherwise checkmate/stalemate already
// ended the game by a different rule).
func (b *Board) isHalfmoves(n int) bool {
	return b.halfmoveClock >= n && b.HasLegalMoves()
}

// IsFiftyMoves reports whether the halfmove clock has reached 100 (fifty full
// moves without a capture or pawn move) and the position is not already
// checkmate or stalemate.
func (b *Board) IsFiftyMoves() bool { return b.isHalfmoves(100) }

// IsSeventyFiveMoves reports whether the halfmove clock has reached 150,
// at which point the draw applies automatically without a claim.
func (b *Board) IsSeventyFiveMoves() bool { return b.isHalfmoves(150) }

// CanClaimFiftyMoves reports whether the side to move can claim a draw by the
// fifty-move rule, either immediately or by playing a non-zeroing move that
// brings the clock to 100.
func (b *Board) CanClaimFiftyMoves() bool {
	if b.IsFiftyMoves() {
		return true
	}
	if b.halfmoveClock < 99 {
		return false
	}
	buf := make([]Move, 0, 64)
	moves := b.GenerateMovesInto(buf)
	for _, m := range moves {
		if isZeroingMove(m) {
			continue
		}
		ok, st := b.MakeMove(m)
		if !ok {
			continue
		}
		claim := b.halfmoveClock >= 100
		b.UnmakeMove(m, st)
		if claim {
			return true
		}
	}
	return false
}

// countTranspositions counts occurrences of key within history plus the
// current position if it also equals key, without double-counting a history
// entry that already records the current position.
func (b *Board) countTranspositions(history []uint64, key uint64) int {
	count := 0
	if b.TranspositionKey() == key {
		count++
	}
	end := len(history)
	if end > 0 && history[end-1] == b.TranspositionKey() {
		end--
	}
	for i := 0; i < end; i++ {
		if history[i] == key {
			count++
		}
	}
	return count
}

// IsRepetition reports whether the current position (identified by its
// transposition key, which ignores an en passant square no pawn can
// actually capture) has occurred at least count times across history plus
// the current position. history should hold TranspositionKey values for
// prior positions in the game, most recent last.
func (b *Board) IsRepetition(history []uint64, count int) bool {
	return b.countTranspositions(history, b.TranspositionKey()) >= count
}

// IsFivefoldRepetition reports whether the current position has occurred five
// times, the point at which the draw applies automatically.
func (b *Board) IsFivefoldRepetition(history []uint64) bool {
	return b.IsRepetition(history, 5)
}

// CanClaimThreefoldRepetition reports whether the side to move can claim a
// draw by threefold repetition, either because the current position has
// already occurred three times, or because a legal move reaches a position
// that has occurred twice before (making the position-to-be three-fold).
func (b *Board) CanClaimThreefoldRepetition(history []uint64) bool {
	if b.IsRepetition(history, 3) {
		return true
	}
	buf := make([]Move, 0, 64)
	moves := b.GenerateMovesInto(buf)
	for _, m := range moves {
		ok, st := b.MakeMove(m)
		if !ok {
			continue
		}
		key := b.TranspositionKey()
		// countTranspositions counts the produced position itself (1) plus
		// its occurrences in history, so reaching a true threefold needs
		// >= 3, not >= 2: two prior occurrences plus the move about to be
		// played.
		reached := b.countTranspositions(history, key) >= 3
		b.UnmakeMove(m, st)
		if reached {
			return true
		}
	}
	return false
}

// CanClaimDraw reports whether the side to move can claim a draw by the
// fifty-move rule or by threefold repetition.
func (b *Board) CanClaimDraw(history []uint64) bool {
	return b.CanClaimFiftyMoves() || b.CanClaimThreefoldRepetition(history)
}

// IsGameOver reports whether the game has ended by checkmate, stalemate,
// insufficient material, the seventy-five move rule, fivefold repetition, or
// (if claimDraw is set) the fifty-move rule or threefold repetition.
func (b *Board) IsGameOver(history []uint64, claimDraw bool) bool {
	if b.InCheckmate() || b.InStalemate() {
		return true
	}
	if b.IsInsufficientMaterial() {
		return true
	}
	if b.IsSeventyFiveMoves() {
		return true
	}
	if b.IsFivefoldRepetition(history) {
		return true
	}
	if claimDraw {
		return b.CanClaimDraw(history)
	}
	return false
}
