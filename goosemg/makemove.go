package goosemg

import "math/bits"

// MoveState holds the minimal state needed to undo a move.
type MoveState struct {
	move          Move
	captured      Piece
	prevCastling  CastlingRights
	prevEnPassant Square
	prevHalfmove  int
	prevFullmove  int
	prevZobrist   uint64
	rookFrom      Square // for castling undo
	rookTo        Square // for castling undo
}

// NullState stores the minimal information needed to undo a null move.
type NullState struct {
	prevEnPassant Square
	prevHalfmove  int
	prevFullmove  int
	prevZobrist   uint64
	prevSide      Color
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// MakeMove applies a move to the board. It returns ok=false if the move leaves the mover's king in check,
// restoring the original position.
func (b *Board) MakeMove(m Move) (ok bool, st MoveState) {
	st.move = m
	st.prevCastling = b.castlingRights
	st.prevEnPassant = b.enPassantSquare
	st.prevHalfmove = b.halfmoveClock
	st.prevFullmove = b.fullmoveNumber
	st.prevZobrist = b.zobristKey
	st.rookFrom, st.rookTo = NoSquare, NoSquare
	st.captured = NoPiece

	from := m.From()
	to := m.To()
	moved := m.MovedPiece()
	captured := m.CapturedPiece()
	promo := m.PromotionPiece()
	flag := m.Flags()

	var castleRookFrom, castleRookTo Square = NoSquare, NoSquare
	if flag == FlagCastle {
		_, rookFrom, kingTo, rookTo, decOK := decodeCastle(b, b.sideToMove, from, to)
		if !decOK {
			return false, st
		}
		to = kingTo
		castleRookFrom, castleRookTo = rookFrom, rookTo
	}

	// Remove previous en passant from Zobrist if present
	if b.enPassantSquare != NoSquare {
		file := int(b.enPassantSquare % 8)
		b.zobristKey ^= zobristEnPassant[file]
	}
	b.enPassantSquare = NoSquare

	us := int(b.sideToMove)
	them := 1 - us
	fromBB := uint64(1) << uint(from)
	toBB := uint64(1) << uint(to)

	// Handle capture (including en passant)
	if flag == FlagEnPassant {
		var capSq Square
		var capPiece Piece
		if b.sideToMove == White {
			capSq = to - 8
			capPiece = BlackPawn
		} else {
			capSq = to + 8
			capPiece = WhitePawn
		}
		st.captured = capPiece
		capBB := uint64(1) << uint(capSq)
		b.pieces[int(capSq)] = NoPiece
		b.occupancy[them] &^= capBB
		b.pawns[them] &^= capBB
		b.zobristKey ^= zobristPiece[capPiece][int(capSq)]
	} else if captured != NoPiece {
		st.captured = captured
		b.pieces[int(to)] = NoPiece
		b.occupancy[them] &^= toBB
		switch typeOf(captured) {
		case 1:
			b.pawns[them] &^= toBB
		case 2:
			b.knights[them] &^= toBB
		case 3:
			b.bishops[them] &^= toBB
		case 4:
			b.rooks[them] &^= toBB
		case 5:
			b.queens[them] &^= toBB
		case 6:
			b.kings[them] &^= toBB
		}
		b.zobristKey ^= zobristPiece[captured][int(to)]
	}

	// Move the piece (or promote)
	if promo != NoPiece {
		b.pieces[int(from)] = NoPiece
		b.occupancy[us] &^= fromBB
		b.pawns[us] &^= fromBB
		b.zobristKey ^= zobristPiece[moved][int(from)]
		b.pieces[int(to)] = promo
		b.occupancy[us] |= toBB
		switch typeOf(promo) {
		case 2:
			b.knights[us] |= toBB
		case 3:
			b.bishops[us] |= toBB
		case 4:
			b.rooks[us] |= toBB
		case 5:
			b.queens[us] |= toBB
		case 6:
			b.kings[us] |= toBB
		}
		b.zobristKey ^= zobristPiece[promo][int(to)]
	} else {
		b.pieces[int(from)] = NoPiece
		b.pieces[int(to)] = moved
		b.occupancy[us] ^= (fromBB | toBB)
		switch typeOf(moved) {
		case 1:
			b.pawns[us] ^= (fromBB | toBB)
		case 2:
			b.knights[us] ^= (fromBB | toBB)
		case 3:
			b.bishops[us] ^= (fromBB | toBB)
		case 4:
			b.rooks[us] ^= (fromBB | toBB)
		case 5:
			b.queens[us] ^= (fromBB | toBB)
		case 6:
			b.kings[us] ^= (fromBB | toBB)
		}
		b.zobristKey ^= zobristPiece[moved][int(from)]
		b.zobristKey ^= zobristPiece[moved][int(to)]
	}

	// Castling rook movement. The rook's origin/destination were resolved
	// from the move's encoding (and the pre-move castling rights) above,
	// since Chess960 rook squares vary with the starting arrangement.
	if flag == FlagCastle && castleRookFrom != NoSquare {
		rFrom, rTo := castleRookFrom, castleRookTo
		rook := PieceFromType(b.sideToMove, PieceTypeRook)
		rb := uint64(1) << uint(rFrom)
		nb := uint64(1) << uint(rTo)
		b.pieces[int(rFrom)] = NoPiece
		b.pieces[int(rTo)] = rook
		b.occupancy[us] ^= (rb | nb)
		b.rooks[us] ^= (rb | nb)
		b.zobristKey ^= zobristPiece[rook][int(rFrom)]
		b.zobristKey ^= zobristPiece[rook][int(rTo)]
		st.rookFrom, st.rookTo = rFrom, rTo
	}

	// Update castling rights: a king move forfeits both of that color's
	// rights; a rook move or capture forfeits only the right tied to its
	// own square.
	newCR := b.castlingRights
	if typeOf(moved) == 6 {
		if b.sideToMove == White {
			newCR &^= CastlingRights(rank1)
		} else {
			newCR &^= CastlingRights(rank8)
		}
	}
	if typeOf(moved) == 4 {
		newCR = newCR.Without(from)
	}
	if st.captured != NoPiece && typeOf(st.captured) == 4 {
		newCR = newCR.Without(to)
	}
	if newCR != b.castlingRights {
		ScanForward(uint64(b.castlingRights), func(sq int) { b.zobristKey ^= zobristCastling[sq] })
		ScanForward(uint64(newCR), func(sq int) { b.zobristKey ^= zobristCastling[sq] })
		b.castlingRights = newCR
	}

	// Set en passant square if double pawn push
	if typeOf(moved) == 1 {
		fromRank := int(from) / 8
		toRank := int(to) / 8
		if abs(toRank-fromRank) == 2 {
			var ep Square
			if b.sideToMove == White {
				ep = from + 8
			} else {
				ep = from - 8
			}
			b.enPassantSquare = ep
			file := int(ep % 8)
			b.zobristKey ^= zobristEnPassant[file]
		}
	}

	// Toggle side to move (+ Zobrist) before legality check so Unmake can rely on the toggled state
	b.sideToMove = 1 - b.sideToMove
	b.zobristKey ^= zobristSide

	// Reject illegal move that leaves mover in check (direct attack query, avoid wrapper overhead)
	moverColor := 1 - b.sideToMove
	occ := b.occupancy[0] | b.occupancy[1]
	kingBB := b.kings[int(moverColor)]
	if kingBB != 0 {
		ks := bits.TrailingZeros64(kingBB)
		needCheck := true
		if typeOf(moved) != 6 && flag != FlagEnPassant {
			rays := kingRaysUnion[ks]
			if ((rays >> uint(from)) & 1) == 0 {
				needCheck = false
			}
		}
		if needCheck && b.isSquareAttackedWithOcc(ks, 1-moverColor, occ) {
			b.UnmakeMove(m, st)
			return false, st
		}
	} else {
		b.UnmakeMove(m, st)
		return false, st
	}

	// Halfmove clock
	if typeOf(moved) == 1 || st.captured != NoPiece {
		b.halfmoveClock = 0
	} else {
		b.halfmoveClock++
	}

	// Fullmove number increments after a legal Black move
	if moverColor == Black {
		b.fullmoveNumber++
	}

	return true, st
}

// UnmakeMove undoes a previously made move, restoring board state.
func (b *Board) UnmakeMove(m Move, st MoveState) {
	b.sideToMove = 1 - b.sideToMove
	b.zobristKey ^= zobristSide

	if b.enPassantSquare != NoSquare {
		file := int(b.enPassantSquare % 8)
		b.zobristKey ^= zobristEnPassant[file]
	}

	from := m.From()
	to := m.To()
	moved := m.MovedPiece()
	promo := m.PromotionPiece()
	flag := m.Flags()

	// The move's encoded "to" is the castling rook's square under Chess960
	// (see encodeCastleTo), not the king's landing square; recover the
	// king's actual destination from the rook square saved at make-time
	// rather than from the board's (possibly since-changed) castling
	// rights.
	if flag == FlagCastle && st.rookFrom != NoSquare {
		kingside := castlingSide(from, st.rookFrom)
		kingTo, _ := castlingDestinations(colorOf(moved), kingside)
		to = kingTo
	}

	us := int(b.sideToMove)
	them := 1 - us
	if flag == FlagCastle && st.rookFrom != NoSquare && st.rookTo != NoSquare {
		fromR := int(st.rookFrom)
		toR := int(st.rookTo)
		rbFrom := uint64(1) << uint(fromR)
		rbTo := uint64(1) << uint(toR)
		rook := WhiteRook
		if moved&8 != 0 {
			rook = BlackRook
		}
		b.pieces[toR] = NoPiece
		b.pieces[fromR] = rook
		b.occupancy[us] ^= (rbFrom | rbTo)
		b.rooks[us] ^= (rbFrom | rbTo)
	}

	fromBB := uint64(1) << uint(from)
	toBB := uint64(1) << uint(to)
	b.pieces[int(to)] = NoPiece
	if promo != NoPiece {
		pawn := WhitePawn
		if moved&8 != 0 {
			pawn = BlackPawn
		}
		b.pieces[int(from)] = pawn
		b.occupancy[us] ^= (fromBB | toBB)
		switch typeOf(promo) {
		case 2:
			b.knights[us] &^= toBB
		case 3:
			b.bishops[us] &^= toBB
		case 4:
			b.rooks[us] &^= toBB
		case 5:
			b.queens[us] &^= toBB
		case 6:
			b.kings[us] &^= toBB
		}
		b.pawns[us] |= fromBB
	} else {
		b.pieces[int(from)] = moved
		b.occupancy[us] ^= (fromBB | toBB)
		switch typeOf(moved) {
		case 1:
			b.pawns[us] ^= (fromBB | toBB)
		case 2:
			b.knights[us] ^= (fromBB | toBB)
		case 3:
			b.bishops[us] ^= (fromBB | toBB)
		case 4:
			b.rooks[us] ^= (fromBB | toBB)
		case 5:
			b.queens[us] ^= (fromBB | toBB)
		case 6:
			b.kings[us] ^= (fromBB | toBB)
		}
	}

	// Restore captured piece
	if st.captured != NoPiece {
		if flag == FlagEnPassant {
			var capSq Square
			if moved&8 == 0 {
				capSq = to - 8
			} else {
				capSq = to + 8
			}
			capIdx := int(capSq)
			capBB := uint64(1) << uint(capSq)
			b.pieces[capIdx] = st.captured
			b.occupancy[them] |= capBB
			b.pawns[them] |= capBB
		} else {
			b.pieces[int(to)] = st.captured
			b.occupancy[them] |= toBB
			switch typeOf(st.captured) {
			case 1:
				b.pawns[them] |= toBB
			case 2:
				b.knights[them] |= toBB
			case 3:
				b.bishops[them] |= toBB
			case 4:
				b.rooks[them] |= toBB
			case 5:
				b.queens[them] |= toBB
			case 6:
				b.kings[them] |= toBB
			}
		}
	}

	// Restore clocks, EP, castling rights
	if b.castlingRights != st.prevCastling {
		ScanForward(uint64(b.castlingRights), func(sq int) { b.zobristKey ^= zobristCastling[sq] })
		ScanForward(uint64(st.prevCastling), func(sq int) { b.zobristKey ^= zobristCastling[sq] })
	}
	b.castlingRights = st.prevCastling
	b.enPassantSquare = st.prevEnPassant
	if b.enPassantSquare != NoSquare {
		file := int(b.enPassantSquare % 8)
		b.zobristKey ^= zobristEnPassant[file]
	}
	b.halfmoveClock = st.prevHalfmove
	b.fullmoveNumber = st.prevFullmove

	// Ensure exact Zobrist restoration
	b.zobristKey = st.prevZobrist
}

// MakeNullMove performs a null move: it switches the side to move without moving any piece.
// It clears any en passant square, updates zobrist side/en-passant keys, and advances clocks
// as a reversible quiet half-move. The returned state can be used to restore via UnmakeNullMove.
func (b *Board) MakeNullMove() (st NullState) {
	st.prevEnPassant = b.enPassantSquare
	st.prevHalfmove = b.halfmoveClock
	st.prevFullmove = b.fullmoveNumber
	st.prevZobrist = b.zobristKey
	st.prevSide = b.sideToMove

	if b.enPassantSquare != NoSquare {
		file := int(b.enPassantSquare % 8)
		b.zobristKey ^= zobristEnPassant[file]
	}
	b.enPassantSquare = NoSquare

	b.halfmoveClock++

	b.sideToMove = 1 - b.sideToMove
	b.zobristKey ^= zobristSide

	if st.prevSide == Black {
		b.fullmoveNumber++
	}
	return st
}

// UnmakeNullMove restores the board to the state prior to MakeNullMove.
func (b *Board) UnmakeNullMove(st NullState) {
	b.enPassantSquare = st.prevEnPassant
	b.halfmoveClock = st.prevHalfmove
	b.fullmoveNumber = st.prevFullmove
	b.sideToMove = st.prevSide
	b.zobristKey = st.prevZobrist
}
