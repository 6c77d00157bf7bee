package goosemg

// scharnaglArrangement returns the back-rank file (0-7) for each piece type
// produced by Scharnagl index n, per the standard bw/bb/queen/KRN
// decomposition (http://www.russellcottrell.com/Chess/Chess960.htm).
func scharnaglArrangement(n int) (bishopFiles [2]int, queenFile int, knightFiles [2]int, rookFiles [2]int, kingFile int) {
	n2, bw := n/4, n%4
	n1, bb := n2/4, n2%4
	nn, q := n1/6, n1%6

	var k1, k2 int
	for k1 = 0; k1 < 4; k1++ {
		k2 = nn + (3-k1)*(4-k1)/2 - 5
		if k1 < k2 && k2 >= 1 && k2 <= 4 {
			break
		}
	}

	bwFile := bw*2 + 1
	bbFile := bb * 2
	bishopFiles = [2]int{bwFile, bbFile}

	qFile := q
	lo, hi := bwFile, bbFile
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo <= qFile {
		qFile++
	}
	if hi <= qFile {
		qFile++
	}
	queenFile = qFile

	used := []int{bwFile, bbFile, qFile}
	contains := func(v int) bool {
		for _, u := range used {
			if u == v {
				return true
			}
		}
		return false
	}

	var knights []int
	for i := 0; i < 8 && len(knights) < 2; i++ {
		if contains(i) {
			continue
		}
		if k1 == 0 || k2 == 0 {
			knights = append(knights, i)
			used = append(used, i)
		}
		k1--
		k2--
	}
	knightFiles = [2]int{knights[0], knights[1]}

	var rooks []int
	for i := 0; i < 8; i++ {
		if !contains(i) {
			rooks = append(rooks, i)
			used = append(used, i)
			break
		}
	}
	for i := 1; i < 8; i++ {
		if !contains(i) {
			kingFile = i
			used = append(used, i)
			break
		}
	}
	for i := 2; i < 8; i++ {
		if !contains(i) {
			rooks = append(rooks, i)
			break
		}
	}
	rookFiles = [2]int{rooks[0], rooks[1]}
	return
}

// SetChess960Pos sets up a Chess960 starting position given its Scharnagl
// index in [0,959]. The board is marked as a Chess960 board.
func (b *Board) SetChess960Pos(n int) error {
	if n < 0 || n > 959 {
		return newError(ErrInvalidChess960Index, "chess960 position index not in [0,959]: %d", n)
	}
	bishopFiles, queenFile, knightFiles, rookFiles, kingFile := scharnaglArrangement(n)

	b.Reset()
	b.chess960 = true

	place := func(file int, pt PieceType) {
		b.SetPiece(Square(file), PieceFromType(White, pt))
		b.SetPiece(Square(56+file), PieceFromType(Black, pt))
	}
	place(bishopFiles[0], PieceTypeBishop)
	place(bishopFiles[1], PieceTypeBishop)
	place(queenFile, PieceTypeQueen)
	place(knightFiles[0], PieceTypeKnight)
	place(knightFiles[1], PieceTypeKnight)
	place(rookFiles[0], PieceTypeRook)
	place(rookFiles[1], PieceTypeRook)
	place(kingFile, PieceTypeKing)

	for f := 0; f < 8; f++ {
		b.SetPiece(Square(8+f), WhitePawn)
		b.SetPiece(Square(48+f), BlackPawn)
	}

	cr := NoCastlingRights
	cr = cr.With(Square(rookFiles[0])).With(Square(rookFiles[1]))
	cr = cr.With(Square(56 + rookFiles[0])).With(Square(56 + rookFiles[1]))
	b.castlingRights = cr

	b.sideToMove = White
	b.enPassantSquare = NoSquare
	b.halfmoveClock = 0
	b.fullmoveNumber = 1
	b.zobristKey = b.ComputeZobrist()
	return nil
}

// standardScharnaglIndex is the Scharnagl index of the classical chess
// starting arrangement (RNBQKBNR), the one Chess960 index reachable from a
// board never flagged Chess960.
const standardScharnaglIndex = 518

// Chess960Pos reports the Scharnagl index of the current position, if it is
// a valid Chess960 (or standard) starting arrangement; ok is false otherwise.
// A board not marked Chess960 (see IsChess960) can only match the standard
// index: a non-Chess960 board whose pieces happen to coincide with some
// other Scharnagl arrangement was never actually set up as that arrangement,
// so it is not reported as one.
func (b *Board) Chess960Pos() (n int, ok bool) {
	if b.enPassantSquare != NoSquare || b.halfmoveClock != 0 || b.fullmoveNumber != 1 {
		return 0, false
	}
	if b.sideToMove != White {
		return 0, false
	}
	for f := 0; f < 8; f++ {
		if b.pieces[8+f] != WhitePawn || b.pieces[48+f] != BlackPawn {
			return 0, false
		}
	}
	var whiteBack, blackBack [8]Piece
	for f := 0; f < 8; f++ {
		whiteBack[f] = b.pieces[f]
		blackBack[f] = b.pieces[56+f]
		if whiteBack[f] == NoPiece || whiteBack[f] == WhitePawn {
			return 0, false
		}
		if blackBack[f] != PieceFromType(Black, whiteBack[f].Type()) {
			return 0, false
		}
	}
	var rookFiles []int
	for f := 0; f < 8; f++ {
		if whiteBack[f].Type() == PieceTypeRook {
			rookFiles = append(rookFiles, f)
		}
	}
	if len(rookFiles) != 2 {
		return 0, false
	}
	expectCR := NoCastlingRights.With(Square(rookFiles[0])).With(Square(rookFiles[1]))
	expectCR = expectCR.With(Square(56 + rookFiles[0])).With(Square(56 + rookFiles[1]))
	if b.castlingRights != expectCR {
		return 0, false
	}

	for cand := 0; cand <= 959; cand++ {
		bishopFiles, queenFile, knightFiles, rf, kingFile := scharnaglArrangement(cand)
		if !filesMatch(whiteBack, PieceTypeBishop, bishopFiles[0], bishopFiles[1]) {
			continue
		}
		if whiteBack[queenFile].Type() != PieceTypeQueen {
			continue
		}
		if !filesMatch(whiteBack, PieceTypeKnight, knightFiles[0], knightFiles[1]) {
			continue
		}
		if !filesMatch(whiteBack, PieceTypeRook, rf[0], rf[1]) {
			continue
		}
		if whiteBack[kingFile].Type() != PieceTypeKing {
			continue
		}
		if !b.chess960 && cand != standardScharnaglIndex {
			continue
		}
		return cand, true
	}
	return 0, false
}

func filesMatch(back [8]Piece, pt PieceType, a, b int) bool {
	return back[a].Type() == pt && back[b].Type() == pt
}
