package goosemg

import "strings"

// Startpos constant.
const Startpos = FENStartPos

// ParseFen is a FEN parser that panics on invalid input, for call sites
// that already guarantee a well-formed string (e.g. compiled-in constants).
func ParseFen(fen string) Board {
	b, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return *b
}

// ToFen exposes the camel-case variant expected by existing engine code.
func (b *Board) ToFen() string { return b.ToFEN() }

// Apply plays a move and returns an undo closure.
func (b *Board) Apply(m Move) func() {
	ok, st := b.MakeMove(m)
	if !ok {
		panic("goosemg.Apply: illegal move applied")
	}
	return func() { b.UnmakeMove(m, st) }
}

// ApplyNullMove performs a null move and returns the corresponding undo closure.
func (b *Board) ApplyNullMove() func() {
	st := b.MakeNullMove()
	return func() { b.UnmakeNullMove(st) }
}

// OurKingInCheck reports whether the side to move has its king in check.
func (b *Board) OurKingInCheck() bool { return b.InCheck(b.sideToMove) }

// IsCapture reports whether the given move captures a piece (including en passant).
func IsCapture(m Move, b *Board) bool {
	if m.IsDrop() {
		return false
	}
	toBB := uint64(1) << uint(m.To())
	if toBB&b.AllOccupancy() != 0 {
		return true
	}
	if b.enPassantSquare == NoSquare {
		return false
	}
	epBB := uint64(1) << uint(b.enPassantSquare)
	return m.MovedPiece().Type() == PieceTypePawn && toBB&epBB != 0
}

// ParseSquareName parses a lowercase algebraic square name ("e4") into a Square.
func ParseSquareName(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, newError(ErrInvalidSquareName, "wrong length: %q", s)
	}
	file := s[0]
	rank := s[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return NoSquare, newError(ErrInvalidSquareName, "out of range: %q", s)
	}
	return Square(squareOf(int(file-'a'), int(rank-'1'))), nil
}

func pieceTypeFromSymbol(ch byte) (PieceType, error) {
	switch ch {
	case 'p':
		return PieceTypePawn, nil
	case 'n':
		return PieceTypeKnight, nil
	case 'b':
		return PieceTypeBishop, nil
	case 'r':
		return PieceTypeRook, nil
	case 'q':
		return PieceTypeQueen, nil
	case 'k':
		return PieceTypeKing, nil
	default:
		return PieceTypeNone, newError(ErrInvalidPieceSymbol, "unknown piece symbol %q", string(ch))
	}
}

// ParseMove converts a UCI move string into a Move. It accepts the null move
// ("0000"), ordinary moves ("e2e4", "e7e8q"), and drop notation ("N@f3");
// standard-chess callers only ever see the first two forms produced by move
// generation.
//
// The returned Move is not validated against any board: From()/To() and
// promotion/drop piece are filled in directly from the string, with color
// left as White for drops and promotions; callers substitute the real side
// to move. Castling moves need board context to resolve under Chess960, so
// this parser leaves them to the caller to match against generated moves.
func ParseMove(movestr string) (Move, error) {
	s := strings.TrimSpace(strings.ToLower(movestr))
	if s == "0000" {
		return 0, nil
	}
	if len(s) == 4 && s[1] == '@' {
		pt, err := pieceTypeFromSymbol(s[0])
		if err != nil {
			return 0, err
		}
		sq, err := ParseSquareName(s[2:4])
		if err != nil {
			return 0, err
		}
		piece := PieceFromType(White, pt)
		return NewMove(sq, sq, piece, NoPiece, NoPiece, FlagDrop), nil
	}
	if len(s) < 4 || len(s) > 5 {
		return 0, newError(ErrInvalidUci, "invalid move length: %q", movestr)
	}
	from, err := ParseSquareName(s[0:2])
	if err != nil {
		return 0, newError(ErrInvalidUci, "bad from-square in %q: %v", movestr, err)
	}
	to, err := ParseSquareName(s[2:4])
	if err != nil {
		return 0, newError(ErrInvalidUci, "bad to-square in %q: %v", movestr, err)
	}
	if from == to {
		return 0, newError(ErrInvalidUci, "from and to squares identical without drop syntax: %q", movestr)
	}
	var promo Piece
	if len(s) == 5 {
		pt, err := pieceTypeFromSymbol(s[4])
		if err != nil {
			return 0, newError(ErrInvalidUci, "bad promotion piece in %q: %v", movestr, err)
		}
		promo = PieceFromType(White, pt)
	}
	return NewMove(from, to, NoPiece, NoPiece, promo, FlagNone), nil
}
