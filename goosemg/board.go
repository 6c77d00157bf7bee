package goosemg

import "math/bits"

// Piece constants and types for pieces and colors
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	// Black pieces are encoded as (white piece type | 8) so that
	// - piece & 7 gives the type in [1..6]
	// - piece & 8 != 0 indicates Black
	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// PieceType is a colorless representation of a chess piece used for table lookups.
type PieceType uint8

const (
	PieceTypeNone   PieceType = 0
	PieceTypePawn   PieceType = 1
	PieceTypeKnight PieceType = 2
	PieceTypeBishop PieceType = 3
	PieceTypeRook   PieceType = 4
	PieceTypeQueen  PieceType = 5
	PieceTypeKing   PieceType = 6
)

// Type returns the colorless type of the piece (ignores side).
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side that owns the piece. NoPiece defaults to White.
func (p Piece) Color() Color { return colorOf(p) }

// PieceFromType combines a colorless type with a side to produce a concrete Piece.
func PieceFromType(color Color, pt PieceType) Piece {
	switch pt {
	case PieceTypePawn:
		if color == White {
			return WhitePawn
		}
		return BlackPawn
	case PieceTypeKnight:
		if color == White {
			return WhiteKnight
		}
		return BlackKnight
	case PieceTypeBishop:
		if color == White {
			return WhiteBishop
		}
		return BlackBishop
	case PieceTypeRook:
		if color == White {
			return WhiteRook
		}
		return BlackRook
	case PieceTypeQueen:
		if color == White {
			return WhiteQueen
		}
		return BlackQueen
	case PieceTypeKing:
		if color == White {
			return WhiteKing
		}
		return BlackKing
	default:
		return NoPiece
	}
}

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Opposite returns the other side.
func (c Color) Opposite() Color { return c ^ 1 }

// CastlingRights is the set of squares, one per side with a castling right
// still available, that hold a rook whose king has not moved. This replaces
// a fixed four-flag encoding: a Chess960 starting arrangement can put a rook
// on any file, so the right itself has to name the rook's square rather than
// a "kingside/queenside" label. Kingside vs. queenside, and which color, is
// recovered on demand by comparing a set bit's file to the king's.
type CastlingRights uint64

// NoCastlingRights is the empty set of castling rights.
const NoCastlingRights CastlingRights = 0

// Has reports whether sq currently carries a castling right.
func (cr CastlingRights) Has(sq Square) bool { return uint64(cr)&bb(sq) != 0 }

// With returns cr with sq added.
func (cr CastlingRights) With(sq Square) CastlingRights { return cr | CastlingRights(bb(sq)) }

// Without returns cr with sq removed.
func (cr CastlingRights) Without(sq Square) CastlingRights { return cr &^ CastlingRights(bb(sq)) }

// ForColor restricts cr to the rook squares on the given color's back rank.
func (cr CastlingRights) ForColor(c Color) CastlingRights {
	if c == White {
		return cr & CastlingRights(rank1)
	}
	return cr & CastlingRights(rank8)
}

// Mask returns the underlying bitboard.
func (cr CastlingRights) Mask() uint64 { return uint64(cr) }

// RookSquare returns the rook square carrying the right on the given side of
// the king for color c, and whether such a right exists. Kingside rights
// live on files to the right of (greater index than) the king; queenside
// rights on files to the left. Since both king and rook sit on the same back
// rank, raw square-index comparison is a correct file comparison.
func (cr CastlingRights) RookSquare(kingSquare Square, kingside bool) (Square, bool) {
	found, ok := NoSquare, false
	ScanForward(uint64(cr), func(sq int) {
		if ok {
			return
		}
		if (sq > int(kingSquare)) == kingside {
			found, ok = Square(sq), true
		}
	})
	return found, ok
}

// Square represents a board position (0-63).
type Square int

const NoSquare Square = -1

// Bitboards exposes the per-piece bitboards for a color in a dragontooth-compatible layout.
type Bitboards struct {
	Pawns   uint64
	Knights uint64
	Bishops uint64
	Rooks   uint64
	Queens  uint64
	Kings   uint64
	All     uint64
}

// Board represents the chess board state, including piece placement and game state.
//
// The piece-placement fields (pawns..kings, occupancy, pieces) play the role
// python-chess splits into a separate BaseBoard; they are kept inline here
// since every consumer in this module needs the game-state fields alongside
// them anyway.
type Board struct {
	// Piece bitboards for each piece type and color (index 0 = white, 1 = black)
	pawns   [2]uint64
	knights [2]uint64
	bishops [2]uint64
	rooks   [2]uint64
	queens  [2]uint64
	kings   [2]uint64

	// Occupancy bitboards for each side
	occupancy [2]uint64 // occupancy[White], occupancy[Black]
	// (overall occupancy can be derived as occupancy[White] | occupancy[Black])

	// Piece placement array for each square (0 = NoPiece, otherwise a Piece constant)
	pieces [64]Piece

	// Side to move (which player's turn it is)
	sideToMove Color

	// Castling rights for both sides, as rook home squares.
	castlingRights CastlingRights

	// Whether this position follows Chess960 castling and FEN conventions
	// (file-letter castling fields, arbitrary back-rank arrangement).
	chess960 bool

	// En passant target square (if a pawn moved two steps last move, otherwise NoSquare)
	enPassantSquare Square

	// Halfmove clock (number of half-moves since last capture or pawn advance, for 50-move rule)
	halfmoveClock int

	// Fullmove number (starts at 1, incremented after Black's move)
	fullmoveNumber int

	// Zobrist hash key for the current position (for move repetition and hashing)
	zobristKey uint64

	// promoted marks squares holding a piece that reached its square via
	// promotion, per the FEN '~' suffix convention. Informational only;
	// it does not affect move generation.
	promoted uint64
}

// Promoted reports whether the piece on sq was placed there by promotion.
func (b *Board) Promoted(sq Square) bool { return b.promoted&bb(sq) != 0 }

// SetPromoted marks or clears the promoted annotation for sq.
func (b *Board) SetPromoted(sq Square, v bool) {
	if v {
		b.promoted |= bb(sq)
	} else {
		b.promoted &^= bb(sq)
	}
}

// ApplyTransform relocates every piece on the board through a bitboard
// permutation f (flipVertical, flipHorizontal, a diagonal flip, or any
// composition of them), leaving side to move, castling rights, and the en
// passant square untouched. It is the BaseBoard-level primitive that
// Board-level transforms such as ApplyMirror build on, mirroring how
// apply_transform is factored out from apply_mirror in the reference
// python-chess-derived model this package follows.
func (b *Board) ApplyTransform(f func(uint64) uint64) {
	type placement struct {
		sq       Square
		p        Piece
		promoted bool
	}
	placements := make([]placement, 0, 32)
	for sq := Square(0); sq < 64; sq++ {
		p := b.pieces[sq]
		if p == NoPiece {
			continue
		}
		newSq := Square(lsb(f(bb(sq))))
		placements = append(placements, placement{newSq, p, b.Promoted(sq)})
	}
	for sq := Square(0); sq < 64; sq++ {
		b.removePiece(sq)
	}
	for _, pl := range placements {
		b.addPiece(pl.sq, pl.p)
		b.SetPromoted(pl.sq, pl.promoted)
	}
}

// ApplyMirror turns the position into its equivalent seen from the other
// side of the board: every piece is flipped vertically and its color
// swapped, the side to move flips, castling rights and the en passant
// square (if any) flip vertically with the board. Applying it twice
// restores the original position.
func (b *Board) ApplyMirror() {
	b.ApplyTransform(flipVertical)

	for sq := Square(0); sq < 64; sq++ {
		p := b.pieces[sq]
		if p == NoPiece {
			continue
		}
		promoted := b.Promoted(sq)
		b.removePiece(sq)
		b.addPiece(sq, p^8)
		b.SetPromoted(sq, promoted)
	}

	b.sideToMove = b.sideToMove.Opposite()
	b.castlingRights = CastlingRights(flipVertical(uint64(b.castlingRights)))
	if b.enPassantSquare != NoSquare {
		b.enPassantSquare = Square(int(b.enPassantSquare) ^ 56)
	}
}

// HasLegalMoves reports whether the side to move has any legal moves.
func (b *Board) HasLegalMoves() bool {
	buf := make([]Move, 0, 64)
	moves := b.GenerateMovesInto(buf)
	return len(moves) > 0
}

// InCheckmate reports whether the side to move is checkmated.
func (b *Board) InCheckmate() bool {
	return b.InCheck(b.sideToMove) && !b.HasLegalMoves()
}

// InStalemate reports whether the side to move is stalemated.
func (b *Board) InStalemate() bool {
	return !b.InCheck(b.sideToMove) && !b.HasLegalMoves()
}

// IsDrawBy50 reports a 50-move rule draw (halfmoveClock counts half-moves).
func (b *Board) IsDrawBy50() bool {
	return b.halfmoveClock >= 100
}

// HalfmoveClock accessor for testing/consumers that want read-only access.
func (b *Board) HalfmoveClock() int { return b.halfmoveClock }

// FullmoveNumber returns the full move counter (incremented after Black's move).
func (b *Board) FullmoveNumber() int { return b.fullmoveNumber }

// EnPassantSquare returns the current en-passant target square or NoSquare.
func (b *Board) EnPassantSquare() Square { return b.enPassantSquare }

// SideToMove reports which side is to play.
func (b *Board) SideToMove() Color { return b.sideToMove }

// SetSideToMove updates the side to play. Use with care; normal move making toggles automatically.
func (b *Board) SetSideToMove(c Color) {
	if b.sideToMove == c {
		return
	}
	b.sideToMove = c
	b.zobristKey ^= zobristSide
}

// Hash returns the current Zobrist hash key.
func (b *Board) Hash() uint64 { return b.zobristKey }

// CastlingRights returns the current castling rights.
func (b *Board) CastlingRights() CastlingRights { return b.castlingRights }

// SetCastlingRights overwrites the castling rights and keeps the Zobrist key
// in sync. Intended for FEN parsing and Chess960 setup, not for move making.
func (b *Board) SetCastlingRights(cr CastlingRights) {
	ScanForward(uint64(b.castlingRights), func(sq int) { b.zobristKey ^= zobristCastling[sq] })
	b.castlingRights = cr
	ScanForward(uint64(cr), func(sq int) { b.zobristKey ^= zobristCastling[sq] })
}

// Reset clears the board to an empty position with White to move, no
// castling rights, and no en passant square.
func (b *Board) Reset() {
	*b = Board{
		sideToMove:      White,
		enPassantSquare: NoSquare,
		fullmoveNumber:  1,
	}
}

// IsChess960 reports whether this position uses Chess960 castling/FEN conventions.
func (b *Board) IsChess960() bool { return b.chess960 }

// SetChess960 toggles Chess960 conventions without touching piece placement.
func (b *Board) SetChess960(v bool) { b.chess960 = v }

// King returns the square of color's king, or NoSquare if it has none (an
// otherwise-invalid position that status() is expected to flag).
func (b *Board) King(c Color) Square {
	k := b.kings[int(c)]
	if k == 0 {
		return NoSquare
	}
	return Square(lsb(k))
}

// Bitboards returns the per-piece bitboards for the requested side.
func (b *Board) Bitboards(color Color) Bitboards {
	idx := int(color)
	return Bitboards{
		Pawns:   b.pawns[idx],
		Knights: b.knights[idx],
		Bishops: b.bishops[idx],
		Rooks:   b.rooks[idx],
		Queens:  b.queens[idx],
		Kings:   b.kings[idx],
		All:     b.occupancy[idx],
	}
}

// WhiteBitboards returns White's bitboards (copy).
func (b *Board) WhiteBitboards() Bitboards { return b.Bitboards(White) }

// BlackBitboards returns Black's bitboards (copy).
func (b *Board) BlackBitboards() Bitboards { return b.Bitboards(Black) }

// IsDrawByRepetition reports a draw by threefold repetition based on the provided
// history of Zobrist keys. The check counts occurrences of the current position's
// Zobrist key in the history plus the current position itself. If it appears
// three or more times, it returns true.
//
// Notes:
//   - The caller should typically pass keys since the last irreversible move
//     (capture or pawn move) for efficiency, though including a longer history is fine.
//   - Zobrist key already encodes side to move, castling rights and en passant file,
//     which are required for the repetition rule.
//
// (*Board).CanClaimThreefoldRepetition implements the stricter replay-based
// version of this check using TranspositionKey instead of Hash.
func (b *Board) IsDrawByRepetition(history []uint64) bool {
	target := b.zobristKey
	// Do not double-count if the last history entry is the current position.
	end := len(history)
	if end > 0 && history[end-1] == target {
		end--
	}
	matches := 0
	for i := 0; i < end; i++ {
		if history[i] == target {
			matches++
			if matches >= 2 { // plus current occurrence makes threefold
				return true
			}
		}
	}
	return false
}

// ==========================
// Move helpers for drivers
// ==========================

// PushMove attempts to make the move, and if legal, appends the resulting Zobrist
// key to the provided history and pushes the MoveState onto the stack for later undo.
// Returns true on success; on failure, board state is unchanged and nothing is appended.
func (b *Board) PushMove(m Move, stack *[]MoveState, history *[]uint64) bool {
	ok, st := b.MakeMove(m)
	if !ok {
		return false
	}
	*stack = append(*stack, st)
	*history = append(*history, b.zobristKey)
	return true
}

// PopMove undoes the last move pushed with PushMove, restoring the board state
// and truncating the history by one entry.
// It panics if the stack is empty.
func (b *Board) PopMove(stack *[]MoveState, history *[]uint64) {
	n := len(*stack)
	if n == 0 {
		panic(newError(ErrEmptyMoveStack, "PopMove called on empty stack"))
	}
	st := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	b.UnmakeMove(st.move, st)
	if len(*history) > 0 {
		*history = (*history)[:len(*history)-1]
	}
}

// ==========================
// Bitboard helpers
// ==========================

// bb returns a bitboard with the given square bit set.
func bb(sq Square) uint64 { return 1 << uint64(sq) }

// popLSB removes and returns the least significant set bit from the mask.
func popLSB(mask *uint64) int {
	x := *mask & -(*mask)
	idx := bits.TrailingZeros64(x)
	*mask &= *mask - 1
	return idx
}

// ==========================
// Board occupancy helpers
// ==========================

// AllOccupancy returns a bitboard of all occupied squares.
func (b *Board) AllOccupancy() uint64 { return b.occupancy[0] | b.occupancy[1] }

// ColorOccupancy returns the occupancy bitboard for the given color.
func (b *Board) ColorOccupancy(c Color) uint64 { return b.occupancy[int(c)] }

// PieceAt returns the piece on a square.
func (b *Board) PieceAt(sq Square) Piece { return b.pieces[int(sq)] }

// ColorAt returns the color of the piece on sq and true if the square is
// occupied. Unlike PieceAt(sq).Color(), which maps an empty square to White,
// the bool return lets callers distinguish an empty square from a White
// piece.
func (b *Board) ColorAt(sq Square) (Color, bool) {
	p := b.pieces[int(sq)]
	if p == NoPiece {
		return White, false
	}
	return colorOf(p), true
}

// colorOf returns the color of a piece. NoPiece is treated as White.
func colorOf(p Piece) Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

// typeOf returns the piece type in [1..6] with color stripped.
func typeOf(p Piece) Piece { return p & 7 }

// addPiece places a piece on an empty square and updates bitboards, occupancy and zobrist.
func (b *Board) addPiece(sq Square, p Piece) {
	if p == NoPiece {
		return
	}
	idx := int(sq)
	b.pieces[idx] = p
	c := colorOf(p)
	ci := int(c)
	b.occupancy[ci] |= bb(sq)
	switch typeOf(p) {
	case 1:
		b.pawns[ci] |= bb(sq)
	case 2:
		b.knights[ci] |= bb(sq)
	case 3:
		b.bishops[ci] |= bb(sq)
	case 4:
		b.rooks[ci] |= bb(sq)
	case 5:
		b.queens[ci] |= bb(sq)
	case 6:
		b.kings[ci] |= bb(sq)
	}
	// Zobrist: XOR in piece on square
	b.zobristKey ^= zobristPiece[p][idx]
}

// removePiece removes a piece from a square and updates bitboards, occupancy and zobrist.
func (b *Board) removePiece(sq Square) Piece {
	idx := int(sq)
	p := b.pieces[idx]
	if p == NoPiece {
		return NoPiece
	}
	c := colorOf(p)
	ci := int(c)
	mask := ^bb(sq)
	b.pieces[idx] = NoPiece
	b.occupancy[ci] &= mask
	switch typeOf(p) {
	case 1:
		b.pawns[ci] &= mask
	case 2:
		b.knights[ci] &= mask
	case 3:
		b.bishops[ci] &= mask
	case 4:
		b.rooks[ci] &= mask
	case 5:
		b.queens[ci] &= mask
	case 6:
		b.kings[ci] &= mask
	}
	// Zobrist: XOR out piece on square
	b.zobristKey ^= zobristPiece[p][idx]
	b.promoted &^= bb(sq)
	return p
}

// SetPiece sets a piece on a square, replacing any existing piece, and keeps state in sync.
func (b *Board) SetPiece(sq Square, p Piece) {
	b.removePiece(sq)
	b.addPiece(sq, p)
}

// ClearSquare removes any piece from the given square.
func (b *Board) ClearSquare(sq Square) { _ = b.removePiece(sq) }

// MovePiece moves a piece from one square to another. If a piece exists on 'to', it is captured.
func (b *Board) MovePiece(from, to Square) {
	moving := b.removePiece(from)
	// capture if any
	_ = b.removePiece(to)
	b.addPiece(to, moving)
}

// ==========================
// Attack and pin primitives
// ==========================
//
// These expose, as standalone queries, the same attack-table machinery the
// legal move generator folds into computeCheckAndPins for speed. External
// callers such as SAN disambiguation or status() don't walk the whole move
// list just to ask "is this piece pinned" or "who attacks this square".

// AttacksMask returns every square the piece on sq attacks, given the
// current occupancy. Empty if sq holds no piece.
func (b *Board) AttacksMask(sq Square) uint64 {
	p := b.pieces[sq]
	if p == NoPiece {
		return 0
	}
	occ := b.AllOccupancy()
	s := int(sq)
	switch p.Type() {
	case PieceTypePawn:
		return pawnAttacks[int(p.Color())][s]
	case PieceTypeKnight:
		return knightMoves[s]
	case PieceTypeBishop:
		return bishopAttacks(s, occ)
	case PieceTypeRook:
		return rookAttacks(s, occ)
	case PieceTypeQueen:
		return rookAttacks(s, occ) | bishopAttacks(s, occ)
	case PieceTypeKing:
		return kingMoves[s]
	default:
		return 0
	}
}

// AttackersMask returns every square holding a by-colored piece that attacks
// sq, given occupied. It relies on the symmetry that a piece on S attacks sq
// exactly when a like piece on sq would attack S.
func (b *Board) AttackersMask(by Color, sq Square, occupied uint64) uint64 {
	s := int(sq)
	bi := int(by)
	attackers := pawnAttacks[int(by.Opposite())][s] & b.pawns[bi]
	attackers |= knightMoves[s] & b.knights[bi]
	attackers |= kingMoves[s] & b.kings[bi]
	attackers |= rookAttacks(s, occupied) & (b.rooks[bi] | b.queens[bi])
	attackers |= bishopAttacks(s, occupied) & (b.bishops[bi] | b.queens[bi])
	return attackers
}

// CheckersMask returns the set of opposing pieces currently giving check to
// color's king. Empty if color's king is not in check (or has no king).
func (b *Board) CheckersMask(color Color) uint64 {
	king := b.King(color)
	if king == NoSquare {
		return 0
	}
	return b.AttackersMask(color.Opposite(), king, b.AllOccupancy())
}

// PinMask returns the set of squares the piece on sq is constrained to, if
// it is absolutely pinned against color's king: either bbAll (not pinned)
// or the pinning ray inclusive of the pinning slider's square.
func (b *Board) PinMask(color Color, sq Square) uint64 {
	king := b.King(color)
	if king == NoSquare {
		return bbAll
	}
	ks := int(king)
	line := uint64(Ray(ks, int(sq)))
	if line == 0 {
		return bbAll
	}
	opp := int(color.Opposite())
	var sliders uint64
	if squareFile(ks) == squareFile(int(sq)) || squareRank(ks) == squareRank(int(sq)) {
		sliders = b.rooks[opp] | b.queens[opp]
	} else {
		sliders = b.bishops[opp] | b.queens[opp]
	}
	occ := b.AllOccupancy()
	squareBit := bb(sq)
	pinned := bbAll
	ScanForward(line&occ&sliders, func(s int) {
		between := uint64(Between(ks, s))
		if between&(occ|squareBit) == squareBit {
			pinned = between | (uint64(1) << uint(s))
		}
	})
	return pinned
}

// Validate checks internal consistency between pieces[], per-piece bitboards, and occupancy.
// Returns true if consistent, false otherwise.
func (b *Board) Validate() bool {
	var occ [2]uint64
	var pawns, knights, bishops, rooks, queens, kings [2]uint64
	for sq := 0; sq < 64; sq++ {
		p := b.pieces[sq]
		if p == NoPiece {
			continue
		}
		c := colorOf(p)
		ci := int(c)
		bit := uint64(1) << uint(sq)
		occ[ci] |= bit
		switch typeOf(p) {
		case 1:
			pawns[ci] |= bit
		case 2:
			knights[ci] |= bit
		case 3:
			bishops[ci] |= bit
		case 4:
			rooks[ci] |= bit
		case 5:
			queens[ci] |= bit
		case 6:
			kings[ci] |= bit
		}
	}
	if occ != b.occupancy {
		return false
	}
	if pawns != b.pawns || knights != b.knights || bishops != b.bishops || rooks != b.rooks || queens != b.queens || kings != b.kings {
		return false
	}
	// Cross-check Zobrist
	if b.zobristKey != b.ComputeZobrist() {
		return false
	}
	return true
}
