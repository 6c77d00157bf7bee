package goosemg

import "math/rand"

// Zobrist hashing tables for pieces, castling rook squares, en passant file,
// and side to move.
var zobristPiece [15][64]uint64  // keyed by piece code, then square
var zobristCastling [64]uint64   // keyed by the square a castling rook sits on
var zobristEnPassant [8]uint64   // keyed by en passant file (0-7)
var zobristSide uint64           // XORed in when Black is to move

func init() {
	initZobrist()
}

func initZobrist() {
	// Fixed seed: reproducible hashes across runs and across builds.
	rnd := rand.New(rand.NewSource(0xC0DE))

	for p := 0; p < 15; p++ {
		for sq := 0; sq < 64; sq++ {
			zobristPiece[p][sq] = rnd.Uint64()
		}
	}

	for sq := 0; sq < 64; sq++ {
		zobristCastling[sq] = rnd.Uint64()
	}

	for f := 0; f < 8; f++ {
		zobristEnPassant[f] = rnd.Uint64()
	}

	zobristSide = rnd.Uint64()
}

// ComputeZobrist calculates the Zobrist hash for the current board state
// from scratch. MakeMove/UnmakeMove maintain the same value incrementally;
// this is used to seed a freshly parsed position and to sanity-check the
// incremental value in tests.
func (b *Board) ComputeZobrist() uint64 {
	return b.zobristWithEnPassant(b.enPassantSquare)
}

// TranspositionKey returns the hash used for repetition detection. It
// differs from ComputeZobrist only in how it treats the en passant square:
// a pending en passant square only distinguishes a position from one without
// it when a pawn is actually in place to make the capture. Folding in the
// square unconditionally would make python-chess-style replay detect fewer
// repetitions than players can actually claim, since the position printed on
// the board is identical whether or not the capture is available.
func (b *Board) TranspositionKey() uint64 {
	return b.zobristWithEnPassant(b.effectiveEnPassantSquare())
}

func (b *Board) zobristWithEnPassant(ep Square) uint64 {
	var key uint64

	for sq := 0; sq < 64; sq++ {
		if p := b.pieces[sq]; p != NoPiece {
			key ^= zobristPiece[p][sq]
		}
	}

	if b.sideToMove == Black {
		key ^= zobristSide
	}

	ScanForward(uint64(b.castlingRights), func(sq int) {
		key ^= zobristCastling[sq]
	})

	if ep != NoSquare {
		key ^= zobristEnPassant[squareFile(int(ep))]
	}

	return key
}

// effectiveEnPassantSquare returns the board's en passant square only if an
// enemy pawn is actually positioned to play the capture, and NoSquare
// otherwise.
func (b *Board) effectiveEnPassantSquare() Square {
	ep := b.enPassantSquare
	if ep == NoSquare {
		return NoSquare
	}

	var capturerSquare int
	var capturerPawn Piece
	if b.sideToMove == White {
		capturerSquare = int(ep) - 8
		capturerPawn = WhitePawn
	} else {
		capturerSquare = int(ep) + 8
		capturerPawn = BlackPawn
	}

	file := squareFile(int(ep))
	rank := squareRank(capturerSquare)
	for _, df := range [2]int{-1, 1} {
		f := file + df
		if f < 0 || f > 7 {
			continue
		}
		if b.pieces[squareOf(f, rank)] == capturerPawn {
			return ep
		}
	}
	return NoSquare
}
