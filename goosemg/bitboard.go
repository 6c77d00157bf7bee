package goosemg

import "math/bits"

const (
	// bbEmpty is the bitboard with no squares set.
	bbEmpty uint64 = 0
	// bbAll is the bitboard with every square set.
	bbAll uint64 = 0xffffffffffffffff
)

const (
	fileA uint64 = 0x0101010101010101
	fileB uint64 = fileA << 1
	fileG uint64 = fileA << 6
	fileH uint64 = fileA << 7
	rank1 uint64 = 0xff
	rank8 uint64 = rank1 << 56

	lightSquares uint64 = 0x55aa55aa55aa55aa
	darkSquares  uint64 = ^lightSquares
)

// lsb returns the index of the least significant set bit. Undefined for bb == 0.
func lsb(b uint64) int { return bits.TrailingZeros64(b) }

// msb returns the index of the most significant set bit. Undefined for bb == 0.
func msb(b uint64) int { return 63 - bits.LeadingZeros64(b) }

// popcount returns the number of set bits.
func popcount(b uint64) int { return bits.OnesCount64(b) }

// flipVertical mirrors a bitboard across the horizontal axis (rank 1 <-> rank 8).
// https://www.chessprogramming.org/Flipping_Mirroring_and_Rotating#FlipVertically
func flipVertical(b uint64) uint64 {
	b = ((b >> 8) & 0x00ff00ff00ff00ff) | ((b & 0x00ff00ff00ff00ff) << 8)
	b = ((b >> 16) & 0x0000ffff0000ffff) | ((b & 0x0000ffff0000ffff) << 16)
	b = (b >> 32) | (b << 32)
	return b
}

// flipHorizontal mirrors a bitboard across the vertical axis (file a <-> file h).
func flipHorizontal(b uint64) uint64 {
	b = ((b >> 1) & 0x5555555555555555) | ((b & 0x5555555555555555) << 1)
	b = ((b >> 2) & 0x3333333333333333) | ((b & 0x3333333333333333) << 2)
	b = ((b >> 4) & 0x0f0f0f0f0f0f0f0f) | ((b & 0x0f0f0f0f0f0f0f0f) << 4)
	return b
}

// flipDiagonal mirrors a bitboard about the a1-h8 diagonal.
func flipDiagonal(b uint64) uint64 {
	t := (b ^ (b << 28)) & 0x0f0f0f0f00000000
	b = b ^ (t ^ (t >> 28))
	t = (b ^ (b << 14)) & 0x3333000033330000
	b = b ^ (t ^ (t >> 14))
	t = (b ^ (b << 7)) & 0x5500550055005500
	b = b ^ (t ^ (t >> 7))
	return b
}

// flipAntiDiagonal mirrors a bitboard about the a8-h1 diagonal.
func flipAntiDiagonal(b uint64) uint64 {
	t := b ^ (b << 36)
	b = b ^ ((t ^ (b >> 36)) & 0xf0f0f0f00f0f0f0f)
	t = (b ^ (b << 18)) & 0xcccc0000cccc0000
	b = b ^ (t ^ (t >> 18))
	t = (b ^ (b << 9)) & 0xaa00aa00aa00aa00
	b = b ^ (t ^ (t >> 9))
	return b
}

func shiftUp(b uint64) uint64        { return (b << 8) & bbAll }
func shiftDown(b uint64) uint64      { return b >> 8 }
func shiftUp2(b uint64) uint64       { return (b << 16) & bbAll }
func shiftDown2(b uint64) uint64     { return b >> 16 }
func shiftRight(b uint64) uint64     { return (b << 1) &^ fileA }
func shiftLeft(b uint64) uint64      { return (b >> 1) &^ fileH }
func shiftRight2(b uint64) uint64    { return (b << 2) &^ (fileA | fileB) }
func shiftLeft2(b uint64) uint64     { return (b >> 2) &^ (fileG | fileH) }
func shiftUpLeft(b uint64) uint64    { return (b << 7) &^ fileH & bbAll }
func shiftUpRight(b uint64) uint64   { return (b << 9) &^ fileA & bbAll }
func shiftDownLeft(b uint64) uint64  { return (b >> 9) &^ fileH }
func shiftDownRight(b uint64) uint64 { return (b >> 7) &^ fileA }

// squareFile returns the file (0=a .. 7=h) of a square.
func squareFile(sq int) int { return sq & 7 }

// squareRank returns the rank (0=first .. 7=eighth) of a square.
func squareRank(sq int) int { return sq >> 3 }

// squareOf builds a square index from a file and a rank, both 0-indexed.
func squareOf(file, rank int) int { return rank*8 + file }

// squareName prints a square in lowercase algebraic form (0 -> "a1").
func squareName(sq Square) string {
	return string([]byte{'a' + byte(squareFile(int(sq))), '1' + byte(squareRank(int(sq)))})
}

// squareDistance returns the Chebyshev distance (king steps) between two squares.
func squareDistance(a, b int) int {
	df := squareFile(a) - squareFile(b)
	dr := squareRank(a) - squareRank(b)
	if df < 0 {
		df = -df
	}
	if dr < 0 {
		dr = -dr
	}
	if df > dr {
		return df
	}
	return dr
}

// squareMirror mirrors a square vertically (rank 1 <-> rank 8).
func squareMirror(sq int) int { return sq ^ 0x38 }

// slidingAttacks walks from square in each of deltas until it runs off the
// board or hits an occupied square, which is included in the result. It is
// used at init time to build the line tables behind Ray and Between
// (squareset.go) and never depends on the slider attack tables.
func slidingAttacks(square int, occupied uint64, deltas []int) uint64 {
	var attacks uint64
	for _, delta := range deltas {
		sq := square
		for {
			next := sq + delta
			if next < 0 || next >= 64 || squareDistance(next, sq) > 2 {
				break
			}
			sq = next
			attacks |= uint64(1) << uint(sq)
			if occupied&(uint64(1)<<uint(sq)) != 0 {
				break
			}
		}
	}
	return attacks
}
