package goosemg

// SquareSet is a set of board squares backed by a single 64-bit mask, one bit
// per square in the usual a1=0 .. h8=63 ordering. It is the public,
// set-algebra-flavoured view of the same bits the board and move generator
// juggle as raw uint64s internally.
type SquareSet uint64

// EmptySquareSet is the set containing no squares.
const EmptySquareSet SquareSet = 0

// FullSquareSet is the set containing every square.
const FullSquareSet SquareSet = SquareSet(bbAll)

// NewSquareSet builds a set from individual squares.
func NewSquareSet(squares ...int) SquareSet {
	var s SquareSet
	for _, sq := range squares {
		s |= SquareSet(1) << uint(sq)
	}
	return s
}

// IsEmpty reports whether the set has no squares.
func (s SquareSet) IsEmpty() bool { return s == 0 }

// Len returns the number of squares in the set.
func (s SquareSet) Len() int { return popcount(uint64(s)) }

// Contains reports whether sq is a member of the set.
func (s SquareSet) Contains(sq int) bool { return uint64(s)&(uint64(1)<<uint(sq)) != 0 }

// Add returns the set with sq added.
func (s SquareSet) Add(sq int) SquareSet { return s | SquareSet(1)<<uint(sq) }

// Discard returns the set with sq removed, if present; a no-op otherwise.
func (s SquareSet) Discard(sq int) SquareSet { return s &^ (SquareSet(1) << uint(sq)) }

// Remove returns the set with sq removed. Unlike Discard, it reports an error
// if sq was not a member, mirroring the raising behaviour of a set.remove
// call on an absent element.
func (s SquareSet) Remove(sq int) (SquareSet, error) {
	if !s.Contains(sq) {
		return s, newError(ErrEmptySetOperation, "square %d not in set", sq)
	}
	return s.Discard(sq), nil
}

// Pop removes and returns the lowest-indexed square in the set. It reports an
// error if the set is empty.
func (s SquareSet) Pop() (int, SquareSet, error) {
	if s == 0 {
		return 0, s, newError(ErrEmptySetOperation, "pop from empty square set")
	}
	sq := lsb(uint64(s))
	return sq, s.Discard(sq), nil
}

// Union returns the union of s and other.
func (s SquareSet) Union(other SquareSet) SquareSet { return s | other }

// Intersection returns the intersection of s and other.
func (s SquareSet) Intersection(other SquareSet) SquareSet { return s & other }

// Difference returns the squares in s that are not in other.
func (s SquareSet) Difference(other SquareSet) SquareSet { return s &^ other }

// SymmetricDifference returns the squares in exactly one of s or other.
func (s SquareSet) SymmetricDifference(other SquareSet) SquareSet { return s ^ other }

// Complement returns every square not in s.
func (s SquareSet) Complement() SquareSet { return s ^ FullSquareSet }

// IsDisjoint reports whether s and other share no squares.
func (s SquareSet) IsDisjoint(other SquareSet) bool { return s&other == 0 }

// IsSubset reports whether every square in s is also in other.
func (s SquareSet) IsSubset(other SquareSet) bool { return s&other == s }

// IsSuperset reports whether every square in other is also in s.
func (s SquareSet) IsSuperset(other SquareSet) bool { return other.IsSubset(s) }

// Mirror flips the set vertically, rank 1 <-> rank 8.
func (s SquareSet) Mirror() SquareSet { return SquareSet(flipVertical(uint64(s))) }

// ScanForward calls fn for every square in s, ascending.
func (s SquareSet) ScanForward(fn func(sq int)) { ScanForward(uint64(s), fn) }

// ScanReverse calls fn for every square in s, descending.
func (s SquareSet) ScanReverse(fn func(sq int)) { ScanReverse(uint64(s), fn) }

// Squares returns the squares in s, ascending, as a freshly allocated slice.
func (s SquareSet) Squares() []int { return Squares(uint64(s)) }

// Subsets enumerates every subset of s via the carry-rippler recurrence.
func (s SquareSet) Subsets(fn func(subset SquareSet)) {
	CarryRippler(uint64(s), func(subset uint64) { fn(SquareSet(subset)) })
}

var (
	rayDiag = [4]int{-9, -7, 7, 9}
	rayFile = [2]int{-8, 8}
	rayRank = [2]int{-1, 1}
)

var raysTable [64][64]uint64

func init() {
	var diagLine, fileLine, rankLine [64]uint64
	for sq := 0; sq < 64; sq++ {
		diagLine[sq] = slidingAttacks(sq, bbEmpty, rayDiag[:])
		fileLine[sq] = slidingAttacks(sq, bbEmpty, rayFile[:])
		rankLine[sq] = slidingAttacks(sq, bbEmpty, rayRank[:])
	}
	for a := 0; a < 64; a++ {
		bbA := uint64(1) << uint(a)
		for b := 0; b < 64; b++ {
			bbB := uint64(1) << uint(b)
			switch {
			case diagLine[a]&bbB != 0:
				raysTable[a][b] = (diagLine[a] & diagLine[b]) | bbA | bbB
			case rankLine[a]&bbB != 0:
				raysTable[a][b] = rankLine[a] | bbA
			case fileLine[a]&bbB != 0:
				raysTable[a][b] = fileLine[a] | bbA
			default:
				raysTable[a][b] = bbEmpty
			}
		}
	}
}

// Ray returns the full line (rank, file, or diagonal) running through both a
// and b, extended to the edges of the board. It is empty if a and b do not
// share a rank, file, or diagonal.
func Ray(a, b int) SquareSet { return SquareSet(raysTable[a][b]) }

// Between returns the squares strictly between a and b along the rank, file,
// or diagonal joining them, excluding both endpoints. It is empty if a and b
// are not aligned, or if they are adjacent.
func Between(a, b int) SquareSet {
	bb := raysTable[a][b] & ((bbAll << uint(a)) ^ (bbAll << uint(b)))
	return SquareSet(bb & (bb - 1))
}
