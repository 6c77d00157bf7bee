package goosemg

import (
	"strconv"
	"strings"
)

// FENStartPos is the FEN string for the standard initial chess position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// pieceFromChar converts a FEN character to the corresponding Piece constant.
func pieceFromChar(ch rune) Piece {
	switch ch {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

// charFromPiece converts a Piece constant to its FEN character representation.
func charFromPiece(p Piece) rune {
	switch p {
	case WhitePawn:
		return 'P'
	case WhiteKnight:
		return 'N'
	case WhiteBishop:
		return 'B'
	case WhiteRook:
		return 'R'
	case WhiteQueen:
		return 'Q'
	case WhiteKing:
		return 'K'
	case BlackPawn:
		return 'p'
	case BlackKnight:
		return 'n'
	case BlackBishop:
		return 'b'
	case BlackRook:
		return 'r'
	case BlackQueen:
		return 'q'
	case BlackKing:
		return 'k'
	default:
		return '?' // should not happen for valid pieces
	}
}

// ParseFEN parses a FEN string and returns a new Board set up to that position.
// Accepts both standard castling fields (KQkq) and Shredder/Chess960 file-letter
// fields; the board's Chess960 flag is set automatically in the latter case.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Split(strings.TrimSpace(fen), " ")
	if len(fields) < 4 {
		return nil, newError(ErrInvalidFen, "not enough fields: %q", fen)
	}

	board := &Board{}
	board.enPassantSquare = NoSquare

	if err := board.setBoardFEN(fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		board.sideToMove = White
	case "b":
		board.sideToMove = Black
	default:
		return nil, newError(ErrInvalidFen, "side to move must be 'w' or 'b', got %q", fields[1])
	}

	if err := board.parseCastlingField(fields[2]); err != nil {
		return nil, err
	}

	if fields[3] != "-" {
		if len(fields[3]) != 2 {
			return nil, newError(ErrInvalidFen, "invalid en passant square %q", fields[3])
		}
		fileChar := fields[3][0]
		rankChar := fields[3][1]
		if fileChar < 'a' || fileChar > 'h' || rankChar < '1' || rankChar > '8' {
			return nil, newError(ErrInvalidFen, "en passant square out of range: %q", fields[3])
		}
		file := int(fileChar - 'a')
		rank := int(rankChar - '1')
		board.enPassantSquare = Square(rank*8 + file)
	} else {
		board.enPassantSquare = NoSquare
	}

	if len(fields) > 4 {
		halfmove, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, newError(ErrInvalidFen, "halfmove clock is not a number: %q", fields[4])
		}
		board.halfmoveClock = halfmove
	}

	if len(fields) > 5 {
		fullmove, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, newError(ErrInvalidFen, "fullmove number is not a number: %q", fields[5])
		}
		board.fullmoveNumber = fullmove
	} else {
		board.fullmoveNumber = 1
	}

	board.zobristKey = board.ComputeZobrist()
	return board, nil
}

// setBoardFEN parses the piece-placement field of a FEN string, including the
// '~' suffix marking a piece as reached its square by promotion.
func (b *Board) setBoardFEN(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return newError(ErrInvalidFen, "expected 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		if len(rankStr) == 0 {
			return newError(ErrInvalidFen, "empty rank description")
		}
		rankIndex := 7 - i
		file := 0
		runes := []rune(rankStr)
		prevWasDigit := false
		for j := 0; j < len(runes); j++ {
			ch := runes[j]
			if ch >= '1' && ch <= '8' {
				if prevWasDigit {
					return newError(ErrInvalidFen, "consecutive digits in rank %q", rankStr)
				}
				prevWasDigit = true
				file += int(ch - '0')
				continue
			}
			prevWasDigit = false
			piece := pieceFromChar(ch)
			if piece == NoPiece {
				return newError(ErrInvalidFen, "unrecognized piece character %q", string(ch))
			}
			if file >= 8 {
				return newError(ErrInvalidFen, "too many squares in rank %q", rankStr)
			}
			sq := Square(rankIndex*8 + file)
			b.addPiece(sq, piece)
			if j+1 < len(runes) && runes[j+1] == '~' {
				b.SetPromoted(sq, true)
				j++
			}
			file++
		}
		if file != 8 {
			return newError(ErrInvalidFen, "rank %q does not have 8 columns", rankStr)
		}
	}
	return nil
}

// parseCastlingField interprets the castling-availability field of a FEN
// string. "KQkq"-style characters refer to the outermost rook on the
// matching side of each king; single file letters (Shredder/Chess960
// notation) name the rook's home file directly and switch the board into
// Chess960 mode.
func (b *Board) parseCastlingField(field string) error {
	b.castlingRights = NoCastlingRights
	if field == "-" {
		return nil
	}
	for _, ch := range field {
		switch ch {
		case 'K':
			if err := b.castlingFromStandard(White, true); err != nil {
				return err
			}
		case 'Q':
			if err := b.castlingFromStandard(White, false); err != nil {
				return err
			}
		case 'k':
			if err := b.castlingFromStandard(Black, true); err != nil {
				return err
			}
		case 'q':
			if err := b.castlingFromStandard(Black, false); err != nil {
				return err
			}
		case 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H':
			b.chess960 = true
			sq := Square(int(ch-'A')) // rank 1
			if b.pieces[sq] != WhiteRook {
				return newError(ErrInvalidFen, "no white rook on castling file %q", string(ch))
			}
			b.castlingRights = b.castlingRights.With(sq)
		case 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h':
			b.chess960 = true
			sq := Square(56 + int(ch-'a'))
			if b.pieces[sq] != BlackRook {
				return newError(ErrInvalidFen, "no black rook on castling file %q", string(ch))
			}
			b.castlingRights = b.castlingRights.With(sq)
		default:
			return newError(ErrInvalidFen, "invalid castling rights character %q", string(ch))
		}
	}
	return nil
}

func (b *Board) castlingFromStandard(color Color, kingside bool) error {
	king := b.King(color)
	if king == NoSquare {
		return newError(ErrInvalidFen, "no king to assign castling rights to")
	}
	rank := 0
	if color == Black {
		rank = 7
	}
	rook := PieceFromType(color, PieceTypeRook)
	for f := 0; f < 8; f++ {
		file := f
		if kingside {
			file = 7 - f // scan from h-file inward
		}
		sq := Square(rank*8 + file)
		if b.pieces[sq] != rook {
			continue
		}
		onRightSide := file > int(king)%8
		if onRightSide != kingside {
			continue
		}
		b.castlingRights = b.castlingRights.With(sq)
		return nil
	}
	return newError(ErrInvalidFen, "no rook found for castling right")
}

// ToFEN produces the FEN string representation of the board's current state.
// Castling rights are emitted in Shredder (file-letter) notation when the
// board is in Chess960 mode, standard KQkq notation otherwise.
func (b *Board) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		emptyCount := 0
		for file := 0; file < 8; file++ {
			sq := rank*8 + file
			p := b.pieces[sq]
			if p == NoPiece {
				emptyCount++
				continue
			}
			if emptyCount > 0 {
				sb.WriteByte('0' + byte(emptyCount))
				emptyCount = 0
			}
			sb.WriteRune(charFromPiece(p))
			if b.Promoted(Square(sq)) {
				sb.WriteByte('~')
			}
		}
		if emptyCount > 0 {
			sb.WriteByte('0' + byte(emptyCount))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')

	if b.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')

	sb.WriteString(b.castlingFieldString())
	sb.WriteByte(' ')

	if b.enPassantSquare != NoSquare {
		file := b.enPassantSquare % 8
		rank := b.enPassantSquare / 8
		sb.WriteByte('a' + byte(file))
		sb.WriteByte('1' + byte(rank))
	} else {
		sb.WriteByte('-')
	}
	sb.WriteByte(' ')

	sb.WriteString(strconv.Itoa(b.halfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullmoveNumber))
	return sb.String()
}

func (b *Board) castlingFieldString() string {
	if b.castlingRights == NoCastlingRights {
		return "-"
	}
	var sb strings.Builder
	if b.chess960 {
		var whiteFiles, blackFiles []int
		ScanForward(uint64(b.castlingRights), func(sq int) {
			if sq < 8 {
				whiteFiles = append(whiteFiles, sq)
			} else {
				blackFiles = append(blackFiles, sq-56)
			}
		})
		for _, f := range whiteFiles {
			sb.WriteByte('A' + byte(f))
		}
		for _, f := range blackFiles {
			sb.WriteByte('a' + byte(f))
		}
		return sb.String()
	}
	king := b.King(White)
	if rookSq, ok := b.castlingRights.ForColor(White).RookSquare(king, true); ok {
		_ = rookSq
		sb.WriteByte('K')
	}
	if rookSq, ok := b.castlingRights.ForColor(White).RookSquare(king, false); ok {
		_ = rookSq
		sb.WriteByte('Q')
	}
	king = b.King(Black)
	if rookSq, ok := b.castlingRights.ForColor(Black).RookSquare(king, true); ok {
		_ = rookSq
		sb.WriteByte('k')
	}
	if rookSq, ok := b.castlingRights.ForColor(Black).RookSquare(king, false); ok {
		_ = rookSq
		sb.WriteByte('q')
	}
	return sb.String()
}
