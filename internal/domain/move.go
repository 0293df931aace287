package domain

import (
	"regexp"
	"strings"
)

type Color int

const (
	Black Color = 1
	White Color = 2
)

func (c Color) Valid() bool {
	return c == Black || c == White
}

// Glyph is the board character used for the color's stones.
func (c Color) Glyph() string {
	if c == Black {
		return "X"
	}
	return "O"
}

func (c Color) Name() string {
	if c == Black {
		return "Black"
	}
	return "White"
}

type MoveType string

const (
	MoveTypeCoordinate MoveType = "coordinate"
	MoveTypePass       MoveType = "pass"
	MoveTypeResign     MoveType = "resign"
)

func (t MoveType) Known() bool {
	switch t {
	case MoveTypeCoordinate, MoveTypePass, MoveTypeResign:
		return true
	}
	return false
}

const (
	MovePass   = "PASS"
	MoveResign = "RESIGN"
)

// Cell codes of the board buffer.
const (
	CellEmpty    = 0
	CellBlack    = 1
	CellWhite    = 2
	CellOffBoard = 7
)

// ColumnLetters lists board columns left to right; I is never used.
const ColumnLetters = "ABCDEFGHJKLMNOPQRST"

var coordinateRe = regexp.MustCompile(`^[A-HJ-T](?:1[0-9]|[1-9])$`)

// IsValidMove reports whether move is an uppercase coordinate such as D4 or Q16, or PASS/RESIGN.
func IsValidMove(move string) bool {
	return move == MovePass || move == MoveResign || coordinateRe.MatchString(move)
}

// NormalizeMove trims and uppercases a move token.
func NormalizeMove(move string) string {
	return strings.ToUpper(strings.TrimSpace(move))
}

// Usage carries token counts reported by the model service.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens" bson:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens" bson:"completion_tokens"`
	ReasoningTokens  int64 `json:"reasoning_tokens,omitempty" bson:"reasoning_tokens,omitempty"`
	TotalTokens      int64 `json:"total_tokens" bson:"total_tokens"`
}

type MoveResult struct {
	MoveType   MoveType `json:"move_type" bson:"move_type"`
	Move       string   `json:"move" bson:"move"`
	Reasoning  string   `json:"reasoning" bson:"reasoning"`
	Thinking   string   `json:"thinking" bson:"thinking"`
	Confidence *int     `json:"confidence,omitempty" bson:"confidence,omitempty"`
	Tokens     Usage    `json:"tokens" bson:"tokens"`
}

// MoveRequest is one board snapshot to decide a move for. Board is indexed
// row*Stride+col with a one-cell off-board margin, so Stride is Width+2.
type MoveRequest struct {
	Board   []int    `json:"board"`
	Width   int      `json:"width"`
	Stride  int      `json:"stride"`
	History []string `json:"move_history"`
	Color   Color    `json:"color"`
}
