package move

import (
	"fmt"
	"strings"

	"llm_move/internal/domain"
	apperrors "llm_move/internal/errors"
)

const defaultHeaderWidth = 19

func columnHeader(width int) string {
	switch width {
	case 9, 13, 19:
	default:
		width = defaultHeaderWidth
	}
	letters := strings.Split(domain.ColumnLetters[:width], "")
	return "    " + strings.Join(letters, " ")
}

func SupportedWidth(width int) bool {
	return width == 9 || width == 13 || width == 19
}

// ValidateBoard checks the buffer layout FormatBoard relies on. In strict mode
// widths other than 9, 13 and 19 are rejected instead of getting the 19-wide header.
func ValidateBoard(board []int, width, stride int, strictWidth bool) error {
	if width <= 0 || width > len(domain.ColumnLetters) {
		return fmt.Errorf("%w: width %d", apperrors.ErrInvalidBoard, width)
	}
	if stride != width+2 {
		return fmt.Errorf("%w: stride %d, want %d", apperrors.ErrInvalidBoard, stride, width+2)
	}
	if len(board) < stride*stride {
		return fmt.Errorf("%w: %d cells, want at least %d", apperrors.ErrInvalidBoard, len(board), stride*stride)
	}
	if strictWidth && !SupportedWidth(width) {
		return fmt.Errorf("%w: %d", apperrors.ErrUnsupportedWidth, width)
	}
	return nil
}

func cellGlyph(cell int) string {
	switch {
	case cell == domain.CellOffBoard:
		return "."
	case cell&domain.CellBlack != 0:
		return "X"
	case cell&domain.CellWhite != 0:
		return "O"
	}
	return "."
}

// FormatBoard renders the playable area of board as a text grid with column
// letters on top and row numbers from width down to 1. The margin ring is skipped.
// The board must pass ValidateBoard.
func FormatBoard(board []int, width, stride int) string {
	lines := make([]string, 0, width+1)
	lines = append(lines, columnHeader(width))

	cells := make([]string, 0, width)
	for row := 1; row < stride-1; row++ {
		cells = cells[:0]
		for col := 1; col < stride-1; col++ {
			cells = append(cells, cellGlyph(board[row*stride+col]))
		}
		lines = append(lines, fmt.Sprintf("%2d  %s", width-row+1, strings.Join(cells, " ")))
	}
	return strings.Join(lines, "\n")
}
