package game

import (
	"fmt"

	"llm_move/internal/domain"
)

// sgfToStandard converts a two-letter SGF point ("dd") to a board coordinate
// ("D16" on 19x19). An empty point and "tt" are passes.
func sgfToStandard(sgfCoord string, boardSize int) (string, error) {
	if sgfCoord == "" || (sgfCoord == "tt" && boardSize <= 19) {
		return domain.MovePass, nil
	}
	if len(sgfCoord) != 2 {
		return "", fmt.Errorf("invalid sgf coordinate: %q", sgfCoord)
	}
	col := int(sgfCoord[0] - 'a')
	row := int(sgfCoord[1] - 'a')
	if sgfCoord[0] < 'a' || sgfCoord[1] < 'a' || col >= boardSize || row >= boardSize || col >= len(domain.ColumnLetters) {
		return "", fmt.Errorf("sgf coordinate is off the board: %q", sgfCoord)
	}
	return fmt.Sprintf("%c%d", domain.ColumnLetters[col], boardSize-row), nil
}

func sgfHistoryToStandard(history []string, boardSize int) ([]string, error) {
	out := make([]string, 0, len(history))
	for _, point := range history {
		coord, err := sgfToStandard(point, boardSize)
		if err != nil {
			return nil, err
		}
		out = append(out, coord)
	}
	return out, nil
}
