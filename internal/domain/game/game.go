package game

import (
	"time"

	"llm_move/internal/domain"
)

const (
	HistoryFormatStandard = "standard"
	HistoryFormatSGF      = "sgf"
)

// Decision is one resolved move suggestion as archived.
type Decision struct {
	ID        string            `json:"id" bson:"_id"`
	GameID    string            `json:"game_id,omitempty" bson:"game_id,omitempty"`
	Model     string            `json:"model" bson:"model"`
	Color     domain.Color      `json:"color" bson:"color"`
	History   []string          `json:"move_history" bson:"move_history"`
	Result    domain.MoveResult `json:"result" bson:"result"`
	Attempts  int               `json:"attempts" bson:"attempts"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
}

type SuggestRequest struct {
	GameID  string       `json:"game_id,omitempty"`
	Board   []int        `json:"board"`
	Width   int          `json:"width"`
	Stride  int          `json:"stride"`
	History []string     `json:"move_history,omitempty"`
	Color   domain.Color `json:"color"`
	// HistoryFormat is "standard" (default) or "sgf" for two-letter SGF points.
	HistoryFormat string `json:"history_format,omitempty"`
}

type SuggestResponse struct {
	DecisionID string            `json:"decision_id"`
	Result     domain.MoveResult `json:"result"`
	Attempts   int               `json:"attempts"`
}

type RecordMoveRequest struct {
	Move string `json:"move"`
}

type HistoryResponse struct {
	GameID string   `json:"game_id"`
	Moves  []string `json:"moves"`
}
