package move

import "llm_move/internal/domain"

// MoveResponseSchema mirrors MoveResult without token usage. thinking and
// confidence are nullable so the model may leave them out.
var MoveResponseSchema = domain.ResponseSchema{
	Name:        "go_move_response",
	Description: "A single Go move decision",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"move_type": map[string]any{
				"type":        "string",
				"enum":        []any{"coordinate", "pass", "resign"},
				"description": "Type of move being made",
			},
			"move": map[string]any{
				"type":        "string",
				"description": "The coordinate like 'D4', 'K10', or special move like 'PASS', 'RESIGN'",
			},
			"reasoning": map[string]any{
				"type":        "string",
				"description": "Brief explanation of the move choice",
			},
			"thinking": map[string]any{
				"type":        []any{"string", "null"},
				"description": "Detailed step-by-step thinking process",
			},
			"confidence": map[string]any{
				"type":        []any{"integer", "null"},
				"minimum":     1,
				"maximum":     10,
				"description": "Confidence in this move (1-10)",
			},
		},
		"required":             []any{"move_type", "move", "reasoning", "thinking", "confidence"},
		"additionalProperties": false,
	},
}
