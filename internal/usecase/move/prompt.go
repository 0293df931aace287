package move

import (
	"fmt"
	"strings"

	"llm_move/internal/domain"
)

const SystemPrompt = `You are an expert Go player with deep knowledge of strategy, tactics, and joseki (opening patterns).

Analyze positions carefully considering:
- Group safety and liberty count
- Territory and influence balance
- Strategic direction of play
- Tactical move sequences
- Formation quality and efficiency

IMPORTANT: Go coordinates use letters A-H, J-T (the letter 'I' is skipped to avoid confusion with 1).
Valid coordinates: A1-T19 (excluding I). Examples: D4, K10, Q16 are valid. I4, I10 are INVALID.
`

const noMovesYet = "No moves yet (start of game)"

const userPromptTemplate = `You are playing Go on a %[1]dx%[1]d board.

Current Board State:
%[2]s

Move History:
%[3]s

You are playing as %[4]s.

Rules reminder:
- Empty intersections are marked with '.'
- Black stones are marked with 'X'
- White stones are marked with 'O'
- Coordinates use A-H, J-T (letter 'I' is NOT used). Examples: D4, K10, Q16
- You can play 'PASS' if no good move is available

Analyze the position and suggest your next move. Consider:
1. Taking opponent stones with only 1 liberty remaining
2. Defending your own groups with limited liberties
3. Building territory and influence
4. Creating strong formations

Think through the position step by step:
- What are the key areas on the board?
- What are the tactical opportunities?
- What move sequences did you consider?
- Why is your chosen move optimal?

Provide your response with:
- move_type: 'coordinate' for normal moves, 'pass' for passing, 'resign' if position is hopeless
- move: The actual coordinate (e.g., 'D4', 'K10') or 'PASS' or 'RESIGN'
- reasoning: Brief explanation of your choice
- thinking: Your detailed thought process`

// jsonInstruction is appended to the user prompt for models that take no response schema.
const jsonInstruction = "\n\nProvide your response in JSON format with fields: move_type, move, reasoning, thinking"

type Prompts struct {
	System string
	User   string
}

func formatHistory(history []string) string {
	if len(history) == 0 {
		return noMovesYet
	}
	var sb strings.Builder
	for i, m := range history {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d. %s", i+1, m)
	}
	return sb.String()
}

func BuildPrompts(boardText string, width int, history []string, color domain.Color) Prompts {
	colorName := fmt.Sprintf("%s (%s)", color.Name(), color.Glyph())
	return Prompts{
		System: SystemPrompt,
		User:   fmt.Sprintf(userPromptTemplate, width, boardText, formatHistory(history), colorName),
	}
}
