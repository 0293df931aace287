package move

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"llm_move/internal/domain"
)

var (
	errMissingField  = errors.New("missing required field")
	errEmptyMove     = errors.New("empty move")
	errInvalidMove   = errors.New("move is not a board coordinate, PASS or RESIGN")
	errNoMoveInReply = errors.New("no move found in reply")
)

type structuredReply struct {
	MoveType   *string `json:"move_type"`
	Move       *string `json:"move"`
	Reasoning  *string `json:"reasoning"`
	Thinking   *string `json:"thinking"`
	Confidence *int    `json:"confidence"`
}

// decodeStructured reads a schema-constrained reply. The service already
// enforced the shape, so any mismatch here is reported as an error, not repaired.
func decodeStructured(content string) (domain.MoveResult, error) {
	var reply structuredReply
	decoder := json.NewDecoder(strings.NewReader(content))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&reply); err != nil {
		return domain.MoveResult{}, fmt.Errorf("invalid JSON: %w", err)
	}
	switch {
	case reply.MoveType == nil:
		return domain.MoveResult{}, fmt.Errorf("%w: move_type", errMissingField)
	case reply.Move == nil:
		return domain.MoveResult{}, fmt.Errorf("%w: move", errMissingField)
	case reply.Reasoning == nil:
		return domain.MoveResult{}, fmt.Errorf("%w: reasoning", errMissingField)
	}

	result := domain.MoveResult{
		MoveType:  domain.MoveType(*reply.MoveType),
		Move:      domain.NormalizeMove(*reply.Move),
		Reasoning: *reply.Reasoning,
	}
	if result.Move == "" {
		return domain.MoveResult{}, errEmptyMove
	}
	if !domain.IsValidMove(result.Move) {
		return domain.MoveResult{}, fmt.Errorf("%w: %q", errInvalidMove, result.Move)
	}
	if reply.Thinking != nil {
		result.Thinking = *reply.Thinking
	}
	if reply.Confidence != nil {
		if *reply.Confidence < 1 || *reply.Confidence > 10 {
			return domain.MoveResult{}, fmt.Errorf("confidence %d out of range", *reply.Confidence)
		}
		c := *reply.Confidence
		result.Confidence = &c
	}
	return result, nil
}

type freeFormReply struct {
	MoveType   string   `json:"move_type"`
	Move       string   `json:"move"`
	Reasoning  string   `json:"reasoning"`
	Thinking   string   `json:"thinking"`
	Confidence *float64 `json:"confidence"`
}

// parseStrict is the first stage for free-form replies: the whole reply must
// be a JSON object naming a valid move. Anything else is left to recoverMove.
func parseStrict(content string) (domain.MoveResult, bool) {
	var reply freeFormReply
	if err := json.Unmarshal(bytes.TrimSpace([]byte(content)), &reply); err != nil {
		return domain.MoveResult{}, false
	}
	move := domain.NormalizeMove(reply.Move)
	if !domain.IsValidMove(move) {
		return domain.MoveResult{}, false
	}

	moveType := domain.MoveType(reply.MoveType)
	if moveType == "" {
		moveType = inferMoveType(move)
	}
	result := domain.MoveResult{
		MoveType:  moveType,
		Move:      move,
		Reasoning: reply.Reasoning,
		Thinking:  reply.Thinking,
	}
	if c := reply.Confidence; c != nil && *c == math.Trunc(*c) && *c >= 1 && *c <= 10 {
		v := int(*c)
		result.Confidence = &v
	}
	return result, true
}

var fallbackMoveRe = regexp.MustCompile(`(?i)\b(?:[A-HJ-T](?:1[0-9]|[1-9])|PASS)\b`)

// recoverMove is the second stage: take the first coordinate or PASS token
// anywhere in the reply and keep the whole reply as reasoning.
func recoverMove(content string) (domain.MoveResult, bool) {
	token := fallbackMoveRe.FindString(content)
	if token == "" {
		return domain.MoveResult{}, false
	}
	move := domain.NormalizeMove(token)
	return domain.MoveResult{
		MoveType:  inferMoveType(move),
		Move:      move,
		Reasoning: content,
	}, true
}

func inferMoveType(move string) domain.MoveType {
	switch move {
	case domain.MovePass:
		return domain.MoveTypePass
	case domain.MoveResign:
		return domain.MoveTypeResign
	}
	return domain.MoveTypeCoordinate
}
