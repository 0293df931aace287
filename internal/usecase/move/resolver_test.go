package move

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"llm_move/internal/domain"
	apperrors "llm_move/internal/errors"
)

type fakeLlm struct {
	model    string
	reply    domain.CompletionReply
	err      error
	requests []domain.CompletionRequest
}

func (f *fakeLlm) Model() string { return f.model }

func (f *fakeLlm) Complete(_ context.Context, req domain.CompletionRequest) (domain.CompletionReply, error) {
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

func newTestResolver(llm LlmStore, opts Options) (*Resolver, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewResolver(llm, zap.New(core).Sugar(), opts), logs
}

func testRequest() domain.MoveRequest {
	board := newBoard(9)
	place(board, 9, "E5", domain.CellBlack)
	return domain.MoveRequest{
		Board:   board,
		Width:   9,
		Stride:  11,
		History: []string{"E5"},
		Color:   domain.White,
	}
}

func TestSelectMode(t *testing.T) {
	assert.Equal(t, "free_form", SelectMode("o1-preview", DefaultReasoningPatterns).Name())
	assert.Equal(t, "free_form", SelectMode("My-Reasoning-Deployment", DefaultReasoningPatterns).Name())
	assert.Equal(t, "structured", SelectMode("gpt-4o", DefaultReasoningPatterns).Name())
	assert.Equal(t, "structured", SelectMode("gpt-4o", []string{"", "  "}).Name())
	assert.Equal(t, "free_form", SelectMode("o3-mini", []string{"o3"}).Name())
}

func TestResolveStructured(t *testing.T) {
	llm := &fakeLlm{
		model: "gpt-4o",
		reply: domain.CompletionReply{
			Content: `{"move_type":"coordinate","move":"c3","reasoning":"approach","thinking":null,"confidence":null}`,
			Usage:   domain.Usage{PromptTokens: 400, CompletionTokens: 50, TotalTokens: 450},
		},
	}
	r, logs := newTestResolver(llm, Options{})

	res, err := r.Resolve(context.Background(), testRequest())

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "C3", res.Move)
	assert.Equal(t, domain.MoveTypeCoordinate, res.MoveType)
	assert.Nil(t, res.Confidence)
	assert.Equal(t, "", res.Thinking)
	assert.Equal(t, int64(450), res.Tokens.TotalTokens)

	require.Len(t, llm.requests, 1)
	req := llm.requests[0]
	assert.Equal(t, SystemPrompt, req.System)
	require.NotNil(t, req.Schema)
	assert.Equal(t, MoveResponseSchema.Name, req.Schema.Name)
	assert.Equal(t, 0.7, req.Temperature)
	assert.EqualValues(t, 1000, req.MaxTokens)
	assert.False(t, req.Reasoning)
	assert.Contains(t, req.User, " 5  . . . . X . . . .")
	assert.Contains(t, req.User, "1. E5")

	entries := logs.FilterMessage("llm suggested move").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "structured", fields["mode"])
	assert.Equal(t, "C3", fields["move"])
	assert.Equal(t, "approach", fields["reasoning"])
	assert.EqualValues(t, 400, fields["prompt_tokens"])
}

func TestResolveFreeFormJSON(t *testing.T) {
	llm := &fakeLlm{
		model: "o1-mini",
		reply: domain.CompletionReply{Content: `{"move_type":"coordinate","move":"d4","reasoning":"star point","thinking":"opening"}`},
	}
	r, _ := newTestResolver(llm, Options{})

	res, err := r.Resolve(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, "D4", res.Move)
	assert.Equal(t, domain.MoveTypeCoordinate, res.MoveType)
	assert.Equal(t, "star point", res.Reasoning)
	assert.Equal(t, "opening", res.Thinking)

	req := llm.requests[0]
	assert.Empty(t, req.System)
	assert.Nil(t, req.Schema)
	assert.Equal(t, 1.0, req.Temperature)
	assert.EqualValues(t, 5000, req.MaxTokens)
	assert.True(t, req.Reasoning)
	assert.Contains(t, req.User, "JSON format with fields: move_type, move, reasoning, thinking")
}

func TestResolveFreeFormFallback(t *testing.T) {
	raw := "I recommend K10 here"
	llm := &fakeLlm{model: "o1", reply: domain.CompletionReply{Content: raw, Thinking: "hidden"}}
	r, logs := newTestResolver(llm, Options{})

	res, err := r.Resolve(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, "K10", res.Move)
	assert.Equal(t, raw, res.Reasoning)
	assert.Equal(t, "", res.Thinking)
	assert.Equal(t, 1, logs.FilterMessage("could not parse JSON reply, recovered move from text").Len())
}

func TestResolveFreeFormUnparseable(t *testing.T) {
	raw := "I would rather not say."
	llm := &fakeLlm{model: "o1", reply: domain.CompletionReply{Content: raw}}
	r, logs := newTestResolver(llm, Options{})

	res, err := r.Resolve(context.Background(), testRequest())

	assert.Nil(t, res)
	assert.Equal(t, apperrors.KindUnparseable, apperrors.KindOf(err))
	entries := logs.FilterField(zap.String("failure_kind", "unparseable")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, raw, entries[0].ContextMap()["raw_reply"])
}

func TestResolveStructuredDecodeFault(t *testing.T) {
	llm := &fakeLlm{model: "gpt-4o", reply: domain.CompletionReply{Content: "K10"}}
	r, logs := newTestResolver(llm, Options{})

	res, err := r.Resolve(context.Background(), testRequest())

	assert.Nil(t, res)
	assert.Equal(t, apperrors.KindStructuredDecode, apperrors.KindOf(err))
	assert.Equal(t, 1, logs.FilterField(zap.String("failure_kind", "structured_decode")).Len())
}

func TestResolveClassifiesServiceFailures(t *testing.T) {
	cases := []struct {
		err       error
		kind      apperrors.Kind
		retryable bool
		level     zapcore.Level
	}{
		{apperrors.NewFailure(apperrors.KindContentPolicy, errors.New("content_filter")), apperrors.KindContentPolicy, true, zapcore.WarnLevel},
		{apperrors.NewFailure(apperrors.KindTransport, errors.New("401 unauthorized")), apperrors.KindTransport, false, zapcore.ErrorLevel},
		{context.DeadlineExceeded, apperrors.KindTransport, false, zapcore.ErrorLevel},
	}
	for _, tc := range cases {
		llm := &fakeLlm{model: "gpt-4o", err: tc.err}
		r, logs := newTestResolver(llm, Options{})

		res, err := r.Resolve(context.Background(), testRequest())

		assert.Nil(t, res)
		assert.Equal(t, tc.kind, apperrors.KindOf(err))
		assert.Equal(t, tc.retryable, apperrors.IsRetryable(err))
		entries := logs.FilterField(zap.String("failure_kind", string(tc.kind))).All()
		require.Len(t, entries, 1)
		assert.Equal(t, tc.level, entries[0].Level)
		assert.Equal(t, tc.retryable, entries[0].ContextMap()["retryable"])
	}
}

func TestResolveInvalidInput(t *testing.T) {
	llm := &fakeLlm{model: "gpt-4o"}
	r, _ := newTestResolver(llm, Options{StrictWidth: true})

	req := testRequest()
	req.Color = 3
	_, err := r.Resolve(context.Background(), req)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
	assert.ErrorIs(t, err, apperrors.ErrInvalidColor)

	req = testRequest()
	req.Stride = 10
	_, err = r.Resolve(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidBoard)

	req = domain.MoveRequest{Board: newBoard(7), Width: 7, Stride: 9, Color: domain.Black}
	_, err = r.Resolve(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedWidth)

	assert.Empty(t, llm.requests)
}

func TestResolvePassesUnknownMoveType(t *testing.T) {
	llm := &fakeLlm{model: "o1", reply: domain.CompletionReply{Content: `{"move_type":"tenuki","move":"q4"}`}}
	r, logs := newTestResolver(llm, Options{})

	res, err := r.Resolve(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, domain.MoveType("tenuki"), res.MoveType)
	assert.Equal(t, "Q4", res.Move)
	assert.Equal(t, 1, logs.FilterMessage("unrecognized move type passed through").Len())
}

func TestResolveFreeFormRejectsInvalidJSONMove(t *testing.T) {
	for _, content := range []string{`{"move":"I4"}`, `{"move":"play the 3-4 point"}`} {
		llm := &fakeLlm{model: "o1", reply: domain.CompletionReply{Content: content}}
		r, _ := newTestResolver(llm, Options{})

		res, err := r.Resolve(context.Background(), testRequest())

		assert.Nil(t, res, content)
		assert.Equal(t, apperrors.KindUnparseable, apperrors.KindOf(err), content)
	}
}

func TestResolveFreeFormInvalidJSONMoveFallsBackToText(t *testing.T) {
	raw := `{"move":"I4","reasoning":"I meant J4 next to the stone"}`
	llm := &fakeLlm{model: "o1", reply: domain.CompletionReply{Content: raw}}
	r, _ := newTestResolver(llm, Options{})

	res, err := r.Resolve(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, "J4", res.Move)
	assert.Equal(t, raw, res.Reasoning)
}

func TestResolveStructuredRejectsInvalidMove(t *testing.T) {
	llm := &fakeLlm{model: "gpt-4o", reply: domain.CompletionReply{
		Content: `{"move_type":"coordinate","move":"z99","reasoning":"r","thinking":null,"confidence":null}`,
	}}
	r, _ := newTestResolver(llm, Options{})

	res, err := r.Resolve(context.Background(), testRequest())

	assert.Nil(t, res)
	assert.Equal(t, apperrors.KindStructuredDecode, apperrors.KindOf(err))
}

func TestResolvedMovesMatchGrammar(t *testing.T) {
	replies := map[string]string{
		"gpt-4o": `{"move_type":"coordinate","move":" t19 ","reasoning":"r","thinking":null,"confidence":null}`,
		"o1":     `{"move":"resign"}`,
		"o1-pro": "maybe a1 then",
	}
	for model, content := range replies {
		llm := &fakeLlm{model: model, reply: domain.CompletionReply{Content: content}}
		r, _ := newTestResolver(llm, Options{})

		res, err := r.Resolve(context.Background(), testRequest())

		require.NoError(t, err, model)
		assert.True(t, domain.IsValidMove(res.Move), res.Move)
	}
}
