package move

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"llm_move/internal/domain/game"
	"llm_move/internal/httpresponse"
	"llm_move/internal/utils"
)

type Suggester interface {
	SuggestMove(ctx context.Context, req game.SuggestRequest) (*game.SuggestResponse, error)
}

// MoveHandler serves stateless suggestions: the caller sends the whole
// position and history.
type MoveHandler struct {
	log *zap.SugaredLogger
	uc  Suggester
}

func NewMoveHandler(log *zap.SugaredLogger, uc Suggester) *MoveHandler {
	return &MoveHandler{log: log, uc: uc}
}

func (h *MoveHandler) HandleSuggestMove(w http.ResponseWriter, r *http.Request) {
	var req game.SuggestRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Debugw("bad suggest request", "error", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc+": "+err.Error())
		return
	}
	req.GameID = ""

	resp, err := h.uc.SuggestMove(r.Context(), req)
	if err != nil {
		httpresponse.WriteFailure(w, h.log, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}
