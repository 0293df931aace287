package game

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"llm_move/internal/domain/game"
	"llm_move/internal/httpresponse"
	"llm_move/internal/utils"
)

type GameService interface {
	SuggestMove(ctx context.Context, req game.SuggestRequest) (*game.SuggestResponse, error)
	RecordMove(ctx context.Context, gameID, move string) ([]string, error)
	History(ctx context.Context, gameID string) ([]string, error)
	ClearGame(ctx context.Context, gameID string) error
	Decisions(ctx context.Context, gameID string, limit int64) ([]game.Decision, error)
}

type GameHandler struct {
	log    *zap.SugaredLogger
	gameUC GameService
}

func NewGameHandler(log *zap.SugaredLogger, gameUC GameService) *GameHandler {
	return &GameHandler{log: log, gameUC: gameUC}
}

// Routes mounts the game endpoints under /games.
func (g *GameHandler) Routes(r chi.Router) {
	r.Route("/games/{gameID}", func(r chi.Router) {
		r.Delete("/", g.HandleClearGame)
		r.Post("/moves", g.HandleRecordMove)
		r.Get("/moves", g.HandleHistory)
		r.Post("/suggest", g.HandleSuggest)
		r.Get("/decisions", g.HandleDecisions)
	})
}

func (g *GameHandler) HandleRecordMove(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	var req game.RecordMoveRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc+": "+err.Error())
		return
	}

	moves, err := g.gameUC.RecordMove(r.Context(), gameID, req.Move)
	if err != nil {
		httpresponse.WriteFailure(w, g.log, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, game.HistoryResponse{GameID: gameID, Moves: moves})
}

func (g *GameHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	moves, err := g.gameUC.History(r.Context(), gameID)
	if err != nil {
		httpresponse.WriteFailure(w, g.log, err)
		return
	}
	if moves == nil {
		moves = []string{}
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, game.HistoryResponse{GameID: gameID, Moves: moves})
}

func (g *GameHandler) HandleClearGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	if err := g.gameUC.ClearGame(r.Context(), gameID); err != nil {
		httpresponse.WriteFailure(w, g.log, err)
		return
	}
	g.log.Infow("game cleared", "game_id", gameID)
	w.WriteHeader(http.StatusNoContent)
}

func (g *GameHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	var req game.SuggestRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc+": "+err.Error())
		return
	}
	req.GameID = chi.URLParam(r, "gameID")

	resp, err := g.gameUC.SuggestMove(r.Context(), req)
	if err != nil {
		httpresponse.WriteFailure(w, g.log, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (g *GameHandler) HandleDecisions(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	decisions, err := g.gameUC.Decisions(r.Context(), gameID, limit)
	if err != nil {
		httpresponse.WriteFailure(w, g.log, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, decisions)
}
