package game

import (
	"errors"
	"net/http"
	"strconv"

	gamedto "zoo_roulette/internal/api/dto/game"
	"zoo_roulette/internal/config"
	"zoo_roulette/internal/converter"
	"zoo_roulette/internal/model"
	"zoo_roulette/internal/service"
	"zoo_roulette/pkg/req"
	"zoo_roulette/pkg/resp"
)

type Handler struct {
	gameService      service.GameService
	schedulerService service.SchedulerService
	gameCfg          config.GameConfig
}

func NewHandler(
	gameService service.GameService,
	schedulerService service.SchedulerService,
	gameCfg config.GameConfig,
) *Handler {
	return &Handler{
		gameService:      gameService,
		schedulerService: schedulerService,
		gameCfg:          gameCfg,
	}
}

// State - текущее состояние раунда и стола ставок
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	state, err := h.gameService.State(r.Context())
	if err != nil {
		resp.WriteJSONError(w, http.StatusInternalServerError, "failed to get game state")
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStateResponse(state))
}

// Bet - одиночная ставка на исход
func (h *Handler) Bet(w http.ResponseWriter, r *http.Request) {
	body, err := req.Decode[gamedto.PlaceWagerRequest](r.Body)
	if err != nil {
		resp.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	placed, err := h.gameService.PlaceWager(r.Context(), model.PlaceWager{
		Outcome: body.Animal,
		Amount:  body.Amount,
	})
	if err != nil {
		resp.WriteJSONError(w, statusFromError(err), err.Error())
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToPlaceWagerResponse(placed))
}

// BatchBets - замена всех ставок пользователя на раунд целиком
func (h *Handler) BatchBets(w http.ResponseWriter, r *http.Request) {
	body, err := req.Decode[gamedto.ReplaceWagersRequest](r.Body)
	if err != nil {
		resp.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	replaced, err := h.gameService.ReplaceWagers(r.Context(), body.Bets)
	if err != nil {
		resp.WriteJSONError(w, statusFromError(err), err.Error())
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToReplaceWagersResponse(replaced))
}

// History - завершенные раунды, для авторизованного пользователя вместе
// с его ставками и выплатами
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	rounds, err := h.gameService.History(r.Context(), limit, page)
	if err != nil {
		resp.WriteJSONError(w, http.StatusInternalServerError, "failed to get history")
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToHistoryResponse(rounds, h.gameCfg))
}

// Heartbeat - принудительный прогон обслуживающего цикла: расчет
// просроченных раундов и создание нового при необходимости
func (h *Handler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	if err := h.schedulerService.ProcessCycle(r.Context()); err != nil {
		resp.WriteJSONError(w, http.StatusInternalServerError, "cycle failed")
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, gamedto.HeartbeatResponse{Message: "ok"})
}

// Create - гарантирует наличие активного раунда
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	round, err := h.schedulerService.EnsureActiveRound(r.Context())
	if err != nil {
		resp.WriteJSONError(w, http.StatusInternalServerError, "failed to create round")
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToCreateRoundResponse(round))
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidAmount),
		errors.Is(err, model.ErrInvalidOutcome),
		errors.Is(err, model.ErrInsufficientBalance),
		errors.Is(err, model.ErrRoundClosed),
		errors.Is(err, model.ErrNoActiveRound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
