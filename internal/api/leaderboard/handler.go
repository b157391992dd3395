package leaderboard

import (
	"net/http"
	"strconv"

	lbdto "zoo_roulette/internal/api/dto/leaderboard"
	"zoo_roulette/internal/converter"
	"zoo_roulette/internal/service"
	"zoo_roulette/pkg/resp"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	leaderboardService service.LeaderboardService
}

func NewHandler(leaderboardService service.LeaderboardService) *Handler {
	return &Handler{leaderboardService: leaderboardService}
}

// Top - пользователи с наибольшим балансом, ?limit= для размера выборки
func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, err := h.leaderboardService.Top(r.Context(), limit)
	if err != nil {
		resp.WriteJSONError(w, http.StatusInternalServerError, "failed to get leaderboard")
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToTopResponse(users))
}

// Rank - позиция пользователя среди всех игроков
func (h *Handler) Rank(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		resp.WriteJSONError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	rank, total, err := h.leaderboardService.Rank(r.Context(), userID)
	if err != nil {
		resp.WriteJSONError(w, http.StatusNotFound, "user not found")
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, lbdto.RankResponse{Rank: rank, Total: total})
}
