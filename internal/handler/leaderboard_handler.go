package handler

import (
	"net/http"

	"github.com/badgeworks/affiliates/internal/dto"
	"github.com/badgeworks/affiliates/internal/service"
	"github.com/badgeworks/affiliates/pkg/response"
	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboard service.LeaderboardService
}

func NewLeaderboardHandler(leaderboard service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

func (h *LeaderboardHandler) Leaderboard(c *gin.Context) {
	var filter dto.LeaderboardFilterRequest
	// A bad filter just means an unfiltered board.
	_ = c.ShouldBindQuery(&filter)

	topUsers, err := h.leaderboard.TopUsers(c.Request.Context(), filter.Country)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.HTML(http.StatusOK, "leaderboard.html", gin.H{
		"TopUsers": topUsers,
		"Country":  filter.Country,
	})
}
