package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/badgeworks/affiliates/internal/service"
	"github.com/badgeworks/affiliates/pkg/response"
	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	stats service.StatsService
}

func NewStatsHandler(stats service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Monthly serves the sidebar click counter. Frontend templates sometimes
// ship with placeholder path values; those are a 400, not a panic.
func (h *StatsHandler) Monthly(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	year, yearErr := strconv.Atoi(c.Param("year"))
	month, monthErr := strconv.Atoi(c.Param("month"))
	if yearErr != nil || monthErr != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year/month value."})
		return
	}

	clicks, err := h.stats.TotalForMonth(c.Request.Context(), userID, year, time.Month(month))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Header("Cache-Control", "must-revalidate, max-age=3600")
	c.JSON(http.StatusOK, gin.H{"clicks": clicks})
}
